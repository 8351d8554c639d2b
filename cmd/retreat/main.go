package main

import (
	_ "embed"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/temidaradev/retreat/internal/api"
	"github.com/temidaradev/retreat/internal/auth"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

// appConfig holds the root flags shared by every subcommand
type appConfig struct {
	apiURL    string
	token     string
	tokenFile string
	vaultPath string
	timeout   time.Duration
}

func defaultPath(file string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return file
	}
	return filepath.Join(home, ".retreat", file)
}

// tokenSource picks the credential source: an explicit --token wins, then
// the saved token file
func (c *appConfig) tokenSource() api.TokenSource {
	if c.token != "" {
		return auth.StaticToken(c.token)
	}
	return auth.NewFileToken(c.tokenFile)
}

func (c *appConfig) client() (*api.Client, error) {
	if c.apiURL == "" {
		return nil, fmt.Errorf("API base URL is required (--api-url or RETREAT_API_URL)")
	}
	return api.NewClient(c.apiURL, c.tokenSource()), nil
}

// requestContext derives the per-command context; every API call inherits
// its timeout and the interrupt cancellation
func (c *appConfig) requestContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

func printJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func main() {
	// Check for version flag before parsing other flags
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	// Best-effort .env load, same convention as the backend
	_ = godotenv.Load()

	cfg := &appConfig{}

	rootFlags := ff.NewFlagSet("retreat")
	rootFlags.StringVar(&cfg.apiURL, 0, "api-url", "http://localhost:8080", "Backend base URL")
	rootFlags.StringVar(&cfg.token, 0, "token", "", "Bearer token (overrides the saved token)")
	rootFlags.StringVar(&cfg.tokenFile, 0, "token-file", defaultPath("token"), "Saved token path")
	rootFlags.StringVar(&cfg.vaultPath, 0, "vault", defaultPath("vault.db"), "Offline vault path")
	rootFlags.DurationVar(&cfg.timeout, 0, "timeout", 30*time.Second, "Per-command request timeout")

	root := &ff.Command{
		Name:      "retreat",
		Usage:     "retreat [FLAGS] SUBCOMMAND ...",
		ShortHelp: "Track receipts and warranties from the command line",
		Flags:     rootFlags,
		Subcommands: []*ff.Command{
			newLoginCommand(cfg, rootFlags),
			newLogoutCommand(cfg, rootFlags),
			newHealthCommand(cfg, rootFlags),
			newWhoamiCommand(cfg, rootFlags),
			newReceiptsCommand(cfg, rootFlags),
			newParseCommand(cfg, rootFlags),
			newEmailsCommand(cfg, rootFlags),
			newVerifyEmailCommand(cfg, rootFlags),
			newSubscriptionCommand(cfg, rootFlags),
			newSyncCommand(cfg, rootFlags),
			newExportCommand(cfg, rootFlags),
			newFeedbackCommand(cfg, rootFlags),
			newBMCCommand(cfg, rootFlags),
			newAdminCommand(cfg, rootFlags),
		},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	err := root.ParseAndRun(ctx, os.Args[1:],
		ff.WithEnvVarPrefix("RETREAT"),
	)
	switch {
	case err == nil:
	case errors.Is(err, ff.ErrHelp):
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Command(root))
	default:
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
