package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/peterbourgon/ff/v4"
	"golang.org/x/term"

	"github.com/temidaradev/retreat/internal/api"
	"github.com/temidaradev/retreat/internal/auth"
	"github.com/temidaradev/retreat/internal/export"
	"github.com/temidaradev/retreat/internal/media"
	"github.com/temidaradev/retreat/internal/vault"
)

// readToken reads a token without echo when stdin is a terminal, and from
// the pipe otherwise
func readToken() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Paste token: ")
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("reading token: %w", err)
		}
		return strings.TrimSpace(string(data)), nil
	}

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading token: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func newLoginCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	return &ff.Command{
		Name:      "login",
		Usage:     "retreat login",
		ShortHelp: "Save a bearer token for later commands",
		Flags:     ff.NewFlagSet("login").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			token, err := readToken()
			if err != nil {
				return err
			}
			if token == "" {
				return fmt.Errorf("no token provided")
			}
			file := auth.NewFileToken(cfg.tokenFile)
			if err := file.Save(token); err != nil {
				return err
			}
			fmt.Printf("token saved to %s\n", cfg.tokenFile)
			return nil
		},
	}
}

func newLogoutCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	return &ff.Command{
		Name:      "logout",
		Usage:     "retreat logout",
		ShortHelp: "Remove the saved token",
		Flags:     ff.NewFlagSet("logout").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if err := auth.NewFileToken(cfg.tokenFile).Clear(); err != nil {
				return err
			}
			fmt.Println("logged out")
			return nil
		},
	}
}

func newHealthCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	return &ff.Command{
		Name:      "health",
		Usage:     "retreat health",
		ShortHelp: "Check backend health",
		Flags:     ff.NewFlagSet("health").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.Health(ctx)
			if err != nil {
				return err
			}
			fmt.Println(resp.Status)
			return nil
		},
	}
}

func newWhoamiCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	return &ff.Command{
		Name:      "whoami",
		Usage:     "retreat whoami",
		ShortHelp: "Show the current identity",
		Flags:     ff.NewFlagSet("whoami").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			me, err := client.Me(ctx)
			if err != nil {
				return err
			}
			return printJSON(me)
		},
	}
}

func newParseCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	email := &ff.Command{
		Name:      "email",
		Usage:     "retreat parse email FILE",
		ShortHelp: "Extract receipt data from a saved email",
		Flags:     ff.NewFlagSet("parse email").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat parse email FILE")
			}
			content, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading email file: %w", err)
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			parsed, err := client.ParseEmail(ctx, string(content))
			if err != nil {
				return err
			}
			return printJSON(parsed)
		},
	}

	pdf := &ff.Command{
		Name:      "pdf",
		Usage:     "retreat parse pdf FILE",
		ShortHelp: "Extract receipt data from a PDF",
		Flags:     ff.NewFlagSet("parse pdf").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat parse pdf FILE")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading PDF file: %w", err)
			}
			encoded, err := media.EncodePDF(data)
			if err != nil {
				return err
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			parsed, err := client.ParsePDF(ctx, encoded)
			if err != nil {
				return err
			}
			return printJSON(parsed)
		},
	}

	link := &ff.Command{
		Name:      "link",
		Usage:     "retreat parse link URL",
		ShortHelp: "Parse a link and create a receipt in one step",
		Flags:     ff.NewFlagSet("parse link").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat parse link URL")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			receiptID, err := client.ParseLink(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("created receipt %s\n", receiptID)
			return nil
		},
	}

	return &ff.Command{
		Name:        "parse",
		Usage:       "retreat parse SUBCOMMAND ...",
		ShortHelp:   "Submit content for extraction",
		Flags:       ff.NewFlagSet("parse").SetParent(parent),
		Subcommands: []*ff.Command{email, pdf, link},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}
}

func newSubscriptionCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	return &ff.Command{
		Name:      "subscription",
		Usage:     "retreat subscription",
		ShortHelp: "Show the current subscription",
		Flags:     ff.NewFlagSet("subscription").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			sub := client.Subscription(ctx)
			fmt.Printf("plan: %s\n", sub.Plan)
			fmt.Printf("premium: %t\n", sub.IsPremium)
			fmt.Printf("receipts: %d/%d\n", sub.ReceiptCount, sub.ReceiptLimit)
			if sub.ExpiresAt != nil {
				fmt.Printf("expires: %s\n", sub.ExpiresAt.Format(dateFormat))
			}
			return nil
		},
	}
}

func newSyncCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	return &ff.Command{
		Name:      "sync",
		Usage:     "retreat sync",
		ShortHelp: "Snapshot receipts, emails and subscription into the offline vault",
		Flags:     ff.NewFlagSet("sync").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()

			receipts, err := client.ListReceipts(ctx)
			if err != nil {
				return fmt.Errorf("fetching receipts: %w", err)
			}
			emails, err := client.ListEmails(ctx)
			if err != nil {
				return fmt.Errorf("fetching emails: %w", err)
			}
			sub := client.Subscription(ctx)

			v, err := vault.Open(cfg.vaultPath)
			if err != nil {
				return err
			}
			defer v.Close()

			if err := v.PutReceipts(receipts.Receipts); err != nil {
				return fmt.Errorf("caching receipts: %w", err)
			}
			if err := v.PutEmails(emails.Emails); err != nil {
				return fmt.Errorf("caching emails: %w", err)
			}
			if err := v.PutSubscription(sub); err != nil {
				return fmt.Errorf("caching subscription: %w", err)
			}
			if err := v.SetLastSync(time.Now()); err != nil {
				return fmt.Errorf("recording sync time: %w", err)
			}

			fmt.Printf("synced %d receipts, %d emails\n", len(receipts.Receipts), len(emails.Emails))
			return nil
		},
	}
}

func newExportCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	exportFlags := ff.NewFlagSet("export").SetParent(parent)
	format := exportFlags.StringLong("format", "csv", "Output format: csv, json or pdf")
	out := exportFlags.StringLong("out", "", "Output file (default stdout)")
	cached := exportFlags.BoolLong("cached", "Export the offline vault instead of fetching")

	return &ff.Command{
		Name:      "export",
		Usage:     "retreat export [--format csv|json|pdf] [--out FILE]",
		ShortHelp: "Export receipts (premium feature)",
		Flags:     exportFlags,
		Exec: func(ctx context.Context, args []string) error {
			var list []api.Receipt
			if *cached {
				v, err := vault.Open(cfg.vaultPath)
				if err != nil {
					return err
				}
				defer v.Close()
				cachedReceipts, err := v.Receipts()
				if err != nil {
					return err
				}
				sub, err := v.Subscription()
				if err != nil {
					return err
				}
				if sub == nil || !sub.IsPremium {
					return fmt.Errorf("export is a premium feature, become a sponsor to unlock it")
				}
				list = cachedReceipts
			} else {
				client, err := cfg.client()
				if err != nil {
					return err
				}
				ctx, cancel := cfg.requestContext(ctx)
				defer cancel()
				sub := client.Subscription(ctx)
				if !sub.IsPremium {
					return fmt.Errorf("export is a premium feature, become a sponsor to unlock it")
				}
				resp, err := client.ListReceipts(ctx)
				if err != nil {
					return err
				}
				list = resp.Receipts
			}

			var w io.Writer = os.Stdout
			if *out != "" {
				f, err := os.Create(*out)
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			switch *format {
			case "csv":
				return export.CSV(w, list)
			case "json":
				return export.JSON(w, list)
			case "pdf":
				return export.PDF(w, list)
			default:
				return fmt.Errorf("unknown format %q, want csv, json or pdf", *format)
			}
		},
	}
}

func newFeedbackCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	feedbackFlags := ff.NewFlagSet("feedback").SetParent(parent)
	name := feedbackFlags.StringLong("name", "", "Your name")
	email := feedbackFlags.StringLong("email", "", "Reply-to address")
	subject := feedbackFlags.StringLong("subject", "", "Subject line")
	message := feedbackFlags.StringLong("message", "", "Message body")

	return &ff.Command{
		Name:      "feedback",
		Usage:     "retreat feedback --name N --email E --subject S --message M",
		ShortHelp: "Send feedback to the team",
		Flags:     feedbackFlags,
		Exec: func(ctx context.Context, args []string) error {
			if *subject == "" || *message == "" {
				return fmt.Errorf("subject and message are required")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.SendFeedback(ctx, api.FeedbackRequest{
				Name:    *name,
				Email:   *email,
				Subject: *subject,
				Message: *message,
			})
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}
}

func newBMCCommand(cfg *appConfig, parent *ff.FlagSet) *ff.Command {
	link := &ff.Command{
		Name:      "link",
		Usage:     "retreat bmc link USERNAME",
		ShortHelp: "Link your Buy Me a Coffee username for sponsor verification",
		Flags:     ff.NewFlagSet("bmc link").SetParent(parent),
		Exec: func(ctx context.Context, args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("usage: retreat bmc link USERNAME")
			}
			client, err := cfg.client()
			if err != nil {
				return err
			}
			ctx, cancel := cfg.requestContext(ctx)
			defer cancel()
			resp, err := client.LinkBMCUsername(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Println(resp.Message)
			return nil
		},
	}

	return &ff.Command{
		Name:        "bmc",
		Usage:       "retreat bmc SUBCOMMAND ...",
		ShortHelp:   "Sponsor-platform linkage",
		Flags:       ff.NewFlagSet("bmc").SetParent(parent),
		Subcommands: []*ff.Command{link},
		Exec: func(ctx context.Context, args []string) error {
			return ff.ErrHelp
		},
	}
}
