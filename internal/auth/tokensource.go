// Package auth provides token sources for the API client. The backend's
// auth provider issues short-lived JWT bearer tokens; the client asks a
// source for a fresh token on every request.
package auth

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TimeSource provides the current time
type TimeSource interface {
	Now() time.Time
}

// defaultTimeSource provides the current time
type defaultTimeSource struct{}

func (t *defaultTimeSource) Now() time.Time {
	return time.Now()
}

// StaticToken always yields the same token. An empty value yields
// unauthenticated requests.
type StaticToken string

func (s StaticToken) Token(_ context.Context) (string, error) {
	return string(s), nil
}

// FileToken reads the token from a file on every call and rejects tokens
// whose JWT exp claim has passed. Signature verification stays server-side;
// the expiry check only exists to fail fast with a useful message instead
// of a 401.
type FileToken struct {
	Path       string
	timeSource TimeSource
}

// NewFileToken creates a FileToken with the real clock
func NewFileToken(path string) *FileToken {
	return &FileToken{Path: path, timeSource: &defaultTimeSource{}}
}

// NewFileTokenWithDeps creates a FileToken with a custom time source for testing
func NewFileTokenWithDeps(path string, timeSource TimeSource) *FileToken {
	return &FileToken{Path: path, timeSource: timeSource}
}

func (f *FileToken) Token(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("no saved token at %s, run login first", f.Path)
		}
		return "", fmt.Errorf("reading token file: %w", err)
	}

	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("token file %s is empty", f.Path)
	}

	if expiry, ok := tokenExpiry(token); ok && f.timeSource.Now().After(expiry) {
		return "", fmt.Errorf("saved token expired at %s, run login again", expiry.Format(time.RFC3339))
	}

	return token, nil
}

// Save writes a token to the file, creating parent directories. The file is
// user-readable only.
func (f *FileToken) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0700); err != nil {
		return fmt.Errorf("creating token directory: %w", err)
	}
	if err := os.WriteFile(f.Path, []byte(strings.TrimSpace(token)+"\n"), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Clear removes the saved token
func (f *FileToken) Clear() error {
	err := os.Remove(f.Path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

// tokenExpiry extracts the exp claim from a JWT without verifying the
// signature. Non-JWT tokens report no expiry.
func tokenExpiry(token string) (time.Time, bool) {
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	expiry, err := claims.GetExpirationTime()
	if err != nil || expiry == nil {
		return time.Time{}, false
	}
	return expiry.Time, true
}
