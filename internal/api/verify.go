package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// VerifyEmail consumes an email-verification link. The link carries its own
// token, so this bypasses the typed client: plain GET, no auth header. It
// returns the backend's confirmation message.
func VerifyEmail(ctx context.Context, baseURL, token string) (string, error) {
	resolved := strings.TrimRight(baseURL, "/") + apiPrefix + "/verify-email/" + url.PathEscape(token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return "", fmt.Errorf("building request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", errorFromBody(resp.StatusCode, body)
	}

	var result struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	if result.Error != "" {
		return "", &Error{Status: resp.StatusCode, Message: result.Error}
	}
	return result.Message, nil
}
