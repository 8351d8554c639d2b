package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

// apiPrefix is the fixed versioned prefix joined onto every endpoint path
const apiPrefix = "/api/v1"

// TokenSource supplies the bearer token for a single request. Tokens are
// short-lived, so the client asks for a fresh one per call instead of
// caching a mutable token field. A source may return an empty token to
// issue the request unauthenticated.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Client is the single point of contact with the Retreat backend. It builds
// requests against a configured base URL, attaches credentials from its
// TokenSource and normalizes every failure into *Error. It performs no
// retries; cancellation and timeouts come from the caller's context.
type Client struct {
	baseURL    string
	tokens     TokenSource
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client with the default HTTP client and logger.
// tokens may be nil for unauthenticated use.
func NewClient(baseURL string, tokens TokenSource) *Client {
	return NewClientWithDeps(baseURL, tokens, nil, nil)
}

// NewClientWithDeps creates a Client with custom dependencies for testing
func NewClientWithDeps(baseURL string, tokens TokenSource, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		tokens:     tokens,
		httpClient: httpClient,
		logger:     logger,
	}
}

// requestOptions shape a single request issued through the generic primitive
type requestOptions struct {
	method  string
	query   url.Values
	headers http.Header // caller headers win over the defaults
	body    any         // JSON-encoded when non-nil
	rawBody []byte      // sent verbatim when non-nil (multipart uploads)
}

// request is the generic primitive every endpoint method delegates to. It
// joins baseURL + /api/v1 + endpoint, attaches the JSON content type, the
// bearer token when the source yields one and a request id, issues the
// call and decodes a 2xx body into out. Non-2xx responses become *Error
// and are logged before being returned.
func (c *Client) request(ctx context.Context, endpoint string, opts requestOptions, out any) error {
	resolved := c.baseURL + apiPrefix + endpoint
	if len(opts.query) > 0 {
		resolved += "?" + opts.query.Encode()
	}

	var body io.Reader
	switch {
	case opts.rawBody != nil:
		body = bytes.NewReader(opts.rawBody)
	case opts.body != nil:
		encoded, err := json.Marshal(opts.body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		body = bytes.NewReader(encoded)
	}

	method := opts.method
	if method == "" {
		method = http.MethodGet
	}

	req, err := http.NewRequestWithContext(ctx, method, resolved, body)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.tokens != nil {
		token, err := c.tokens.Token(ctx)
		if err != nil {
			return fmt.Errorf("getting auth token: %w", err)
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for key, values := range opts.headers {
		req.Header.Del(key)
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("API request failed",
			"endpoint", endpoint,
			"url", resolved,
			"error", err,
		)
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(resp.Body)
		apiErr := errorFromBody(resp.StatusCode, respBody)
		c.logger.Error("API request failed",
			"endpoint", endpoint,
			"url", resolved,
			"status", resp.StatusCode,
			"error", apiErr.Message,
		)
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// get issues a GET and decodes the response into out
func (c *Client) get(ctx context.Context, endpoint string, out any) error {
	return c.request(ctx, endpoint, requestOptions{method: http.MethodGet}, out)
}

// post issues a POST with a JSON body and decodes the response into out
func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	return c.request(ctx, endpoint, requestOptions{method: http.MethodPost, body: body}, out)
}

// Health checks the backend health probe
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.get(ctx, "/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Ready checks the backend readiness probe
func (c *Client) Ready(ctx context.Context) (*ReadyResponse, error) {
	var resp ReadyResponse
	if err := c.get(ctx, "/ready", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Live checks the backend liveness probe
func (c *Client) Live(ctx context.Context) (*LiveResponse, error) {
	var resp LiveResponse
	if err := c.get(ctx, "/live", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Me returns the current identity, with the subscription embedded when the
// backend provides it
func (c *Client) Me(ctx context.Context) (*MeResponse, error) {
	var resp MeResponse
	if err := c.get(ctx, "/me", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendFeedback submits a structured feedback message
func (c *Client) SendFeedback(ctx context.Context, req FeedbackRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.post(ctx, "/feedback", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// LinkBMCUsername links the caller's own sponsor-platform username
func (c *Client) LinkBMCUsername(ctx context.Context, bmcUsername string) (*MessageResponse, error) {
	var resp MessageResponse
	err := c.post(ctx, "/bmc/link-username", map[string]string{"bmc_username": bmcUsername}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
