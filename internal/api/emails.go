package api

import (
	"context"
	"net/http"
	"net/url"
)

// ListEmails returns the caller's forwarding addresses
func (c *Client) ListEmails(ctx context.Context) (*EmailsResponse, error) {
	var resp EmailsResponse
	if err := c.get(ctx, "/emails", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddEmail registers a forwarding address. The backend sends the
// verification email; the client performs no verification itself.
func (c *Client) AddEmail(ctx context.Context, email string) (*AddEmailResponse, error) {
	var resp AddEmailResponse
	if err := c.post(ctx, "/emails", map[string]string{"email": email}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteEmail removes a forwarding address
func (c *Client) DeleteEmail(ctx context.Context, emailID string) (*MessageResponse, error) {
	var resp MessageResponse
	opts := requestOptions{method: http.MethodDelete}
	if err := c.request(ctx, "/emails/"+url.PathEscape(emailID), opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SetPrimaryEmail marks a verified address as the primary one
func (c *Client) SetPrimaryEmail(ctx context.Context, emailID string) (*MessageResponse, error) {
	var resp MessageResponse
	err := c.post(ctx, "/emails/"+url.PathEscape(emailID)+"/set-primary", nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResendVerification asks the backend to resend the verification email
func (c *Client) ResendVerification(ctx context.Context, emailID string) (*MessageResponse, error) {
	var resp MessageResponse
	err := c.post(ctx, "/emails/"+url.PathEscape(emailID)+"/resend-verification", nil, &resp)
	if err != nil {
		return nil, err
	}
	return &resp, nil
}
