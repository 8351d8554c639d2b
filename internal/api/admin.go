package api

import (
	"context"
	"net/url"
)

// Admin endpoints. The backend authorizes these; the client just shapes the
// requests.

// AdminDashboard returns aggregate statistics
func (c *Client) AdminDashboard(ctx context.Context) (*DashboardResponse, error) {
	var resp DashboardResponse
	if err := c.get(ctx, "/admin/dashboard", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminSubscriptions lists subscriptions, optionally filtered by status
func (c *Client) AdminSubscriptions(ctx context.Context, status string) (*AdminSubscriptionsResponse, error) {
	opts := requestOptions{}
	if status != "" {
		opts.query = url.Values{"status": {status}}
	}
	var resp AdminSubscriptionsResponse
	if err := c.request(ctx, "/admin/subscriptions", opts, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GrantSubscription grants a premium subscription for the given number of
// months. The backend treats a non-positive duration as one month.
func (c *Client) GrantSubscription(ctx context.Context, clerkUserID string, durationMonths int) (*AdminActionResponse, error) {
	body := map[string]any{
		"clerk_user_id":   clerkUserID,
		"duration_months": durationMonths,
	}
	var resp AdminActionResponse
	if err := c.post(ctx, "/admin/subscriptions/grant", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RevokeSubscription cancels the user's active premium subscription
func (c *Client) RevokeSubscription(ctx context.Context, clerkUserID string) (*AdminActionResponse, error) {
	body := map[string]string{"clerk_user_id": clerkUserID}
	var resp AdminActionResponse
	if err := c.post(ctx, "/admin/subscriptions/revoke", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminBMCUsers lists linked sponsor-platform usernames
func (c *Client) AdminBMCUsers(ctx context.Context) (*BMCUsersResponse, error) {
	var resp BMCUsersResponse
	if err := c.get(ctx, "/admin/bmc/users", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminLinkBMCUsername links a sponsor-platform username to any user
func (c *Client) AdminLinkBMCUsername(ctx context.Context, clerkUserID, bmcUsername string) (*AdminActionResponse, error) {
	body := map[string]string{
		"clerk_user_id": clerkUserID,
		"bmc_username":  bmcUsername,
	}
	var resp AdminActionResponse
	if err := c.post(ctx, "/admin/bmc/link-username", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AdminSystemInfo returns environment diagnostics
func (c *Client) AdminSystemInfo(ctx context.Context) (*SystemInfoResponse, error) {
	var resp SystemInfoResponse
	if err := c.get(ctx, "/admin/system-info", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
