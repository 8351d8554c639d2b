package api

import "context"

// subscriptionSource is one strategy for finding the caller's subscription.
// It returns (nil, nil) when it succeeded but found no subscription.
type subscriptionSource struct {
	name  string
	fetch func(ctx context.Context) (*Subscription, error)
}

// Subscription resolves the caller's subscription through an ordered list
// of sources: the /me endpoint's embedded field, then the receipts-list
// embedded field, then the hardcoded free-tier default. Subscription state
// is exposed by more than one endpoint and the client must tolerate partial
// backend evolution, so each source failure is logged and skipped; the
// method never returns an error.
func (c *Client) Subscription(ctx context.Context) Subscription {
	sources := []subscriptionSource{
		{name: "me", fetch: c.subscriptionFromMe},
		{name: "receipts", fetch: c.subscriptionFromReceipts},
	}

	for _, src := range sources {
		sub, err := src.fetch(ctx)
		if err != nil {
			c.logger.Warn("subscription lookup failed",
				"source", src.name,
				"error", err,
			)
			continue
		}
		if sub != nil {
			return *sub
		}
	}

	return FreeSubscription()
}

func (c *Client) subscriptionFromMe(ctx context.Context) (*Subscription, error) {
	me, err := c.Me(ctx)
	if err != nil {
		return nil, err
	}
	return me.Subscription, nil
}

func (c *Client) subscriptionFromReceipts(ctx context.Context) (*Subscription, error) {
	resp, err := c.ListReceipts(ctx)
	if err != nil {
		return nil, err
	}
	return resp.Subscription, nil
}
