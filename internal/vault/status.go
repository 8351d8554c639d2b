package vault

import (
	"time"

	"github.com/temidaradev/retreat/internal/api"
)

// ExpiringWindow is how close a warranty expiry has to be before a receipt
// counts as expiring
const ExpiringWindow = 30 * 24 * time.Hour

// StatusAt classifies a warranty expiry relative to now. It mirrors the
// backend's derived status so cached receipts can still show a sensible
// value between syncs.
func StatusAt(warrantyExpiry, now time.Time) string {
	switch {
	case warrantyExpiry.Before(now):
		return api.StatusExpired
	case warrantyExpiry.Sub(now) <= ExpiringWindow:
		return api.StatusExpiring
	default:
		return api.StatusActive
	}
}
