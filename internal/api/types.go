package api

import "time"

// Warranty status values computed by the backend.
const (
	StatusActive   = "active"
	StatusExpiring = "expiring"
	StatusExpired  = "expired"
)

// FreeReceiptLimit is the receipt cap for the free tier. The backend enforces
// it; the client only reflects it in the fallback subscription.
const FreeReceiptLimit = 10

// Receipt is a purchase record with warranty metadata
type Receipt struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	Store          string    `json:"store"`
	Item           string    `json:"item"`
	PurchaseDate   time.Time `json:"purchase_date"`
	WarrantyExpiry time.Time `json:"warranty_expiry"`
	Amount         float64   `json:"amount"`
	Currency       string    `json:"currency"`
	Status         string    `json:"status"` // active, expiring, expired
	OriginalEmail  string    `json:"original_email,omitempty"`
	ParsedData     string    `json:"parsed_data,omitempty"` // JSON string of extracted data
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CreateReceiptRequest is the payload for creating or replacing a receipt.
// Dates use the YYYY-MM-DD wire format.
type CreateReceiptRequest struct {
	Store          string  `json:"store"`
	Item           string  `json:"item"`
	PurchaseDate   string  `json:"purchase_date"`
	WarrantyExpiry string  `json:"warranty_expiry"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency,omitempty"`
	OriginalEmail  string  `json:"original_email,omitempty"`
}

// ParsedReceiptData is the extraction result for email, PDF and link parsing
type ParsedReceiptData struct {
	Store          string  `json:"store"`
	Item           string  `json:"item"`
	PurchaseDate   string  `json:"purchase_date"`
	WarrantyExpiry string  `json:"warranty_expiry"`
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	Confidence     float64 `json:"confidence"` // 0-1
}

// UserEmail is a forwarding address attached to the account
type UserEmail struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	Verified  bool      `json:"verified"`
	IsPrimary bool      `json:"is_primary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Subscription is the entitlement snapshot the backend exposes
type Subscription struct {
	IsPremium    bool       `json:"is_premium"`
	Plan         string     `json:"plan"`
	Status       string     `json:"status,omitempty"`
	ReceiptLimit int        `json:"receipt_limit"`
	ReceiptCount int        `json:"receipt_count"`
	ExpiresAt    *time.Time `json:"expires_at,omitempty"`
}

// FreeSubscription is the hardcoded default returned when every subscription
// lookup source fails
func FreeSubscription() Subscription {
	return Subscription{
		IsPremium:    false,
		Plan:         "free",
		ReceiptLimit: FreeReceiptLimit,
		ReceiptCount: 0,
	}
}

// FeedbackRequest is the payload for the feedback endpoint
type FeedbackRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// ReceiptsResponse wraps the receipts list. The backend may embed the
// caller's subscription snapshot alongside the list.
type ReceiptsResponse struct {
	Receipts     []Receipt     `json:"receipts"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// EmailsResponse wraps the forwarding-address list
type EmailsResponse struct {
	Emails []UserEmail `json:"emails"`
}

// AddEmailResponse is returned when a forwarding address is added; the
// backend sends the verification email itself.
type AddEmailResponse struct {
	Message string    `json:"message"`
	Email   UserEmail `json:"email"`
}

// MessageResponse is the generic acknowledgement shape
type MessageResponse struct {
	Message string `json:"message"`
}

// PhotoUploadResponse acknowledges a receipt photo upload
type PhotoUploadResponse struct {
	Message  string `json:"message"`
	PhotoURL string `json:"photo_url"`
}

// MeResponse describes the current identity. Subscription is present only
// when the backend embeds it.
type MeResponse struct {
	UserID       string        `json:"user_id"`
	Email        string        `json:"email"`
	Username     string        `json:"username"`
	Subscription *Subscription `json:"subscription,omitempty"`
}

// HealthResponse is the health probe body
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness probe body
type ReadyResponse struct {
	Ready bool `json:"ready"`
}

// LiveResponse is the liveness probe body
type LiveResponse struct {
	Alive bool `json:"alive"`
}

// DashboardStats is the admin dashboard payload
type DashboardStats struct {
	TotalReceipts       int            `json:"total_receipts"`
	ActiveSubscriptions int            `json:"active_subscriptions"`
	BMCLinkedUsers      int            `json:"bmc_linked_users"`
	ReceiptsByStatus    map[string]int `json:"receipts_by_status"`
	Timestamp           time.Time      `json:"timestamp"`
}

// DashboardResponse is the admin dashboard envelope
type DashboardResponse struct {
	Status string         `json:"status"`
	Data   DashboardStats `json:"data"`
}

// AdminSubscription is a subscription row as the admin endpoint reports it
type AdminSubscription struct {
	ID                 string     `json:"id"`
	UserID             *string    `json:"user_id"`
	ClerkUserID        *string    `json:"clerk_user_id"`
	Plan               string     `json:"plan"`
	Status             string     `json:"status"`
	CurrentPeriodStart *time.Time `json:"current_period_start"`
	CurrentPeriodEnd   *time.Time `json:"current_period_end"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// AdminSubscriptionsResponse lists subscriptions, newest first
type AdminSubscriptionsResponse struct {
	Status string              `json:"status"`
	Count  int                 `json:"count"`
	Data   []AdminSubscription `json:"data"`
}

// BMCUser is a linked sponsor-platform username
type BMCUser struct {
	ClerkUserID string    `json:"clerk_user_id"`
	BMCUsername string    `json:"bmc_username"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BMCUsersResponse lists linked sponsor usernames
type BMCUsersResponse struct {
	Status string    `json:"status"`
	Count  int       `json:"count"`
	Data   []BMCUser `json:"data"`
}

// AdminActionResponse is the envelope for grant/revoke/link operations
type AdminActionResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// SystemInfoResponse carries environment diagnostics keyed by subsystem
type SystemInfoResponse struct {
	Status string         `json:"status"`
	Data   map[string]any `json:"data"`
}
