// Package wire holds the JSON contracts spoken between the platform services
// and their clients.
package wire

import (
	"time"

	"github.com/oapi-codegen/nullable"
)

// ErrorResponse is the envelope every non-identity service writes on failure.
type ErrorResponse struct {
	Message string `json:"message"`
	// FieldErrors lists per-field validation messages, most relevant first.
	FieldErrors []string  `json:"__error__,omitempty"`
	Error       ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code      string                            `json:"code"`
	Message   string                            `json:"message"`
	Details   nullable.Nullable[map[string]any] `json:"details,omitempty"`
	RequestID nullable.Nullable[string]         `json:"requestId,omitempty"`
}

type Notification struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Status    string         `json:"status"`
	Content   string         `json:"content"`
	Data      map[string]any `json:"data,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	ReadAt    *time.Time     `json:"read_at"`
}

// MarkNotificationRequest is the PATCH body for a notification. A missing or
// null read_at means "now".
type MarkNotificationRequest struct {
	Status string                       `json:"status,omitempty"`
	ReadAt nullable.Nullable[time.Time] `json:"read_at,omitempty"`
}

type MarkAllReadResponse struct {
	Updated int `json:"updated"`
}

type UnreadCountResponse struct {
	Count int `json:"count"`
}

type Wallet struct {
	ID              string    `json:"id"`
	ProfileID       string    `json:"profile_id"`
	Status          string    `json:"status"`
	Currency        string    `json:"currency"`
	CurrentBalance  float64   `json:"current_balance"`
	PendingIncoming float64   `json:"pending_incoming_balance"`
	PendingOutgoing float64   `json:"pending_outcoming_balance"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type Transaction struct {
	ID        string    `json:"id"`
	WalletID  string    `json:"wallet_id"`
	Type      string    `json:"type"`
	Status    string    `json:"status"`
	Amount    float64   `json:"amount"`
	CreatedAt time.Time `json:"created_at"`
}

type AddFundsRequest struct {
	Amount float64 `json:"amount"`
}

type Document struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
}

type Investment struct {
	ID        string     `json:"id"`
	ProfileID string     `json:"profile_id"`
	OfferName string     `json:"offer_name"`
	Amount    float64    `json:"amount"`
	Shares    int64      `json:"number_of_shares"`
	Status    string     `json:"status"`
	Documents []Document `json:"documents"`
	CreatedAt time.Time  `json:"created_at"`
}

type AccreditationFile struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Accreditation struct {
	ProfileID string              `json:"profile_id"`
	Status    string              `json:"status"`
	Note      string              `json:"notes,omitempty"`
	Files     []AccreditationFile `json:"files"`
	UpdatedAt *time.Time          `json:"updated_at,omitempty"`
}
