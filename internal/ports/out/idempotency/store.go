package idempotency

import (
	"context"
	"time"

	"github.com/webdevelop-pro/invest-common-sub001/internal/domain"
)

// Key is the caller-provided idempotency key (Idempotency-Key header).
type Key string

// Fingerprint scopes a key to one subject and route, e.g.
// "POST /wallet/wallets/{walletId}/fund".
type Fingerprint struct {
	Key     Key
	Subject domain.SubjectID
	Route   string
}

// Record is the stored outcome of the first request made with a key.
// BodyHash lets handlers reject a reused key carrying a different payload.
type Record struct {
	BodyHash    string
	StatusCode  int
	ContentType string
	Body        []byte
	CreatedAt   time.Time
}

// Pending reports whether rec is a reservation whose request is still
// running.
func (r Record) Pending() bool { return r.StatusCode == 0 }

// Store persists idempotency records for replaying responses on retries.
type Store interface {
	Get(ctx context.Context, fp Fingerprint) (Record, bool, error)
	// Reserve stores rec unless fp already has a record. It reports whether
	// rec was stored and otherwise returns the existing record.
	Reserve(ctx context.Context, fp Fingerprint, rec Record) (Record, bool, error)
	Put(ctx context.Context, fp Fingerprint, rec Record) error
	// Release drops the record for fp so the key can be used again.
	Release(ctx context.Context, fp Fingerprint) error
	// Purge drops records created before the cutoff and reports how many went.
	Purge(ctx context.Context, before time.Time) (int, error)
}
