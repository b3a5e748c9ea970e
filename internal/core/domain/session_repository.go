package domain

import (
	"context"
	"time"
)

// SessionRow represents a session record. The id is the opaque high-entropy
// token carried by the client cookie.
type SessionRow struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
}

// SessionRepository defines the data-access contract for session operations.
// The Postgres implementation lives in internal/core/repository; a Redis
// implementation is available for deployments that keep sessions out of the
// primary database.
type SessionRepository interface {
	// Create inserts a new session.
	Create(ctx context.Context, s SessionRow) error

	// Get looks up a session by id.
	// Returns (nil, nil) when the id does not match any session.
	Get(ctx context.Context, id string) (*SessionRow, error)

	// UpdateExpiry extends the session's expiry. Updating an absent session
	// is a no-op.
	UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error

	// Delete removes the session. Deleting an absent session is a no-op.
	Delete(ctx context.Context, id string) error
}
