package domain

import (
	"context"
	"time"
)

// BrokerRow represents a broker record owned by a user.
type BrokerRow struct {
	ID            string
	UserID        string
	Name          string
	AccountNumber string
	Currency      string
	CreatedAt     time.Time
}

// BrokerUpdate carries a partial update; nil fields are left unchanged.
type BrokerUpdate struct {
	Name          *string
	AccountNumber *string
	Currency      *string
}

// BrokerRepository defines the data-access contract for broker operations.
// All operations are scoped to the owning user.
type BrokerRepository interface {
	// ListByUser returns all brokers owned by the user, oldest first.
	ListByUser(ctx context.Context, userID string) ([]BrokerRow, error)

	// GetByID returns the user's broker with the given id.
	// Returns (nil, nil) when no such broker exists.
	GetByID(ctx context.Context, userID, id string) (*BrokerRow, error)

	// Create inserts a new broker. Returns ErrDuplicate when the user
	// already has a broker with the same name.
	Create(ctx context.Context, b BrokerRow) error

	// Update applies a partial update and returns the updated row.
	// Returns (nil, nil) when no such broker exists and ErrDuplicate when
	// the new name collides with another broker of the same user.
	Update(ctx context.Context, userID, id string, upd BrokerUpdate) (*BrokerRow, error)

	// Delete removes the broker, reporting whether a row was deleted.
	Delete(ctx context.Context, userID, id string) (bool, error)
}
