package domain

import "context"

// UserRow represents a user record returned from the database.
// HashedPassword is the password credential joined from user_auth; it is
// empty when the user has no password credential, which the Logic layer
// must treat as invalid credentials rather than a distinct condition.
type UserRow struct {
	ID             string
	Username       string
	HashedPassword string
}

// NewUser carries everything needed to create a user together with its
// password credential. IDs are generated by the caller so the insert is a
// single round trip.
type NewUser struct {
	ID             string
	Username       string
	CredentialID   string
	HashedPassword string
}

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// GetByUsername returns the user matching the given username, with its
	// password credential joined in. Returns (nil, nil) when no user is found.
	GetByUsername(ctx context.Context, username string) (*UserRow, error)

	// GetByID returns the user with the given id.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id string) (*UserRow, error)

	// CreateWithCredential inserts the user and its credential atomically:
	// either both rows are persisted or neither is. Returns ErrDuplicate
	// when the username is already taken.
	CreateWithCredential(ctx context.Context, u NewUser) error
}
