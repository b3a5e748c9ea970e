// Package v1 provides the business logic for API version 1.
//
// Functions in this package return sentinel errors wrapped with context via
// fmt.Errorf("...: %w", err). The web layer matches them with errors.Is and
// is the only place where they are translated to HTTP status codes; no
// internal error detail crosses that boundary.
package v1

import "errors"

var (
	// ErrInvalidCredentials covers every credential failure: unknown
	// username, user without a password credential, or wrong password.
	// Collapsing them prevents username enumeration.
	// HTTP Status: 401 Unauthorized
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUsernameTaken indicates the username already exists.
	// HTTP Status: 409 Conflict
	ErrUsernameTaken = errors.New("username already taken")

	// ErrBrokerNotFound indicates the broker id does not exist for the user.
	// HTTP Status: 404 Not Found
	ErrBrokerNotFound = errors.New("broker not found")

	// ErrBrokerExists indicates the user already has a broker with that name.
	// HTTP Status: 409 Conflict
	ErrBrokerExists = errors.New("broker already exists")
)
