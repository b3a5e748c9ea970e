package v1

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trading-journal/internal/core/domain"
	"trading-journal/middleware"
)

// AuthService implements signup and login business rules.
// It depends on repository interfaces (injected via constructor) and
// MUST NOT access the database or SQL directly.
type AuthService struct {
	users domain.UserRepository
}

// NewAuthService creates a new AuthService with the given repository dependency.
func NewAuthService(users domain.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Login verifies the user's credentials and returns the user summary.
// Unknown username, missing password credential, and wrong password all
// yield ErrInvalidCredentials so responses cannot be used to probe for
// account existence.
func (s *AuthService) Login(ctx context.Context, req domain.LoginRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.login", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	row, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query user: %w", err)
	}
	if row == nil || row.HashedPassword == "" {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return nil, fmt.Errorf("authenticate user: %w", ErrInvalidCredentials)
	}

	if !VerifyPassword(row.HashedPassword, req.Password) {
		span.SetAttributes(attribute.Bool("auth.success", false))
		return nil, fmt.Errorf("authenticate user: %w", ErrInvalidCredentials)
	}

	span.SetAttributes(
		attribute.String("user.id", row.ID),
		attribute.Bool("auth.success", true),
	)

	return &domain.User{ID: row.ID, Username: row.Username}, nil
}

// Signup creates a user and its password credential as one atomic unit and
// returns the user summary. Duplicate usernames yield ErrUsernameTaken;
// under concurrent signups the unique index picks exactly one winner.
func (s *AuthService) Signup(ctx context.Context, req domain.SignupRequest) (*domain.User, error) {
	ctx, span := middleware.StartSpan(ctx, "auth.signup", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	hash, err := HashPassword(req.Password)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("hash password: %w", err)
	}

	userID, err := newEntityID()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	credentialID, err := newEntityID()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	u := domain.NewUser{
		ID:             userID,
		Username:       req.Username,
		CredentialID:   credentialID,
		HashedPassword: hash,
	}

	if err := s.users.CreateWithCredential(ctx, u); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			span.SetAttributes(attribute.Bool("signup.success", false))
			return nil, fmt.Errorf("create user: %w", ErrUsernameTaken)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	span.SetAttributes(
		attribute.String("user.id", userID),
		attribute.Bool("signup.success", true),
	)

	return &domain.User{ID: userID, Username: req.Username}, nil
}
