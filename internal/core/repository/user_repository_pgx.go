package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"trading-journal/internal/core/domain"
)

// PgxUserRepository implements domain.UserRepository using pgxpool.
type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

// GetByUsername returns the user matching the given username.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByUsername(ctx context.Context, username string) (*domain.UserRow, error) {
	query := `
		SELECT u.id, u.username, COALESCE(ua.hashed_password, '')
		FROM users u
		LEFT JOIN user_auth ua ON ua.user_id = u.id
		WHERE u.username = $1
	`

	var row domain.UserRow
	err := r.pool.QueryRow(ctx, query, username).Scan(&row.ID, &row.Username, &row.HashedPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// GetByID returns the user with the given id.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByID(ctx context.Context, id string) (*domain.UserRow, error) {
	query := `
		SELECT u.id, u.username, COALESCE(ua.hashed_password, '')
		FROM users u
		LEFT JOIN user_auth ua ON ua.user_id = u.id
		WHERE u.id = $1
	`

	var row domain.UserRow
	err := r.pool.QueryRow(ctx, query, id).Scan(&row.ID, &row.Username, &row.HashedPassword)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// CreateWithCredential inserts the user and its password credential in one
// transaction so a failure between the two inserts leaves nothing behind.
// Concurrent signups with the same username race on the unique index; the
// loser gets domain.ErrDuplicate.
func (r *PgxUserRepository) CreateWithCredential(ctx context.Context, u domain.NewUser) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin signup tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`INSERT INTO users (id, username) VALUES ($1, $2)`,
		u.ID, u.Username,
	); err != nil {
		return translateUniqueViolation(err)
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO user_auth (id, user_id, hashed_password) VALUES ($1, $2, $3)`,
		u.CredentialID, u.ID, u.HashedPassword,
	); err != nil {
		return translateUniqueViolation(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit signup tx: %w", err)
	}

	return nil
}

// translateUniqueViolation maps Postgres unique-violation errors (23505)
// to domain.ErrDuplicate so the Logic layer can match with errors.Is.
func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%s: %w", pgErr.ConstraintName, domain.ErrDuplicate)
	}
	return err
}
