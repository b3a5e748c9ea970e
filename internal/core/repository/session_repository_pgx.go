package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trading-journal/internal/core/domain"
)

// PgxSessionRepository implements domain.SessionRepository using pgxpool.
type PgxSessionRepository struct {
	pool *pgxpool.Pool
}

// NewSessionRepository creates a new PgxSessionRepository.
func NewSessionRepository(pool *pgxpool.Pool) *PgxSessionRepository {
	return &PgxSessionRepository{pool: pool}
}

// Create inserts a new session.
func (r *PgxSessionRepository) Create(ctx context.Context, s domain.SessionRow) error {
	query := `INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.pool.Exec(ctx, query, s.ID, s.UserID, s.ExpiresAt)
	return err
}

// Get looks up a session by id.
// Returns (nil, nil) when the id does not match any session.
func (r *PgxSessionRepository) Get(ctx context.Context, id string) (*domain.SessionRow, error) {
	query := `SELECT id, user_id, expires_at FROM sessions WHERE id = $1`

	var row domain.SessionRow
	err := r.pool.QueryRow(ctx, query, id).Scan(&row.ID, &row.UserID, &row.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &row, nil
}

// UpdateExpiry extends the session's expiry. Updating an absent session is
// a no-op.
func (r *PgxSessionRepository) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	query := `UPDATE sessions SET expires_at = $2 WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id, expiresAt)
	return err
}

// Delete removes the session. Deleting an absent session is a no-op.
func (r *PgxSessionRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM sessions WHERE id = $1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
