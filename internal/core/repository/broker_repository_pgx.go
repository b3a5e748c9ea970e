package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"trading-journal/internal/core/domain"
)

// PgxBrokerRepository implements domain.BrokerRepository using pgxpool.
type PgxBrokerRepository struct {
	pool *pgxpool.Pool
}

// NewBrokerRepository creates a new PgxBrokerRepository.
func NewBrokerRepository(pool *pgxpool.Pool) *PgxBrokerRepository {
	return &PgxBrokerRepository{pool: pool}
}

// ListByUser returns all brokers owned by the user, oldest first.
func (r *PgxBrokerRepository) ListByUser(ctx context.Context, userID string) ([]domain.BrokerRow, error) {
	query := `
		SELECT id, user_id, name, account_number, currency, created_at
		FROM brokers
		WHERE user_id = $1
		ORDER BY created_at
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	brokers := []domain.BrokerRow{}
	for rows.Next() {
		var b domain.BrokerRow
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.AccountNumber, &b.Currency, &b.CreatedAt); err != nil {
			return nil, err
		}
		brokers = append(brokers, b)
	}

	return brokers, rows.Err()
}

// GetByID returns the user's broker with the given id.
// Returns (nil, nil) when no such broker exists.
func (r *PgxBrokerRepository) GetByID(ctx context.Context, userID, id string) (*domain.BrokerRow, error) {
	query := `
		SELECT id, user_id, name, account_number, currency, created_at
		FROM brokers
		WHERE id = $1 AND user_id = $2
	`

	var b domain.BrokerRow
	err := r.pool.QueryRow(ctx, query, id, userID).Scan(
		&b.ID, &b.UserID, &b.Name, &b.AccountNumber, &b.Currency, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &b, nil
}

// Create inserts a new broker. Returns domain.ErrDuplicate when the user
// already has a broker with the same name.
func (r *PgxBrokerRepository) Create(ctx context.Context, b domain.BrokerRow) error {
	query := `
		INSERT INTO brokers (id, user_id, name, account_number, currency)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query, b.ID, b.UserID, b.Name, b.AccountNumber, b.Currency)
	if err != nil {
		return translateUniqueViolation(err)
	}
	return nil
}

// Update applies a partial update and returns the updated row.
// Returns (nil, nil) when no such broker exists.
func (r *PgxBrokerRepository) Update(ctx context.Context, userID, id string, upd domain.BrokerUpdate) (*domain.BrokerRow, error) {
	query := `
		UPDATE brokers
		SET name = COALESCE($3::text, name),
		    account_number = COALESCE($4::text, account_number),
		    currency = COALESCE($5::text, currency)
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, account_number, currency, created_at
	`

	var b domain.BrokerRow
	err := r.pool.QueryRow(ctx, query, id, userID, upd.Name, upd.AccountNumber, upd.Currency).Scan(
		&b.ID, &b.UserID, &b.Name, &b.AccountNumber, &b.Currency, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, translateUniqueViolation(err)
	}

	return &b, nil
}

// Delete removes the broker, reporting whether a row was deleted.
func (r *PgxBrokerRepository) Delete(ctx context.Context, userID, id string) (bool, error) {
	query := `DELETE FROM brokers WHERE id = $1 AND user_id = $2`

	tag, err := r.pool.Exec(ctx, query, id, userID)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
