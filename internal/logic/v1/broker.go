package v1

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trading-journal/internal/core/domain"
	"trading-journal/middleware"
)

// BrokerService implements broker CRUD rules over the repository.
// Every operation is scoped to the calling user.
type BrokerService struct {
	brokers domain.BrokerRepository
}

// NewBrokerService creates a new BrokerService.
func NewBrokerService(brokers domain.BrokerRepository) *BrokerService {
	return &BrokerService{brokers: brokers}
}

// List returns all brokers owned by the user.
func (s *BrokerService) List(ctx context.Context, userID string) ([]domain.Broker, error) {
	ctx, span := middleware.StartSpan(ctx, "broker.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	rows, err := s.brokers.ListByUser(ctx, userID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list brokers: %w", err)
	}

	out := make([]domain.Broker, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.BrokerView())
	}
	return out, nil
}

// Get returns the user's broker with the given id, or ErrBrokerNotFound.
func (s *BrokerService) Get(ctx context.Context, userID, id string) (*domain.Broker, error) {
	ctx, span := middleware.StartSpan(ctx, "broker.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	row, err := s.brokers.GetByID(ctx, userID, id)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("query broker: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("broker %s: %w", id, ErrBrokerNotFound)
	}

	b := row.BrokerView()
	return &b, nil
}

// Create inserts a new broker for the user. A duplicate name for the same
// user yields ErrBrokerExists.
func (s *BrokerService) Create(ctx context.Context, userID string, req domain.CreateBrokerRequest) (*domain.Broker, error) {
	ctx, span := middleware.StartSpan(ctx, "broker.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	row := domain.BrokerRow{
		ID:            uuid.NewString(),
		UserID:        userID,
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		Currency:      req.Currency,
	}

	if err := s.brokers.Create(ctx, row); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("create broker %q: %w", req.Name, ErrBrokerExists)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("create broker: %w", err)
	}

	// Re-read so the response carries the stored created_at.
	created, err := s.brokers.GetByID(ctx, userID, row.ID)
	if err != nil || created == nil {
		b := row.BrokerView()
		return &b, nil
	}

	b := created.BrokerView()
	return &b, nil
}

// Update applies a partial update to the user's broker.
func (s *BrokerService) Update(ctx context.Context, userID, id string, req domain.UpdateBrokerRequest) (*domain.Broker, error) {
	ctx, span := middleware.StartSpan(ctx, "broker.update", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	row, err := s.brokers.Update(ctx, userID, id, domain.BrokerUpdate{
		Name:          req.Name,
		AccountNumber: req.AccountNumber,
		Currency:      req.Currency,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, fmt.Errorf("rename broker: %w", ErrBrokerExists)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("update broker: %w", err)
	}
	if row == nil {
		return nil, fmt.Errorf("broker %s: %w", id, ErrBrokerNotFound)
	}

	b := row.BrokerView()
	return &b, nil
}

// Delete removes the user's broker, or returns ErrBrokerNotFound.
func (s *BrokerService) Delete(ctx context.Context, userID, id string) error {
	ctx, span := middleware.StartSpan(ctx, "broker.delete", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	deleted, err := s.brokers.Delete(ctx, userID, id)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete broker: %w", err)
	}
	if !deleted {
		return fmt.Errorf("broker %s: %w", id, ErrBrokerNotFound)
	}
	return nil
}
