package v1

import (
	"context"
	"fmt"
	"sync"
	"time"

	"trading-journal/internal/core/domain"
)

// --- in-memory fakes for the repository interfaces ---

type fakeSessionRepo struct {
	mu   sync.Mutex
	rows map[string]domain.SessionRow

	createErr error
	getErr    error
	updateErr error
	deleteErr error

	deleteCalls int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{rows: map[string]domain.SessionRow{}}
}

func (f *fakeSessionRepo) Create(ctx context.Context, s domain.SessionRow) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	f.rows[s.ID] = s
	return nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, id string) (*domain.SessionRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	s, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (f *fakeSessionRepo) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	if s, ok := f.rows[id]; ok {
		s.ExpiresAt = expiresAt
		f.rows[id] = s
	}
	return nil
}

func (f *fakeSessionRepo) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.rows, id)
	return nil
}

type fakeUserRepo struct {
	mu   sync.Mutex
	rows map[string]domain.UserRow // keyed by id

	createErr error
	getErr    error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: map[string]domain.UserRow{}}
}

func (f *fakeUserRepo) add(u domain.UserRow) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[u.ID] = u
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*domain.UserRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.rows {
		if u.Username == username {
			row := u
			return &row, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.UserRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeUserRepo) CreateWithCredential(ctx context.Context, u domain.NewUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.rows {
		if existing.Username == u.Username {
			return fmt.Errorf("users_username_key: %w", domain.ErrDuplicate)
		}
	}
	f.rows[u.ID] = domain.UserRow{ID: u.ID, Username: u.Username, HashedPassword: u.HashedPassword}
	return nil
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.rows)
}
