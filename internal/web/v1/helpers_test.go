package v1

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/core/domain"
	logicv1 "trading-journal/internal/logic/v1"
	"trading-journal/middleware"
)

// --- in-memory repository stubs ---

type stubUserRepo struct {
	mu   sync.Mutex
	rows map[string]domain.UserRow
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{rows: map[string]domain.UserRow{}}
}

func (s *stubUserRepo) GetByUsername(ctx context.Context, username string) (*domain.UserRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.rows {
		if u.Username == username {
			row := u
			return &row, nil
		}
	}
	return nil, nil
}

func (s *stubUserRepo) GetByID(ctx context.Context, id string) (*domain.UserRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *stubUserRepo) CreateWithCredential(ctx context.Context, u domain.NewUser) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if existing.Username == u.Username {
			return fmt.Errorf("users_username_key: %w", domain.ErrDuplicate)
		}
	}
	s.rows[u.ID] = domain.UserRow{ID: u.ID, Username: u.Username, HashedPassword: u.HashedPassword}
	return nil
}

type stubSessionRepo struct {
	mu   sync.Mutex
	rows map[string]domain.SessionRow
}

func newStubSessionRepo() *stubSessionRepo {
	return &stubSessionRepo{rows: map[string]domain.SessionRow{}}
}

func (s *stubSessionRepo) Create(ctx context.Context, row domain.SessionRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[row.ID] = row
	return nil
}

func (s *stubSessionRepo) Get(ctx context.Context, id string) (*domain.SessionRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[id]
	if !ok {
		return nil, nil
	}
	return &row, nil
}

func (s *stubSessionRepo) UpdateExpiry(ctx context.Context, id string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if row, ok := s.rows[id]; ok {
		row.ExpiresAt = expiresAt
		s.rows[id] = row
	}
	return nil
}

func (s *stubSessionRepo) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, id)
	return nil
}

type stubBrokerRepo struct {
	mu   sync.Mutex
	rows map[string]domain.BrokerRow
}

func newStubBrokerRepo() *stubBrokerRepo {
	return &stubBrokerRepo{rows: map[string]domain.BrokerRow{}}
}

func (s *stubBrokerRepo) ListByUser(ctx context.Context, userID string) ([]domain.BrokerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.BrokerRow{}
	for _, b := range s.rows {
		if b.UserID == userID {
			out = append(out, b)
		}
	}
	return out, nil
}

func (s *stubBrokerRepo) GetByID(ctx context.Context, userID, id string) (*domain.BrokerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	return &b, nil
}

func (s *stubBrokerRepo) Create(ctx context.Context, b domain.BrokerRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.rows {
		if existing.UserID == b.UserID && existing.Name == b.Name {
			return fmt.Errorf("brokers_user_id_name_key: %w", domain.ErrDuplicate)
		}
	}
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now()
	}
	s.rows[b.ID] = b
	return nil
}

func (s *stubBrokerRepo) Update(ctx context.Context, userID, id string, upd domain.BrokerUpdate) (*domain.BrokerRow, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok || b.UserID != userID {
		return nil, nil
	}
	if upd.Name != nil {
		for _, existing := range s.rows {
			if existing.ID != id && existing.UserID == userID && existing.Name == *upd.Name {
				return nil, fmt.Errorf("brokers_user_id_name_key: %w", domain.ErrDuplicate)
			}
		}
		b.Name = *upd.Name
	}
	if upd.AccountNumber != nil {
		b.AccountNumber = *upd.AccountNumber
	}
	if upd.Currency != nil {
		b.Currency = *upd.Currency
	}
	s.rows[id] = b
	return &b, nil
}

func (s *stubBrokerRepo) Delete(ctx context.Context, userID, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.rows[id]
	if !ok || b.UserID != userID {
		return false, nil
	}
	delete(s.rows, id)
	return true, nil
}

// --- test server wiring ---

type testServer struct {
	router   *gin.Engine
	users    *stubUserRepo
	sessions *stubSessionRepo
	brokers  *stubBrokerRepo
	manager  *logicv1.SessionManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := newStubUserRepo()
	sessions := newStubSessionRepo()
	brokers := newStubBrokerRepo()

	manager := logicv1.NewSessionManager(sessions, users, logicv1.SessionConfig{TTL: time.Hour})

	r := gin.New()
	r.Use(middleware.SessionGate(manager))

	api := r.Group("")
	NewHandler(logicv1.NewAuthService(users), manager).RegisterRoutes(api)
	NewBrokerHandler(logicv1.NewBrokerService(brokers)).RegisterRoutes(api)

	return &testServer{router: r, users: users, sessions: sessions, brokers: brokers, manager: manager}
}

func (ts *testServer) do(t *testing.T, method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

// signup registers a user and returns the issued session cookie.
func (ts *testServer) signup(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	w := ts.do(t, http.MethodPost, "/auth/signup",
		fmt.Sprintf(`{"username":%q,"password":%q}`, username, password))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return sessionCookie(t, w)
}

func sessionCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "trading_journal_session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}
