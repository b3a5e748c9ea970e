package v1

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trading-journal/internal/core/domain"
	"trading-journal/internal/logging"
	"trading-journal/middleware"
)

// SessionConfig tunes the session manager. Zero values fall back to the
// defaults below.
type SessionConfig struct {
	// TTL is the session lifetime granted at creation and on each rotation.
	TTL time.Duration
	// CookieName is the fixed name of the session cookie.
	CookieName string
	// SecureCookies marks issued cookies Secure; enable in production.
	SecureCookies bool
}

const (
	defaultSessionTTL = time.Hour
	defaultCookieName = "trading_journal_session"
)

// SessionManager is the sole authority on session lifecycle: it issues,
// validates, rotates, and invalidates sessions, and it decides the cookie
// attributes for both. Sessions use a sliding expiry: a validation that
// finds less than half the TTL remaining extends the session by a full TTL
// and reports it fresh, so callers know to reissue the cookie. Validations
// before that threshold skip the write entirely.
type SessionManager struct {
	sessions domain.SessionRepository
	users    domain.UserRepository
	cfg      SessionConfig

	now func() time.Time
}

// NewSessionManager creates a SessionManager over the given repositories.
func NewSessionManager(sessions domain.SessionRepository, users domain.UserRepository, cfg SessionConfig) *SessionManager {
	if cfg.TTL <= 0 {
		cfg.TTL = defaultSessionTTL
	}
	if cfg.CookieName == "" {
		cfg.CookieName = defaultCookieName
	}
	return &SessionManager{
		sessions: sessions,
		users:    users,
		cfg:      cfg,
		now:      time.Now,
	}
}

// Create issues a new session for the user and persists it.
func (m *SessionManager) Create(ctx context.Context, userID string) (domain.SessionRow, error) {
	ctx, span := middleware.StartSpan(ctx, "session.create", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	id, err := newSessionID()
	if err != nil {
		span.RecordError(err)
		return domain.SessionRow{}, err
	}

	row := domain.SessionRow{
		ID:        id,
		UserID:    userID,
		ExpiresAt: m.now().Add(m.cfg.TTL),
	}

	if err := m.sessions.Create(ctx, row); err != nil {
		span.RecordError(err)
		return domain.SessionRow{}, fmt.Errorf("persist session: %w", err)
	}

	return row, nil
}

// Validate resolves a session id to its session and user.
//
// An absent or expired session returns (nil, nil, false, nil); expired rows
// are deleted lazily, and a failed deletion never masks the invalid result.
// A valid session past the rotation threshold is extended to now+TTL and
// reported fresh so the caller reissues the cookie. Storage failures return
// a non-nil error with a nil session; callers treat that as anonymous.
func (m *SessionManager) Validate(ctx context.Context, sessionID string) (*domain.SessionRow, *domain.User, bool, error) {
	ctx, span := middleware.StartSpan(ctx, "session.validate", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	row, err := m.sessions.Get(ctx, sessionID)
	if err != nil {
		span.RecordError(err)
		return nil, nil, false, fmt.Errorf("lookup session: %w", err)
	}
	if row == nil {
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, nil, false, nil
	}

	now := m.now()
	if !now.Before(row.ExpiresAt) {
		if delErr := m.sessions.Delete(ctx, sessionID); delErr != nil {
			logging.FromContext(ctx).Warn().Err(delErr).Msg("Failed to delete expired session")
		}
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, nil, false, nil
	}

	fresh := false
	if row.ExpiresAt.Sub(now) < m.cfg.TTL/2 {
		extended := now.Add(m.cfg.TTL)
		if err := m.sessions.UpdateExpiry(ctx, sessionID, extended); err != nil {
			// The session is still valid; skip rotation and let a later
			// request retry the extension.
			logging.FromContext(ctx).Warn().Err(err).Msg("Failed to extend session")
		} else {
			row.ExpiresAt = extended
			fresh = true
		}
	}

	user, err := m.users.GetByID(ctx, row.UserID)
	if err != nil {
		span.RecordError(err)
		return nil, nil, false, fmt.Errorf("lookup session user: %w", err)
	}
	if user == nil {
		// Orphaned session; the user is gone.
		if delErr := m.sessions.Delete(ctx, sessionID); delErr != nil {
			logging.FromContext(ctx).Warn().Err(delErr).Msg("Failed to delete orphaned session")
		}
		span.SetAttributes(attribute.Bool("session.valid", false))
		return nil, nil, false, nil
	}

	span.SetAttributes(
		attribute.Bool("session.valid", true),
		attribute.Bool("session.fresh", fresh),
	)

	return row, &domain.User{ID: user.ID, Username: user.Username}, fresh, nil
}

// Invalidate deletes the session. Invalidating an unknown id is a no-op.
func (m *SessionManager) Invalidate(ctx context.Context, sessionID string) error {
	ctx, span := middleware.StartSpan(ctx, "session.invalidate", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	if err := m.sessions.Delete(ctx, sessionID); err != nil {
		span.RecordError(err)
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// CookieName returns the fixed session cookie name.
func (m *SessionManager) CookieName() string {
	return m.cfg.CookieName
}

// Cookie builds the session cookie for the given session. Attributes must
// match BlankCookie so the browser replaces rather than duplicates it.
func (m *SessionManager) Cookie(s domain.SessionRow) *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  s.ExpiresAt,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}

// BlankCookie builds an immediately-expiring cookie that clears a stale
// session cookie from the client.
func (m *SessionManager) BlankCookie() *http.Cookie {
	return &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.cfg.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	}
}
