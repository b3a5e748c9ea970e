package v1

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trading-journal/internal/core/domain"
)

func newTestManager(t *testing.T) (*SessionManager, *fakeSessionRepo, *fakeUserRepo) {
	t.Helper()
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo()
	users.add(domain.UserRow{ID: "u1", Username: "alice", HashedPassword: "x"})
	m := NewSessionManager(sessions, users, SessionConfig{TTL: time.Hour})
	return m, sessions, users
}

func TestSessionManagerCreateAndValidate(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	session, err := m.Create(ctx, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, session.ID)
	assert.Equal(t, "u1", session.UserID)

	got, user, fresh, err := m.Validate(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.False(t, fresh)
}

func TestSessionManagerSessionIDsAreUnique(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	seen := map[string]bool{}
	for range 50 {
		s, err := m.Create(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, seen[s.ID], "session id repeated")
		assert.GreaterOrEqual(t, len(s.ID), 40)
		seen[s.ID] = true
	}
}

func TestSessionManagerFreshnessRotation(t *testing.T) {
	m, sessions, _ := newTestManager(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	session, err := m.Create(ctx, "u1")
	require.NoError(t, err)

	// Exactly half the TTL elapsed: not yet fresh, no write.
	m.now = func() time.Time { return base.Add(30 * time.Minute) }
	got, _, fresh, err := m.Validate(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.False(t, fresh)
	assert.Equal(t, base.Add(time.Hour), got.ExpiresAt)

	// One second past the threshold: rotated and persisted.
	at := base.Add(30*time.Minute + time.Second)
	m.now = func() time.Time { return at }
	got, _, fresh, err = m.Validate(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, fresh)
	assert.Equal(t, at.Add(time.Hour), got.ExpiresAt)

	stored, err := sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, at.Add(time.Hour), stored.ExpiresAt)
}

func TestSessionManagerRotationWriteFailureSkipsFreshness(t *testing.T) {
	m, sessions, _ := newTestManager(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	session, err := m.Create(ctx, "u1")
	require.NoError(t, err)

	sessions.updateErr = errors.New("store down")
	m.now = func() time.Time { return base.Add(45 * time.Minute) }

	got, user, fresh, err := m.Validate(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, user)
	assert.False(t, fresh, "a failed extension must not tell the caller to reissue")
	assert.Equal(t, base.Add(time.Hour), got.ExpiresAt)
}

func TestSessionManagerExpiryHardCutoff(t *testing.T) {
	m, sessions, _ := newTestManager(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	session, err := m.Create(ctx, "u1")
	require.NoError(t, err)

	m.now = func() time.Time { return base.Add(time.Hour + time.Second) }
	got, user, fresh, err := m.Validate(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, user)
	assert.False(t, fresh)

	// Lazy cleanup removed the stale row.
	stored, err := sessions.Get(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestSessionManagerExpiredDeleteFailureStillInvalid(t *testing.T) {
	m, sessions, _ := newTestManager(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	session, err := m.Create(ctx, "u1")
	require.NoError(t, err)

	sessions.deleteErr = errors.New("store down")
	m.now = func() time.Time { return base.Add(2 * time.Hour) }

	got, _, _, err := m.Validate(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, got, "deletion failure must not mask the invalid result")
}

func TestSessionManagerInvalidateIsIdempotent(t *testing.T) {
	m, sessions, _ := newTestManager(t)
	ctx := context.Background()

	session, err := m.Create(ctx, "u1")
	require.NoError(t, err)

	require.NoError(t, m.Invalidate(ctx, session.ID))
	require.NoError(t, m.Invalidate(ctx, session.ID))
	assert.Equal(t, 2, sessions.deleteCalls)

	got, _, _, err := m.Validate(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestSessionManagerOrphanedSessionIsInvalid(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	session, err := m.Create(ctx, "ghost")
	require.NoError(t, err)

	got, user, _, err := m.Validate(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Nil(t, user)
}

func TestSessionManagerStorageErrorPropagates(t *testing.T) {
	m, sessions, _ := newTestManager(t)
	ctx := context.Background()

	session, err := m.Create(ctx, "u1")
	require.NoError(t, err)

	sessions.getErr = errors.New("store down")
	got, user, fresh, err := m.Validate(ctx, session.ID)
	require.Error(t, err)
	assert.Nil(t, got)
	assert.Nil(t, user)
	assert.False(t, fresh)
}

func TestSessionManagerCookieAttributes(t *testing.T) {
	sessions := newFakeSessionRepo()
	users := newFakeUserRepo()
	m := NewSessionManager(sessions, users, SessionConfig{
		TTL:           time.Hour,
		SecureCookies: true,
	})

	expires := time.Now().Add(time.Hour)
	cookie := m.Cookie(domain.SessionRow{ID: "abc123", ExpiresAt: expires})
	assert.Equal(t, "trading_journal_session", cookie.Name)
	assert.Equal(t, "abc123", cookie.Value)
	assert.Equal(t, "/", cookie.Path)
	assert.True(t, cookie.HttpOnly)
	assert.True(t, cookie.Secure)
	assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
	assert.Equal(t, expires, cookie.Expires)

	blank := m.BlankCookie()
	assert.Equal(t, cookie.Name, blank.Name)
	assert.Empty(t, blank.Value)
	assert.Negative(t, blank.MaxAge)
	assert.Equal(t, cookie.Path, blank.Path)
	assert.Equal(t, cookie.SameSite, blank.SameSite)
	assert.Equal(t, cookie.Secure, blank.Secure)
}

func TestSessionManagerCookieRoundTrip(t *testing.T) {
	m, _, _ := newTestManager(t)
	ctx := context.Background()

	session, err := m.Create(ctx, "u1")
	require.NoError(t, err)

	cookie := m.Cookie(session)
	got, user, _, err := m.Validate(ctx, cookie.Value)
	require.NoError(t, err)
	require.NotNil(t, got)
	require.NotNil(t, user)
	assert.Equal(t, "u1", user.ID)
}
