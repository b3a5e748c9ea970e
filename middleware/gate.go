package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"trading-journal/internal/core/domain"
)

// SessionAuthority is the session manager surface the gate needs. Defined
// here so the middleware depends on behaviour, not on the logic package.
type SessionAuthority interface {
	Validate(ctx context.Context, sessionID string) (*domain.SessionRow, *domain.User, bool, error)
	Cookie(s domain.SessionRow) *http.Cookie
	BlankCookie() *http.Cookie
	CookieName() string
}

const (
	ctxUserKey    = "auth.user"
	ctxSessionKey = "auth.session"
)

// SessionGate resolves the session cookie into a request identity.
//
// It never rejects a request: requests without a cookie, with an invalid
// session, or hitting a storage failure continue as anonymous. A fresh
// validation reissues the cookie; a definitively invalid session clears it.
// Storage failures leave the client cookie untouched so a transient outage
// does not log everyone out.
func SessionGate(auth SessionAuthority) gin.HandlerFunc {
	return func(c *gin.Context) {
		cookie, err := c.Request.Cookie(auth.CookieName())
		if err != nil || cookie.Value == "" {
			c.Next()
			return
		}

		session, user, fresh, err := auth.Validate(c.Request.Context(), cookie.Value)
		if err != nil {
			zerolog.Ctx(c.Request.Context()).Error().Err(err).Msg("Session validation failed")
			c.Next()
			return
		}

		if session == nil {
			http.SetCookie(c.Writer, auth.BlankCookie())
			c.Next()
			return
		}

		if fresh {
			http.SetCookie(c.Writer, auth.Cookie(*session))
		}

		c.Set(ctxUserKey, user)
		c.Set(ctxSessionKey, session)
		c.Next()
	}
}

// CurrentUser returns the authenticated user attached by SessionGate.
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, ok := c.Get(ctxUserKey)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.User)
	return u, ok && u != nil
}

// CurrentSession returns the session attached by SessionGate.
func CurrentSession(c *gin.Context) (*domain.SessionRow, bool) {
	v, ok := c.Get(ctxSessionKey)
	if !ok {
		return nil, false
	}
	s, ok := v.(*domain.SessionRow)
	return s, ok && s != nil
}

// RequireUser aborts anonymous requests with the 401 envelope. Route groups
// opt in; the gate itself never rejects.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"message": "Unauthorized",
			})
			return
		}
		c.Next()
	}
}
