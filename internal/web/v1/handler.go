package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"trading-journal/internal/core/domain"
	logicv1 "trading-journal/internal/logic/v1"
	"trading-journal/internal/logging"
	"trading-journal/middleware"
)

// Handler groups the auth HTTP handlers.
// Dependencies are injected via the constructor — no global state.
type Handler struct {
	auth     *logicv1.AuthService
	sessions *logicv1.SessionManager
}

// NewHandler creates a new Handler.
func NewHandler(auth *logicv1.AuthService, sessions *logicv1.SessionManager) *Handler {
	return &Handler{auth: auth, sessions: sessions}
}

// RegisterRoutes registers the auth routes on the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
	rg.POST("/auth/signup", h.Signup)
	rg.GET("/auth/logout", h.Logout)
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/me", h.GetMe)
}

// Login handles POST /auth/login.
func (h *Handler) Login(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.login", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		respondValidationError(c, err)
		return
	}

	user, err := h.auth.Login(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, logicv1.ErrInvalidCredentials) {
			logger.Warn().Str("username", req.Username).Msg("Login rejected")
			respondError(c, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		logger.Error().Err(err).Msg("Login failed")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.issueSession(c, user); err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Session creation failed")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("Login successful")
	respondData(c, http.StatusOK, user)
}

// Signup handles POST /auth/signup. On success the response carries a
// session cookie, identical to login.
func (h *Handler) Signup(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.signup", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	var req domain.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		span.SetAttributes(attribute.Bool("request.valid", false))
		respondValidationError(c, err)
		return
	}

	user, err := h.auth.Signup(ctx, req)
	if err != nil {
		span.RecordError(err)
		if errors.Is(err, logicv1.ErrUsernameTaken) {
			respondError(c, http.StatusConflict, "Username already taken")
			return
		}
		logger.Error().Err(err).Msg("Signup failed")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	if err := h.issueSession(c, user); err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Session creation failed")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	logger.Info().Str("user_id", user.ID).Msg("Signup successful")
	respondData(c, http.StatusOK, user)
}

// Logout handles GET and POST /auth/logout. With an active session it
// invalidates it and clears the cookie; GET then redirects back to the auth
// page while POST returns the envelope. Without a session it returns 401.
func (h *Handler) Logout(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.logout", trace.WithAttributes(
		attribute.String("layer", "web"),
	))
	defer span.End()

	logger := logging.FromContext(ctx)

	session, ok := middleware.CurrentSession(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	if err := h.sessions.Invalidate(ctx, session.ID); err != nil {
		span.RecordError(err)
		logger.Error().Err(err).Msg("Logout failed")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	http.SetCookie(c.Writer, h.sessions.BlankCookie())
	logger.Info().Str("user_id", session.UserID).Msg("Logged out")

	if c.Request.Method == http.MethodGet {
		c.Redirect(http.StatusFound, "/auth")
		return
	}
	respondData(c, http.StatusOK, nil)
}

// GetMe handles GET /auth/me, returning the current identity.
func (h *Handler) GetMe(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}
	respondData(c, http.StatusOK, user)
}

// issueSession creates a session for the user and writes its cookie.
func (h *Handler) issueSession(c *gin.Context, user *domain.User) error {
	session, err := h.sessions.Create(c.Request.Context(), user.ID)
	if err != nil {
		return err
	}
	http.SetCookie(c.Writer, h.sessions.Cookie(session))
	return nil
}
