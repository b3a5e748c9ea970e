package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"trading-journal/internal/core/domain"
	logicv1 "trading-journal/internal/logic/v1"
	"trading-journal/internal/logging"
	"trading-journal/middleware"
)

// BrokerHandler groups the broker CRUD handlers. All routes require an
// authenticated user; registration wires middleware.RequireUser.
type BrokerHandler struct {
	brokers *logicv1.BrokerService
}

// NewBrokerHandler creates a new BrokerHandler.
func NewBrokerHandler(brokers *logicv1.BrokerService) *BrokerHandler {
	return &BrokerHandler{brokers: brokers}
}

// RegisterRoutes registers the broker routes on the given router group.
func (h *BrokerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	brokers := rg.Group("/brokers", middleware.RequireUser())
	brokers.GET("", h.List)
	brokers.POST("", h.Create)
	brokers.GET("/:id", h.Get)
	brokers.PUT("/:id", h.Update)
	brokers.DELETE("/:id", h.Delete)
}

// List handles GET /brokers.
func (h *BrokerHandler) List(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	brokers, err := h.brokers.List(c.Request.Context(), user.ID)
	if err != nil {
		logging.FromContext(c.Request.Context()).Error().Err(err).Msg("Broker list failed")
		respondError(c, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondData(c, http.StatusOK, brokers)
}

// Get handles GET /brokers/:id.
func (h *BrokerHandler) Get(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	broker, err := h.brokers.Get(c.Request.Context(), user.ID, c.Param("id"))
	if err != nil {
		h.respondBrokerError(c, err)
		return
	}

	respondData(c, http.StatusOK, broker)
}

// Create handles POST /brokers.
func (h *BrokerHandler) Create(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req domain.CreateBrokerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	broker, err := h.brokers.Create(c.Request.Context(), user.ID, req)
	if err != nil {
		h.respondBrokerError(c, err)
		return
	}

	respondData(c, http.StatusCreated, broker)
}

// Update handles PUT /brokers/:id with partial-update semantics.
func (h *BrokerHandler) Update(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req domain.UpdateBrokerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	broker, err := h.brokers.Update(c.Request.Context(), user.ID, c.Param("id"), req)
	if err != nil {
		h.respondBrokerError(c, err)
		return
	}

	respondData(c, http.StatusOK, broker)
}

// Delete handles DELETE /brokers/:id.
func (h *BrokerHandler) Delete(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	if err := h.brokers.Delete(c.Request.Context(), user.ID, c.Param("id")); err != nil {
		h.respondBrokerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *BrokerHandler) respondBrokerError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, logicv1.ErrBrokerNotFound):
		respondError(c, http.StatusNotFound, "Broker not found")
	case errors.Is(err, logicv1.ErrBrokerExists):
		respondError(c, http.StatusConflict, "A broker with that name already exists")
	default:
		logging.FromContext(c.Request.Context()).Error().Err(err).Msg("Broker operation failed")
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
