package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/maintain_ai/backend/internal/db"
	"github.com/maintain_ai/backend/internal/geocode"
	"github.com/maintain_ai/backend/internal/http/middleware"
	"github.com/maintain_ai/backend/internal/metrics"
	"github.com/maintain_ai/backend/internal/service"
)

type Handler struct {
	Store     *db.Store
	Issues    *service.IssueService
	Geocoder  geocode.Geocoder
	Metrics   *metrics.Metrics
	Validator *validator.Validate
	Logger    zerolog.Logger
	// Now is used for relative timestamps in the feed.
	Now func() time.Time
}

func (h *Handler) Healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()
	if err := h.Store.Ping(ctx); err != nil {
		writeError(c, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Store unavailable", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// bind decodes and validates a JSON body, writing the error response itself.
func (h *Handler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return false
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return false
	}
	return true
}

// callerID prefers the authenticated identity over an id sent in the body.
func callerID(c *gin.Context, fromBody string) string {
	if id, ok := middleware.UserID(c); ok {
		return id
	}
	return fromBody
}

func writeError(c *gin.Context, status int, code string, message string, details any) {
	c.JSON(status, gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// writeDomainError maps store and service errors onto the HTTP envelope.
func (h *Handler) writeDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, db.ErrReporterNotFound):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Reporter not found", err.Error())
	case errors.Is(err, db.ErrIssueNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Issue not found", nil)
	case errors.Is(err, service.ErrTechnicianMissing):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Technician not found", nil)
	case errors.Is(err, db.ErrDuplicateUser):
		writeError(c, http.StatusConflict, "CONFLICT", "User already exists", err.Error())
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrInvalidProgress):
		writeError(c, http.StatusConflict, "INVALID_TRANSITION", "Lifecycle rule violated", err.Error())
	case errors.Is(err, service.ErrNoTechnician):
		writeError(c, http.StatusConflict, "NO_TECHNICIAN", "No available technician", nil)
	case errors.Is(err, db.ErrInvalidIssue), errors.Is(err, db.ErrInvalidUser),
		errors.Is(err, db.ErrInvalidTechnician), errors.Is(err, db.ErrInvalidComment):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
	default:
		h.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
		writeError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal error", nil)
	}
}
