package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pharma/backend/internal/domain/pharmacy"
	"github.com/pharma/backend/internal/interfaces/http/dto"
)

// SystemHandler exposes health and readiness probes
type SystemHandler struct {
	BaseHandler
	store   pharmacy.Store
	version string
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(store pharmacy.Store, version string) *SystemHandler {
	return &SystemHandler{store: store, version: version}
}

// Health handles GET /api/health; it answers 503 when storage is down
func (h *SystemHandler) Health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeStorageUnavailable,
			"Storage backend is unavailable", getRequestID(c))
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	h.Success(c, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}
