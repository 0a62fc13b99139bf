package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pharma/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

func getRequestID(c *gin.Context) string {
	return c.GetString("request_id")
}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// HandleError converts a service error into the wire envelope
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	status, resp := dto.FromError(err)
	resp.RequestID = getRequestID(c)
	c.JSON(status, resp)
}

// BindJSON binds the request body, writing a validation response on
// failure. Returns false when the request was rejected.
func (h *BaseHandler) BindJSON(c *gin.Context, target any) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		status, resp := dto.FromValidationError(err)
		resp.RequestID = getRequestID(c)
		c.JSON(status, resp)
		return false
	}
	return true
}

// ParseID parses the :id path parameter, writing a 400 response on
// failure. Returns false when the request was rejected.
func (h *BaseHandler) ParseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		resp := dto.NewErrorResponseWithRequestID(dto.ErrCodeInvalidInput, "Invalid ID parameter", getRequestID(c))
		c.JSON(http.StatusBadRequest, resp)
		return 0, false
	}
	return id, true
}
