package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/muni-rrhh/dashboard/internal/application/service"
	"github.com/muni-rrhh/dashboard/internal/domain"
)

// Response represents a standard JSON response
type Response struct {
	Success bool              `json:"success"`
	Data    interface{}       `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

func respondOK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{Success: true, Data: data})
}

func respondMessage(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

// respondError maps application errors to status codes. Validation errors
// carry their per-field messages.
func (h *Handlers) respondError(c *gin.Context, action string, err error) {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, Response{
			Success: false,
			Error:   "validation failed",
			Fields:  verr.Fields,
		})
		return
	}

	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "action", action, "error", err)
		respondMessage(c, status, action+" failed")
		return
	}
	respondMessage(c, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, service.ErrNoResult):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicate), errors.Is(err, service.ErrRunInProgress):
		return http.StatusConflict
	case errors.Is(err, domain.ErrSpreadsheetUnreadable):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// paramID parses the :id path parameter, answering 400 on failure
func paramID(c *gin.Context) (int64, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		respondMessage(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return id, true
}

// userID returns the authenticated user set by authMiddleware
func userID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}
