package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateEmailRequest is the body of PUT /auth/update-email
type UpdateEmailRequest struct {
	Email string `json:"email"`
}

// UpdateNotificationsRequest is the body of PUT /auth/update-notifications
type UpdateNotificationsRequest struct {
	Enabled bool `json:"notificaciones"`
}

// Login handles POST /auth/login
func (h *Handlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.services.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(c, "login", err)
		return
	}

	respondOK(c, http.StatusOK, result)
}

// Me handles GET /auth/me
func (h *Handlers) Me(c *gin.Context) {
	user, err := h.services.Auth.Me(c.Request.Context(), userID(c))
	if err != nil {
		h.respondError(c, "get current user", err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// UpdateEmail handles PUT /auth/update-email
func (h *Handlers) UpdateEmail(c *gin.Context) {
	var req UpdateEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.services.Auth.UpdateEmail(c.Request.Context(), userID(c), req.Email)
	if err != nil {
		h.respondError(c, "update email", err)
		return
	}
	respondOK(c, http.StatusOK, user)
}

// UpdateNotifications handles PUT /auth/update-notifications
func (h *Handlers) UpdateNotifications(c *gin.Context) {
	var req UpdateNotificationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondMessage(c, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.services.Auth.UpdateNotifications(c.Request.Context(), userID(c), req.Enabled)
	if err != nil {
		h.respondError(c, "update notifications", err)
		return
	}
	respondOK(c, http.StatusOK, user)
}
