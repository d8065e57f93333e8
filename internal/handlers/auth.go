package handlers

import (
	"net/http"

	"bilet/internal/middleware"
	"bilet/internal/models"

	"github.com/gin-gonic/gin"
)

// Register - POST /api/register
func (h *Handlers) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.services.Users.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.RegisterResponse{ID: user.ID})
}

// Login - POST /api/login
// Sets the session cookie; remember_me stretches its lifetime.
func (h *Handlers) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, ttl, err := h.services.Users.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.SetCookie(middleware.SessionCookie, token, int(ttl.Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, models.LoginResponse{UserID: user.ID, Role: user.Role})
}

// Logout - POST /api/logout
func (h *Handlers) Logout(c *gin.Context) {
	token, err := c.Cookie(middleware.SessionCookie)
	if err == nil && token != "" {
		if err := h.services.Users.Logout(c.Request.Context(), token); err != nil {
			respondError(c, err)
			return
		}
	}

	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusOK)
}

// RequestPasswordReset - POST /api/password-reset
// Always answers 200 so the endpoint does not reveal which emails exist.
func (h *Handlers) RequestPasswordReset(c *gin.Context) {
	var req models.PasswordResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Users.RequestPasswordReset(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// ConfirmPasswordReset - POST /api/password-reset/confirm
func (h *Handlers) ConfirmPasswordReset(c *gin.Context) {
	var req models.PasswordResetConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.services.Users.ConfirmPasswordReset(c.Request.Context(), &req); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// GetProfile - GET /api/profile
func (h *Handlers) GetProfile(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

// UpdateProfile - PUT /api/profile
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req models.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.services.Users.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
