package handlers

import (
	"net/http"
	"strconv"

	"bilet/internal/middleware"

	"github.com/gin-gonic/gin"
)

// ListNotifications - GET /api/notifications
func (h *Handlers) ListNotifications(c *gin.Context) {
	notifications, err := h.services.Notifications.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, notifications)
}

// MarkNotificationRead - POST /api/notifications/:id/mark-read
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	notificationID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.services.Notifications.MarkRead(c.Request.Context(), middleware.CurrentUser(c), notificationID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// MarkAllNotificationsRead - POST /api/notifications/mark-all-read
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	updated, err := h.services.Notifications.MarkAllRead(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// Dashboard - GET /api/dashboard
func (h *Handlers) Dashboard(c *gin.Context) {
	response, err := h.services.Dashboard.ForUser(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// AdminStats - GET /api/admin/stats
func (h *Handlers) AdminStats(c *gin.Context) {
	response, err := h.services.Dashboard.AdminStats(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}
