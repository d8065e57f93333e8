package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"bilet/internal/middleware"
	"bilet/internal/models"

	"github.com/gin-gonic/gin"
)

// ListEvents - GET /api/events
// Upcoming active events; private ones only for authenticated callers.
func (h *Handlers) ListEvents(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", "20"))

	if page < 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "page must be >= 1"})
		return
	}

	if pageSize < 1 || pageSize > 50 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "pageSize must be between 1 and 50"})
		return
	}

	filter := models.EventFilter{
		Search:         c.Query("search"),
		Category:       c.Query("category"),
		Page:           page,
		PageSize:       pageSize,
		IncludePrivate: middleware.CurrentUser(c) != nil,
	}

	response, err := h.services.Events.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// UpcomingEvents - GET /api/events/upcoming
// Landing-page feed, served from the Valkey cache when possible.
func (h *Handlers) UpcomingEvents(c *gin.Context) {
	if h.valkeyClient != nil {
		rawJSON, err := h.valkeyClient.GetUpcomingEventsRaw(c.Request.Context())
		if err == nil {
			c.Data(http.StatusOK, "application/json", rawJSON)
			return
		}
	}

	events, err := h.services.Events.Upcoming(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if h.valkeyClient != nil {
		if err := h.valkeyClient.SetUpcomingEvents(c.Request.Context(), events, h.upcomingTTL); err != nil {
			slog.Error("Failed to cache upcoming events", "error", err)
		}
	}

	c.JSON(http.StatusOK, events)
}

// GetEvent - GET /api/events/:id
func (h *Handlers) GetEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	detail, err := h.services.Events.Detail(c.Request.Context(), middleware.CurrentUser(c), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// CreateEvent - POST /api/events
func (h *Handlers) CreateEvent(c *gin.Context) {
	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreateEventResponse{ID: event.ID})
}

// UpdateEvent - PUT /api/events/:id
func (h *Handlers) UpdateEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req models.CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	event, err := h.services.Events.Update(c.Request.Context(), middleware.CurrentUser(c), eventID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, event)
}

// CancelEvent - DELETE /api/events/:id
// Soft cancel: the row stays, tickets deactivate, holders get notified.
func (h *Handlers) CancelEvent(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	if err := h.services.Events.Cancel(c.Request.Context(), middleware.CurrentUser(c), eventID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}

// MyEvents - GET /api/events/mine
func (h *Handlers) MyEvents(c *gin.Context) {
	events, err := h.services.Events.ListByOrganizer(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, events)
}

// ListCategories - GET /api/categories
func (h *Handlers) ListCategories(c *gin.Context) {
	categories, err := h.services.Categories.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, categories)
}

// CreateCategory - POST /api/categories
func (h *Handlers) CreateCategory(c *gin.Context) {
	var req models.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.services.Categories.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}
