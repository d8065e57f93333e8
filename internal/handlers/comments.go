package handlers

import (
	"net/http"
	"strconv"

	"bilet/internal/middleware"
	"bilet/internal/models"

	"github.com/gin-gonic/gin"
)

// ListComments - GET /api/events/:id/comments
func (h *Handlers) ListComments(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	comments, err := h.services.Comments.ListByEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comments)
}

// CreateComment - POST /api/events/:id/comments
func (h *Handlers) CreateComment(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.services.Comments.Create(c.Request.Context(), middleware.CurrentUser(c), eventID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.CreateCommentResponse{ID: comment.ID})
}

// UpdateComment - PUT /api/comments/:id
func (h *Handlers) UpdateComment(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.services.Comments.Update(c.Request.Context(), middleware.CurrentUser(c), commentID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, comment)
}

// DeleteComment - DELETE /api/comments/:id
func (h *Handlers) DeleteComment(c *gin.Context) {
	commentID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid comment id"})
		return
	}

	if err := h.services.Comments.Delete(c.Request.Context(), middleware.CurrentUser(c), commentID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
