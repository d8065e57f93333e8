package handlers

import (
	"net/http"
	"strconv"

	"bilet/internal/middleware"
	"bilet/internal/models"

	"github.com/gin-gonic/gin"
)

// PurchaseTickets - POST /api/events/:id/purchase
func (h *Handlers) PurchaseTickets(c *gin.Context) {
	eventID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return
	}

	var req models.PurchaseTicketsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	response, err := h.services.Tickets.Purchase(c.Request.Context(), middleware.CurrentUser(c), eventID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response)
}

// MyTickets - GET /api/tickets
func (h *Handlers) MyTickets(c *gin.Context) {
	tickets, err := h.services.Tickets.ListMine(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, tickets)
}

// CancelTicket - POST /api/tickets/:id/cancel
func (h *Handlers) CancelTicket(c *gin.Context) {
	ticketID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid ticket id"})
		return
	}

	if err := h.services.Tickets.Cancel(c.Request.Context(), middleware.CurrentUser(c), ticketID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusOK)
}
