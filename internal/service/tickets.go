package service

import (
	"context"
	"fmt"
	"time"

	"bilet/internal/authz"
	apperrors "bilet/internal/errors"
	"bilet/internal/logger"
	"bilet/internal/messaging"
	"bilet/internal/metrics"
	"bilet/internal/models"
)

type TicketService struct {
	tickets    TicketStore
	events     EventStore
	natsClient *messaging.NATSClient
}

func NewTicketService(tickets TicketStore, events EventStore, natsClient *messaging.NATSClient) *TicketService {
	return &TicketService{
		tickets:    tickets,
		events:     events,
		natsClient: natsClient,
	}
}

// Purchase issues quantity tickets to the user. The availability check and
// the inserts run in one transaction in the store; on any failure no ticket
// row and no notification is written.
func (s *TicketService) Purchase(ctx context.Context, user *models.User, eventID int64, quantity int) (*models.PurchaseTicketsResponse, error) {
	if quantity < 1 {
		return nil, apperrors.NewValidation("quantity must be at least 1")
	}

	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}
	if !event.IsActive {
		return nil, apperrors.NewValidation("this event has been cancelled")
	}
	if !event.IsUpcoming() {
		return nil, apperrors.NewValidation("this event has already started")
	}

	message := fmt.Sprintf("Your ticket(s) for '%s' have been confirmed.", event.Title)
	tickets, err := s.tickets.Purchase(ctx, event, user.ID, quantity, message)
	if err != nil {
		return nil, err
	}

	metrics.TicketsSold.Add(float64(quantity))
	metrics.NotificationsCreated.Inc()

	if err := s.natsClient.Publish(models.EventTicketPurchase, models.TicketPurchasedEvent{
		EventID:    event.ID,
		AttendeeID: user.ID,
		Quantity:   quantity,
		Timestamp:  time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish ticket purchased event",
			"error", err, "event_id", event.ID)
	}

	available, err := s.tickets.CountActiveByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count tickets: %w", err)
	}

	ids := make([]int64, len(tickets))
	for i, ticket := range tickets {
		ids[i] = ticket.ID
	}

	return &models.PurchaseTicketsResponse{
		TicketIDs: ids,
		Remaining: event.Capacity - available,
	}, nil
}

func (s *TicketService) ListMine(ctx context.Context, user *models.User) ([]models.TicketWithEvent, error) {
	tickets, err := s.tickets.ListByAttendee(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}
	return tickets, nil
}

// Cancel deactivates a single ticket, freeing one unit of capacity
// immediately. Only the ticket holder may cancel it.
func (s *TicketService) Cancel(ctx context.Context, user *models.User, ticketID int64) error {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return fmt.Errorf("failed to get ticket: %w", err)
	}
	if ticket == nil || !ticket.IsActive {
		return apperrors.ErrNotFound
	}
	if !authz.CanCancelTicket(user, ticket) {
		return apperrors.ErrForbidden
	}

	if err := s.tickets.Deactivate(ctx, ticket.ID); err != nil {
		return fmt.Errorf("failed to cancel ticket: %w", err)
	}

	metrics.TicketsCancelled.Inc()

	if err := s.natsClient.Publish(models.EventTicketCancel, models.DomainEvent{
		EventID:   ticket.EventID,
		UserID:    user.ID,
		Timestamp: time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish ticket cancelled event",
			"error", err, "ticket_id", ticket.ID)
	}

	return nil
}
