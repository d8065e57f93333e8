package consumers

import (
	"context"
	"encoding/json"
	"log/slog"

	"bilet/internal/cache"
	"bilet/internal/metrics"
	"bilet/internal/models"
	"bilet/internal/repository"

	"github.com/nats-io/stan.go"
)

// Handlers consumes the domain event stream. The writes that matter
// (notifications, ticket rows) already happened synchronously in the API;
// this side keeps the audit log, the Prometheus counters and the shared
// landing-page cache honest across instances.
type Handlers struct {
	repos  *repository.Repositories
	valkey *cache.ValkeyClient
}

func NewHandlers(repos *repository.Repositories, valkey *cache.ValkeyClient) *Handlers {
	return &Handlers{
		repos:  repos,
		valkey: valkey,
	}
}

func (h *Handlers) HandleUserRegistered(m *stan.Msg) {
	var event models.DomainEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal user registered event", "error", err)
		return
	}

	slog.Info("User registered", "user_id", event.UserID, "at", event.Timestamp)
	metrics.ConsumedMessages.WithLabelValues(models.EventUserRegistered).Inc()

	m.Ack()
}

func (h *Handlers) HandleEventCreated(m *stan.Msg) {
	var event models.DomainEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal event created event", "error", err)
		return
	}

	slog.Info("Event created", "event_id", event.EventID, "user_id", event.UserID)
	metrics.ConsumedMessages.WithLabelValues(models.EventEventCreated).Inc()

	h.invalidateUpcoming()

	m.Ack()
}

func (h *Handlers) HandleEventUpdated(m *stan.Msg) {
	var event models.DomainEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal event updated event", "error", err)
		return
	}

	slog.Info("Event updated", "event_id", event.EventID, "user_id", event.UserID)
	metrics.ConsumedMessages.WithLabelValues(models.EventEventUpdated).Inc()

	h.invalidateUpcoming()

	m.Ack()
}

func (h *Handlers) HandleEventCancelled(m *stan.Msg) {
	var event models.EventCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal event cancelled event", "error", err)
		return
	}

	slog.Info("Event cancelled",
		"event_id", event.EventID,
		"organizer_id", event.OrganizerID,
		"notified", event.NotifiedCount)
	metrics.ConsumedMessages.WithLabelValues(models.EventEventCancelled).Inc()

	h.invalidateUpcoming()

	m.Ack()
}

func (h *Handlers) HandleTicketPurchased(m *stan.Msg) {
	var event models.TicketPurchasedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket purchased event", "error", err)
		return
	}

	slog.Info("Tickets purchased",
		"event_id", event.EventID,
		"attendee_id", event.AttendeeID,
		"quantity", event.Quantity)
	metrics.ConsumedMessages.WithLabelValues(models.EventTicketPurchase).Inc()

	m.Ack()
}

func (h *Handlers) HandleTicketCancelled(m *stan.Msg) {
	var event models.DomainEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal ticket cancelled event", "error", err)
		return
	}

	slog.Info("Ticket cancelled", "event_id", event.EventID, "user_id", event.UserID)
	metrics.ConsumedMessages.WithLabelValues(models.EventTicketCancel).Inc()

	m.Ack()
}

func (h *Handlers) HandleCommentCreated(m *stan.Msg) {
	var event models.DomainEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		slog.Error("Failed to unmarshal comment created event", "error", err)
		return
	}

	slog.Info("Comment created", "event_id", event.EventID, "user_id", event.UserID)
	metrics.ConsumedMessages.WithLabelValues(models.EventCommentCreated).Inc()

	m.Ack()
}

// invalidateUpcoming drops the shared landing-page cache so other API
// instances re-read after an event changes.
func (h *Handlers) invalidateUpcoming() {
	if h.valkey == nil {
		return
	}
	if err := h.valkey.InvalidateUpcomingEvents(context.Background()); err != nil {
		slog.Error("Failed to invalidate upcoming events cache", "error", err)
	}
}
