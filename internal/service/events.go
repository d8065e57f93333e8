package service

import (
	"context"
	"fmt"
	"time"

	"bilet/internal/authz"
	"bilet/internal/cache"
	apperrors "bilet/internal/errors"
	"bilet/internal/logger"
	"bilet/internal/messaging"
	"bilet/internal/metrics"
	"bilet/internal/models"
	"bilet/internal/search"
)

type EventService struct {
	events       EventStore
	tickets      TicketStore
	comments     CommentStore
	valkeyClient *cache.ValkeyClient
	esClient     *search.ElasticsearchClient
	natsClient   *messaging.NATSClient

	upcomingLimit int
}

func NewEventService(events EventStore, tickets TicketStore, comments CommentStore, valkeyClient *cache.ValkeyClient, esClient *search.ElasticsearchClient, natsClient *messaging.NATSClient, upcomingLimit int) *EventService {
	return &EventService{
		events:        events,
		tickets:       tickets,
		comments:      comments,
		valkeyClient:  valkeyClient,
		esClient:      esClient,
		natsClient:    natsClient,
		upcomingLimit: upcomingLimit,
	}
}

func validateEventFields(req *models.CreateEventRequest) error {
	if !req.EndDate.After(req.StartDate) {
		return apperrors.NewValidation("end date must be after start date")
	}
	if req.StartDate.Before(time.Now()) {
		return apperrors.NewValidation("start date cannot be in the past")
	}
	if len(req.Description) < 50 {
		return apperrors.NewValidation("description must be at least 50 characters long")
	}
	if req.Capacity < 1 {
		return apperrors.NewValidation("capacity must be at least 1")
	}
	if req.PriceCents < 0 {
		return apperrors.NewValidation("price cannot be negative")
	}
	if req.Visibility != "" && req.Visibility != models.VisibilityPublic && req.Visibility != models.VisibilityPrivate {
		return apperrors.NewValidation("visibility must be public or private")
	}
	return nil
}

// Create publishes the event immediately; there is no draft state.
func (s *EventService) Create(ctx context.Context, organizer *models.User, req *models.CreateEventRequest) (*models.Event, error) {
	if !authz.CanCreateEvent(organizer) {
		return nil, apperrors.ErrForbidden
	}
	if err := validateEventFields(req); err != nil {
		return nil, err
	}

	visibility := req.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	event := &models.Event{
		OrganizerID: organizer.ID,
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		CategoryID:  req.CategoryID,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Visibility:  visibility,
		Capacity:    req.Capacity,
		PriceCents:  req.PriceCents,
	}

	if err := s.events.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	metrics.EventsCreated.Inc()
	s.syncIndex(ctx, event)
	s.invalidateUpcoming(ctx)

	if err := s.natsClient.Publish(models.EventEventCreated, models.DomainEvent{
		EventID:   event.ID,
		UserID:    organizer.ID,
		Timestamp: time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event created event",
			"error", err, "event_id", event.ID)
	}

	return event, nil
}

func (s *EventService) Update(ctx context.Context, user *models.User, eventID int64, req *models.CreateEventRequest) (*models.Event, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}
	if !authz.CanManageEvent(user, event) {
		return nil, apperrors.ErrForbidden
	}
	if err := validateEventFields(req); err != nil {
		return nil, err
	}

	event.Title = req.Title
	event.Description = req.Description
	event.Location = req.Location
	event.CategoryID = req.CategoryID
	event.StartDate = req.StartDate
	event.EndDate = req.EndDate
	if req.Visibility != "" {
		event.Visibility = req.Visibility
	}
	event.Capacity = req.Capacity
	event.PriceCents = req.PriceCents

	if err := s.events.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}

	s.syncIndex(ctx, event)
	s.invalidateUpcoming(ctx)

	if err := s.natsClient.Publish(models.EventEventUpdated, models.DomainEvent{
		EventID:   event.ID,
		UserID:    user.ID,
		Timestamp: time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event updated event",
			"error", err, "event_id", event.ID)
	}

	return event, nil
}

// Cancel soft-deletes the event. The cascade (ticket deactivation plus one
// event_cancellation notification per active ticket holder) happens in one
// transaction inside the store. Cancelled events never reactivate.
func (s *EventService) Cancel(ctx context.Context, user *models.User, eventID int64) error {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return apperrors.ErrNotFound
	}
	if !authz.CanManageEvent(user, event) {
		return apperrors.ErrForbidden
	}
	if !event.IsActive {
		return apperrors.NewValidation("event is already cancelled")
	}

	message := fmt.Sprintf("The event '%s' has been cancelled.", event.Title)
	notified, err := s.events.Cancel(ctx, event.ID, message)
	if err != nil {
		return fmt.Errorf("failed to cancel event: %w", err)
	}

	metrics.EventsCancelled.Inc()
	metrics.NotificationsCreated.Add(float64(notified))

	if s.esClient != nil {
		if err := s.esClient.DeleteEvent(ctx, event.ID); err != nil {
			logger.WithContext(ctx).Error("Failed to remove event from search index",
				"error", err, "event_id", event.ID)
		}
	}
	s.invalidateUpcoming(ctx)

	if err := s.natsClient.Publish(models.EventEventCancelled, models.EventCancelledEvent{
		EventID:       event.ID,
		OrganizerID:   event.OrganizerID,
		NotifiedCount: notified,
		Timestamp:     time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event cancelled event",
			"error", err, "event_id", event.ID)
	}

	return nil
}

// List returns upcoming active events. When a search term is given and the
// Elasticsearch index is configured it answers the query; otherwise the
// repository's ILIKE filter does.
func (s *EventService) List(ctx context.Context, filter models.EventFilter) ([]models.ListEventsResponseItem, error) {
	var events []models.Event
	var err error

	if filter.Search != "" && s.esClient != nil && filter.Category == "" {
		events, err = s.esClient.SearchEvents(ctx, filter.Search, filter.IncludePrivate, filter.Page, filter.PageSize)
		if err != nil {
			logger.WithContext(ctx).Error("Search index query failed, falling back to database",
				"error", err)
			events, err = s.events.List(ctx, filter)
		}
	} else {
		events, err = s.events.List(ctx, filter)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	result := make([]models.ListEventsResponseItem, len(events))
	for i, event := range events {
		result[i] = models.ListEventsResponseItem{
			ID:         event.ID,
			Title:      event.Title,
			Location:   event.Location,
			StartDate:  event.StartDate,
			Visibility: event.Visibility,
			PriceCents: event.PriceCents,
		}
	}

	return result, nil
}

// Detail returns the event with its derived availability and comments.
// Private events are hidden from anonymous callers.
func (s *EventService) Detail(ctx context.Context, user *models.User, eventID int64) (*models.EventDetailResponse, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}
	if !authz.CanViewEvent(user, event) {
		return nil, apperrors.ErrForbidden
	}

	available, err := s.Availability(ctx, event)
	if err != nil {
		return nil, err
	}

	comments, err := s.comments.ListByEvent(ctx, event.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}

	detail := &models.EventDetailResponse{
		Event:            *event,
		AvailableTickets: available,
		Comments:         comments,
	}

	if user != nil {
		hasTicket, err := s.tickets.HasActiveTicket(ctx, event.ID, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to check ticket: %w", err)
		}
		detail.HasTicket = hasTicket
	}

	return detail, nil
}

// Availability is always derived: capacity minus the count of active
// tickets. There is no stored counter to drift.
func (s *EventService) Availability(ctx context.Context, event *models.Event) (int, error) {
	sold, err := s.tickets.CountActiveByEvent(ctx, event.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to count tickets: %w", err)
	}
	return event.Capacity - sold, nil
}

// Upcoming feeds the landing page: the soonest public active events,
// a plain synchronous read.
func (s *EventService) Upcoming(ctx context.Context) ([]models.Event, error) {
	events, err := s.events.ListUpcoming(ctx, s.upcomingLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}
	return events, nil
}

func (s *EventService) ListByOrganizer(ctx context.Context, organizer *models.User) ([]models.Event, error) {
	events, err := s.events.ListByOrganizer(ctx, organizer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list organizer events: %w", err)
	}
	return events, nil
}

func (s *EventService) syncIndex(ctx context.Context, event *models.Event) {
	if s.esClient == nil {
		return
	}
	if err := s.esClient.IndexEvent(ctx, event); err != nil {
		logger.WithContext(ctx).Error("Failed to index event",
			"error", err, "event_id", event.ID)
	}
}

func (s *EventService) invalidateUpcoming(ctx context.Context) {
	if s.valkeyClient == nil {
		return
	}
	if err := s.valkeyClient.InvalidateUpcomingEvents(ctx); err != nil {
		logger.WithContext(ctx).Error("Failed to invalidate upcoming events cache", "error", err)
	}
}
