package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	apperrors "bilet/internal/errors"
	"bilet/internal/models"
)

// In-memory store fakes. They reproduce the repository semantics the services
// depend on: nil for missing rows, derived availability, and the all-or-nothing
// purchase and cancellation cascades.

type fakeStores struct {
	users         *fakeUserStore
	events        *fakeEventStore
	tickets       *fakeTicketStore
	comments      *fakeCommentStore
	notifications *fakeNotificationStore
	sessions      *fakeSessionStore
	categories    *fakeCategoryStore
}

func newFakeStores() *fakeStores {
	notifications := &fakeNotificationStore{}
	tickets := &fakeTicketStore{
		tickets:       map[int64]*models.Ticket{},
		notifications: notifications,
	}
	events := &fakeEventStore{
		events:        map[int64]*models.Event{},
		tickets:       tickets,
		notifications: notifications,
	}
	tickets.events = events
	return &fakeStores{
		users:         &fakeUserStore{users: map[int64]*models.User{}},
		events:        events,
		tickets:       tickets,
		comments:      &fakeCommentStore{comments: map[int64]*models.Comment{}},
		notifications: notifications,
		sessions:      &fakeSessionStore{sessions: map[string]*models.Session{}},
		categories:    &fakeCategoryStore{},
	}
}

// --- users ---

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func (s *fakeUserStore) GetByID(_ context.Context, id int64) (*models.User, error) {
	return s.users[id], nil
}

func (s *fakeUserStore) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, u := range s.users {
		if u.Phone != nil && *u.Phone == phone {
			return u, nil
		}
	}
	return nil, nil
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.nextID++
	user.ID = s.nextID
	user.RegisteredAt = time.Now()
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) Update(_ context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	if u, ok := s.users[userID]; ok {
		u.PasswordHash = passwordHash
	}
	return nil
}

func (s *fakeUserStore) CountAll(_ context.Context) (int64, error) {
	return int64(len(s.users)), nil
}

func (s *fakeUserStore) ListRecent(_ context.Context, limit int) ([]models.User, error) {
	var out []models.User
	for _, u := range s.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- events ---

type fakeEventStore struct {
	events        map[int64]*models.Event
	nextID        int64
	tickets       *fakeTicketStore
	notifications *fakeNotificationStore
}

func (s *fakeEventStore) Create(_ context.Context, event *models.Event) error {
	s.nextID++
	event.ID = s.nextID
	event.IsActive = true
	event.CreatedAt = time.Now()
	event.UpdatedAt = event.CreatedAt
	s.events[event.ID] = event
	return nil
}

func (s *fakeEventStore) GetByID(_ context.Context, id int64) (*models.Event, error) {
	return s.events[id], nil
}

func (s *fakeEventStore) List(_ context.Context, filter models.EventFilter) ([]models.Event, error) {
	var out []models.Event
	for _, e := range s.events {
		if !e.IsActive || !e.IsUpcoming() {
			continue
		}
		if e.Visibility == models.VisibilityPrivate && !filter.IncludePrivate {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartDate.Before(out[j].StartDate) })
	return out, nil
}

func (s *fakeEventStore) ListUpcoming(_ context.Context, limit int) ([]models.Event, error) {
	events, _ := s.List(context.Background(), models.EventFilter{})
	if len(events) > limit {
		events = events[:limit]
	}
	return events, nil
}

func (s *fakeEventStore) ListByOrganizer(_ context.Context, organizerID int64) ([]models.Event, error) {
	var out []models.Event
	for _, e := range s.events {
		if e.OrganizerID == organizerID {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (s *fakeEventStore) ListByAttendee(_ context.Context, attendeeID int64, upcoming bool) ([]models.Event, error) {
	seen := map[int64]bool{}
	var out []models.Event
	for _, t := range s.tickets.tickets {
		if t.AttendeeID != attendeeID || !t.IsActive || seen[t.EventID] {
			continue
		}
		e := s.events[t.EventID]
		if e == nil || e.IsUpcoming() != upcoming {
			continue
		}
		seen[t.EventID] = true
		out = append(out, *e)
	}
	return out, nil
}

func (s *fakeEventStore) Update(_ context.Context, event *models.Event) error {
	event.UpdatedAt = time.Now()
	s.events[event.ID] = event
	return nil
}

func (s *fakeEventStore) Cancel(_ context.Context, eventID int64, message string) (int64, error) {
	event := s.events[eventID]
	event.IsActive = false

	holders := map[int64]bool{}
	for _, t := range s.tickets.tickets {
		if t.EventID == eventID && t.IsActive {
			holders[t.AttendeeID] = true
			t.IsActive = false
		}
	}
	for attendeeID := range holders {
		s.notifications.add(attendeeID, models.NotificationEventCancellation, message, &eventID)
	}
	return int64(len(holders)), nil
}

func (s *fakeEventStore) CountAll(_ context.Context) (int64, error) {
	return int64(len(s.events)), nil
}

func (s *fakeEventStore) ListRecent(_ context.Context, limit int) ([]models.Event, error) {
	var out []models.Event
	for _, e := range s.events {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- tickets ---

type fakeTicketStore struct {
	tickets       map[int64]*models.Ticket
	nextID        int64
	events        *fakeEventStore
	notifications *fakeNotificationStore
}

func (s *fakeTicketStore) Purchase(ctx context.Context, event *models.Event, attendeeID int64, quantity int, message string) ([]models.Ticket, error) {
	sold, _ := s.CountActiveByEvent(ctx, event.ID)
	available := event.Capacity - sold
	if quantity > available {
		return nil, apperrors.NewValidation(fmt.Sprintf("only %d tickets available", available))
	}

	out := make([]models.Ticket, 0, quantity)
	for i := 0; i < quantity; i++ {
		s.nextID++
		ticket := &models.Ticket{
			ID:           s.nextID,
			EventID:      event.ID,
			AttendeeID:   attendeeID,
			TicketNumber: fmt.Sprintf("TICK-%d-%d-%d", event.ID, attendeeID, s.nextID),
			IsActive:     true,
			IssuedAt:     time.Now(),
		}
		s.tickets[ticket.ID] = ticket
		out = append(out, *ticket)
	}

	s.notifications.add(attendeeID, models.NotificationTicketConfirmation, message, &event.ID)
	return out, nil
}

func (s *fakeTicketStore) GetByID(_ context.Context, id int64) (*models.Ticket, error) {
	return s.tickets[id], nil
}

func (s *fakeTicketStore) ListByAttendee(_ context.Context, attendeeID int64) ([]models.TicketWithEvent, error) {
	var out []models.TicketWithEvent
	for _, t := range s.tickets {
		if t.AttendeeID != attendeeID {
			continue
		}
		row := models.TicketWithEvent{Ticket: *t}
		if e := s.events.events[t.EventID]; e != nil {
			row.EventTitle = e.Title
			row.StartDate = e.StartDate
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *fakeTicketStore) Deactivate(_ context.Context, id int64) error {
	if t, ok := s.tickets[id]; ok {
		t.IsActive = false
	}
	return nil
}

func (s *fakeTicketStore) CountActiveByEvent(_ context.Context, eventID int64) (int, error) {
	count := 0
	for _, t := range s.tickets {
		if t.EventID == eventID && t.IsActive {
			count++
		}
	}
	return count, nil
}

func (s *fakeTicketStore) HasActiveTicket(_ context.Context, eventID, attendeeID int64) (bool, error) {
	for _, t := range s.tickets {
		if t.EventID == eventID && t.AttendeeID == attendeeID && t.IsActive {
			return true, nil
		}
	}
	return false, nil
}

// --- comments ---

type fakeCommentStore struct {
	comments map[int64]*models.Comment
	nextID   int64
}

func (s *fakeCommentStore) Create(_ context.Context, comment *models.Comment) error {
	s.nextID++
	comment.ID = s.nextID
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	s.comments[comment.ID] = comment
	return nil
}

func (s *fakeCommentStore) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	return s.comments[id], nil
}

func (s *fakeCommentStore) ListByEvent(_ context.Context, eventID int64) ([]models.Comment, error) {
	var out []models.Comment
	for _, c := range s.comments {
		if c.EventID == eventID {
			out = append(out, *c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (s *fakeCommentStore) Update(_ context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now()
	s.comments[comment.ID] = comment
	return nil
}

func (s *fakeCommentStore) Delete(_ context.Context, id int64) error {
	delete(s.comments, id)
	return nil
}

// --- notifications ---

type fakeNotificationStore struct {
	notifications []*models.Notification
	nextID        int64
}

func (s *fakeNotificationStore) add(userID int64, kind, message string, relatedEventID *int64) {
	s.nextID++
	s.notifications = append(s.notifications, &models.Notification{
		ID:             s.nextID,
		UserID:         userID,
		Kind:           kind,
		Message:        message,
		RelatedEventID: relatedEventID,
		CreatedAt:      time.Now(),
	})
}

func (s *fakeNotificationStore) GetByID(_ context.Context, id int64) (*models.Notification, error) {
	for _, n := range s.notifications {
		if n.ID == id {
			return n, nil
		}
	}
	return nil, nil
}

func (s *fakeNotificationStore) ListByUser(_ context.Context, userID int64) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (s *fakeNotificationStore) ListUnreadByUser(_ context.Context, userID int64) ([]models.Notification, error) {
	var out []models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			out = append(out, *n)
		}
	}
	return out, nil
}

func (s *fakeNotificationStore) MarkRead(_ context.Context, id int64) error {
	for _, n := range s.notifications {
		if n.ID == id {
			n.IsRead = true
		}
	}
	return nil
}

func (s *fakeNotificationStore) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	var updated int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (s *fakeNotificationStore) byUser(userID int64) []*models.Notification {
	var out []*models.Notification
	for _, n := range s.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out
}

// --- sessions ---

type fakeSessionStore struct {
	sessions map[string]*models.Session
}

func (s *fakeSessionStore) Create(_ context.Context, session *models.Session) error {
	session.CreatedAt = time.Now()
	s.sessions[session.Token] = session
	return nil
}

func (s *fakeSessionStore) Get(_ context.Context, token string) (*models.Session, error) {
	session, ok := s.sessions[token]
	if !ok || session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return session, nil
}

func (s *fakeSessionStore) Delete(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

// --- categories ---

type fakeCategoryStore struct {
	categories []models.EventCategory
	nextID     int64
}

func (s *fakeCategoryStore) Create(_ context.Context, category *models.EventCategory) error {
	s.nextID++
	category.ID = s.nextID
	s.categories = append(s.categories, *category)
	return nil
}

func (s *fakeCategoryStore) List(_ context.Context) ([]models.EventCategory, error) {
	return s.categories, nil
}

// --- test fixtures ---

var testUserID int64 = 1000

func testUser(role string) *models.User {
	testUserID++
	return &models.User{
		ID:       testUserID,
		Email:    fmt.Sprintf("user%d@example.com", testUserID),
		Role:     role,
		IsActive: true,
	}
}

func validEventRequest() *models.CreateEventRequest {
	return &models.CreateEventRequest{
		Title:       "Go Meetup",
		Description: strings.Repeat("An evening of talks about Go in production. ", 3),
		Location:    "Almaty",
		StartDate:   time.Now().Add(48 * time.Hour),
		EndDate:     time.Now().Add(52 * time.Hour),
		Capacity:    100,
		PriceCents:  5000,
	}
}

func (f *fakeStores) seedEvent(organizer *models.User, capacity int) *models.Event {
	event := &models.Event{
		OrganizerID: organizer.ID,
		Title:       "Seeded Event",
		Description: strings.Repeat("x", 60),
		Location:    "Astana",
		StartDate:   time.Now().Add(24 * time.Hour),
		EndDate:     time.Now().Add(26 * time.Hour),
		Visibility:  models.VisibilityPublic,
		Capacity:    capacity,
	}
	_ = f.events.Create(context.Background(), event)
	return event
}
