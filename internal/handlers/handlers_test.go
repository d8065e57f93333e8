package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"bilet/internal/middleware"
	"bilet/internal/models"
	"bilet/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal in-memory stores, just enough to drive the HTTP layer end to end
// through the real middleware chain.

type memUsers struct {
	users  map[int64]*models.User
	nextID int64
}

func (s *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) { return s.users[id], nil }
func (s *memUsers) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (s *memUsers) GetByPhone(_ context.Context, phone string) (*models.User, error) {
	for _, u := range s.users {
		if u.Phone != nil && *u.Phone == phone {
			return u, nil
		}
	}
	return nil, nil
}
func (s *memUsers) Create(_ context.Context, user *models.User) error {
	s.nextID++
	user.ID = s.nextID
	s.users[user.ID] = user
	return nil
}
func (s *memUsers) Update(_ context.Context, user *models.User) error {
	s.users[user.ID] = user
	return nil
}
func (s *memUsers) UpdatePassword(_ context.Context, userID int64, hash string) error {
	if u, ok := s.users[userID]; ok {
		u.PasswordHash = hash
	}
	return nil
}
func (s *memUsers) CountAll(_ context.Context) (int64, error) { return int64(len(s.users)), nil }
func (s *memUsers) ListRecent(_ context.Context, _ int) ([]models.User, error) { return nil, nil }

type memSessions struct {
	sessions map[string]*models.Session
}

func (s *memSessions) Create(_ context.Context, session *models.Session) error {
	s.sessions[session.Token] = session
	return nil
}
func (s *memSessions) Get(_ context.Context, token string) (*models.Session, error) {
	session, ok := s.sessions[token]
	if !ok || session.ExpiresAt.Before(time.Now()) {
		return nil, nil
	}
	return session, nil
}
func (s *memSessions) Delete(_ context.Context, token string) error {
	delete(s.sessions, token)
	return nil
}

type memEvents struct {
	events map[int64]*models.Event
	nextID int64
}

func (s *memEvents) Create(_ context.Context, event *models.Event) error {
	s.nextID++
	event.ID = s.nextID
	event.IsActive = true
	s.events[event.ID] = event
	return nil
}
func (s *memEvents) GetByID(_ context.Context, id int64) (*models.Event, error) {
	return s.events[id], nil
}
func (s *memEvents) List(_ context.Context, _ models.EventFilter) ([]models.Event, error) {
	var out []models.Event
	for _, e := range s.events {
		out = append(out, *e)
	}
	return out, nil
}
func (s *memEvents) ListUpcoming(_ context.Context, _ int) ([]models.Event, error) { return nil, nil }
func (s *memEvents) ListByOrganizer(_ context.Context, _ int64) ([]models.Event, error) {
	return nil, nil
}
func (s *memEvents) ListByAttendee(_ context.Context, _ int64, _ bool) ([]models.Event, error) {
	return nil, nil
}
func (s *memEvents) Update(_ context.Context, event *models.Event) error {
	s.events[event.ID] = event
	return nil
}
func (s *memEvents) Cancel(_ context.Context, eventID int64, _ string) (int64, error) {
	s.events[eventID].IsActive = false
	return 0, nil
}
func (s *memEvents) CountAll(_ context.Context) (int64, error) { return int64(len(s.events)), nil }
func (s *memEvents) ListRecent(_ context.Context, _ int) ([]models.Event, error) { return nil, nil }

type memTickets struct{}

func (s *memTickets) Purchase(_ context.Context, _ *models.Event, _ int64, _ int, _ string) ([]models.Ticket, error) {
	return nil, nil
}
func (s *memTickets) GetByID(_ context.Context, _ int64) (*models.Ticket, error) { return nil, nil }
func (s *memTickets) ListByAttendee(_ context.Context, _ int64) ([]models.TicketWithEvent, error) {
	return nil, nil
}
func (s *memTickets) Deactivate(_ context.Context, _ int64) error                 { return nil }
func (s *memTickets) CountActiveByEvent(_ context.Context, _ int64) (int, error)  { return 0, nil }
func (s *memTickets) HasActiveTicket(_ context.Context, _, _ int64) (bool, error) { return false, nil }

type memComments struct{}

func (s *memComments) Create(_ context.Context, _ *models.Comment) error { return nil }
func (s *memComments) GetByID(_ context.Context, _ int64) (*models.Comment, error) {
	return nil, nil
}
func (s *memComments) ListByEvent(_ context.Context, _ int64) ([]models.Comment, error) {
	return nil, nil
}
func (s *memComments) Update(_ context.Context, _ *models.Comment) error { return nil }
func (s *memComments) Delete(_ context.Context, _ int64) error           { return nil }

func newTestRouter(t *testing.T) (*gin.Engine, *memEvents) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &memUsers{users: map[int64]*models.User{}}
	sessions := &memSessions{sessions: map[string]*models.Session{}}
	events := &memEvents{events: map[int64]*models.Event{}}

	userService := service.NewUserService(users, sessions, nil, nil, time.Hour, time.Hour, time.Hour)
	eventService := service.NewEventService(events, &memTickets{}, &memComments{}, nil, nil, nil, 6)

	services := &service.Services{
		Users:  userService,
		Events: eventService,
	}

	h := NewHandlers(services, nil, time.Minute)

	router := gin.New()
	api := router.Group("/api")
	api.Use(middleware.SessionAuth(userService))
	{
		api.POST("/register", h.Register)
		api.POST("/login", h.Login)
		api.GET("/events", h.ListEvents)
		api.GET("/events/:id", h.GetEvent)

		auth := api.Group("")
		auth.Use(middleware.RequireAuth())
		{
			auth.GET("/profile", h.GetProfile)
			auth.POST("/events", h.CreateEvent)
		}
	}

	return router, events
}

func doJSON(router *gin.Engine, method, path string, body interface{}, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, _ := json.Marshal(body)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/register", models.RegisterRequest{
		Email: "a@example.com", Password: "correct-horse", FirstName: "A", LastName: "B",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	// Missing required fields fail binding.
	w = doJSON(router, http.MethodPost, "/api/register", gin.H{"email": "a@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// Duplicate email maps to 400 with the user-facing message.
	w = doJSON(router, http.MethodPost, "/api/register", models.RegisterRequest{
		Email: "a@example.com", Password: "correct-horse", FirstName: "A", LastName: "B",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already in use")
}

func TestLoginSetsSessionCookie(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodPost, "/api/register", models.RegisterRequest{
		Email: "a@example.com", Password: "correct-horse", FirstName: "A", LastName: "B",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(router, http.MethodPost, "/api/login", models.LoginRequest{
		Email: "a@example.com", Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodPost, "/api/login", models.LoginRequest{
		Email: "a@example.com", Password: "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var sessionCookie *http.Cookie
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == middleware.SessionCookie {
			sessionCookie = cookie
		}
	}
	require.NotNil(t, sessionCookie, "login must set the session cookie")
	assert.True(t, sessionCookie.HttpOnly)

	// The cookie authenticates subsequent requests.
	w = doJSON(router, http.MethodGet, "/api/profile", nil, sessionCookie)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "a@example.com")
	assert.NotContains(t, w.Body.String(), "correct-horse")

	// Without it the route is 401.
	w = doJSON(router, http.MethodGet, "/api/profile", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetEventErrors(t *testing.T) {
	router, events := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/events/not-a-number", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/events/42", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	event := &models.Event{
		Title:       "Listed",
		Description: strings.Repeat("x", 60),
		Location:    "Almaty",
		StartDate:   time.Now().Add(24 * time.Hour),
		EndDate:     time.Now().Add(26 * time.Hour),
		Visibility:  models.VisibilityPublic,
		Capacity:    10,
	}
	require.NoError(t, events.Create(context.Background(), event))

	w = doJSON(router, http.MethodGet, fmt.Sprintf("/api/events/%d", event.ID), nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestListEventsPaginationValidation(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(router, http.MethodGet, "/api/events?page=0", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/events?pageSize=51", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(router, http.MethodGet, "/api/events", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCreateEventRequiresRole(t *testing.T) {
	router, _ := newTestRouter(t)

	payload := models.CreateEventRequest{
		Title:       "New",
		Description: strings.Repeat("x", 60),
		Location:    "Almaty",
		StartDate:   time.Now().Add(24 * time.Hour),
		EndDate:     time.Now().Add(26 * time.Hour),
		Capacity:    10,
	}

	// Anonymous callers never reach the handler.
	w := doJSON(router, http.MethodPost, "/api/events", payload)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Attendees are authenticated but not allowed.
	doJSON(router, http.MethodPost, "/api/register", models.RegisterRequest{
		Email: "attendee@example.com", Password: "correct-horse", FirstName: "A", LastName: "B",
	})
	w = doJSON(router, http.MethodPost, "/api/login", models.LoginRequest{
		Email: "attendee@example.com", Password: "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookie := w.Result().Cookies()[0]

	w = doJSON(router, http.MethodPost, "/api/events", payload, cookie)
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Organizers can create.
	doJSON(router, http.MethodPost, "/api/register", models.RegisterRequest{
		Email: "org@example.com", Password: "correct-horse", FirstName: "A", LastName: "B",
		Role: models.RoleOrganizer,
	})
	w = doJSON(router, http.MethodPost, "/api/login", models.LoginRequest{
		Email: "org@example.com", Password: "correct-horse",
	})
	require.Equal(t, http.StatusOK, w.Code)
	cookie = w.Result().Cookies()[0]

	w = doJSON(router, http.MethodPost, "/api/events", payload, cookie)
	assert.Equal(t, http.StatusCreated, w.Code)
}
