package models

import (
	"time"
)

// User roles. The role drives every authorization decision, there is no
// finer-grained permission model.
const (
	RoleAttendee  = "attendee"
	RoleOrganizer = "organizer"
	RoleAdmin     = "admin"
)

// Event visibility.
const (
	VisibilityPublic  = "public"
	VisibilityPrivate = "private"
)

// Notification kinds.
const (
	NotificationEventUpdate        = "event_update"
	NotificationTicketConfirmation = "ticket_confirmation"
	NotificationEventCancellation  = "event_cancellation"
	NotificationNewEvent           = "new_event"
)

// User represents an account in the system
type User struct {
	ID           int64     `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Phone        *string   `json:"phone" db:"phone"`
	Bio          *string   `json:"bio" db:"bio"`
	Role         string    `json:"role" db:"role"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	RegisteredAt time.Time `json:"registered_at" db:"registered_at"`
}

// Event represents an event in the catalog. Availability is always derived
// from ticket rows, never stored on the event.
type Event struct {
	ID          int64     `json:"id" db:"id"`
	OrganizerID int64     `json:"organizer_id" db:"organizer_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	CategoryID  *int64    `json:"category_id" db:"category_id"`
	StartDate   time.Time `json:"start_date" db:"start_date"`
	EndDate     time.Time `json:"end_date" db:"end_date"`
	Visibility  string    `json:"visibility" db:"visibility"`
	Capacity    int       `json:"capacity" db:"capacity"`
	PriceCents  int64     `json:"price_cents" db:"price_cents"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// IsUpcoming reports whether the event starts in the future.
func (e *Event) IsUpcoming() bool {
	return e.StartDate.After(time.Now())
}

// EventCategory groups events for the list filter
type EventCategory struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	Description *string `json:"description" db:"description"`
}

// Ticket represents one purchased unit. One row per unit, there is no
// quantity field; a cancelled ticket stays in the ledger with is_active=false.
type Ticket struct {
	ID           int64     `json:"id" db:"id"`
	EventID      int64     `json:"event_id" db:"event_id"`
	AttendeeID   int64     `json:"attendee_id" db:"attendee_id"`
	TicketNumber string    `json:"ticket_number" db:"ticket_number"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	IssuedAt     time.Time `json:"issued_at" db:"issued_at"`
}

// Comment is free text with an optional 1..5 rating per (event, user).
// Multiplicity is unconstrained: a user may comment on the same event
// any number of times.
type Comment struct {
	ID        int64     `json:"id" db:"id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	Rating    *int      `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Notification is append-only except for the read flag.
type Notification struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Kind           string    `json:"kind" db:"kind"`
	Message        string    `json:"message" db:"message"`
	RelatedEventID *int64    `json:"related_event_id" db:"related_event_id"`
	IsRead         bool      `json:"is_read" db:"is_read"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// Session is the DB-backed session/reset-token record. Valkey fronts this
// table when it is available.
type Session struct {
	Token     string    `json:"-" db:"token"`
	UserID    int64     `json:"user_id" db:"user_id"`
	Purpose   string    `json:"purpose" db:"purpose"`
	ExpiresAt time.Time `json:"expires_at" db:"expires_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Session purposes.
const (
	SessionPurposeLogin         = "session"
	SessionPurposePasswordReset = "password_reset"
)
