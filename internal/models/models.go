package models

import "time"

// RegisterRequest - payload for account registration. The admin role is not
// self-assignable; the service rejects anything but attendee/organizer.
type RegisterRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	Password  string  `json:"password" binding:"required,min=8"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Phone     *string `json:"phone"`
	Role      string  `json:"role"`
}

// RegisterResponse - response for account registration
type RegisterResponse struct {
	ID int64 `json:"id"`
}

// LoginRequest - payload for login
type LoginRequest struct {
	Email      string `json:"email" binding:"required"`
	Password   string `json:"password" binding:"required"`
	RememberMe bool   `json:"remember_me"`
}

// LoginResponse - response for login; the session token is also set as a cookie
type LoginResponse struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
}

// PasswordResetRequest - payload to request a reset token
type PasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// PasswordResetConfirmRequest - payload to set a new password with a token
type PasswordResetConfirmRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UpdateProfileRequest - payload for profile updates
type UpdateProfileRequest struct {
	Email     string  `json:"email" binding:"required,email"`
	FirstName string  `json:"first_name" binding:"required"`
	LastName  string  `json:"last_name" binding:"required"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio"`
}

// CreateEventRequest - payload for event creation
type CreateEventRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description" binding:"required"`
	Location    string    `json:"location" binding:"required"`
	CategoryID  *int64    `json:"category_id"`
	StartDate   time.Time `json:"start_date" binding:"required"`
	EndDate     time.Time `json:"end_date" binding:"required"`
	Visibility  string    `json:"visibility"`
	Capacity    int       `json:"capacity" binding:"required"`
	PriceCents  int64     `json:"price_cents"`
}

// CreateEventResponse - response for event creation
type CreateEventResponse struct {
	ID int64 `json:"id"`
}

// EventFilter - filters for the event list
type EventFilter struct {
	Search         string
	Category       string
	Page           int
	PageSize       int
	IncludePrivate bool
}

// ListEventsResponseItem - one row of the event list
type ListEventsResponseItem struct {
	ID         int64     `json:"id"`
	Title      string    `json:"title"`
	Location   string    `json:"location"`
	StartDate  time.Time `json:"start_date"`
	Visibility string    `json:"visibility"`
	PriceCents int64     `json:"price_cents"`
}

// EventDetailResponse - event detail with derived availability
type EventDetailResponse struct {
	Event            Event     `json:"event"`
	AvailableTickets int       `json:"available_tickets"`
	Comments         []Comment `json:"comments"`
	HasTicket        bool      `json:"has_ticket"`
}

// PurchaseTicketsRequest - payload for a ticket purchase
type PurchaseTicketsRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// PurchaseTicketsResponse - response for a ticket purchase
type PurchaseTicketsResponse struct {
	TicketIDs []int64 `json:"ticket_ids"`
	Remaining int     `json:"remaining"`
}

// TicketWithEvent - ticket list row joined with its event
type TicketWithEvent struct {
	Ticket
	EventTitle string    `json:"event_title"`
	StartDate  time.Time `json:"event_start_date"`
}

// CreateCommentRequest - payload for posting a comment
type CreateCommentRequest struct {
	Content string `json:"content" binding:"required"`
	Rating  *int   `json:"rating"`
}

// CreateCommentResponse - response for posting a comment
type CreateCommentResponse struct {
	ID int64 `json:"id"`
}

// DashboardResponse - per-role dashboard payload
type DashboardResponse struct {
	UpcomingEvents      []Event        `json:"upcoming_events,omitempty"`
	PastEvents          []Event        `json:"past_events,omitempty"`
	OrganizedEvents     []Event        `json:"organized_events,omitempty"`
	UnreadNotifications []Notification `json:"unread_notifications"`
}

// AdminStatsResponse - admin dashboard totals
type AdminStatsResponse struct {
	TotalEvents  int64   `json:"total_events"`
	TotalUsers   int64   `json:"total_users"`
	RecentEvents []Event `json:"recent_events"`
	RecentUsers  []User  `json:"recent_users"`
}

// CreateCategoryRequest - payload for category creation (admin only)
type CreateCategoryRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
}

// Domain event subjects published to NATS Streaming.
const (
	EventUserRegistered = "user.registered"
	EventEventCreated   = "event.created"
	EventEventUpdated   = "event.updated"
	EventEventCancelled = "event.cancelled"
	EventTicketPurchase = "ticket.purchased"
	EventTicketCancel   = "ticket.cancelled"
	EventCommentCreated = "comment.created"
)

// EventCancelledEvent - published when an organizer cancels an event
type EventCancelledEvent struct {
	EventID       int64     `json:"event_id"`
	OrganizerID   int64     `json:"organizer_id"`
	NotifiedCount int64     `json:"notified_count"`
	Timestamp     time.Time `json:"timestamp"`
}

// TicketPurchasedEvent - published after a successful purchase batch
type TicketPurchasedEvent struct {
	EventID    int64     `json:"event_id"`
	AttendeeID int64     `json:"attendee_id"`
	Quantity   int       `json:"quantity"`
	Timestamp  time.Time `json:"timestamp"`
}

// DomainEvent - generic payload for the remaining subjects
type DomainEvent struct {
	EventID   int64     `json:"event_id,omitempty"`
	UserID    int64     `json:"user_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
