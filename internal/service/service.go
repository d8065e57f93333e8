package service

import (
	"context"

	"bilet/internal/cache"
	"bilet/internal/config"
	"bilet/internal/messaging"
	"bilet/internal/models"
	"bilet/internal/repository"
	"bilet/internal/search"
)

// Store interfaces consumed by the services. The repository package provides
// the Postgres implementations; tests substitute in-memory fakes.

type UserStore interface {
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByPhone(ctx context.Context, phone string) (*models.User, error)
	Create(ctx context.Context, user *models.User) error
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	CountAll(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]models.User, error)
}

type EventStore interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	List(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	ListUpcoming(ctx context.Context, limit int) ([]models.Event, error)
	ListByOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error)
	ListByAttendee(ctx context.Context, attendeeID int64, upcoming bool) ([]models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	Cancel(ctx context.Context, eventID int64, message string) (int64, error)
	CountAll(ctx context.Context) (int64, error)
	ListRecent(ctx context.Context, limit int) ([]models.Event, error)
}

type TicketStore interface {
	Purchase(ctx context.Context, event *models.Event, attendeeID int64, quantity int, message string) ([]models.Ticket, error)
	GetByID(ctx context.Context, id int64) (*models.Ticket, error)
	ListByAttendee(ctx context.Context, attendeeID int64) ([]models.TicketWithEvent, error)
	Deactivate(ctx context.Context, id int64) error
	CountActiveByEvent(ctx context.Context, eventID int64) (int, error)
	HasActiveTicket(ctx context.Context, eventID, attendeeID int64) (bool, error)
}

type CommentStore interface {
	Create(ctx context.Context, comment *models.Comment) error
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	ListByEvent(ctx context.Context, eventID int64) ([]models.Comment, error)
	Update(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id int64) error
}

type NotificationStore interface {
	GetByID(ctx context.Context, id int64) (*models.Notification, error)
	ListByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	ListUnreadByUser(ctx context.Context, userID int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, id int64) error
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
}

type SessionStore interface {
	Create(ctx context.Context, session *models.Session) error
	Get(ctx context.Context, token string) (*models.Session, error)
	Delete(ctx context.Context, token string) error
}

type CategoryStore interface {
	Create(ctx context.Context, category *models.EventCategory) error
	List(ctx context.Context) ([]models.EventCategory, error)
}

// Services aggregates all services
type Services struct {
	Users         *UserService
	Events        *EventService
	Tickets       *TicketService
	Comments      *CommentService
	Notifications *NotificationService
	Dashboard     *DashboardService
	Categories    *CategoryService
}

func NewServices(cfg *config.Config, repos *repository.Repositories, natsClient *messaging.NATSClient, valkeyClient *cache.ValkeyClient, esClient *search.ElasticsearchClient) *Services {
	return &Services{
		Users: NewUserService(repos.Users, repos.Sessions, valkeyClient, natsClient,
			cfg.SessionTTL, cfg.RememberMeTTL, cfg.ResetTokenTTL),
		Events: NewEventService(repos.Events, repos.Tickets, repos.Comments,
			valkeyClient, esClient, natsClient, cfg.UpcomingLimit),
		Tickets:       NewTicketService(repos.Tickets, repos.Events, natsClient),
		Comments:      NewCommentService(repos.Comments, repos.Events, natsClient),
		Notifications: NewNotificationService(repos.Notifications),
		Dashboard:     NewDashboardService(repos.Events, repos.Notifications, repos.Users),
		Categories:    NewCategoryService(repos.Categories),
	}
}
