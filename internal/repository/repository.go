package repository

import "bilet/internal/database"

// Repositories aggregates all repositories
type Repositories struct {
	Users         *UserRepository
	Events        *EventRepository
	Tickets       *TicketRepository
	Comments      *CommentRepository
	Notifications *NotificationRepository
	Sessions      *SessionRepository
	Categories    *CategoryRepository
}

func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		Users:         NewUserRepository(db),
		Events:        NewEventRepository(db),
		Tickets:       NewTicketRepository(db),
		Comments:      NewCommentRepository(db),
		Notifications: NewNotificationRepository(db),
		Sessions:      NewSessionRepository(db),
		Categories:    NewCategoryRepository(db),
	}
}
