package service

import (
	"context"
	"fmt"

	"bilet/internal/authz"
	apperrors "bilet/internal/errors"
	"bilet/internal/models"
)

// NotificationService exposes the outbox: rows are created as side effects
// of purchase and cancellation (inside those transactions), the read flag is
// the only mutation here, and nothing is ever pruned.
type NotificationService struct {
	notifications NotificationStore
}

func NewNotificationService(notifications NotificationStore) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, user *models.User) ([]models.Notification, error) {
	notifications, err := s.notifications.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, nil
}

// MarkRead flips the read flag on one notification. NotFound for unknown
// ids, Forbidden when the notification belongs to someone else.
func (s *NotificationService) MarkRead(ctx context.Context, user *models.User, id int64) error {
	notification, err := s.notifications.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to get notification: %w", err)
	}
	if notification == nil {
		return apperrors.ErrNotFound
	}
	if !authz.CanReadNotification(user, notification) {
		return apperrors.ErrForbidden
	}

	return s.notifications.MarkRead(ctx, notification.ID)
}

// MarkAllRead flips every unread row for the caller and reports how many.
// Other users' notifications are untouched.
func (s *NotificationService) MarkAllRead(ctx context.Context, user *models.User) (int64, error) {
	updated, err := s.notifications.MarkAllRead(ctx, user.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return updated, nil
}
