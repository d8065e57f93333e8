package repository

import (
	"context"
	"database/sql"

	"bilet/internal/database"
	"bilet/internal/models"
)

type NotificationRepository struct {
	db *database.DB
}

func NewNotificationRepository(db *database.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, notification *models.Notification) error {
	query := `
		INSERT INTO notifications (user_id, kind, message, related_event_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, is_read, created_at`

	return r.db.QueryRowContext(ctx, query,
		notification.UserID,
		notification.Kind,
		notification.Message,
		notification.RelatedEventID,
	).Scan(&notification.ID, &notification.IsRead, &notification.CreatedAt)
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*models.Notification, error) {
	notification := &models.Notification{}
	query := `
		SELECT id, user_id, kind, message, related_event_id, is_read, created_at
		FROM notifications
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&notification.ID,
		&notification.UserID,
		&notification.Kind,
		&notification.Message,
		&notification.RelatedEventID,
		&notification.IsRead,
		&notification.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return notification, err
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, kind, message, related_event_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY is_read ASC, created_at DESC`

	return r.queryNotifications(ctx, query, userID)
}

func (r *NotificationRepository) ListUnreadByUser(ctx context.Context, userID int64) ([]models.Notification, error) {
	query := `
		SELECT id, user_id, kind, message, related_event_id, is_read, created_at
		FROM notifications
		WHERE user_id = $1 AND NOT is_read
		ORDER BY created_at DESC`

	return r.queryNotifications(ctx, query, userID)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	return err
}

// MarkAllRead flips every unread notification for the user and returns how
// many rows changed. Other users' rows are untouched.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND NOT is_read`, userID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *NotificationRepository) queryNotifications(ctx context.Context, query string, args ...interface{}) ([]models.Notification, error) {
	var notifications []models.Notification

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var notification models.Notification
		err := rows.Scan(
			&notification.ID,
			&notification.UserID,
			&notification.Kind,
			&notification.Message,
			&notification.RelatedEventID,
			&notification.IsRead,
			&notification.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, notification)
	}

	return notifications, rows.Err()
}
