package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bilet/internal/database"
	"bilet/internal/models"
)

type EventRepository struct {
	db *database.DB
}

func NewEventRepository(db *database.DB) *EventRepository {
	return &EventRepository{db: db}
}

const eventColumns = `id, organizer_id, title, description, location, category_id,
	       start_date, end_date, visibility, capacity, price_cents, is_active, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }, event *models.Event) error {
	return row.Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Location,
		&event.CategoryID,
		&event.StartDate,
		&event.EndDate,
		&event.Visibility,
		&event.Capacity,
		&event.PriceCents,
		&event.IsActive,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
}

func (r *EventRepository) Create(ctx context.Context, event *models.Event) error {
	query := `
		INSERT INTO events (organizer_id, title, description, location, category_id,
		                    start_date, end_date, visibility, capacity, price_cents, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, TRUE)
		RETURNING id, is_active, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.OrganizerID,
		event.Title,
		event.Description,
		event.Location,
		event.CategoryID,
		event.StartDate,
		event.EndDate,
		event.Visibility,
		event.Capacity,
		event.PriceCents,
	).Scan(&event.ID, &event.IsActive, &event.CreatedAt, &event.UpdatedAt)
}

func (r *EventRepository) GetByID(ctx context.Context, id int64) (*models.Event, error) {
	event := &models.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`

	err := scanEvent(r.db.QueryRowContext(ctx, query, id), event)
	if err == sql.ErrNoRows {
		return nil, nil
	}

	return event, err
}

// List returns active upcoming events, filtered and paginated. Search matches
// title, description and location case-insensitively; the Elasticsearch index
// takes over this filter when it is configured.
func (r *EventRepository) List(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var args []interface{}
	argIndex := 1

	query := `
		SELECT e.id, e.organizer_id, e.title, e.description, e.location, e.category_id,
		       e.start_date, e.end_date, e.visibility, e.capacity, e.price_cents, e.is_active,
		       e.created_at, e.updated_at
		FROM events e
		WHERE e.is_active AND e.start_date > NOW()`

	if !filter.IncludePrivate {
		query += " AND e.visibility = 'public'"
	}

	if filter.Category != "" {
		query += fmt.Sprintf(" AND e.category_id IN (SELECT id FROM event_categories WHERE name = $%d)", argIndex)
		args = append(args, filter.Category)
		argIndex++
	}

	if filter.Search != "" {
		query += fmt.Sprintf(" AND (e.title ILIKE $%d OR e.description ILIKE $%d OR e.location ILIKE $%d)",
			argIndex, argIndex, argIndex)
		args = append(args, "%"+filter.Search+"%")
		argIndex++
	}

	query += " ORDER BY e.start_date ASC"

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIndex, argIndex+1)
		args = append(args, filter.PageSize, offset)
	}

	return r.queryEvents(ctx, query, args...)
}

func (r *EventRepository) ListUpcoming(ctx context.Context, limit int) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE is_active AND start_date > NOW() AND visibility = 'public'
		ORDER BY start_date ASC
		LIMIT $1`

	return r.queryEvents(ctx, query, limit)
}

func (r *EventRepository) ListByOrganizer(ctx context.Context, organizerID int64) ([]models.Event, error) {
	query := `
		SELECT ` + eventColumns + `
		FROM events
		WHERE organizer_id = $1
		ORDER BY start_date DESC`

	return r.queryEvents(ctx, query, organizerID)
}

// ListByAttendee returns events the attendee holds an active ticket for,
// split into upcoming and past by start date.
func (r *EventRepository) ListByAttendee(ctx context.Context, attendeeID int64, upcoming bool) ([]models.Event, error) {
	cmp := "<="
	if upcoming {
		cmp = ">"
	}

	query := `
		SELECT DISTINCT e.id, e.organizer_id, e.title, e.description, e.location, e.category_id,
		       e.start_date, e.end_date, e.visibility, e.capacity, e.price_cents, e.is_active,
		       e.created_at, e.updated_at
		FROM events e
		JOIN tickets t ON t.event_id = e.id
		WHERE t.attendee_id = $1 AND t.is_active AND e.start_date ` + cmp + ` NOW()
		ORDER BY e.start_date ASC`

	return r.queryEvents(ctx, query, attendeeID)
}

func (r *EventRepository) Update(ctx context.Context, event *models.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, location = $3, category_id = $4,
		    start_date = $5, end_date = $6, visibility = $7, capacity = $8,
		    price_cents = $9, updated_at = NOW()
		WHERE id = $10
		RETURNING updated_at`

	return r.db.QueryRowContext(ctx, query,
		event.Title,
		event.Description,
		event.Location,
		event.CategoryID,
		event.StartDate,
		event.EndDate,
		event.Visibility,
		event.Capacity,
		event.PriceCents,
		event.ID,
	).Scan(&event.UpdatedAt)
}

// Cancel soft-deletes the event and cascades in a single transaction:
// the event goes inactive, one event_cancellation notification is written
// per attendee holding an active ticket, and those tickets go inactive.
// Returns the number of notified attendees.
func (r *EventRepository) Cancel(ctx context.Context, eventID int64, message string) (int64, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`UPDATE events SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, eventID)
	if err != nil {
		return 0, err
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO notifications (user_id, kind, message, related_event_id)
		SELECT DISTINCT attendee_id, 'event_cancellation', $2, $1
		FROM tickets
		WHERE event_id = $1 AND is_active`, eventID, message)
	if err != nil {
		return 0, err
	}

	notified, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE tickets SET is_active = FALSE WHERE event_id = $1 AND is_active`, eventID)
	if err != nil {
		return 0, err
	}

	return notified, tx.Commit()
}

func (r *EventRepository) CountAll(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&count)
	return count, err
}

func (r *EventRepository) ListRecent(ctx context.Context, limit int) ([]models.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events ORDER BY created_at DESC LIMIT $1`
	return r.queryEvents(ctx, query, limit)
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...interface{}) ([]models.Event, error) {
	var events []models.Event

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var event models.Event
		if err := scanEvent(rows, &event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, rows.Err()
}
