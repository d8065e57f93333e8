package repository

import (
	"context"
	"database/sql"
	"fmt"

	"bilet/internal/database"
	apperrors "bilet/internal/errors"
	"bilet/internal/models"

	"github.com/google/uuid"
)

type TicketRepository struct {
	db *database.DB
}

func NewTicketRepository(db *database.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

// Purchase inserts quantity ticket rows plus one ticket_confirmation
// notification in a single transaction. The event row is locked FOR UPDATE
// before availability is counted, so concurrent purchasers serialize and
// availability can never go negative. Either everything commits or nothing
// does.
func (r *TicketRepository) Purchase(ctx context.Context, event *models.Event, attendeeID int64, quantity int, message string) ([]models.Ticket, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var capacity int
	err = tx.QueryRowContext(ctx,
		`SELECT capacity FROM events WHERE id = $1 AND is_active FOR UPDATE`,
		event.ID,
	).Scan(&capacity)
	if err == sql.ErrNoRows {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var sold int
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE event_id = $1 AND is_active`,
		event.ID,
	).Scan(&sold)
	if err != nil {
		return nil, err
	}

	available := capacity - sold
	if quantity > available {
		return nil, apperrors.NewValidation(fmt.Sprintf("only %d tickets available", available))
	}

	tickets := make([]models.Ticket, 0, quantity)
	for i := 0; i < quantity; i++ {
		ticket := models.Ticket{
			EventID:      event.ID,
			AttendeeID:   attendeeID,
			TicketNumber: fmt.Sprintf("TICK-%d-%d-%s", event.ID, attendeeID, uuid.New().String()[:8]),
			IsActive:     true,
		}

		err = tx.QueryRowContext(ctx, `
			INSERT INTO tickets (event_id, attendee_id, ticket_number, is_active)
			VALUES ($1, $2, $3, TRUE)
			RETURNING id, issued_at`,
			ticket.EventID, ticket.AttendeeID, ticket.TicketNumber,
		).Scan(&ticket.ID, &ticket.IssuedAt)
		if err != nil {
			return nil, err
		}

		tickets = append(tickets, ticket)
	}

	// One confirmation for the whole batch, not one per ticket.
	_, err = tx.ExecContext(ctx, `
		INSERT INTO notifications (user_id, kind, message, related_event_id)
		VALUES ($1, 'ticket_confirmation', $2, $3)`,
		attendeeID, message, event.ID)
	if err != nil {
		return nil, err
	}

	return tickets, tx.Commit()
}

func (r *TicketRepository) GetByID(ctx context.Context, id int64) (*models.Ticket, error) {
	ticket := &models.Ticket{}
	query := `
		SELECT id, event_id, attendee_id, ticket_number, is_active, issued_at
		FROM tickets
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.EventID,
		&ticket.AttendeeID,
		&ticket.TicketNumber,
		&ticket.IsActive,
		&ticket.IssuedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return ticket, err
}

func (r *TicketRepository) ListByAttendee(ctx context.Context, attendeeID int64) ([]models.TicketWithEvent, error) {
	var tickets []models.TicketWithEvent
	query := `
		SELECT t.id, t.event_id, t.attendee_id, t.ticket_number, t.is_active, t.issued_at,
		       e.title, e.start_date
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.attendee_id = $1 AND t.is_active
		ORDER BY e.start_date ASC, t.id ASC`

	rows, err := r.db.QueryContext(ctx, query, attendeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ticket models.TicketWithEvent
		err := rows.Scan(
			&ticket.ID,
			&ticket.EventID,
			&ticket.AttendeeID,
			&ticket.TicketNumber,
			&ticket.IsActive,
			&ticket.IssuedAt,
			&ticket.EventTitle,
			&ticket.StartDate,
		)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, ticket)
	}

	return tickets, rows.Err()
}

func (r *TicketRepository) Deactivate(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE tickets SET is_active = FALSE WHERE id = $1`, id)
	return err
}

func (r *TicketRepository) CountActiveByEvent(ctx context.Context, eventID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM tickets WHERE event_id = $1 AND is_active`,
		eventID,
	).Scan(&count)
	return count, err
}

func (r *TicketRepository) HasActiveTicket(ctx context.Context, eventID, attendeeID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM tickets WHERE event_id = $1 AND attendee_id = $2 AND is_active)`,
		eventID, attendeeID,
	).Scan(&exists)
	return exists, err
}
