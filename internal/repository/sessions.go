package repository

import (
	"context"
	"database/sql"

	"bilet/internal/database"
	"bilet/internal/models"
)

type SessionRepository struct {
	db *database.DB
}

func NewSessionRepository(db *database.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, purpose, expires_at)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`

	return r.db.QueryRowContext(ctx, query,
		session.Token,
		session.UserID,
		session.Purpose,
		session.ExpiresAt,
	).Scan(&session.CreatedAt)
}

// Get returns nil for missing or expired tokens.
func (r *SessionRepository) Get(ctx context.Context, token string) (*models.Session, error) {
	session := &models.Session{}
	query := `
		SELECT token, user_id, purpose, expires_at, created_at
		FROM sessions
		WHERE token = $1 AND expires_at > NOW()`

	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&session.Token,
		&session.UserID,
		&session.Purpose,
		&session.ExpiresAt,
		&session.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return session, err
}

func (r *SessionRepository) Delete(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = $1`, token)
	return err
}

func (r *SessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= NOW()`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
