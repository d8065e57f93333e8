package repository

import (
	"context"
	"database/sql"

	"bilet/internal/database"
	"bilet/internal/models"
)

type CommentRepository struct {
	db *database.DB
}

func NewCommentRepository(db *database.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (event_id, user_id, content, rating)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowContext(ctx, query,
		comment.EventID,
		comment.UserID,
		comment.Content,
		comment.Rating,
	).Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
}

func (r *CommentRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	comment := &models.Comment{}
	query := `
		SELECT id, event_id, user_id, content, rating, created_at, updated_at
		FROM comments
		WHERE id = $1`

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID,
		&comment.EventID,
		&comment.UserID,
		&comment.Content,
		&comment.Rating,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	return comment, err
}

func (r *CommentRepository) ListByEvent(ctx context.Context, eventID int64) ([]models.Comment, error) {
	var comments []models.Comment
	query := `
		SELECT id, event_id, user_id, content, rating, created_at, updated_at
		FROM comments
		WHERE event_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.EventID,
			&comment.UserID,
			&comment.Content,
			&comment.Rating,
			&comment.CreatedAt,
			&comment.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (r *CommentRepository) Update(ctx context.Context, comment *models.Comment) error {
	query := `
		UPDATE comments
		SET content = $1, rating = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING updated_at`

	return r.db.QueryRowContext(ctx, query,
		comment.Content,
		comment.Rating,
		comment.ID,
	).Scan(&comment.UpdatedAt)
}

func (r *CommentRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	return err
}
