package repository

import (
	"context"

	"bilet/internal/database"
	"bilet/internal/models"
)

type CategoryRepository struct {
	db *database.DB
}

func NewCategoryRepository(db *database.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, category *models.EventCategory) error {
	query := `
		INSERT INTO event_categories (name, description)
		VALUES ($1, $2)
		RETURNING id`

	return r.db.QueryRowContext(ctx, query,
		category.Name,
		category.Description,
	).Scan(&category.ID)
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.EventCategory, error) {
	var categories []models.EventCategory
	query := `SELECT id, name, description FROM event_categories ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var category models.EventCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.Description); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}

	return categories, rows.Err()
}
