package service

import (
	"context"
	"fmt"

	"bilet/internal/authz"
	apperrors "bilet/internal/errors"
	"bilet/internal/models"
)

type CategoryService struct {
	categories CategoryStore
}

func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]models.EventCategory, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Create adds a category; admin only.
func (s *CategoryService) Create(ctx context.Context, user *models.User, req *models.CreateCategoryRequest) (*models.EventCategory, error) {
	if !authz.IsAdmin(user) {
		return nil, apperrors.ErrForbidden
	}

	category := &models.EventCategory{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.categories.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	return category, nil
}
