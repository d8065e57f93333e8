package service

import (
	"context"
	"fmt"
	"time"

	"bilet/internal/authz"
	apperrors "bilet/internal/errors"
	"bilet/internal/logger"
	"bilet/internal/messaging"
	"bilet/internal/models"
)

type CommentService struct {
	comments   CommentStore
	events     EventStore
	natsClient *messaging.NATSClient
}

func NewCommentService(comments CommentStore, events EventStore, natsClient *messaging.NATSClient) *CommentService {
	return &CommentService{
		comments:   comments,
		events:     events,
		natsClient: natsClient,
	}
}

func validateRating(rating *int) error {
	if rating != nil && (*rating < 1 || *rating > 5) {
		return apperrors.NewValidation("rating must be between 1 and 5")
	}
	return nil
}

// Create posts a comment on an event. A user may comment on the same event
// any number of times.
func (s *CommentService) Create(ctx context.Context, user *models.User, eventID int64, req *models.CreateCommentRequest) (*models.Comment, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if event == nil {
		return nil, apperrors.ErrNotFound
	}
	if !authz.CanViewEvent(user, event) {
		return nil, apperrors.ErrForbidden
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		EventID: event.ID,
		UserID:  user.ID,
		Content: req.Content,
		Rating:  req.Rating,
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}

	if err := s.natsClient.Publish(models.EventCommentCreated, models.DomainEvent{
		EventID:   event.ID,
		UserID:    user.ID,
		Timestamp: time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish comment created event",
			"error", err, "event_id", event.ID)
	}

	return comment, nil
}

func (s *CommentService) ListByEvent(ctx context.Context, eventID int64) ([]models.Comment, error) {
	comments, err := s.comments.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	return comments, nil
}

func (s *CommentService) Update(ctx context.Context, user *models.User, commentID int64, req *models.CreateCommentRequest) (*models.Comment, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return nil, apperrors.ErrNotFound
	}
	if !authz.CanModifyComment(user, comment) {
		return nil, apperrors.ErrForbidden
	}
	if err := validateRating(req.Rating); err != nil {
		return nil, err
	}

	comment.Content = req.Content
	comment.Rating = req.Rating

	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}

	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, user *models.User, commentID int64) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return fmt.Errorf("failed to get comment: %w", err)
	}
	if comment == nil {
		return apperrors.ErrNotFound
	}
	if !authz.CanModifyComment(user, comment) {
		return apperrors.ErrForbidden
	}

	if err := s.comments.Delete(ctx, comment.ID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}

	return nil
}
