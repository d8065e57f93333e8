package service

import (
	"context"
	"fmt"

	"bilet/internal/authz"
	apperrors "bilet/internal/errors"
	"bilet/internal/models"
)

type DashboardService struct {
	events        EventStore
	notifications NotificationStore
	users         UserStore
}

func NewDashboardService(events EventStore, notifications NotificationStore, users UserStore) *DashboardService {
	return &DashboardService{
		events:        events,
		notifications: notifications,
		users:         users,
	}
}

// ForUser assembles the per-role dashboard: attendees see the events behind
// their active tickets split into upcoming/past, organizers see their own
// events, everyone sees their unread notifications.
func (s *DashboardService) ForUser(ctx context.Context, user *models.User) (*models.DashboardResponse, error) {
	resp := &models.DashboardResponse{}

	switch user.Role {
	case models.RoleAttendee:
		upcoming, err := s.events.ListByAttendee(ctx, user.ID, true)
		if err != nil {
			return nil, fmt.Errorf("failed to list upcoming events: %w", err)
		}
		past, err := s.events.ListByAttendee(ctx, user.ID, false)
		if err != nil {
			return nil, fmt.Errorf("failed to list past events: %w", err)
		}
		resp.UpcomingEvents = upcoming
		resp.PastEvents = past

	case models.RoleOrganizer, models.RoleAdmin:
		organized, err := s.events.ListByOrganizer(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list organized events: %w", err)
		}
		resp.OrganizedEvents = organized
	}

	unread, err := s.notifications.ListUnreadByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list unread notifications: %w", err)
	}
	resp.UnreadNotifications = unread

	return resp, nil
}

// AdminStats is the back-office totals endpoint, admin only.
func (s *DashboardService) AdminStats(ctx context.Context, user *models.User) (*models.AdminStatsResponse, error) {
	if !authz.IsAdmin(user) {
		return nil, apperrors.ErrForbidden
	}

	totalEvents, err := s.events.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count events: %w", err)
	}
	totalUsers, err := s.users.CountAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	recentEvents, err := s.events.ListRecent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent events: %w", err)
	}
	recentUsers, err := s.users.ListRecent(ctx, 5)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent users: %w", err)
	}

	return &models.AdminStatsResponse{
		TotalEvents:  totalEvents,
		TotalUsers:   totalUsers,
		RecentEvents: recentEvents,
		RecentUsers:  recentUsers,
	}, nil
}
