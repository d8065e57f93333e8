// Package authz centralizes every role/ownership predicate in the system.
// Handlers and services must not re-derive these checks inline.
package authz

import "bilet/internal/models"

func IsAdmin(u *models.User) bool {
	return u != nil && u.Role == models.RoleAdmin
}

// CanCreateEvent - event creation requires the organizer or admin role.
func CanCreateEvent(u *models.User) bool {
	if u == nil {
		return false
	}
	return u.Role == models.RoleOrganizer || u.Role == models.RoleAdmin
}

// CanManageEvent - update/cancel requires the owning organizer or an admin.
func CanManageEvent(u *models.User, e *models.Event) bool {
	if u == nil || e == nil {
		return false
	}
	return u.ID == e.OrganizerID || u.Role == models.RoleAdmin
}

// CanViewEvent - private events are hidden from anonymous callers.
func CanViewEvent(u *models.User, e *models.Event) bool {
	if e == nil {
		return false
	}
	if e.Visibility == models.VisibilityPublic {
		return true
	}
	return u != nil
}

// CanModifyComment - comments are editable by their author only.
func CanModifyComment(u *models.User, c *models.Comment) bool {
	if u == nil || c == nil {
		return false
	}
	return u.ID == c.UserID
}

// CanCancelTicket - tickets are cancellable by their holder only.
func CanCancelTicket(u *models.User, t *models.Ticket) bool {
	if u == nil || t == nil {
		return false
	}
	return u.ID == t.AttendeeID
}

// CanReadNotification - notifications belong to their recipient only.
func CanReadNotification(u *models.User, n *models.Notification) bool {
	if u == nil || n == nil {
		return false
	}
	return u.ID == n.UserID
}
