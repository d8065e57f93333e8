package authz

import (
	"testing"

	"bilet/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestCanCreateEvent(t *testing.T) {
	assert.False(t, CanCreateEvent(nil))
	assert.False(t, CanCreateEvent(&models.User{ID: 1, Role: models.RoleAttendee}))
	assert.True(t, CanCreateEvent(&models.User{ID: 2, Role: models.RoleOrganizer}))
	assert.True(t, CanCreateEvent(&models.User{ID: 3, Role: models.RoleAdmin}))
}

func TestCanManageEvent(t *testing.T) {
	event := &models.Event{ID: 10, OrganizerID: 2}

	owner := &models.User{ID: 2, Role: models.RoleOrganizer}
	otherOrganizer := &models.User{ID: 5, Role: models.RoleOrganizer}
	admin := &models.User{ID: 7, Role: models.RoleAdmin}
	attendee := &models.User{ID: 9, Role: models.RoleAttendee}

	assert.True(t, CanManageEvent(owner, event))
	assert.True(t, CanManageEvent(admin, event))
	assert.False(t, CanManageEvent(otherOrganizer, event))
	assert.False(t, CanManageEvent(attendee, event))
	assert.False(t, CanManageEvent(nil, event))
}

func TestCanViewEvent(t *testing.T) {
	public := &models.Event{Visibility: models.VisibilityPublic}
	private := &models.Event{Visibility: models.VisibilityPrivate}

	assert.True(t, CanViewEvent(nil, public))
	assert.False(t, CanViewEvent(nil, private))
	assert.True(t, CanViewEvent(&models.User{ID: 1, Role: models.RoleAttendee}, private))
}

func TestOwnershipPredicates(t *testing.T) {
	owner := &models.User{ID: 4, Role: models.RoleAttendee}
	admin := &models.User{ID: 1, Role: models.RoleAdmin}

	comment := &models.Comment{ID: 1, UserID: 4}
	assert.True(t, CanModifyComment(owner, comment))
	// Admins do not get to edit other users' comments.
	assert.False(t, CanModifyComment(admin, comment))

	ticket := &models.Ticket{ID: 1, AttendeeID: 4}
	assert.True(t, CanCancelTicket(owner, ticket))
	assert.False(t, CanCancelTicket(admin, ticket))

	notification := &models.Notification{ID: 1, UserID: 4}
	assert.True(t, CanReadNotification(owner, notification))
	assert.False(t, CanReadNotification(admin, notification))
}
