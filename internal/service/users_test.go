package service

import (
	"context"
	"testing"
	"time"

	apperrors "bilet/internal/errors"
	"bilet/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(f *fakeStores) *UserService {
	return NewUserService(f.users, f.sessions, nil, nil, time.Hour, 30*24*time.Hour, time.Hour)
}

func registerRequest(email string) *models.RegisterRequest {
	return &models.RegisterRequest{
		Email:     email,
		Password:  "correct-horse",
		FirstName: "Aigerim",
		LastName:  "S",
	}
}

func TestRegisterDefaultsToAttendee(t *testing.T) {
	f := newFakeStores()
	svc := newTestUserService(f)

	user, err := svc.Register(context.Background(), registerRequest("a@example.com"))
	require.NoError(t, err)
	assert.Equal(t, models.RoleAttendee, user.Role)
	assert.True(t, user.IsActive)

	// The password is stored hashed, never verbatim.
	assert.NotEqual(t, "correct-horse", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct-horse")))
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	f := newFakeStores()
	svc := newTestUserService(f)

	req := registerRequest("a@example.com")
	req.Role = models.RoleAdmin
	_, err := svc.Register(context.Background(), req)
	assert.True(t, apperrors.IsValidation(err))
	assert.Empty(t, f.users.users)
}

func TestRegisterDuplicateChecks(t *testing.T) {
	f := newFakeStores()
	svc := newTestUserService(f)
	ctx := context.Background()

	phone := "+77001234567"
	req := registerRequest("a@example.com")
	req.Phone = &phone
	_, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("a@example.com"))
	assert.True(t, apperrors.IsValidation(err))

	req2 := registerRequest("b@example.com")
	req2.Phone = &phone
	_, err = svc.Register(ctx, req2)
	assert.True(t, apperrors.IsValidation(err))
}

func TestLoginAndAuthenticate(t *testing.T) {
	f := newFakeStores()
	svc := newTestUserService(f)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registerRequest("a@example.com"))
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, &models.LoginRequest{Email: "a@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	_, _, _, err = svc.Login(ctx, &models.LoginRequest{Email: "nobody@example.com", Password: "x"})
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)

	token, user, ttl, err := svc.Login(ctx, &models.LoginRequest{Email: "a@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.Equal(t, time.Hour, ttl)

	resolved, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, resolved.ID)

	require.NoError(t, svc.Logout(ctx, token))
	_, err = svc.Authenticate(ctx, token)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestLoginRememberMeStretchesTTL(t *testing.T) {
	f := newFakeStores()
	svc := newTestUserService(f)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("a@example.com"))
	require.NoError(t, err)

	_, _, ttl, err := svc.Login(ctx, &models.LoginRequest{
		Email: "a@example.com", Password: "correct-horse", RememberMe: true,
	})
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, ttl)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newFakeStores()
	svc := newTestUserService(f)
	ctx := context.Background()

	// Unknown emails are not revealed.
	assert.NoError(t, svc.RequestPasswordReset(ctx, "nobody@example.com"))
	assert.Empty(t, f.sessions.sessions)

	user, err := svc.Register(ctx, registerRequest("a@example.com"))
	require.NoError(t, err)
	require.NoError(t, svc.RequestPasswordReset(ctx, "a@example.com"))

	var resetToken string
	for token, session := range f.sessions.sessions {
		if session.Purpose == models.SessionPurposePasswordReset {
			resetToken = token
		}
	}
	require.NotEmpty(t, resetToken)

	err = svc.ConfirmPasswordReset(ctx, &models.PasswordResetConfirmRequest{
		Token: "bogus", NewPassword: "new-password-1",
	})
	assert.True(t, apperrors.IsValidation(err))

	require.NoError(t, svc.ConfirmPasswordReset(ctx, &models.PasswordResetConfirmRequest{
		Token: resetToken, NewPassword: "new-password-1",
	}))

	// The token is single-use and the new password works.
	err = svc.ConfirmPasswordReset(ctx, &models.PasswordResetConfirmRequest{
		Token: resetToken, NewPassword: "another",
	})
	assert.True(t, apperrors.IsValidation(err))

	_, _, _, err = svc.Login(ctx, &models.LoginRequest{Email: "a@example.com", Password: "new-password-1"})
	require.NoError(t, err)
	_ = user
}

func TestLoginTokenIsNotAResetToken(t *testing.T) {
	f := newFakeStores()
	svc := newTestUserService(f)
	ctx := context.Background()

	_, err := svc.Register(ctx, registerRequest("a@example.com"))
	require.NoError(t, err)
	token, _, _, err := svc.Login(ctx, &models.LoginRequest{Email: "a@example.com", Password: "correct-horse"})
	require.NoError(t, err)

	err = svc.ConfirmPasswordReset(ctx, &models.PasswordResetConfirmRequest{
		Token: token, NewPassword: "new-password-1",
	})
	assert.True(t, apperrors.IsValidation(err))
}

func TestUpdateProfileDuplicatesExcludeSelf(t *testing.T) {
	f := newFakeStores()
	svc := newTestUserService(f)
	ctx := context.Background()

	phone := "+77001234567"
	req := registerRequest("a@example.com")
	req.Phone = &phone
	user, err := svc.Register(ctx, req)
	require.NoError(t, err)

	_, err = svc.Register(ctx, registerRequest("b@example.com"))
	require.NoError(t, err)

	// Keeping your own email and phone is fine.
	updated, err := svc.UpdateProfile(ctx, user, &models.UpdateProfileRequest{
		Email: "a@example.com", FirstName: "Aigerim", LastName: "Serikova", Phone: &phone,
	})
	require.NoError(t, err)
	assert.Equal(t, "Serikova", updated.LastName)

	// Taking someone else's email is not.
	_, err = svc.UpdateProfile(ctx, user, &models.UpdateProfileRequest{
		Email: "b@example.com", FirstName: "Aigerim", LastName: "S",
	})
	assert.True(t, apperrors.IsValidation(err))
}
