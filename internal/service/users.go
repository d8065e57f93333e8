package service

import (
	"context"
	"fmt"
	"time"

	"bilet/internal/cache"
	apperrors "bilet/internal/errors"
	"bilet/internal/logger"
	"bilet/internal/messaging"
	"bilet/internal/models"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	users        UserStore
	sessions     SessionStore
	valkeyClient *cache.ValkeyClient
	natsClient   *messaging.NATSClient

	sessionTTL    time.Duration
	rememberTTL   time.Duration
	resetTokenTTL time.Duration
}

func NewUserService(users UserStore, sessions SessionStore, valkeyClient *cache.ValkeyClient, natsClient *messaging.NATSClient, sessionTTL, rememberTTL, resetTokenTTL time.Duration) *UserService {
	return &UserService{
		users:         users,
		sessions:      sessions,
		valkeyClient:  valkeyClient,
		natsClient:    natsClient,
		sessionTTL:    sessionTTL,
		rememberTTL:   rememberTTL,
		resetTokenTTL: resetTokenTTL,
	}
}

// Register creates a new account. The admin role cannot be self-assigned.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	role := req.Role
	if role == "" {
		role = models.RoleAttendee
	}
	if role != models.RoleAttendee && role != models.RoleOrganizer {
		return nil, apperrors.NewValidation("role must be attendee or organizer")
	}

	existing, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.NewValidation("this email address is already in use")
	}

	if req.Phone != nil && *req.Phone != "" {
		existing, err = s.users.GetByPhone(ctx, *req.Phone)
		if err != nil {
			return nil, fmt.Errorf("failed to check phone: %w", err)
		}
		if existing != nil {
			return nil, apperrors.NewValidation("this phone number is already in use")
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
		Role:         role,
		IsActive:     true,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.natsClient.Publish(models.EventUserRegistered, models.DomainEvent{
		UserID:    user.ID,
		Timestamp: time.Now(),
	}); err != nil {
		logger.WithContext(ctx).Error("Failed to publish user registered event",
			"error", err, "user_id", user.ID)
	}

	return user, nil
}

// Login verifies the credentials and opens a session. The returned TTL is
// what the caller should put on the cookie; remember_me stretches it.
func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (string, *models.User, time.Duration, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		return "", nil, 0, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.IsActive {
		return "", nil, 0, apperrors.ErrUnauthorized
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return "", nil, 0, apperrors.ErrUnauthorized
	}

	ttl := s.sessionTTL
	if req.RememberMe {
		ttl = s.rememberTTL
	}

	token := uuid.New().String()
	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		Purpose:   models.SessionPurposeLogin,
		ExpiresAt: time.Now().Add(ttl),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, 0, fmt.Errorf("failed to create session: %w", err)
	}

	if s.valkeyClient != nil {
		if err := s.valkeyClient.SetSession(ctx, token, user.ID, ttl); err != nil {
			logger.WithContext(ctx).Error("Failed to cache session", "error", err)
		}
	}

	return token, user, ttl, nil
}

func (s *UserService) Logout(ctx context.Context, token string) error {
	if s.valkeyClient != nil {
		if err := s.valkeyClient.DeleteSession(ctx, token); err != nil {
			logger.WithContext(ctx).Error("Failed to evict session from cache", "error", err)
		}
	}
	return s.sessions.Delete(ctx, token)
}

// Authenticate resolves a session token to its user: Valkey first, sessions
// table as fallback.
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	var userID int64

	if s.valkeyClient != nil {
		if id, err := s.valkeyClient.GetSessionUserID(ctx, token); err == nil {
			userID = id
		}
	}

	if userID == 0 {
		session, err := s.sessions.Get(ctx, token)
		if err != nil {
			return nil, fmt.Errorf("failed to get session: %w", err)
		}
		if session == nil || session.Purpose != models.SessionPurposeLogin {
			return nil, apperrors.ErrUnauthorized
		}
		userID = session.UserID
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil || !user.IsActive {
		return nil, apperrors.ErrUnauthorized
	}

	return user, nil
}

// RequestPasswordReset issues a reset token. Whether the email exists is not
// revealed to the caller; token delivery (email) is outside this service, so
// the token is only logged.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil
	}

	token := uuid.New().String()
	session := &models.Session{
		Token:     token,
		UserID:    user.ID,
		Purpose:   models.SessionPurposePasswordReset,
		ExpiresAt: time.Now().Add(s.resetTokenTTL),
	}

	if err := s.sessions.Create(ctx, session); err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	logger.WithContext(ctx).Info("Password reset token issued",
		"user_id", user.ID, "token", token)

	return nil
}

func (s *UserService) ConfirmPasswordReset(ctx context.Context, req *models.PasswordResetConfirmRequest) error {
	session, err := s.sessions.Get(ctx, req.Token)
	if err != nil {
		return fmt.Errorf("failed to get reset token: %w", err)
	}
	if session == nil || session.Purpose != models.SessionPurposePasswordReset {
		return apperrors.NewValidation("reset token is invalid or expired")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, session.UserID, string(hash)); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	return s.sessions.Delete(ctx, req.Token)
}

// UpdateProfile applies profile changes; duplicate email/phone checks exclude
// the user's own row.
func (s *UserService) UpdateProfile(ctx context.Context, user *models.User, req *models.UpdateProfileRequest) (*models.User, error) {
	if req.Email != user.Email {
		existing, err := s.users.GetByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, apperrors.NewValidation("this email address is already in use")
		}
	}

	if req.Phone != nil && *req.Phone != "" {
		existing, err := s.users.GetByPhone(ctx, *req.Phone)
		if err != nil {
			return nil, fmt.Errorf("failed to check phone: %w", err)
		}
		if existing != nil && existing.ID != user.ID {
			return nil, apperrors.NewValidation("this phone number is already in use")
		}
	}

	user.Email = req.Email
	user.FirstName = req.FirstName
	user.LastName = req.LastName
	user.Phone = req.Phone
	user.Bio = req.Bio

	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	return user, nil
}
