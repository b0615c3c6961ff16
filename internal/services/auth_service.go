package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vytor/folio/internal/errors"
	"github.com/vytor/folio/internal/logger"
	"github.com/vytor/folio/internal/models"
	"github.com/vytor/folio/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// AuthService handles accounts and bearer sessions.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.Session, error)
	// Authenticate resolves a session token to its user. Unknown or expired
	// tokens yield UNAUTHORIZED.
	Authenticate(ctx context.Context, token string) (*models.User, error)
	Logout(ctx context.Context, token string) error
	CleanupExpiredSessions(ctx context.Context) (int64, error)
}

type authService struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	sessionTTL  time.Duration
	bcryptCost  int
	now         func() time.Time
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo repository.UserRepository, sessionRepo repository.SessionRepository, sessionTTL time.Duration) AuthService {
	return &authService{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sessionTTL:  sessionTTL,
		bcryptCost:  bcrypt.DefaultCost,
		now:         time.Now,
	}
}

func (s *authService) Register(ctx context.Context, username, password string) (*models.User, error) {
	log := logger.FromContext(ctx)
	username = strings.TrimSpace(username)
	log.Debug("registering user: username=%s", username)

	if username == "" {
		return nil, errors.NewValidationError("username", "cannot be empty")
	}
	if len(password) < minPasswordLength {
		return nil, errors.NewValidationError("password", "must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		log.Error("failed to check existing user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if existing != nil {
		return nil, errors.NewConflictError("username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, errors.NewInternalError(err)
	}

	user := models.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	if err := s.userRepo.Insert(ctx, user); err != nil {
		log.Error("failed to create user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Info("user registered: id=%s", user.ID)
	return &user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, errors.NewUnauthorizedError("invalid username or password")
	}

	now := s.now()
	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessionRepo.Insert(ctx, session); err != nil {
		log.Error("failed to create session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	log.Debug("session created: user_id=%s", user.ID)
	return &session, nil
}

func (s *authService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	log := logger.FromContext(ctx)
	if token == "" {
		return nil, errors.NewUnauthorizedError("missing session token")
	}

	session, err := s.sessionRepo.Get(ctx, token)
	if err != nil {
		log.Error("failed to get session: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if session == nil {
		return nil, errors.NewUnauthorizedError("invalid session")
	}
	if session.IsExpired(s.now()) {
		if err := s.sessionRepo.Delete(ctx, token); err != nil {
			log.Warn("failed to delete expired session: %v", err)
		}
		return nil, errors.NewUnauthorizedError("session expired")
	}

	user, err := s.userRepo.Get(ctx, session.UserID)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewUnauthorizedError("invalid session")
	}
	return user, nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.sessionRepo.Delete(ctx, token); err != nil {
		logger.FromContext(ctx).Error("failed to delete session: %v", err)
		return errors.NewInternalError(err)
	}
	return nil
}

func (s *authService) CleanupExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.sessionRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		logger.FromContext(ctx).Error("failed to delete expired sessions: %v", err)
		return 0, errors.NewInternalError(err)
	}
	return n, nil
}
