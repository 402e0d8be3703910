package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/justsurfingit/hunt-assistant/internal/logger"
	"github.com/justsurfingit/hunt-assistant/internal/models"
	"github.com/justsurfingit/hunt-assistant/internal/store"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("google account email is not verified")
)

// UserRepository is the account persistence the service needs.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindOrCreateByGoogle(ctx context.Context, subject, email, name string) (*models.User, error)
}

// Service signs users in and out and resolves session tokens.
type Service struct {
	users    UserRepository
	sessions SessionStore
	ttl      time.Duration
	log      logger.Logger
}

func NewService(users UserRepository, sessions SessionStore, ttl time.Duration, log logger.Logger) *Service {
	return &Service{users: users, sessions: sessions, ttl: ttl, log: log}
}

func (s *Service) SessionTTL() time.Duration { return s.ttl }

// SignUp creates a password account and opens a session for it.
func (s *Service) SignUp(ctx context.Context, email, password, name string) (*models.User, string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, "", err
	}

	user := &models.User{
		Email:        email,
		Name:         strings.TrimSpace(name),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, "", ErrEmailTaken
		}
		return nil, "", err
	}

	s.log.Info("user_signed_up", logger.String("user_id", user.ID))
	return s.openSession(ctx, user)
}

func (s *Service) SignIn(ctx context.Context, email, password string) (*models.User, string, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if !CheckPassword(user.PasswordHash, password) {
		s.log.Warn("sign_in_rejected", logger.String("user_id", user.ID))
		return nil, "", ErrInvalidCredentials
	}
	return s.openSession(ctx, user)
}

// SignInWithGoogle finds or creates the account behind a verified Google
// profile.
func (s *Service) SignInWithGoogle(ctx context.Context, p *GoogleProfile) (*models.User, string, error) {
	if !p.EmailVerified {
		return nil, "", ErrEmailNotVerified
	}
	user, err := s.users.FindOrCreateByGoogle(ctx, p.Subject, p.Email, p.Name)
	if err != nil {
		return nil, "", err
	}
	return s.openSession(ctx, user)
}

func (s *Service) SignOut(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// Authenticate returns the user id bound to token.
func (s *Service) Authenticate(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrSessionNotFound
	}
	return s.sessions.Resolve(ctx, token)
}

func (s *Service) CurrentUser(ctx context.Context, userID string) (*models.User, error) {
	return s.users.FindByID(ctx, userID)
}

func (s *Service) Ping(ctx context.Context) error {
	return s.sessions.Ping(ctx)
}

func (s *Service) openSession(ctx context.Context, user *models.User) (*models.User, string, error) {
	token, err := s.sessions.Create(ctx, user.ID, s.ttl)
	if err != nil {
		return nil, "", fmt.Errorf("open session for %s: %w", user.ID, err)
	}
	return user, token, nil
}
