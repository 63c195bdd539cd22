package service

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/handicapstudent/ppt-project/internal/domain"
	"github.com/handicapstudent/ppt-project/internal/models"

	"github.com/rs/zerolog"
)

// UserService handles accounts: signup, login, security-question password
// recovery and the optional certificate attachment. Passwords are stored
// and compared in plaintext; hardening is explicitly out of scope here.
type UserService struct {
	store       domain.UserStore
	states      domain.StateRepository
	loginLimit  int
	loginWindow time.Duration
	logger      *zerolog.Logger
}

func NewUserService(store domain.UserStore, states domain.StateRepository, logger *zerolog.Logger) *UserService {
	return &UserService{
		store:       store,
		states:      states,
		loginLimit:  models.LoginRateLimit,
		loginWindow: models.LoginRateWindow * time.Second,
		logger:      logger,
	}
}

// SignUp creates or replaces the account. When certPath names a readable
// file its contents are stored alongside the path; an unreadable file just
// drops the blob, mirroring a best-effort attachment.
func (s *UserService) SignUp(ctx context.Context, u *models.User, certPath string) error {
	if certPath != "" {
		u.CertPath = certPath
		if blob, err := os.ReadFile(certPath); err == nil {
			u.CertBlob = blob
		} else {
			s.logger.Warn().Err(err).Str("cert_path", certPath).Msg("certificate file not readable, storing path only")
			u.CertBlob = nil
		}
	}

	if err := s.store.SaveUser(ctx, u); err != nil {
		return fmt.Errorf("sign up: %w", err)
	}
	s.logger.Info().Str("user_id", u.UserID).Msg("user saved")
	return nil
}

// Login validates credentials, bounded by the per-user rate limiter.
func (s *UserService) Login(ctx context.Context, userID, password string) (*models.User, error) {
	if s.states != nil {
		allowed, err := s.states.CheckRateLimit(ctx, "login:"+userID, s.loginLimit, s.loginWindow)
		if err != nil {
			s.logger.Warn().Err(err).Msg("rate limit check failed, allowing attempt")
		} else if !allowed {
			return nil, ErrRateLimited
		}
	}

	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		// Unknown user and wrong password are indistinguishable on purpose.
		return nil, ErrInvalidCredentials
	}
	if u.Password != password {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// SecurityQuestion returns the user's recovery question.
func (s *UserService) SecurityQuestion(ctx context.Context, userID string) (string, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return u.SecurityQuestion, nil
}

// RecoverPassword checks the security answer and, on match, returns the
// stored password for display.
func (s *UserService) RecoverPassword(ctx context.Context, userID, answer string) (string, error) {
	u, err := s.store.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if u.SecurityAnswer != answer {
		return "", ErrWrongAnswer
	}
	return u.Password, nil
}
