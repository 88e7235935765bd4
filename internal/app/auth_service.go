// Package app holds the application services: profile and weight-log
// stores, BMI reports, charts and authentication.
package app

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"log/slog"
	"time"

	"bmitrack/internal/domain"

	"golang.org/x/crypto/bcrypt"
)

// sessionTTL is how long a login stays valid.
const sessionTTL = 24 * time.Hour

var (
	// ErrInvalidCredentials indicates that the provided username or password was incorrect.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrSessionNotFound indicates that the requested session does not exist.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired indicates that the session has expired.
	ErrSessionExpired = errors.New("session expired")
	// ErrUserNotFound indicates that the user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrSetupDone is returned by CreateInitialUser once an account exists.
	ErrSetupDone = errors.New("users already exist")
)

// AuthService handles authentication and session management.
type AuthService struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	log      *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users domain.UserRepository, sessions domain.SessionRepository, log *slog.Logger) *AuthService {
	if log == nil {
		log = slog.Default()
	}
	return &AuthService{users: users, sessions: sessions, log: log}
}

// Login checks the password and opens a session bound to userAgent.
func (s *AuthService) Login(ctx context.Context, username, password, userAgent, ip string) (string, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil || user == nil || user.PasswordHash == "" {
		return "", ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log.Warn("failed login", "username", username, "ip", ip)
		return "", ErrInvalidCredentials
	}
	return s.openSession(ctx, user, userAgent, ip)
}

// Logout invalidates a session.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// ValidateSession checks if a session token is valid and matches the user agent.
func (s *AuthService) ValidateSession(ctx context.Context, token, userAgent string) (*domain.User, error) {
	session, err := s.sessions.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	if time.Now().After(session.ExpiresAt) || session.UserAgent != userAgent {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// CreateInitialUser creates the first user if no users exist.
func (s *AuthService) CreateInitialUser(ctx context.Context, username, password string) error {
	if username == "" || len(password) < 8 {
		return invalidf("username required and password must be at least 8 characters")
	}
	count, err := s.users.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrSetupDone
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if _, err := s.users.Create(ctx, username, string(hash)); err != nil {
		return err
	}
	s.log.Info("created initial user", "username", username)
	return nil
}

// ValidateForwardAuth resolves the Remote-User header set by a forward-auth
// proxy, provisioning the user on first sight.
func (s *AuthService) ValidateForwardAuth(ctx context.Context, remoteUser string) (*domain.User, error) {
	if remoteUser == "" {
		return nil, errors.New("no remote user header")
	}
	return s.findOrProvision(ctx, remoteUser)
}

// LoginWithUser creates a session for an already authenticated user (e.g. via SSO).
func (s *AuthService) LoginWithUser(ctx context.Context, username, userAgent, ip string) (string, error) {
	user, err := s.findOrProvision(ctx, username)
	if err != nil {
		return "", err
	}
	return s.openSession(ctx, user, userAgent, ip)
}

// PruneSessions removes expired sessions.
func (s *AuthService) PruneSessions(ctx context.Context) error {
	return s.sessions.DeleteExpired(ctx)
}

// findOrProvision returns the named user, creating a password-less account
// for externally authenticated users.
func (s *AuthService) findOrProvision(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	user, err = s.users.Create(ctx, username, "")
	if err != nil {
		// Lost a race with a concurrent provision; read it back.
		user, err = s.users.GetByUsername(ctx, username)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrUserNotFound
		}
		return user, nil
	}
	s.log.Info("provisioned external user", "username", username)
	return user, nil
}

func (s *AuthService) openSession(ctx context.Context, user *domain.User, userAgent, ip string) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", err
	}
	expiresAt := time.Now().Add(sessionTTL)
	if err := s.sessions.Create(ctx, user.ID, token, userAgent, ip, expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
