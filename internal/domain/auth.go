// Package domain contains the core business entities, the BMI arithmetic
// and the persistence ports.
package domain

import (
	"context"
	"time"
)

// User is an account allowed to open the profile.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Session represents an active user session.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	UserAgent string    `json:"userAgent"`
	IP        string    `json:"ip"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserRepository defines the port for user persistence operations.
// Lookups return (nil, nil) when the user does not exist.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*User, error)
	GetByID(ctx context.Context, id int64) (*User, error)
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	Count(ctx context.Context) (int, error)
}

// SessionRepository defines the port for session persistence operations.
// GetByToken returns (nil, nil) for unknown tokens.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error
	GetByToken(ctx context.Context, token string) (*Session, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
