// Package redis keeps the profile documents, accounts and sessions in Redis.
// Sessions carry a Redis TTL so expiry needs no sweeping.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"bmitrack/internal/domain"

	goredis "github.com/redis/go-redis/v9"
)

const (
	userKeyPattern    = "bmitrack:user:%d"
	usernameIndexKey  = "bmitrack:users:byname"
	userSeqKey        = "bmitrack:users:seq"
	sessionKeyPattern = "bmitrack:session:%s"
)

// ErrUserExists is returned by Create for a taken username.
var ErrUserExists = errors.New("user already exists")

var (
	_ domain.KeyValueStore     = (*Store)(nil)
	_ domain.UserRepository    = (*Store)(nil)
	_ domain.SessionRepository = (*SessionRepo)(nil)
)

// Store implements the key-value and user ports on a Redis client.
type Store struct {
	client *goredis.Client
	log    *slog.Logger
}

// New wraps an existing client.
func New(client *goredis.Client, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{client: client, log: log}
}

// Dial connects to addr and checks the connection with PING.
func Dial(ctx context.Context, addr, password string, db int, log *slog.Logger) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return New(client, log), nil
}

// Ping reports whether Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (s *Store) Close() error {
	return s.client.Close()
}

// GetItem returns the document stored under key.
func (s *Store) GetItem(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrNotFound
		}
		s.log.Error("failed to get item from redis", "key", key, "error", err)
		return nil, err
	}
	return data, nil
}

// SetItem replaces the document stored under key. Documents never expire.
func (s *Store) SetItem(ctx context.Context, key string, value []byte) error {
	if err := s.client.Set(ctx, key, value, 0).Err(); err != nil {
		s.log.Error("failed to set item in redis", "key", key, "error", err)
		return err
	}
	return nil
}

// GetByUsername retrieves a user by username.
func (s *Store) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	id, err := s.client.HGet(ctx, usernameIndexKey, username).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup username: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID retrieves a user by ID.
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	data, err := s.client.Get(ctx, fmt.Sprintf(userKeyPattern, id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	var u domain.User
	if err := json.Unmarshal(data, &u); err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return &u, nil
}

// Create creates a new user. The username index is claimed with HSETNX so
// two concurrent creates cannot both succeed.
func (s *Store) Create(ctx context.Context, username, passwordHash string) (*domain.User, error) {
	id, err := s.client.Incr(ctx, userSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("allocate user id: %w", err)
	}
	ok, err := s.client.HSetNX(ctx, usernameIndexKey, username, strconv.FormatInt(id, 10)).Result()
	if err != nil {
		return nil, fmt.Errorf("claim username: %w", err)
	}
	if !ok {
		return nil, ErrUserExists
	}

	u := &domain.User{
		ID:           id,
		Username:     username,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	data, err := json.Marshal(u)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}
	if err := s.client.Set(ctx, fmt.Sprintf(userKeyPattern, id), data, 0).Err(); err != nil {
		_ = s.client.HDel(ctx, usernameIndexKey, username).Err()
		return nil, fmt.Errorf("save user: %w", err)
	}
	return u, nil
}

// Count returns the total number of users.
func (s *Store) Count(ctx context.Context) (int, error) {
	n, err := s.client.HLen(ctx, usernameIndexKey).Result()
	return int(n), err
}

// SessionRepo stores sessions as expiring keys.
type SessionRepo struct {
	store *Store
}

// NewSessionRepo creates a session repository on the store's client.
func NewSessionRepo(store *Store) *SessionRepo {
	return &SessionRepo{store: store}
}

// Create stores the session until expiresAt. Sessions already expired are
// not stored.
func (r *SessionRepo) Create(ctx context.Context, userID int64, token, userAgent, ip string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(domain.Session{
		Token:     token,
		UserID:    userID,
		UserAgent: userAgent,
		IP:        ip,
		ExpiresAt: expiresAt.UTC(),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	return r.store.client.Set(ctx, fmt.Sprintf(sessionKeyPattern, token), data, ttl).Err()
}

// GetByToken retrieves a session by token.
func (r *SessionRepo) GetByToken(ctx context.Context, token string) (*domain.Session, error) {
	data, err := r.store.client.Get(ctx, fmt.Sprintf(sessionKeyPattern, token)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &sess, nil
}

// Delete deletes a session by token.
func (r *SessionRepo) Delete(ctx context.Context, token string) error {
	return r.store.client.Del(ctx, fmt.Sprintf(sessionKeyPattern, token)).Err()
}

// DeleteExpired is a no-op: Redis drops sessions when their TTL runs out.
func (r *SessionRepo) DeleteExpired(ctx context.Context) error {
	return nil
}
