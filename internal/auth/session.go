package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "planner:session:"
	sessionTTL       = 24 * time.Hour
)

// SessionStore is what the HTTP layer needs from a session backend.
type SessionStore interface {
	Create(ctx context.Context, userID int64) (string, error)
	Delete(ctx context.Context, id string) error
	GetUserID(ctx context.Context, id string) (int64, bool)
	TTL() time.Duration
}

// Store manages sessions in Redis.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewStore returns a new session store.
func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func (s *Store) TTL() time.Duration { return s.ttl }

// Create stores a new session for userID and returns its ID.
func (s *Store) Create(ctx context.Context, userID int64) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	key := sessionKeyPrefix + id
	if err := s.rdb.Set(ctx, key, strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return "", err
	}
	return id, nil
}

// Delete removes a session by ID.
func (s *Store) Delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}

// GetUserID returns the user owning the session. Each hit extends the session by its TTL.
func (s *Store) GetUserID(ctx context.Context, id string) (int64, bool) {
	key := sessionKeyPrefix + id
	v, err := s.rdb.GetEx(ctx, key, s.ttl).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			slog.Error("session lookup failed", "err", err)
		}
		return 0, false
	}
	userID, err := strconv.ParseInt(v, 10, 64)
	if err != nil || userID <= 0 {
		return 0, false
	}
	return userID, true
}

func newSessionID() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("rand: %w", err)
	}
	return hex.EncodeToString(b), nil
}
