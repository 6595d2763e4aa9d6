package auth

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps sessions in process memory. It is a test double for
// router tests; the server always uses the Redis Store.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[string]memorySession
}

type memorySession struct {
	userID  int64
	expires time.Time
}

var _ SessionStore = (*MemoryStore)(nil)

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = sessionTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, sessions: make(map[string]memorySession)}
}

func (s *MemoryStore) TTL() time.Duration { return s.ttl }

func (s *MemoryStore) Create(_ context.Context, userID int64) (string, error) {
	id, err := newSessionID()
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = memorySession{userID: userID, expires: s.now().Add(s.ttl)}
	return id, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *MemoryStore) GetUserID(_ context.Context, id string) (int64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return 0, false
	}
	now := s.now()
	if !now.Before(sess.expires) {
		delete(s.sessions, id)
		return 0, false
	}
	sess.expires = now.Add(s.ttl)
	s.sessions[id] = sess
	return sess.userID, true
}
