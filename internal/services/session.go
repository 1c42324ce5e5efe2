package services

import (
	"context"
	"sync"
	"time"

	"storefront/internal/domain"
	"storefront/internal/utils"

	"github.com/google/uuid"
)

// DefaultIdleTimeout logs an admin out after this long without a request.
const DefaultIdleTimeout = 30 * time.Minute

var (
	ErrSessionNotFound = domain.UnauthorizedError{Msg: "session not found"}
	ErrSessionExpired  = domain.UnauthorizedError{Msg: "session expired due to inactivity"}
)

type Session struct {
	ID        string
	UserID    int64
	Role      string
	CreatedAt time.Time
	LastSeen  time.Time
}

// SessionStore tracks admin sessions in memory and expires idle ones.
type SessionStore struct {
	mu       sync.Mutex
	idle     time.Duration
	now      func() time.Time
	sessions map[string]Session
}

func NewSessionStore(idle time.Duration) *SessionStore {
	if idle <= 0 {
		idle = DefaultIdleTimeout
	}
	return &SessionStore{
		idle:     idle,
		now:      time.Now,
		sessions: map[string]Session{},
	}
}

func (s *SessionStore) IdleTimeout() time.Duration { return s.idle }

func (s *SessionStore) Open(userID int64, role string) Session {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		LastSeen:  now,
	}
	s.sessions[sess.ID] = sess
	return sess
}

// Touch records activity on a session. A session idle past the timeout is
// dropped and ErrSessionExpired returned.
func (s *SessionStore) Touch(id string) (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	now := s.now()
	if now.Sub(sess.LastSeen) >= s.idle {
		delete(s.sessions, id)
		return Session{}, ErrSessionExpired
	}
	sess.LastSeen = now
	s.sessions[id] = sess
	return sess, nil
}

func (s *SessionStore) Close(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.sessions[id]
	delete(s.sessions, id)
	return ok
}

func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep drops every idle session and returns how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	n := 0
	for id, sess := range s.sessions {
		if now.Sub(sess.LastSeen) >= s.idle {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// RunJanitor sweeps on every tick until ctx is done.
func (s *SessionStore) RunJanitor(ctx context.Context, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sweep(); n > 0 {
				utils.Logger().Sugar().Infow("expired idle sessions", "module", "auth", "count", n)
			}
		}
	}
}
