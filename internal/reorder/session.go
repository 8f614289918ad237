package reorder

import (
	"errors"
	"sync"
	"time"
)

var (
	// ErrNoSession means the user has no media group awaiting a reorder.
	ErrNoSession = errors.New("no active session")
	// ErrSessionExpired means the session outlived its TTL and was evicted.
	ErrSessionExpired = errors.New("session expired")
)

// Session holds one finalized media group awaiting its reorder instruction.
// Sessions are immutable once stored; a new group replaces the whole value.
type Session struct {
	Files     []string
	Kind      Kind
	Expected  int
	ChatID    int64
	CreatedAt time.Time
}

// SessionStore keeps at most one active session per user. Expiry is checked
// lazily on read; there is no background sweep for sessions.
type SessionStore struct {
	mu     sync.RWMutex
	ttl    time.Duration
	byUser map[int64]*Session
}

// NewSessionStore creates a store that evicts sessions older than ttl on read.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:    ttl,
		byUser: make(map[int64]*Session),
	}
}

// Get returns the user's session. An entry past its TTL is evicted and
// reported as ErrSessionExpired; absence is ErrNoSession.
func (s *SessionStore) Get(userID int64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.byUser[userID]
	if !ok {
		return nil, ErrNoSession
	}
	if time.Since(sess.CreatedAt) > s.ttl {
		delete(s.byUser, userID)
		return nil, ErrSessionExpired
	}
	return sess, nil
}

// Put stores the session, replacing any previous one for the user.
func (s *SessionStore) Put(userID int64, sess *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byUser[userID] = sess
}

// Clear removes the user's session, expired or not.
func (s *SessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.byUser, userID)
}

// Len reports the number of stored sessions, including expired entries not
// yet evicted by a read.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byUser)
}
