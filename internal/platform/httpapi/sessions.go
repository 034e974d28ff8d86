package httpapi

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vovakirdan/gemcrush/internal/match3"
)

var (
	errSessionNotFound = errors.New("httpapi: session not found")
	errTooManySessions = errors.New("httpapi: too many sessions")
)

// Session is one remote game. Its mutex serializes every engine call, so a
// session resolves at most one request at a time.
type Session struct {
	mu       sync.Mutex
	ID       string
	Engine   *match3.Engine
	Events   *match3.EventQueue
	Created  time.Time
	LastSeen time.Time
}

// SessionStore holds live sessions in memory.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
	max      int
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore creates a store holding at most max sessions. Sessions idle
// for longer than ttl are evicted by Sweep. Zero values disable the limits.
func NewSessionStore(max int, ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		max:      max,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a new session on a fresh engine.
func (s *SessionStore) Create(cfg match3.Config) (*Session, error) {
	engine, err := match3.NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	events := &match3.EventQueue{SkipCellChanges: true}
	engine.Subscribe(events)

	now := s.now()
	sess := &Session{
		ID:       uuid.NewString(),
		Engine:   engine,
		Events:   events,
		Created:  now,
		LastSeen: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.max > 0 && len(s.sessions) >= s.max {
		return nil, errTooManySessions
	}
	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns the session with the given id and marks it as used.
func (s *SessionStore) Get(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}
	sess.LastSeen = s.now()
	return sess, nil
}

// Delete removes a session and returns it.
func (s *SessionStore) Delete(id string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, errSessionNotFound
	}
	delete(s.sessions, id)
	return sess, nil
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts idle sessions and returns them.
func (s *SessionStore) Sweep() []*Session {
	if s.ttl <= 0 {
		return nil
	}
	cutoff := s.now().Add(-s.ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	var evicted []*Session
	for id, sess := range s.sessions {
		if sess.LastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted = append(evicted, sess)
		}
	}
	return evicted
}
