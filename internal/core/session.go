package core

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/azhar-beg/backstage/internal/object"
)

// SessionTTL is how long an untouched drawer session survives. It is a
// distinct type so that Wire can tell it apart from other durations.
// A zero or negative TTL disables expiry.
type SessionTTL time.Duration

// DrawerSession is an open drawer: the object it shows and its toggle
// state.
type DrawerSession struct {
	ID string
	// Owner is the subject that opened the drawer; empty for anonymous
	// callers.
	Owner   string
	Cluster string
	Kind    string
	Object  object.Value
	State   DrawerState

	lastSeen time.Time
}

// DrawerSessionStore keeps drawer sessions in memory, keyed by a
// random UUID.
type DrawerSessionStore struct {
	ttl time.Duration
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*DrawerSession
}

// NewDrawerSessionStore returns an empty store.
func NewDrawerSessionStore(ttl SessionTTL) *DrawerSessionStore {
	return &DrawerSessionStore{
		ttl:      time.Duration(ttl),
		now:      time.Now,
		sessions: make(map[string]*DrawerSession),
	}
}

// Create stores a new session and returns a copy of it.
func (s *DrawerSessionStore) Create(owner, cluster, kind string, obj object.Value, state DrawerState) DrawerSession {
	sess := &DrawerSession{
		ID:       uuid.NewString(),
		Owner:    owner,
		Cluster:  cluster,
		Kind:     kind,
		Object:   obj,
		State:    state,
		lastSeen: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess.ID] = sess
	return *sess
}

// Get returns a copy of the session and marks it as used.
func (s *DrawerSessionStore) Get(id string) (DrawerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return DrawerSession{}, &ErrSessionNotFound{ID: id}
	}
	sess.lastSeen = s.now()
	return *sess, nil
}

// GetOwned is Get for the session's owner only. Sessions of other
// owners are reported as missing and are not marked as used.
func (s *DrawerSessionStore) GetOwned(id, owner string) (DrawerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok || sess.Owner != owner {
		return DrawerSession{}, &ErrSessionNotFound{ID: id}
	}
	sess.lastSeen = s.now()
	return *sess, nil
}

// Update applies fn to the session state under the store lock. The
// state is left unchanged when fn fails.
func (s *DrawerSessionStore) Update(id string, fn func(*DrawerState) error) (DrawerSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return DrawerSession{}, &ErrSessionNotFound{ID: id}
	}

	state := sess.State
	if err := fn(&state); err != nil {
		return DrawerSession{}, err
	}
	sess.State = state
	sess.lastSeen = s.now()
	return *sess, nil
}

// Delete removes a session.
func (s *DrawerSessionStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return &ErrSessionNotFound{ID: id}
	}
	delete(s.sessions, id)
	return nil
}

// Len returns the number of live sessions.
func (s *DrawerSessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep evicts sessions idle for longer than the TTL and returns how
// many were removed.
func (s *DrawerSessionStore) Sweep() int {
	if s.ttl <= 0 {
		return 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-s.ttl)
	evicted := 0
	for id, sess := range s.sessions {
		if sess.lastSeen.Before(cutoff) {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// StartEvictionLoop sweeps expired sessions every interval. It blocks
// until ctx is cancelled.
func (s *DrawerSessionStore) StartEvictionLoop(ctx context.Context, interval time.Duration) {
	log := slog.Default().With("component", "drawer-session-evictor")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if evicted := s.Sweep(); evicted > 0 {
				log.Info("evicted idle drawer sessions", "count", evicted)
			}
		}
	}
}
