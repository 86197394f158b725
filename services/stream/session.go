package stream

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/prateushsharma/sei-Firewall/types"
	"github.com/prateushsharma/sei-Firewall/utils/logger"
)

// Session is one open streaming connection. Frames pushed here are
// drained by the transport that owns the connection.
type Session struct {
	ID        string
	CreatedAt time.Time

	mu           sync.Mutex
	lastActivity time.Time
	frames       chan types.StreamFrame
	closed       bool
}

// Frames returns the channel the transport drains
func (s *Session) Frames() <-chan types.StreamFrame {
	return s.frames
}

// Touch marks the session as recently used
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActivity = time.Now()
	s.mu.Unlock()
}

// LastActivity returns when the session last saw traffic
func (s *Session) LastActivity() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActivity
}

// Push queues a frame without blocking. A full buffer or a closed
// session drops the frame and reports false.
func (s *Session) Push(frame types.StreamFrame) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		droppedFrames.Inc()
		return false
	}
	select {
	case s.frames <- frame:
		s.lastActivity = time.Now()
		return true
	default:
		droppedFrames.Inc()
		return false
	}
}

func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.frames)
}

// Registry tracks live streaming sessions
type Registry interface {
	// Register creates a session with a fresh opaque id
	Register() *Session

	// Lookup finds a session by id
	Lookup(id string) (*Session, error)

	// Resolve finds the target session for a submission. An empty id is
	// allowed only while exactly one session is open.
	Resolve(id string) (*Session, error)

	// Unregister closes and removes a session. Unknown ids are a no-op.
	Unregister(id string)

	// Len reports the number of open sessions
	Len() int

	// SweepIdle closes sessions idle longer than ttl
	SweepIdle(ttl time.Duration) int

	// Close closes every session and rejects new registrations
	Close()
}

// MemoryRegistry is the in-process Registry used by the server
type MemoryRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Session
	buffer   int
	closed   bool
}

// NewMemoryRegistry creates a registry whose sessions buffer up to
// bufferSize frames each
func NewMemoryRegistry(bufferSize int) *MemoryRegistry {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &MemoryRegistry{
		sessions: make(map[string]*Session),
		buffer:   bufferSize,
	}
}

func (r *MemoryRegistry) newSession() *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.New().String(),
		CreatedAt:    now,
		lastActivity: now,
		frames:       make(chan types.StreamFrame, r.buffer),
	}
}

// Register creates and tracks a new session
func (r *MemoryRegistry) Register() *Session {
	session := r.newSession()

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		session.close()
		return session
	}
	r.sessions[session.ID] = session
	r.mu.Unlock()

	activeSessions.Inc()
	return session
}

// Lookup finds a session by id
func (r *MemoryRegistry) Lookup(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, ok := r.sessions[id]
	if !ok {
		return nil, types.ErrSessionNotFound
	}
	return session, nil
}

// Resolve finds the session a submission targets. Without an id the
// single open session wins; more than one is ambiguous.
func (r *MemoryRegistry) Resolve(id string) (*Session, error) {
	if id != "" {
		return r.Lookup(id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch len(r.sessions) {
	case 0:
		return nil, types.ErrSessionNotFound
	case 1:
		for _, session := range r.sessions {
			return session, nil
		}
	}
	return nil, types.ErrAmbiguousSession
}

// Unregister closes and removes a session, tolerating unknown ids
func (r *MemoryRegistry) Unregister(id string) {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	if ok {
		session.close()
		activeSessions.Dec()
	}
}

// Len reports the number of open sessions
func (r *MemoryRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// SweepIdle drops sessions with no traffic for longer than ttl
func (r *MemoryRegistry) SweepIdle(ttl time.Duration) int {
	cutoff := time.Now().Add(-ttl)

	r.mu.Lock()
	var stale []*Session
	for id, session := range r.sessions {
		if session.LastActivity().Before(cutoff) {
			stale = append(stale, session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, session := range stale {
		session.close()
		activeSessions.Dec()
	}

	if len(stale) > 0 {
		logger.Infof("Swept %d idle streaming sessions", len(stale))
	}
	return len(stale)
}

// Close shuts every session down and rejects new registrations
func (r *MemoryRegistry) Close() {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for id, session := range r.sessions {
		sessions = append(sessions, session)
		delete(r.sessions, id)
	}
	r.closed = true
	r.mu.Unlock()

	for _, session := range sessions {
		session.close()
		activeSessions.Dec()
	}
}
