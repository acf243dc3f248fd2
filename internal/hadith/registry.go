package hadith

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Registry tracks the live sessions of a server. Sessions idle for longer
// than IdleTTL are closed by Sweep; when MaxSessions are live, Create evicts
// the least recently used one. Zero values disable either limit.
type Registry struct {
	Engine      *Engine
	IdleTTL     time.Duration
	MaxSessions int
	Now         func() time.Time

	mu       sync.Mutex
	sessions map[string]*registered
}

type registered struct {
	session  *Session
	lastUsed time.Time
}

func NewRegistry(e *Engine) *Registry {
	return &Registry{Engine: e, Now: time.Now, sessions: make(map[string]*registered)}
}

func (r *Registry) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Create starts a session with a fresh random id.
func (r *Registry) Create() *Session {
	s := newSession(uuid.NewString(), r.Engine)
	now := r.now()

	r.mu.Lock()
	closed := r.expireLocked(now)
	if r.MaxSessions > 0 && len(r.sessions) >= r.MaxSessions {
		if old := r.oldestLocked(); old != nil {
			delete(r.sessions, old.ID)
			closed = append(closed, old)
		}
	}
	r.sessions[s.ID] = &registered{session: s, lastUsed: now}
	r.mu.Unlock()

	r.close(closed, "evicted")
	return s
}

// Get returns the session and marks it as used.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reg, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	reg.lastUsed = r.now()
	return reg.session, nil
}

// Delete closes and forgets the session.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	reg, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	reg.session.Close()
	return nil
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep closes sessions idle for longer than IdleTTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	r.mu.Lock()
	closed := r.expireLocked(r.now())
	r.mu.Unlock()
	r.close(closed, "expired")
	return len(closed)
}

// Run sweeps periodically until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	if r.IdleTTL <= 0 {
		return
	}
	interval := max(r.IdleTTL/4, time.Second)
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.Sweep()
		}
	}
}

// CloseAll closes every session, for shutdown.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*registered)
	r.mu.Unlock()
	for _, reg := range sessions {
		reg.session.Close()
	}
}

func (r *Registry) expireLocked(now time.Time) []*Session {
	if r.IdleTTL <= 0 {
		return nil
	}
	var out []*Session
	for id, reg := range r.sessions {
		if now.Sub(reg.lastUsed) > r.IdleTTL {
			delete(r.sessions, id)
			out = append(out, reg.session)
		}
	}
	return out
}

func (r *Registry) oldestLocked() *Session {
	var oldest *registered
	for _, reg := range r.sessions {
		if oldest == nil || reg.lastUsed.Before(oldest.lastUsed) {
			oldest = reg
		}
	}
	if oldest == nil {
		return nil
	}
	return oldest.session
}

func (r *Registry) close(sessions []*Session, reason string) {
	for _, s := range sessions {
		s.Close()
		if r.Engine != nil {
			r.Engine.log.Info("session closed", "session", s.ID, "reason", reason)
		}
	}
}
