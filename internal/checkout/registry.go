package checkout

import (
	"sync"
	"time"

	pkgerrors "github.com/sortezap/sortezap-backend/pkg/errors"
)

// Registry holds live checkout sessions in memory. Sessions are ephemeral
// by design: the gateway remains the system of record, so losing the
// registry only means abandoned checkouts.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Put registers a session under its identifier.
func (r *Registry) Put(session *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[session.ID()] = session
}

// Get returns the session with the given id.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	session, ok := r.sessions[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
	}
	return session, nil
}

// ByExternalRef finds the session backing the given gateway correlation id.
// Webhook deliveries use this to confirm a live checkout early.
func (r *Registry) ByExternalRef(externalRef string) (*Session, bool) {
	if externalRef == "" {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, session := range r.sessions {
		if session.ExternalRef() == externalRef {
			return session, true
		}
	}
	return nil, false
}

// Delete closes the session and removes it from the registry.
func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	session, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	r.mu.Unlock()
	if !ok {
		return pkgerrors.New(pkgerrors.CodeNotFound, "checkout session not found")
	}
	session.Close()
	return nil
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Sweep closes and drops sessions that reached a terminal state or outlived
// the ttl. Returns how many were removed.
func (r *Registry) Sweep(ttl time.Duration) int {
	r.mu.Lock()
	var expired []*Session
	for id, session := range r.sessions {
		if session.State().Terminal() || time.Since(session.CreatedAt()) > ttl {
			expired = append(expired, session)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()
	for _, session := range expired {
		session.Close()
	}
	return len(expired)
}
