package session

import (
	"errors"
	"sync"

	"github.com/pixil98/go-realm/internal/game"
)

var (
	ErrAlreadyRegistered = errors.New("connection already registered")
	ErrNotRegistered     = errors.New("connection not registered")
)

// Registry maps live connections to authenticated player sessions. It is the
// single source of truth for who is online. Lookups by connection are O(1);
// scans by player id, guild, or position walk the map.
type Registry struct {
	mu     sync.RWMutex
	byConn map[string]*PlayerSession
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byConn: make(map[string]*PlayerSession),
	}
}

// Register binds a session to a connection id.
func (r *Registry) Register(connID string, s *PlayerSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byConn[connID]; exists {
		return ErrAlreadyRegistered
	}
	r.byConn[connID] = s
	return nil
}

// Unregister removes a connection's session.
func (r *Registry) Unregister(connID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byConn[connID]; !exists {
		return ErrNotRegistered
	}
	delete(r.byConn, connID)
	return nil
}

// Get returns the session bound to a connection, or nil.
func (r *Registry) Get(connID string) *PlayerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byConn[connID]
}

// FindByPlayerID returns the session for an online player, or nil when they
// are offline.
func (r *Registry) FindByPlayerID(id int64) *PlayerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, s := range r.byConn {
		if s.ID() == id {
			return s
		}
	}
	return nil
}

// ForEach calls fn for every registered session.
func (r *Registry) ForEach(fn func(connID string, s *PlayerSession)) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for connID, s := range r.byConn {
		fn(connID, s)
	}
}

// Sessions returns all registered sessions.
func (r *Registry) Sessions() []*PlayerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*PlayerSession, 0, len(r.byConn))
	for _, s := range r.byConn {
		out = append(out, s)
	}
	return out
}

// Nearby returns the sessions whose position lies within radius of pos.
func (r *Registry) Nearby(pos game.Position, radius float64) []*PlayerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*PlayerSession
	for _, s := range r.byConn {
		p, _ := s.Position()
		if p.Distance(pos) <= radius {
			out = append(out, s)
		}
	}
	return out
}

// Guild returns the sessions whose players share the given guild id.
func (r *Registry) Guild(guildID string) []*PlayerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*PlayerSession
	for _, s := range r.byConn {
		if s.GuildID() == guildID {
			out = append(out, s)
		}
	}
	return out
}

// Count returns how many sessions are online.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byConn)
}
