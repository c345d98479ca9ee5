package strategy

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrNotFound is returned when resolving a name no strategy is
	// registered under.
	ErrNotFound = errors.New("strategy not registered")

	// ErrAlreadyRegistered is returned when registering a name that is
	// already bound to a strategy.
	ErrAlreadyRegistered = errors.New("strategy already registered")
)

// Registry maps strategy names to their serving sessions. Registrations
// happen during setup before the HTTP layer accepts requests, resolution
// is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
	}
}

// Register binds a name to a strategy and creates its serving session.
// Names are bound at most once, re-registering fails with
// ErrAlreadyRegistered.
func (r *Registry) Register(name string, strat Strategy) error {
	if name == "" {
		return errors.New("strategy name must not be empty")
	}
	if strat == nil {
		return fmt.Errorf("strategy %q is nil", name)
	}
	if ws := strat.WindowSize(); ws < 1 {
		return fmt.Errorf("strategy %q has invalid window size %d", name, ws)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.sessions[name]; exists {
		return fmt.Errorf("%q: %w", name, ErrAlreadyRegistered)
	}
	r.sessions[name] = newSession(name, strat)
	return nil
}

// MustRegister is Register for setup code without an error path. It
// panics when registration fails.
func (r *Registry) MustRegister(name string, strat Strategy) {
	if err := r.Register(name, strat); err != nil {
		panic(err)
	}
}

// Resolve returns the session registered under name or ErrNotFound.
func (r *Registry) Resolve(name string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[name]
	if !exists {
		return nil, fmt.Errorf("%q: %w", name, ErrNotFound)
	}
	return session, nil
}

// Names returns the registered strategy names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
