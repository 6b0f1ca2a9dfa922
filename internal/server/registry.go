package server

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/clock"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/game"
	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/quiz"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrTooManySessions = errors.New("too many sessions")
)

// SessionFactory builds an unstarted session that reports to view.
type SessionFactory func(logger *slog.Logger, view game.Presenter, tier quiz.Tier) *game.Session

type RegistryConfig struct {
	// Limit caps the number of hosted sessions. Zero means no limit.
	Limit int
	// IdleTTL is how long a session may go without a request or an open
	// stream before it is reaped. Zero disables reaping.
	IdleTTL time.Duration
	Clock   clock.Clock
}

type entry struct {
	session  *game.Session
	lastSeen time.Time
}

// Registry holds the game screens hosted by this process, keyed by id.
type Registry struct {
	logger  *slog.Logger
	broker  *Broker
	factory SessionFactory
	limit   int
	ttl     time.Duration
	clock   clock.Clock

	mu       sync.RWMutex
	sessions map[string]*entry
}

func NewRegistry(logger *slog.Logger, broker *Broker, factory SessionFactory, cfg RegistryConfig) *Registry {
	if cfg.Clock == nil {
		cfg.Clock = clock.System
	}
	return &Registry{
		logger:   logger,
		broker:   broker,
		factory:  factory,
		limit:    cfg.Limit,
		ttl:      cfg.IdleTTL,
		clock:    cfg.Clock,
		sessions: make(map[string]*entry),
	}
}

// Create builds, registers and starts a new session. When the registry is
// full, idle sessions are reaped first.
func (r *Registry) Create(tier quiz.Tier) (string, *game.Session, error) {
	id := uuid.NewString()
	view := game.PresenterFunc(func(f game.Frame) { r.broker.Publish(id, f) })
	s := r.factory(r.logger.With("session_id", id), view, tier)

	if r.full() {
		r.Sweep()
	}

	r.mu.Lock()
	if r.limit > 0 && len(r.sessions) >= r.limit {
		r.mu.Unlock()
		s.Close()
		return "", nil, ErrTooManySessions
	}
	r.sessions[id] = &entry{session: s, lastSeen: r.clock.Now()}
	active := len(r.sessions)
	r.mu.Unlock()

	r.logger.Info("session created", "session_id", id, "tier", tier.String(), "active", active)
	s.Start()
	return id, s, nil
}

// Get returns the session and marks it as in use.
func (r *Registry) Get(id string) (*game.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	e.lastSeen = r.clock.Now()
	return e.session, nil
}

// Remove tears the session down, ends its streams and forgets it.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	e, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	r.teardown(id, e.session)
	r.logger.Info("session closed", "session_id", id)
	return nil
}

// Sweep reaps sessions that have had no request for IdleTTL and no open
// stream. It returns the number reaped.
func (r *Registry) Sweep() int {
	if r.ttl <= 0 {
		return 0
	}
	cutoff := r.clock.Now().Add(-r.ttl)

	r.mu.Lock()
	var idle []string
	for id, e := range r.sessions {
		if e.lastSeen.After(cutoff) || r.broker.Subscribers(id) > 0 {
			continue
		}
		idle = append(idle, id)
	}
	reaped := make(map[string]*game.Session, len(idle))
	for _, id := range idle {
		reaped[id] = r.sessions[id].session
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for id, s := range reaped {
		r.teardown(id, s)
		r.logger.Info("session reaped", "session_id", id, "phase", string(s.State().Phase))
	}
	return len(reaped)
}

// Run sweeps idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context) error {
	if r.ttl <= 0 {
		<-ctx.Done()
		return nil
	}
	t := time.NewTicker(max(r.ttl/2, time.Second))
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			r.Sweep()
		}
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Close tears down every session.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, e := range r.sessions {
		r.teardown(id, e.session)
		delete(r.sessions, id)
	}
	return nil
}

func (r *Registry) full() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.limit > 0 && len(r.sessions) >= r.limit
}

func (r *Registry) teardown(id string, s *game.Session) {
	s.Close()
	r.broker.CloseSession(id)
}
