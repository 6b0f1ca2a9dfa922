// Package prefs persists small integer preferences, such as the high
// score, in SQLite, Redis or memory.
package prefs

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrUnknownBackend = errors.New("unknown preferences backend")

// Store is a last-write-wins key-value store of integers. Get returns 0 for
// keys that were never set.
type Store interface {
	Get(ctx context.Context, key string) (int, error)
	Set(ctx context.Context, key string, value int) error
}

type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendSQLite, BackendRedis, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
	}
}

// MemoryStore keeps values in process memory.
type MemoryStore struct {
	mu   sync.RWMutex
	vals map[string]int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{vals: make(map[string]int)}
}

func (m *MemoryStore) Get(_ context.Context, key string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.vals[key], nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value int) error {
	m.mu.Lock()
	m.vals[key] = value
	m.mu.Unlock()
	return nil
}
