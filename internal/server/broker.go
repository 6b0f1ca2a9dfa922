package server

import (
	"encoding/json"
	"sync"

	"github.com/SREERAM2612/One-minute-Maths-Quiz/internal/game"
)

// Broker is an in-process pub/sub of screen frames, keyed by session ID.
// Subscribers are the SSE and WebSocket streams of a session.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded frames for the
// given session.
func (b *Broker) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan []byte]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the session's subscribers.
func (b *Broker) Unsubscribe(sessionID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[sessionID], ch)
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// CloseSession closes every subscriber channel of the session so its
// streams end.
func (b *Broker) CloseSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs[sessionID] {
		close(ch)
	}
	delete(b.subs, sessionID)
}

// Subscribers returns the number of open streams of the session.
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[sessionID])
}

// Publish sends a frame to all subscribers of the given session. It never
// blocks: it runs inside the session loop.
func (b *Broker) Publish(sessionID string, f game.Frame) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if len(b.subs[sessionID]) == 0 {
		return
	}
	data, _ := json.Marshal(f)
	for ch := range b.subs[sessionID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow; the next tick carries full state.
		}
	}
}
