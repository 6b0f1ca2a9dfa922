// Package clock provides the countdown timers that drive a game screen.
//
// All timer callbacks run inside a Loop, the same serial executor the game
// uses for player events, so timer ticks and submissions never interleave.
package clock

import (
	"sync"
	"time"
)

// Timer represents a timer that can be stopped.
type Timer interface {
	Stop() bool
}

// Clock provides time-related operations.
// Tests substitute clocktest.Fake to drive countdowns by hand.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

// System is the default Clock implementation using the standard library.
var System Clock = systemClock{}

type systemClock struct{}

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (systemClock) Now() time.Time {
	return time.Now()
}

// Loop runs functions one at a time. It is the single logical thread of a
// game screen: timer callbacks and caller events both go through Do.
type Loop struct {
	mu sync.Mutex
}

// Do runs fn with exclusive access to the loop. fn must not call Do.
func (l *Loop) Do(fn func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fn()
}
