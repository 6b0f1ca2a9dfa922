package clock

import "time"

type (
	TickFunc   func(remaining int)
	ExpireFunc func()
)

type countdown struct {
	timer     Timer
	seq       uint64
	start     time.Time
	elapsed   int
	seconds   int
	cancelled bool
	onTick    TickFunc
	onExpire  ExpireFunc
	slot      **countdown
}

// deadline is when the countdown's next second elapses.
func (c *countdown) deadline() time.Time {
	return c.start.Add(time.Duration(c.elapsed+1) * time.Second)
}

func (c *countdown) cancel() {
	if c == nil || c.cancelled {
		return
	}
	c.cancelled = true
	if c.timer != nil {
		c.timer.Stop()
	}
}

// GameClock owns the match countdown and the question countdown of one
// screen. At most one of each is active.
//
// Start and Cancel methods must be called from inside the Loop (typically
// from a session event or from another countdown's callback). Callbacks
// are invoked inside the Loop.
type GameClock struct {
	clock    Clock
	loop     *Loop
	seq      uint64
	match    *countdown
	question *countdown
}

func NewGameClock(c Clock, loop *Loop) *GameClock {
	if c == nil {
		c = System
	}
	return &GameClock{clock: c, loop: loop}
}

// StartMatch replaces the active match countdown with a new one of the
// given length.
func (g *GameClock) StartMatch(seconds int, onTick TickFunc, onExpire ExpireFunc) {
	g.match.cancel()
	g.match = g.start(seconds, onTick, onExpire, &g.match)
}

// StartQuestion replaces the active question countdown with a new one of
// the given length.
//
// Seconds of both countdowns that elapse at the same instant are delivered
// in start order whichever timer reaches the Loop first.
func (g *GameClock) StartQuestion(seconds int, onTick TickFunc, onExpire ExpireFunc) {
	g.question.cancel()
	g.question = g.start(seconds, onTick, onExpire, &g.question)
}

func (g *GameClock) CancelMatch() {
	g.match.cancel()
	g.match = nil
}

func (g *GameClock) CancelQuestion() {
	g.question.cancel()
	g.question = nil
}

// CancelAll stops both countdowns without firing their callbacks. Callbacks
// already queued behind the caller on the Loop are dropped.
func (g *GameClock) CancelAll() {
	g.CancelMatch()
	g.CancelQuestion()
}

// MatchActive reports whether a match countdown is running.
func (g *GameClock) MatchActive() bool { return g.match != nil }

// QuestionActive reports whether a question countdown is running.
func (g *GameClock) QuestionActive() bool { return g.question != nil }

func (g *GameClock) start(seconds int, onTick TickFunc, onExpire ExpireFunc, slot **countdown) *countdown {
	g.seq++
	c := &countdown{
		seq:      g.seq,
		start:    g.clock.Now(),
		seconds:  seconds,
		onTick:   onTick,
		onExpire: onExpire,
		slot:     slot,
	}
	if seconds <= 0 {
		// Nothing to count: expire on the next loop turn.
		c.timer = g.clock.AfterFunc(0, func() { g.loop.Do(func() { g.expire(c) }) })
		return c
	}
	g.schedule(c)
	return c
}

// schedule arms the timer for the countdown's next deadline, measured from
// its start so callback latency does not accumulate.
func (g *GameClock) schedule(c *countdown) {
	if c.timer != nil {
		c.timer.Stop()
	}
	gen := c.elapsed
	d := max(c.deadline().Sub(g.clock.Now()), 0)
	c.timer = g.clock.AfterFunc(d, func() {
		g.loop.Do(func() { g.fire(c, gen) })
	})
}

// fire handles the timer of c for second gen. Every countdown due no later
// than c is ticked first, in (deadline, start) order. A timer whose second
// was already delivered that way is stale and does nothing.
func (g *GameClock) fire(c *countdown, gen int) {
	if c.cancelled || c.elapsed != gen {
		return
	}
	until := c.deadline()
	for {
		next := g.due(until)
		if next == nil {
			return
		}
		g.tick(next)
	}
}

func (g *GameClock) due(until time.Time) *countdown {
	var next *countdown
	for _, c := range []*countdown{g.match, g.question} {
		if c == nil || c.cancelled || c.seconds <= 0 || c.deadline().After(until) {
			continue
		}
		if next == nil || c.deadline().Before(next.deadline()) ||
			(c.deadline().Equal(next.deadline()) && c.seq < next.seq) {
			next = c
		}
	}
	return next
}

func (g *GameClock) tick(c *countdown) {
	c.elapsed++
	remaining := c.seconds - c.elapsed
	if remaining <= 0 {
		g.expire(c)
		return
	}
	g.schedule(c)
	if c.onTick != nil {
		c.onTick(remaining)
	}
}

func (g *GameClock) expire(c *countdown) {
	if c.cancelled {
		return
	}
	c.cancelled = true
	if c.timer != nil {
		c.timer.Stop()
	}
	if *c.slot == c {
		*c.slot = nil
	}
	if c.onExpire != nil {
		c.onExpire()
	}
}
