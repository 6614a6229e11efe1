// Package blink turns a static "flag set" bit plus a "should blink" bit into a
// time-varying on/off state.
package blink

import (
	"sync"
	"time"
)

// Rate selects the toggle period of a blinking indicator.
type Rate int

const (
	// Slow toggles every 500ms.
	Slow Rate = iota
	// Fast toggles every 200ms. No decoded indicator uses it yet.
	Fast
)

// Toggle periods.
const (
	SlowPeriod = 500 * time.Millisecond
	FastPeriod = 200 * time.Millisecond
)

// Period returns the toggle period for r.
func (r Rate) Period() time.Duration {
	if r == Fast {
		return FastPeriod
	}
	return SlowPeriod
}

func (r Rate) String() string {
	if r == Fast {
		return "fast"
	}
	return "slow"
}

// State is the persisted blink state of one indicator.
type State struct {
	LastToggle time.Time
	On         bool
}

// Update evaluates one poll for s and reports whether it toggled.
//
// When shouldBlink is false the state follows active with no inertia and the
// timer is left alone. When shouldBlink is true the state flips once the time
// since the last toggle reaches the rate's period, and the timer restarts at now.
func Update(s *State, active, shouldBlink bool, rate Rate, now time.Time) bool {
	if !shouldBlink {
		s.On = active
		return false
	}
	if now.Sub(s.LastToggle) < rate.Period() {
		return false
	}
	s.On = !s.On
	s.LastToggle = now
	return true
}

// Bank holds the states of every monitored indicator by name.
type Bank struct {
	mu     sync.Mutex
	states map[string]*State
}

// NewBank returns an empty bank.
func NewBank() *Bank {
	return &Bank{states: make(map[string]*State)}
}

// Evaluate updates the named indicator and returns its current on state and
// whether it toggled this poll.
func (b *Bank) Evaluate(name string, active, shouldBlink bool, rate Rate, now time.Time) (on, toggled bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.states[name]
	if !ok {
		s = &State{}
		b.states[name] = s
	}
	toggled = Update(s, active, shouldBlink, rate, now)
	return s.On, toggled
}

// State returns a copy of the named indicator's state.
func (b *Bank) State(name string) (State, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.states[name]
	if !ok {
		return State{}, false
	}
	return *s, true
}

// Len returns the number of tracked indicators.
func (b *Bank) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.states)
}
