// Package motion models the reduced-motion accessibility preference as a
// signal renderers subscribe to for as long as they are mounted.
package motion

import (
	"strings"
	"sync"
)

// Signal reports the current preference and notifies subscribers when it
// changes. Cancel functions returned by Subscribe are idempotent.
type Signal interface {
	Reduced() bool
	Subscribe(fn func(reduced bool)) (cancel func())
}

// Switch is a settable Signal.
type Switch struct {
	mu      sync.Mutex
	reduced bool
	subs    map[int]func(bool)
	next    int
}

func NewSwitch(reduced bool) *Switch {
	return &Switch{reduced: reduced, subs: make(map[int]func(bool))}
}

func (s *Switch) Reduced() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reduced
}

// Set updates the preference. Subscribers run only on an actual change, on
// the caller's goroutine and outside the lock.
func (s *Switch) Set(reduced bool) {
	s.mu.Lock()
	if s.reduced == reduced {
		s.mu.Unlock()
		return
	}
	s.reduced = reduced
	fns := make([]func(bool), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(reduced)
	}
}

func (s *Switch) Toggle() { s.Set(!s.Reduced()) }

func (s *Switch) Subscribe(fn func(bool)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Subscribers returns the number of live subscriptions.
func (s *Switch) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

type static bool

// Static returns a Signal that never changes.
func Static(reduced bool) Signal { return static(reduced) }

func (s static) Reduced() bool                        { return bool(s) }
func (s static) Subscribe(func(bool)) (cancel func()) { return func() {} }

// Parse interprets a preference string. Unknown values mean full motion.
func Parse(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "reduce", "reduced", "true", "1", "on", "yes":
		return true
	}
	return false
}
