package state

import (
	"log/slog"
	"sync"
	"sync/atomic"
)

// State is a store's snapshot: field name to value. A State handed out by a
// Store is never modified again; every transition builds a new map.
type State map[string]any

// Updater computes the next (partial) state from the previous one. It must
// not mutate prev.
type Updater func(prev State) State

// Listener observes accepted transitions.
type Listener func(next, prev State)

// Partial lifts a literal partial state into an Updater.
func Partial(p State) Updater {
	return func(State) State { return p }
}

// Get returns s[key] as a T. ok is false when the key is missing or holds a
// different type.
func Get[T any](s State, key string) (T, bool) {
	v, ok := s[key].(T)
	return v, ok
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report listener failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithName labels the store in log output.
func WithName(name string) Option {
	return func(s *Store) { s.name = name }
}

// Store holds a single state value and notifies subscribers when it is
// replaced. The zero value is an empty, ready to use store.
type Store struct {
	mu        sync.RWMutex
	state     State
	listeners []*subscription
	destroyed bool

	name   string
	logger *slog.Logger
}

type subscription struct {
	fn     Listener
	active atomic.Bool
}

// New builds a Store seeded with initial.
func New(initial State, opts ...Option) *Store {
	s := &Store{state: initial}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetState returns the current snapshot. Callers must treat it as read-only.
func (s *Store) GetState() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// SetState applies update to the current state. A result identical to the
// previous state, or nil, is ignored. Otherwise the result is shallow-merged
// onto a copy of the previous state, or substitutes it when replace is set,
// and every listener is called in subscription order before SetState returns.
func (s *Store) SetState(update Updater, replace bool) {
	if update == nil {
		return
	}

	var next, prev State
	var subs []*subscription
	for {
		prev = s.GetState()
		partial := update(prev)
		if partial == nil || identical(partial, prev) {
			return
		}
		if replace {
			next = partial
		} else {
			next = merge(prev, partial)
		}

		s.mu.Lock()
		if !identical(s.state, prev) {
			// Lost a race with another writer; recompute from the new state.
			s.mu.Unlock()
			continue
		}
		s.state = next
		subs = append(subs, s.listeners...)
		s.mu.Unlock()
		break
	}

	s.notify(subs, next, prev)
}

// Set shallow-merges p onto the current state.
func (s *Store) Set(p State) {
	s.SetState(Partial(p), false)
}

// Replace substitutes the whole state with next.
func (s *Store) Replace(next State) {
	s.SetState(Partial(next), true)
}

// Update shallow-merges the result of fn onto the current state.
func (s *Store) Update(fn Updater) {
	s.SetState(fn, false)
}

// Subscribe registers l for every accepted transition. The returned function
// removes it and may be called any number of times.
func (s *Store) Subscribe(l Listener) (unsubscribe func()) {
	if l == nil {
		return func() {}
	}
	sub := &subscription{fn: l}
	sub.active.Store(true)

	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return func() {}
	}
	s.listeners = append(s.listeners, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(sub) })
	}
}

// Listeners reports how many listeners are registered.
func (s *Store) Listeners() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.listeners)
}

// Destroy drops every listener. The state can still be replaced afterwards
// but nobody is told about it, and new subscriptions are refused.
func (s *Store) Destroy() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sub := range s.listeners {
		sub.active.Store(false)
	}
	s.listeners = nil
	s.destroyed = true
}

func (s *Store) remove(target *subscription) {
	target.active.Store(false)

	s.mu.Lock()
	defer s.mu.Unlock()
	kept := make([]*subscription, 0, len(s.listeners))
	for _, sub := range s.listeners {
		if sub != target {
			kept = append(kept, sub)
		}
	}
	s.listeners = kept
}

func (s *Store) notify(subs []*subscription, next, prev State) {
	for _, sub := range subs {
		// Skip listeners removed earlier in this round.
		if !sub.active.Load() {
			continue
		}
		s.call(sub.fn, next, prev)
	}
}

func (s *Store) call(fn Listener, next, prev State) {
	defer func() {
		if r := recover(); r != nil {
			s.log().Error("store listener panicked", "store", s.name, "panic", r)
		}
	}()
	fn(next, prev)
}

func (s *Store) log() *slog.Logger {
	if s.logger != nil {
		return s.logger
	}
	return slog.Default()
}

func merge(prev, partial State) State {
	next := make(State, len(prev)+len(partial))
	for k, v := range prev {
		next[k] = v
	}
	for k, v := range partial {
		next[k] = v
	}
	return next
}
