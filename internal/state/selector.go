package state

import "sync"

// BindOption configures a Binding.
type BindOption[T any] func(*Binding[T])

// WithEqual replaces the default Shallow comparison of selector outputs.
func WithEqual[T any](equal func(a, b T) bool) BindOption[T] {
	return func(b *Binding[T]) { b.equal = equal }
}

// Binding keeps a selected slice of a store's state and reports when it
// changes. It subscribes when created and unsubscribes on Close.
type Binding[T any] struct {
	mu       sync.Mutex
	store    *Store
	selector func(State) T
	equal    func(a, b T) bool
	onChange func(T)
	current  T
	closed   bool

	unsubscribe func()
	closeOnce   sync.Once
}

// Bind subscribes to store and calls onChange with the selector's output
// whenever it differs from the previous output. onChange may be nil when the
// caller only polls Value. A nil selector selects the whole state (T must be
// State) and compares by identity, so every accepted transition is a change.
func Bind[T any](store *Store, selector func(State) T, onChange func(T), opts ...BindOption[T]) *Binding[T] {
	b := &Binding[T]{
		store:    store,
		selector: selector,
		onChange: onChange,
		equal:    func(x, y T) bool { return Shallow(x, y) },
	}
	if selector == nil {
		b.selector = func(s State) T {
			v, _ := any(s).(T)
			return v
		}
		b.equal = func(x, y T) bool { return identical(x, y) }
	}
	for _, opt := range opts {
		opt(b)
	}

	b.mu.Lock()
	b.unsubscribe = store.Subscribe(b.handle)
	b.current = b.selector(store.GetState())
	b.mu.Unlock()
	return b
}

// BindState binds the whole state. Every accepted transition counts as a
// change because each one produces a new State.
func BindState(store *Store, onChange func(State)) *Binding[State] {
	return Bind[State](store, nil, onChange)
}

// Value returns the last selected value.
func (b *Binding[T]) Value() T {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Close unsubscribes from the store. It is safe to call more than once.
func (b *Binding[T]) Close() {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.closed = true
		unsubscribe := b.unsubscribe
		b.mu.Unlock()
		if unsubscribe != nil {
			unsubscribe()
		}
	})
}

// handle selects from the live state rather than the delivered one. A
// listener that sets state during a round makes the outer round's next stale
// by the time it reaches later listeners.
func (b *Binding[T]) handle(_, _ State) {
	selected := b.selector(b.store.GetState())

	b.mu.Lock()
	if b.closed || b.equal(b.current, selected) {
		b.mu.Unlock()
		return
	}
	b.current = selected
	onChange := b.onChange
	b.mu.Unlock()

	if onChange != nil {
		onChange(selected)
	}
}

// Lifecycle collects the cleanups of effects started when a view mounts and
// runs them when it unmounts.
type Lifecycle struct {
	mu        sync.Mutex
	cleanups  []func()
	unmounted bool
}

// Mount runs effect and keeps the cleanup it returns. If the lifecycle has
// already unmounted the cleanup runs immediately.
func (l *Lifecycle) Mount(effect func() (cleanup func())) {
	cleanup := effect()
	if cleanup == nil {
		return
	}
	l.mu.Lock()
	if l.unmounted {
		l.mu.Unlock()
		cleanup()
		return
	}
	l.cleanups = append(l.cleanups, cleanup)
	l.mu.Unlock()
}

// Unmount runs every cleanup in reverse mount order. Later calls do nothing.
func (l *Lifecycle) Unmount() {
	l.mu.Lock()
	if l.unmounted {
		l.mu.Unlock()
		return
	}
	l.unmounted = true
	cleanups := l.cleanups
	l.cleanups = nil
	l.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
}
