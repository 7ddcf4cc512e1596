package ui

import (
	"slices"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/storekit/internal/state"
)

// changedMsg tells the model that a watched store slice changed.
type changedMsg struct {
	source string
}

// bridge forwards selector bindings into the Bubble Tea program. Changes are
// coalesced per source: a source is pending at most once, however many times
// its binding fires before the program drains it. waitForChange hands out
// pending sources in the order they first fired.
type bridge struct {
	mu      sync.Mutex
	pending []string
	signal  chan struct{}

	lifecycle state.Lifecycle
}

func newBridge() *bridge {
	return &bridge{signal: make(chan struct{}, 1)}
}

// push marks source pending and never blocks.
func (b *bridge) push(source string) {
	b.mu.Lock()
	if !slices.Contains(b.pending, source) {
		b.pending = append(b.pending, source)
	}
	b.mu.Unlock()
	b.notify()
}

func (b *bridge) notify() {
	select {
	case b.signal <- struct{}{}:
	default:
	}
}

// pop removes the oldest pending source.
func (b *bridge) pop() (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.pending) == 0 {
		return "", false
	}
	source := b.pending[0]
	b.pending = b.pending[1:]
	if len(b.pending) > 0 {
		b.notify()
	}
	return source, true
}

// watch binds selector over store for the bridge's lifetime and pushes
// source whenever the selected value changes.
func watch[T any](b *bridge, source string, store *state.Store, selector func(state.State) T) {
	if store == nil {
		return
	}
	b.lifecycle.Mount(func() func() {
		binding := state.Bind(store, selector, func(T) { b.push(source) })
		return binding.Close
	})
}

// waitForChange blocks until a source is pending.
func (b *bridge) waitForChange() tea.Cmd {
	return func() tea.Msg {
		for {
			<-b.signal
			if source, ok := b.pop(); ok {
				return changedMsg{source: source}
			}
		}
	}
}

// close unmounts every binding. A pending waitForChange is left blocked
// rather than woken with a zero message.
func (b *bridge) close() {
	b.lifecycle.Unmount()
}
