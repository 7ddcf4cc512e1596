// Package state provides the observable store shared by every storekit demo.
//
// # Overview
//
// A Store holds one State value (a map of field name to value) and tells its
// subscribers whenever that value is replaced. Views never read the store on
// a timer; they bind to the slice of state they render and are told when
// that slice changes.
//
//	UI action ──→ store.Set(...) ──→ listeners ──→ Binding re-selects ──→ tea.Msg
//
// # Core Types
//
// Store:
//   - GetState / SetState / Subscribe / Destroy
//   - Zero value is ready to use
//   - Guarded by sync.RWMutex; the lock is never held while listeners run
//
// Binding:
//   - Created by Bind (selector) or BindState (whole state)
//   - Subscribes on creation ("mount"), unsubscribes on Close ("unmount")
//   - Calls onChange only when the selected value changes
//
// Lifecycle:
//   - Collects cleanups of effects started on mount, runs them on unmount
//
// # Update Semantics
//
// States are immutable by replacement. SetState never edits the current map:
//
//	store.Set(State{"count": 2})
//	→ next = copy(prev) + {"count": 2}
//	→ listeners(next, prev)
//
//	store.Replace(State{"count": 0})
//	→ next = {"count": 0}   (other fields dropped)
//
//	store.Update(func(prev State) State { return prev })
//	→ identical to prev, nothing happens
//
// Because every accepted transition yields a new map, identity is enough to
// detect change for the whole state. A setter returning the current state (or
// nil) is a no-op and notifies nobody.
//
// # Notification Order
//
// Listeners run synchronously, in subscription order, on the goroutine that
// called SetState, and all of them have run when SetState returns. A listener
// may call SetState itself; the nested round completes before the outer one
// continues. A listener removed during a round is not called later in that
// round.
//
// # Listener Failures
//
// A panicking listener is recovered and logged; the remaining listeners still
// run and SetState returns normally. One broken view cannot stop the others
// from updating.
//
// # Equality
//
// Bind compares selector outputs with Shallow:
//
//   - comparable values (ints, strings, plain structs) compare with ==
//   - maps, slices, pointers, channels and funcs compare by identity
//   - two State or map[string]any values are equal when their keys match and
//     each value is identical
//
// Given {a:1, b:1} and a selector on a, a transition to {a:1, b:2} does not
// fire the binding while {a:2, b:2} does. WithEqual swaps the comparison.
//
// # Persistence
//
// Persist mirrors selected fields into a key/value Storage as a JSON object,
// hydrating them on start:
//
//	stop, err := state.Persist(settings, storage, "settings", "theme", "locale")
//	defer stop()
//
// # Testing Considerations
//
//	store := &state.Store{}  // ready to use
//	store.Subscribe(func(next, prev state.State) { ... })
//
// Listeners run synchronously, so tests can assert right after SetState
// without waiting.
package state
