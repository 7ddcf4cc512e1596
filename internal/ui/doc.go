// Package ui is storekit's Bubble Tea front end: six tabs, each a small
// demonstration of the state package driving a view.
//
// # Architecture Overview
//
// The UI never owns application state. Every tab reads from a state.Store
// passed in through Options, and every user action writes back to a store
// (or to the chat session, which writes to its store). Rendering happens in
// View from whatever the stores hold at that moment.
//
// Stores change outside the Bubble Tea event loop: chat deliveries arrive on
// timer goroutines and user fetches complete in commands. To get those
// changes on screen the model mounts one selector binding per store when it
// is created. A binding fires only when its selected slice changes and then
// pushes a changedMsg onto a buffered channel. Init and every handled
// changedMsg return a command that blocks on that channel, so the program
// always has exactly one reader waiting:
//
//	store.SetState -> Binding onChange -> bridge.push -> changedMsg -> Update -> View
//
// Close unmounts every binding through a state.Lifecycle.
//
// # Tabs
//
//   - Counter: + and - update a count; the listener total shows how many
//     bindings the store has.
//   - Settings: theme and language live in the settings store, which the
//     app persists to storage, so both survive restarts.
//   - Chat: a session over the mock transport. c connects, enter sends,
//     ctrl+x disconnects. Sending while disconnected surfaces the transport
//     error inline.
//   - Signup: a three-step form validated one step at a time.
//   - Users: fetched over HTTP on first visit; r reloads.
//   - Logs: the tail of the log file, formatted for the terminal.
//
// # Keyboard
//
// Global keys (q, ?, T, 1-6) are ignored while a text input has focus so
// that they can be typed. tab, shift+tab and ctrl+c always work.
//
// # Theming
//
// Themes are palettes (Dracula, Slate, Nord) turned into lipgloss styles by
// Theme.Styles. Text comes from an i18n.Translator rebuilt whenever the
// settings store's locale changes.
package ui
