// Package transport simulates a realtime chat connection.
//
// Mock stands in for a WebSocket: it has a connection state machine and
// delivers events to registered handlers after simulated network delays. No
// bytes leave the process.
//
// # States
//
//	Disconnected ──Connect()──→ Connecting ──(latency)──→ Connected
//	     ↑                           │                        │
//	     └──────── Close() / Fail() ─┴────────────────────────┘
//
// # Events
//
//   - open: the connection reached Connected (followed by a system message)
//   - message: a simulated delivery (echo, peer chatter, login_success)
//   - close: Close or Fail was called; carries a close code and reason
//   - error: a malformed envelope or an injected failure
//
// # Errors
//
// Misuse fails fast: Connect on a non-disconnected transport and Send on a
// non-connected one return an *InvalidStateError (errors.Is ErrInvalidState)
// and schedule nothing. Malformed envelopes are an asynchronous concern and
// arrive as error events wrapping ErrMalformed.
//
// # Determinism
//
// Latency, jitter and peer traffic come from Options. Give the Mock a seeded
// source and a clock.Manual and every run produces the same deliveries:
//
//	clk := clock.NewManual(time.Unix(0, 0))
//	m := transport.NewMock(transport.Options{Clock: clk, Seed: 7, PeerChance: 0.5})
//	m.OnEvent(func(ev transport.Event) { ... })
//	_ = m.Connect()
//	clk.Advance(time.Second)
//
// Independently scheduled deliveries carry no ordering guarantee relative to
// each other.
package transport
