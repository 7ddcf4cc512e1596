package transport

import (
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/five82/storekit/internal/clock"
)

// ConnState is the connection state of a Mock.
type ConnState int

const (
	Disconnected ConnState = iota
	Connecting
	Connected
)

func (s ConnState) String() string {
	switch s {
	case Disconnected:
		return "disconnected"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// TokenIssuer signs session tokens for login_success messages.
type TokenIssuer interface {
	Issue(user string) (string, error)
}

// Options configure a Mock.
type Options struct {
	Clock      clock.Clock
	Latency    time.Duration // base delay of every simulated delivery
	Jitter     time.Duration // extra random delay in [0, Jitter)
	PeerChance float64       // probability a chat send also triggers peer traffic
	Seed       int64
	Peers      []string
	Issuer     TokenIssuer // optional; login_success carries a token when set
	Logger     *slog.Logger
}

const (
	defaultLatency = 150 * time.Millisecond
	defaultJitter  = 250 * time.Millisecond
)

var (
	defaultPeers = []string{"grace", "linus", "margaret"}
	peerLines    = []string{
		"anyone else seeing the build go green?",
		"brb, coffee",
		"nice one",
		"has anybody tried the new selector API?",
		"lol",
		"pushing a fix now",
	}
)

// Mock is a simulated realtime connection. Deliveries are scheduled on the
// configured Clock with random jitter, so their order is not guaranteed to
// match send order.
type Mock struct {
	mu       sync.Mutex
	clock    clock.Clock
	opts     Options
	rng      *rand.Rand
	logger   *slog.Logger
	state    ConnState
	epoch    uint64 // bumped on every connect and close; stale deliveries are dropped
	timers   map[clock.Timer]struct{}
	handlers []*handlerEntry
}

type handlerEntry struct {
	fn Handler
}

// NewMock builds a disconnected Mock.
func NewMock(opts Options) *Mock {
	if opts.Clock == nil {
		opts.Clock = clock.Real()
	}
	if opts.Latency <= 0 {
		opts.Latency = defaultLatency
	}
	if opts.Jitter < 0 {
		opts.Jitter = 0
	}
	if len(opts.Peers) == 0 {
		opts.Peers = defaultPeers
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Mock{
		clock:  opts.Clock,
		opts:   opts,
		rng:    rand.New(rand.NewSource(opts.Seed)),
		logger: logger.With("component", "mock_transport"),
		timers: make(map[clock.Timer]struct{}),
	}
}

// State returns the current connection state.
func (m *Mock) State() ConnState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// OnEvent registers h for every event. The returned function removes it and
// is safe to call more than once.
func (m *Mock) OnEvent(h Handler) (unsubscribe func()) {
	entry := &handlerEntry{fn: h}
	m.mu.Lock()
	m.handlers = append(m.handlers, entry)
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			for i, e := range m.handlers {
				if e == entry {
					m.handlers = append(m.handlers[:i:i], m.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Connect starts connecting. After the configured latency the state becomes
// Connected and an open event fires. Connect fails with an
// InvalidStateError unless the transport is disconnected.
func (m *Mock) Connect() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Disconnected {
		return &InvalidStateError{Op: "connect", State: m.state}
	}
	m.state = Connecting
	m.epoch++
	epoch := m.epoch
	m.logger.Debug("connecting", "epoch", epoch)
	m.schedule(epoch, m.opts.Latency, func() { m.open(epoch) })
	return nil
}

// Send hands env to the simulated server. It fails with an
// InvalidStateError unless the transport is connected, and then schedules
// nothing. A malformed envelope is not an error here: it is reported later
// through an error event, as a real server would.
func (m *Mock) Send(env Envelope) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != Connected {
		return &InvalidStateError{Op: "send", State: m.state}
	}
	epoch := m.epoch

	if err := env.Validate(); err != nil {
		m.schedule(epoch, m.opts.Latency, func() {
			m.emit(Event{Kind: EventError, Err: err})
		})
		return nil
	}

	switch env.Kind {
	case EnvelopeChat:
		author, body := strings.TrimSpace(env.Author), strings.TrimSpace(env.Body)
		m.schedule(epoch, m.delay(), func() { m.deliver(KindChat, author, body, "") })
		if m.opts.PeerChance > 0 && m.rng.Float64() < m.opts.PeerChance {
			peer := m.opts.Peers[m.rng.Intn(len(m.opts.Peers))]
			line := peerLines[m.rng.Intn(len(peerLines))]
			m.schedule(epoch, m.delay(), func() { m.deliver(KindChat, peer, line, "") })
		}
	case EnvelopeLogin:
		user := strings.TrimSpace(env.Author)
		token := ""
		if m.opts.Issuer != nil {
			signed, err := m.opts.Issuer.Issue(user)
			if err != nil {
				m.schedule(epoch, m.opts.Latency, func() {
					m.emit(Event{Kind: EventError, Err: fmt.Errorf("login %s: %w", user, err)})
				})
				return nil
			}
			token = signed
		}
		m.schedule(epoch, m.opts.Latency, func() {
			m.deliver(KindLoginSuccess, user, "logged in as "+user, token)
		})
	}
	return nil
}

// Close disconnects synchronously and fires a close event with code and
// reason. A zero code means websocket.CloseNormalClosure. Pending deliveries
// are dropped. Closing a disconnected transport does nothing.
func (m *Mock) Close(code int, reason string) {
	if code == 0 {
		code = websocket.CloseNormalClosure
	}
	m.mu.Lock()
	if m.state == Disconnected {
		m.mu.Unlock()
		return
	}
	m.state = Disconnected
	m.epoch++
	for t := range m.timers {
		t.Stop()
	}
	m.timers = make(map[clock.Timer]struct{})
	m.mu.Unlock()

	m.logger.Debug("closed", "code", code, "reason", reason)
	m.emit(Event{Kind: EventClose, Code: code, Reason: reason})
}

// Fail injects a connection error: an error event followed by an abnormal
// close. It does nothing while disconnected.
func (m *Mock) Fail(err error) {
	if m.State() == Disconnected {
		return
	}
	m.logger.Warn("injected failure", "error", err)
	m.emit(Event{Kind: EventError, Err: err})
	m.Close(websocket.CloseAbnormalClosure, err.Error())
}

func (m *Mock) open(epoch uint64) {
	m.mu.Lock()
	if m.epoch != epoch || m.state != Connecting {
		m.mu.Unlock()
		return
	}
	m.state = Connected
	m.mu.Unlock()

	m.emit(Event{Kind: EventOpen})
	m.deliver(KindSystem, "", "connected to #general", "")
}

func (m *Mock) deliver(kind Kind, author, body, token string) {
	if m.State() != Connected {
		return
	}
	m.emit(Event{Kind: EventMessage, Message: Message{
		ID:     uuid.New(),
		Kind:   kind,
		Author: author,
		Body:   body,
		SentAt: m.clock.Now(),
		Token:  token,
	}})
}

func (m *Mock) emit(ev Event) {
	m.mu.Lock()
	handlers := make([]*handlerEntry, len(m.handlers))
	copy(handlers, m.handlers)
	m.mu.Unlock()

	for _, h := range handlers {
		h.fn(ev)
	}
}

// delay returns the latency plus jitter for one delivery. Callers hold m.mu.
func (m *Mock) delay() time.Duration {
	d := m.opts.Latency
	if m.opts.Jitter > 0 {
		d += time.Duration(m.rng.Int63n(int64(m.opts.Jitter)))
	}
	return d
}

// schedule runs fn after d unless the connection epoch has moved on by then.
// Callers hold m.mu.
func (m *Mock) schedule(epoch uint64, d time.Duration, fn func()) {
	var timer clock.Timer
	timer = m.clock.AfterFunc(d, func() {
		m.mu.Lock()
		delete(m.timers, timer)
		live := m.epoch == epoch
		m.mu.Unlock()
		if live {
			fn()
		}
	})
	m.timers[timer] = struct{}{}
}
