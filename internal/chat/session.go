// Package chat connects a realtime transport to a store. Transport events
// are reduced into store fields so that any selector binding over the store
// sees connection status and the message log change.
package chat

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/five82/storekit/internal/auth"
	"github.com/five82/storekit/internal/state"
	"github.com/five82/storekit/internal/transport"
)

// Store keys written by a Session.
const (
	KeyStatus    = "status"
	KeyMessages  = "messages"
	KeyUser      = "user"
	KeyToken     = "token"
	KeyLastError = "lastError"
)

// ErrNoUser is returned by Connect when no username is given.
var ErrNoUser = errors.New("chat: username is required")

// Transport is the realtime connection a Session drives. *transport.Mock
// implements it.
type Transport interface {
	Connect() error
	Send(env transport.Envelope) error
	Close(code int, reason string)
	OnEvent(h transport.Handler) (unsubscribe func())
	State() transport.ConnState
}

// Verifier checks login tokens. *auth.Issuer implements it.
type Verifier interface {
	Verify(token string) (auth.Claims, error)
}

var (
	_ Transport = (*transport.Mock)(nil)
	_ Verifier  = (*auth.Issuer)(nil)
)

// Options configures a Session.
type Options struct {
	Verifier Verifier // optional
	Logger   *slog.Logger
}

// Session owns one chat conversation.
type Session struct {
	transport Transport
	store     *state.Store
	verifier  Verifier
	logger    *slog.Logger

	mu          sync.Mutex
	user        string
	unsubscribe func()
}

// NewSession subscribes to t and seeds the status field of store.
func NewSession(t Transport, store *state.Store, opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Session{
		transport: t,
		store:     store,
		verifier:  opts.Verifier,
		logger:    logger.With("component", "chat"),
	}
	store.Set(state.State{KeyStatus: t.State().String()})
	s.unsubscribe = t.OnEvent(s.handle)
	return s
}

// Connect opens the transport as user. Login happens once the connection
// is open.
func (s *Session) Connect(user string) error {
	user = strings.TrimSpace(user)
	if user == "" {
		return ErrNoUser
	}
	s.mu.Lock()
	s.user = user
	s.mu.Unlock()

	s.store.Set(state.State{KeyUser: user, KeyToken: "", KeyLastError: ""})
	if err := s.transport.Connect(); err != nil {
		s.fail(err)
		return fmt.Errorf("connect: %w", err)
	}
	s.store.Set(state.State{KeyStatus: s.transport.State().String()})
	return nil
}

// Send posts body to the room. Sending while not connected returns an
// error matching transport.ErrInvalidState.
func (s *Session) Send(body string) error {
	env := transport.Envelope{Kind: transport.EnvelopeChat, Author: s.currentUser(), Body: body}
	if err := s.transport.Send(env); err != nil {
		s.fail(err)
		return err
	}
	return nil
}

// Disconnect closes the transport normally.
func (s *Session) Disconnect() {
	s.transport.Close(websocket.CloseNormalClosure, "user disconnected")
}

// Close disconnects and stops listening to the transport.
func (s *Session) Close() {
	s.Disconnect()
	s.mu.Lock()
	unsubscribe := s.unsubscribe
	s.unsubscribe = nil
	s.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

func (s *Session) currentUser() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

func (s *Session) handle(ev transport.Event) {
	switch ev.Kind {
	case transport.EventOpen:
		s.store.Set(state.State{KeyStatus: transport.Connected.String()})
		user := s.currentUser()
		if err := s.transport.Send(transport.Envelope{Kind: transport.EnvelopeLogin, Author: user}); err != nil {
			s.fail(err)
		}
	case transport.EventMessage:
		s.receive(ev.Message)
	case transport.EventClose:
		next := state.State{KeyStatus: transport.Disconnected.String(), KeyToken: ""}
		if ev.Code != websocket.CloseNormalClosure {
			next[KeyLastError] = fmt.Sprintf("connection closed (%d): %s", ev.Code, ev.Reason)
		}
		s.store.Set(next)
		s.logger.Info("chat closed", "code", ev.Code, "reason", ev.Reason)
	case transport.EventError:
		s.fail(ev.Err)
	}
}

func (s *Session) receive(msg transport.Message) {
	s.store.Update(func(prev state.State) state.State {
		return state.State{KeyMessages: appendMessage(Messages(prev), msg)}
	})

	if msg.Kind != transport.KindLoginSuccess || msg.Token == "" {
		return
	}
	if s.verifier == nil {
		s.store.Set(state.State{KeyToken: msg.Token})
		return
	}
	claims, err := s.verifier.Verify(msg.Token)
	if err != nil {
		s.fail(fmt.Errorf("login token rejected: %w", err))
		return
	}
	s.store.Set(state.State{KeyToken: msg.Token, KeyUser: claims.User})
	s.logger.Info("logged in", "user", claims.User, "token_id", claims.ID)
}

func (s *Session) fail(err error) {
	if err == nil {
		return
	}
	s.logger.Warn("chat error", "error", err)
	s.store.Set(state.State{KeyLastError: err.Error()})
}

// appendMessage returns a new slice so the previous log stays untouched.
func appendMessage(prev []transport.Message, msg transport.Message) []transport.Message {
	next := make([]transport.Message, len(prev), len(prev)+1)
	copy(next, prev)
	return append(next, msg)
}

// Messages selects the message log.
func Messages(s state.State) []transport.Message {
	msgs, _ := state.Get[[]transport.Message](s, KeyMessages)
	return msgs
}

// Status selects the connection status.
func Status(s state.State) string {
	status, _ := state.Get[string](s, KeyStatus)
	return status
}

// LastError selects the most recent error text.
func LastError(s state.State) string {
	msg, _ := state.Get[string](s, KeyLastError)
	return msg
}
