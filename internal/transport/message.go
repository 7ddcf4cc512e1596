package transport

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Kind classifies a delivered message.
type Kind string

const (
	KindChat         Kind = "chat"
	KindSystem       Kind = "system"
	KindLoginSuccess Kind = "login_success"
)

// Message is a simulated server delivery. Messages are never modified after
// creation.
type Message struct {
	ID     uuid.UUID `json:"id"`
	Kind   Kind      `json:"kind"`
	Author string    `json:"author,omitempty"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sentAt"`
	Token  string    `json:"token,omitempty"`
}

// EnvelopeKind selects what the simulated server does with an Envelope.
type EnvelopeKind string

const (
	EnvelopeChat  EnvelopeKind = "chat"
	EnvelopeLogin EnvelopeKind = "login"
)

const maxBodyRunes = 500

// Envelope is what callers hand to Send.
type Envelope struct {
	Kind   EnvelopeKind `json:"kind"`
	Author string       `json:"author,omitempty"`
	Body   string       `json:"body"`
}

// Validate reports why the simulated server would reject e.
func (e Envelope) Validate() error {
	switch e.Kind {
	case EnvelopeChat:
		body := strings.TrimSpace(e.Body)
		if body == "" {
			return fmt.Errorf("%w: chat body is empty", ErrMalformed)
		}
		if utf8.RuneCountInString(body) > maxBodyRunes {
			return fmt.Errorf("%w: chat body exceeds %d characters", ErrMalformed, maxBodyRunes)
		}
	case EnvelopeLogin:
		if strings.TrimSpace(e.Author) == "" {
			return fmt.Errorf("%w: login requires an author", ErrMalformed)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrMalformed, e.Kind)
	}
	return nil
}

// EventKind identifies a transport notification.
type EventKind int

const (
	EventOpen EventKind = iota
	EventMessage
	EventClose
	EventError
)

func (k EventKind) String() string {
	switch k {
	case EventOpen:
		return "open"
	case EventMessage:
		return "message"
	case EventClose:
		return "close"
	case EventError:
		return "error"
	default:
		return fmt.Sprintf("event(%d)", int(k))
	}
}

// Event is delivered to handlers registered with OnEvent. Message is set for
// EventMessage, Code and Reason for EventClose, Err for EventError.
type Event struct {
	Kind    EventKind
	Message Message
	Code    int
	Reason  string
	Err     error
}

// Handler receives transport events.
type Handler func(Event)
