package server

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast/internal/chat"
)

// outboundBuffer is the number of events a session can queue before
// broadcasters to its rooms start blocking on it.
const outboundBuffer = 32

// Session is the server-side handle for one connected participant: its
// identity plus the outbound event channel its write loop drains. It
// implements chat.Subscriber, which is how rooms reach it.
type Session struct {
	id       string
	identity chat.Identity
	log      zerolog.Logger

	out       chan chat.Event
	done      chan struct{}
	closeOnce sync.Once
}

// NewSession constructs a session for an already-resolved identity.
func NewSession(identity chat.Identity, logger *zerolog.Logger) *Session {
	id := uuid.NewString()
	return &Session{
		id:       id,
		identity: identity,
		log:      logger.With().Str("session_id", id).Str("nick", identity.Nick).Logger(),
		out:      make(chan chat.Event, outboundBuffer),
		done:     make(chan struct{}),
	}
}

// Identity returns the session's resolved identity.
func (s *Session) Identity() chat.Identity {
	return s.identity
}

// Deliver queues an event for the session's write loop. A slow session
// makes Deliver block once its buffer fills; a closed session makes it
// fail immediately, so broadcasts skip it and move on.
func (s *Session) Deliver(ev chat.Event) error {
	select {
	case <-s.done:
		return chat.ErrSessionClosed
	default:
	}
	select {
	case s.out <- ev:
		return nil
	case <-s.done:
		return chat.ErrSessionClosed
	}
}

// Events exposes the queued outbound events to the write loop.
func (s *Session) Events() <-chan chat.Event {
	return s.out
}

// Close marks the session dead. Safe to call more than once; pending and
// future Deliver calls fail from here on.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		close(s.done)
	})
}

// Done is closed once the session has been closed.
func (s *Session) Done() <-chan struct{} {
	return s.done
}
