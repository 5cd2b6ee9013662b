package chat

import (
	"sync"

	"github.com/rs/zerolog"
)

func testLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

// fakeSubscriber records delivered events synchronously so tests can
// assert on broadcast contents and order.
type fakeSubscriber struct {
	identity Identity

	mu      sync.Mutex
	events  []Event
	failing bool
}

func newFakeSubscriber(nick string) *fakeSubscriber {
	return &fakeSubscriber{identity: Identity{Nick: nick}}
}

func (f *fakeSubscriber) Identity() Identity {
	return f.identity
}

func (f *fakeSubscriber) Deliver(ev Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.failing {
		return ErrSessionClosed
	}
	f.events = append(f.events, ev)
	return nil
}

func (f *fakeSubscriber) all() []Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Event(nil), f.events...)
}

func (f *fakeSubscriber) ofKind(kind EventKind) []Event {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []Event
	for _, ev := range f.events {
		if ev.Kind == kind {
			out = append(out, ev)
		}
	}
	return out
}
