package server

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast/internal/chat"
)

func nopLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

func TestSessionDeliverQueuesInOrder(t *testing.T) {
	sess := NewSession(chat.Identity{Nick: "alice"}, nopLogger())
	defer sess.Close()

	for i, text := range []string{"one", "two", "three"} {
		ev := chat.Event{Kind: chat.EventMessage, Room: "default", Text: text}
		if err := sess.Deliver(ev); err != nil {
			t.Fatalf("deliver %d: %v", i, err)
		}
	}

	for _, want := range []string{"one", "two", "three"} {
		got := <-sess.Events()
		if got.Text != want {
			t.Fatalf("drained %q, want %q", got.Text, want)
		}
	}
}

func TestSessionDeliverAfterClose(t *testing.T) {
	sess := NewSession(chat.Identity{Nick: "alice"}, nopLogger())
	sess.Close()
	sess.Close() // idempotent

	err := sess.Deliver(chat.Event{Kind: chat.EventMessage, Room: "default", Text: "late"})
	if !errors.Is(err, chat.ErrSessionClosed) {
		t.Fatalf("deliver after close: %v, want ErrSessionClosed", err)
	}

	select {
	case <-sess.Done():
	default:
		t.Fatal("done channel not closed")
	}
}

func TestSessionDeliverUnblocksOnClose(t *testing.T) {
	sess := NewSession(chat.Identity{Nick: "alice"}, nopLogger())

	for i := 0; i < outboundBuffer; i++ {
		if err := sess.Deliver(chat.Event{Kind: chat.EventMessage, Text: "fill"}); err != nil {
			t.Fatalf("fill %d: %v", i, err)
		}
	}

	blocked := make(chan error, 1)
	go func() {
		blocked <- sess.Deliver(chat.Event{Kind: chat.EventMessage, Text: "overflow"})
	}()

	sess.Close()
	if err := <-blocked; !errors.Is(err, chat.ErrSessionClosed) {
		t.Fatalf("blocked deliver: %v, want ErrSessionClosed", err)
	}
}
