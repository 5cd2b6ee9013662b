package chat

import (
	"errors"
	"fmt"
	"testing"
)

func TestAddMemberNotifiesExistingMembersOnly(t *testing.T) {
	room := NewRoom("general", testLogger())

	alice := newFakeSubscriber("alice")
	bob := newFakeSubscriber("bob")
	carol := newFakeSubscriber("carol")

	room.AddMember(alice)
	room.AddMember(bob)
	room.AddMember(carol)

	if got := alice.ofKind(EventJoined); len(got) != 2 {
		t.Fatalf("alice expected 2 join events, got %d", len(got))
	} else if got[0].User.Nick != "bob" || got[1].User.Nick != "carol" {
		t.Fatalf("alice saw joins in wrong order: %+v", got)
	}

	if got := bob.ofKind(EventJoined); len(got) != 1 || got[0].User.Nick != "carol" {
		t.Fatalf("bob expected only carol's join, got %+v", got)
	}

	// The joining member must never observe its own join.
	if got := carol.ofKind(EventJoined); len(got) != 0 {
		t.Fatalf("carol observed join events for herself: %+v", got)
	}
}

func TestRemoveMemberBroadcastsToRemaining(t *testing.T) {
	room := NewRoom("general", testLogger())

	alice := newFakeSubscriber("alice")
	bob := newFakeSubscriber("bob")
	carol := newFakeSubscriber("carol")
	room.AddMember(alice)
	room.AddMember(bob)
	room.AddMember(carol)

	if err := room.RemoveMember("bob"); err != nil {
		t.Fatalf("remove bob: %v", err)
	}

	for _, s := range []*fakeSubscriber{alice, carol} {
		left := s.ofKind(EventLeft)
		if len(left) != 1 || left[0].User.Nick != "bob" {
			t.Fatalf("%s expected one left event for bob, got %+v", s.identity.Nick, left)
		}
	}
	// Removal commits before the broadcast, so the departed member gets
	// no notice of its own departure.
	if got := bob.ofKind(EventLeft); len(got) != 0 {
		t.Fatalf("bob observed his own departure: %+v", got)
	}
	if room.HasMember("bob") {
		t.Fatal("bob still a member after removal")
	}
}

func TestRemoveMemberNotFound(t *testing.T) {
	room := NewRoom("general", testLogger())
	if err := room.RemoveMember("ghost"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}

func TestBroadcastSkipsFailedMember(t *testing.T) {
	room := NewRoom("general", testLogger())

	alice := newFakeSubscriber("alice")
	broken := newFakeSubscriber("broken")
	broken.failing = true
	carol := newFakeSubscriber("carol")
	room.AddMember(alice)
	room.AddMember(broken)
	room.AddMember(carol)

	room.Broadcast(Event{Kind: EventMessage, Room: "general", User: Identity{Nick: "alice"}, Text: "hi"})

	// The failed delivery in the middle must not stop fan-out.
	if got := carol.ofKind(EventMessage); len(got) != 1 || got[0].Text != "hi" {
		t.Fatalf("carol expected the message despite broken member, got %+v", got)
	}
	if got := alice.ofKind(EventMessage); len(got) != 1 {
		t.Fatalf("alice expected the message, got %+v", got)
	}
	if got := broken.ofKind(EventMessage); len(got) != 0 {
		t.Fatalf("broken member recorded a delivery: %+v", got)
	}
}

func TestBroadcastFanoutOrder(t *testing.T) {
	room := NewRoom("general", testLogger())
	members := []*fakeSubscriber{
		newFakeSubscriber("a"),
		newFakeSubscriber("b"),
		newFakeSubscriber("c"),
	}
	for _, m := range members {
		room.AddMember(m)
	}

	const k = 5
	for i := 0; i < k; i++ {
		room.Broadcast(Event{Kind: EventMessage, Room: "general", Text: fmt.Sprintf("msg-%d", i)})
	}

	for _, m := range members {
		msgs := m.ofKind(EventMessage)
		if len(msgs) != k {
			t.Fatalf("%s expected %d messages, got %d", m.identity.Nick, k, len(msgs))
		}
		for i, ev := range msgs {
			if want := fmt.Sprintf("msg-%d", i); ev.Text != want {
				t.Fatalf("%s message %d out of order: got %q want %q", m.identity.Nick, i, ev.Text, want)
			}
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	room := NewRoom("general", testLogger())
	room.AddMember(newFakeSubscriber("alice"))

	snap := room.Snapshot()
	room.AddMember(newFakeSubscriber("bob"))

	if len(snap.Members) != 1 || snap.Members[0].Nick != "alice" {
		t.Fatalf("snapshot changed after later mutation: %+v", snap.Members)
	}
	if snap.Name != "general" || snap.Default {
		t.Fatalf("unexpected snapshot header: %+v", snap)
	}
}

func TestMemberByName(t *testing.T) {
	room := NewRoom("general", testLogger())
	alice := newFakeSubscriber("alice")
	room.AddMember(alice)

	got, err := room.MemberByName("alice")
	if err != nil {
		t.Fatalf("member by name: %v", err)
	}
	if got.Identity().Nick != "alice" {
		t.Fatalf("wrong member returned: %v", got.Identity())
	}

	if _, err := room.MemberByName("ghost"); !errors.Is(err, ErrMemberNotFound) {
		t.Fatalf("expected ErrMemberNotFound, got %v", err)
	}
}
