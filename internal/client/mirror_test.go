package client

import (
	"encoding/json"
	"testing"

	"github.com/vovakirdan/roomcast/internal/proto"
)

func eventFrame(t *testing.T, name string, payload any) proto.OutboundFrame {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal %s payload: %v", name, err)
	}
	return proto.OutboundFrame{Type: proto.OutboundTypeEvent, Event: name, Data: data}
}

func newTestMirror() *Mirror {
	return NewMirror("alice", "default", []string{"alice"})
}

func TestAcceptedCreatesRoomAndActivates(t *testing.T) {
	m := newTestMirror()

	frame := eventFrame(t, proto.EventNameAccepted, proto.EventAccepted{
		Room: proto.RoomInfo{Name: "general", Members: []string{"bob", "alice"}},
	})
	if err := ApplyEvent(m, frame); err != nil {
		t.Fatalf("apply accepted: %v", err)
	}

	if m.ActiveRoom() != "general" {
		t.Fatalf("active room = %q, want general", m.ActiveRoom())
	}
	view, ok := m.View("general")
	if !ok {
		t.Fatal("general not mirrored")
	}
	if len(view.Members) != 2 || view.Members[0] != "bob" || view.Members[1] != "alice" {
		t.Fatalf("wrong member set: %v", view.Members)
	}
}

func TestJoinedAddsMemberAndSystemLine(t *testing.T) {
	m := newTestMirror()

	frame := eventFrame(t, proto.EventNameJoined, proto.EventJoined{Room: "default", Nick: "bob"})
	if err := ApplyEvent(m, frame); err != nil {
		t.Fatalf("apply joined: %v", err)
	}

	view, _ := m.View("default")
	if len(view.Members) != 2 || view.Members[1] != "bob" {
		t.Fatalf("bob not appended to members: %v", view.Members)
	}
	if len(view.Messages) != 1 || view.Messages[0] != "#SERVER: Client bob has joined" {
		t.Fatalf("missing join notice: %v", view.Messages)
	}
}

func TestLeftRemovesMemberAfterSystemLine(t *testing.T) {
	m := NewMirror("alice", "default", []string{"alice", "bob"})

	frame := eventFrame(t, proto.EventNameLeft, proto.EventLeft{Room: "default", Nick: "bob"})
	if err := ApplyEvent(m, frame); err != nil {
		t.Fatalf("apply left: %v", err)
	}

	view, _ := m.View("default")
	if len(view.Members) != 1 || view.Members[0] != "alice" {
		t.Fatalf("bob not removed: %v", view.Members)
	}
	if len(view.Messages) != 1 || view.Messages[0] != "#SERVER: Client bob has left" {
		t.Fatalf("missing leave notice: %v", view.Messages)
	}
}

func TestMessageFormatting(t *testing.T) {
	m := newTestMirror()

	frame := eventFrame(t, proto.EventNameMessage, proto.EventMessage{Room: "default", Nick: "bob", Text: "hi"})
	if err := ApplyEvent(m, frame); err != nil {
		t.Fatalf("apply message: %v", err)
	}

	view, _ := m.View("default")
	if len(view.Messages) != 1 || view.Messages[0] != "<bob> hi" {
		t.Fatalf("wrong chat line: %v", view.Messages)
	}
}

func TestRoomCreatedAndRoomListLandInDefaultRoom(t *testing.T) {
	m := newTestMirror()

	// Mirror another room and make it active; notices must still land
	// in the default room.
	if err := ApplyEvent(m, eventFrame(t, proto.EventNameAccepted, proto.EventAccepted{
		Room: proto.RoomInfo{Name: "general", Members: []string{"alice"}},
	})); err != nil {
		t.Fatalf("apply accepted: %v", err)
	}

	if err := ApplyEvent(m, eventFrame(t, proto.EventNameRoomCreated, proto.EventRoomCreated{Room: "lobby"})); err != nil {
		t.Fatalf("apply room_created: %v", err)
	}
	if err := ApplyEvent(m, eventFrame(t, proto.EventNameRoomList, proto.EventRoomList{
		Rooms: []proto.RoomInfo{
			{Name: "default", Default: true},
			{Name: "general"},
			{Name: "lobby"},
		},
	})); err != nil {
		t.Fatalf("apply room_list: %v", err)
	}

	def, _ := m.View("default")
	want := []string{
		"#SERVER: New Room Added - lobby",
		"#SERVER: Chat Room List:",
		"#SERVER: \tgeneral",
		"#SERVER: \tlobby",
	}
	if len(def.Messages) != len(want) {
		t.Fatalf("default room log %v, want %v", def.Messages, want)
	}
	for i := range want {
		if def.Messages[i] != want[i] {
			t.Fatalf("default room log %v, want %v", def.Messages, want)
		}
	}

	gen, _ := m.View("general")
	if len(gen.Messages) != 0 {
		t.Fatalf("notices leaked into the active room: %v", gen.Messages)
	}
}

func TestDropRoomFallsBackToDefault(t *testing.T) {
	m := newTestMirror()
	m.PutRoom("general", false, []string{"alice"})

	if m.ActiveRoom() != "general" {
		t.Fatalf("active room = %q after put", m.ActiveRoom())
	}
	m.DropRoom("general")
	if m.ActiveRoom() != "default" {
		t.Fatalf("active room = %q after drop, want default", m.ActiveRoom())
	}
	if _, ok := m.View("general"); ok {
		t.Fatal("dropped room still mirrored")
	}

	// The default room itself can never be dropped.
	m.DropRoom("default")
	if _, ok := m.View("default"); !ok {
		t.Fatal("default room dropped")
	}
}

func TestRoomSwitchKeepsHistory(t *testing.T) {
	m := newTestMirror()
	m.PutRoom("general", false, nil)
	m.AddChatMessage("general", "bob", "one")
	m.AddChatMessage("default", "carol", "two")

	if !m.SetActive("default") {
		t.Fatal("switch to default failed")
	}
	if m.SetActive("ghost") {
		t.Fatal("switch to unknown room succeeded")
	}

	gen, _ := m.View("general")
	if len(gen.Messages) != 1 || gen.Messages[0] != "<bob> one" {
		t.Fatalf("history lost on switch: %v", gen.Messages)
	}
}

// Two mirrors fed the same broadcast both append the same line, and an
// uninvolved room stays untouched.
func TestScenarioTwoClientsOneRoom(t *testing.T) {
	a := NewMirror("A", "default", []string{"A", "B"})
	b := NewMirror("B", "default", []string{"A", "B"})

	for _, m := range []*Mirror{a, b} {
		if err := ApplyEvent(m, eventFrame(t, proto.EventNameAccepted, proto.EventAccepted{
			Room: proto.RoomInfo{Name: "general", Members: []string{"A", "B"}},
		})); err != nil {
			t.Fatalf("apply accepted: %v", err)
		}
		if err := ApplyEvent(m, eventFrame(t, proto.EventNameMessage, proto.EventMessage{
			Room: "general", Nick: "A", Text: "hi",
		})); err != nil {
			t.Fatalf("apply message: %v", err)
		}
	}

	for name, m := range map[string]*Mirror{"A": a, "B": b} {
		view, _ := m.View("general")
		if len(view.Messages) != 1 || view.Messages[0] != "<A> hi" {
			t.Fatalf("%s's general log = %v", name, view.Messages)
		}
		def, _ := m.View("default")
		if len(def.Messages) != 0 {
			t.Fatalf("%s's default room was touched: %v", name, def.Messages)
		}
	}
}
