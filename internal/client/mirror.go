// Package client holds the client side of the chat protocol: the
// connection that speaks to a server and the mirror, a local copy of
// room state rebuilt purely from received events.
package client

import (
	"fmt"
	"sync"
)

// RoomView is the client's local picture of one room: an append-only
// message log plus the current member set, in join order.
type RoomView struct {
	Name     string
	Default  bool
	Members  []string
	Messages []string
}

// Mirror holds exactly the state a UI needs. It is mutated only by
// applying received events (and by the local leave shortcut, since the
// server never echoes a Left event back to the leaver). User input never
// touches it directly; input turns into requests instead.
type Mirror struct {
	mu          sync.Mutex
	self        string
	defaultName string
	active      string
	rooms       map[string]*RoomView
	order       []string
	onChange    func()
}

// NewMirror builds a mirror around the handshake's default-room
// snapshot. The default room starts out active.
func NewMirror(self, defaultName string, members []string) *Mirror {
	view := &RoomView{
		Name:    defaultName,
		Default: true,
		Members: append([]string(nil), members...),
	}
	return &Mirror{
		self:        self,
		defaultName: defaultName,
		active:      defaultName,
		rooms:       map[string]*RoomView{defaultName: view},
		order:       []string{defaultName},
	}
}

// SetOnChange registers a callback invoked after every mutation. The UI
// uses it to schedule redraws.
func (m *Mirror) SetOnChange(fn func()) {
	m.mu.Lock()
	m.onChange = fn
	m.mu.Unlock()
}

// Self returns the client's own resolved nick.
func (m *Mirror) Self() string {
	return m.self
}

// DefaultRoomName returns the name of the server's default room.
func (m *Mirror) DefaultRoomName() string {
	return m.defaultName
}

// ActiveRoom returns the name of the room the UI currently shows.
func (m *Mirror) ActiveRoom() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.active
}

// SetActive switches which room's messages and members are considered
// active, without touching any stored history.
func (m *Mirror) SetActive(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[name]; !ok {
		return false
	}
	m.active = name
	m.notifyLocked()
	return true
}

// RoomNames returns the names of all mirrored rooms in join order.
func (m *Mirror) RoomNames() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.order...)
}

// View returns a copy of the named room's current state.
func (m *Mirror) View(name string) (RoomView, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	view, ok := m.rooms[name]
	if !ok {
		return RoomView{}, false
	}
	return RoomView{
		Name:     view.Name,
		Default:  view.Default,
		Members:  append([]string(nil), view.Members...),
		Messages: append([]string(nil), view.Messages...),
	}, true
}

// ActiveView returns a copy of the active room's state.
func (m *Mirror) ActiveView() RoomView {
	m.mu.Lock()
	active := m.active
	m.mu.Unlock()

	view, _ := m.View(active)
	return view
}

// PutRoom creates or overwrites the local entry for a room and marks it
// active. Applied on an accepted event.
func (m *Mirror) PutRoom(name string, isDefault bool, members []string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.rooms[name]; !ok {
		m.order = append(m.order, name)
	}
	m.rooms[name] = &RoomView{
		Name:    name,
		Default: isDefault,
		Members: append([]string(nil), members...),
	}
	m.active = name
	m.notifyLocked()
}

// DropRoom discards a mirrored room. Used on a local leave; the default
// room cannot be dropped. The active view falls back to the default room.
func (m *Mirror) DropRoom(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if name == m.defaultName {
		return
	}
	if _, ok := m.rooms[name]; !ok {
		return
	}
	delete(m.rooms, name)
	for i, n := range m.order {
		if n == name {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	if m.active == name {
		m.active = m.defaultName
	}
	m.notifyLocked()
}

// AddMember records a member joining a mirrored room.
func (m *Mirror) AddMember(room, nick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	view, ok := m.rooms[room]
	if !ok {
		return
	}
	view.Members = append(view.Members, nick)
	m.notifyLocked()
}

// RemoveMember records a member leaving a mirrored room.
func (m *Mirror) RemoveMember(room, nick string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	view, ok := m.rooms[room]
	if !ok {
		return
	}
	for i, n := range view.Members {
		if n == nick {
			view.Members = append(view.Members[:i], view.Members[i+1:]...)
			break
		}
	}
	m.notifyLocked()
}

// AddChatMessage appends a chat line to a room, formatted as the
// sender's nick in angle brackets followed by the text.
func (m *Mirror) AddChatMessage(room, nick, text string) {
	m.appendLine(room, fmt.Sprintf("<%s> %s", nick, text))
}

// AddSystemMessage appends a server-attributed line to a room.
func (m *Mirror) AddSystemMessage(room, text string) {
	m.appendLine(room, "#SERVER: "+text)
}

func (m *Mirror) appendLine(room, line string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	view, ok := m.rooms[room]
	if !ok {
		return
	}
	view.Messages = append(view.Messages, line)
	m.notifyLocked()
}

func (m *Mirror) notifyLocked() {
	if m.onChange != nil {
		m.onChange()
	}
}
