package chat

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// Subscriber is a room member as the directory sees it: an identity plus
// a way to push events at it. Sessions implement it on the server.
type Subscriber interface {
	Identity() Identity
	Deliver(Event) error
}

// RoomInfo is a point-in-time summary of a room, safe to hand out and
// encode. Members is a copy in membership (insertion) order.
type RoomInfo struct {
	Name    string
	Default bool
	Members []Identity
}

// Room is a named broadcast group. Members are kept in insertion order,
// which is also the fan-out order for every broadcast. All mutations and
// the broadcasts they trigger are serialized on one mutex so that
// broadcast order always matches commit order.
type Room struct {
	name      string
	isDefault bool
	log       *zerolog.Logger

	mu      sync.Mutex
	members []Subscriber
}

// NewRoom constructs an empty ordinary room.
func NewRoom(name string, logger *zerolog.Logger) *Room {
	return &Room{name: name, log: logger}
}

func newDefaultRoom(name string, logger *zerolog.Logger) *Room {
	return &Room{name: name, isDefault: true, log: logger}
}

// Name returns the room name, unique within its directory.
func (r *Room) Name() string { return r.name }

// IsDefault reports whether this is the directory's default room.
func (r *Room) IsDefault() bool { return r.isDefault }

// AddMember notifies all current members of the join, then appends the
// new member. The order is load-bearing: the joining subscriber is not
// yet a recipient, so it never sees its own join, and existing members
// see the join before any message the new member later sends.
// Callers are responsible for not adding the same nick twice.
func (r *Room) AddMember(s Subscriber) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.broadcastLocked(Event{Kind: EventJoined, Room: r.name, User: s.Identity()})
	r.members = append(r.members, s)
	r.log.Info().Str("room", r.name).Str("nick", s.Identity().Nick).Msg("member joined room")
}

// RemoveMember removes the member with the given nick, then notifies the
// remaining members. The departed member gets no Left event for itself.
func (r *Room) RemoveMember(nick string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := -1
	for i, m := range r.members {
		if m.Identity().Nick == nick {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("remove %q from room %q: %w", nick, r.name, ErrMemberNotFound)
	}

	r.members = append(r.members[:idx], r.members[idx+1:]...)
	r.broadcastLocked(Event{Kind: EventLeft, Room: r.name, User: Identity{Nick: nick}})
	r.log.Info().Str("room", r.name).Str("nick", nick).Msg("member left room")
	return nil
}

// HasMember reports whether a member with the given nick is in the room.
func (r *Room) HasMember(nick string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		if m.Identity().Nick == nick {
			return true
		}
	}
	return false
}

// MemberByName returns the member with the given nick.
func (r *Room) MemberByName(nick string) (Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range r.members {
		if m.Identity().Nick == nick {
			return m, nil
		}
	}
	return nil, fmt.Errorf("member %q in room %q: %w", nick, r.name, ErrMemberNotFound)
}

// Broadcast delivers an event to every current member in membership
// order. A failed delivery is logged and skipped; it never aborts
// delivery to subsequent members.
func (r *Room) Broadcast(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.broadcastLocked(ev)
}

func (r *Room) broadcastLocked(ev Event) {
	for _, m := range r.members {
		if err := m.Deliver(ev); err != nil {
			r.log.Warn().Err(err).
				Str("room", r.name).
				Str("nick", m.Identity().Nick).
				Msg("event delivery failed, skipping member")
		}
	}
}

// Snapshot returns a copy of the room's name and member list as of now.
func (r *Room) Snapshot() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()

	members := make([]Identity, len(r.members))
	for i, m := range r.members {
		members[i] = m.Identity()
	}
	return RoomInfo{Name: r.name, Default: r.isDefault, Members: members}
}
