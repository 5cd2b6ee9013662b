package chat

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultRoomName is the name of the room every connected client is in.
const DefaultRoomName = "default"

// Directory owns the default room plus all ordinary rooms, keyed by
// unique name. The default room's membership is the single source of
// truth for "connected": every participant is in it for the whole life
// of its connection, and in zero or more ordinary rooms.
type Directory struct {
	log *zerolog.Logger

	mu          sync.RWMutex
	defaultRoom *Room
	rooms       map[string]*Room
	order       []string // creation order, default room first
}

// NewDirectory creates a directory with its default room. The default
// room lives as long as the directory.
func NewDirectory(logger *zerolog.Logger) *Directory {
	def := newDefaultRoom(DefaultRoomName, logger)
	return &Directory{
		log:         logger,
		defaultRoom: def,
		rooms:       map[string]*Room{DefaultRoomName: def},
		order:       []string{DefaultRoomName},
	}
}

// DefaultRoom returns the directory's default room.
func (d *Directory) DefaultRoom() *Room {
	return d.defaultRoom
}

// CreateRoom inserts a new empty room and announces it to every
// connected client. Creating a room whose name already exists is a
// silent no-op; the return value reports whether a room was created.
func (d *Directory) CreateRoom(name string) bool {
	d.mu.Lock()
	if _, exists := d.rooms[name]; exists {
		d.mu.Unlock()
		return false
	}
	d.rooms[name] = NewRoom(name, d.log)
	d.order = append(d.order, name)
	d.mu.Unlock()

	d.log.Info().Str("room", name).Msg("room created")
	d.defaultRoom.Broadcast(Event{Kind: EventRoomCreated, Room: name})
	return true
}

// RoomByName returns the room with the given name, the default room
// included.
func (d *Directory) RoomByName(name string) (*Room, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	room, ok := d.rooms[name]
	if !ok {
		return nil, fmt.Errorf("room %q: %w", name, ErrRoomNotFound)
	}
	return room, nil
}

// RoomExists reports whether a room with the given name exists.
func (d *Directory) RoomExists(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.rooms[name]
	return ok
}

// ListRooms returns a snapshot summary of every room in creation order,
// default room first.
func (d *Directory) ListRooms() []RoomInfo {
	rooms := d.snapshotRooms()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.Snapshot())
	}
	return infos
}

// ResolveNick turns a requested nick into one not present in the default
// room. A free nick is accepted as-is; a taken one gets _1, _2, ...
// suffixes until a free variant is found. The second return reports
// whether suffixing happened. Only meaningful while the caller serializes
// handshakes, so the resolved nick cannot be claimed concurrently.
func (d *Directory) ResolveNick(requested string) (string, bool) {
	if !d.defaultRoom.HasMember(requested) {
		return requested, false
	}
	for i := 1; ; i++ {
		candidate := fmt.Sprintf("%s_%d", requested, i)
		if !d.defaultRoom.HasMember(candidate) {
			return candidate, true
		}
	}
}

// Disconnect removes the client with the given nick from the default
// room and then from every other room it is still in, each removal
// producing its own Left broadcast local to that room. Default room
// membership is the source of truth for "connected", so after this the
// nick is referenced nowhere in the directory.
func (d *Directory) Disconnect(nick string) error {
	if err := d.defaultRoom.RemoveMember(nick); err != nil {
		return fmt.Errorf("disconnect: %w", err)
	}

	for _, room := range d.snapshotRooms() {
		if room.IsDefault() || !room.HasMember(nick) {
			continue
		}
		if err := room.RemoveMember(nick); err != nil {
			// The member vanished between the check and the removal only
			// if something else removed it; nothing left to clean up.
			d.log.Warn().Err(err).Str("room", room.Name()).Str("nick", nick).Msg("cascade removal miss")
		}
	}

	d.log.Info().Str("nick", nick).Msg("client disconnected")
	return nil
}

func (d *Directory) snapshotRooms() []*Room {
	d.mu.RLock()
	defer d.mu.RUnlock()

	rooms := make([]*Room, 0, len(d.order))
	for _, name := range d.order {
		rooms = append(rooms, d.rooms[name])
	}
	return rooms
}
