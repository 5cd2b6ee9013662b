package chat

// EventKind is a notification the server emits to clients.
type EventKind int

const (
	// EventAccepted tells a client its join request went through, carrying
	// a snapshot of the joined room. Sent directly, never broadcast.
	EventAccepted EventKind = iota
	// EventJoined notifies room members about a new member.
	EventJoined
	// EventLeft notifies remaining room members about a departure.
	EventLeft
	// EventMessage carries a chat message to every room member.
	EventMessage
	// EventRoomCreated announces a new room to all connected clients.
	EventRoomCreated
	// EventRoomList answers a directory query with all room summaries.
	EventRoomList
)

// Event describes something that happened in the directory. Each event is
// a self-contained snapshot: nothing in it aliases live room state, so it
// can be encoded at any later point without observing further mutation.
type Event struct {
	Kind  EventKind
	Room  string   // room the event pertains to; created room name for EventRoomCreated
	User  Identity // joining/leaving member, or message sender
	Text  string   // message body for EventMessage
	Info  *RoomInfo
	Rooms []RoomInfo
}
