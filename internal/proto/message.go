// Package proto defines the JSON wire format shared by server and client:
// one handshake pair, the request catalogue (client to server) and the
// event catalogue (server to client). Every message is an independent
// snapshot of its fields; nothing here references live server state.
package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

const (
	InboundTypeHello      = "hello"
	InboundTypeCreateRoom = "create_room"
	InboundTypeJoin       = "join"
	InboundTypeLeave      = "leave"
	InboundTypeMsg        = "msg"
	InboundTypeListRooms  = "list_rooms"

	OutboundTypeWelcome = "welcome"
	OutboundTypeEvent   = "event"
	OutboundTypeError   = "error"

	EventNameAccepted    = "accepted"
	EventNameJoined      = "joined"
	EventNameLeft        = "left"
	EventNameMessage     = "message"
	EventNameRoomCreated = "room_created"
	EventNameRoomList    = "room_list"
)

// FlagBadNick is set in the welcome flags when the requested nick
// collided and was auto-suffixed.
const FlagBadNick = 1 << 0

// HelloData is the first frame a client sends, carrying the nick it wants.
type HelloData struct {
	Nick string `json:"nick"`
}

// WelcomeData answers the hello: the resolved identity, a snapshot of the
// default room and a flags bit field.
type WelcomeData struct {
	Self        string   `json:"self"`
	DefaultRoom RoomInfo `json:"default_room"`
	Flags       int      `json:"flags"`
}

// RoomInfo is the wire form of a room summary.
type RoomInfo struct {
	Name    string   `json:"name"`
	Default bool     `json:"default,omitempty"`
	Members []string `json:"members"`
}

// RoomData names a room for create_room, join and leave requests.
type RoomData struct {
	Room string `json:"room"`
}

// MsgData is a chat message from the client.
type MsgData struct {
	Room string `json:"room"`
	Text string `json:"text"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventAccepted confirms a join directly to the joining client.
type EventAccepted struct {
	Room RoomInfo `json:"room"`
}

// EventJoined notifies room members that a client joined.
type EventJoined struct {
	Room string `json:"room"`
	Nick string `json:"nick"`
}

// EventLeft notifies remaining room members that a client left.
type EventLeft struct {
	Room string `json:"room"`
	Nick string `json:"nick"`
}

// EventMessage carries one chat message.
type EventMessage struct {
	Room string `json:"room"`
	Nick string `json:"nick"`
	Text string `json:"text"`
}

// EventRoomCreated announces a newly created room.
type EventRoomCreated struct {
	Room string `json:"room"`
}

// EventRoomList answers a list_rooms request.
type EventRoomList struct {
	Rooms []RoomInfo `json:"rooms"`
}

// OutboundFrame is Outbound as the receiving side sees it, with the
// payload kept raw for per-event decoding.
type OutboundFrame struct {
	Type  string          `json:"type"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
