package client

import (
	"encoding/json"
	"fmt"

	"github.com/vovakirdan/roomcast/internal/proto"
)

// ApplyEvent mutates the mirror according to one received frame. This is
// the client side of the dispatch contract: every event name the server
// can emit is handled here, against local state only.
func ApplyEvent(m *Mirror, frame proto.OutboundFrame) error {
	switch frame.Type {
	case proto.OutboundTypeError:
		if frame.Error != nil {
			m.AddSystemMessage(m.ActiveRoom(), fmt.Sprintf("error (%s): %s", frame.Error.Code, frame.Error.Msg))
		}
		return nil
	case proto.OutboundTypeEvent:
		// handled below
	default:
		return fmt.Errorf("unexpected frame type %q", frame.Type)
	}

	switch frame.Event {
	case proto.EventNameAccepted:
		var ev proto.EventAccepted
		if err := json.Unmarshal(frame.Data, &ev); err != nil {
			return fmt.Errorf("decode accepted: %w", err)
		}
		m.PutRoom(ev.Room.Name, ev.Room.Default, ev.Room.Members)
		return nil

	case proto.EventNameJoined:
		var ev proto.EventJoined
		if err := json.Unmarshal(frame.Data, &ev); err != nil {
			return fmt.Errorf("decode joined: %w", err)
		}
		m.AddMember(ev.Room, ev.Nick)
		m.AddSystemMessage(ev.Room, fmt.Sprintf("Client %s has joined", ev.Nick))
		return nil

	case proto.EventNameLeft:
		var ev proto.EventLeft
		if err := json.Unmarshal(frame.Data, &ev); err != nil {
			return fmt.Errorf("decode left: %w", err)
		}
		m.AddSystemMessage(ev.Room, fmt.Sprintf("Client %s has left", ev.Nick))
		m.RemoveMember(ev.Room, ev.Nick)
		return nil

	case proto.EventNameMessage:
		var ev proto.EventMessage
		if err := json.Unmarshal(frame.Data, &ev); err != nil {
			return fmt.Errorf("decode message: %w", err)
		}
		m.AddChatMessage(ev.Room, ev.Nick, ev.Text)
		return nil

	case proto.EventNameRoomCreated:
		var ev proto.EventRoomCreated
		if err := json.Unmarshal(frame.Data, &ev); err != nil {
			return fmt.Errorf("decode room_created: %w", err)
		}
		m.AddSystemMessage(m.DefaultRoomName(), "New Room Added - "+ev.Room)
		return nil

	case proto.EventNameRoomList:
		var ev proto.EventRoomList
		if err := json.Unmarshal(frame.Data, &ev); err != nil {
			return fmt.Errorf("decode room_list: %w", err)
		}
		m.AddSystemMessage(m.DefaultRoomName(), "Chat Room List:")
		for _, room := range ev.Rooms {
			if room.Default {
				continue
			}
			m.AddSystemMessage(m.DefaultRoomName(), "\t"+room.Name)
		}
		return nil

	default:
		return fmt.Errorf("unknown event %q", frame.Event)
	}
}
