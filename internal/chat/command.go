package chat

import "fmt"

// CommandKind describes what an inbound request wants to do.
type CommandKind int

const (
	// CommandCreateRoom creates a room if its name is free.
	CommandCreateRoom CommandKind = iota
	// CommandJoinRoom subscribes the sender to an existing room.
	CommandJoinRoom
	// CommandLeaveRoom unsubscribes the sender from a non-default room.
	CommandLeaveRoom
	// CommandSendMessage broadcasts a chat message to a room.
	CommandSendMessage
	// CommandListRooms asks for a summary of every room.
	CommandListRooms
)

// Command is a decoded client request, ready to run against a directory.
type Command struct {
	Kind CommandKind
	Room string
	Text string
}

// Apply executes one command against the directory on behalf of sender.
// This is the server side of the dispatch contract: every request kind is
// handled here, so adding a kind means extending this switch and nothing
// else. Errors are per-command faults; the caller logs them and keeps the
// session alive.
func Apply(d *Directory, sender Subscriber, cmd Command) error {
	switch cmd.Kind {
	case CommandCreateRoom:
		d.CreateRoom(cmd.Room)
		return nil

	case CommandJoinRoom:
		// Joining a room that does not exist is a silent no-op by
		// protocol, as is joining a room the sender is already in.
		if !d.RoomExists(cmd.Room) {
			return nil
		}
		room, err := d.RoomByName(cmd.Room)
		if err != nil {
			return err
		}
		if room.HasMember(sender.Identity().Nick) {
			return nil
		}
		room.AddMember(sender)
		info := room.Snapshot()
		return sender.Deliver(Event{Kind: EventAccepted, Room: room.Name(), Info: &info})

	case CommandLeaveRoom:
		room, err := d.RoomByName(cmd.Room)
		if err != nil {
			return err
		}
		if room.IsDefault() {
			return nil
		}
		return room.RemoveMember(sender.Identity().Nick)

	case CommandSendMessage:
		room, err := d.RoomByName(cmd.Room)
		if err != nil {
			return err
		}
		// The sender is a member too and sees its own message echoed.
		room.Broadcast(Event{
			Kind: EventMessage,
			Room: room.Name(),
			User: sender.Identity(),
			Text: cmd.Text,
		})
		return nil

	case CommandListRooms:
		return sender.Deliver(Event{Kind: EventRoomList, Rooms: d.ListRooms()})

	default:
		return fmt.Errorf("%w: unknown command kind %d", ErrBadRequest, cmd.Kind)
	}
}
