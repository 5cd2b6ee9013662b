package client

import (
	"strconv"
	"strings"
)

// ActionKind classifies what a line of user input asks for.
type ActionKind int

const (
	// ActionNone is blank input.
	ActionNone ActionKind = iota
	// ActionSay is plain text for the active room.
	ActionSay
	// ActionJoin is /join <room>.
	ActionJoin
	// ActionLeave is /leave (the active room).
	ActionLeave
	// ActionCreateRoom is /createchatroom <room>.
	ActionCreateRoom
	// ActionListRooms is /listchatrooms.
	ActionListRooms
	// ActionDisconnect is /disconnect.
	ActionDisconnect
	// ActionServer is /server <host> <port> <nick>.
	ActionServer
	// ActionHelp is /help.
	ActionHelp
	// ActionUnknown is an unrecognized or malformed command; Text holds
	// a message to show the user.
	ActionUnknown
)

// Action is one parsed line of user input, ready to run against a
// connection.
type Action struct {
	Kind ActionKind
	Room string
	Text string
	Host string
	Port int
	Nick string
}

// HelpText lists the command surface, shown on /help and on bad input.
const HelpText = `Commands:
  /join <room>              join an existing chat room
  /leave                    leave the current chat room
  /createchatroom <room>    create a new chat room
  /listchatrooms            list all chat rooms on the server
  /server <host> <port> <nick>  connect to a server
  /disconnect               disconnect from the server
  /help                     show this help`

// ParseInput turns one line of user input into an action. Lines starting
// with a slash are commands; anything else is a message for the active
// room. The parser owns no connection state, it only classifies.
func ParseInput(input string) Action {
	input = strings.TrimSpace(input)
	if input == "" {
		return Action{Kind: ActionNone}
	}
	if !strings.HasPrefix(input, "/") {
		return Action{Kind: ActionSay, Text: input}
	}

	fields := strings.Fields(input[1:])
	if len(fields) == 0 {
		return Action{Kind: ActionUnknown, Text: "empty command"}
	}

	switch strings.ToLower(fields[0]) {
	case "join":
		if len(fields) != 2 {
			return Action{Kind: ActionUnknown, Text: "usage: /join <room>"}
		}
		return Action{Kind: ActionJoin, Room: fields[1]}

	case "leave":
		return Action{Kind: ActionLeave}

	case "createchatroom":
		if len(fields) != 2 {
			return Action{Kind: ActionUnknown, Text: "usage: /createchatroom <room>"}
		}
		return Action{Kind: ActionCreateRoom, Room: fields[1]}

	case "listchatrooms":
		return Action{Kind: ActionListRooms}

	case "server":
		if len(fields) != 4 {
			return Action{Kind: ActionUnknown, Text: "usage: /server <host> <port> <nick>"}
		}
		port, err := strconv.Atoi(fields[2])
		if err != nil || port <= 0 || port > 65535 {
			return Action{Kind: ActionUnknown, Text: "invalid port: " + fields[2]}
		}
		return Action{Kind: ActionServer, Host: fields[1], Port: port, Nick: fields[3]}

	case "disconnect":
		return Action{Kind: ActionDisconnect}

	case "help":
		return Action{Kind: ActionHelp}

	default:
		return Action{Kind: ActionUnknown, Text: "unknown command: /" + fields[0]}
	}
}
