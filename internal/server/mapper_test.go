package server

import (
	"encoding/json"
	"testing"

	"github.com/vovakirdan/roomcast/internal/chat"
	"github.com/vovakirdan/roomcast/internal/proto"
)

func TestInboundToCommand(t *testing.T) {
	roomData, _ := json.Marshal(proto.RoomData{Room: "general"})
	msgData, _ := json.Marshal(proto.MsgData{Room: "general", Text: "hi"})
	emptyRoom, _ := json.Marshal(proto.RoomData{})

	cases := []struct {
		name    string
		in      proto.Inbound
		want    *chat.Command
		errCode string
	}{
		{"create", proto.Inbound{Type: proto.InboundTypeCreateRoom, Data: roomData}, &chat.Command{Kind: chat.CommandCreateRoom, Room: "general"}, ""},
		{"join", proto.Inbound{Type: proto.InboundTypeJoin, Data: roomData}, &chat.Command{Kind: chat.CommandJoinRoom, Room: "general"}, ""},
		{"leave", proto.Inbound{Type: proto.InboundTypeLeave, Data: roomData}, &chat.Command{Kind: chat.CommandLeaveRoom, Room: "general"}, ""},
		{"msg", proto.Inbound{Type: proto.InboundTypeMsg, Data: msgData}, &chat.Command{Kind: chat.CommandSendMessage, Room: "general", Text: "hi"}, ""},
		{"list", proto.Inbound{Type: proto.InboundTypeListRooms}, &chat.Command{Kind: chat.CommandListRooms}, ""},
		{"missing room", proto.Inbound{Type: proto.InboundTypeJoin, Data: emptyRoom}, nil, chat.ErrCodeBadRequest},
		{"second hello", proto.Inbound{Type: proto.InboundTypeHello, Data: roomData}, nil, chat.ErrCodeBadRequest},
		{"unknown type", proto.Inbound{Type: "frobnicate"}, nil, "invalid_message"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cmd, protoErr, err := inboundToCommand(tc.in)
			if err != nil {
				t.Fatalf("unexpected decode error: %v", err)
			}
			if tc.errCode != "" {
				if protoErr == nil || protoErr.Code != tc.errCode {
					t.Fatalf("error frame = %+v, want code %q", protoErr, tc.errCode)
				}
				return
			}
			if protoErr != nil {
				t.Fatalf("unexpected error frame: %+v", protoErr)
			}
			if *cmd != *tc.want {
				t.Fatalf("command = %+v, want %+v", cmd, tc.want)
			}
		})
	}
}

func TestOutboundFromEvent(t *testing.T) {
	info := chat.RoomInfo{Name: "general", Members: []chat.Identity{{Nick: "alice"}}}

	out := outboundFromEvent(chat.Event{Kind: chat.EventAccepted, Room: "general", Info: &info})
	accepted, ok := out.Data.(proto.EventAccepted)
	if !ok || out.Event != proto.EventNameAccepted {
		t.Fatalf("unexpected accepted frame: %+v", out)
	}
	if accepted.Room.Name != "general" || len(accepted.Room.Members) != 1 || accepted.Room.Members[0] != "alice" {
		t.Fatalf("unexpected accepted payload: %+v", accepted)
	}

	out = outboundFromEvent(chat.Event{Kind: chat.EventMessage, Room: "general", User: chat.Identity{Nick: "alice"}, Text: "hi"})
	msg, ok := out.Data.(proto.EventMessage)
	if !ok || msg.Nick != "alice" || msg.Text != "hi" {
		t.Fatalf("unexpected message frame: %+v", out)
	}

	out = outboundFromEvent(chat.Event{Kind: chat.EventRoomList, Rooms: []chat.RoomInfo{{Name: "default", Default: true}, info}})
	list, ok := out.Data.(proto.EventRoomList)
	if !ok || len(list.Rooms) != 2 || !list.Rooms[0].Default || list.Rooms[1].Name != "general" {
		t.Fatalf("unexpected room_list frame: %+v", out)
	}
}
