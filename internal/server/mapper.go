package server

import (
	"encoding/json"

	"github.com/vovakirdan/roomcast/internal/chat"
	"github.com/vovakirdan/roomcast/internal/proto"
)

func inboundToCommand(inbound proto.Inbound) (*chat.Command, *proto.Error, error) {
	switch inbound.Type {
	case proto.InboundTypeCreateRoom:
		var room proto.RoomData
		if err := json.Unmarshal(inbound.Data, &room); err != nil {
			return nil, nil, err
		}
		if room.Room == "" {
			return nil, &proto.Error{Code: chat.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &chat.Command{Kind: chat.CommandCreateRoom, Room: room.Room}, nil, nil

	case proto.InboundTypeJoin:
		var join proto.RoomData
		if err := json.Unmarshal(inbound.Data, &join); err != nil {
			return nil, nil, err
		}
		if join.Room == "" {
			return nil, &proto.Error{Code: chat.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &chat.Command{Kind: chat.CommandJoinRoom, Room: join.Room}, nil, nil

	case proto.InboundTypeLeave:
		var leave proto.RoomData
		if err := json.Unmarshal(inbound.Data, &leave); err != nil {
			return nil, nil, err
		}
		if leave.Room == "" {
			return nil, &proto.Error{Code: chat.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &chat.Command{Kind: chat.CommandLeaveRoom, Room: leave.Room}, nil, nil

	case proto.InboundTypeMsg:
		var msg proto.MsgData
		if err := json.Unmarshal(inbound.Data, &msg); err != nil {
			return nil, nil, err
		}
		if msg.Room == "" {
			return nil, &proto.Error{Code: chat.ErrCodeBadRequest, Msg: "room is required"}, nil
		}
		return &chat.Command{Kind: chat.CommandSendMessage, Room: msg.Room, Text: msg.Text}, nil, nil

	case proto.InboundTypeListRooms:
		return &chat.Command{Kind: chat.CommandListRooms}, nil, nil

	case proto.InboundTypeHello:
		return nil, &proto.Error{Code: chat.ErrCodeBadRequest, Msg: "already introduced"}, nil

	default:
		return nil, &proto.Error{Code: "invalid_message", Msg: "unknown message type"}, nil
	}
}

func outboundFromEvent(ev chat.Event) proto.Outbound {
	switch ev.Kind {
	case chat.EventAccepted:
		var info proto.RoomInfo
		if ev.Info != nil {
			info = roomInfoToWire(*ev.Info)
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameAccepted,
			Data:  proto.EventAccepted{Room: info},
		}
	case chat.EventJoined:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameJoined,
			Data:  proto.EventJoined{Room: ev.Room, Nick: ev.User.Nick},
		}
	case chat.EventLeft:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameLeft,
			Data:  proto.EventLeft{Room: ev.Room, Nick: ev.User.Nick},
		}
	case chat.EventMessage:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameMessage,
			Data:  proto.EventMessage{Room: ev.Room, Nick: ev.User.Nick, Text: ev.Text},
		}
	case chat.EventRoomCreated:
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomCreated,
			Data:  proto.EventRoomCreated{Room: ev.Room},
		}
	case chat.EventRoomList:
		rooms := make([]proto.RoomInfo, 0, len(ev.Rooms))
		for _, info := range ev.Rooms {
			rooms = append(rooms, roomInfoToWire(info))
		}
		return proto.Outbound{
			Type:  proto.OutboundTypeEvent,
			Event: proto.EventNameRoomList,
			Data:  proto.EventRoomList{Rooms: rooms},
		}
	default:
		return proto.Outbound{Type: proto.OutboundTypeEvent}
	}
}

func roomInfoToWire(info chat.RoomInfo) proto.RoomInfo {
	members := make([]string, 0, len(info.Members))
	for _, m := range info.Members {
		members = append(members, m.Nick)
	}
	return proto.RoomInfo{Name: info.Name, Default: info.Default, Members: members}
}
