// Manual smoke check against a running server: connect, create and join
// a room, send one message and wait for it to come back.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/roomcast/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:9001/ws", "WebSocket address")
	nick := flag.String("nick", "smoke", "nick to announce with hello")
	room := flag.String("room", "general", "room to create and join")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(msgType string, data any) error {
		payload, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("marshal %s: %w", msgType, err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: msgType, Data: payload}); err != nil {
			return fmt.Errorf("send %s: %w", msgType, err)
		}
		return nil
	}

	if err := send(proto.InboundTypeHello, proto.HelloData{Nick: *nick}); err != nil {
		return err
	}

	var frame proto.OutboundFrame
	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		return fmt.Errorf("read welcome: %w", err)
	}
	if frame.Type != proto.OutboundTypeWelcome {
		return fmt.Errorf("expected welcome, got %q", frame.Type)
	}
	var welcome proto.WelcomeData
	if err := json.Unmarshal(frame.Data, &welcome); err != nil {
		return fmt.Errorf("decode welcome: %w", err)
	}
	fmt.Printf("Connected as %s, default room %q has %d member(s)\n",
		welcome.Self, welcome.DefaultRoom.Name, len(welcome.DefaultRoom.Members))
	if welcome.Flags&proto.FlagBadNick != 0 {
		fmt.Printf("Requested nick was taken, resolved to %s\n", welcome.Self)
	}

	if err := send(proto.InboundTypeCreateRoom, proto.RoomData{Room: *room}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeJoin, proto.RoomData{Room: *room}); err != nil {
		return err
	}
	if err := send(proto.InboundTypeMsg, proto.MsgData{Room: *room, Text: *text}); err != nil {
		return err
	}

	for {
		if err := wsjson.Read(ctx, conn, &frame); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		fmt.Printf("Received: type=%s", frame.Type)
		if frame.Event != "" {
			fmt.Printf(" event=%s", frame.Event)
		}
		fmt.Println()

		if frame.Type == proto.OutboundTypeError && frame.Error != nil {
			fmt.Printf("Error: %s (%s)\n", frame.Error.Msg, frame.Error.Code)
			continue
		}
		if frame.Type != proto.OutboundTypeEvent {
			continue
		}

		switch frame.Event {
		case proto.EventNameAccepted:
			var evt proto.EventAccepted
			if err := json.Unmarshal(frame.Data, &evt); err == nil {
				fmt.Printf("Accepted into %s, members: %v\n", evt.Room.Name, evt.Room.Members)
			}
		case proto.EventNameRoomCreated:
			var evt proto.EventRoomCreated
			if err := json.Unmarshal(frame.Data, &evt); err == nil {
				fmt.Printf("Room created: %s\n", evt.Room)
			}
		case proto.EventNameMessage:
			var evt proto.EventMessage
			if err := json.Unmarshal(frame.Data, &evt); err != nil {
				fmt.Printf("Raw data: %s\n", string(frame.Data))
				return fmt.Errorf("unmarshal message: %w", err)
			}
			fmt.Printf("EventMessage: room=%s nick=%s text=%q\n", evt.Room, evt.Nick, evt.Text)
			return nil
		}
	}
}
