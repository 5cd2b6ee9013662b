package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast/internal/proto"
)

// Connection is one established client connection: the socket, the
// mirror fed by its event loop, and the request senders user actions
// call. Closing the socket is the only cancellation mechanism; the event
// loop ends when the read side does.
type Connection struct {
	serverURL string
	nick      string
	conn      *websocket.Conn
	mirror    *Mirror
	log       *zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	writeMu sync.Mutex
}

// Dial connects to serverURL, performs the identity handshake with the
// requested nick and starts the event loop. The returned connection's
// mirror already holds the default-room snapshot from the welcome frame.
func Dial(ctx context.Context, serverURL, nick string, logger *zerolog.Logger) (*Connection, error) {
	conn, _, err := websocket.Dial(ctx, serverURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", serverURL, err)
	}

	hello, err := json.Marshal(proto.HelloData{Nick: nick})
	if err != nil {
		conn.Close(websocket.StatusInternalError, "handshake failed")
		return nil, err
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeHello, Data: hello}); err != nil {
		conn.Close(websocket.StatusInternalError, "handshake failed")
		return nil, fmt.Errorf("send hello: %w", err)
	}

	var frame proto.OutboundFrame
	if err := wsjson.Read(ctx, conn, &frame); err != nil {
		conn.Close(websocket.StatusInternalError, "handshake failed")
		return nil, fmt.Errorf("read welcome: %w", err)
	}
	if frame.Type != proto.OutboundTypeWelcome {
		conn.Close(websocket.StatusProtocolError, "unexpected frame")
		return nil, fmt.Errorf("expected welcome, got %q", frame.Type)
	}

	var welcome proto.WelcomeData
	if err := json.Unmarshal(frame.Data, &welcome); err != nil {
		conn.Close(websocket.StatusInternalError, "handshake failed")
		return nil, fmt.Errorf("decode welcome: %w", err)
	}

	mirror := NewMirror(welcome.Self, welcome.DefaultRoom.Name, welcome.DefaultRoom.Members)
	if welcome.Flags&proto.FlagBadNick != 0 {
		mirror.AddSystemMessage(mirror.DefaultRoomName(),
			"Nickname already taken, your nick has been set to "+welcome.Self)
	}

	loopCtx, cancel := context.WithCancel(context.Background())
	c := &Connection{
		serverURL: serverURL,
		nick:      welcome.Self,
		conn:      conn,
		mirror:    mirror,
		log:       logger,
		ctx:       loopCtx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	logger.Info().Str("server", serverURL).Str("nick", welcome.Self).Msg("connected")
	go c.eventLoop()
	return c, nil
}

// Mirror returns the connection's local room state.
func (c *Connection) Mirror() *Mirror {
	return c.mirror
}

// Nick returns the resolved nick the server assigned.
func (c *Connection) Nick() string {
	return c.nick
}

// Done is closed once the event loop has terminated, i.e. the connection
// is gone and the mirror will not change again.
func (c *Connection) Done() <-chan struct{} {
	return c.done
}

// eventLoop decodes one event at a time and applies it to the mirror, in
// arrival order, until the stream ends.
func (c *Connection) eventLoop() {
	defer close(c.done)

	for {
		var frame proto.OutboundFrame
		if err := wsjson.Read(c.ctx, c.conn, &frame); err != nil {
			if !errors.Is(err, context.Canceled) {
				c.log.Info().Err(err).Msg("connection to server lost")
				c.mirror.AddSystemMessage(c.mirror.DefaultRoomName(), "Disconnected from server")
			}
			return
		}
		c.log.Debug().Str("type", frame.Type).Str("event", frame.Event).Msg("event received")
		if err := ApplyEvent(c.mirror, frame); err != nil {
			c.log.Warn().Err(err).Msg("failed to apply event")
		}
	}
}

// CreateRoom asks the server to create a room. Duplicate names are a
// silent no-op server-side.
func (c *Connection) CreateRoom(name string) error {
	return c.sendRequest(proto.InboundTypeCreateRoom, proto.RoomData{Room: name})
}

// Join asks the server to add us to an existing room. The mirror entry
// appears when the accepted event comes back.
func (c *Connection) Join(name string) error {
	return c.sendRequest(proto.InboundTypeJoin, proto.RoomData{Room: name})
}

// Leave leaves a room. The server never echoes a Left event back to the
// leaver, so the local view is dropped here. Leaving the default room is
// a no-op.
func (c *Connection) Leave(name string) error {
	if name == c.mirror.DefaultRoomName() {
		return nil
	}
	if err := c.sendRequest(proto.InboundTypeLeave, proto.RoomData{Room: name}); err != nil {
		return err
	}
	c.mirror.DropRoom(name)
	return nil
}

// Say sends a chat message to the active room.
func (c *Connection) Say(text string) error {
	return c.sendRequest(proto.InboundTypeMsg, proto.MsgData{
		Room: c.mirror.ActiveRoom(),
		Text: text,
	})
}

// ListRooms asks the server for its room directory; the answer lands in
// the default room's message log.
func (c *Connection) ListRooms() error {
	return c.sendRequest(proto.InboundTypeListRooms, nil)
}

// Close tears the connection down.
func (c *Connection) Close() {
	c.cancel()
	c.conn.Close(websocket.StatusNormalClosure, "bye")
}

func (c *Connection) sendRequest(typ string, payload any) error {
	var data json.RawMessage
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		data = encoded
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.log.Debug().Str("type", typ).Msg("sending request")
	if err := wsjson.Write(c.ctx, c.conn, proto.Inbound{Type: typ, Data: data}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}
