package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"sync"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast/internal/chat"
	"github.com/vovakirdan/roomcast/internal/proto"
)

// WSHandler upgrades HTTP connections, runs the identity handshake and
// drives each resulting session's read/write loops. Handshakes are
// serialized on one mutex so nick resolution and default-room
// registration happen atomically per connection.
type WSHandler struct {
	dir *chat.Directory
	log *zerolog.Logger

	handshakeMu sync.Mutex
}

// NewWSHandler builds a WebSocket handler over the given directory.
func NewWSHandler(dir *chat.Directory, logger *zerolog.Logger) *WSHandler {
	return &WSHandler{dir: dir, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	ctx := r.Context()

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	sess, welcome, err := h.handshake(ctx, conn)
	if err != nil {
		// A failed handshake aborts only this connection.
		h.log.Warn().Err(err).Msg("handshake failed")
		return
	}

	// Cleanup is unconditional: whatever ends the loops (graceful EOF or
	// a transport error), the session leaves the default room and every
	// other room it was in.
	defer func() {
		sess.Close()
		if err := h.dir.Disconnect(sess.Identity().Nick); err != nil {
			h.log.Warn().Err(err).Str("nick", sess.Identity().Nick).Msg("disconnect cleanup")
		}
	}()

	if err := wsjson.Write(ctx, conn, welcome); err != nil {
		h.log.Warn().Err(err).Str("nick", sess.Identity().Nick).Msg("write welcome")
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() {
		errCh <- h.readLoop(ctx, conn, sess)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, sess)
	}()

	err = <-errCh
	sess.Close()
	cancel() // stop the other loop
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != 0 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("nick", sess.Identity().Nick).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

// handshake reads the hello frame, resolves the requested nick against
// the default room, registers the new session there and builds the
// welcome frame. Existing members are notified of the join before the
// session becomes a recipient, so the joining client never observes its
// own join event.
func (h *WSHandler) handshake(ctx context.Context, conn *websocket.Conn) (*Session, proto.Outbound, error) {
	var inbound proto.Inbound
	if err := wsjson.Read(ctx, conn, &inbound); err != nil {
		return nil, proto.Outbound{}, fmt.Errorf("read hello: %w", err)
	}
	if inbound.Type != proto.InboundTypeHello {
		return nil, proto.Outbound{}, fmt.Errorf("%w: expected hello, got %q", chat.ErrBadRequest, inbound.Type)
	}

	var hello proto.HelloData
	if err := json.Unmarshal(inbound.Data, &hello); err != nil {
		return nil, proto.Outbound{}, fmt.Errorf("decode hello: %w", err)
	}
	if hello.Nick == "" {
		return nil, proto.Outbound{}, fmt.Errorf("%w: nick is required", chat.ErrBadRequest)
	}

	h.handshakeMu.Lock()
	nick, suffixed := h.dir.ResolveNick(hello.Nick)
	sess := NewSession(chat.Identity{Nick: nick}, h.log)
	h.dir.DefaultRoom().AddMember(sess)
	snapshot := h.dir.DefaultRoom().Snapshot()
	h.handshakeMu.Unlock()

	flags := 0
	if suffixed {
		flags |= proto.FlagBadNick
	}

	h.log.Info().Str("requested", hello.Nick).Str("nick", nick).Bool("suffixed", suffixed).Msg("client connected")

	welcome := proto.Outbound{
		Type: proto.OutboundTypeWelcome,
		Data: proto.WelcomeData{
			Self:        nick,
			DefaultRoom: roomInfoToWire(snapshot),
			Flags:       flags,
		},
	}
	return sess, welcome, nil
}

// readLoop decodes one request at a time and applies it in arrival
// order. A per-request fault is logged and answered with an error frame;
// only transport errors end the loop.
func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, sess *Session) error {
	for {
		var inbound proto.Inbound
		if err := wsjson.Read(ctx, conn, &inbound); err != nil {
			return err
		}
		h.log.Debug().Str("nick", sess.Identity().Nick).Str("type", inbound.Type).Msg("request received")

		cmd, protoErr, err := inboundToCommand(inbound)
		if err != nil {
			h.log.Warn().Err(err).Str("nick", sess.Identity().Nick).Msg("failed to decode request")
			return err
		}
		if protoErr != nil {
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: protoErr,
			}); writeErr != nil {
				return writeErr
			}
			continue
		}

		if err := chat.Apply(h.dir, sess, *cmd); err != nil {
			h.log.Warn().Err(err).Str("nick", sess.Identity().Nick).Str("type", inbound.Type).Msg("request failed")
			if writeErr := wsjson.Write(ctx, conn, proto.Outbound{
				Type:  proto.OutboundTypeError,
				Error: &proto.Error{Code: chat.CodeFor(err), Msg: err.Error()},
			}); writeErr != nil {
				return writeErr
			}
		}
	}
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, sess *Session) error {
	for {
		select {
		case ev := <-sess.Events():
			if err := wsjson.Write(ctx, conn, outboundFromEvent(ev)); err != nil {
				h.log.Warn().Err(err).Str("nick", sess.Identity().Nick).Msg("write ws event")
				return err
			}
		case <-sess.Done():
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
