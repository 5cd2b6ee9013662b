// Package tui renders a connection's mirror in the terminal. It is the
// reference UI collaborator: everything it shows comes off the mirror,
// everything it does goes through the connection's request methods.
package tui

import (
	"fmt"
	"strings"

	"github.com/jroimartin/gocui"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/roomcast/internal/client"
)

const (
	msgView    = "messages"
	inputView  = "input"
	roomsView  = "rooms"
	usersView  = "users"
	statusView = "status"
)

// ChatUI is a gocui layout over a single connection: a message pane for
// the active room, room and member sidebars, a status bar and an input
// line feeding the slash-command parser.
type ChatUI struct {
	gui  *gocui.Gui
	conn *client.Connection
	log  *zerolog.Logger
}

// New builds the UI for an established connection and hooks the mirror's
// change callback to redraws.
func New(conn *client.Connection, logger *zerolog.Logger) (*ChatUI, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, fmt.Errorf("init gui: %w", err)
	}

	ui := &ChatUI{gui: g, conn: conn, log: logger}
	g.SetManagerFunc(ui.layout)
	g.Cursor = true

	conn.Mirror().SetOnChange(func() {
		g.Update(func(*gocui.Gui) error { return nil })
	})

	return ui, nil
}

// Run installs keybindings and blocks in the main loop until the user
// quits or the connection dies.
func (ui *ChatUI) Run() error {
	if err := ui.keybindings(); err != nil {
		return err
	}

	go func() {
		<-ui.conn.Done()
		ui.gui.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
	}()

	if err := ui.gui.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

// Close releases the terminal.
func (ui *ChatUI) Close() {
	ui.gui.Close()
}

func (ui *ChatUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()

	sidebarWidth := 22
	msgWidth := maxX - sidebarWidth - 1
	msgHeight := maxY - 5
	roomsHeight := msgHeight / 2

	mirror := ui.conn.Mirror()
	active := mirror.ActiveView()

	if v, err := g.SetView(msgView, 0, 0, msgWidth, msgHeight); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Wrap = true
		v.Autoscroll = true
	} else {
		v.Title = "Room: " + active.Name
		v.Clear()
		for _, line := range active.Messages {
			fmt.Fprintln(v, line)
		}
	}

	if v, err := g.SetView(roomsView, msgWidth+1, 0, maxX-1, roomsHeight); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Rooms"
	} else {
		v.Clear()
		for _, name := range mirror.RoomNames() {
			prefix := "  "
			if name == active.Name {
				prefix = "* "
			}
			fmt.Fprintln(v, prefix+name)
		}
	}

	if v, err := g.SetView(usersView, msgWidth+1, roomsHeight+1, maxX-1, msgHeight); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Members"
	} else {
		v.Clear()
		for _, nick := range active.Members {
			fmt.Fprintln(v, nick)
		}
	}

	if v, err := g.SetView(statusView, 0, msgHeight+1, maxX-1, msgHeight+3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	} else {
		v.Clear()
		fmt.Fprintf(v, "%s | room: %s | Tab: next room, Enter: send, Ctrl-C: quit",
			mirror.Self(), active.Name)
	}

	if v, err := g.SetView(inputView, 0, msgHeight+3, maxX-1, maxY-1); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Input"
		v.Editable = true
		v.Wrap = true
		if _, err := g.SetCurrentView(inputView); err != nil {
			return err
		}
	}

	return nil
}

func (ui *ChatUI) keybindings() error {
	if err := ui.gui.SetKeybinding("", gocui.KeyCtrlC, gocui.ModNone,
		func(*gocui.Gui, *gocui.View) error {
			return gocui.ErrQuit
		}); err != nil {
		return err
	}

	// Tab cycles the active room without touching other rooms' history.
	if err := ui.gui.SetKeybinding("", gocui.KeyTab, gocui.ModNone,
		func(*gocui.Gui, *gocui.View) error {
			ui.cycleRoom()
			return nil
		}); err != nil {
		return err
	}

	return ui.gui.SetKeybinding(inputView, gocui.KeyEnter, gocui.ModNone, ui.handleInput)
}

func (ui *ChatUI) cycleRoom() {
	mirror := ui.conn.Mirror()
	names := mirror.RoomNames()
	if len(names) < 2 {
		return
	}
	active := mirror.ActiveRoom()
	for i, name := range names {
		if name == active {
			mirror.SetActive(names[(i+1)%len(names)])
			return
		}
	}
}

func (ui *ChatUI) handleInput(_ *gocui.Gui, v *gocui.View) error {
	input := strings.TrimSpace(v.Buffer())
	v.Clear()
	if err := v.SetCursor(0, 0); err != nil {
		return err
	}
	if input == "" {
		return nil
	}

	mirror := ui.conn.Mirror()
	action := client.ParseInput(input)

	var err error
	switch action.Kind {
	case client.ActionNone:
	case client.ActionSay:
		err = ui.conn.Say(action.Text)
	case client.ActionJoin:
		err = ui.conn.Join(action.Room)
	case client.ActionLeave:
		err = ui.conn.Leave(mirror.ActiveRoom())
	case client.ActionCreateRoom:
		err = ui.conn.CreateRoom(action.Room)
	case client.ActionListRooms:
		err = ui.conn.ListRooms()
	case client.ActionDisconnect:
		ui.conn.Close()
		return gocui.ErrQuit
	case client.ActionServer:
		mirror.AddSystemMessage(mirror.ActiveRoom(), "already connected, /disconnect first")
	case client.ActionHelp:
		for _, line := range strings.Split(client.HelpText, "\n") {
			mirror.AddSystemMessage(mirror.ActiveRoom(), line)
		}
	case client.ActionUnknown:
		mirror.AddSystemMessage(mirror.ActiveRoom(), action.Text)
	}

	if err != nil {
		ui.log.Warn().Err(err).Str("input", input).Msg("request failed")
		mirror.AddSystemMessage(mirror.ActiveRoom(), "request failed: "+err.Error())
	}
	return nil
}
