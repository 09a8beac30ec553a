package commands

import (
	"fmt"
	"net/url"

	"github.com/battlesnakeio/arcade/api"
	"github.com/battlesnakeio/arcade/config"
	"github.com/battlesnakeio/arcade/rules"
	"github.com/battlesnakeio/arcade/session"
	"github.com/gorilla/websocket"
	termbox "github.com/nsf/termbox-go"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func init() {
	joinCmd.Flags().StringVarP(&gameID, "game-id", "g", "", "the game id of the game to join")
	joinCmd.Flags().StringVar(&playLogFile, "log-file", "", "write logs to this file instead of discarding them")
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "plays a game hosted by the arcade server",
	Args: func(c *cobra.Command, args []string) error {
		if len(gameID) == 0 {
			return errors.New("game id is required")
		}
		return nil
	},
	Run: func(*cobra.Command, []string) {
		if err := joinGame(); err != nil {
			log.WithError(err).WithField("GameID", gameID).Fatal("join failed")
		}
	},
}

func socketURL(addr, id string) (string, error) {
	u, err := url.Parse(addr)
	if err != nil {
		return "", errors.Wrap(err, "invalid api address")
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.Path = fmt.Sprintf("/games/%s/socket", id)
	return u.String(), nil
}

// remoteControls sends inputs over the socket. Only the ui loop writes.
type remoteControls struct {
	ws *websocket.Conn
}

func (r remoteControls) Start() error {
	return r.ws.WriteJSON(api.SocketMessage{Type: api.MessageStart})
}

func (r remoteControls) ChangeDirection(d rules.Direction) error {
	return r.ws.WriteJSON(api.SocketMessage{Type: api.MessageDirection, Direction: string(d)})
}

func (r remoteControls) Drag(start, current rules.Vector) error {
	return r.ws.WriteJSON(api.SocketMessage{Type: api.MessageDrag, Start: &start, Current: &current})
}

func (r remoteControls) Resize(width, height int) error {
	// the server expects a viewport in pixels
	return r.ws.WriteJSON(api.SocketMessage{
		Type:   api.MessageResize,
		Width:  width * config.CellSize,
		Height: height * config.CellSize,
	})
}

func readSocketEvents(ws *websocket.Conn) <-chan session.Event {
	events := make(chan session.Event)
	go func() {
		defer close(events)
		for {
			ev := session.Event{}
			if err := ws.ReadJSON(&ev); err != nil {
				if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
					log.WithError(err).Warn("socket read failed")
				}
				return
			}
			events <- ev
		}
	}()
	return events
}

func joinGame() error {
	addr, err := socketURL(apiAddr, gameID)
	if err != nil {
		return err
	}
	ws, _, err := websocket.DefaultDialer.Dial(addr, nil)
	if err != nil {
		return errors.Wrapf(err, "unable to dial %s", addr)
	}
	defer ws.Close()

	closeLogs, err := redirectLogs()
	if err != nil {
		return err
	}
	defer closeLogs()

	if err = termbox.Init(); err != nil {
		return errors.Wrap(err, "unable to start terminal")
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc | termbox.InputMouse)

	c := remoteControls{ws: ws}
	in := &inputState{}
	events := readSocketEvents(ws)
	eventQueue := setupEventQueue()
	for {
		select {
		case ev := <-eventQueue:
			quit, err := in.handleEvent(ev, c)
			if err != nil {
				return err
			}
			if quit {
				msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
				return ws.WriteMessage(websocket.CloseMessage, msg)
			}
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if ev.Frame == nil {
				continue
			}
			in.mode = ev.Frame.Mode
			if err := render(ev.Frame); err != nil {
				return err
			}
		}
	}
}
