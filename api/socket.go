package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/battlesnakeio/arcade/config"
	"github.com/battlesnakeio/arcade/rules"
	"github.com/battlesnakeio/arcade/session"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are already policed by the cors handler.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Message types accepted on the socket.
const (
	MessageStart     = "start"
	MessageDirection = "direction"
	MessageDrag      = "drag"
	MessageResize    = "resize"
)

// SocketMessage is an input sent by a client over the websocket. Which
// fields are read depends on Type.
type SocketMessage struct {
	Type      string        `json:"type"`
	Direction string        `json:"direction,omitempty"`
	Start     *rules.Vector `json:"start,omitempty"`
	Current   *rules.Vector `json:"current,omitempty"`
	Width     int           `json:"width,omitempty"`
	Height    int           `json:"height,omitempty"`
}

func (s *Server) socket(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := s.lookup(w, ps)
	if !ok {
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).WithField("GameID", sess.ID).Warn("unable to upgrade socket")
		return
	}

	events, unsubscribe := sess.Subscribe()
	defer unsubscribe()

	first, err := sess.Frame(r.Context())
	if err != nil {
		closeSocket(ws, websocket.CloseGoingAway, "session closed")
		return
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		writeEvents(ws, sess.ID, session.Event{Type: session.EventFrame, Frame: first}, events)
	}()

	readInputs(r.Context(), ws, sess)
	unsubscribe()
	<-done
	ws.Close()
}

// writeEvents is the only writer on ws. It returns once events is closed,
// either because the reader gave up or because the session stopped.
func writeEvents(ws *websocket.Conn, id string, first session.Event, events <-chan session.Event) {
	err := writeEvent(ws, first)
	if err != nil {
		ws.Close()
	}
	for ev := range events {
		if err != nil {
			continue
		}
		if err = writeEvent(ws, ev); err != nil {
			log.WithError(err).WithField("GameID", id).Debug("socket write failed")
			// Unblocks the reader.
			ws.Close()
		}
	}
	if err == nil {
		closeSocket(ws, websocket.CloseNormalClosure, "")
	}
}

func writeEvent(ws *websocket.Conn, ev session.Event) error {
	if err := ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return ws.WriteJSON(ev)
}

func closeSocket(ws *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	if err := ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait)); err != nil {
		log.WithError(err).Debug("unable to send close message")
	}
	if err := ws.Close(); err != nil {
		log.WithError(err).Debug("unable to close socket")
	}
}

// readInputs applies client messages until the socket fails. Malformed
// messages and messages over the input rate are dropped.
func readInputs(ctx context.Context, ws *websocket.Conn, sess *session.Session) {
	limiter := rate.NewLimiter(config.InputRate, config.InputBurst)
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.WithError(err).WithField("GameID", sess.ID).Debug("socket read failed")
			}
			return
		}
		msg := SocketMessage{}
		if err := json.Unmarshal(data, &msg); err != nil {
			log.WithError(err).WithField("GameID", sess.ID).Debug("skipping malformed message")
			continue
		}
		if !limiter.Allow() {
			log.WithField("GameID", sess.ID).Debug("input rate exceeded")
			continue
		}
		if err := applyMessage(ctx, sess, msg); err != nil {
			log.WithError(err).WithFields(log.Fields{
				"GameID": sess.ID,
				"Type":   msg.Type,
			}).Warn("unable to apply input")
			if err == session.ErrClosed {
				return
			}
		}
	}
}

func applyMessage(ctx context.Context, sess *session.Session, msg SocketMessage) error {
	switch msg.Type {
	case MessageStart:
		return sess.Start(ctx)
	case MessageDirection:
		d, ok := rules.ParseDirection(msg.Direction)
		if !ok {
			return nil
		}
		_, err := sess.ChangeDirection(ctx, d)
		return err
	case MessageDrag:
		if msg.Start == nil || msg.Current == nil {
			return nil
		}
		_, err := sess.Drag(ctx, *msg.Start, *msg.Current)
		return err
	case MessageResize:
		width, height := rules.GridFor(msg.Width, msg.Height, config.CellSize)
		_, err := sess.Resize(ctx, width, height)
		return err
	}
	return nil
}
