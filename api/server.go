// Package api serves sessions over http. Clients create a game, then either
// post inputs or hold a websocket that carries inputs up and frames down.
package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/battlesnakeio/arcade/config"
	"github.com/battlesnakeio/arcade/highscore"
	"github.com/battlesnakeio/arcade/rules"
	"github.com/battlesnakeio/arcade/session"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

const (
	defaultGridSize = 20
	requestTimeout  = 2 * time.Second
)

// Server is the http front of a session manager.
type Server struct {
	hs       *http.Server
	sessions *session.Manager
	store    highscore.Store
}

// New returns a server listening on addr once WaitForExit is called.
func New(addr string, sessions *session.Manager, store highscore.Store) *Server {
	s := &Server{
		sessions: sessions,
		store:    store,
	}

	router := httprouter.New()
	router.POST("/games", s.createGame)
	router.GET("/games/:id", s.getGame)
	router.DELETE("/games/:id", s.deleteGame)
	router.POST("/games/:id/start", s.startGame)
	router.POST("/games/:id/direction", s.changeDirection)
	router.POST("/games/:id/drag", s.drag)
	router.POST("/games/:id/resize", s.resize)
	router.GET("/games/:id/socket", s.socket)
	router.GET("/highscore", s.highScore)

	s.hs = &http.Server{
		Addr:    addr,
		Handler: cors.New(cors.Options{
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
		}).Handler(router),
	}
	return s
}

// WaitForExit serves until the server is shut down.
func (s *Server) WaitForExit() error {
	log.WithField("listen", s.hs.Addr).Info("arcade api listening")
	err := s.hs.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Handler returns the routed handler, for mounting in another server.
func (s *Server) Handler() http.Handler { return s.hs.Handler }

// Shutdown stops accepting requests and waits for active ones.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.hs.Shutdown(ctx)
}

// CreateRequest asks for a new session. Width and Height are the viewport in
// pixels and are divided by the cell size, GridWidth and GridHeight set the
// board directly and win when present.
type CreateRequest struct {
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	GridWidth  int    `json:"gridWidth"`
	GridHeight int    `json:"gridHeight"`
	Mode       string `json:"mode"`
}

// CreateResponse carries the new session id.
type CreateResponse struct {
	ID string `json:"ID"`
}

// DirectionRequest is a keypad input.
type DirectionRequest struct {
	Direction string `json:"direction"`
}

// DragRequest is one gesture sample.
type DragRequest struct {
	Start   rules.Vector `json:"start"`
	Current rules.Vector `json:"current"`
}

// ResizeRequest carries a new viewport in pixels.
type ResizeRequest struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// InputResponse reports whether an input changed the game.
type InputResponse struct {
	Accepted bool `json:"accepted"`
}

// HighScoreResponse is the stored high score.
type HighScoreResponse struct {
	HighScore int `json:"highScore"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func gridFromRequest(gridW, gridH, viewW, viewH int) (int, int) {
	if gridW > 0 && gridH > 0 {
		return gridW, gridH
	}
	if viewW > 0 && viewH > 0 {
		return rules.GridFor(viewW, viewH, config.CellSize)
	}
	return defaultGridSize, defaultGridSize
}

func (s *Server) createGame(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	req := CreateRequest{}
	// An empty body asks for the defaults.
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid create request"})
		return
	}
	mode, ok := rules.ParseMode(req.Mode)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown mode " + req.Mode})
		return
	}

	width, height := gridFromRequest(req.GridWidth, req.GridHeight, req.Width, req.Height)
	sess, err := s.sessions.Create(session.Options{
		Width:  width,
		Height: height,
		Mode:   mode,
		Store:  s.store,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, CreateResponse{ID: sess.ID})
}

func (s *Server) lookup(w http.ResponseWriter, ps httprouter.Params) (*session.Session, bool) {
	sess, err := s.sessions.Get(ps.ByName("id"))
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) getGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := s.lookup(w, ps)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	f, err := sess.Frame(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) deleteGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := s.sessions.Remove(ps.ByName("id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) startGame(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := s.lookup(w, ps)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	if err := sess.Start(ctx); err != nil {
		writeError(w, err)
		return
	}
	f, err := sess.Frame(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

func (s *Server) changeDirection(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := s.lookup(w, ps)
	if !ok {
		return
	}
	req := DirectionRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid direction request"})
		return
	}
	d, ok := rules.ParseDirection(req.Direction)
	if !ok {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown direction " + req.Direction})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	accepted, err := sess.ChangeDirection(ctx, d)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InputResponse{Accepted: accepted})
}

func (s *Server) drag(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := s.lookup(w, ps)
	if !ok {
		return
	}
	req := DragRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid drag request"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	accepted, err := sess.Drag(ctx, req.Start, req.Current)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InputResponse{Accepted: accepted})
}

func (s *Server) resize(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	sess, ok := s.lookup(w, ps)
	if !ok {
		return
	}
	req := ResizeRequest{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid resize request"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	width, height := rules.GridFor(req.Width, req.Height, config.CellSize)
	applied, err := sess.Resize(ctx, width, height)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, InputResponse{Accepted: applied})
}

func (s *Server) highScore(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	score, err := s.store.Get(ctx)
	if err != nil {
		log.WithError(err).Warn("unable to read high score")
		score = 0
	}
	writeJSON(w, http.StatusOK, HighScoreResponse{HighScore: score})
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch err {
	case session.ErrNotFound:
		status = http.StatusNotFound
	case session.ErrClosed:
		status = http.StatusGone
	case session.ErrExists:
		status = http.StatusConflict
	case session.ErrTooMany:
		status = http.StatusServiceUnavailable
	case context.DeadlineExceeded, context.Canceled:
		status = http.StatusGatewayTimeout
	}
	if status == http.StatusInternalServerError {
		log.WithError(err).Error("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.WithError(err).Warn("unable to write response")
	}
}
