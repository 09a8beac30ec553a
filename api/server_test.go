package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/battlesnakeio/arcade/highscore"
	"github.com/battlesnakeio/arcade/rules"
	"github.com/battlesnakeio/arcade/session"
	"github.com/stretchr/testify/require"
)

func createAPIServer(max int) (*Server, *session.Manager, highscore.Store) {
	sessions := session.NewManager(max)
	store := highscore.InMemStore()
	return New(":1234", sessions, store), sessions, store
}

func do(s *Server, method, path, body string) *httptest.ResponseRecorder {
	var buf *bytes.Buffer
	if body != "" {
		buf = bytes.NewBufferString(body)
	} else {
		buf = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, buf)
	rr := httptest.NewRecorder()
	s.hs.Handler.ServeHTTP(rr, req)
	return rr
}

func createGame(t *testing.T, s *Server, body string) string {
	rr := do(s, "POST", "/games", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	cr := CreateResponse{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &cr))
	require.NotEmpty(t, cr.ID)
	return cr.ID
}

func getFrame(t *testing.T, s *Server, id string) *rules.Frame {
	rr := do(s, "GET", "/games/"+id, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	f := &rules.Frame{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), f))
	return f
}

func TestCreateDefaults(t *testing.T) {
	s, sessions, _ := createAPIServer(0)
	defer sessions.Close()

	id := createGame(t, s, "")
	f := getFrame(t, s, id)
	require.Equal(t, defaultGridSize, f.Width)
	require.Equal(t, defaultGridSize, f.Height)
	require.Equal(t, rules.ModeKeypad, f.Mode)
	require.Equal(t, rules.GameStatusNotStarted, f.Status)
	require.Len(t, f.Snake, 3)
}

func TestCreateFromViewport(t *testing.T) {
	s, sessions, _ := createAPIServer(0)
	defer sessions.Close()

	id := createGame(t, s, `{"width": 400, "height": 300, "mode": "gesture"}`)
	f := getFrame(t, s, id)
	require.Equal(t, 20, f.Width)
	require.Equal(t, 15, f.Height)
	require.Equal(t, rules.ModeGesture, f.Mode)
	require.Len(t, f.Snake, 1)

	id = createGame(t, s, `{"width": 400, "height": 300, "gridWidth": 12, "gridHeight": 9}`)
	f = getFrame(t, s, id)
	require.Equal(t, 12, f.Width)
	require.Equal(t, 9, f.Height)
}

func TestCreateBadRequests(t *testing.T) {
	s, sessions, _ := createAPIServer(0)
	defer sessions.Close()

	require.Equal(t, http.StatusBadRequest, do(s, "POST", "/games", `{"mode": "joystick"}`).Code)
	require.Equal(t, http.StatusBadRequest, do(s, "POST", "/games", `{nope`).Code)
}

func TestCreateTooMany(t *testing.T) {
	s, sessions, _ := createAPIServer(1)
	defer sessions.Close()

	createGame(t, s, "")
	require.Equal(t, http.StatusServiceUnavailable, do(s, "POST", "/games", "").Code)
}

func TestMissingGame(t *testing.T) {
	s, sessions, _ := createAPIServer(0)
	defer sessions.Close()

	require.Equal(t, http.StatusNotFound, do(s, "GET", "/games/abc_123", "").Code)
	require.Equal(t, http.StatusNotFound, do(s, "POST", "/games/abc_123/start", "").Code)
	require.Equal(t, http.StatusNotFound, do(s, "DELETE", "/games/abc_123", "").Code)
}

func TestStartAndDirection(t *testing.T) {
	s, sessions, _ := createAPIServer(0)
	defer sessions.Close()
	id := createGame(t, s, `{"gridWidth": 10, "gridHeight": 10}`)

	rr := do(s, "POST", "/games/"+id+"/direction", `{"direction": "up"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"accepted": false}`, rr.Body.String())

	rr = do(s, "POST", "/games/"+id+"/start", "")
	require.Equal(t, http.StatusOK, rr.Code)
	f := &rules.Frame{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), f))
	require.Equal(t, rules.GameStatusActive, f.Status)

	rr = do(s, "POST", "/games/"+id+"/direction", `{"direction": "left"}`)
	require.JSONEq(t, `{"accepted": false}`, rr.Body.String())
	rr = do(s, "POST", "/games/"+id+"/direction", `{"direction": "up"}`)
	require.JSONEq(t, `{"accepted": true}`, rr.Body.String())

	require.Equal(t, http.StatusBadRequest, do(s, "POST", "/games/"+id+"/direction", `{"direction": "north"}`).Code)
	require.Equal(t, http.StatusBadRequest, do(s, "POST", "/games/"+id+"/direction", `up`).Code)
}

func TestDrag(t *testing.T) {
	s, sessions, _ := createAPIServer(0)
	defer sessions.Close()
	id := createGame(t, s, `{"gridWidth": 10, "gridHeight": 10, "mode": "gesture"}`)
	require.Equal(t, http.StatusOK, do(s, "POST", "/games/"+id+"/start", "").Code)

	rr := do(s, "POST", "/games/"+id+"/drag", `{"start": {"x": 10, "y": 10}, "current": {"x": 10, "y": 30}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"accepted": true}`, rr.Body.String())

	f := getFrame(t, s, id)
	require.Equal(t, int64(1), f.Turn)
	require.Equal(t, rules.Point{X: 5, Y: 6}, f.Head())
}

func TestInputForOtherModeIgnored(t *testing.T) {
	s, sessions, _ := createAPIServer(0)
	defer sessions.Close()

	keypad := createGame(t, s, `{"gridWidth": 10, "gridHeight": 10}`)
	require.Equal(t, http.StatusOK, do(s, "POST", "/games/"+keypad+"/start", "").Code)
	rr := do(s, "POST", "/games/"+keypad+"/drag", `{"start": {"x": 0, "y": 0}, "current": {"x": -5, "y": 0}}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"accepted": false}`, rr.Body.String())
	f := getFrame(t, s, keypad)
	require.Equal(t, rules.GameStatusActive, f.Status)
	require.Equal(t, int64(0), f.Turn)

	gesture := createGame(t, s, `{"gridWidth": 10, "gridHeight": 10, "mode": "gesture"}`)
	require.Equal(t, http.StatusOK, do(s, "POST", "/games/"+gesture+"/start", "").Code)
	rr = do(s, "POST", "/games/"+gesture+"/direction", `{"direction": "up"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"accepted": false}`, rr.Body.String())
}

func TestResize(t *testing.T) {
	s, sessions, _ := createAPIServer(0)
	defer sessions.Close()
	id := createGame(t, s, "")

	rr := do(s, "POST", "/games/"+id+"/resize", `{"width": 200, "height": 160}`)
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"accepted": true}`, rr.Body.String())

	f := getFrame(t, s, id)
	require.Equal(t, 10, f.Width)
	require.Equal(t, 8, f.Height)
}

func TestDeleteGame(t *testing.T) {
	s, sessions, _ := createAPIServer(0)
	defer sessions.Close()
	id := createGame(t, s, "")

	require.Equal(t, http.StatusNoContent, do(s, "DELETE", "/games/"+id, "").Code)
	require.Equal(t, http.StatusNotFound, do(s, "GET", "/games/"+id, "").Code)
}

func TestHighScore(t *testing.T) {
	s, sessions, store := createAPIServer(0)
	defer sessions.Close()
	require.NoError(t, store.Put(context.Background(), 70))

	rr := do(s, "GET", "/highscore", "")
	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"highScore": 70}`, rr.Body.String())
}

func TestCORSPreflight(t *testing.T) {
	s, sessions, _ := createAPIServer(0)
	defer sessions.Close()

	req := httptest.NewRequest("OPTIONS", "/games/abc", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "DELETE")
	rr := httptest.NewRecorder()
	s.hs.Handler.ServeHTTP(rr, req)

	require.NotEmpty(t, rr.Header().Get("Access-Control-Allow-Origin"))
	require.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "DELETE")
}
