package commands

import (
	"net/http/httptest"
	"testing"

	"github.com/battlesnakeio/arcade/api"
	"github.com/battlesnakeio/arcade/highscore"
	"github.com/battlesnakeio/arcade/rules"
	"github.com/battlesnakeio/arcade/session"
	"github.com/stretchr/testify/require"
)

func withAPIServer(t *testing.T) func() {
	sessions := session.NewManager(4)
	srv := api.New("", sessions, highscore.InMemStore())
	ts := httptest.NewServer(srv.Handler())
	old := apiAddr
	apiAddr = ts.URL
	return func() {
		apiAddr = old
		ts.Close()
		sessions.Close()
	}
}

func TestCreateAndStatus(t *testing.T) {
	defer withAPIServer(t)()

	resp, err := createGame(&api.CreateRequest{GridWidth: 12, GridHeight: 9, Mode: "gesture"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.ID)

	frame, err := getStatus(resp.ID)
	require.NoError(t, err)
	require.Equal(t, 12, frame.Width)
	require.Equal(t, 9, frame.Height)
	require.Equal(t, rules.ModeGesture, frame.Mode)
	require.Equal(t, rules.GameStatusNotStarted, frame.Status)

	score, err := getHighScore()
	require.NoError(t, err)
	require.Equal(t, 0, score)
}

func TestStatusMissingGame(t *testing.T) {
	defer withAPIServer(t)()

	_, err := getStatus("nope")
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}
