package session

import (
	"context"
	"testing"

	"github.com/battlesnakeio/arcade/highscore"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	m := NewManager(2)
	defer m.Close()

	a, err := m.Create(Options{Width: 10, Height: 10, Store: highscore.InMemStore()})
	require.NoError(t, err)
	require.NotEmpty(t, a.ID)

	got, err := m.Get(a.ID)
	require.NoError(t, err)
	require.Equal(t, a, got)

	_, err = m.Create(Options{ID: a.ID})
	require.Equal(t, ErrExists, err)

	_, err = m.Create(Options{ID: "second"})
	require.NoError(t, err)
	_, err = m.Create(Options{})
	require.Equal(t, ErrTooMany, err)
	require.Equal(t, 2, m.Len())

	require.NoError(t, m.Remove(a.ID))
	_, err = m.Get(a.ID)
	require.Equal(t, ErrNotFound, err)
	require.Equal(t, ErrNotFound, m.Remove(a.ID))
	require.Equal(t, ErrClosed, a.Start(context.Background()))
	require.Equal(t, 1, m.Len())
}

func TestManagerClose(t *testing.T) {
	m := NewManager(0)
	s, err := m.Create(Options{})
	require.NoError(t, err)

	m.Close()
	require.Equal(t, 0, m.Len())
	require.Equal(t, ErrClosed, s.Start(context.Background()))
}

func TestSessionsShareHighScore(t *testing.T) {
	store := highscore.InMemStore()
	require.NoError(t, store.Put(context.Background(), 90))

	m := NewManager(0)
	defer m.Close()
	s, err := m.Create(Options{Width: 10, Height: 10, Store: store})
	require.NoError(t, err)

	f, err := s.Frame(context.Background())
	require.NoError(t, err)
	require.Equal(t, 90, f.HighScore)
}
