package highscore_test

import (
	"context"
	"errors"
	"testing"

	"github.com/battlesnakeio/arcade/highscore"
	"github.com/battlesnakeio/arcade/highscore/testsuite"
	"github.com/stretchr/testify/require"
)

func TestInmemStore(t *testing.T) {
	testsuite.Suite(t, highscore.InMemStore)
}

type failingStore struct{ err error }

func (f failingStore) Get(context.Context) (int, error) { return 0, f.err }
func (f failingStore) Put(context.Context, int) error    { return f.err }

func TestInstrumentStorePassesErrors(t *testing.T) {
	fail := errors.New("fail")
	s := highscore.InstrumentStore(failingStore{err: fail})

	_, err := s.Get(context.Background())
	require.Equal(t, fail, err)
	require.Equal(t, fail, s.Put(context.Background(), 10))
}
