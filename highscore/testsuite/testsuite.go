// Package testsuite holds the behaviour every high score backend must share.
package testsuite

import (
	"context"
	"sync"
	"testing"

	"github.com/battlesnakeio/arcade/highscore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStoreEmpty(t *testing.T, s highscore.Store) {
	score, err := s.Get(context.Background())
	require.Nil(t, err)
	require.Equal(t, 0, score)
}

func testStoreRaise(t *testing.T, s highscore.Store) {
	ctx := context.Background()

	require.Nil(t, s.Put(ctx, 30))
	score, err := s.Get(ctx)
	require.Nil(t, err)
	require.Equal(t, 30, score)

	require.Nil(t, s.Put(ctx, 120))
	score, err = s.Get(ctx)
	require.Nil(t, err)
	require.Equal(t, 120, score)
}

func testStoreNeverLowers(t *testing.T, s highscore.Store) {
	ctx := context.Background()

	require.Nil(t, s.Put(ctx, 80))
	require.Nil(t, s.Put(ctx, 50))
	require.Nil(t, s.Put(ctx, 0))

	score, err := s.Get(ctx)
	require.Nil(t, err)
	require.Equal(t, 80, score)
}

func testStoreConcurrentWriters(t *testing.T, s highscore.Store) {
	ctx := context.Background()

	var wg sync.WaitGroup
	wg.Add(20)
	for i := 1; i <= 20; i++ {
		go func(score int) {
			defer wg.Done()
			assert.NoError(t, s.Put(ctx, score))
		}(i * 10)
	}
	wg.Wait()

	score, err := s.Get(ctx)
	require.Nil(t, err)
	require.Equal(t, 200, score)
}

// Suite runs the store tests. fresh must return an empty store for every
// case, backends with shared state clear it before returning.
func Suite(t *testing.T, fresh func() highscore.Store) {
	run := func(name string, test func(*testing.T, highscore.Store)) {
		t.Run(name, func(t *testing.T) { test(t, highscore.InstrumentStore(fresh())) })
	}
	run("Empty", testStoreEmpty)
	run("Raise", testStoreRaise)
	run("NeverLowers", testStoreNeverLowers)
	run("ConcurrentWriters", testStoreConcurrentWriters)
}
