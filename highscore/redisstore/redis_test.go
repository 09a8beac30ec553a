package redisstore

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/battlesnakeio/arcade/highscore"
	"github.com/battlesnakeio/arcade/highscore/testsuite"
	"github.com/dlsteuer/miniredis"
	"github.com/stretchr/testify/require"
)

var store *Store
var server *miniredis.Miniredis

func resetRedisServer() {
	if server == nil {
		store.client.FlushAll()
		return
	}
	server.FlushAll()
}

func TestRedisStore(t *testing.T) {
	testsuite.Suite(t, func() highscore.Store {
		resetRedisServer()
		return store
	})
}

func TestGetInvalidValue(t *testing.T) {
	resetRedisServer()
	require.NoError(t, store.client.Set(highscore.Key, "lots", 0).Err())

	_, err := store.Get(context.Background())
	require.Error(t, err)
}

func TestPutOverwritesInvalidValue(t *testing.T) {
	resetRedisServer()
	require.NoError(t, store.client.Set(highscore.Key, "lots", 0).Err())

	require.NoError(t, store.Put(context.Background(), 40))
	score, err := store.Get(context.Background())
	require.NoError(t, err)
	require.Equal(t, 40, score)
}

func TestNewStoreBadURL(t *testing.T) {
	_, err := NewStore("not-a-redis-url")
	require.Error(t, err)
}

func TestMain(m *testing.M) {
	redisURL := os.Getenv("REDIS_URL")
	if len(redisURL) == 0 {
		// Setup server
		server = miniredis.NewMiniRedis()
		err := server.StartAddr("127.0.0.1:9737")
		if err != nil {
			fmt.Println("unable to start local redis instance")
			os.Exit(1)
		}
		redisURL = fmt.Sprintf("redis://%s", server.Addr())
	}

	// Setup store
	s, err := NewStore(redisURL)
	if err != nil {
		fmt.Println("unable to connect redis store")
		os.Exit(1)
	}
	store = s
	retCode := m.Run()

	store.Close()
	if server != nil {
		server.Close()
	}
	os.Exit(retCode)
}
