// Package highscore stores the single best score shared by every game. All
// backends only ever raise the stored value.
package highscore

import (
	"context"
	"sync"
)

// Key is the name the high score is stored under.
const Key = "snakeHighScore"

// Store is the interface to the backend store. Get returns zero when nothing
// has been stored yet. Put records score if it beats the stored value.
type Store interface {
	Get(ctx context.Context) (int, error)
	Put(ctx context.Context, score int) error
}

// InMemStore returns an in memory implementation of the Store interface.
func InMemStore() Store {
	return &inmem{}
}

type inmem struct {
	score int
	lock  sync.Mutex
}

func (in *inmem) Get(ctx context.Context) (int, error) {
	in.lock.Lock()
	defer in.lock.Unlock()

	return in.score, nil
}

func (in *inmem) Put(ctx context.Context, score int) error {
	in.lock.Lock()
	defer in.lock.Unlock()

	if score > in.score {
		in.score = score
	}
	return nil
}
