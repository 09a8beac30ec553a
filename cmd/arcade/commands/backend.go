package commands

import (
	"io"

	"github.com/battlesnakeio/arcade/highscore"
	"github.com/battlesnakeio/arcade/highscore/filestore"
	"github.com/battlesnakeio/arcade/highscore/redisstore"
	"github.com/battlesnakeio/arcade/highscore/sqlstore"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// openStore builds the high score backend named by backend. args is the
// directory for file, a URL for redis and sql.
func openStore(backend, args string) (highscore.Store, error) {
	var store highscore.Store
	var err error
	switch backend {
	case "inmem":
		store = highscore.InMemStore()
	case "file":
		store = filestore.NewFileStore(args)
	case "redis":
		store, err = redisstore.NewStore(args)
	case "sql":
		store, err = sqlstore.NewSQLStore(args)
	default:
		return nil, errors.Errorf("invalid backend %q", backend)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "unable to start up %s backend store", backend)
	}
	return highscore.InstrumentStore(store), nil
}

func closeStore(store highscore.Store) {
	if c, ok := store.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log.WithError(err).Error("unable to close store")
		}
	}
}
