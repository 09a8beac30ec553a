package sqlstore

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/lib/pq" // Import pq driver.

	"github.com/battlesnakeio/arcade/config"
	"github.com/battlesnakeio/arcade/highscore"
	"github.com/pkg/errors"
)

const migrations = `
CREATE TABLE IF NOT EXISTS high_scores (
	key VARCHAR(255) PRIMARY KEY,
	score INTEGER NOT NULL DEFAULT 0,
	updated TIMESTAMP NOT NULL DEFAULT now()
);
`

var openDB = sql.Open

// NewSQLStore returns a new store using a postgres database.
func NewSQLStore(url string) (*Store, error) {
	db, err := openDB("postgres", url)
	if err != nil {
		return nil, errors.Wrap(err, "unable to open database")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	db.SetMaxOpenConns(config.MaxOpenConns)
	db.SetMaxIdleConns(config.MaxIdleConns)

	if err = db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "unable to reach database")
	}

	_, err = db.ExecContext(ctx, migrations)
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "unable to migrate database")
	}
	return &Store{db: db, key: highscore.Key}, nil
}

// Store represents an SQL store.
type Store struct {
	db  *sql.DB
	key string
}

// Get returns the stored high score, zero when no row exists.
func (s *Store) Get(ctx context.Context) (int, error) {
	var score int
	err := s.db.QueryRowContext(ctx,
		"SELECT score FROM high_scores WHERE key=$1", s.key,
	).Scan(&score)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "unable to select high score")
	}
	return score, nil
}

// Put raises the stored high score in a single upsert.
func (s *Store) Put(ctx context.Context, score int) error {
	_, err := s.db.ExecContext(ctx, `
	INSERT INTO high_scores (key, score, updated) VALUES ($1, $2, now())
	ON CONFLICT (key)
	DO UPDATE SET score=$2, updated=now()
	WHERE high_scores.score < $2`,
		s.key, score,
	)
	return errors.Wrap(err, "unable to upsert high score")
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
