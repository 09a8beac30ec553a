package redisstore

import (
	"context"
	"strconv"

	"github.com/battlesnakeio/arcade/highscore"
	"github.com/go-redis/redis"
	"github.com/pkg/errors"
)

// raiseScript sets KEYS[1] to ARGV[1] only when it beats the stored value, so
// concurrent games can never lower the high score.
var raiseScript = redis.NewScript(`
local current = tonumber(redis.call("GET", KEYS[1]) or "0") or 0
local score = tonumber(ARGV[1])
if score > current then
  redis.call("SET", KEYS[1], ARGV[1])
  return score
end
return current
`)

// Store keeps the high score in a single redis string key.
type Store struct {
	client *redis.Client
	key    string
}

// NewStore connects to the redis server at connectURL (redis://host:port/db)
// and pings it. The returned store owns the client and is safe to share.
func NewStore(connectURL string) (*Store, error) {
	o, err := redis.ParseURL(connectURL)
	if err != nil {
		return nil, errors.Wrap(err, "unable to parse redis URL")
	}

	client := redis.NewClient(o)

	// Validate it's connected
	err = client.Ping().Err()
	if err != nil {
		return nil, errors.Wrap(err, "unable to connect")
	}

	return &Store{client: client, key: highscore.Key}, nil
}

// Get returns the stored high score, zero when the key is missing.
func (rs *Store) Get(ctx context.Context) (int, error) {
	val, err := rs.client.WithContext(ctx).Get(rs.key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrap(err, "unable to get high score")
	}
	score, err := strconv.Atoi(val)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid high score %q", val)
	}
	return score, nil
}

// Put raises the stored high score to score.
func (rs *Store) Put(ctx context.Context, score int) error {
	err := raiseScript.Run(rs.client.WithContext(ctx), []string{rs.key}, score).Err()
	return errors.Wrap(err, "unable to put high score")
}

// Close closes the underlying redis client.
func (rs *Store) Close() error {
	return rs.client.Close()
}
