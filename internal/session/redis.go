package session

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "goop:session:"

// RedisStore keeps sessions in Redis so they survive a backend restart.
// Keys carry no TTL, matching the in-memory store.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// DialRedis parses url, connects and pings.
func DialRedis(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, err
	}
	return rdb, nil
}

func (s *RedisStore) Create(ctx context.Context, id Identity) (string, error) {
	tok, err := NewToken()
	if err != nil {
		return "", err
	}
	b, err := json.Marshal(Session{UserID: id.UserID, Username: id.Username, Role: id.Role})
	if err != nil {
		return "", err
	}
	if err := s.rdb.Set(ctx, redisKeyPrefix+tok, b, 0).Err(); err != nil {
		return "", err
	}
	return tok, nil
}

func (s *RedisStore) Lookup(ctx context.Context, token string) (*Session, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	b, err := s.rdb.Get(ctx, redisKeyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess Session
	if err := json.Unmarshal(b, &sess); err != nil {
		return nil, err
	}
	sess.Token = token
	return &sess, nil
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, redisKeyPrefix+token).Err()
}
