package session

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenShape(t *testing.T) {
	a, err := NewToken()
	require.NoError(t, err)
	b, err := NewToken()
	require.NoError(t, err)

	assert.Len(t, a, 64)
	assert.NotContains(t, a, "-")
	assert.NotEqual(t, a, b)
}

// exerciseStore runs the behaviour every Store implementation shares.
func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	tok, err := s.Create(ctx, Identity{UserID: "u1", Username: "alice", Role: "user"})
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	got, err := s.Lookup(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, &Session{Token: tok, UserID: "u1", Username: "alice", Role: "user"}, got)

	other, err := s.Create(ctx, Identity{UserID: "u1", Username: "alice", Role: "user"})
	require.NoError(t, err)
	assert.NotEqual(t, tok, other)

	require.NoError(t, s.Destroy(ctx, tok))
	_, err = s.Lookup(ctx, tok)
	assert.ErrorIs(t, err, ErrNotFound)

	// The second login is unaffected by the first logout.
	_, err = s.Lookup(ctx, other)
	assert.NoError(t, err)

	// Unknown and empty tokens.
	assert.NoError(t, s.Destroy(ctx, "nope"))
	assert.NoError(t, s.Destroy(ctx, ""))
	_, err = s.Lookup(ctx, "")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.Lookup(ctx, "nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	exerciseStore(t, s)
	assert.Equal(t, 1, s.Len())
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	s := NewRedisStore(rdb)
	exerciseStore(t, s)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Contains(t, keys[0], redisKeyPrefix)
	assert.Zero(t, mr.TTL(keys[0]))
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := DialRedis(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer rdb.Close()

	_, err = DialRedis(context.Background(), "not a url")
	assert.Error(t, err)
}
