package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/mandeell/Mandel-Blog-Complete/internal/observability"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestConnect(t *testing.T) {
	t.Run("empty address disables redis", func(t *testing.T) {
		assert.Nil(t, Connect("  "))
	})

	t.Run("invalid url disables redis", func(t *testing.T) {
		assert.Nil(t, Connect("redis://:bad@host:notaport"))
	})

	t.Run("unreachable server disables redis", func(t *testing.T) {
		mr, err := miniredis.Run()
		require.NoError(t, err)
		addr := mr.Addr()
		mr.Close()
		assert.Nil(t, Connect(addr))
	})

	for _, form := range []string{"%s", "redis://%s/0"} {
		t.Run("reachable server "+form, func(t *testing.T) {
			mr, err := miniredis.Run()
			require.NoError(t, err)
			defer mr.Close()

			rdb := Connect(fmt.Sprintf(form, mr.Addr()))
			require.NotNil(t, rdb)
			_ = rdb.Close()
		})
	}
}

func TestErrorCounter(t *testing.T) {
	before := testutil.ToFloat64(observability.RedisErrors.WithLabelValues("get"))

	mr, rdb := setupMiniredis(t)
	rdb.AddHook(errorCounter{})
	ctx := context.Background()

	require.ErrorIs(t, rdb.Get(ctx, "missing").Err(), redis.Nil)
	assert.Equal(t, before, testutil.ToFloat64(observability.RedisErrors.WithLabelValues("get")), "misses are not counted")

	mr.Close()
	require.Error(t, rdb.Get(ctx, "missing").Err())
	assert.Equal(t, before+1, testutil.ToFloat64(observability.RedisErrors.WithLabelValues("get")))
}

func TestSessionStorage_RoundTrip(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	store := NewSessionStorage(rdb)

	val, err := store.Get("missing")
	require.NoError(t, err)
	assert.Nil(t, val)

	require.NoError(t, store.Set("abc", []byte("payload"), time.Hour))
	assert.True(t, mr.Exists(SessionKey("abc")))
	assert.Equal(t, time.Hour, mr.TTL(SessionKey("abc")))

	val, err = store.Get("abc")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), val)

	require.NoError(t, store.Delete("abc"))
	assert.False(t, mr.Exists("session:abc"))
}

func TestSessionStorage_DefaultTTLAndExpiry(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	store := NewSessionStorage(rdb)

	require.NoError(t, store.Set("ttl", []byte("x"), 0))
	assert.Equal(t, DefaultSessionTTL, mr.TTL("session:ttl"))

	mr.FastForward(DefaultSessionTTL + time.Second)
	val, err := store.Get("ttl")
	require.NoError(t, err)
	assert.Nil(t, val)
}

func TestSessionStorage_ResetOnlyTouchesSessions(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	store := NewSessionStorage(rdb)

	require.NoError(t, store.Set("one", []byte("1"), time.Hour))
	require.NoError(t, store.Set("two", []byte("2"), time.Hour))
	require.NoError(t, mr.Set("rl:login:ip:1.2.3.4", "3"))

	require.NoError(t, store.Reset())
	assert.False(t, mr.Exists("session:one"))
	assert.False(t, mr.Exists("session:two"))
	assert.True(t, mr.Exists("rl:login:ip:1.2.3.4"))
	assert.NoError(t, store.Close())
}

func TestCSRFStorage_UsesOwnPrefix(t *testing.T) {
	mr, rdb := setupMiniredis(t)
	sessions := NewSessionStorage(rdb)
	tokens := NewCSRFStorage(rdb)

	require.NoError(t, sessions.Set("shared", []byte("s"), time.Hour))
	require.NoError(t, tokens.Set("shared", []byte("t"), time.Hour))
	assert.True(t, mr.Exists("csrf:shared"))

	require.NoError(t, tokens.Reset())
	assert.False(t, mr.Exists("csrf:shared"))
	assert.True(t, mr.Exists("session:shared"))

	val, err := sessions.Get("shared")
	require.NoError(t, err)
	assert.Equal(t, []byte("s"), val)
}
