package cache

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ivan-nizamov/qrfolio/qrcode"
)

func encode(t *testing.T, payload string) *qrcode.Matrix {
	t.Helper()
	m, err := qrcode.Encode([]byte(payload), qrcode.M, nil)
	require.NoError(t, err)
	return m
}

func TestKey(t *testing.T) {
	base := Key([]byte("HELLO"), qrcode.M, nil)
	assert.Len(t, base, 64)
	assert.Equal(t, base, Key([]byte("HELLO"), qrcode.M, &qrcode.Options{}))
	assert.Equal(t, base, Key([]byte("HELLO"), qrcode.M, &qrcode.Options{Verify: true}))

	others := []string{
		Key([]byte("HELLO"), qrcode.H, nil),
		Key([]byte("HELLO!"), qrcode.M, nil),
		Key([]byte("HELLO"), qrcode.M, &qrcode.Options{Version: 5}),
		Key([]byte("HELLO"), qrcode.M, &qrcode.Options{Mask: qrcode.ForceMask(0)}),
		Key([]byte("HELLO"), qrcode.M, &qrcode.Options{Mode: qrcode.ModeByte}),
		Key([]byte("HELLO"), qrcode.M, &qrcode.Options{CharacterSet: "ISO-8859-1"}),
		Key([]byte("HELLO"), qrcode.M, &qrcode.Options{Version: 256}),
		Key([]byte("HELLO"), qrcode.M, &qrcode.Options{Mask: qrcode.ForceMask(255)}),
		Key([]byte("HELLO"), qrcode.M, &qrcode.Options{Mask: qrcode.ForceMask(-1)}),
	}
	seen := map[string]bool{base: true}
	for _, k := range others {
		assert.False(t, seen[k], k)
		seen[k] = true
	}
}

func TestMemoryLRU(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(2)
	a, b, d := encode(t, "A"), encode(t, "B"), encode(t, "D")

	require.NoError(t, c.Set(ctx, "a", a))
	require.NoError(t, c.Set(ctx, "b", b))

	got, ok, err := c.Get(ctx, "a")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Same(t, a, got)

	// "b" is now least recently used.
	require.NoError(t, c.Set(ctx, "d", d))
	assert.Equal(t, 2, c.Len())
	_, ok, _ = c.Get(ctx, "b")
	assert.False(t, ok)
	_, ok, _ = c.Get(ctx, "a")
	assert.True(t, ok)

	require.NoError(t, c.Set(ctx, "a", d))
	got, _, _ = c.Get(ctx, "a")
	assert.Same(t, d, got)
	assert.Equal(t, 2, c.Len())
}

func TestMemoryConcurrent(t *testing.T) {
	ctx := context.Background()
	c := NewMemory(0)
	m := encode(t, "X")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				key := fmt.Sprintf("%d-%d", i, j)
				assert.NoError(t, c.Set(ctx, key, m))
				_, _, err := c.Get(ctx, key)
				assert.NoError(t, err)
			}
		}(i)
	}
	wg.Wait()
	assert.Equal(t, DefaultMemoryEntries, c.Len())
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := NewRedis(client, WithPrefix("test:"), WithTTL(time.Minute))

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	m := encode(t, "https://ivan-nizamov.github.io/")
	require.NoError(t, store.Set(ctx, "k", m))
	assert.True(t, mr.Exists("test:k"))
	assert.Equal(t, time.Minute, mr.TTL("test:k"))

	got, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, m.Equal(got))

	mr.FastForward(2 * time.Minute)
	_, ok, err = store.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := NewRedis(client)

	require.NoError(t, mr.Set("qrfolio:matrix:bad", "garbage"))
	_, ok, err := store.Get(ctx, "bad")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, mr.Exists("qrfolio:matrix:bad"))
}

func TestRedisServerError(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := NewRedis(client)
	mr.SetError("boom")

	_, _, err := store.Get(ctx, "k")
	assert.Error(t, err)
	assert.Error(t, store.Set(ctx, "k", encode(t, "A")))
}

func TestConnect(t *testing.T) {
	ctx := context.Background()
	_, err := Connect(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyConnectionURL)

	_, err = Connect(ctx, "http://nope")
	assert.ErrorIs(t, err, ErrParseConnectionURL)

	mr := miniredis.RunT(t)
	client, err := Connect(ctx, "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	assert.NoError(t, client.Close())
}
