package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/redis.v5"
)

func newStore(t *testing.T, ttl time.Duration) (store.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return New(rc, "sapling:tables", ttl), mr
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, 0)
	defer s.Close(ctx)
	table, err := dataset.NewTable([]string{"temp", "play"}, [][]string{{"30", "no"}, {"18", "yes"}})
	require.NoError(t, err)

	id, err := s.Create(ctx, table)
	require.NoError(t, err)
	assert.True(t, mr.Exists("sapling:tables:"+id))

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, table, got)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.Equal(t, store.ErrNotFound, err)
	assert.Equal(t, store.ErrNotFound, s.Delete(ctx, id))
}

func TestRedisStoreTTL(t *testing.T) {
	ctx := context.Background()
	s, mr := newStore(t, time.Minute)
	id, err := s.Create(ctx, &dataset.Table{Headers: []string{"a"}, Rows: [][]string{{"1"}}})
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL("sapling:tables:"+id))
	mr.FastForward(2 * time.Minute)
	_, err = s.Get(ctx, id)
	assert.Equal(t, store.ErrNotFound, err)
}

func TestRedisStoreCorruptData(t *testing.T) {
	s, mr := newStore(t, 0)
	require.NoError(t, mr.Set("sapling:tables:broken", "not json"))
	_, err := s.Get(context.Background(), "broken")
	assert.Error(t, err)
	assert.NotEqual(t, store.ErrNotFound, err)
}
