package store

import (
	"context"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)
	table, err := dataset.NewTable([]string{"a", "b"}, [][]string{{"1", "x"}})
	require.NoError(t, err)

	id, err := s.Create(ctx, table)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	other, err := s.Create(ctx, table)
	require.NoError(t, err)
	assert.NotEqual(t, id, other)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, table, got)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.Equal(t, ErrNotFound, err)
	assert.Equal(t, ErrNotFound, s.Delete(ctx, id))
}

func TestMemoryStoreCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewMemoryStore()
	_, err := s.Create(ctx, &dataset.Table{Headers: []string{"a"}})
	assert.Equal(t, context.Canceled, err)
}
