package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-sendmoney/pkg/store"
)

func TestMemoryCopiesBlobs(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.Get(ctx, "requests")
	require.ErrorIs(t, err, store.ErrNotFound)

	payload := []byte("abc")
	require.NoError(t, m.Put(ctx, "requests", payload))
	payload[0] = 'x'

	got, err := m.Get(ctx, "requests")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(got))

	got[1] = 'y'
	again, err := m.Get(ctx, "requests")
	require.NoError(t, err)
	assert.Equal(t, "abc", string(again))
}

func TestZeroMemoryIsUsable(t *testing.T) {
	var m store.Memory
	require.NoError(t, m.Put(context.Background(), "k", []byte("v")))
}
