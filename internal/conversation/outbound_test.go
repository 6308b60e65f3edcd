package conversation

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupOutbound(t *testing.T, bound int) *OutboundStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewOutboundStore(client, bound)
}

func TestOutboundStore_PushAndRecent(t *testing.T) {
	store := setupOutbound(t, 10)
	ctx := context.Background()

	require.NoError(t, store.Push(ctx, "c1", "m1"))
	require.NoError(t, store.Push(ctx, "c1", "m2"))

	ids, err := store.Recent(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, []string{"m1", "m2"}, ids)
}

func TestOutboundStore_TrimsToBound(t *testing.T) {
	store := setupOutbound(t, 10)
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		require.NoError(t, store.Push(ctx, "c1", fmt.Sprintf("m%d", i)))
	}

	ids, err := store.Recent(ctx, "c1")
	require.NoError(t, err)
	assert.Len(t, ids, 10)
	assert.Equal(t, "m5", ids[0])
	assert.Equal(t, "m14", ids[9])
}

func TestOutboundStore_IsolatedPerConversation(t *testing.T) {
	store := setupOutbound(t, 10)
	ctx := context.Background()

	require.NoError(t, store.Push(ctx, "c1", "m1"))

	ids, err := store.Recent(ctx, "c2")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
