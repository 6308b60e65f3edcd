//go:build integration

package integration

import (
	"context"
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banterlabs/banter/internal/mediacache"
)

func TestMediaCache_IngestIsIdempotentPerOrigin(t *testing.T) {
	env := SetupTestEnv(t)
	repo := mediacache.NewRepository(env.Pool)
	ctx := context.Background()

	blob := base64.StdEncoding.EncodeToString([]byte("GIF89a-test-blob"))

	inserted, err := repo.Ingest(ctx, "hash-a", "https://cdn.test/a.gif", blob)
	require.NoError(t, err)
	assert.True(t, inserted, "first ingest writes a row")

	inserted, err = repo.Ingest(ctx, "hash-a", "https://cdn.test/a.gif", blob)
	require.NoError(t, err)
	assert.False(t, inserted, "re-ingesting the same pair is a no-op")

	// Same content from a different origin is a distinct row.
	inserted, err = repo.Ingest(ctx, "hash-a", "https://cdn.test/b.gif", blob)
	require.NoError(t, err)
	assert.True(t, inserted)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestMediaCache_SampleRandom(t *testing.T) {
	env := SetupTestEnv(t)
	repo := mediacache.NewRepository(env.Pool)
	ctx := context.Background()

	blob := base64.StdEncoding.EncodeToString([]byte("GIF89a-sample"))
	_, err := repo.Ingest(ctx, "hash-sample", "https://cdn.test/s.gif", blob)
	require.NoError(t, err)

	item, err := repo.SampleRandom(ctx)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.NotEmpty(t, item.ContentHash)
	assert.NotEmpty(t, item.Base64)
	assert.False(t, item.StoredAt.IsZero())
}
