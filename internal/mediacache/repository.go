package mediacache

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository is the content-addressed media store backed by the gifs table.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new media cache Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Ingest stores an encoded blob under (contentHash, originRef). Re-ingesting
// an existing pair is a silent no-op; the return value reports whether a new
// row was written.
func (r *Repository) Ingest(ctx context.Context, contentHash, originRef, base64 string) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO gifs (base64, hash, origin_ref) VALUES ($1, $2, $3)
		 ON CONFLICT (hash, origin_ref) DO NOTHING`,
		base64, contentHash, originRef)
	if err != nil {
		return false, fmt.Errorf("ingesting media %s: %w", contentHash, err)
	}
	return tag.RowsAffected() > 0, nil
}

// SampleRandom returns one stored item picked uniformly at random, or nil
// when the cache is empty.
func (r *Repository) SampleRandom(ctx context.Context) (*Item, error) {
	var item Item
	err := r.pool.QueryRow(ctx,
		`SELECT base64, hash, origin_ref, time FROM gifs ORDER BY random() LIMIT 1`).
		Scan(&item.Base64, &item.ContentHash, &item.OriginRef, &item.StoredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("sampling media: %w", err)
	}
	return &item, nil
}

// Count returns the number of stored items.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM gifs`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting media: %w", err)
	}
	return n, nil
}
