package eventlog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository handles logs table PostgreSQL operations.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new event log Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert persists a single log record.
func (r *Repository) Insert(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	_, err := r.pool.Exec(ctx,
		`INSERT INTO logs (id, event, type, text, actor_id, time)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		rec.ID, rec.Event, nullable(rec.Subtype), nullable(rec.Payload),
		nullable(rec.ActorID), rec.Time)
	if err != nil {
		return fmt.Errorf("inserting log record: %w", err)
	}
	return nil
}

// ListRecent returns the most recent records, newest first.
func (r *Repository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit < 1 || limit > 500 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, event, COALESCE(type, ''), COALESCE(text, ''), COALESCE(actor_id, ''), time
		 FROM logs ORDER BY time DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying log records: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Event, &rec.Subtype, &rec.Payload, &rec.ActorID, &rec.Time); err != nil {
			return nil, fmt.Errorf("scanning log record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
