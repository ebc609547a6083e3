package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres stores documents in the active_rooms table as JSONB.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Get(ctx context.Context, key string) ([]byte, error) {
	var doc []byte
	err := p.pool.QueryRow(ctx, `SELECT doc FROM active_rooms WHERE room_id = $1`, key).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return doc, nil
}

func (p *Postgres) Set(ctx context.Context, key string, doc []byte) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO active_rooms (room_id, doc, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (room_id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now()`,
		key, string(doc))
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (p *Postgres) Delete(ctx context.Context, key string) error {
	if _, err := p.pool.Exec(ctx, `DELETE FROM active_rooms WHERE room_id = $1`, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// Close releases the pool. Callers sharing the pool with a content source
// should close the store last.
func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}
