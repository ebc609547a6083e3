package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres reads word packs from the word_packs table.
type Postgres struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) *Postgres {
	return &Postgres{pool: pool}
}

func (p *Postgres) Categories(ctx context.Context) ([]string, error) {
	rows, err := p.pool.Query(ctx, `SELECT category FROM word_packs ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	categories, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}

func (p *Postgres) Words(ctx context.Context, category string) ([]string, error) {
	var words []string
	err := p.pool.QueryRow(ctx, `SELECT words FROM word_packs WHERE category = $1`, category).Scan(&words)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrUnknownCategory
	}
	if err != nil {
		return nil, fmt.Errorf("load words for %q: %w", category, err)
	}
	return words, nil
}

// Seed upserts packs, replacing the word list of categories that exist.
func (p *Postgres) Seed(ctx context.Context, packs Packs) error {
	if len(packs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for category, words := range packs {
		batch.Queue(`
			INSERT INTO word_packs (category, words) VALUES ($1, $2)
			ON CONFLICT (category) DO UPDATE SET words = EXCLUDED.words`,
			category, words)
	}
	if err := p.pool.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("seed word packs: %w", err)
	}
	return nil
}
