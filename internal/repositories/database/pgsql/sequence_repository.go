package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PgsqlSequenceRepository hands out gapless monotonic numbers per series.
type PgsqlSequenceRepository struct {
	BaseRepository
}

func NewPgsqlSequenceRepository(pool *pgxpool.Pool) *PgsqlSequenceRepository {
	return &PgsqlSequenceRepository{BaseRepository{Pool: pool}}
}

// Next atomically increments and returns the next value for the named series,
// initializing it at start on first use. The upsert-increment runs as a single
// statement so concurrent callers can never observe the same value.
func (r *PgsqlSequenceRepository) Next(ctx context.Context, series string, start int64) (int64, error) {
	query := `
		INSERT INTO sequences (name, value)
		VALUES ($1, $2)
		ON CONFLICT (name) DO UPDATE SET value = sequences.value + 1
		RETURNING value`

	var value int64
	if err := r.Pool.QueryRow(ctx, query, series, start).Scan(&value); err != nil {
		return 0, translateError(err, "failed to advance sequence "+series)
	}
	return value, nil
}
