package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/satu-n/sprig/internal/model"
)

type allocationsRepo struct {
	db db
}

func (r allocationsRepo) Filter(ctx context.Context, owner int64) ([]model.Allocation, error) {
	rows, err := r.db.Query(ctx, `
		SELECT owner, open, hours FROM allocations WHERE owner = $1 ORDER BY open
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allocs []model.Allocation
	for rows.Next() {
		var a model.Allocation
		if err := rows.Scan(&a.Owner, &a.Open, &a.Hours); err != nil {
			return nil, err
		}
		allocs = append(allocs, a)
	}
	return allocs, rows.Err()
}

func (r allocationsRepo) DeleteByOwner(ctx context.Context, owner int64) error {
	_, err := r.db.Exec(ctx, `DELETE FROM allocations WHERE owner = $1`, owner)
	return classifyErr(err)
}

func (r allocationsRepo) InsertMany(ctx context.Context, allocs []model.Allocation) error {
	if len(allocs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range allocs {
		batch.Queue(`
			INSERT INTO allocations (owner, open, hours) VALUES ($1, $2, $3)
		`, a.Owner, a.Open, a.Hours)
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range allocs {
		if _, err := br.Exec(); err != nil {
			return classifyErr(err)
		}
	}
	return nil
}
