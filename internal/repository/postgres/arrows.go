package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/satu-n/sprig/internal/model"
)

type arrowsRepo struct {
	db db
}

func (r arrowsRepo) LoadAll(ctx context.Context, owner int64) ([]model.Arrow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT a.source, a.target
		FROM arrows a
		JOIN tasks t ON t.id = a.source
		WHERE t.assign = $1
	`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArrows(rows)
}

func (r arrowsRepo) LoadAmong(ctx context.Context, ids []int64) ([]model.Arrow, error) {
	rows, err := r.db.Query(ctx, `
		SELECT source, target FROM arrows
		WHERE source = ANY($1) AND target = ANY($1)
	`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanArrows(rows)
}

func scanArrows(rows pgx.Rows) ([]model.Arrow, error) {
	var arrows []model.Arrow
	for rows.Next() {
		var a model.Arrow
		if err := rows.Scan(&a.Source, &a.Target); err != nil {
			return nil, err
		}
		arrows = append(arrows, a)
	}
	return arrows, rows.Err()
}

func (r arrowsRepo) InsertMany(ctx context.Context, arrows []model.Arrow) error {
	if len(arrows) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, a := range arrows {
		batch.Queue(`
			INSERT INTO arrows (source, target) VALUES ($1, $2)
			ON CONFLICT DO NOTHING
		`, a.Source, a.Target)
	}
	br := r.db.SendBatch(ctx, batch)
	defer br.Close()
	for range arrows {
		if _, err := br.Exec(); err != nil {
			return classifyErr(err)
		}
	}
	return nil
}
