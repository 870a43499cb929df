package acceptor

import (
	"context"

	"github.com/satu-n/sprig/internal/apperr"
	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/repository"
)

// Upsert inserts or updates each task in order, capturing the id it was
// assigned (existing or new) into permanents, then remaps every arrow
// through permanents and bulk-inserts them. The whole batch runs inside
// one transaction (spec.md §5: a request's upsert is atomic), so a
// failure partway through never leaves some tasks written and others not.
func (u *Upserter) Upsert(ctx context.Context, repo repository.Repository, owner int64) (created, updated int, err error) {
	txErr := repo.WithTx(ctx, func(tx repository.Repository) error {
		permanents := make([]int64, len(u.Tasks))
		var c, upd int

		for i, t := range u.Tasks {
			patch := repository.TaskPatch{
				Title:     t.Title,
				Assign:    t.Assign,
				IsStarred: t.IsStarred,
				Startable: t.Startable,
				Deadline:  t.Deadline,
				Weight:    t.Weight,
				Link:      t.Link,
			}

			if t.ID != nil {
				if e := tx.Tasks().Update(ctx, *t.ID, patch); e != nil {
					return apperr.Wrap(e)
				}
				permanents[i] = *t.ID
				upd++
				continue
			}

			id, e := tx.Tasks().Insert(ctx, owner, patch)
			if e != nil {
				return apperr.Wrap(e)
			}
			permanents[i] = id
			c++
		}

		if len(u.Arrows) > 0 {
			remapped := make([]model.Arrow, len(u.Arrows))
			for i, a := range u.Arrows {
				remapped[i] = model.Arrow{
					Source: permanents[a.Source],
					Target: permanents[a.Target],
				}
			}
			if e := tx.Arrows().InsertMany(ctx, remapped); e != nil {
				return apperr.Wrap(e)
			}
		}

		created, updated = c, upd
		return nil
	})
	if txErr != nil {
		return 0, 0, apperr.Wrap(txErr)
	}

	return created, updated, nil
}
