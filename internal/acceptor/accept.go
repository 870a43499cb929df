package acceptor

import (
	"context"
	"time"

	"github.com/satu-n/sprig/internal/apperr"
	"github.com/satu-n/sprig/internal/dsl"
	"github.com/satu-n/sprig/internal/graph"
	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/repository"
	"github.com/satu-n/sprig/internal/timeutil"
)

// titlePrefixLen is how many runes of a title are quoted back in the
// deadline-before-startable error message.
const titlePrefixLen = 8

// rejectCycle returns a BadRequest error if arrows contains a cycle.
// Dissemble's own output can never cycle (every arrow's source index
// exceeds its target's, by construction), so this is split out to let
// the Acceptor's cycle-rejection wiring be exercised directly against a
// hand-built, genuinely cyclic graph.Arrows.
func rejectCycle(arrows graph.Arrows) error {
	if arrows.HasCycle() {
		return apperr.NewBadRequest("loop found.")
	}
	return nil
}

// Accept runs the Acceptor's five checks, in order, short-circuiting on
// the first failure, and returns an Upserter ready to persist.
func Accept(ctx context.Context, tasks []dsl.ReqTask, user model.User, repo repository.Repository) (*Upserter, error) {
	now := time.Now()

	edges := Dissemble(tasks)
	arrows := graph.New(edges)

	// 1. no_loop
	if err := rejectCycle(arrows); err != nil {
		return nil, err
	}

	startables := make([]*time.Time, len(tasks))
	deadlines := make([]*time.Time, len(tasks))
	for i, t := range tasks {
		if t.Attribute.Startable != nil {
			inst, err := timeutil.Globalize(*t.Attribute.Startable, user.TZ, now)
			if err != nil {
				return nil, apperr.NewBadRequest("failed to interpret datetime")
			}
			startables[i] = &inst
		}
		if t.Attribute.Deadline != nil {
			inst, err := timeutil.Globalize(*t.Attribute.Deadline, user.TZ, now)
			if err != nil {
				return nil, apperr.NewBadRequest("failed to interpret datetime")
			}
			deadlines[i] = &inst
		}
	}

	// 2. valid_sd
	for i, t := range tasks {
		if startables[i] != nil && deadlines[i] != nil && deadlines[i].Before(*startables[i]) {
			runes := []rune(t.Attribute.Title)
			prefix := string(runes)
			if len(runes) > titlePrefixLen {
				prefix = string(runes[:titlePrefixLen])
			}
			return nil, apperr.NewBadRequest("%s... deadline then startable.", prefix)
		}
	}

	// 3. valid_tid_use
	seen := map[int64]bool{}
	for _, t := range tasks {
		if t.Attribute.ID == nil {
			continue
		}
		id := *t.Attribute.ID
		if seen[id] {
			return nil, apperr.NewBadRequest("duplicate id in batch: %d", id)
		}
		seen[id] = true
	}
	for _, path := range arrows.Paths() {
		count := 0
		for _, idx := range path {
			if tasks[idx].Attribute.ID != nil {
				count++
			}
		}
		if count > 1 {
			return nil, apperr.NewBadRequest("more than one existing id on a single path")
		}
	}

	// 4. valid_tid
	for _, t := range tasks {
		if t.Attribute.ID == nil {
			continue
		}
		id := *t.Attribute.ID
		existing, err := repo.Tasks().Find(ctx, id)
		if err != nil {
			return nil, apperr.Wrap(err)
		}
		if existing == nil {
			return nil, apperr.NewBadRequest("task %d not found", id)
		}
		ok, err := repo.Permissions().Exists(ctx, user.ID, id, true)
		if err != nil {
			return nil, apperr.Wrap(err)
		}
		if !ok {
			return nil, apperr.NewBadRequest("no edit permission on task %d", id)
		}
	}

	// 5. valid_assign
	assignees := make([]int64, len(tasks))
	for i, t := range tasks {
		if t.Attribute.Assign == nil {
			assignees[i] = user.ID
			continue
		}
		target, err := repo.Users().FindByName(ctx, *t.Attribute.Assign)
		if err != nil {
			return nil, apperr.Wrap(err)
		}
		if target == nil {
			return nil, apperr.NewBadRequest("user %q not found", *t.Attribute.Assign)
		}
		ok, err := repo.Permissions().Exists(ctx, user.ID, target.ID, true)
		if err != nil {
			return nil, apperr.Wrap(err)
		}
		if !ok {
			return nil, apperr.NewBadRequest("no edit permission to assign to %q", *t.Attribute.Assign)
		}
		assignees[i] = target.ID
	}

	tmp := make([]TmpTaskOk, len(tasks))
	for i, t := range tasks {
		tmp[i] = TmpTaskOk{
			ID:        t.Attribute.ID,
			Title:     t.Attribute.Title,
			Assign:    assignees[i],
			IsStarred: t.Attribute.IsStarred,
			Startable: startables[i],
			Deadline:  deadlines[i],
			Weight:    t.Attribute.Weight,
			Link:      t.Link,
		}
	}

	return &Upserter{Tasks: tmp, Arrows: edges}, nil
}
