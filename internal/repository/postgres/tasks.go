package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/repository"
	"github.com/satu-n/sprig/internal/timeutil"
)

type tasksRepo struct {
	db db
}

const taskColumns = `id, title, assign, is_archived, is_starred, startable, deadline, weight, link, created_at, updated_at`

func (r tasksRepo) Find(ctx context.Context, id int64) (*model.Task, error) {
	var t model.Task
	err := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id).Scan(
		&t.ID, &t.Title, &t.Assign, &t.IsArchived, &t.IsStarred,
		&t.Startable, &t.Deadline, &t.Weight, &t.Link, &t.CreatedAt, &t.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// Filter lists owner's tasks matching cond. Date-range atoms are completed
// against the present instant in UTC: the port carries no per-call
// timezone, so a caller wanting a user's local "today" must resolve that
// before invoking Filter.
func (r tasksRepo) Filter(ctx context.Context, owner int64, cond model.Condition) ([]model.Task, error) {
	where, args := conditionSQL(owner, cond, time.Now())

	rows, err := r.db.Query(ctx, `SELECT `+taskColumns+` FROM tasks WHERE `+where+` ORDER BY id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []model.Task
	for rows.Next() {
		var t model.Task
		if err := rows.Scan(
			&t.ID, &t.Title, &t.Assign, &t.IsArchived, &t.IsStarred,
			&t.Startable, &t.Deadline, &t.Weight, &t.Link, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r tasksRepo) Insert(ctx context.Context, owner int64, patch repository.TaskPatch) (int64, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO tasks (title, assign, is_archived, is_starred, startable, deadline, weight, link)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, patch.Title, patch.Assign, patch.IsArchived, patch.IsStarred,
		patch.Startable, patch.Deadline, patch.Weight, patch.Link,
	).Scan(&id)
	_ = owner // ownership flows from assign; owner is the acting caller, checked upstream
	return id, classifyErr(err)
}

func (r tasksRepo) Update(ctx context.Context, id int64, patch repository.TaskPatch) error {
	_, err := r.db.Exec(ctx, `
		UPDATE tasks SET
			title = $1, assign = $2, is_archived = $3, is_starred = $4,
			startable = $5, deadline = $6, weight = $7, link = $8,
			updated_at = now()
		WHERE id = $9
	`, patch.Title, patch.Assign, patch.IsArchived, patch.IsStarred,
		patch.Startable, patch.Deadline, patch.Weight, patch.Link, id,
	)
	return classifyErr(err)
}

// conditionSQL translates a search Condition into a WHERE fragment and its
// positional args, grounded on the teacher's dynamic-clause style
// (UpdateTaskAIFields's setClauses/argNum build-up).
func conditionSQL(owner int64, cond model.Condition, now time.Time) (string, []interface{}) {
	clauses := []string{"assign = $1"}
	args := []interface{}{owner}
	argn := 2

	next := func(v interface{}) string {
		args = append(args, v)
		s := "$" + itoa(argn)
		argn++
		return s
	}

	if cond.Context.Lo != nil {
		clauses = append(clauses, "id >= "+next(*cond.Context.Lo))
	}
	if cond.Context.Hi != nil {
		clauses = append(clauses, "id <= "+next(*cond.Context.Hi))
	}
	if cond.Weight.Lo != nil {
		clauses = append(clauses, "weight >= "+next(*cond.Weight.Lo))
	}
	if cond.Weight.Hi != nil {
		clauses = append(clauses, "weight <= "+next(*cond.Weight.Hi))
	}

	addDateRange := func(column string, r model.Range[timeutil.PartialDateTime]) {
		if r.Lo != nil {
			if t, err := r.Lo.Complete(now, time.UTC); err == nil {
				clauses = append(clauses, column+" >= "+next(t))
			}
		}
		if r.Hi != nil {
			if t, err := r.Hi.Complete(now, time.UTC); err == nil {
				clauses = append(clauses, column+" <= "+next(t))
			}
		}
	}
	addDateRange("startable", cond.Startable)
	addDateRange("deadline", cond.Deadline)
	addDateRange("created_at", cond.CreatedAt)
	addDateRange("updated_at", cond.UpdatedAt)

	if cond.Archived != nil {
		clauses = append(clauses, "is_archived = "+next(*cond.Archived))
	}
	if cond.Starred != nil {
		clauses = append(clauses, "is_starred = "+next(*cond.Starred))
	}
	if cond.Leaf != nil {
		if *cond.Leaf {
			clauses = append(clauses, "id NOT IN (SELECT target FROM arrows)")
		} else {
			clauses = append(clauses, "id IN (SELECT target FROM arrows)")
		}
	}
	if cond.Root != nil {
		if *cond.Root {
			clauses = append(clauses, "id NOT IN (SELECT source FROM arrows)")
		} else {
			clauses = append(clauses, "id IN (SELECT source FROM arrows)")
		}
	}

	addExpr := func(column string, e *model.Expression) {
		if e == nil {
			return
		}
		if e.Kind == model.Regex {
			clauses = append(clauses, column+" ~ "+next(e.Src))
			return
		}
		for _, w := range e.List {
			clauses = append(clauses, column+" ILIKE "+next("%"+w+"%"))
		}
	}
	addExpr("title", cond.Title)
	addExpr("link", cond.Link)
	if cond.Assign != nil {
		clauses = append(clauses, "assign IN (SELECT id FROM users u WHERE TRUE")
		addExprSub := cond.Assign
		if addExprSub.Kind == model.Regex {
			clauses[len(clauses)-1] += " AND u.name ~ " + next(addExprSub.Src)
		} else {
			for _, w := range addExprSub.List {
				clauses[len(clauses)-1] += " AND u.name ILIKE " + next("%"+w+"%")
			}
		}
		clauses[len(clauses)-1] += ")"
	}

	return join(clauses, " AND "), args
}
