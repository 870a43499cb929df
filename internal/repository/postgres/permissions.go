package postgres

import (
	"context"
)

type permissionsRepo struct {
	db db
}

// Exists reports whether subject has at least the requested permission on
// object: edit permission subsumes view permission. object is polymorphic
// across the Acceptor's two call sites (a task id for valid_tid, a user
// id for valid_assign), so no foreign key ties it to either table, and
// three independent routes grant access: subject is object itself
// (assigning to oneself), object is a task subject already owns
// (editing one's own task), or an explicit permissions row says so.
func (r permissionsRepo) Exists(ctx context.Context, subject, object int64, edit bool) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `
		SELECT
			$1 = $2
			OR EXISTS (SELECT 1 FROM tasks WHERE id = $2 AND assign = $1)
			OR EXISTS (
				SELECT 1 FROM permissions
				WHERE subject = $1 AND object = $2 AND (can_edit OR NOT $3)
			)
	`, subject, object, edit).Scan(&ok)
	return ok, err
}

func (r permissionsRepo) Insert(ctx context.Context, subject, object int64, edit bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO permissions (subject, object, can_edit)
		VALUES ($1, $2, $3)
		ON CONFLICT (subject, object) DO UPDATE SET can_edit = $3
	`, subject, object, edit)
	return classifyErr(err)
}
