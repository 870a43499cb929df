package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/repository"
)

type usersRepo struct {
	db db
}

func (r usersRepo) Find(ctx context.Context, id int64) (*model.User, error) {
	return r.scanOne(ctx, `
		SELECT id, name, email, hash, timescale, tz, created_at, updated_at
		FROM users WHERE id = $1
	`, id)
}

func (r usersRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanOne(ctx, `
		SELECT id, name, email, hash, timescale, tz, created_at, updated_at
		FROM users WHERE email = $1
	`, email)
}

func (r usersRepo) FindByName(ctx context.Context, name string) (*model.User, error) {
	return r.scanOne(ctx, `
		SELECT id, name, email, hash, timescale, tz, created_at, updated_at
		FROM users WHERE name = $1
	`, name)
}

func (r usersRepo) scanOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var u model.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&u.ID, &u.Name, &u.Email, &u.Hash, &u.Timescale, &u.TZ, &u.CreatedAt, &u.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r usersRepo) Update(ctx context.Context, id int64, patch repository.UserPatch) error {
	setClauses := make([]string, 0, 5)
	args := make([]interface{}, 0, 6)
	argn := 1

	add := func(column string, v interface{}) {
		setClauses = append(setClauses, column+" = $"+itoa(argn))
		args = append(args, v)
		argn++
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.Hash != nil {
		add("hash", *patch.Hash)
	}
	if patch.Timescale != nil {
		add("timescale", *patch.Timescale)
	}
	if patch.TZ != nil {
		add("tz", *patch.TZ)
	}
	if len(setClauses) == 0 {
		return nil
	}

	setClauses = append(setClauses, "updated_at = now()")
	args = append(args, id)
	query := "UPDATE users SET " + join(setClauses, ", ") + " WHERE id = $" + itoa(argn)

	_, err := r.db.Exec(ctx, query, args...)
	return classifyErr(err)
}
