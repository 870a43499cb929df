package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/satu-n/sprig/internal/model"
)

type invitationsRepo struct {
	db db
}

func (r invitationsRepo) Find(ctx context.Context, token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := r.db.QueryRow(ctx, `
		SELECT token, email, created_at FROM invitations WHERE token = $1
	`, token).Scan(&inv.Token, &inv.Email, &inv.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r invitationsRepo) Insert(ctx context.Context, inv model.Invitation) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO invitations (token, email, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (token) DO NOTHING
	`, inv.Token, inv.Email, inv.CreatedAt)
	return classifyErr(err)
}
