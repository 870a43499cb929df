// Package postgres is the pgx-backed adapter for internal/repository's
// port interfaces, grounded on the teacher's shared/repository package:
// one pgxpool.Pool, plain SQL, pgx.ErrNoRows mapped to a nil result.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/satu-n/sprig/internal/repository"
)

// db is the subset of *pgxpool.Pool and pgx.Tx every adapter below needs,
// so the same repo structs run unchanged against a bare pool or an
// in-flight transaction.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// Postgres implements repository.Repository over a single connection pool.
type Postgres struct {
	pool *pgxpool.Pool
}

// Open parses dsn, connects and pings, mirroring the teacher's Init.
func Open(ctx context.Context, dsn string) (*Postgres, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close releases the pool.
func (p *Postgres) Close() {
	p.pool.Close()
}

// Ping verifies the pool can still reach the database.
func (p *Postgres) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Users() repository.Users             { return usersRepo{db: p.pool} }
func (p *Postgres) Permissions() repository.Permissions  { return permissionsRepo{db: p.pool} }
func (p *Postgres) Invitations() repository.Invitations  { return invitationsRepo{db: p.pool} }
func (p *Postgres) Tasks() repository.Tasks              { return tasksRepo{db: p.pool} }
func (p *Postgres) Arrows() repository.Arrows            { return arrowsRepo{db: p.pool} }
func (p *Postgres) Allocations() repository.Allocations  { return allocationsRepo{db: p.pool} }

// WithTx runs fn against a single transaction, committing on a nil return
// and rolling back otherwise, per spec.md §5's atomic-batch-upsert
// requirement. Grounded on the pool.Begin/tx.Rollback(defer)/tx.Commit
// shape other_examples' seed script uses for its own multi-step write.
func (p *Postgres) WithTx(ctx context.Context, fn func(repository.Repository) error) error {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if err := fn(&txRepository{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// txRepository is the same six collaborators, bound to an in-flight
// transaction instead of the pool.
type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) Users() repository.Users            { return usersRepo{db: t.tx} }
func (t *txRepository) Permissions() repository.Permissions { return permissionsRepo{db: t.tx} }
func (t *txRepository) Invitations() repository.Invitations { return invitationsRepo{db: t.tx} }
func (t *txRepository) Tasks() repository.Tasks             { return tasksRepo{db: t.tx} }
func (t *txRepository) Arrows() repository.Arrows           { return arrowsRepo{db: t.tx} }
func (t *txRepository) Allocations() repository.Allocations { return allocationsRepo{db: t.tx} }

// WithTx on an already-transactional Repository just runs fn against the
// same transaction: nesting never opens a second one.
func (t *txRepository) WithTx(ctx context.Context, fn func(repository.Repository) error) error {
	return fn(t)
}
