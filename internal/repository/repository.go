// Package repository defines the port the core consumes: named
// operations over users, permissions, invitations, tasks, arrows and
// allocations. It is transport- and store-agnostic — internal/repository/postgres
// is the one adapter this repo ships, but nothing here depends on it.
package repository

import (
	"context"
	"time"

	"github.com/satu-n/sprig/internal/model"
)

// UserPatch carries only the fields an update should change; a nil
// pointer leaves that field untouched.
type UserPatch struct {
	Name      *string
	Email     *string
	Hash      *string
	Timescale *string
	TZ        *string
}

// TaskPatch carries every field an upsert writes. Unlike UserPatch, the
// pointer fields here are meaningful even when nil: the Acceptor always
// rebuilds a task's full attribute set from the parsed batch, so a nil
// Startable/Deadline/Weight/Link means "clear to NULL", never "leave
// alone" — there is no partial-update path for tasks.
type TaskPatch struct {
	Title      string
	Assign     int64
	IsArchived bool
	IsStarred  bool
	Startable  *time.Time
	Deadline   *time.Time
	Weight     *float64
	Link       *string
}

// Users is the user-identity collaborator.
type Users interface {
	Find(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByName(ctx context.Context, name string) (*model.User, error)
	Update(ctx context.Context, id int64, patch UserPatch) error
}

// Permissions answers "may subject edit/view object" checks.
type Permissions interface {
	Exists(ctx context.Context, subject, object int64, edit bool) (bool, error)
	Insert(ctx context.Context, subject, object int64, edit bool) error
}

// Invitations is named by the port though registration stays out of
// the core's scope.
type Invitations interface {
	Find(ctx context.Context, token string) (*model.Invitation, error)
	Insert(ctx context.Context, inv model.Invitation) error
}

// Tasks is the task collaborator: point lookups, the condition-filtered
// listing used by /s and the scheduler's read path, and the Upserter's
// insert/update primitives.
type Tasks interface {
	Find(ctx context.Context, id int64) (*model.Task, error)
	Filter(ctx context.Context, owner int64, cond model.Condition) ([]model.Task, error)
	Insert(ctx context.Context, owner int64, patch TaskPatch) (int64, error)
	Update(ctx context.Context, id int64, patch TaskPatch) error
}

// Arrows is the dependency-edge collaborator.
type Arrows interface {
	LoadAll(ctx context.Context, owner int64) ([]model.Arrow, error)
	LoadAmong(ctx context.Context, ids []int64) ([]model.Arrow, error)
	InsertMany(ctx context.Context, arrows []model.Arrow) error
}

// Allocations is the weekly-allocation collaborator.
type Allocations interface {
	Filter(ctx context.Context, owner int64) ([]model.Allocation, error)
	DeleteByOwner(ctx context.Context, owner int64) error
	InsertMany(ctx context.Context, allocs []model.Allocation) error
}

// Repository groups every collaborator the core calls out to, so a
// single value can be threaded through the Acceptor and the scheduler's
// read path.
type Repository interface {
	Users() Users
	Permissions() Permissions
	Invitations() Invitations
	Tasks() Tasks
	Arrows() Arrows
	Allocations() Allocations

	// WithTx runs fn against a single transaction: every call fn makes
	// through the Repository it is passed commits together on a nil
	// return and rolls back together otherwise. The Upserter uses this
	// to keep one batch's task/arrow writes atomic.
	WithTx(ctx context.Context, fn func(Repository) error) error
}
