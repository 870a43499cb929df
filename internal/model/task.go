// Package model holds the value types shared by every core component:
// tasks, arrows, allocations, users and the search condition shape.
package model

import "time"

// Task is a unit of work owned by one assignee.
type Task struct {
	ID         int64      `json:"id" db:"id"`
	Title      string     `json:"title" db:"title"`
	Assign     int64      `json:"assign" db:"assign"`
	IsArchived bool       `json:"is_archived" db:"is_archived"`
	IsStarred  bool       `json:"is_starred" db:"is_starred"`
	Startable  *time.Time `json:"startable,omitempty" db:"startable"`
	Deadline   *time.Time `json:"deadline,omitempty" db:"deadline"`
	Weight     *float64   `json:"weight,omitempty" db:"weight"`
	Link       *string    `json:"link,omitempty" db:"link"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`

	// Priority and Rank are computed by the scheduler, never persisted.
	Priority *float64 `json:"priority,omitempty" db:"-"`
	Rank     *int     `json:"rank,omitempty" db:"-"`
	Schedule *Window  `json:"schedule,omitempty" db:"-"`
}

// Window is a tentative schedule slice, in wall-clock time.
type Window struct {
	L time.Time `json:"l"`
	R time.Time `json:"r"`
}

// Arrow is a directed dependency edge: Source depends on Target.
// Source is closer to a leaf, Target closer to a root.
type Arrow struct {
	Source int64 `json:"source" db:"source"`
	Target int64 `json:"target" db:"target"`
}

// User is the acting identity the core validates tasks and assigns against.
type User struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Email     string    `json:"email" db:"email"`
	Hash      string    `json:"-" db:"hash"`
	Timescale string    `json:"timescale" db:"timescale"`
	TZ        string    `json:"tz" db:"tz"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Allocation is a recurring daily work window: Hours starting at Open.
type Allocation struct {
	Owner int64     `json:"owner" db:"owner"`
	Open  time.Time `json:"open" db:"open"` // only hour/minute significant
	Hours int       `json:"hours" db:"hours"`
}
