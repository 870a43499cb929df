package acceptor

import (
	"time"

	"github.com/satu-n/sprig/internal/graph"
)

// TmpTaskOk is one accepted task: ID is non-nil when this declaration
// re-references an existing task (update), nil when it's a new one
// (insert). Startable/Deadline are already globalized to absolute
// instants.
type TmpTaskOk struct {
	ID        *int64
	Title     string
	Assign    int64
	IsStarred bool
	Startable *time.Time
	Deadline  *time.Time
	Weight    *float64
	Link      *string
}

// Upserter holds an accepted batch, ready to be persisted: tasks in
// insertion order plus the arrows between their (still index-based)
// positions.
type Upserter struct {
	Tasks  []TmpTaskOk
	Arrows []graph.Arrow
}
