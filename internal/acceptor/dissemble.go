// Package acceptor turns a parsed TaskBatch into arrows between task
// indices, structurally validates the batch against the repository, and
// upserts it.
package acceptor

import (
	"github.com/satu-n/sprig/internal/dsl"
	"github.com/satu-n/sprig/internal/graph"
)

// Dissemble builds arrows between task indices (not ids yet) by two
// rules, both iterated from the last task to the first:
//
//  1. Indent: the nearest prior task with strictly smaller indent
//     becomes the target.
//  2. Joint: every prior task whose joint_tail equals this task's
//     joint_head (both present) becomes a target.
//
// Both rules may fire for the same task; duplicates are left as-is, the
// Upserter inserts them unchanged.
func Dissemble(tasks []dsl.ReqTask) []graph.Arrow {
	var arrows []graph.Arrow

	for src := len(tasks) - 1; src >= 0; src-- {
		t := tasks[src]

		for tgt := src - 1; tgt >= 0; tgt-- {
			if tasks[tgt].Indent < t.Indent {
				arrows = append(arrows, graph.Arrow{Source: int64(src), Target: int64(tgt)})
				break
			}
		}

		if t.Attribute.JointHead != nil {
			for tgt := src - 1; tgt >= 0; tgt-- {
				tail := tasks[tgt].Attribute.JointTail
				if tail != nil && *tail == *t.Attribute.JointHead {
					arrows = append(arrows, graph.Arrow{Source: int64(src), Target: int64(tgt)})
				}
			}
		}
	}

	return arrows
}
