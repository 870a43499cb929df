// Package scheduler computes per-task priority, rank and a tentative
// schedule window from a dependency DAG and a set of weekly allocations,
// by a deadline-aware greedy leaf-first walk over allocated work-time.
package scheduler

import (
	"math"
	"sort"
	"time"

	"github.com/satu-n/sprig/internal/graph"
	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/timeutil"
)

// hoursToSeconds converts the hours unit tasks store weight in to the
// seconds unit the main loop's cursor runs in.
const hoursToSeconds = 3600

// entry is one task's working state inside the main loop, all fields
// expressed in allocated seconds.
type entry struct {
	startable *float64
	deadline  *float64
	weight    *float64
	priority  *float64
	rank      *int
}

// Result is one task's computed priority (in hours), rank and tentative
// wall-clock schedule window.
type Result struct {
	ID       int64
	Priority *float64
	Rank     int
	Schedule *model.Window
}

// Schedule runs the SubSorter main loop over tasks and arrows, splicing
// startable/deadline through the user's allocations, and returns one
// Result per task: starred tasks first, rank ascending within each group.
func Schedule(tasks []model.Task, arrowEdges []model.Arrow, allocations []model.Allocation, loc *time.Location, now time.Time) []Result {
	allocs := make([]timeutil.Alloc, len(allocations))
	for i, a := range allocations {
		allocs[i] = timeutil.Alloc{Open: a.Open, Hours: a.Hours}
	}
	daily := dailySeconds(allocs)

	entries := make(map[int64]*entry, len(tasks))
	starred := make(map[int64]bool, len(tasks))
	ids := make([]int64, 0, len(tasks))
	for _, t := range tasks {
		e := &entry{}
		if t.Startable != nil {
			v := Splice(now, *t.Startable, allocs, loc)
			e.startable = &v
		}
		if t.Deadline != nil {
			v := Splice(now, *t.Deadline, allocs, loc)
			e.deadline = &v
		}
		if t.Weight != nil {
			v := *t.Weight * hoursToSeconds
			e.weight = &v
		}
		entries[t.ID] = e
		starred[t.ID] = t.IsStarred
		ids = append(ids, t.ID)
	}

	edges := make([]graph.Arrow, len(arrowEdges))
	for i, a := range arrowEdges {
		edges[i] = graph.Arrow{Source: a.Source, Target: a.Target}
	}
	arrows := graph.New(edges)

	runLoop(ids, arrows, entries)

	results := make([]Result, 0, len(tasks))
	for _, id := range ids {
		e := entries[id]

		var prio *float64
		if e.priority != nil {
			h := *e.priority / hoursToSeconds
			prio = &h
		}

		rank := 0
		if e.rank != nil {
			rank = *e.rank
		}

		var sched *model.Window
		if daily > 0 && e.startable != nil && e.deadline != nil {
			l, okL := Unsplice(now, *e.startable, allocs, loc)
			r, okR := Unsplice(now, *e.deadline, allocs, loc)
			if okL && okR {
				sched = &model.Window{L: l, R: r}
			}
		}

		results = append(results, Result{ID: id, Priority: prio, Rank: rank, Schedule: sched})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if starred[results[i].ID] != starred[results[j].ID] {
			return starred[results[i].ID]
		}
		return results[i].Rank < results[j].Rank
	})

	return results
}

// runLoop is the SubSorter main loop: repeatedly pick the highest-priority
// startable leaf, assign it the next rank and a startable/deadline slice of
// the cursor, then remove it from the graph and advance the cursor by its
// weight.
func runLoop(ids []int64, arrows graph.Arrows, entries map[int64]*entry) {
	arrows = arrows.Clone()

	remaining := make(map[int64]bool, len(ids))
	for _, id := range ids {
		remaining[id] = true
	}

	cursor := 0.0
	rank := 0
	for len(remaining) > 0 {
		candidates := make([]int64, 0, len(remaining))
		for id := range remaining {
			candidates = append(candidates, id)
		}
		sort.Slice(candidates, func(i, j int) bool { return candidates[i] < candidates[j] })

		winner, prio, found := pickWinner(cursor, candidates, arrows, entries)
		if !found {
			cursor++
			continue
		}

		e := entries[winner]
		e.priority = prio
		r := rank
		e.rank = &r
		rank++

		st := cursor
		e.startable = &st

		w := 0.0
		if e.weight != nil {
			w = *e.weight
		}
		cursor += w

		dl := cursor
		e.deadline = &dl

		delete(remaining, winner)
		arrows.RemoveAllWithSource(winner)
	}
}

// pickWinner chooses, among startable leaves, the one with maximum
// priority (None treated as -infinity; ties broken by lowest id, for
// determinism).
func pickWinner(cursor float64, candidates []int64, arrows graph.Arrows, entries map[int64]*entry) (int64, *float64, bool) {
	var winner int64
	var winnerPriority *float64
	found := false

	for _, id := range candidates {
		if !graph.Tid(id).Is(graph.Leaf, arrows) {
			continue
		}
		startable := math.Inf(-1)
		if e := entries[id]; e.startable != nil {
			startable = *e.startable
		}
		if startable > cursor {
			continue
		}

		p := priority(id, cursor, arrows, entries)
		if !found {
			winner, winnerPriority, found = id, p, true
			continue
		}

		candVal, bestVal := math.Inf(-1), math.Inf(-1)
		if p != nil {
			candVal = *p
		}
		if winnerPriority != nil {
			bestVal = *winnerPriority
		}
		if candVal > bestVal {
			winner, winnerPriority = id, p
		}
	}

	return winner, winnerPriority, found
}

// priority is the max, over every deadline-bearing path from id toward a
// root, of priorityBy(path). Nil iff no such path exists.
func priority(id int64, cursor float64, arrows graph.Arrows, entries map[int64]*entry) *float64 {
	var best *float64
	for _, p := range paths(id, arrows, entries) {
		v := priorityBy(p, cursor, entries)
		if v == nil {
			continue
		}
		if best == nil || *v > *best {
			best = v
		}
	}
	return best
}

// paths enumerates the root-ward paths from id, each truncated to end at
// the farthest node that carries a deadline; paths with no deadline at all
// are dropped.
func paths(id int64, arrows graph.Arrows, entries map[int64]*entry) []graph.Path {
	raw := graph.Tid(id).PathsTo(graph.Root, arrows)

	var out []graph.Path
	for _, p := range raw {
		lastDeadline := -1
		for i, n := range p {
			if entries[n].deadline != nil {
				lastDeadline = i
			}
		}
		if lastDeadline < 0 {
			continue
		}
		out = append(out, p[:lastDeadline+1])
	}
	return out
}

// priorityBy walks path from its root-most node back to id, tracking the
// latest allocated instant the id-end may still finish by to respect every
// deadline on the path, then returns how far the cursor has passed that
// instant.
func priorityBy(path graph.Path, cursor float64, entries map[int64]*entry) *float64 {
	c := math.Inf(1)
	for i := len(path) - 1; i >= 0; i-- {
		e := entries[path[i]]
		if e.deadline != nil && *e.deadline < c {
			c = *e.deadline
		}
		w := 0.0
		if e.weight != nil {
			w = *e.weight
		}
		c -= w
	}
	if math.IsInf(c, 1) {
		return nil
	}
	v := cursor - c
	return &v
}
