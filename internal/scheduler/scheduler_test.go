package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satu-n/sprig/internal/graph"
	"github.com/satu-n/sprig/internal/model"
	"github.com/satu-n/sprig/internal/timeutil"
)

func f(v float64) *float64 { return &v }

// TestSchedulerSingleTask covers spec boundary scenario 4: one task,
// deadline=360s, weight=120s, no startable, no arrows.
func TestSchedulerSingleTask(t *testing.T) {
	entries := map[int64]*entry{
		0: {deadline: f(360), weight: f(120)},
	}
	runLoop([]int64{0}, graph.New(nil), entries)

	e := entries[0]
	require.NotNil(t, e.priority)
	assert.Equal(t, -240.0, *e.priority)
	require.NotNil(t, e.rank)
	assert.Equal(t, 0, *e.rank)
	require.NotNil(t, e.startable)
	assert.Equal(t, 0.0, *e.startable)
	require.NotNil(t, e.deadline)
	assert.Equal(t, 120.0, *e.deadline)
}

// TestSchedulerChain covers spec boundary scenario 5: A -> B (A depends on
// B, A is the leaf), weight(A)=60, weight(B)=60, deadline(B)=120.
func TestSchedulerChain(t *testing.T) {
	const a, b int64 = 1, 2
	entries := map[int64]*entry{
		a: {weight: f(60)},
		b: {weight: f(60), deadline: f(120)},
	}
	arrows := graph.New([]graph.Arrow{{Source: a, Target: b}})

	runLoop([]int64{a, b}, arrows, entries)

	require.NotNil(t, entries[a].rank)
	assert.Equal(t, 0, *entries[a].rank)
	require.NotNil(t, entries[a].priority)
	assert.Equal(t, 0.0, *entries[a].priority)

	require.NotNil(t, entries[b].rank)
	assert.Equal(t, 1, *entries[b].rank)
}

func TestSchedulerTerminatesAndRanksUnique(t *testing.T) {
	ids := []int64{1, 2, 3, 4}
	entries := map[int64]*entry{
		1: {weight: f(10)},
		2: {weight: f(20)},
		3: {weight: f(5), deadline: f(100)},
		4: {weight: f(1)},
	}
	arrows := graph.New([]graph.Arrow{
		{Source: 1, Target: 3},
		{Source: 2, Target: 3},
		{Source: 3, Target: 4},
	})

	runLoop(ids, arrows, entries)

	seen := map[int]bool{}
	for _, id := range ids {
		require.NotNil(t, entries[id].rank)
		r := *entries[id].rank
		assert.False(t, seen[r], "rank %d assigned twice", r)
		seen[r] = true
		assert.True(t, r >= 0 && r < len(ids))
	}
}

func TestSpliceUnspliceRoundTrip(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 1, 1, 9, 0, 0, 0, loc)
	allocs := []timeutil.Alloc{
		{Open: time.Date(0, 1, 1, 9, 0, 0, 0, loc), Hours: 8},
	}

	dt := time.Date(2024, 1, 1, 12, 0, 0, 0, loc)
	spliced := Splice(now, dt, allocs, loc)
	assert.Equal(t, 3*3600.0, spliced)

	back, ok := Unsplice(now, spliced, allocs, loc)
	require.True(t, ok)
	assert.True(t, back.Equal(dt), "expected %v got %v", dt, back)
}

func TestUnspliceUndefinedWithoutAllocations(t *testing.T) {
	_, ok := Unsplice(time.Now(), 100, nil, time.UTC)
	assert.False(t, ok)
}

func TestScheduleEndToEndNoAllocations(t *testing.T) {
	loc := time.UTC
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, loc)

	tasks := []model.Task{
		{ID: 1, IsStarred: false, Weight: f(1)},
		{ID: 2, IsStarred: true, Weight: f(1)},
	}
	results := Schedule(tasks, nil, nil, loc, now)

	require.Len(t, results, 2)
	// no allocations: daily=0, so no schedule window is computed.
	for _, r := range results {
		assert.Nil(t, r.Schedule)
	}
	ranks := map[int64]int{}
	for _, r := range results {
		ranks[r.ID] = r.Rank
	}
	assert.Equal(t, 0, ranks[1])
	assert.Equal(t, 1, ranks[2])
}
