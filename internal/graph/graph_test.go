package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasCycleEmptyIsAcyclic(t *testing.T) {
	arrows := New(nil)
	assert.False(t, arrows.HasCycle())
}

func TestHasCycleDetectsCycle(t *testing.T) {
	arrows := New([]Arrow{
		{Source: 1, Target: 2},
		{Source: 2, Target: 3},
		{Source: 3, Target: 1},
	})
	assert.True(t, arrows.HasCycle())
}

func TestHasCycleAcyclicChain(t *testing.T) {
	// 2 depends on 1, 1 depends on 0: a straight line, no cycle.
	arrows := New([]Arrow{
		{Source: 1, Target: 0},
		{Source: 2, Target: 1},
	})
	assert.False(t, arrows.HasCycle())
}

func TestHasCycleSelfLoop(t *testing.T) {
	arrows := New([]Arrow{{Source: 1, Target: 1}})
	assert.True(t, arrows.HasCycle())
}

func TestPathsToLeafAndRoot(t *testing.T) {
	// 2 -> 1 -> 0: 0 is the root, 2 is the leaf.
	arrows := New([]Arrow{
		{Source: 1, Target: 0},
		{Source: 2, Target: 1},
	})
	assert.Equal(t, []int64{2}, arrows.List(Leaf))
	assert.Equal(t, []int64{0}, arrows.List(Root))

	paths := Tid(2).PathsTo(Root, arrows)
	assert.Equal(t, []Path{{2, 1, 0}}, paths)
}
