// Package graph implements the dependency DAG over task ids: adjacency,
// leaf/root classification, path enumeration and cycle detection.
//
// An Arrow source depends on its target: source sits closer to a leaf,
// target closer to a root. Path, Arrows and Tid mirror spec.md §4.3
// exactly, including the iterative path-enumeration algorithm and its
// "a cycle clears every path for that component" contract.
package graph

import "sort"

// LR selects which direction a graph query walks: toward the leaves or
// toward the roots.
type LR int

const (
	Leaf LR = iota
	Root
)

// Arrow is a directed dependency edge, source -> target.
type Arrow struct {
	Source int64
	Target int64
}

// Path is an ordered sequence of task ids, traversed from a leaf toward a
// root (regardless of which LR direction produced it).
type Path []int64

// Arrows is an owned, cheaply-cloned set of dependency edges.
type Arrows struct {
	edges []Arrow
}

// New builds an Arrows value from a slice of edges.
func New(edges []Arrow) Arrows {
	cp := make([]Arrow, len(edges))
	copy(cp, edges)
	return Arrows{edges: cp}
}

// Edges returns the underlying edge slice (read-only use expected).
func (a Arrows) Edges() []Arrow {
	return a.edges
}

// Clone returns an independent copy; the scheduler mutates its own copy
// while the Acceptor's copy stays read-only.
func (a Arrows) Clone() Arrows {
	return New(a.edges)
}

// RemoveAllWithSource drops every arrow whose source is id, in place.
func (a *Arrows) RemoveAllWithSource(id int64) {
	kept := a.edges[:0]
	for _, e := range a.edges {
		if e.Source != id {
			kept = append(kept, e)
		}
	}
	a.edges = kept
}

// MapTo returns the adjacency map for the given direction. For Leaf it
// maps target -> sources (who depends on this node); for Root it maps
// source -> targets (what this node depends on).
func (a Arrows) MapTo(lr LR) map[int64][]int64 {
	m := make(map[int64][]int64)
	for _, e := range a.edges {
		if lr == Leaf {
			m[e.Target] = append(m[e.Target], e.Source)
		} else {
			m[e.Source] = append(m[e.Source], e.Target)
		}
	}
	return m
}

// Nodes returns every id referenced by some arrow, deduplicated and sorted.
func (a Arrows) Nodes() []int64 {
	seen := make(map[int64]struct{})
	for _, e := range a.edges {
		seen[e.Source] = struct{}{}
		seen[e.Target] = struct{}{}
	}
	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// List returns the ids, among Nodes(), that are leaves (lr=Leaf) or roots
// (lr=Root).
func (a Arrows) List(lr LR) []int64 {
	var out []int64
	for _, id := range a.Nodes() {
		if Tid(id).Is(lr, a) {
			out = append(out, id)
		}
	}
	return out
}

// HasCycle reports whether the edge set contains a cycle. False on an
// empty set; otherwise true if there are no leaves, no roots, or some
// leaf cannot reach a root.
func (a Arrows) HasCycle() bool {
	if len(a.edges) == 0 {
		return false
	}
	leaves := a.List(Leaf)
	roots := a.List(Root)
	if len(leaves) == 0 || len(roots) == 0 {
		return true
	}
	for _, leaf := range leaves {
		if len(Tid(leaf).PathsTo(Root, a)) == 0 {
			return true
		}
	}
	return false
}

// Paths enumerates every simple leaf-to-root path across the whole edge
// set. Callers must have already rejected HasCycle; this is undefined
// (empty) on a cyclic set.
func (a Arrows) Paths() []Path {
	var out []Path
	for _, leaf := range a.List(Leaf) {
		out = append(out, Tid(leaf).PathsTo(Root, a)...)
	}
	return out
}

// Tid is a task id viewed as a graph node.
type Tid int64

// Is reports whether no arrow places this id on the side opposite lr: for
// Leaf that means the id never appears as a target; for Root it never
// appears as a source. An isolated node is both.
func (t Tid) Is(lr LR, a Arrows) bool {
	for _, e := range a.edges {
		if lr == Leaf && e.Target == int64(t) {
			return false
		}
		if lr == Root && e.Source == int64(t) {
			return false
		}
	}
	return true
}

// PathsTo enumerates every simple path from t outward under MapTo(lr), via
// an iterative DFS with a per-node remainder stack. If any cycle is
// encountered while walking, the whole result is cleared: a cyclic
// connected component yields no paths for any of its nodes.
func (t Tid) PathsTo(lr LR, a Arrows) []Path {
	m := a.MapTo(lr)

	var results []Path
	cursor := int64(t)
	var path []int64
	var remains []int64
	reMap := make(map[int64][]int64)

	inPath := func(id int64) bool {
		for _, p := range path {
			if p == id {
				return true
			}
		}
		return false
	}

outer:
	for {
		if inPath(cursor) {
			return nil
		}
		path = append(path, cursor)
		succ := append([]int64(nil), m[cursor]...)

		if len(succ) > 0 {
			next := succ[len(succ)-1]
			succ = succ[:len(succ)-1]
			remains = append(remains, cursor)
			reMap[cursor] = succ
			cursor = next
			continue
		}

		results = append(results, Path(append([]int64(nil), path...)))

		for len(remains) > 0 {
			rem := remains[len(remains)-1]
			remains = remains[:len(remains)-1]
			for cursor != rem {
				path = path[:len(path)-1]
				cursor = path[len(path)-1]
			}
			path = path[:len(path)-1]
			path = append(path, cursor)

			if rest := reMap[cursor]; len(rest) > 0 {
				next := rest[len(rest)-1]
				reMap[cursor] = rest[:len(rest)-1]
				remains = append(remains, cursor)
				cursor = next
				continue outer
			}
		}
		break
	}

	return results
}

// NodesTo returns the deduplicated, sorted flattening of PathsTo(lr, a).
func (t Tid) NodesTo(lr LR, a Arrows) []int64 {
	seen := make(map[int64]struct{})
	for _, p := range t.PathsTo(lr, a) {
		for _, id := range p {
			seen[id] = struct{}{}
		}
	}
	out := make([]int64, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
