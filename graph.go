package gridcalc

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// dependencyGraph tracks cell-to-cell references by cell index
// (row*columns+col). dependents and dependencies are kept as exact inverses.
type dependencyGraph struct {
	size         uint
	dependents   []*bitset.BitSet // i -> cells that read i
	dependencies []*bitset.BitSet // i -> cells that i reads
	blocked      []*bitset.BitSet // i -> references withheld because they closed a cycle
}

func newDependencyGraph(size int) *dependencyGraph {
	g := &dependencyGraph{size: uint(size)}
	g.dependents = make([]*bitset.BitSet, size)
	g.dependencies = make([]*bitset.BitSet, size)
	g.blocked = make([]*bitset.BitSet, size)
	for i := 0; i < size; i++ {
		g.dependents[i] = bitset.New(g.size)
		g.dependencies[i] = bitset.New(g.size)
		g.blocked[i] = bitset.New(g.size)
	}
	return g
}

// members lists the set bits of b in ascending order.
func members(b *bitset.BitSet) []uint {
	out := make([]uint, 0, b.Count())
	for i, ok := b.NextSet(0); ok; i, ok = b.NextSet(i + 1) {
		out = append(out, i)
	}
	return out
}

// link records that from reads to.
func (g *dependencyGraph) link(from, to uint) {
	g.dependencies[from].Set(to)
	g.dependents[to].Set(from)
}

// unlinkAll removes every dependency of from and returns the removed set.
func (g *dependencyGraph) unlinkAll(from uint) *bitset.BitSet {
	removed := g.dependencies[from].Clone()
	for _, to := range members(removed) {
		g.dependents[to].Clear(from)
	}
	g.dependencies[from].ClearAll()
	return removed
}

func (g *dependencyGraph) block(from uint, refs *bitset.BitSet) {
	g.blocked[from] = refs.Clone()
}

func (g *dependencyGraph) unblock(from uint) {
	g.blocked[from].ClearAll()
}

func (g *dependencyGraph) isBlocked(i uint) bool {
	return g.blocked[i].Any()
}

func (g *dependencyGraph) blockedCells() []uint {
	var out []uint
	for i := uint(0); i < g.size; i++ {
		if g.blocked[i].Any() {
			out = append(out, i)
		}
	}
	return out
}

// loopsBack reports whether start can reach itself when withheld references
// count as edges alongside the committed ones.
func (g *dependencyGraph) loopsBack(start uint) bool {
	visited := bitset.New(g.size)
	stack := []uint{start}
	for len(stack) > 0 {
		x := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		next := g.dependencies[x].Union(g.blocked[x])
		for _, d := range members(next) {
			if d == start {
				return true
			}
			if !visited.Test(d) {
				visited.Set(d)
				stack = append(stack, d)
			}
		}
	}
	return false
}

// cyclePath searches the committed dependencies, starting at each proposed
// reference of start, for a way back to start. It returns the cells on that
// path (first reference first, start excluded) or nil when no cycle exists.
func (g *dependencyGraph) cyclePath(start uint, refs []uint) []uint {
	visited := bitset.New(g.size)
	parent := make(map[uint]uint)

	for _, r := range refs {
		if visited.Test(r) {
			continue
		}
		visited.Set(r)
		stack := []uint{r}
		for len(stack) > 0 {
			x := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, d := range members(g.dependencies[x]) {
				if d == start {
					path := []uint{x}
					for x != r {
						x = parent[x]
						path = append(path, x)
					}
					for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
						path[i], path[j] = path[j], path[i]
					}
					return path
				}
				if !visited.Test(d) {
					visited.Set(d)
					parent[d] = x
					stack = append(stack, d)
				}
			}
		}
	}
	return nil
}

// calculationOrder returns every transitive dependent of sources, ordered so
// that each cell comes after all of its own dependencies in the set. Sources
// are only included when reachable from another source.
func (g *dependencyGraph) calculationOrder(sources []uint) []uint {
	affected := bitset.New(g.size)
	queue := make([]uint, 0, len(sources))
	queue = append(queue, sources...)
	for len(queue) > 0 {
		x := queue[0]
		queue = queue[1:]
		for _, d := range members(g.dependents[x]) {
			if !affected.Test(d) {
				affected.Set(d)
				queue = append(queue, d)
			}
		}
	}

	indegree := make(map[uint]uint, affected.Count())
	var ready []uint
	for _, a := range members(affected) {
		n := g.dependencies[a].IntersectionCardinality(affected)
		indegree[a] = n
		if n == 0 {
			ready = append(ready, a)
		}
	}

	order := make([]uint, 0, affected.Count())
	for len(ready) > 0 {
		x := ready[0]
		ready = ready[1:]
		order = append(order, x)
		for _, d := range members(g.dependents[x]) {
			if !affected.Test(d) {
				continue
			}
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	return order
}

// check verifies that dependents and dependencies are inverses and that the
// dependencies relation is acyclic.
func (g *dependencyGraph) check() error {
	for i := uint(0); i < g.size; i++ {
		for _, j := range members(g.dependents[i]) {
			if !g.dependencies[j].Test(i) {
				return fmt.Errorf("cell %d lists dependent %d which does not depend on it", i, j)
			}
		}
		for _, j := range members(g.dependencies[i]) {
			if !g.dependents[j].Test(i) {
				return fmt.Errorf("cell %d depends on %d which does not list it as dependent", i, j)
			}
		}
	}

	indegree := make([]uint, g.size)
	var ready []uint
	for i := uint(0); i < g.size; i++ {
		indegree[i] = g.dependencies[i].Count()
		if indegree[i] == 0 {
			ready = append(ready, i)
		}
	}
	seen := uint(0)
	for len(ready) > 0 {
		x := ready[len(ready)-1]
		ready = ready[:len(ready)-1]
		seen++
		for _, d := range members(g.dependents[x]) {
			indegree[d]--
			if indegree[d] == 0 {
				ready = append(ready, d)
			}
		}
	}
	if seen != g.size {
		return fmt.Errorf("%w: %d cells are part of a dependency cycle", ErrCircularReference, g.size-seen)
	}
	return nil
}
