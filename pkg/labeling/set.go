package labeling

import (
	"errors"
	"math"
)

// ErrRankOverflow is returned when a union would push a component's rank
// counter past its representable maximum. Reaching it requires a merge
// history deeper than any realistic volume can produce, so it indicates a
// pathological input rather than an ordinary failure.
var ErrRankOverflow = errors.New("labeling: connected components rank counter overflow")

// noParent marks a root node in the forest.
const noParent = int32(-1)

// noSlot marks a root that has not yet been assigned a statistics slot
// during the resolution pass.
const noSlot = int32(-1)

// forest is a disjoint-set forest over the voxels of one labeling call,
// one node per voxel position, stored as parallel slices so the whole
// structure lives in a few contiguous allocations.
//
// The slot slice carries the per-root statistics assignment made by the
// resolution pass. It is meaningful only on a node that is a root at
// resolution time; find and unite never touch it, and nothing outside
// this package can reach it.
type forest struct {
	parent []int32
	rank   []uint16
	slot   []int32
}

// newForest creates a forest of n isolated single-node sets.
func newForest(n int) *forest {
	f := &forest{
		parent: make([]int32, n),
		rank:   make([]uint16, n),
		slot:   make([]int32, n),
	}
	for i := range f.parent {
		f.parent[i] = noParent
		f.slot[i] = noSlot
	}
	return f
}

// find returns the root of the set containing x, compressing the path so
// every visited node ends up pointing directly at the root.
func (f *forest) find(x int32) int32 {
	root := x
	for f.parent[root] != noParent {
		root = f.parent[root]
	}
	for f.parent[x] != noParent {
		x, f.parent[x] = f.parent[x], root
	}
	return root
}

// unite merges the sets containing x and y using union by rank: the
// lower-rank root is attached under the higher-rank one, and only an
// equal-rank merge grows the surviving root's rank. Already-joined sets
// are a no-op.
func (f *forest) unite(x, y int32) error {
	xRoot := f.find(x)
	yRoot := f.find(y)
	if xRoot == yRoot {
		return nil
	}

	switch {
	case f.rank[xRoot] > f.rank[yRoot]:
		f.parent[yRoot] = xRoot
	case f.rank[xRoot] < f.rank[yRoot]:
		f.parent[xRoot] = yRoot
	default:
		if f.rank[xRoot] == math.MaxUint16 {
			return ErrRankOverflow
		}
		f.parent[yRoot] = xRoot
		f.rank[xRoot]++
	}
	return nil
}
