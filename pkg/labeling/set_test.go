package labeling

import (
	"errors"
	"math"
	"testing"
)

// TestNewForestIsolated verifies every node starts as its own root
func TestNewForestIsolated(t *testing.T) {
	f := newForest(5)

	for i := int32(0); i < 5; i++ {
		if got := f.find(i); got != i {
			t.Fatalf("find(%d) = %d before any unions, want %d", i, got, i)
		}
		if f.rank[i] != 0 {
			t.Fatalf("Node %d has rank %d, want 0", i, f.rank[i])
		}
		if f.slot[i] != noSlot {
			t.Fatalf("Node %d has slot %d, want unassigned", i, f.slot[i])
		}
	}
}

// TestUniteAndFind verifies that united nodes share a root
func TestUniteAndFind(t *testing.T) {
	f := newForest(6)

	// Build {0,1,2} and {3,4}, leave 5 alone
	for _, pair := range [][2]int32{{0, 1}, {1, 2}, {3, 4}} {
		if err := f.unite(pair[0], pair[1]); err != nil {
			t.Fatalf("Failed to unite %d and %d: %v", pair[0], pair[1], err)
		}
	}

	if f.find(0) != f.find(2) || f.find(0) != f.find(1) {
		t.Error("Nodes 0, 1, 2 do not share a root")
	}
	if f.find(3) != f.find(4) {
		t.Error("Nodes 3 and 4 do not share a root")
	}
	if f.find(0) == f.find(3) {
		t.Error("Separate sets share a root")
	}
	if f.find(5) != 5 {
		t.Errorf("Untouched node resolved to %d", f.find(5))
	}
}

// TestUniteSameSetNoOp verifies uniting an already-joined pair changes nothing
func TestUniteSameSetNoOp(t *testing.T) {
	f := newForest(3)
	if err := f.unite(0, 1); err != nil {
		t.Fatalf("Failed to unite: %v", err)
	}

	root := f.find(0)
	rank := f.rank[root]

	if err := f.unite(1, 0); err != nil {
		t.Fatalf("Re-uniting joined nodes failed: %v", err)
	}
	if f.find(0) != root || f.rank[root] != rank {
		t.Error("Re-uniting joined nodes changed the forest")
	}
}

// TestUnionByRank verifies rank bookkeeping across merges
func TestUnionByRank(t *testing.T) {
	f := newForest(4)

	// Equal ranks: survivor's rank grows to 1
	if err := f.unite(0, 1); err != nil {
		t.Fatalf("Failed to unite: %v", err)
	}
	root := f.find(0)
	if f.rank[root] != 1 {
		t.Fatalf("Root rank after equal-rank merge is %d, want 1", f.rank[root])
	}

	// Unequal ranks: the rank-0 root is attached under the rank-1 root
	// and no rank changes
	if err := f.unite(0, 2); err != nil {
		t.Fatalf("Failed to unite: %v", err)
	}
	if f.find(2) != root {
		t.Error("Lower-rank root was not attached under higher-rank root")
	}
	if f.rank[root] != 1 {
		t.Fatalf("Unequal-rank merge changed rank to %d", f.rank[root])
	}

	// Invariant: a root's rank is >= the rank of any child
	for i := int32(0); i < 4; i++ {
		if p := f.parent[i]; p != noParent && f.rank[p] < f.rank[i] {
			t.Fatalf("Node %d (rank %d) has parent %d with smaller rank %d", i, f.rank[i], p, f.rank[p])
		}
	}
}

// TestFindIdempotent verifies repeated finds return the same root and that
// path compression leaves visited nodes pointing directly at it
func TestFindIdempotent(t *testing.T) {
	f := newForest(8)

	// Build a deliberate chain 0 <- 1 <- 2 <- 3 so find(3) has a path to
	// compress
	f.parent[3] = 2
	f.parent[2] = 1
	f.parent[1] = 0

	first := f.find(3)
	if first != 0 {
		t.Fatalf("find(3) = %d, want 0", first)
	}

	// Compression: every node on the walked path now points at the root
	for _, n := range []int32{1, 2, 3} {
		if f.parent[n] != 0 {
			t.Fatalf("Node %d not compressed to root, parent = %d", n, f.parent[n])
		}
	}

	if second := f.find(3); second != first {
		t.Fatalf("Second find returned %d, first returned %d", second, first)
	}
}

// TestRankOverflow forces the saturation path directly: growing a rank to
// its maximum organically would need a forest beyond any realistic volume
func TestRankOverflow(t *testing.T) {
	f := newForest(2)
	f.rank[0] = math.MaxUint16
	f.rank[1] = math.MaxUint16

	err := f.unite(0, 1)
	if !errors.Is(err, ErrRankOverflow) {
		t.Fatalf("Expected ErrRankOverflow, got %v", err)
	}

	// Unequal ranks never increment, so a saturated root can still absorb
	// smaller trees
	g := newForest(2)
	g.rank[0] = math.MaxUint16
	if err := g.unite(0, 1); err != nil {
		t.Fatalf("Saturated root failed to absorb lower-rank tree: %v", err)
	}
	if g.find(1) != 0 {
		t.Error("Lower-rank tree not attached under saturated root")
	}
}
