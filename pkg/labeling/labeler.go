// Package labeling implements connected-component labeling for 3D voxel
// volumes using a single-pass unite-find approach.
//
// The labeler walks a volume once in scan order, merging each foreground
// voxel with its already-visited neighbors in a disjoint-set forest, then
// resolves every voxel to its component's root in a second linear pass,
// assigning output labels lazily and accumulating per-component statistics.
// Union by rank with path compression keeps both passes amortized
// near-linear in the number of voxels.
package labeling

import (
	"errors"
	"fmt"
	"math"

	"voxelcc3d/pkg/volume"
)

// ErrLabelRangeOverflow is returned when a volume contains more connected
// components than the output label type can represent.
var ErrLabelRangeOverflow = errors.New("labeling: component count exceeds output label range")

// Unsigned is the set of types usable as output labels.
type Unsigned interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Connectivity selects which voxels count as neighbors during the scan.
type Connectivity int

const (
	// Face connects voxels that share a face: 6-connectivity.
	Face Connectivity = iota

	// FaceEdgeVertex additionally connects voxels that share only an
	// edge or a vertex: 26-connectivity.
	FaceEdgeVertex
)

// String returns the connectivity name used in configs and CLI flags.
func (c Connectivity) String() string {
	switch c {
	case Face:
		return "face"
	case FaceEdgeVertex:
		return "face-edge-vertex"
	default:
		return fmt.Sprintf("Connectivity(%d)", int(c))
	}
}

// ParseConnectivity converts a config/flag string into a Connectivity.
func ParseConnectivity(s string) (Connectivity, error) {
	switch s {
	case "face":
		return Face, nil
	case "face-edge-vertex":
		return FaceEdgeVertex, nil
	default:
		return 0, fmt.Errorf("labeling: invalid connectivity %q (must be \"face\" or \"face-edge-vertex\")", s)
	}
}

// offset is one backward neighbor displacement in voxel coordinates.
type offset struct {
	dx, dy, dz int
}

// Because the scan visits voxels in z, then y, then x order, only neighbors
// that come earlier in that order need to be checked: every adjacency is
// discovered from exactly one side, which is what makes a single pass
// sufficient. dz is therefore never positive in these tables, and within
// the current slice (dz == 0) neither is dy.
var (
	faceOffsets = []offset{
		{0, 0, -1}, // back
		{-1, 0, 0}, // left
		{0, -1, 0}, // up
	}

	faceEdgeVertexOffsets = []offset{
		{-1, -1, -1}, {0, -1, -1}, {1, -1, -1},
		{-1, 0, -1}, {0, 0, -1}, {1, 0, -1},
		{-1, 1, -1}, {0, 1, -1}, {1, 1, -1},
		{-1, 0, 0},
		{-1, -1, 0}, {0, -1, 0}, {1, -1, 0},
	}
)

// backwardOffsets returns the neighbor table for the connectivity mode.
func (c Connectivity) backwardOffsets() []offset {
	if c == FaceEdgeVertex {
		return faceEdgeVertexOffsets
	}
	return faceOffsets
}

// Params holds the labeling configuration.
type Params struct {
	// Connectivity selects the neighborhood used to join voxels into
	// components. The zero value is Face (6-connectivity).
	Connectivity Connectivity
}

// DefaultParams returns the default labeling configuration.
func DefaultParams() Params {
	return Params{Connectivity: Face}
}

// validateParams checks that params fields are valid.
func validateParams(params Params) error {
	switch params.Connectivity {
	case Face, FaceEdgeVertex:
		return nil
	default:
		return fmt.Errorf("labeling: invalid connectivity %d", int(params.Connectivity))
	}
}

// Component describes one connected component found by Label.
type Component[T comparable, U Unsigned] struct {
	// Label is the value written to the output volume for every voxel
	// of this component.
	Label U

	// PixelCount is the number of input voxels in the component.
	PixelCount uint64

	// InputValue is the source voxel value of one representative member,
	// so callers can recover which foreground class the component came from.
	InputValue T
}

// Label partitions the foreground voxels of in into maximal connected
// components and writes a label per voxel to out. Voxels equal to
// background are all assigned backgroundLabel and are never counted.
//
// The two views must have equal logical dimensions; their strides may
// differ, so either side can be a sub-region of a larger allocation.
// Output labels are assigned in discovery order counting up from 1,
// skipping backgroundLabel if it falls in the sequence, so an assigned
// label never collides with the background label for any choice of U.
//
// The returned statistics are ordered by discovery, which is ascending
// label order. The call is deterministic: the same volume and parameters
// always produce the same labels and statistics. An entirely-background
// volume yields empty statistics.
func Label[T comparable, U Unsigned](params Params, in volume.View[T], background T, out volume.View[U], backgroundLabel U) ([]Component[T, U], error) {
	if err := validateParams(params); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("labeling: bad input view: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("labeling: bad output view: %w", err)
	}
	if in.Width != out.Width || in.Height != out.Height || in.Depth != out.Depth {
		return nil, fmt.Errorf("labeling: input %dx%dx%d and output %dx%dx%d dimensions differ",
			in.Width, in.Height, in.Depth, out.Width, out.Height, out.Depth)
	}
	if n := int64(in.Width) * int64(in.Height) * int64(in.Depth); n > math.MaxInt32 {
		return nil, fmt.Errorf("labeling: volume has %d voxels, limit is %d", n, math.MaxInt32)
	}

	forest, err := scan(params.Connectivity, in, background)
	if err != nil {
		return nil, err
	}
	return resolve(forest, in, background, out, backgroundLabel)
}

// scan performs the single forward pass, building the unite-find forest
// across adjacent foreground voxels. Background voxels keep their isolated
// nodes; the resolution pass never looks those nodes up.
func scan[T comparable](conn Connectivity, in volume.View[T], background T) (*forest, error) {
	f := newForest(in.Voxels())
	offsets := conn.backwardOffsets()

	for z := 0; z < in.Depth; z++ {
		for y := 0; y < in.Height; y++ {
			row := in.Data[in.Index(0, y, z):]
			node := int32((z*in.Height + y) * in.Width)
			for x := 0; x < in.Width; x++ {
				if row[x] == background {
					continue
				}
				for _, o := range offsets {
					nx := x + o.dx
					ny := y + o.dy
					nz := z + o.dz
					if nx < 0 || ny < 0 || nz < 0 || nx >= in.Width || ny >= in.Height {
						continue
					}
					if in.At(nx, ny, nz) == background {
						continue
					}
					neighbor := int32((nz*in.Height+ny)*in.Width + nx)
					if err := f.unite(node+int32(x), neighbor); err != nil {
						return nil, err
					}
				}
			}
		}
	}
	return f, nil
}

// resolve walks all voxels a second time, finds each foreground voxel's
// root, assigns roots an output label on first encounter and accumulates
// per-component statistics while writing the label volume.
func resolve[T comparable, U Unsigned](f *forest, in volume.View[T], background T, out volume.View[U], backgroundLabel U) ([]Component[T, U], error) {
	var stats []Component[T, U]
	next := uint64(1)
	maxLabel := uint64(^U(0))
	bg := uint64(backgroundLabel)

	for z := 0; z < in.Depth; z++ {
		for y := 0; y < in.Height; y++ {
			inRow := in.Data[in.Index(0, y, z):]
			outRow := out.Data[out.Index(0, y, z):]
			node := int32((z*in.Height + y) * in.Width)
			for x := 0; x < in.Width; x++ {
				if inRow[x] == background {
					outRow[x] = backgroundLabel
					continue
				}

				root := f.find(node + int32(x))
				slot := f.slot[root]
				if slot == noSlot {
					if next == bg {
						next++
					}
					if next > maxLabel {
						return nil, ErrLabelRangeOverflow
					}
					slot = int32(len(stats))
					stats = append(stats, Component[T, U]{Label: U(next), InputValue: inRow[x]})
					f.slot[root] = slot
					next++
				}
				stats[slot].PixelCount++
				outRow[x] = stats[slot].Label
			}
		}
	}
	return stats, nil
}
