package labeling

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Summary aggregates the component statistics of one labeling call into
// the figures reported by the CLI.
type Summary struct {
	// Components is the number of connected components found.
	Components int

	// ForegroundVoxels is the total voxel count across all components.
	ForegroundVoxels uint64

	// MinSize and MaxSize are the smallest and largest component sizes.
	MinSize uint64
	MaxSize uint64

	// MeanSize and StdDevSize describe the component size distribution.
	// StdDevSize is zero when there is a single component.
	MeanSize   float64
	StdDevSize float64
}

// Summarize computes summary statistics over a component list. An empty
// list yields the zero Summary.
func Summarize[T comparable, U Unsigned](components []Component[T, U]) Summary {
	if len(components) == 0 {
		return Summary{}
	}

	sizes := make([]float64, len(components))
	s := Summary{
		Components: len(components),
		MinSize:    math.MaxUint64,
	}
	for i, c := range components {
		sizes[i] = float64(c.PixelCount)
		s.ForegroundVoxels += c.PixelCount
		if c.PixelCount < s.MinSize {
			s.MinSize = c.PixelCount
		}
		if c.PixelCount > s.MaxSize {
			s.MaxSize = c.PixelCount
		}
	}

	s.MeanSize = stat.Mean(sizes, nil)
	if len(sizes) > 1 {
		s.StdDevSize = stat.StdDev(sizes, nil)
	}
	return s
}

// Largest returns up to n components ordered by descending voxel count,
// breaking ties by ascending label. The input list is not modified; a
// non-positive n yields an empty list.
func Largest[T comparable, U Unsigned](components []Component[T, U], n int) []Component[T, U] {
	if n < 0 {
		n = 0
	}
	sorted := make([]Component[T, U], len(components))
	copy(sorted, components)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PixelCount > sorted[j].PixelCount
	})
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}
