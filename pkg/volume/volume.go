// Package volume provides generic strided views over 3D voxel data.
// A view describes a (possibly non-contiguous) sub-region of a larger
// backing array without copying, using independent row and slice strides.
package volume

import (
	"fmt"
)

// View is a 3D window over a flat backing array of voxels of type T.
//
// Elements are addressed as Data[z*Leap + y*Stride + x]. Stride is the
// distance in elements between the starts of successive rows, and Leap is
// the distance in elements between the starts of successive z-slices. A
// tightly packed volume has Stride == Width and Leap == Height*Stride;
// larger strides describe a sub-region of a bigger allocation.
type View[T any] struct {
	// Data is the backing array. It is shared, not owned: several views
	// may window the same array.
	Data []T

	// Width, Height and Depth are the logical dimensions in voxels.
	Width  int
	Height int
	Depth  int

	// Stride is the element distance between successive rows.
	Stride int

	// Leap is the element distance between successive z-slices.
	Leap int
}

// NewDense allocates a tightly packed view with the given dimensions.
// All voxels start at the zero value of T.
func NewDense[T any](width, height, depth int) View[T] {
	return View[T]{
		Data:   make([]T, width*height*depth),
		Width:  width,
		Height: height,
		Depth:  depth,
		Stride: width,
		Leap:   width * height,
	}
}

// Validate checks the view's dimensions, strides and backing array length.
// Callers that receive views from outside should validate before touching
// Data; the labeling entry points do this for every view they are handed.
func (v View[T]) Validate() error {
	if v.Width <= 0 || v.Height <= 0 || v.Depth <= 0 {
		return fmt.Errorf("volume: dimensions must be positive, got %dx%dx%d", v.Width, v.Height, v.Depth)
	}
	if v.Data == nil {
		return fmt.Errorf("volume: nil backing array")
	}
	if v.Stride < v.Width {
		return fmt.Errorf("volume: stride %d smaller than width %d", v.Stride, v.Width)
	}
	if v.Leap < v.Height*v.Stride {
		return fmt.Errorf("volume: leap %d smaller than height*stride = %d", v.Leap, v.Height*v.Stride)
	}
	// The last addressable element must fit in the backing array.
	need := (v.Depth-1)*v.Leap + (v.Height-1)*v.Stride + v.Width
	if len(v.Data) < need {
		return fmt.Errorf("volume: backing array has %d elements, view needs %d", len(v.Data), need)
	}
	return nil
}

// Voxels returns the number of logical voxels in the view.
func (v View[T]) Voxels() int {
	return v.Width * v.Height * v.Depth
}

// Index returns the position of voxel (x, y, z) in the backing array.
func (v View[T]) Index(x, y, z int) int {
	return z*v.Leap + y*v.Stride + x
}

// At returns the voxel at (x, y, z). Bounds are not checked; use Validate
// on untrusted views first.
func (v View[T]) At(x, y, z int) T {
	return v.Data[v.Index(x, y, z)]
}

// Set writes the voxel at (x, y, z).
func (v View[T]) Set(x, y, z int, value T) {
	v.Data[v.Index(x, y, z)] = value
}

// Sub returns a zero-copy view of the region starting at (x0, y0, z0) with
// the given dimensions. The returned view shares the backing array and
// keeps the parent's strides, so writes through it are visible in the
// parent.
func (v View[T]) Sub(x0, y0, z0, width, height, depth int) (View[T], error) {
	if x0 < 0 || y0 < 0 || z0 < 0 {
		return View[T]{}, fmt.Errorf("volume: sub-region origin (%d,%d,%d) must be non-negative", x0, y0, z0)
	}
	if width <= 0 || height <= 0 || depth <= 0 {
		return View[T]{}, fmt.Errorf("volume: sub-region dimensions must be positive, got %dx%dx%d", width, height, depth)
	}
	if x0+width > v.Width || y0+height > v.Height || z0+depth > v.Depth {
		return View[T]{}, fmt.Errorf("volume: sub-region (%d,%d,%d)+%dx%dx%d extends beyond volume %dx%dx%d",
			x0, y0, z0, width, height, depth, v.Width, v.Height, v.Depth)
	}

	return View[T]{
		Data:   v.Data[v.Index(x0, y0, z0):],
		Width:  width,
		Height: height,
		Depth:  depth,
		Stride: v.Stride,
		Leap:   v.Leap,
	}, nil
}

// Fill sets every voxel in the view to the given value, honoring strides.
func (v View[T]) Fill(value T) {
	for z := 0; z < v.Depth; z++ {
		for y := 0; y < v.Height; y++ {
			row := v.Data[v.Index(0, y, z):]
			for x := 0; x < v.Width; x++ {
				row[x] = value
			}
		}
	}
}

// FromSlice builds a tightly packed view over an existing flat slice laid
// out in z-major, then y-major, then x order. The slice length must be
// exactly width*height*depth.
func FromSlice[T any](data []T, width, height, depth int) (View[T], error) {
	if len(data) != width*height*depth {
		return View[T]{}, fmt.Errorf("volume: slice has %d elements, %dx%dx%d needs %d",
			len(data), width, height, depth, width*height*depth)
	}
	return View[T]{
		Data:   data,
		Width:  width,
		Height: height,
		Depth:  depth,
		Stride: width,
		Leap:   width * height,
	}, nil
}

// Equal reports whether two views have the same dimensions and identical
// voxel values. Strides and backing arrays may differ.
func Equal[T comparable](a, b View[T]) bool {
	if a.Width != b.Width || a.Height != b.Height || a.Depth != b.Depth {
		return false
	}
	for z := 0; z < a.Depth; z++ {
		for y := 0; y < a.Height; y++ {
			for x := 0; x < a.Width; x++ {
				if a.At(x, y, z) != b.At(x, y, z) {
					return false
				}
			}
		}
	}
	return true
}
