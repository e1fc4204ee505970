// Package visualization renders small volumes as text for debugging.
// It is intended for inspecting test images and labeling results on the
// console, not for production output of large volumes.
package visualization

import (
	"fmt"
	"io"
	"strings"

	"voxelcc3d/pkg/volume"
)

// Formatter renders one voxel value as text. Passing the formatter
// explicitly keeps rendering independent of the voxel type: byte-sized
// voxels print as numbers through Decimal rather than as characters.
type Formatter[T any] func(T) string

// Decimal formats any voxel value with the default verb, which renders
// integer kinds (including uint8) as decimal numbers.
func Decimal[T any](value T) string {
	return fmt.Sprint(value)
}

// SliceString renders the z-th XY plane of the view as tab-separated rows.
func SliceString[T any](v volume.View[T], z int, format Formatter[T]) (string, error) {
	if z < 0 || z >= v.Depth {
		return "", fmt.Errorf("visualization: slice %d out of range, volume depth is %d", z, v.Depth)
	}

	var b strings.Builder
	for y := 0; y < v.Height; y++ {
		for x := 0; x < v.Width; x++ {
			if x > 0 {
				b.WriteByte('\t')
			}
			b.WriteString(format(v.At(x, y, z)))
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// AxisSliceString renders a single plane orthogonal to the given axis:
// the YZ plane for "x", the XZ plane for "y" and the XY plane for "z".
func AxisSliceString[T any](v volume.View[T], axis string, position int, format Formatter[T]) (string, error) {
	var b strings.Builder

	switch axis {
	case "x", "X":
		if position < 0 || position >= v.Width {
			return "", fmt.Errorf("visualization: position %d exceeds width %d", position, v.Width)
		}
		for y := 0; y < v.Height; y++ {
			for z := 0; z < v.Depth; z++ {
				if z > 0 {
					b.WriteByte('\t')
				}
				b.WriteString(format(v.At(position, y, z)))
			}
			b.WriteByte('\n')
		}

	case "y", "Y":
		if position < 0 || position >= v.Height {
			return "", fmt.Errorf("visualization: position %d exceeds height %d", position, v.Height)
		}
		for z := 0; z < v.Depth; z++ {
			for x := 0; x < v.Width; x++ {
				if x > 0 {
					b.WriteByte('\t')
				}
				b.WriteString(format(v.At(x, position, z)))
			}
			b.WriteByte('\n')
		}

	case "z", "Z":
		return SliceString(v, position, format)

	default:
		return "", fmt.Errorf("visualization: invalid axis %q (must be x, y, or z)", axis)
	}

	return b.String(), nil
}

// Fprint writes every XY plane of the view to w with a slice header line,
// front to back.
func Fprint[T any](w io.Writer, v volume.View[T], format Formatter[T]) error {
	for z := 0; z < v.Depth; z++ {
		s, err := SliceString(v, z, format)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "z=%d\n%s", z, s); err != nil {
			return fmt.Errorf("visualization: failed to write slice %d: %w", z, err)
		}
	}
	return nil
}

// VolumeString renders the whole volume the way Fprint writes it.
func VolumeString[T any](v volume.View[T], format Formatter[T]) string {
	var b strings.Builder
	// strings.Builder never fails to write.
	_ = Fprint(&b, v, format)
	return b.String()
}
