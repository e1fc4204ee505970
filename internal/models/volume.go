package models

import (
	"fmt"
)

// ElementKind identifies the voxel element type of a stored volume.
type ElementKind uint8

const (
	// Uint8 is one byte per voxel, the common kind for class masks.
	Uint8 ElementKind = iota + 1

	// Uint16 is two bytes per voxel.
	Uint16

	// Uint32 is four bytes per voxel, the default label kind.
	Uint32

	// Uint64 is eight bytes per voxel.
	Uint64
)

// Size returns the element size in bytes.
func (k ElementKind) Size() int {
	switch k {
	case Uint8:
		return 1
	case Uint16:
		return 2
	case Uint32:
		return 4
	case Uint64:
		return 8
	default:
		return 0
	}
}

// String returns the kind name used in file listings and CLI flags.
func (k ElementKind) String() string {
	switch k {
	case Uint8:
		return "uint8"
	case Uint16:
		return "uint16"
	case Uint32:
		return "uint32"
	case Uint64:
		return "uint64"
	default:
		return fmt.Sprintf("ElementKind(%d)", uint8(k))
	}
}

// ParseElementKind converts a CLI/config string into an ElementKind.
func ParseElementKind(s string) (ElementKind, error) {
	switch s {
	case "uint8":
		return Uint8, nil
	case "uint16":
		return Uint16, nil
	case "uint32":
		return Uint32, nil
	case "uint64":
		return Uint64, nil
	default:
		return 0, fmt.Errorf("invalid element kind %q (must be uint8, uint16, uint32 or uint64)", s)
	}
}

// VolumeMeta describes a stored volume: its element kind and logical
// dimensions. Stored payloads are always tightly packed, so strides are
// implied by the dimensions.
type VolumeMeta struct {
	// Kind is the voxel element type.
	Kind ElementKind

	// Width, Height and Depth are the volume dimensions in voxels.
	Width  int
	Height int
	Depth  int
}

// Voxels returns the number of voxels described by the metadata.
func (m VolumeMeta) Voxels() int {
	return m.Width * m.Height * m.Depth
}

// PayloadBytes returns the uncompressed payload size in bytes.
func (m VolumeMeta) PayloadBytes() int {
	return m.Voxels() * m.Kind.Size()
}

// Validate checks that the metadata describes a usable volume.
func (m VolumeMeta) Validate() error {
	if m.Kind.Size() == 0 {
		return fmt.Errorf("invalid element kind %d", uint8(m.Kind))
	}
	if m.Width <= 0 || m.Height <= 0 || m.Depth <= 0 {
		return fmt.Errorf("dimensions must be positive, got %dx%dx%d", m.Width, m.Height, m.Depth)
	}
	return nil
}
