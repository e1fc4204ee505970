// Package volio reads and writes 3D volumes in a small binary container
// format. The container stores the element kind, the dimensions and a
// tightly packed little-endian payload, optionally zstd-compressed, so
// label volumes and class masks can be moved between tools cheaply.
package volio

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"voxelcc3d/internal/models"
	"voxelcc3d/pkg/volume"
)

// Element is the set of voxel types the container can store.
type Element interface {
	uint8 | uint16 | uint32 | uint64
}

// magic identifies a volume container file.
var magic = [4]byte{'V', 'X', 'V', '1'}

// Compression values stored in the container header.
const (
	compressionNone = 0
	compressionZstd = 1
)

// headerSize is the fixed container header length in bytes.
const headerSize = 20

// KindOf returns the element kind for the type parameter.
func KindOf[T Element]() models.ElementKind {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return models.Uint8
	case uint16:
		return models.Uint16
	case uint32:
		return models.Uint32
	default:
		return models.Uint64
	}
}

// Write stores the view into w. The payload is written tightly packed in
// z, y, x order regardless of the view's strides, compressed with zstd
// when compress is set.
func Write[T Element](w io.Writer, v volume.View[T], compress bool) error {
	if err := v.Validate(); err != nil {
		return fmt.Errorf("volio: cannot write invalid view: %w", err)
	}

	meta := models.VolumeMeta{
		Kind:   KindOf[T](),
		Width:  v.Width,
		Height: v.Height,
		Depth:  v.Depth,
	}

	var header [headerSize]byte
	copy(header[0:4], magic[:])
	header[4] = byte(meta.Kind)
	if compress {
		header[5] = compressionZstd
	} else {
		header[5] = compressionNone
	}
	binary.LittleEndian.PutUint32(header[8:12], uint32(meta.Width))
	binary.LittleEndian.PutUint32(header[12:16], uint32(meta.Height))
	binary.LittleEndian.PutUint32(header[16:20], uint32(meta.Depth))

	if _, err := w.Write(header[:]); err != nil {
		return fmt.Errorf("volio: failed to write header: %w", err)
	}

	payload := w
	var zw *zstd.Encoder
	if compress {
		var err error
		zw, err = zstd.NewWriter(w)
		if err != nil {
			return fmt.Errorf("volio: failed to create zstd writer: %w", err)
		}
		payload = zw
	}

	if err := writePayload(payload, v); err != nil {
		return err
	}

	if zw != nil {
		if err := zw.Close(); err != nil {
			return fmt.Errorf("volio: failed to finish zstd stream: %w", err)
		}
	}
	return nil
}

// writePayload encodes the view row by row into little-endian bytes.
func writePayload[T Element](w io.Writer, v volume.View[T]) error {
	elemSize := KindOf[T]().Size()
	row := make([]byte, v.Width*elemSize)

	for z := 0; z < v.Depth; z++ {
		for y := 0; y < v.Height; y++ {
			src := v.Data[v.Index(0, y, z):]
			for x := 0; x < v.Width; x++ {
				putElement(row[x*elemSize:], src[x])
			}
			if _, err := w.Write(row); err != nil {
				return fmt.Errorf("volio: failed to write payload: %w", err)
			}
		}
	}
	return nil
}

// putElement stores one element at the start of dst in little-endian order.
func putElement[T Element](dst []byte, value T) {
	switch v := any(value).(type) {
	case uint8:
		dst[0] = v
	case uint16:
		binary.LittleEndian.PutUint16(dst, v)
	case uint32:
		binary.LittleEndian.PutUint32(dst, v)
	case uint64:
		binary.LittleEndian.PutUint64(dst, v)
	}
}

// getElement loads one element from the start of src.
func getElement[T Element](src []byte) T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		return T(src[0])
	case uint16:
		return T(binary.LittleEndian.Uint16(src))
	case uint32:
		return T(binary.LittleEndian.Uint32(src))
	default:
		return T(binary.LittleEndian.Uint64(src))
	}
}

// readHeader parses and validates the container header.
func readHeader(r io.Reader) (models.VolumeMeta, byte, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return models.VolumeMeta{}, 0, fmt.Errorf("volio: failed to read header: %w", err)
	}
	if [4]byte(header[0:4]) != magic {
		return models.VolumeMeta{}, 0, fmt.Errorf("volio: bad magic %q, not a volume container", header[0:4])
	}

	meta := models.VolumeMeta{
		Kind:   models.ElementKind(header[4]),
		Width:  int(binary.LittleEndian.Uint32(header[8:12])),
		Height: int(binary.LittleEndian.Uint32(header[12:16])),
		Depth:  int(binary.LittleEndian.Uint32(header[16:20])),
	}
	if err := meta.Validate(); err != nil {
		return models.VolumeMeta{}, 0, fmt.Errorf("volio: bad header: %w", err)
	}

	compression := header[5]
	if compression != compressionNone && compression != compressionZstd {
		return models.VolumeMeta{}, 0, fmt.Errorf("volio: unknown compression %d", compression)
	}
	return meta, compression, nil
}

// ReadMeta parses only the container header, for listings and kind checks.
func ReadMeta(r io.Reader) (models.VolumeMeta, error) {
	meta, _, err := readHeader(r)
	return meta, err
}

// Read loads a volume container into a dense view. The stored element
// kind must match the requested type T.
func Read[T Element](r io.Reader) (volume.View[T], error) {
	meta, compression, err := readHeader(r)
	if err != nil {
		return volume.View[T]{}, err
	}
	if want := KindOf[T](); meta.Kind != want {
		return volume.View[T]{}, fmt.Errorf("volio: container holds %s elements, caller expects %s", meta.Kind, want)
	}

	payload := r
	if compression == compressionZstd {
		zr, err := zstd.NewReader(r)
		if err != nil {
			return volume.View[T]{}, fmt.Errorf("volio: failed to create zstd reader: %w", err)
		}
		defer zr.Close()
		payload = zr
	}

	raw := make([]byte, meta.PayloadBytes())
	if _, err := io.ReadFull(payload, raw); err != nil {
		return volume.View[T]{}, fmt.Errorf("volio: truncated payload: %w", err)
	}

	return DecodeRaw[T](raw, meta.Width, meta.Height, meta.Depth)
}

// DecodeRaw builds a dense view from a tightly packed little-endian byte
// payload, as stored in a container or produced by external tools.
func DecodeRaw[T Element](raw []byte, width, height, depth int) (volume.View[T], error) {
	elemSize := KindOf[T]().Size()
	if len(raw) != width*height*depth*elemSize {
		return volume.View[T]{}, fmt.Errorf("volio: payload has %d bytes, %dx%dx%d %s volume needs %d",
			len(raw), width, height, depth, KindOf[T](), width*height*depth*elemSize)
	}

	v := volume.NewDense[T](width, height, depth)
	for i := range v.Data {
		v.Data[i] = getElement[T](raw[i*elemSize:])
	}
	return v, nil
}
