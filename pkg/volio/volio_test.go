package volio

import (
	"bytes"
	"strings"
	"testing"

	"voxelcc3d/internal/models"
	"voxelcc3d/pkg/volume"
)

// testVolume builds a small uint8 volume with a recognizable pattern
func testVolume(w, h, d int) volume.View[uint8] {
	v := volume.NewDense[uint8](w, h, d)
	for i := range v.Data {
		v.Data[i] = uint8(i * 7)
	}
	return v
}

// TestRoundTrip verifies write/read round trips for both compression modes
func TestRoundTrip(t *testing.T) {
	for _, compress := range []bool{false, true} {
		name := "Raw"
		if compress {
			name = "Zstd"
		}
		t.Run(name, func(t *testing.T) {
			want := testVolume(5, 4, 3)

			var buf bytes.Buffer
			if err := Write(&buf, want, compress); err != nil {
				t.Fatalf("Failed to write volume: %v", err)
			}

			got, err := Read[uint8](&buf)
			if err != nil {
				t.Fatalf("Failed to read volume: %v", err)
			}
			if !volume.Equal(want, got) {
				t.Fatal("Round-tripped volume differs from original")
			}
		})
	}
}

// TestRoundTripWideElements verifies multi-byte elements survive encoding
func TestRoundTripWideElements(t *testing.T) {
	want := volume.NewDense[uint32](3, 2, 2)
	for i := range want.Data {
		want.Data[i] = uint32(i) * 0x01020304
	}

	var buf bytes.Buffer
	if err := Write(&buf, want, true); err != nil {
		t.Fatalf("Failed to write volume: %v", err)
	}
	got, err := Read[uint32](&buf)
	if err != nil {
		t.Fatalf("Failed to read volume: %v", err)
	}
	if !volume.Equal(want, got) {
		t.Fatal("Round-tripped uint32 volume differs from original")
	}
}

// TestWriteStridedView verifies a sub-region writes as a packed payload
func TestWriteStridedView(t *testing.T) {
	parent := testVolume(6, 6, 4)
	sub, err := parent.Sub(1, 1, 1, 3, 2, 2)
	if err != nil {
		t.Fatalf("Failed to create sub-region: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, sub, false); err != nil {
		t.Fatalf("Failed to write sub-region: %v", err)
	}

	got, err := Read[uint8](&buf)
	if err != nil {
		t.Fatalf("Failed to read volume: %v", err)
	}
	if got.Stride != got.Width || got.Leap != got.Width*got.Height {
		t.Error("Read volume is not tightly packed")
	}
	if !volume.Equal(sub, got) {
		t.Fatal("Round-tripped sub-region differs from original")
	}
}

// TestReadMeta verifies header-only inspection
func TestReadMeta(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testVolume(7, 5, 2), true); err != nil {
		t.Fatalf("Failed to write volume: %v", err)
	}

	meta, err := ReadMeta(&buf)
	if err != nil {
		t.Fatalf("Failed to read metadata: %v", err)
	}
	want := models.VolumeMeta{Kind: models.Uint8, Width: 7, Height: 5, Depth: 2}
	if meta != want {
		t.Fatalf("Metadata = %+v, want %+v", meta, want)
	}
}

// TestKindMismatch verifies reading with the wrong element type fails
func TestKindMismatch(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testVolume(2, 2, 2), false); err != nil {
		t.Fatalf("Failed to write volume: %v", err)
	}

	_, err := Read[uint16](&buf)
	if err == nil {
		t.Fatal("Expected kind mismatch error")
	}
	if !strings.Contains(err.Error(), "uint8") || !strings.Contains(err.Error(), "uint16") {
		t.Fatalf("Mismatch error %q does not name both kinds", err)
	}
}

// TestBadMagic verifies foreign files are rejected
func TestBadMagic(t *testing.T) {
	data := append([]byte("NOPE"), make([]byte, 32)...)
	if _, err := Read[uint8](bytes.NewReader(data)); err == nil {
		t.Fatal("Expected error for bad magic")
	}
}

// TestTruncatedPayload verifies short files are detected
func TestTruncatedPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, testVolume(4, 4, 4), false); err != nil {
		t.Fatalf("Failed to write volume: %v", err)
	}

	truncated := buf.Bytes()[:buf.Len()-10]
	if _, err := Read[uint8](bytes.NewReader(truncated)); err == nil {
		t.Fatal("Expected error for truncated payload")
	}
}

// TestDecodeRaw verifies decoding externally produced payloads
func TestDecodeRaw(t *testing.T) {
	raw := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	v, err := DecodeRaw[uint16](raw, 2, 2, 1)
	if err != nil {
		t.Fatalf("Failed to decode raw payload: %v", err)
	}
	want := []uint16{1, 2, 3, 4}
	for i, e := range want {
		if v.Data[i] != e {
			t.Fatalf("Element %d = %d, want %d", i, v.Data[i], e)
		}
	}

	if _, err := DecodeRaw[uint16](raw, 3, 2, 1); err == nil {
		t.Fatal("Expected error for wrong payload length")
	}
}
