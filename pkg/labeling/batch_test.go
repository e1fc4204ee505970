package labeling

import (
	"context"
	"reflect"
	"testing"

	"voxelcc3d/pkg/volume"
)

// TestLabelBatch verifies independent volumes label concurrently with
// results in job order
func TestLabelBatch(t *testing.T) {
	inputs := []volume.View[uint8]{
		pseudoRandomVolume(7, 6, 5, 1),
		pseudoRandomVolume(5, 5, 5, 2),
		pseudoRandomVolume(9, 3, 4, 3),
	}

	jobs := make([]Job[uint8, uint32], len(inputs))
	for i, in := range inputs {
		jobs[i] = Job[uint8, uint32]{
			Input:  in,
			Output: volume.NewDense[uint32](in.Width, in.Height, in.Depth),
		}
	}

	results, err := LabelBatch(context.Background(), DefaultParams(), jobs, 2)
	if err != nil {
		t.Fatalf("Batch labeling failed: %v", err)
	}
	if len(results) != len(jobs) {
		t.Fatalf("Expected %d results, got %d", len(jobs), len(results))
	}

	// Each result must match a standalone call on the same volume
	for i, in := range inputs {
		out := volume.NewDense[uint32](in.Width, in.Height, in.Depth)
		want, err := Label(DefaultParams(), in, 0, out, 0)
		if err != nil {
			t.Fatalf("Standalone labeling failed: %v", err)
		}
		if !reflect.DeepEqual(results[i], want) {
			t.Errorf("Batch result %d differs from standalone labeling", i)
		}
		if !volume.Equal(jobs[i].Output, out) {
			t.Errorf("Batch label volume %d differs from standalone labeling", i)
		}
	}
}

// TestLabelBatchError verifies a failing job fails the whole batch
func TestLabelBatchError(t *testing.T) {
	good := pseudoRandomVolume(4, 4, 4, 1)
	jobs := []Job[uint8, uint32]{
		{Input: good, Output: volume.NewDense[uint32](4, 4, 4)},
		// Mismatched output dimensions make this job fail its preconditions
		{Input: good, Output: volume.NewDense[uint32](3, 3, 3)},
	}

	results, err := LabelBatch(context.Background(), DefaultParams(), jobs, 0)
	if err == nil {
		t.Fatal("Expected batch to fail on the malformed job")
	}
	if results != nil {
		t.Fatal("Failed batch must not return partial results")
	}
}

// TestLabelBatchEmpty verifies an empty batch succeeds trivially
func TestLabelBatchEmpty(t *testing.T) {
	results, err := LabelBatch(context.Background(), DefaultParams(), []Job[uint8, uint32]{}, 4)
	if err != nil {
		t.Fatalf("Empty batch failed: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("Empty batch returned %d results", len(results))
	}
}

// TestLabelBatchCanceled verifies a canceled context aborts the batch
func TestLabelBatchCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	jobs := []Job[uint8, uint32]{
		{Input: pseudoRandomVolume(4, 4, 4, 1), Output: volume.NewDense[uint32](4, 4, 4)},
	}
	if _, err := LabelBatch(ctx, DefaultParams(), jobs, 1); err == nil {
		t.Fatal("Expected error from canceled context")
	}
}
