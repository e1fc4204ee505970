package labeling

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"voxelcc3d/pkg/volume"
)

// Job is one independent labeling task for LabelBatch. The input and
// output views must not overlap those of any other job in the batch.
type Job[T comparable, U Unsigned] struct {
	Input           volume.View[T]
	Background      T
	Output          volume.View[U]
	BackgroundLabel U
}

// LabelBatch labels several independent volumes concurrently. Each job is
// a complete Label call with its own forest and statistics; no state is
// shared between jobs, so no locking is involved. workers bounds the
// number of volumes labeled at once; 0 means runtime.NumCPU().
//
// Results are returned in job order. The first failing job cancels the
// rest of the batch and its error is returned.
func LabelBatch[T comparable, U Unsigned](ctx context.Context, params Params, jobs []Job[T, U], workers int) ([][]Component[T, U], error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([][]Component[T, U], len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			components, err := Label(params, job.Input, job.Background, job.Output, job.BackgroundLabel)
			if err != nil {
				return err
			}
			results[i] = components
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
