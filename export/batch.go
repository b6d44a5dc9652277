package export

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/voxelsplace/voxexport/voxel"
)

// Job is one region export of a batch.
type Job struct {
	Source  voxel.Source
	Cuboid  voxel.Cuboid
	Base    string
	Options Options
}

// Batch runs jobs with at most concurrency exports in flight (all of them
// when concurrency <= 0). Results line up with jobs. The first failure
// cancels the jobs that have not finished and is returned.
func Batch(ctx context.Context, jobs []Job, concurrency int) ([]Result, error) {
	results := make([]Result, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if concurrency > 0 {
		g.SetLimit(concurrency)
	}
	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := Export(ctx, job.Source, job.Cuboid, job.Base, job.Options)
			results[i] = res
			if err != nil {
				return fmt.Errorf("job %d (%s): %w", i, job.Base, err)
			}
			return nil
		})
	}
	err := g.Wait()
	return results, err
}
