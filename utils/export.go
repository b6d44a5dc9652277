package utils

import (
	"context"
	"fmt"

	"github.com/voxelsplace/voxexport/config"
	"github.com/voxelsplace/voxexport/export"
	"github.com/voxelsplace/voxexport/voxel"
)

// RunExport exports a snapshot file, or the part of it inside region when
// region is non-nil, to base.<ext>.
func RunExport(ctx context.Context, inPath, base string, region *voxel.Cuboid, opts export.Options) (export.Result, error) {
	g, err := LoadSnapshot(inPath)
	if err != nil {
		return export.Result{Status: export.Failed}, err
	}
	c := g.Bounds()
	if region != nil {
		c = *region
	}
	return export.Export(ctx, g, c, base, opts)
}

// RunBatch runs the batch jobs of cfg. Jobs without a mode use the export
// section's.
func RunBatch(ctx context.Context, cfg *config.Config) ([]export.Result, error) {
	if len(cfg.Batch.Jobs) == 0 {
		return nil, fmt.Errorf("no batch jobs configured")
	}
	defaults := cfg.ExportOptions()
	jobs := make([]export.Job, 0, len(cfg.Batch.Jobs))
	for _, jc := range cfg.Batch.Jobs {
		g, err := LoadSnapshot(jc.Input)
		if err != nil {
			return nil, err
		}
		opts := defaults
		if jc.Mode != "" {
			if opts.Mode, err = export.ParseMode(jc.Mode); err != nil {
				return nil, err
			}
		}
		c, ok := jc.Region()
		if !ok {
			c = g.Bounds()
		}
		jobs = append(jobs, export.Job{Source: g, Cuboid: c, Base: jc.Output, Options: opts})
	}
	return export.Batch(ctx, jobs, cfg.Batch.Concurrency)
}
