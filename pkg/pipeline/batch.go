package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// BatchResult is the outcome for one file of a batch.
type BatchResult struct {
	Path   string
	Result *Result
	Err    error
}

// Batch loads and analyses every file in paths with at most jobs running at
// once (jobs <= 0 means DefaultJobs). A failing file does not stop the
// others; its error is reported in its BatchResult. Results keep the order
// of paths. The returned error is non-nil only when ctx ends early.
func (r *Runner) Batch(ctx context.Context, paths []string, opts Options, jobs int) ([]BatchResult, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	if jobs <= 0 {
		jobs = DefaultJobs
	}

	results := make([]BatchResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		g.Go(func() error {
			results[i] = r.analyzeFile(ctx, path, opts)
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) analyzeFile(ctx context.Context, path string, opts Options) BatchResult {
	res := BatchResult{Path: path}
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	d, err := r.Load(ctx, path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Result, res.Err = r.Analyze(ctx, d, opts)
	if res.Err != nil {
		r.Logger.Warn("analysis failed", "path", path, "err", res.Err)
	}
	return res
}
