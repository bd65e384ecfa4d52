package ratiostudy

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sartorproj/goratio/sample"
)

// Job is one sample to study in a batch, typically a jurisdiction or a time
// window. Set Sample, or Assessed and SalePrices to build one.
type Job struct {
	Name       string
	Sample     *sample.Sample
	Assessed   []float64
	SalePrices []float64
}

// BatchResult is the outcome of one Job. Err is set instead of Report when
// the job's sample was invalid or a statistic could not be computed.
type BatchResult struct {
	Name   string  `json:"name"`
	Report *Report `json:"report,omitempty"`
	Err    error   `json:"-"`
}

// RunBatch runs Run on every job with at most limit jobs in flight
// (limit <= 0 means no limit). Results are returned in job order. A failing
// job does not stop the others; the returned error is non-nil only for
// invalid options or when ctx is done before every job has started.
func RunBatch(ctx context.Context, jobs []Job, opts *Options, limit int) ([]BatchResult, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	results := make([]BatchResult, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = runJob(job, opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	opts.logger().Debug("batch finished", "jobs", len(jobs), "failed", failed)
	return results, nil
}

func runJob(job Job, opts *Options) BatchResult {
	res := BatchResult{Name: job.Name}
	s := job.Sample
	if s == nil {
		var err error
		if s, err = FromPairs(job.Assessed, job.SalePrices); err != nil {
			res.Err = err
			return res
		}
	}
	res.Report, res.Err = Run(s, opts)
	return res
}
