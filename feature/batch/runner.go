package batch

import (
	"context"
	"fmt"
	"os"
	"time"

	"doc-composer/core/library"
	"doc-composer/core/manifest"
	"doc-composer/feature/compose"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome of one job.
type Result struct {
	Job      Job              `json:"job"`
	Outcome  *compose.Outcome `json:"-"`
	Pages    int              `json:"pages"`
	Skipped  int              `json:"skipped"`
	Duration time.Duration    `json:"duration"`
	Err      error            `json:"-"`
	Error    string           `json:"error,omitempty"`
}

// Failed reports whether the job failed.
func (r Result) Failed() bool {
	return r.Err != nil
}

// Runner composes the jobs of a batch file concurrently.
type Runner struct {
	service *compose.Service
	logger  *zap.Logger
	workers int
}

// NewRunner creates a runner. workers is used when the job file sets none.
func NewRunner(service *compose.Service, logger *zap.Logger, workers int) *Runner {
	if workers < 1 {
		workers = 1
	}
	return &Runner{service: service, logger: logger, workers: workers}
}

// Run composes every job and returns their results in file order.
// The library is listed once and shared by all jobs. A failing job does
// not stop the others; only failing to load the library fails the run.
func (r *Runner) Run(ctx context.Context, f *File) ([]Result, error) {
	snap, err := r.service.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load library: %w", err)
	}

	opts := r.service.Options()
	opts.Interactive = !f.AcceptFuzzy
	svc := r.service.With(opts)

	workers := f.Workers
	if workers < 1 {
		workers = r.workers
	}
	r.logger.Info("Starting batch",
		zap.Int("jobs", len(f.Jobs)),
		zap.Int("workers", workers),
		zap.Int("library", snap.Index.Len()),
	)

	results := make([]Result, len(f.Jobs))
	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range f.Jobs {
		g.Go(func() error {
			results[i] = r.runJob(ctx, svc, snap, f, job)
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
		}
	}
	r.logger.Info("Batch finished", zap.Int("jobs", len(results)), zap.Int("failed", failed))
	return results, nil
}

func (r *Runner) runJob(ctx context.Context, svc *compose.Service, snap *library.Snapshot, f *File, job Job) Result {
	start := time.Now()
	res := Result{Job: job}
	l := r.logger.With(zap.String("job", job.Name))

	finish := func(err error) Result {
		res.Duration = time.Since(start)
		if err != nil {
			res.Err = err
			res.Error = err.Error()
			l.Error("Job failed", zap.Error(err))
		} else {
			l.Info("Job completed", zap.String("output", job.Output), zap.Int("pages", res.Pages))
		}
		return res
	}

	if err := ctx.Err(); err != nil {
		return finish(err)
	}

	text, err := os.ReadFile(job.Manifest)
	if err != nil {
		return finish(fmt.Errorf("failed to read manifest: %w", err))
	}

	plan, err := svc.PlanWith(snap, manifest.Parse(string(text)))
	if err != nil {
		return finish(err)
	}

	master := job.Master
	if master == "" {
		master = f.Master
	}
	out, err := svc.Complete(ctx, plan, compose.Request{
		Master:    master,
		Output:    job.Output,
		Confirmer: compose.RejectAll,
	})
	res.Outcome = out
	if out != nil {
		res.Skipped = len(out.Plan.Results) - len(out.Selected)
		if out.Merge != nil {
			res.Pages = out.Merge.Pages
		}
	}
	return finish(err)
}
