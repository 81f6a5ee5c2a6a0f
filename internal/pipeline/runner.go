// Package pipeline runs one mapping rule over many documents concurrently.
//
// Each worker owns its own engine.Mapper; all workers share one lookup
// table, which is never mutated by the engine. A document is handled by
// exactly one worker, and a failing document does not stop the others.
package pipeline

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"span-mapper/internal/cas"
	"span-mapper/internal/engine"
	"span-mapper/internal/logger"
	"span-mapper/internal/lookup"
	"span-mapper/internal/mapping"
)

// Job is one document to map.
type Job struct {
	// Name identifies the job in results and logs, typically a file path.
	Name string
	// Open produces the document.
	Open func() (*cas.Document, error)
	// Done, when set, receives the document after mapping. It is called
	// whenever the rule was applied, even if some spans failed.
	Done func(*cas.Document) error
}

// DocumentJob wraps an in-memory document.
func DocumentJob(doc *cas.Document) Job {
	return Job{
		Name: doc.ID,
		Open: func() (*cas.Document, error) { return doc, nil },
	}
}

// Result is the outcome of one job.
type Result struct {
	Name     string
	Document *cas.Document
	// Report is nil when the document could not be opened or the rule did
	// not resolve against its type system.
	Report *engine.Report
	Err    error
}

// Runner fans jobs out to a fixed number of workers.
type Runner struct {
	rule    mapping.Rule
	table   lookup.Table
	workers int
	log     *zap.SugaredLogger
}

// NewRunner returns a runner applying rule with table on workers goroutines.
func NewRunner(rule mapping.Rule, table lookup.Table, workers int) (*Runner, error) {
	if workers < 1 {
		return nil, errors.Newf("workers must be at least 1, got %d", workers)
	}

	// fail fast on a bad rule instead of once per worker
	if _, err := engine.New(rule, table); err != nil {
		return nil, err
	}

	return &Runner{
		rule:    rule,
		table:   table,
		workers: workers,
		log:     logger.ComponentLogger("pipeline"),
	}, nil
}

// Run processes jobs and returns one result per job, in job order.
// Per-job failures are reported in Result.Err. Run itself fails only when
// ctx is cancelled; jobs not started by then carry the context error.
func (r *Runner) Run(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	started := make([]bool, len(jobs))

	for i, job := range jobs {
		results[i].Name = job.Name
	}

	g, gctx := errgroup.WithContext(ctx)
	queue := make(chan int)

	g.Go(func() error {
		defer close(queue)

		for i := range jobs {
			if err := gctx.Err(); err != nil {
				return err
			}

			select {
			case queue <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}

		return nil
	})

	for w := 0; w < min(r.workers, max(len(jobs), 1)); w++ {
		g.Go(func() error {
			m, err := engine.New(r.rule, r.table)
			if err != nil {
				return err
			}

			for i := range queue {
				started[i] = true
				results[i] = r.process(m, jobs[i])
			}

			return nil
		})
	}

	err := g.Wait()

	for i := range results {
		if !started[i] && err != nil {
			results[i].Err = err
		}
	}

	if err != nil {
		return results, errors.Wrap(err, "pipeline interrupted")
	}

	return results, nil
}

func (r *Runner) process(m *engine.Mapper, job Job) Result {
	res := Result{Name: job.Name}

	doc, err := job.Open()
	if err != nil {
		res.Err = errors.Wrapf(err, "open %s", job.Name)
		r.log.Warnw("Failed to open document", "job", job.Name, "error", err)

		return res
	}

	res.Document = doc

	report, err := m.Process(doc)
	res.Report = report
	res.Err = err

	if err != nil {
		r.log.Warnw("Document mapped with errors", "job", job.Name, "document", doc.ID, "error", err)
	}

	if report == nil || job.Done == nil {
		return res
	}

	if err := job.Done(doc); err != nil {
		res.Err = errors.CombineErrors(res.Err, errors.Wrapf(err, "finish %s", job.Name))
	}

	return res
}

// Failed returns the results carrying an error.
func Failed(results []Result) []Result {
	var out []Result

	for _, res := range results {
		if res.Err != nil {
			out = append(out, res)
		}
	}

	return out
}
