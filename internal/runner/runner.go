// Package runner coordinates a batch: it fans source documents out to the
// normalize → build → publish chain across a bounded worker pool and
// aggregates per-document outcomes into a run report.
package runner

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/perthos/docpress/internal/artifact"
	"github.com/perthos/docpress/internal/models"
	"github.com/perthos/docpress/internal/normalize"
	"github.com/perthos/docpress/internal/store"
)

// Runner orchestrates one batch of source documents.
type Runner struct {
	pipeline    *normalize.Pipeline
	publisher   *store.Publisher
	concurrency int
	logger      *slog.Logger
	now         func() time.Time
}

// New creates a runner. concurrency bounds simultaneous in-flight documents;
// values below 1 are treated as 1.
func New(pipeline *normalize.Pipeline, publisher *store.Publisher, concurrency int, logger *slog.Logger) *Runner {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Runner{
		pipeline:    pipeline,
		publisher:   publisher,
		concurrency: concurrency,
		logger:      logger,
		now:         time.Now,
	}
}

// Run processes every document and finalizes the manifest. Documents are
// independent: distinct target paths never collide, so workers need no
// locking among themselves. Cancelling ctx stops dispatching new documents
// but lets in-flight ones finish, so no partial artifacts are left behind.
// Per-document failures are recorded in the report, never returned; only
// manifest finalization can fail the run.
func (r *Runner) Run(ctx context.Context, docs []models.SourceDocument) (*models.RunReport, error) {
	report := &models.RunReport{Errors: []models.DocumentError{}}
	entries := make([]models.ManifestEntry, 0, len(docs))
	var mu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(r.concurrency)

	for _, doc := range docs {
		if ctx.Err() != nil {
			r.logger.Warn("run aborted, draining in-flight documents",
				slog.String("reason", ctx.Err().Error()))
			break
		}
		g.Go(func() error {
			outcome, entry, err := r.process(doc)

			mu.Lock()
			defer mu.Unlock()
			report.Processed++
			switch outcome {
			case store.OutcomeWritten:
				report.Written++
				entries = append(entries, entry)
			case store.OutcomeSkipped:
				report.Skipped++
				entries = append(entries, entry)
			case store.OutcomeErrored:
				report.Errors = append(report.Errors, models.DocumentError{
					Path:    doc.Path,
					Message: err.Error(),
				})
				r.logger.Error("document failed",
					slog.String("path", doc.Path),
					slog.String("error", err.Error()))
			}
			return nil
		})
	}

	// Barrier: every document must reach a terminal outcome before the
	// manifest is regenerated.
	_ = g.Wait()

	if err := r.publisher.Finalize(entries); err != nil {
		return report, err
	}

	r.logger.Info("run complete",
		slog.Int("processed", report.Processed),
		slog.Int("written", report.Written),
		slog.Int("skipped", report.Skipped),
		slog.Int("errors", len(report.Errors)))
	return report, nil
}

// process runs one document through the chain. Normalization warnings are
// logged and carried into the artifact's lifecycle but are not errors.
func (r *Runner) process(doc models.SourceDocument) (store.Outcome, models.ManifestEntry, error) {
	normalized := r.pipeline.Normalize(doc)
	for _, w := range normalized.Warnings {
		r.logger.Warn("transform warning",
			slog.String("path", doc.Path),
			slog.String("warning", w))
	}
	a := artifact.Build(normalized, doc, r.now())
	return r.publisher.Publish(a)
}
