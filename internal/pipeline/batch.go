package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/pagescrape/internal/model"
)

// DefaultConcurrency is the number of targets scraped at once when
// WithConcurrency is not given.
const DefaultConcurrency = 4

// BatchProcessor scrapes multiple targets concurrently.
type BatchProcessor struct {
	// pipelineFactory creates a fresh pipeline for each target.
	// It receives the target so per-site settings can be applied.
	pipelineFactory func(target string) *Pipeline

	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of concurrent scrapes.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a new BatchProcessor.
func NewBatchProcessor(pipelineFactory func(target string) *Pipeline, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		pipelineFactory: pipelineFactory,
		concurrency:     DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch scrapes targets concurrently and returns one result per
// target, in input order. A failed target does not stop the others; its
// error is recorded in its result. The returned error is non-nil only
// when ctx was cancelled.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, targets []string) ([]*model.ScrapeResult, error) {
	bp.logger.Info("starting batch processing",
		"total_targets", len(targets),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	// Each goroutine writes only its own index.
	results := make([]*model.ScrapeResult, len(targets))
	for i, target := range targets {
		results[i] = model.NewScrapeResult(target)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, target := range targets {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i].TimedOut = true
				results[i].SetError(err)
				return err
			}

			bp.logger.Info("scraping target",
				"target", target,
				"index", i+1,
				"total", len(targets),
			)

			if err := bp.pipelineFactory(target).Execute(ctx, results[i]); err != nil {
				bp.logger.Warn("scrape failed", "target", target, "error", err)
				return nil
			}

			bp.logger.Info("scrape completed", "target", target)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch processing complete",
		"total_targets", len(targets),
		"elapsed", time.Since(startTime),
	)

	return results, err
}

// JoinErrors combines the failures recorded in results into one error,
// prefixing each with its target. It returns nil when every scrape succeeded.
func JoinErrors(results []*model.ScrapeResult) error {
	var errs []error
	for _, r := range results {
		if r == nil || !r.Failed() {
			continue
		}
		err := r.Error
		if err == nil {
			err = errors.New(r.ErrorMessage)
		}
		errs = append(errs, fmt.Errorf("%s: %w", r.Target, err))
	}
	return errors.Join(errs...)
}
