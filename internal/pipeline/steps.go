package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"github.com/nao1215/pagescrape/internal/extract"
	"github.com/nao1215/pagescrape/internal/fetch"
	"github.com/nao1215/pagescrape/internal/markup"
	"github.com/nao1215/pagescrape/internal/model"
)

// Step names, in default execution order.
const (
	StepFetch     = "fetch"
	StepTokenize  = "tokenize"
	StepMatch     = "match"
	StepTagScan   = "tag_scan"
	StepAggregate = "aggregate"
)

// PageFetcher retrieves a page. *fetch.Fetcher implements it.
type PageFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*model.Page, error)
}

// FetchStep downloads the target page.
// A truncated body or a non-2xx status is logged and the scrape continues.
type FetchStep struct {
	fetcher PageFetcher
	logger  *slog.Logger
}

// NewFetchStep creates a fetch step.
func NewFetchStep(fetcher PageFetcher, logger *slog.Logger) *FetchStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &FetchStep{fetcher: fetcher, logger: logger}
}

// Name returns the step name.
func (s *FetchStep) Name() string { return StepFetch }

// Do executes the fetch step.
func (s *FetchStep) Do(ctx context.Context, result *model.ScrapeResult) error {
	page, err := s.fetcher.Fetch(ctx, result.Target)
	if err != nil {
		if !errors.Is(err, fetch.ErrBodyTooLarge) || page == nil {
			return err
		}
		s.logger.Warn("response body truncated", "target", result.Target, "error", err)
	}

	if err := fetch.CheckStatus(page); err != nil {
		s.logger.Warn("extracting from unsuccessful response", "target", result.Target, "error", err)
	}
	if !page.IsHTML() {
		s.logger.Warn("response is not HTML", "target", result.Target, "content_type", page.ContentType)
	}

	result.Page = page
	return nil
}

// TokenizeStep separates the page's text from its markup.
type TokenizeStep struct{}

// Name returns the step name.
func (TokenizeStep) Name() string { return StepTokenize }

// Do executes the tokenize step.
func (TokenizeStep) Do(_ context.Context, result *model.ScrapeResult) error {
	if result.Page == nil {
		return ErrNoPage
	}
	result.Document = markup.Parse(result.Page.Raw)
	return nil
}

// MatchStep runs the text matchers over the tokenized text in parallel.
type MatchStep struct{}

// Name returns the step name.
func (MatchStep) Name() string { return StepMatch }

// Do executes the match step.
func (MatchStep) Do(ctx context.Context, result *model.ScrapeResult) error {
	matches, err := extract.MatchText(ctx, result.Document)
	if err != nil {
		return err
	}
	result.Matches = extract.MergeMatches(result.Matches, matches)
	return nil
}

// TagScanStep parses the page into a tree and matches references in the
// href and src attributes of a and img elements.
type TagScanStep struct {
	logger *slog.Logger
}

// NewTagScanStep creates a tag scan step.
func NewTagScanStep(logger *slog.Logger) *TagScanStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &TagScanStep{logger: logger}
}

// Name returns the step name.
func (s *TagScanStep) Name() string { return StepTagScan }

// Do executes the tag scan step.
func (s *TagScanStep) Do(ctx context.Context, result *model.ScrapeResult) error {
	if result.Page == nil {
		return ErrNoPage
	}

	values, matches, err := extract.ScanTags(ctx, result.Page.Raw)
	if errors.Is(err, extract.ErrTreeParse) {
		s.logger.Warn("tag scan skipped", "target", result.Target, "error", err)
	} else if err != nil {
		return err
	}
	result.TagAttributes = values
	result.Matches = extract.MergeMatches(result.Matches, matches)
	return nil
}

// AggregateStep deduplicates the matches into result sets.
type AggregateStep struct{}

// Name returns the step name.
func (AggregateStep) Name() string { return StepAggregate }

// Do executes the aggregate step.
func (AggregateStep) Do(_ context.Context, result *model.ScrapeResult) error {
	result.Extraction = *extract.Assemble(result.Document, result.TagAttributes, result.Matches)
	return nil
}

// DefaultPipeline creates the standard scrape pipeline around fetcher.
func DefaultPipeline(fetcher PageFetcher, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewFetchStep(fetcher, p.logger),
		TokenizeStep{},
		MatchStep{},
		NewTagScanStep(p.logger),
		AggregateStep{},
	)
	return p
}
