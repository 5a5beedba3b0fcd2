package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/pagescrape/internal/model"
)

// Step is one stage of a scrape.
type Step interface {
	// Do executes the step against result.
	// Returning an error stops the pipeline. Problems that should not stop
	// it are logged and Do returns nil.
	Do(ctx context.Context, result *model.ScrapeResult) error

	// Name returns the step's name for logging and PerformedSteps.
	Name() string
}

// Pipeline executes steps in order.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{steps: make([]Step, 0)}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends a step to the pipeline.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all steps in sequence and returns the first error.
// The error is also recorded in result.
func (p *Pipeline) Execute(ctx context.Context, result *model.ScrapeResult) error {
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"target", result.Target,
				"reason", err,
			)
			result.TimedOut = true
			result.SetError(err)
			return err
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"target", result.Target,
		)

		if err := step.Do(ctx, result); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"target", result.Target,
				"error", err,
			)
			result.SetError(err)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"target", result.Target,
		)
		result.AddStep(step.Name())
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
