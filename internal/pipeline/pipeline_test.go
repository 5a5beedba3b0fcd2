package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/nao1215/pagescrape/internal/model"
)

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, result *model.ScrapeResult) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, result *model.ScrapeResult) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, result)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	t.Run("new pipeline has no steps", func(t *testing.T) {
		t.Parallel()

		if got := New().StepCount(); got != 0 {
			t.Errorf("expected 0 steps, got %d", got)
		}
	})

	t.Run("maintains step order", func(t *testing.T) {
		t.Parallel()

		p := New()
		p.AddStep(&mockStep{name: "first"})
		p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

		expected := []string{"first", "second", "third"}
		names := p.StepNames()
		if len(names) != len(expected) {
			t.Fatalf("expected %d names, got %v", len(expected), names)
		}
		for i, name := range names {
			if name != expected[i] {
				t.Errorf("step %d: got %q, expected %q", i, name, expected[i])
			}
		}
	})
}

func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		order := make([]string, 0)
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(context.Context, *model.ScrapeResult) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New()
		p.AddSteps(record("a"), record("b"), record("c"))

		result := model.NewScrapeResult("https://example.com")
		if err := p.Execute(context.Background(), result); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(order) != 3 || order[0] != "a" || order[2] != "c" {
			t.Errorf("unexpected execution order: %v", order)
		}
		if len(result.PerformedSteps) != 3 {
			t.Errorf("expected 3 performed steps, got %v", result.PerformedSteps)
		}
	})

	t.Run("stops at the first error", func(t *testing.T) {
		t.Parallel()

		errBoom := errors.New("boom")
		failing := &mockStep{name: "fail", doFunc: func(context.Context, *model.ScrapeResult) error {
			return errBoom
		}}
		after := &mockStep{name: "after"}

		p := New()
		p.AddSteps(&mockStep{name: "ok"}, failing, after)

		result := model.NewScrapeResult("https://example.com")
		err := p.Execute(context.Background(), result)

		if !errors.Is(err, errBoom) {
			t.Fatalf("expected errBoom, got %v", err)
		}
		if after.callCount != 0 {
			t.Error("expected step after failure not to run")
		}
		if !result.Failed() || result.ErrorMessage != "boom" {
			t.Errorf("expected error recorded in result, got %q", result.ErrorMessage)
		}
		if len(result.PerformedSteps) != 1 || result.PerformedSteps[0] != "ok" {
			t.Errorf("expected only ok to be performed, got %v", result.PerformedSteps)
		}
	})

	t.Run("stops when context is cancelled", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		first := &mockStep{name: "first", doFunc: func(context.Context, *model.ScrapeResult) error {
			cancel()
			return nil
		}}
		second := &mockStep{name: "second"}

		p := New()
		p.AddSteps(first, second)

		result := model.NewScrapeResult("https://example.com")
		err := p.Execute(ctx, result)

		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		if second.callCount != 0 {
			t.Error("expected second step not to run")
		}
		if !result.TimedOut {
			t.Error("expected TimedOut to be set")
		}
	})
}
