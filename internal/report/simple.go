package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/nao1215/pagescrape/internal/model"
)

// SimpleWriter outputs plain text: for every category, its heading
// followed by one item per line.
type SimpleWriter struct {
	baseWriter

	// showTarget prints a banner naming the target before its sections.
	showTarget bool

	heading *color.Color
	added   *color.Color
	removed *color.Color
	failure *color.Color
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithTargetBanner prints a banner with the target URL and status before
// each result. Useful when several targets share one report.
func WithTargetBanner(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showTarget = show
	}
}

// WithColor forces colored output on or off. Without it, fatih/color
// decides based on whether stdout is a terminal.
func WithColor(enabled bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		for _, c := range []*color.Color{w.heading, w.added, w.removed, w.failure} {
			if enabled {
				c.EnableColor()
			} else {
				c.DisableColor()
			}
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		heading:    color.New(color.FgCyan, color.Bold),
		added:      color.New(color.FgGreen),
		removed:    color.New(color.FgRed),
		failure:    color.New(color.FgRed, color.Bold),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs every result's sections.
func (w *SimpleWriter) Write(results []*model.ScrapeResult) (int, error) {
	var sb strings.Builder
	for _, r := range results {
		if w.showTarget {
			w.writeBanner(&sb, r)
		}
		if r.Failed() {
			sb.WriteString(w.failure.Sprintf("ERROR: %s: %s", r.Target, r.ErrorMessage))
			sb.WriteString("\n\n")
			continue
		}
		for _, c := range model.AllCategories {
			sb.WriteString(w.heading.Sprint(c.Heading()))
			sb.WriteString("\n")
			for _, item := range r.Set(c).Items() {
				sb.WriteString(item)
				sb.WriteString("\n")
			}
			sb.WriteString("\n")
		}
	}
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeBanner(sb *strings.Builder, r *model.ScrapeResult) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("Target:     %s\n", r.Target))
	if r.Page != nil {
		if r.Page.FinalURL != "" && r.Page.FinalURL != r.Target {
			sb.WriteString(fmt.Sprintf("Final URL:  %s\n", r.Page.FinalURL))
		}
		sb.WriteString(fmt.Sprintf("Status:     %d\n", r.Page.StatusCode))
	}
	sb.WriteString(fmt.Sprintf("Scraped At: %s\n", r.ScrapedAt.Format(timeFormat)))
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")
}

// WriteDiff outputs added items prefixed with "+" and removed items with "-".
func (w *SimpleWriter) WriteDiff(diff *model.ResultDiff) (int, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Target: %s\n", diff.Target))
	sb.WriteString(fmt.Sprintf("From:   %s\n", formatTime(diff.From)))
	sb.WriteString(fmt.Sprintf("To:     %s\n\n", formatTime(diff.To)))

	if !diff.HasChanges() {
		sb.WriteString("No changes.\n")
		return io.WriteString(w.output, sb.String())
	}

	for _, c := range model.AllCategories {
		cd := diff.Categories[c]
		if len(cd.Added) == 0 && len(cd.Removed) == 0 {
			continue
		}
		sb.WriteString(w.heading.Sprint(c.Heading()))
		sb.WriteString("\n")
		for _, item := range cd.Added {
			sb.WriteString(w.added.Sprint("+ " + item))
			sb.WriteString("\n")
		}
		for _, item := range cd.Removed {
			sb.WriteString(w.removed.Sprint("- " + item))
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
	}

	added, removed := diff.Counts()
	sb.WriteString(fmt.Sprintf("%d added, %d removed\n", added, removed))
	return io.WriteString(w.output, sb.String())
}
