package report

import (
	"io"
	"time"

	"github.com/nao1215/pagescrape/internal/model"
)

// Writer outputs scrape results in some format.
type Writer interface {
	// Write outputs the results of one invocation, in target order.
	// Returns the number of bytes written and any error encountered.
	Write(results []*model.ScrapeResult) (int, error)

	// WriteDiff outputs the difference between two stored runs.
	WriteDiff(diff *model.ResultDiff) (int, error)
}

// MultiWriter writes to multiple Writers in turn.
// It stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the results to all configured Writers.
func (m *MultiWriter) Write(results []*model.ScrapeResult) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(results)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteDiff outputs the diff to all configured Writers.
func (m *MultiWriter) WriteDiff(diff *model.ResultDiff) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteDiff(diff)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// timeFormat is used for timestamps in human-readable reports.
const timeFormat = "2006-01-02 15:04:05 MST"

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(timeFormat)
}
