package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/pagescrape/internal/model"
)

// JSONWriter outputs reports in JSON format for tool integration.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool

	// version is recorded in the output when set.
	version string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables two-space indented output.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// WithVersion records the pagescrape version in the output.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// CategoryCount is the number of matches in a category before and after
// deduplication.
type CategoryCount struct {
	Raw    int `json:"raw"`
	Unique int `json:"unique"`
}

// JSONResult is one target's entry in a JSONReport.
type JSONResult struct {
	*model.ScrapeResult
	Counts map[model.Category]CategoryCount `json:"counts"`
}

// JSONReport is the document JSONWriter emits.
type JSONReport struct {
	Version string       `json:"version,omitempty"`
	Results []JSONResult `json:"results"`
}

// NewJSONReport wraps results with their per-category counts.
func NewJSONReport(results []*model.ScrapeResult, version string) *JSONReport {
	report := &JSONReport{
		Version: version,
		Results: make([]JSONResult, 0, len(results)),
	}
	for _, r := range results {
		counts := make(map[model.Category]CategoryCount, len(model.AllCategories))
		for _, c := range model.AllCategories {
			counts[c] = CategoryCount{Raw: r.RawCount(c), Unique: r.Set(c).Len()}
		}
		report.Results = append(report.Results, JSONResult{ScrapeResult: r, Counts: counts})
	}
	return report
}

// Write outputs the results wrapped in a JSONReport.
func (w *JSONWriter) Write(results []*model.ScrapeResult) (int, error) {
	return w.writeJSON(NewJSONReport(results, w.version))
}

// WriteDiff outputs the diff as JSON.
func (w *JSONWriter) WriteDiff(diff *model.ResultDiff) (int, error) {
	return w.writeJSON(diff)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	data = append(data, '\n')
	return w.output.Write(data)
}
