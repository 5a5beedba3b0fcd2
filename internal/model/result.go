package model

import (
	"strings"
	"time"
)

// Document is what the tokenizer keeps from a page's markup.
type Document struct {
	// Text holds trimmed, non-empty character data in document order.
	// Raw text inside script and style elements is included.
	Text []string `json:"-"`

	// ResourceAttributes holds the values of whitelisted resource
	// attributes (e.g. img src) in document order.
	ResourceAttributes []string `json:"resource_attributes,omitempty"`
}

// Corpus joins the text segments with a single space.
// The pattern matchers run over this string.
func (d Document) Corpus() string {
	return strings.Join(d.Text, " ")
}

// Extraction is the output of one pass over a document.
type Extraction struct {
	// Document is the tokenizer output.
	Document Document `json:"document"`

	// TagAttributes holds the a/img href and src values found by the tree scan.
	TagAttributes []string `json:"tag_attributes,omitempty"`

	// Matches holds the raw matcher output per category, duplicates included.
	Matches map[Category][]string `json:"-"`

	// Sets holds the deduplicated result per category.
	Sets map[Category]*ResultSet `json:"results"`
}

// Set returns the result set for c. It never returns nil.
func (e *Extraction) Set(c Category) *ResultSet {
	if e != nil && e.Sets != nil {
		if s, ok := e.Sets[c]; ok && s != nil {
			return s
		}
	}
	return NewResultSet()
}

// RawCount returns how many matches c produced before deduplication.
func (e *Extraction) RawCount(c Category) int {
	if e == nil {
		return 0
	}
	return len(e.Matches[c])
}

// TotalItems returns the number of unique items across all categories.
func (e *Extraction) TotalItems() int {
	total := 0
	for _, c := range AllCategories {
		total += e.Set(c).Len()
	}
	return total
}

// Aggregate deduplicates each category independently.
// Every category in AllCategories is present in the result, even when empty.
func Aggregate(matches map[Category][]string) map[Category]*ResultSet {
	sets := make(map[Category]*ResultSet, len(AllCategories))
	for _, c := range AllCategories {
		sets[c] = NewResultSet(matches[c]...)
	}
	return sets
}

// ScrapeResult is the state one pipeline run builds up for a single target.
type ScrapeResult struct {
	// Target is the URL given on the command line.
	Target string `json:"target"`

	// ScrapedAt is when the run started.
	ScrapedAt time.Time `json:"scraped_at"`

	// Page is the fetched page. Nil if the fetch failed.
	Page *Page `json:"page,omitempty"`

	Extraction

	// PerformedSteps lists the pipeline steps that completed.
	PerformedSteps []string `json:"performed_steps"`

	// Error is the failure that stopped the pipeline, if any.
	Error error `json:"-"`

	// ErrorMessage mirrors Error for serialization.
	ErrorMessage string `json:"error,omitempty"`

	// TimedOut reports whether the run was cut short by its context.
	TimedOut bool `json:"timed_out,omitempty"`
}

// NewScrapeResult returns an empty result for target.
func NewScrapeResult(target string) *ScrapeResult {
	return &ScrapeResult{
		Target:         target,
		ScrapedAt:      time.Now(),
		PerformedSteps: []string{},
		Extraction: Extraction{
			Matches: make(map[Category][]string),
			Sets:    Aggregate(nil),
		},
	}
}

// AddStep records that the named step completed.
func (r *ScrapeResult) AddStep(name string) {
	r.PerformedSteps = append(r.PerformedSteps, name)
}

// SetError records err as the run's failure.
func (r *ScrapeResult) SetError(err error) {
	r.Error = err
	if err != nil {
		r.ErrorMessage = err.Error()
	}
}

// Failed reports whether the run stopped with an error.
func (r *ScrapeResult) Failed() bool {
	return r.Error != nil || r.ErrorMessage != ""
}
