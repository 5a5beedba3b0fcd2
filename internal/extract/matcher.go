package extract

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/nao1215/pagescrape/internal/model"
)

// Source selects the corpus a matcher reads.
type Source int

const (
	// SourceText is the tokenizer's text segments joined by spaces.
	SourceText Source = iota
	// SourceTags is the a/img attribute values joined by spaces.
	SourceTags
)

// MatchFunc finds items in a corpus. It must be safe for concurrent use.
type MatchFunc func(corpus string) []string

// Matcher binds a match function to the category it produces.
type Matcher struct {
	Category model.Category
	Name     string
	Source   Source
	Match    MatchFunc
}

// Matchers is the table every extraction runs, in report order.
var Matchers = []Matcher{
	{Category: model.CategoryURL, Name: "url", Source: SourceText, Match: MatchURLs},
	{Category: model.CategoryEmail, Name: "email", Source: SourceText, Match: MatchEmails},
	{Category: model.CategoryPhoneNumber, Name: "phone_number", Source: SourceText, Match: MatchPhoneNumbers},
	{Category: model.CategoryReference, Name: "reference", Source: SourceTags, Match: MatchReferences},
}

// MatchersFor returns the entries of Matchers that read src.
func MatchersFor(src Source) []Matcher {
	out := make([]Matcher, 0, len(Matchers))
	for _, m := range Matchers {
		if m.Source == src {
			out = append(out, m)
		}
	}
	return out
}

// Corpora holds the two strings the matchers read from.
type Corpora struct {
	Text string
	Tags string
}

// For returns the corpus for src.
func (c Corpora) For(src Source) string {
	if src == SourceTags {
		return c.Tags
	}
	return c.Text
}

// Run applies matchers to corpora in parallel and returns the raw matches
// keyed by category. The result is the same as running them one by one.
// It only fails if ctx is cancelled.
func Run(ctx context.Context, matchers []Matcher, corpora Corpora) (map[model.Category][]string, error) {
	results := make([][]string, len(matchers))

	g, ctx := errgroup.WithContext(ctx)
	for i, m := range matchers {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			results[i] = m.Match(corpora.For(m.Source))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	matches := make(map[model.Category][]string, len(matchers))
	for i, m := range matchers {
		matches[m.Category] = append(matches[m.Category], results[i]...)
	}
	return matches, nil
}
