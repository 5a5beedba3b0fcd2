package extract

import (
	"context"

	"github.com/nao1215/pagescrape/internal/markup"
	"github.com/nao1215/pagescrape/internal/model"
)

// Analyze runs the whole extraction over raw and never fails.
// Empty input yields every category present and empty.
// It goes through the same MatchText, ScanTags and Assemble calls as the
// scrape pipeline's steps.
func Analyze(raw []byte) *model.Extraction {
	ctx := context.Background()
	doc := markup.Parse(raw)

	// Background is never cancelled, so the matchers cannot fail here.
	matches, _ := MatchText(ctx, doc)
	tagValues, tagMatches, _ := ScanTags(ctx, raw)
	return Assemble(doc, tagValues, MergeMatches(matches, tagMatches))
}

// MatchText runs the text matchers over the tokenized text of doc.
func MatchText(ctx context.Context, doc model.Document) (map[model.Category][]string, error) {
	return Run(ctx, MatchersFor(SourceText), Corpora{Text: doc.Corpus()})
}

// MergeMatches appends the items of src to dst per category and returns dst.
// A nil dst is allocated.
func MergeMatches(dst, src map[model.Category][]string) map[model.Category][]string {
	if dst == nil {
		dst = make(map[model.Category][]string, len(src))
	}
	for c, items := range src {
		dst[c] = append(dst[c], items...)
	}
	return dst
}

// Assemble merges the resource attribute values into the URL matches and
// deduplicates every category.
func Assemble(doc model.Document, tagValues []string, matches map[model.Category][]string) *model.Extraction {
	if matches == nil {
		matches = make(map[model.Category][]string)
	}
	merged := make(map[model.Category][]string, len(matches))
	for c, items := range matches {
		merged[c] = items
	}
	merged[model.CategoryURL] = append(append([]string{}, matches[model.CategoryURL]...), doc.ResourceAttributes...)

	return &model.Extraction{
		Document:      doc,
		TagAttributes: tagValues,
		Matches:       merged,
		Sets:          model.Aggregate(merged),
	}
}
