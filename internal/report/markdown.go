package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"github.com/nao1215/pagescrape/internal/model"
)

// MarkdownWriter outputs GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs a summary table and item lists for every result.
func (w *MarkdownWriter) Write(results []*model.ScrapeResult) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("pagescrape Report")
	md.PlainText("")

	for _, r := range results {
		w.writeResult(md, r)
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeResult(md *markdown.Markdown, r *model.ScrapeResult) {
	md.H2(r.Target)
	md.PlainText("")

	rows := [][]string{{"Scraped At", r.ScrapedAt.Format(timeFormat)}}
	if r.Page != nil {
		rows = append(rows,
			[]string{"Final URL", "`" + r.Page.FinalURL + "`"},
			[]string{"Status", strconv.Itoa(r.Page.StatusCode)},
			[]string{"Content-Type", r.Page.ContentType},
		)
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	if r.Failed() {
		md.Warningf("Scrape failed: %s", r.ErrorMessage)
		md.PlainText("")
		return
	}
	if r.Page != nil && r.Page.Truncated {
		md.Note("The response body was truncated at the size limit; results may be incomplete.")
		md.PlainText("")
	}

	summary := make([][]string, 0, len(model.AllCategories))
	for _, c := range model.AllCategories {
		summary = append(summary, []string{
			c.Heading(),
			strconv.Itoa(r.RawCount(c)),
			strconv.Itoa(r.Set(c).Len()),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Category", "Matches", "Unique"},
		Rows:   summary,
	})
	md.PlainText("")

	for _, c := range model.AllCategories {
		md.H3(c.Heading())
		md.PlainText("")
		items := r.Set(c).Items()
		if len(items) == 0 {
			md.PlainText("None found.")
		} else {
			md.BulletList(codeSpans(items)...)
		}
		md.PlainText("")
	}
}

// WriteDiff outputs added and removed items per category.
func (w *MarkdownWriter) WriteDiff(diff *model.ResultDiff) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("pagescrape History")
	md.PlainText("")

	added, removed := diff.Counts()
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Target", "`" + diff.Target + "`"},
			{"From", formatTime(diff.From)},
			{"To", formatTime(diff.To)},
			{"Added", strconv.Itoa(added)},
			{"Removed", strconv.Itoa(removed)},
		},
	})
	md.PlainText("")

	if !diff.HasChanges() {
		md.Tip("No changes between the two runs.")
		md.PlainText("")
	}

	for _, c := range model.AllCategories {
		cd := diff.Categories[c]
		if len(cd.Added) == 0 && len(cd.Removed) == 0 {
			continue
		}
		md.H2(c.Heading())
		md.PlainText("")
		if len(cd.Added) > 0 {
			md.PlainText("**Added**")
			md.PlainText("")
			md.BulletList(codeSpans(cd.Added)...)
			md.PlainText("")
		}
		if len(cd.Removed) > 0 {
			md.PlainText("**Removed**")
			md.PlainText("")
			md.BulletList(codeSpans(cd.Removed)...)
			md.PlainText("")
		}
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [pagescrape](https://github.com/nao1215/pagescrape)*")
}

// codeSpans wraps items in backticks so URLs and addresses are not
// rendered as links or emphasis.
func codeSpans(items []string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = "`" + item + "`"
	}
	return out
}
