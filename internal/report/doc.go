// Package report renders scrape results and history diffs.
//
// Three formats are provided:
//   - SimpleWriter: plain text with one headed section per category,
//     optionally colored with fatih/color
//   - JSONWriter: machine-readable output with sorted items and counts
//   - MarkdownWriter: GitHub Flavored Markdown built with nao1215/markdown
//
// All writers implement Writer, and MultiWriter fans out to several of them.
package report
