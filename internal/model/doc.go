// Package model defines the data structures shared by pagescrape's packages.
//
// This package contains the following main types:
//   - Page: a fetched web page with its raw body and response metadata
//   - Document: the text and resource attributes produced by the tokenizer
//   - Category and ResultSet: the tagged, deduplicated extraction output
//   - ScrapeResult: everything one pipeline run produced for a single target
//   - ResultDiff: the per-category difference between two stored runs
//
// Models live in their own package so that the fetch, extract, pipeline,
// report, and database packages can share them without import cycles.
// All exported types serialize to JSON for report output and history storage.
package model
