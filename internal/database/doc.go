// Package database stores scrape history in SQLite (modernc.org/sqlite,
// no cgo).
//
// The pages table keeps the latest fetch metadata per URL. The
// scrape_results table keeps every saved run as JSON so two runs can be
// diffed with model.DiffResults.
package database
