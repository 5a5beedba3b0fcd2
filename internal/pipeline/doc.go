// Package pipeline runs the scrape of one target as a sequence of named steps.
//
// The default pipeline is fetch, tokenize, match, tag_scan, aggregate. Each
// step reads and extends a model.ScrapeResult. The pipeline checks for
// cancellation between steps and stops at the first failing step, so a
// failed fetch means no extraction runs for that target.
//
// BatchProcessor scrapes several targets concurrently with errgroup. Every
// target gets a fresh pipeline from a factory and shares no state with the
// others.
package pipeline
