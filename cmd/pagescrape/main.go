// Package main provides the entry point for the pagescrape CLI.
//
// pagescrape fetches web pages once and extracts URLs, email addresses,
// North American phone numbers, and the href/src references of a and img
// tags.
//
// Usage:
//
//	pagescrape scrape <url>...
//	pagescrape history <url>
//
// See --help for all available options.
package main

func main() {
	Execute()
}
