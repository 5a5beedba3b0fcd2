// Package markup separates a page's text content from its structural markup.
//
// Tokenize drives golang.org/x/net/html's streaming tokenizer and reports
// start tags and text to a Visitor. Collector is the Visitor pagescrape uses:
// it keeps trimmed text segments and the values of whitelisted resource
// attributes, both in document order.
//
// Malformed markup is never an error. The tokenizer recovers the way a
// browser would and whatever it yields is collected.
package markup
