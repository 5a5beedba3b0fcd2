// Package extract finds web addresses, email addresses, phone numbers, and
// resource references in a page.
//
// The matchers are pure functions over a string corpus and are listed in the
// Matchers table. Each entry names the corpus it reads: the tokenizer's text
// or the a/img attribute values gathered by the tree parse in ScanTags.
//
// Known limitation: the reference pattern accepts any whitespace-free run
// containing a dot or an at sign, so plain words like "index.html" and
// relative paths are reported along with absolute URLs.
package extract
