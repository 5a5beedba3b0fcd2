package extract

import (
	"regexp"
	"strings"
)

var (
	// The $-_ class is a range (0x24-0x5F) and admits / ? = : among others.
	urlPattern = regexp.MustCompile(`https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)

	emailPattern = regexp.MustCompile(`[a-zA-Z0-9_.+\-]+@[a-zA-Z0-9\-]+\.[a-zA-Z0-9.\-]+`)

	phonePattern = regexp.MustCompile(`1?\W*([2-9][0-8][0-9])\W*([2-9][0-9]{2})\W*([0-9]{4})(?:\s*(?i:ext|x)\s*(\d+))?`)

	referencePattern = regexp.MustCompile(`\S+[.@]\S+`)
)

// MatchURLs returns every http or https address in corpus, duplicates included.
func MatchURLs(corpus string) []string {
	return findAll(urlPattern, corpus)
}

// MatchEmails returns every email address in corpus, duplicates included.
func MatchEmails(corpus string) []string {
	return findAll(emailPattern, corpus)
}

// MatchPhoneNumbers returns every North American phone number in corpus as
// its digit groups joined together: area code, exchange, subscriber number,
// and extension if present.
func MatchPhoneNumbers(corpus string) []string {
	matches := phonePattern.FindAllStringSubmatch(corpus, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.Join(m[1:], ""))
	}
	return out
}

// MatchReferences returns every whitespace-free run in corpus that has a
// character on both sides of a dot or at sign.
func MatchReferences(corpus string) []string {
	return findAll(referencePattern, corpus)
}

func findAll(re *regexp.Regexp, corpus string) []string {
	if corpus == "" {
		return []string{}
	}
	matches := re.FindAllString(corpus, -1)
	if matches == nil {
		return []string{}
	}
	return matches
}
