package fetch

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
)

// decodeBody converts body to UTF-8. The encoding is taken from a BOM, the
// Content-Type header, or a meta tag, in that order. Without a BOM or a
// header charset, a body that is already valid UTF-8 is kept as is. It
// returns the decoded bytes and the name of the source encoding.
func decodeBody(body []byte, contentType string) ([]byte, string, error) {
	if len(body) == 0 {
		return body, "", nil
	}

	enc, name, certain := charset.DetermineEncoding(body, contentType)
	if enc == encoding.Nop || name == "utf-8" || (!certain && utf8.Valid(body)) {
		return body, "utf-8", nil
	}

	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return body, name, fmt.Errorf("failed to decode %s body: %w", name, err)
	}
	return decoded, name, nil
}
