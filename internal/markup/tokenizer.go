package markup

import (
	"bytes"
	"errors"
	"io"

	"golang.org/x/net/html"

	"github.com/nao1215/pagescrape/internal/model"
)

// Visitor receives tokens from Tokenize in document order.
type Visitor interface {
	// OnStartTag is called for start tags and self-closing tags.
	// name and attribute keys are lower case.
	OnStartTag(name string, attrs []html.Attribute)

	// OnText is called for character data, including the raw text
	// of script and style elements. Entities are already decoded.
	OnText(text string)
}

// rawTextElements are the elements whose content is character data rather
// than markup. Everything else the tokenizer would read as raw text
// (textarea, title, iframe, noscript, ...) is tokenized as markup.
var rawTextElements = map[string]bool{
	"script": true,
	"style":  true,
}

// Tokenize reads markup from r and reports tokens to v until EOF.
// Comments, doctypes, and end tags are skipped.
// The only error returned is a read error from r.
func Tokenize(r io.Reader, v Visitor) error {
	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); !errors.Is(err, io.EOF) {
				return err
			}
			return nil
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if !rawTextElements[tok.Data] {
				z.NextIsNotRawText()
			}
			v.OnStartTag(tok.Data, tok.Attr)
		case html.TextToken:
			v.OnText(string(z.Text()))
		case html.EndTagToken, html.CommentToken, html.DoctypeToken:
			// not interesting
		}
	}
}

// Parse tokenizes raw and returns the collected document.
func Parse(raw []byte) model.Document {
	c := NewCollector()
	// A bytes.Reader never fails, so the error is always nil.
	_ = Tokenize(bytes.NewReader(raw), c)
	return c.Document()
}
