package extract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/nao1215/pagescrape/internal/model"
)

// ErrTreeParse is returned when a document cannot be parsed into a tree.
var ErrTreeParse = errors.New("failed to parse document tree")

// tagSelectors lists the elements and attributes the tree scan reads, in order.
var tagSelectors = []struct {
	element string
	attrs   []string
}{
	{element: "a", attrs: []string{"href", "src"}},
	{element: "img", attrs: []string{"href", "src"}},
}

// textOnlyElements hold character data after an HTML5 tree parse.
// Their content is parsed again as markup so it scans like the rest of the page.
var textOnlyElements = map[atom.Atom]bool{
	atom.Iframe:    true,
	atom.Noembed:   true,
	atom.Noframes:  true,
	atom.Plaintext: true,
	atom.Textarea:  true,
	atom.Title:     true,
	atom.Xmp:       true,
}

// CollectTagAttributes parses raw into a tree and returns the non-empty
// href and src values of every a element followed by every img element.
func CollectTagAttributes(raw []byte) ([]string, error) {
	doc, err := parseTree(raw)
	if err != nil {
		return nil, err
	}

	values := []string{}
	for _, sel := range tagSelectors {
		doc.Find(sel.element).Each(func(_ int, s *goquery.Selection) {
			for _, attr := range sel.attrs {
				if v, ok := s.Attr(attr); ok && v != "" {
					values = append(values, v)
				}
			}
		})
	}
	return values, nil
}

// parseTree parses raw with scripting disabled, so noscript content is
// markup, and expands the content of text-only elements into elements.
func parseTree(raw []byte) (*goquery.Document, error) {
	root, err := html.ParseWithOptions(bytes.NewReader(raw), html.ParseOptionEnableScripting(false))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTreeParse, err)
	}
	if err := expandTextOnly(root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTreeParse, err)
	}
	return goquery.NewDocumentFromNode(root), nil
}

func expandTextOnly(n *html.Node) error {
	if n.Type == html.ElementNode && textOnlyElements[n.DataAtom] {
		var text strings.Builder
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.TextNode {
				return nil
			}
			text.WriteString(c.Data)
		}
		if !strings.Contains(text.String(), "<") {
			return nil
		}

		div := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
		nodes, err := html.ParseFragment(strings.NewReader(text.String()), div)
		if err != nil {
			return err
		}
		for c := n.FirstChild; c != nil; c = n.FirstChild {
			n.RemoveChild(c)
		}
		for _, c := range nodes {
			n.AppendChild(c)
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := expandTextOnly(c); err != nil {
			return err
		}
	}
	return nil
}

// TagCorpus joins tag attribute values with a single space.
func TagCorpus(values []string) string {
	return strings.Join(values, " ")
}

// ScanTags collects the a and img attribute values of raw and runs the
// tag matchers over them. A document that cannot be parsed yields no
// values and an error wrapping ErrTreeParse.
func ScanTags(ctx context.Context, raw []byte) ([]string, map[model.Category][]string, error) {
	values, err := CollectTagAttributes(raw)
	if err != nil {
		return []string{}, map[model.Category][]string{}, err
	}
	matches, err := Run(ctx, MatchersFor(SourceTags), Corpora{Tags: TagCorpus(values)})
	if err != nil {
		return nil, nil, err
	}
	return values, matches, nil
}
