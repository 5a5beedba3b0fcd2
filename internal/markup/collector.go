package markup

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/pagescrape/internal/model"
)

// ResourceAttributes maps an element name to the attributes on it that
// hold a resource location.
var ResourceAttributes = map[string]map[string]struct{}{
	"img": {"src": {}, "data-src": {}, "data-image": {}},
	"svg": {"src": {}, "data-src": {}, "data-image": {}},
}

// IsResourceAttribute reports whether attr on element is whitelisted.
// The comparison ignores case.
func IsResourceAttribute(element, attr string) bool {
	attrs, ok := ResourceAttributes[strings.ToLower(element)]
	if !ok {
		return false
	}
	_, ok = attrs[strings.ToLower(attr)]
	return ok
}

// Collector is a Visitor that accumulates text segments and resource
// attribute values.
type Collector struct {
	text      []string
	resources []string
}

// NewCollector returns an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		text:      []string{},
		resources: []string{},
	}
}

// OnStartTag records the whitelisted attribute values of the tag.
func (c *Collector) OnStartTag(name string, attrs []html.Attribute) {
	if _, ok := ResourceAttributes[strings.ToLower(name)]; !ok {
		return
	}
	for _, a := range attrs {
		if !IsResourceAttribute(name, a.Key) {
			continue
		}
		if v := strings.TrimSpace(a.Val); v != "" {
			c.resources = append(c.resources, v)
		}
	}
}

// OnText records text that is non-empty after trimming.
func (c *Collector) OnText(text string) {
	if t := strings.TrimSpace(text); t != "" {
		c.text = append(c.text, t)
	}
}

// Document returns what has been collected so far.
func (c *Collector) Document() model.Document {
	return model.Document{
		Text:               c.text,
		ResourceAttributes: c.resources,
	}
}
