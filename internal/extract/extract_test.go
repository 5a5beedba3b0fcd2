package extract

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/nao1215/pagescrape/internal/model"
)

const samplePage = `<html><head><title>Acme</title>
<script>var cdn = "https://cdn.example.com/app.js";</script></head>
<body>
<p>Visit https://example.com/path?x=1 today.</p>
<p>contact: a.b+c@sub.example.co</p>
<p>Call (303) 555-1234 ext 22</p>
<img src="logo.png"><a href="mailto:x@y.com">mail us</a>
<a href="https://example.com/path?x=1">again</a>
</body></html>`

const rawTextPage = `<html><head><title>Shop</title></head><body>
<noscript><img src="https://px.example.com/p.gif"><a href="https://example.com/x">x</a></noscript>
<textarea><img src="t.png"></textarea>
<iframe><img src="f.png"></iframe>
</body></html>`

func TestScanTags(t *testing.T) {
	t.Parallel()

	t.Run("a attributes come before img attributes", func(t *testing.T) {
		t.Parallel()

		values, err := CollectTagAttributes([]byte(`<img src="logo.png"><a href="mailto:x@y.com">`))
		if err != nil {
			t.Fatalf("CollectTagAttributes returned error: %v", err)
		}
		if !slices.Equal(values, []string{"mailto:x@y.com", "logo.png"}) {
			t.Errorf("unexpected attribute order: %v", values)
		}
	})

	t.Run("finds references", func(t *testing.T) {
		t.Parallel()

		values, matches, err := ScanTags(context.Background(), []byte(`<img src="logo.png"><a href="mailto:x@y.com">`))
		if err != nil {
			t.Fatalf("ScanTags returned error: %v", err)
		}
		if !slices.Equal(values, []string{"mailto:x@y.com", "logo.png"}) {
			t.Errorf("unexpected values: %v", values)
		}
		got := matches[model.CategoryReference]
		for _, want := range []string{"logo.png", "mailto:x@y.com"} {
			if !slices.Contains(got, want) {
				t.Errorf("expected %q in %v", want, got)
			}
		}
	})

	t.Run("reads noscript and text-only element content as markup", func(t *testing.T) {
		t.Parallel()

		values, err := CollectTagAttributes([]byte(rawTextPage))
		if err != nil {
			t.Fatalf("CollectTagAttributes returned error: %v", err)
		}
		want := []string{"https://example.com/x", "https://px.example.com/p.gif", "t.png", "f.png"}
		if !slices.Equal(values, want) {
			t.Errorf("expected %v, got %v", want, values)
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		if _, _, err := ScanTags(ctx, []byte(`<img src="logo.png">`)); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("skips empty values and other elements", func(t *testing.T) {
		t.Parallel()

		values, err := CollectTagAttributes([]byte(`<a href="">x</a><script src="a.js"></script><img>`))
		if err != nil {
			t.Fatalf("CollectTagAttributes returned error: %v", err)
		}
		if len(values) != 0 {
			t.Errorf("expected no values, got %v", values)
		}
	})
}

func TestAnalyze(t *testing.T) {
	t.Parallel()

	t.Run("extracts every category", func(t *testing.T) {
		t.Parallel()

		e := Analyze([]byte(samplePage))

		checks := []struct {
			category model.Category
			item     string
		}{
			{model.CategoryURL, "https://example.com/path?x=1"},
			{model.CategoryURL, "https://cdn.example.com/app.js"},
			{model.CategoryURL, "logo.png"},
			{model.CategoryEmail, "a.b+c@sub.example.co"},
			{model.CategoryPhoneNumber, "303555123422"},
			{model.CategoryReference, "mailto:x@y.com"},
			{model.CategoryReference, "logo.png"},
		}
		for _, c := range checks {
			if !e.Set(c.category).Contains(c.item) {
				t.Errorf("expected %q in %v, got %v", c.item, c.category, e.Set(c.category).Items())
			}
		}
		if !slices.Equal(e.Document.ResourceAttributes, []string{"logo.png"}) {
			t.Errorf("unexpected resource attributes: %v", e.Document.ResourceAttributes)
		}
	})

	t.Run("raw text element content is scanned as markup", func(t *testing.T) {
		t.Parallel()

		e := Analyze([]byte(rawTextPage))
		for _, item := range []string{"https://px.example.com/p.gif", "t.png", "f.png"} {
			if !e.Set(model.CategoryURL).Contains(item) {
				t.Errorf("expected %q in urls, got %v", item, e.Set(model.CategoryURL).Items())
			}
		}
		for _, item := range []string{"https://example.com/x", "https://px.example.com/p.gif", "t.png"} {
			if !e.Set(model.CategoryReference).Contains(item) {
				t.Errorf("expected %q in references, got %v", item, e.Set(model.CategoryReference).Items())
			}
		}
		for _, text := range e.Document.Text {
			if strings.Contains(text, "<img") {
				t.Errorf("markup leaked into text: %q", text)
			}
		}
	})

	t.Run("repeated runs give identical sets", func(t *testing.T) {
		t.Parallel()

		first := Analyze([]byte(samplePage))
		second := Analyze([]byte(samplePage))
		for _, c := range model.AllCategories {
			if !slices.Equal(first.Set(c).Items(), second.Set(c).Items()) {
				t.Errorf("%v differs between runs: %v vs %v", c, first.Set(c).Items(), second.Set(c).Items())
			}
		}
		if !slices.Equal(first.TagAttributes, second.TagAttributes) {
			t.Errorf("tag attributes differ between runs: %v vs %v", first.TagAttributes, second.TagAttributes)
		}
	})

	t.Run("every item is non-empty", func(t *testing.T) {
		t.Parallel()

		e := Analyze([]byte(samplePage))
		for _, c := range model.AllCategories {
			for _, item := range e.Set(c).Items() {
				if item == "" {
					t.Errorf("empty item in %v", c)
				}
			}
		}
	})

	t.Run("empty input yields four empty sets", func(t *testing.T) {
		t.Parallel()

		e := Analyze(nil)
		if len(e.Sets) != len(model.AllCategories) {
			t.Fatalf("expected %d sets, got %d", len(model.AllCategories), len(e.Sets))
		}
		if e.TotalItems() != 0 {
			t.Errorf("expected no items, got %d", e.TotalItems())
		}
	})

	t.Run("malformed input does not fail", func(t *testing.T) {
		t.Parallel()

		e := Analyze([]byte("<a href='http://x.example'<<img src=>>>mail a@b.co</p></div>"))
		if !e.Set(model.CategoryEmail).Contains("a@b.co") {
			t.Errorf("expected email from malformed input, got %v", e.Set(model.CategoryEmail).Items())
		}
	})
}

func TestRun(t *testing.T) {
	t.Parallel()

	t.Run("parallel run matches sequential calls", func(t *testing.T) {
		t.Parallel()

		corpora := Corpora{
			Text: "https://a.example b@c.example 303-555-1234",
			Tags: "logo.png",
		}
		got, err := Run(context.Background(), Matchers, corpora)
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		for _, m := range Matchers {
			want := m.Match(corpora.For(m.Source))
			if !slices.Equal(got[m.Category], want) {
				t.Errorf("%s: expected %v, got %v", m.Name, want, got[m.Category])
			}
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Run(ctx, Matchers, Corpora{})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})
}

func TestMergeMatches(t *testing.T) {
	t.Parallel()

	t.Run("nil destination is allocated", func(t *testing.T) {
		t.Parallel()

		got := MergeMatches(nil, map[model.Category][]string{model.CategoryEmail: {"a@b.co"}})
		if !slices.Equal(got[model.CategoryEmail], []string{"a@b.co"}) {
			t.Errorf("unexpected merge: %v", got)
		}
	})

	t.Run("appends in order", func(t *testing.T) {
		t.Parallel()

		dst := map[model.Category][]string{model.CategoryURL: {"https://a.example"}}
		got := MergeMatches(dst, map[model.Category][]string{
			model.CategoryURL:       {"https://b.example"},
			model.CategoryReference: {"logo.png"},
		})
		if !slices.Equal(got[model.CategoryURL], []string{"https://a.example", "https://b.example"}) {
			t.Errorf("unexpected urls: %v", got[model.CategoryURL])
		}
		if !slices.Equal(got[model.CategoryReference], []string{"logo.png"}) {
			t.Errorf("unexpected references: %v", got[model.CategoryReference])
		}
	})
}

func TestMatchersFor(t *testing.T) {
	t.Parallel()

	text := MatchersFor(SourceText)
	tags := MatchersFor(SourceTags)
	if len(text)+len(tags) != len(Matchers) {
		t.Fatalf("expected sources to partition the table, got %d + %d of %d", len(text), len(tags), len(Matchers))
	}
	if len(tags) != 1 || tags[0].Category != model.CategoryReference {
		t.Errorf("expected only the reference matcher to read tags, got %v", tags)
	}
}
