package model

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestCategoryHeading(t *testing.T) {
	t.Parallel()

	expected := []string{"URLs", "Emails", "Phone Numbers", "IMG and A tag URLS"}
	if len(AllCategories) != len(expected) {
		t.Fatalf("expected %d categories, got %d", len(expected), len(AllCategories))
	}
	for i, c := range AllCategories {
		if got := c.Heading(); got != expected[i] {
			t.Errorf("category %d: expected heading %q, got %q", i, expected[i], got)
		}
	}
}

func TestParseCategory(t *testing.T) {
	t.Parallel()

	t.Run("round trips every category", func(t *testing.T) {
		t.Parallel()

		for _, c := range AllCategories {
			got, err := ParseCategory(c.String())
			if err != nil {
				t.Fatalf("ParseCategory(%q) returned error: %v", c.String(), err)
			}
			if got != c {
				t.Errorf("expected %v, got %v", c, got)
			}
		}
	})

	t.Run("rejects unknown names", func(t *testing.T) {
		t.Parallel()

		_, err := ParseCategory("fax")
		if !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("expected ErrUnknownCategory, got %v", err)
		}
	})
}

func TestCategoryAsMapKey(t *testing.T) {
	t.Parallel()

	in := map[Category]int{CategoryEmail: 2, CategoryPhoneNumber: 1}
	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}
	if string(data) != `{"email":2,"phone_number":1}` {
		t.Errorf("unexpected JSON: %s", data)
	}

	var out map[Category]int
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}
	if out[CategoryEmail] != 2 || out[CategoryPhoneNumber] != 1 {
		t.Errorf("unexpected decoded map: %v", out)
	}
}
