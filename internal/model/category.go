package model

import (
	"errors"
	"fmt"
)

// Category tags an extracted string with the kind of signal it is.
type Category int

const (
	// CategoryURL is a web address found in text, or a resource attribute value.
	CategoryURL Category = iota
	// CategoryEmail is an email address found in text.
	CategoryEmail
	// CategoryPhoneNumber is a North American phone number, digits only.
	CategoryPhoneNumber
	// CategoryReference is a resource reference taken from <a> and <img> attributes.
	CategoryReference
)

// ErrUnknownCategory is returned when parsing an unrecognized category name.
var ErrUnknownCategory = errors.New("unknown category")

// AllCategories lists every category in report order.
var AllCategories = []Category{
	CategoryURL,
	CategoryEmail,
	CategoryPhoneNumber,
	CategoryReference,
}

var categoryNames = map[Category]string{
	CategoryURL:         "url",
	CategoryEmail:       "email",
	CategoryPhoneNumber: "phone_number",
	CategoryReference:   "reference",
}

// Headings are kept verbatim for output compatibility, including the
// capitalization of the last one.
var categoryHeadings = map[Category]string{
	CategoryURL:         "URLs",
	CategoryEmail:       "Emails",
	CategoryPhoneNumber: "Phone Numbers",
	CategoryReference:   "IMG and A tag URLS",
}

// String returns the machine name of the category, e.g. "phone_number".
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Heading returns the section title used in text reports.
func (c Category) Heading() string {
	if h, ok := categoryHeadings[c]; ok {
		return h
	}
	return c.String()
}

// ParseCategory converts a machine name back to a Category.
func ParseCategory(s string) (Category, error) {
	for c, name := range categoryNames {
		if name == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalText implements encoding.TextMarshaler so categories can be JSON map keys.
func (c Category) MarshalText() ([]byte, error) {
	if _, ok := categoryNames[c]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
