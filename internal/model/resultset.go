package model

import (
	"encoding/json"
	"slices"
	"strings"
)

// ResultSet is a set of unique, non-empty strings.
// The zero value is not usable; create one with NewResultSet.
// A nil *ResultSet behaves as an empty set for read operations.
type ResultSet struct {
	items map[string]struct{}
}

// NewResultSet returns a set containing the given items.
func NewResultSet(items ...string) *ResultSet {
	s := &ResultSet{items: make(map[string]struct{}, len(items))}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add inserts item and reports whether it was newly added.
// Items that are empty after trimming whitespace are ignored.
// Items are stored as given; trimming is only used for the emptiness check.
func (s *ResultSet) Add(item string) bool {
	if strings.TrimSpace(item) == "" {
		return false
	}
	if s.items == nil {
		s.items = make(map[string]struct{})
	}
	if _, ok := s.items[item]; ok {
		return false
	}
	s.items[item] = struct{}{}
	return true
}

// Contains reports whether item is in the set.
func (s *ResultSet) Contains(item string) bool {
	if s == nil {
		return false
	}
	_, ok := s.items[item]
	return ok
}

// Len returns the number of items in the set.
func (s *ResultSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.items)
}

// Items returns the set's contents in ascending order.
func (s *ResultSet) Items() []string {
	if s == nil {
		return []string{}
	}
	out := make([]string, 0, len(s.items))
	for item := range s.items {
		out = append(out, item)
	}
	slices.Sort(out)
	return out
}

// Difference returns the items in s that are not in other, sorted.
func (s *ResultSet) Difference(other *ResultSet) []string {
	out := []string{}
	for _, item := range s.Items() {
		if !other.Contains(item) {
			out = append(out, item)
		}
	}
	return out
}

// MarshalJSON encodes the set as a sorted JSON array.
func (s *ResultSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Items())
}

// UnmarshalJSON decodes a JSON array into the set.
func (s *ResultSet) UnmarshalJSON(data []byte) error {
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	s.items = make(map[string]struct{}, len(items))
	for _, item := range items {
		s.Add(item)
	}
	return nil
}
