package model

import "time"

// CategoryDiff lists the items that appeared and disappeared in one category.
type CategoryDiff struct {
	Added   []string `json:"added"`
	Removed []string `json:"removed"`
}

// ResultDiff compares two runs against the same target.
type ResultDiff struct {
	Target     string                    `json:"target"`
	From       time.Time                 `json:"from"`
	To         time.Time                 `json:"to"`
	Categories map[Category]CategoryDiff `json:"categories"`
}

// DiffResults returns what changed between an older and a newer run.
// Either argument may be nil, in which case it is treated as empty.
func DiffResults(older, newer *ScrapeResult) *ResultDiff {
	d := &ResultDiff{Categories: make(map[Category]CategoryDiff, len(AllCategories))}

	var oldExt, newExt *Extraction
	if older != nil {
		d.Target = older.Target
		d.From = older.ScrapedAt
		oldExt = &older.Extraction
	}
	if newer != nil {
		d.Target = newer.Target
		d.To = newer.ScrapedAt
		newExt = &newer.Extraction
	}

	for _, c := range AllCategories {
		oldSet, newSet := oldExt.Set(c), newExt.Set(c)
		d.Categories[c] = CategoryDiff{
			Added:   newSet.Difference(oldSet),
			Removed: oldSet.Difference(newSet),
		}
	}
	return d
}

// HasChanges reports whether any category gained or lost items.
func (d *ResultDiff) HasChanges() bool {
	for _, cd := range d.Categories {
		if len(cd.Added) > 0 || len(cd.Removed) > 0 {
			return true
		}
	}
	return false
}

// Counts returns the total number of added and removed items.
func (d *ResultDiff) Counts() (added, removed int) {
	for _, cd := range d.Categories {
		added += len(cd.Added)
		removed += len(cd.Removed)
	}
	return added, removed
}
