// Package dedupe collapses footer-bleed duplicates: the same attendee
// restated when a delegation spills across a page break.
package dedupe

import "github.com/rosterlab/rosterize/model"

// Deduplicator drops records whose content identity already appeared
// within a sliding page window. The first occurrence always survives.
type Deduplicator struct {
	window int
}

// New creates a deduplicator. window is the maximum page distance at
// which two identical records count as the same attendee: 0 collapses
// only within a page, 1 also across adjacent pages.
func New(window int) *Deduplicator {
	if window < 0 {
		window = 0
	}
	return &Deduplicator{window: window}
}

// Collapse filters the records in place order, keeping the earliest of
// each duplicate run. Records must be in reading order. The operation
// is idempotent: collapsing its own output changes nothing.
func (d *Deduplicator) Collapse(records []*model.AttendeeRecord) []*model.AttendeeRecord {
	if len(records) < 2 {
		return records
	}

	lastPage := make(map[string]int, len(records))
	out := records[:0:0]
	for _, rec := range records {
		key := rec.DedupKey()
		if page, seen := lastPage[key]; seen && rec.PageIndex-page <= d.window {
			// Refresh the window so a chain of restatements keeps
			// collapsing onto the first occurrence.
			lastPage[key] = rec.PageIndex
			continue
		}
		lastPage[key] = rec.PageIndex
		out = append(out, rec)
	}
	return out
}
