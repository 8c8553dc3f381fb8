// Package layout assigns display columns to time-overlapping calendar
// entries using first-fit interval packing.
package layout

import "sort"

// Span is one entry to place: a half-open interval [Start, End) in
// fractional hours of a single day.
type Span struct {
	ID    string
	Start float64
	End   float64
}

// Placement is the computed position for one span. Column is the zero-based
// display column; Columns is the total number of columns the day needed, so
// renderers can derive a width.
type Placement struct {
	ID      string
	Column  int
	Columns int
}

// Pack assigns a column to every span such that no two overlapping spans
// share one. Spans are processed in order of ascending start (stable, so
// ties keep their input order); each goes to the leftmost column whose last
// occupant ended at or before the span's start, or opens a new column.
//
// This is first-fit coloring of the interval graph: the column count never
// exceeds the size of the largest set of mutually overlapping spans.
// Identical input always yields identical placements.
func Pack(spans []Span) []Placement {
	if len(spans) == 0 {
		return nil
	}

	ordered := make([]Span, len(spans))
	copy(ordered, spans)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	// columnEnds[i] is the end time of the last span placed in column i.
	var columnEnds []float64
	byID := make(map[string]int, len(ordered))

	for _, s := range ordered {
		placed := false
		for col, end := range columnEnds {
			if end <= s.Start {
				columnEnds[col] = s.End
				byID[s.ID] = col
				placed = true
				break
			}
		}
		if !placed {
			columnEnds = append(columnEnds, s.End)
			byID[s.ID] = len(columnEnds) - 1
		}
	}

	total := len(columnEnds)
	out := make([]Placement, len(spans))
	for i, s := range spans {
		out[i] = Placement{ID: s.ID, Column: byID[s.ID], Columns: total}
	}
	return out
}
