// Package marker tracks payload positions inside a request template.
//
// A position lives in the template text as #original#. Positions are numbered by a
// global scan over url, headers and body, in that order, so the scan is the source of
// truth and edits made outside of Mark/Unmark are caught by Validate.
package marker

import (
	"regexp"
	"sort"

	"github.com/chainreactors/intruder/core/template"
)

const Delimiter = "#"

var markerRegexp = regexp.MustCompile(`#([^#]*)#`)

// Marker is one marker occurrence found by Scan.
type Marker struct {
	Index   int
	Field   template.Field
	Start   int // offset of the opening delimiter
	End     int // offset after the closing delimiter
	Content string
}

type Position struct {
	ID            int            `json:"id"`
	Field         template.Field `json:"field"`
	OriginalValue string         `json:"original_value"`
	SequenceIndex int            `json:"sequence_index"`
}

type Positions []*Position

// Sorted returns a copy ordered by SequenceIndex.
func (ps Positions) Sorted() Positions {
	sorted := make(Positions, len(ps))
	copy(sorted, ps)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SequenceIndex < sorted[j].SequenceIndex
	})
	return sorted
}

func (ps Positions) Find(id int) *Position {
	for _, p := range ps {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func scanField(text string, field template.Field, offset int) []Marker {
	var markers []Marker
	for _, m := range markerRegexp.FindAllStringSubmatchIndex(text, -1) {
		markers = append(markers, Marker{
			Index:   offset + len(markers),
			Field:   field,
			Start:   m[0],
			End:     m[1],
			Content: text[m[2]:m[3]],
		})
	}
	return markers
}

// Scan returns every marker of the template in global scan order.
func Scan(t *template.Template) []Marker {
	var markers []Marker
	for _, field := range template.Fields {
		markers = append(markers, scanField(t.Get(field), field, len(markers))...)
	}
	return markers
}

func Count(t *template.Template) int {
	var n int
	for _, field := range template.Fields {
		n += len(markerRegexp.FindAllStringIndex(t.Get(field), -1))
	}
	return n
}

// Wrap returns the marker text for a value.
func Wrap(s string) string {
	return Delimiter + s + Delimiter
}
