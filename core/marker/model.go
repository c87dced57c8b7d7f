package marker

import (
	"fmt"
	"strings"

	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
)

func NewModel() *Model {
	return &Model{NextID: 1}
}

// Model owns the position list of one template.
type Model struct {
	Positions Positions `json:"positions"`
	NextID    int       `json:"next_id"`
}

// Mark wraps [start,end) of field as a marker and records a new position.
// The original template is left untouched, the updated copy is returned.
func (m *Model) Mark(t *template.Template, field template.Field, start, end int) (*template.Template, *Position, error) {
	if start == end {
		return t, nil, pkg.ErrEmptySelection
	}
	text := t.Get(field)
	if start < 0 || end < start || end > len(text) {
		return t, nil, fmt.Errorf("%w: [%d,%d) of %s (len %d)", pkg.ErrInvalidSelection, start, end, field, len(text))
	}
	selected := text[start:end]
	if strings.Contains(selected, Delimiter) {
		return t, nil, fmt.Errorf("%w: %q", pkg.ErrInvalidSelection, selected)
	}

	// 插入点之前已有的marker数量, 即新position的全局序号
	var index int
	for _, mk := range Scan(t) {
		if mk.Field == field && start < mk.End && end > mk.Start {
			return t, nil, fmt.Errorf("%w: overlaps marker %q", pkg.ErrInvalidSelection, mk.Content)
		}
		if mk.Field < field || (mk.Field == field && mk.End <= start) {
			index++
		}
	}

	updated := t.Clone()
	updated.Set(field, text[:start]+Wrap(selected)+text[end:])

	for _, p := range m.Positions {
		if p.SequenceIndex >= index {
			p.SequenceIndex++
		}
	}
	if m.NextID == 0 {
		m.NextID = 1
	}
	pos := &Position{
		ID:            m.NextID,
		Field:         field,
		OriginalValue: selected,
		SequenceIndex: index,
	}
	m.NextID++
	m.Positions = append(m.Positions, pos)
	return updated, pos, nil
}

// Unmark restores the marker of pos to plain text and forgets the position.
//
// Markers are matched by field and original text. When several markers share the same
// text the one at pos.SequenceIndex wins, then the nearest one, then the first match.
func (m *Model) Unmark(t *template.Template, pos *Position) (*template.Template, error) {
	m.remove(pos)

	var candidate *Marker
	distance := -1
	for _, mk := range Scan(t) {
		if mk.Field != pos.Field || mk.Content != pos.OriginalValue {
			continue
		}
		d := mk.Index - pos.SequenceIndex
		if d < 0 {
			d = -d
		}
		if candidate == nil || d < distance {
			mk := mk
			candidate, distance = &mk, d
		}
	}
	if candidate == nil {
		return t, fmt.Errorf("%w: %s %q", pkg.ErrMarkerNotFound, pos.Field, pos.OriginalValue)
	}

	text := t.Get(pos.Field)
	updated := t.Clone()
	updated.Set(pos.Field, text[:candidate.Start]+candidate.Content+text[candidate.End:])

	for _, p := range m.Positions {
		if p.SequenceIndex > candidate.Index {
			p.SequenceIndex--
		}
	}
	return updated, nil
}

func (m *Model) remove(pos *Position) {
	for i, p := range m.Positions {
		if p == pos || p.ID == pos.ID {
			m.Positions = append(m.Positions[:i], m.Positions[i+1:]...)
			return
		}
	}
}

// Clear strips every delimiter character from headers and body, literal ones included,
// unwraps the markers of the url and forgets all positions.
func (m *Model) Clear(t *template.Template) *template.Template {
	updated := t.Clone()
	updated.URL = markerRegexp.ReplaceAllString(updated.URL, "$1")
	updated.Headers = strings.ReplaceAll(updated.Headers, Delimiter, "")
	updated.Body = strings.ReplaceAll(updated.Body, Delimiter, "")
	m.Positions = nil
	return updated
}

// Discover replaces the position list with the markers already present in t.
func (m *Model) Discover(t *template.Template) Positions {
	m.Positions = nil
	if m.NextID == 0 {
		m.NextID = 1
	}
	for _, mk := range Scan(t) {
		m.Positions = append(m.Positions, &Position{
			ID:            m.NextID,
			Field:         mk.Field,
			OriginalValue: mk.Content,
			SequenceIndex: mk.Index,
		})
		m.NextID++
	}
	return m.Positions
}

// Validate checks that the template still carries exactly one marker per position.
func (m *Model) Validate(t *template.Template) error {
	if n := Count(t); n != len(m.Positions) {
		return fmt.Errorf("%w: %d markers, %d positions", pkg.ErrPositionMismatch, n, len(m.Positions))
	}
	return nil
}
