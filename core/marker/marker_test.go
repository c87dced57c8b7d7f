package marker

import (
	"testing"

	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTemplate() *template.Template {
	return &template.Template{
		Method:  "POST",
		URL:     "http://example.com/api/user?id=100&name=admin",
		Headers: "Host: example.com\nCookie: session=abcdef\nContent-Length: 20",
		Body:    "username=admin&password=secret",
	}
}

func TestMarkAddsPositionAndMarker(t *testing.T) {
	m := NewModel()
	tmpl := newTemplate()

	updated, pos, err := m.Mark(tmpl, template.Body, 9, 14)
	require.NoError(t, err)
	assert.Equal(t, "username=#admin#&password=secret", updated.Body)
	assert.Equal(t, "username=admin&password=secret", tmpl.Body, "source template must not change")
	assert.Equal(t, 1, pos.ID)
	assert.Equal(t, "admin", pos.OriginalValue)
	assert.Equal(t, 0, pos.SequenceIndex)
	assert.Equal(t, 1, Count(updated))
	assert.Len(t, m.Positions, 1)
}

func TestMarkKeepsCountsInStep(t *testing.T) {
	m := NewModel()
	tmpl := newTemplate()
	var err error

	selections := []struct {
		field      template.Field
		start, end int
	}{
		{template.Body, 24, 30},    // secret
		{template.URL, 31, 34},     // 100
		{template.Headers, 34, 40}, // abcdef
	}
	for i, sel := range selections {
		tmpl, _, err = m.Mark(tmpl, sel.field, sel.start, sel.end)
		require.NoError(t, err)
		assert.Equal(t, i+1, Count(tmpl))
		assert.Len(t, m.Positions, i+1)
		require.NoError(t, m.Validate(tmpl))
	}

	// url, headers, body scan order
	sorted := m.Positions.Sorted()
	assert.Equal(t, "100", sorted[0].OriginalValue)
	assert.Equal(t, "abcdef", sorted[1].OriginalValue)
	assert.Equal(t, "secret", sorted[2].OriginalValue)
	for i, p := range sorted {
		assert.Equal(t, i, p.SequenceIndex)
	}
	assert.Equal(t, []int{1, 2, 3}, []int{m.Positions[0].ID, m.Positions[1].ID, m.Positions[2].ID})
}

func TestMarkSameFieldShiftsLaterPositions(t *testing.T) {
	m := NewModel()
	tmpl := newTemplate()

	tmpl, second, err := m.Mark(tmpl, template.Body, 24, 30)
	require.NoError(t, err)
	tmpl, first, err := m.Mark(tmpl, template.Body, 9, 14)
	require.NoError(t, err)

	assert.Equal(t, "username=#admin#&password=#secret#", tmpl.Body)
	assert.Equal(t, 0, first.SequenceIndex)
	assert.Equal(t, 1, second.SequenceIndex)
}

func TestMarkRejectsBadSelections(t *testing.T) {
	m := NewModel()
	tmpl := newTemplate()

	_, pos, err := m.Mark(tmpl, template.Body, 3, 3)
	assert.ErrorIs(t, err, pkg.ErrEmptySelection)
	assert.Nil(t, pos)
	assert.Empty(t, m.Positions)

	_, _, err = m.Mark(tmpl, template.Body, 10, 500)
	assert.ErrorIs(t, err, pkg.ErrInvalidSelection)

	marked, _, err := m.Mark(tmpl, template.Body, 9, 14)
	require.NoError(t, err)
	_, _, err = m.Mark(marked, template.Body, 10, 12)
	assert.ErrorIs(t, err, pkg.ErrInvalidSelection)
	assert.Len(t, m.Positions, 1)
}

func TestUnmarkRestoresText(t *testing.T) {
	m := NewModel()
	tmpl := newTemplate()
	tmpl, p1, err := m.Mark(tmpl, template.URL, 31, 34)
	require.NoError(t, err)
	tmpl, p2, err := m.Mark(tmpl, template.Body, 9, 14)
	require.NoError(t, err)

	tmpl, err = m.Unmark(tmpl, p1)
	require.NoError(t, err)
	assert.Equal(t, "http://example.com/api/user?id=100&name=admin", tmpl.URL)
	assert.Len(t, m.Positions, 1)
	assert.Equal(t, 0, p2.SequenceIndex)
	assert.NoError(t, m.Validate(tmpl))
}

func TestUnmarkDuplicateTextPrefersOwnRank(t *testing.T) {
	m := NewModel()
	tmpl := &template.Template{Method: "GET", URL: "http://x/", Body: "a=1&b=1&c=1"}
	tmpl, _, err := m.Mark(tmpl, template.Body, 2, 3)
	require.NoError(t, err)
	tmpl, _, err = m.Mark(tmpl, template.Body, 8, 9)
	require.NoError(t, err)
	assert.Equal(t, "a=#1#&b=#1#&c=1", tmpl.Body)
	second := m.Positions.Sorted()[1]

	tmpl, err = m.Unmark(tmpl, second)
	require.NoError(t, err)
	assert.Equal(t, "a=#1#&b=1&c=1", tmpl.Body)
}

func TestUnmarkMissingMarker(t *testing.T) {
	m := NewModel()
	tmpl := newTemplate()
	tmpl, pos, err := m.Mark(tmpl, template.Body, 9, 14)
	require.NoError(t, err)
	tmpl.Body = "username=admin&password=secret"

	_, err = m.Unmark(tmpl, pos)
	assert.ErrorIs(t, err, pkg.ErrMarkerNotFound)
	assert.Empty(t, m.Positions)
}

func TestClearStripsDelimiters(t *testing.T) {
	m := NewModel()
	tmpl := newTemplate()
	tmpl.Headers += "\nX-Tag: #literal"
	tmpl, _, _ = m.Mark(tmpl, template.URL, 31, 34)
	tmpl, _, _ = m.Mark(tmpl, template.Body, 9, 14)

	cleared := m.Clear(tmpl)
	assert.NotContains(t, cleared.Headers, Delimiter)
	assert.NotContains(t, cleared.Body, Delimiter)
	assert.Equal(t, "http://example.com/api/user?id=100&name=admin", cleared.URL)
	assert.Equal(t, 0, Count(cleared))
	assert.Empty(t, m.Positions)
}

func TestDiscoverAndValidate(t *testing.T) {
	m := NewModel()
	tmpl := &template.Template{
		Method:  "GET",
		URL:     "http://x/#a#",
		Headers: "X-A: #b#",
		Body:    "#c#&#d#",
	}
	ps := m.Discover(tmpl)
	require.Len(t, ps, 4)
	for i, p := range ps {
		assert.Equal(t, i, p.SequenceIndex)
	}
	assert.Equal(t, template.Headers, ps[1].Field)
	assert.NoError(t, m.Validate(tmpl))

	tmpl.Body += "#typed#"
	assert.ErrorIs(t, m.Validate(tmpl), pkg.ErrPositionMismatch)
}
