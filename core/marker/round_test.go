package marker

import (
	"strings"
	"testing"

	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
	"github.com/stretchr/testify/assert"
)

func markedTemplate() *template.Template {
	return &template.Template{
		Method:  "POST",
		URL:     "http://example.com/#users#/#1#",
		Headers: "Host: example.com\nX-Token: #tok#",
		Body:    "q=#search#",
	}
}

func TestBuildRoundSniper(t *testing.T) {
	tmpl := markedTemplate()
	originals := []string{"users", "1", "tok", "search"}

	for target := range originals {
		round := BuildRound(tmpl, target, "PAYLOAD", pkg.Sniper)
		text := round.URL + "\n" + round.Headers + "\n" + round.Body
		assert.NotContains(t, text, Delimiter)
		assert.Equal(t, 1, strings.Count(text, "PAYLOAD"))
		for i, o := range originals {
			if i == target {
				continue
			}
			assert.Contains(t, text, o)
		}
	}

	round := BuildRound(tmpl, 2, "x", pkg.Sniper)
	assert.Equal(t, "http://example.com/users/1", round.URL)
	assert.Equal(t, "Host: example.com\nX-Token: x", round.Headers)
	assert.Equal(t, "q=search", round.Body)
	assert.Equal(t, "POST", round.Method)
}

func TestBuildRoundBatteringRam(t *testing.T) {
	round := BuildRound(markedTemplate(), 0, "z", pkg.BatteringRam)
	assert.Equal(t, "http://example.com/z/z", round.URL)
	assert.Equal(t, "Host: example.com\nX-Token: z", round.Headers)
	assert.Equal(t, "q=z", round.Body)
}

func TestBuildRoundLeavesTemplate(t *testing.T) {
	tmpl := markedTemplate()
	before := *tmpl
	BuildRound(tmpl, 0, "p", pkg.Sniper)
	BuildRound(tmpl, 1, "p", pkg.BatteringRam)
	assert.Equal(t, before, *tmpl)
}
