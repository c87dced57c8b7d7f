package marker

import (
	"strings"

	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
)

// BuildRound renders the template for one request.
//
// Markers are counted across url, headers and body with a single counter. In sniper mode
// the marker at target becomes payload and every other marker falls back to its own text,
// in battering ram mode every marker becomes payload.
func BuildRound(t *template.Template, target int, payload string, mode pkg.AttackMode) template.Round {
	var counter int
	substitute := func(text string) string {
		var s strings.Builder
		last := 0
		for _, m := range markerRegexp.FindAllStringSubmatchIndex(text, -1) {
			s.WriteString(text[last:m[0]])
			if mode == pkg.BatteringRam || counter == target {
				s.WriteString(payload)
			} else {
				s.WriteString(text[m[2]:m[3]])
			}
			counter++
			last = m[1]
		}
		s.WriteString(text[last:])
		return s.String()
	}

	// 顺序不能变, counter在三个字段间共享
	url := substitute(t.URL)
	headers := substitute(t.Headers)
	body := substitute(t.Body)
	return template.Round{
		Method:  t.Method,
		URL:     url,
		Headers: headers,
		Body:    body,
	}
}
