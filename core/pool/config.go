package pool

import (
	"time"

	"github.com/chainreactors/intruder/core/ihttp"
	"github.com/chainreactors/intruder/core/marker"
	"github.com/chainreactors/intruder/core/result"
	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
)

type Config struct {
	Name       string
	Template   *template.Template
	Positions  marker.Positions
	Payloads   []string
	Mode       pkg.AttackMode
	Thread     int
	Delay      time.Duration
	RateLimit  int
	Dispatcher ihttp.Dispatcher
	Matcher    *result.Matcher
	// CheckBase sends the unmodified template once before the attack.
	CheckBase bool

	// Results receives every record in completion order, a fresh list is used when nil.
	Results *result.Results
	// OutputCh is optional, sends are abandoned once the pool context is done.
	OutputCh   chan *result.Result
	OnResult   func(*result.Result)
	OnProgress func(Progress)
}
