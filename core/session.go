package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chainreactors/intruder/core/ihttp"
	"github.com/chainreactors/intruder/core/marker"
	"github.com/chainreactors/intruder/core/payload"
	"github.com/chainreactors/intruder/core/pool"
	"github.com/chainreactors/intruder/core/result"
	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
	"github.com/chainreactors/logs"
)

// SessionOptions tune how an attack is dispatched.
type SessionOptions struct {
	DelayMs   int    `json:"delay_ms"`
	Threads   int    `json:"threads"`
	RateLimit int    `json:"rate_limit,omitempty"`
	Baseline  bool   `json:"baseline,omitempty"`
	Match     string `json:"match,omitempty"`
	Filter    string `json:"filter,omitempty"`
}

func NewSession() *Session {
	return &Session{
		Template: template.NewDefaultTemplate(),
		Model:    marker.NewModel(),
		Payloads: payload.List(nil),
		Mode:     pkg.Sniper,
		Options:  SessionOptions{Threads: 1},
		Results:  result.NewResults(),
	}
}

// Session is the editable attack state plus the results of its last run.
// Only one run is active at a time, a new Start supersedes the running one.
type Session struct {
	Template *template.Template
	Model    *marker.Model
	Payloads *payload.Set
	Mode     pkg.AttackMode
	Options  SessionOptions
	Results  *result.Results

	// OnProgress and OnResult are called from the run, in completion order.
	OnProgress func(pool.Progress)
	OnResult   func(*result.Result)
	// Prepare is called with the pool before it runs, e.g. to attach a progress bar.
	Prepare func(*pool.AttackPool)

	mu       sync.Mutex
	runLock  sync.Mutex
	cancel   context.CancelFunc
	running  bool
	progress pool.Progress
	stat     *pkg.Statistor
}

func (s *Session) MarkPosition(field template.Field, start, end int) (*marker.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	tmpl, pos, err := s.Model.Mark(s.Template, field, start, end)
	if err != nil {
		return nil, err
	}
	s.Template = tmpl
	return pos, nil
}

func (s *Session) UnmarkPosition(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos := s.Model.Positions.Find(id)
	if pos == nil {
		return fmt.Errorf("%w: position %d", pkg.ErrMarkerNotFound, id)
	}
	tmpl, err := s.Model.Unmark(s.Template, pos)
	s.Template = tmpl
	return err
}

func (s *Session) ClearPositions() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Template = s.Model.Clear(s.Template)
}

// SetTemplate replaces the template, positions are rebuilt from the markers it carries.
func (s *Session) SetTemplate(t *template.Template) marker.Positions {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Template = t.Clone()
	return s.Model.Discover(s.Template)
}

func (s *Session) SetPayloads(set *payload.Set) {
	s.mu.Lock()
	s.Payloads = set
	s.mu.Unlock()
}

func (s *Session) SetMode(mode pkg.AttackMode) {
	s.mu.Lock()
	s.Mode = mode
	s.mu.Unlock()
}

func (s *Session) SetOptions(opts SessionOptions) {
	s.mu.Lock()
	s.Options = opts
	s.mu.Unlock()
}

// Total is the request count the current state would produce.
func (s *Session) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pool.Total(s.Mode, len(s.Model.Positions), len(s.Payloads.Active()))
}

func (s *Session) Progress() pool.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.progress
}

func (s *Session) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Statistor returns the summary of the last run, nil before the first one.
func (s *Session) Statistor() *pkg.Statistor {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stat
}

// Stop cancels the active run. The request in flight is recorded, no further one is sent.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
	}
}

// Start runs an attack with the current state and blocks until it ends.
// Validation errors are returned before any request and leave the previous results in place.
func (s *Session) Start(ctx context.Context, dispatcher ihttp.Dispatcher) error {
	s.Stop()
	s.runLock.Lock()
	defer s.runLock.Unlock()

	s.mu.Lock()
	if err := s.Model.Validate(s.Template); err != nil {
		s.mu.Unlock()
		logs.Log.Warn(err.Error())
		return err
	}
	matcher, err := result.NewMatcher(s.Options.Match, s.Options.Filter)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	runCtx, cancel := context.WithCancel(ctx)
	config := &pool.Config{
		Name:       s.Template.URL,
		Template:   s.Template.Clone(),
		Positions:  s.positionsCopy(),
		Payloads:   s.Payloads.Active(),
		Mode:       s.Mode,
		Thread:     s.Options.Threads,
		Delay:      time.Duration(s.Options.DelayMs) * time.Millisecond,
		RateLimit:  s.Options.RateLimit,
		CheckBase:  s.Options.Baseline,
		Dispatcher: dispatcher,
		Matcher:    matcher,
		Results:    s.Results,
		OnProgress: s.publish,
		OnResult:   s.OnResult,
	}
	p, err := pool.NewAttackPool(runCtx, config)
	if err != nil {
		s.mu.Unlock()
		cancel()
		logs.Log.Warn(err.Error())
		return err
	}

	s.Results.Reset()
	s.progress = pool.NewProgress(0, p.Total())
	s.stat = p.Statistor
	s.cancel = cancel
	s.running = true
	s.mu.Unlock()

	if s.Prepare != nil {
		s.Prepare(p)
	}
	err = p.Run()

	s.mu.Lock()
	s.running = false
	s.cancel = nil
	s.mu.Unlock()
	cancel()
	return err
}

func (s *Session) publish(p pool.Progress) {
	s.mu.Lock()
	s.progress = p
	onProgress := s.OnProgress
	s.mu.Unlock()

	if onProgress != nil {
		onProgress(p)
	}
}

// positionsCopy detaches the run from later edits of the session. Callers hold mu.
func (s *Session) positionsCopy() marker.Positions {
	ps := make(marker.Positions, len(s.Model.Positions))
	for i, p := range s.Model.Positions {
		c := *p
		ps[i] = &c
	}
	return ps
}
