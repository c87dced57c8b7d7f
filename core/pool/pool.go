package pool

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/chainreactors/intruder/core/ihttp"
	"github.com/chainreactors/intruder/core/marker"
	"github.com/chainreactors/intruder/core/result"
	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
	"github.com/chainreactors/logs"
	"github.com/panjf2000/ants/v2"
	"golang.org/x/time/rate"
)

// NewAttackPool validates cfg and prepares a run. No request is sent before Run.
func NewAttackPool(ctx context.Context, config *Config) (*AttackPool, error) {
	if config.Dispatcher == nil {
		return nil, pkg.ErrNoDispatcher
	}
	if config.Template == nil || len(config.Positions) == 0 {
		return nil, pkg.ErrNoPositions
	}
	var payloads []string
	for _, p := range config.Payloads {
		if strings.TrimSpace(p) != "" {
			payloads = append(payloads, p)
		}
	}
	if len(payloads) == 0 {
		return nil, pkg.ErrNoPayloads
	}
	if n := marker.Count(config.Template); n != len(config.Positions) {
		return nil, fmt.Errorf("%w: %d markers, %d positions", pkg.ErrPositionMismatch, n, len(config.Positions))
	}
	if config.Mode == 0 {
		config.Mode = pkg.Sniper
	}
	if config.Results == nil {
		config.Results = result.NewResults()
	}

	pctx, cancel := context.WithCancel(ctx)
	pool := &AttackPool{
		Config:    config,
		Statistor: pkg.NewStatistor(config.Name),
		ctx:       pctx,
		Cancel:    cancel,
		template:  config.Template.Clone(),
		units:     generateUnits(config.Mode, config.Positions, payloads),
		wg:        &sync.WaitGroup{},
	}
	pool.Statistor.Mode = config.Mode.String()
	pool.Statistor.Positions = len(config.Positions)
	pool.Statistor.Payloads = len(payloads)
	pool.Statistor.Total = len(pool.units)
	pool.Bar = pkg.NewBar(config.Name, len(pool.units), pool.Statistor, nil)

	if config.RateLimit > 0 {
		pool.limiter = rate.NewLimiter(rate.Limit(config.RateLimit), 1)
	}
	if config.Thread > 1 {
		p, err := ants.NewPoolWithFunc(config.Thread, func(i interface{}) {
			defer pool.wg.Done()
			pool.Invoke(i.(*Unit))
		})
		if err != nil {
			cancel()
			return nil, err
		}
		pool.Pool = p
	}
	return pool, nil
}

type AttackPool struct {
	*Config
	Statistor *pkg.Statistor
	Bar       *pkg.Bar
	Baseline  *result.Result
	Pool      *ants.PoolWithFunc
	Cancel    context.CancelFunc
	ctx       context.Context
	template  *template.Template
	units     []*Unit
	limiter   *rate.Limiter
	wg        *sync.WaitGroup

	recordLock sync.Mutex
	current    int
}

func (pool *AttackPool) Total() int {
	return len(pool.units)
}

// Run dispatches every unit and blocks until they are recorded.
// It returns the context error when the run was stopped early.
func (pool *AttackPool) Run() error {
	defer pool.Close()
	logs.Log.Importantf("[pool] %s, mode: %s, positions: %d, payloads: %d, total: %d, threads: %d",
		pool.Name, pool.Mode, pool.Statistor.Positions, pool.Statistor.Payloads, pool.Total(), pool.threads())

	if pool.CheckBase {
		if _, err := pool.CheckBaseline(); err != nil {
			logs.Log.Warn(err.Error())
		}
	}

	var err error
Loop:
	for i, unit := range pool.units {
		// 每轮开始前检查, stop在下一个请求发出前生效
		if err = pool.ctx.Err(); err != nil {
			break
		}
		if i > 0 && pool.Delay > 0 {
			timer := time.NewTimer(pool.Delay)
			select {
			case <-timer.C:
			case <-pool.ctx.Done():
				timer.Stop()
				err = pool.ctx.Err()
				break Loop
			}
		}
		if pool.limiter != nil {
			if err = pool.limiter.Wait(pool.ctx); err != nil {
				if pool.ctx.Err() != nil {
					err = pool.ctx.Err()
				}
				break
			}
		}

		if pool.Pool == nil {
			pool.Invoke(unit)
			continue
		}
		pool.wg.Add(1)
		if ierr := pool.Pool.Invoke(unit); ierr != nil {
			pool.wg.Done()
			err = ierr
			break
		}
	}
	pool.wg.Wait()

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		pool.Statistor.Canceled = true
	} else if err != nil {
		pool.Statistor.Error = err.Error()
	}
	pool.Statistor.Finish()
	logs.Log.Log(pkg.LogVerbose, pool.Statistor.String())
	return err
}

// Invoke sends one round and records its result. Transport errors become status 0 rows.
func (pool *AttackPool) Invoke(unit *Unit) {
	round := marker.BuildRound(pool.template, unit.target, unit.payload, pool.Mode)
	req := &ihttp.Request{
		Method:  round.Method,
		URL:     round.URL,
		Headers: round.HeaderMap(),
		Body:    round.Body,
	}
	r := &result.Result{
		SequenceID:      unit.number,
		Payload:         unit.payload,
		Position:        unit.target,
		FullRequestText: round.Text(),
	}

	start := time.Now()
	resp, err := pool.Dispatcher.Send(pool.ctx, req)
	r.ElapsedMs = time.Since(start).Milliseconds()
	if err == nil && resp == nil {
		err = fmt.Errorf("empty response")
	}
	if err != nil {
		r.ErrString = err.Error()
		r.FullResponseText = fmt.Sprintf("%s: %s", pkg.ErrRequestFailed.Error(), err.Error())
		logs.Log.Debugf("[%d] %s %s, %s", unit.number, req.Method, req.URL, err.Error())
	} else {
		r.StatusCode = resp.StatusCode
		r.BodyLength = resp.Size()
	r.Title = resp.Title()
		r.FullResponseText = template.ResponseText(resp.StatusCode, resp.StatusMessage, resp.Headers, string(resp.Body))
	}
	pool.Matcher.Apply(r, pool.Baseline)
	pool.record(r)
}

func (pool *AttackPool) record(r *result.Result) {
	pool.recordLock.Lock()
	defer pool.recordLock.Unlock()
	pool.Results.Append(r)
	pool.current++
	pool.Statistor.Record(r.StatusCode, r.IsValid && !r.IsFiltered, r.IsFiltered)
	pool.Bar.SetCurrent(pool.current)
	if pool.OnResult != nil {
		pool.OnResult(r)
	}
	if pool.OnProgress != nil {
		pool.OnProgress(NewProgress(pool.current, len(pool.units)))
	}
	if pool.OutputCh != nil {
		select {
		case pool.OutputCh <- r:
		case <-pool.ctx.Done():
		}
	}
}

func (pool *AttackPool) threads() int {
	if pool.Thread > 1 {
		return pool.Thread
	}
	return 1
}

func (pool *AttackPool) Close() {
	if pool.Pool != nil {
		pool.Pool.Release()
	}
	pool.Bar.Close()
	pool.Cancel()
}
