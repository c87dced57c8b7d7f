package pool

import (
	"fmt"
	"time"

	"github.com/chainreactors/intruder/core/ihttp"
	"github.com/chainreactors/intruder/core/marker"
	"github.com/chainreactors/intruder/core/result"
	"github.com/chainreactors/intruder/core/template"
	"github.com/chainreactors/intruder/pkg"
	"github.com/chainreactors/logs"
)

// CheckBaseline sends the template with every marker reverted to its original text.
// The response is kept as pool.Baseline and exposed to match/filter expressions as baseline.
func (pool *AttackPool) CheckBaseline() (*result.Result, error) {
	round := marker.BuildRound(pool.template, -1, "", pkg.Sniper)
	req := &ihttp.Request{
		Method:  round.Method,
		URL:     round.URL,
		Headers: round.HeaderMap(),
		Body:    round.Body,
	}
	bl := &result.Result{
		Position:        -1,
		FullRequestText: round.Text(),
	}
	start := time.Now()
	resp, err := pool.Dispatcher.Send(pool.ctx, req)
	bl.ElapsedMs = time.Since(start).Milliseconds()
	if err == nil && resp == nil {
		err = fmt.Errorf("empty response")
	}
	if err != nil {
		bl.ErrString = err.Error()
		bl.Reason = pkg.ErrRequestFailed.Error()
		bl.FullResponseText = fmt.Sprintf("%s: %s", pkg.ErrRequestFailed.Error(), err.Error())
		return bl, fmt.Errorf("%w: %s", pkg.ErrBaselineFailed, err.Error())
	}
	bl.StatusCode = resp.StatusCode
	bl.BodyLength = resp.Size()
	bl.Title = resp.Title()
	bl.IsValid = true
	bl.FullResponseText = template.ResponseText(resp.StatusCode, resp.StatusMessage, resp.Headers, string(resp.Body))
	pool.Baseline = bl
	logs.Log.Logf(pkg.LogVerbose, "[baseline] %s", bl.String())
	return bl, nil
}
