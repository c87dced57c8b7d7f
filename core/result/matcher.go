package result

import (
	"github.com/chainreactors/intruder/pkg"
	"github.com/expr-lang/expr/vm"
)

// Matcher marks results with the --match and --filter expressions.
// Expressions see the result as current and the unmodified request as baseline,
// e.g. current.StatusCode == 200 or current.BodyLength != baseline.BodyLength.
type Matcher struct {
	MatchExpr  *vm.Program
	FilterExpr *vm.Program
}

func NewMatcher(match, filter string) (*Matcher, error) {
	m := &Matcher{}
	var err error
	if m.MatchExpr, err = pkg.CompileExpr(match); err != nil {
		return nil, err
	}
	if m.FilterExpr, err = pkg.CompileExpr(filter); err != nil {
		return nil, err
	}
	return m, nil
}

// Apply sets IsValid, IsFiltered and Reason. Failed requests are never valid.
func (m *Matcher) Apply(r *Result, baseline *Result) {
	if r.Failed() {
		r.IsValid = false
		r.Reason = pkg.ErrRequestFailed.Error()
		return
	}
	r.IsValid = true
	if m == nil {
		return
	}
	if baseline == nil {
		baseline = &Result{}
	}
	params := map[string]interface{}{
		"current":  r,
		"baseline": baseline,
	}
	if m.MatchExpr != nil && !pkg.CompareWithExpr(m.MatchExpr, params) {
		r.IsValid = false
		r.Reason = pkg.ErrNotMatched.Error()
		return
	}
	if m.FilterExpr != nil && pkg.CompareWithExpr(m.FilterExpr, params) {
		r.IsFiltered = true
		r.Reason = pkg.ErrCustomFilter.Error()
	}
}
