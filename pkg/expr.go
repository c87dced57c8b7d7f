package pkg

import (
	"github.com/chainreactors/logs"
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

func CompileExpr(s string) (*vm.Program, error) {
	if s == "" {
		return nil, nil
	}
	return expr.Compile(s)
}

func CompareWithExpr(exp *vm.Program, params map[string]interface{}) bool {
	res, err := expr.Run(exp, params)
	if err != nil {
		logs.Log.Warn(err.Error())
	}

	if res == true {
		return true
	} else {
		return false
	}
}
