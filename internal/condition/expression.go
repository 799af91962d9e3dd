package condition

import (
	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/vovakirdan/rulestage/internal/rules"
)

// ExprEnv is the environment expression conditions are compiled against.
type ExprEnv struct {
	Flags    map[string]bool    `expr:"flags"`
	Counters map[string]float64 `expr:"counters"`
	Score    int                `expr:"score"`
	Elapsed  float64            `expr:"elapsed"`
	Status   string             `expr:"status"`
}

// Flag returns a flag value, false when undeclared.
func (e ExprEnv) Flag(name string) bool {
	return e.Flags[name]
}

// Counter returns a counter value, 0 when undeclared.
func (e ExprEnv) Counter(name string) float64 {
	return e.Counters[name]
}

type compiled struct {
	program *vm.Program
	err     error
}

// Compile checks an expression source without evaluating it.
func Compile(src string) (*vm.Program, error) {
	return expr.Compile(src, expr.Env(ExprEnv{}), expr.AsBool())
}

func (e *Evaluator) program(src string) (*vm.Program, error) {
	c, ok := e.exprs[src]
	if !ok {
		p, err := Compile(src)
		c = &compiled{program: p, err: err}
		e.exprs[src] = c
		if err != nil {
			e.logger.Warn("expression compile failed", "expr", src, "error", err)
		}
	}
	return c.program, c.err
}

func (e *Evaluator) expression(c rules.ExpressionCondition, env Env) bool {
	p, err := e.program(c.Source)
	if err != nil {
		return false
	}
	s := env.Ctx.State
	out, err := vm.Run(p, ExprEnv{
		Flags:    env.Flags.Snapshot(),
		Counters: env.Counters.Snapshot(),
		Score:    s.Score,
		Elapsed:  s.Elapsed,
		Status:   s.Status.String(),
	})
	if err != nil {
		e.warnOnce("run:"+c.Source, "expression failed", "expr", c.Source, "error", err)
		return false
	}
	ok, _ := out.(bool)
	return ok
}
