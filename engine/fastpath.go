package engine

import (
	"github.com/njchilds90/symengine/cas"
)

// fastCall carries one request through a fast-path handler.
type fastCall struct {
	req  Request
	expr cas.Expr
	meta map[string]any
}

type fastHandler func(c *fastCall) (any, error)

// fastPath is the curated dispatch table, keyed by canonical task name.
// Aliases never reach it.
var fastPath = map[string]fastHandler{
	"simplify": func(c *fastCall) (any, error) {
		return cas.SubsMap(cas.Simplify(c.expr), c.substitutions("")), nil
	},
	"expand":   unaryFast(cas.Expand),
	"factor":   unaryFast(cas.Factor),
	"cancel":   unaryFast(cas.Cancel),
	"together": unaryFast(cas.Together),
	"trigsimp": unaryFast(cas.Trigsimp),
	"ratsimp":  unaryFast(cas.Ratsimp),
	"collect": func(c *fastCall) (any, error) {
		v, err := c.variable("collect")
		if err != nil {
			return nil, err
		}
		return cas.Collect(c.expr, v), nil
	},
	"apart": func(c *fastCall) (any, error) {
		return cas.Apart(c.expr, c.req.Variable)
	},
	"diff": func(c *fastCall) (any, error) {
		v, err := c.variable("differentiation")
		if err != nil {
			return nil, err
		}
		return c.expr.Diff(v), nil
	},
	"integrate": func(c *fastCall) (any, error) {
		v, err := c.variable("integration")
		if err != nil {
			return nil, err
		}
		return cas.Integrate(c.expr, v)
	},
	"solve":     fastSolve,
	"evalf":     func(c *fastCall) (any, error) { return cas.Evalf(cas.SubsMap(c.expr, c.substitutions(""))), nil },
	"limit":     fastLimit,
	"series":    fastSeries,
	"subs":      fastSubs,
	"det":       matrixFast("determinant", func(m *cas.Matrix) (cas.Expr, error) { return m.Det() }),
	"inv":       matrixFast("inverse", func(m *cas.Matrix) (cas.Expr, error) { return m.Inv() }),
	"transpose": matrixFast("transpose", func(m *cas.Matrix) (cas.Expr, error) { return m.T(), nil }),
}

func unaryFast(f func(cas.Expr) cas.Expr) fastHandler {
	return func(c *fastCall) (any, error) { return f(c.expr), nil }
}

func (c *fastCall) variable(purpose string) (string, error) {
	if c.req.Variable == "" {
		return "", newError(KindMissingParameter, nil, "provide 'variable' for %s", purpose)
	}
	return c.req.Variable, nil
}

// substitutions converts the request's numeric substitutions, leaving out
// the named variable.
func (c *fastCall) substitutions(except string) map[string]cas.Expr {
	out := make(map[string]cas.Expr, len(c.req.Substitutions))
	for k, v := range c.req.Substitutions {
		if k != except {
			out[k] = cas.Number(v)
		}
	}
	return out
}

// boundVariable is the variable option, else the first free symbol, else x.
func (c *fastCall) boundVariable() string {
	if c.req.Variable != "" {
		return c.req.Variable
	}
	if free := cas.FreeSymbols(c.expr); len(free) > 0 {
		return free[0]
	}
	return "x"
}

func fastSolve(c *fastCall) (any, error) {
	target := c.req.SolveFor
	if target == "" {
		target = c.req.Variable
	}
	if sys, ok := c.expr.(*cas.List); ok {
		syms := cas.FreeSymbols(sys)
		if target != "" {
			syms = []string{target}
		}
		if len(syms) == 0 {
			return nil, newError(KindNoSolveTarget, nil, "no variable to solve for; provide 'solveFor' or 'variable'")
		}
		sol, err := cas.SolveSystem(sys.Items(), syms)
		if err != nil {
			return nil, err
		}
		if d, ok := sol.(*cas.Dict); ok {
			return cas.ListOf(d), nil
		}
		return sol, nil
	}
	if target == "" {
		free := cas.FreeSymbols(c.expr)
		if len(free) == 0 {
			return nil, newError(KindNoSolveTarget, nil, "no variable to solve for; provide 'solveFor' or 'variable'")
		}
		target = free[0]
	}
	eq := c.expr
	if _, ok := eq.(*cas.Equation); !ok {
		eq = cas.Eq(eq, cas.N(0))
	}
	sols, err := cas.Solve(eq, target)
	if err != nil {
		return nil, err
	}
	out := make([]cas.Expr, len(sols))
	for i, s := range sols {
		d := &cas.Dict{}
		d.Set(cas.S(target), s)
		out[i] = d
	}
	return cas.ListOf(out...), nil
}

func fastLimit(c *fastCall) (any, error) {
	sym := c.boundVariable()
	point := 0.0
	if v, ok := c.req.Substitutions[sym]; ok {
		point = v
	}
	c.meta["limitPoint"] = point
	// The limit variable itself must not be substituted: 0/0 would
	// collapse to nan before the limit could resolve it.
	e := cas.SubsMap(c.expr, c.substitutions(sym))
	dir := "+"
	if d, ok := c.req.KeywordArgs["dir"]; ok && d != nil {
		dir = toString(d)
	}
	return cas.Limit(e, sym, cas.Number(point), dir)
}

func fastSeries(c *fastCall) (any, error) {
	sym := c.boundVariable()
	center := 0.0
	if v, ok := c.req.Substitutions[sym]; ok {
		center = v
	}
	s, err := cas.Series(c.expr, sym, cas.Number(center), c.req.Order())
	if err != nil {
		return nil, err
	}
	return cas.RemoveO(s), nil
}

func fastSubs(c *fastCall) (any, error) {
	if len(c.req.Substitutions) == 0 {
		return nil, newError(KindMissingParameter, nil, "provide 'substitutions' mapping for substitution")
	}
	return cas.SubsMap(c.expr, c.substitutions("")), nil
}

func matrixFast(what string, f func(*cas.Matrix) (cas.Expr, error)) fastHandler {
	return func(c *fastCall) (any, error) {
		m, ok := c.expr.(*cas.Matrix)
		if !ok {
			if what == "transpose" {
				return nil, newError(KindNotAMatrix, nil, "expression is not a matrix; cannot transpose")
			}
			return nil, newError(KindNotAMatrix, nil, "expression is not a matrix; cannot compute %s", what)
		}
		return f(m)
	}
}
