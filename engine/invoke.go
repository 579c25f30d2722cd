package engine

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/njchilds90/symengine/cas"
)

// binding is one calling convention: a positional argument list for the
// resolved operation.
type binding struct {
	name string
	args []any
}

// invoke resolves the task and calls it. With explicit positional
// arguments the call is bound exactly once. Otherwise conventions are
// probed in order, moving on only when a convention fails to bind.
func (e *Engine) invoke(req Request, expr cas.Expr, vocab *Vocabulary) (any, error) {
	op, ok := e.resolve(req.Task)
	if !ok {
		return nil, newError(KindUnsupportedOperation, nil, "unsupported operation: %s", req.Task)
	}
	kwargs := make(map[string]any, len(req.KeywordArgs))
	for k, v := range req.KeywordArgs {
		kwargs[k] = ParseArgument(v, vocab)
	}

	if req.PositionalArgs != nil {
		args := []any{expr}
		for _, a := range req.PositionalArgs {
			args = append(args, ParseArgument(a, vocab))
		}
		out, err := attempt(op, args, kwargs)
		var be *cas.BindError
		switch {
		case errors.As(err, &be):
			return nil, newError(KindInvocationFailed, err, "unable to call %s with provided arguments: %v", op.Name, err)
		case err != nil:
			return nil, newError(KindComputation, err, "%v", err)
		}
		return out, nil
	}

	if op.Name == "laplace_transform" {
		if _, set := kwargs["noconds"]; !set {
			kwargs["noconds"] = true
		}
	}
	var lastErr error
	for _, b := range conventions(req, op, expr, vocab) {
		out, err := attempt(op, b.args, kwargs)
		var be *cas.BindError
		if errors.As(err, &be) {
			e.cfg.logger.Debug("convention did not bind",
				slog.String("task", req.Task), slog.String("convention", b.name), slog.String("error", err.Error()))
			lastErr = err
			continue
		}
		if err != nil {
			return nil, newError(KindComputation, err, "%v", err)
		}
		e.cfg.logger.Debug("convention bound", slog.String("task", req.Task), slog.String("convention", b.name))
		return out, nil
	}
	return nil, newError(KindInvocationFailed, lastErr, "unable to call %s with provided arguments: %v", op.Name, lastErr)
}

// attempt binds and invokes one convention. A *cas.BindError from either
// step means the convention does not apply.
func attempt(op *cas.Operation, args []any, kwargs map[string]any) (any, error) {
	call, err := op.Bind(args, kwargs)
	if err != nil {
		return nil, err
	}
	return call.Invoke()
}

// conventions lists the probing order: (expr, sym1, sym2), the swapped
// pair for inverse operations, (expr, sym1) and (expr).
func conventions(req Request, op *cas.Operation, expr cas.Expr, vocab *Vocabulary) []binding {
	var sym1, sym2 any
	if req.Variable != "" {
		sym1 = symbolFor(req.Variable, vocab)
	}
	if req.SolveFor != "" {
		sym2 = symbolFor(req.SolveFor, vocab)
	}
	var out []binding
	if sym1 != nil && sym2 != nil {
		out = append(out, binding{name: "expr, variable, solveFor", args: []any{expr, sym1, sym2}})
		if strings.Contains(op.Name, "inverse") || strings.Contains(req.Task, "inverse") {
			out = append(out, binding{name: "expr, solveFor, variable", args: []any{expr, sym2, sym1}})
		}
	}
	if sym1 != nil {
		out = append(out, binding{name: "expr, variable", args: []any{expr, sym1}})
	}
	return append(out, binding{name: "expr", args: []any{expr}})
}

func symbolFor(name string, vocab *Vocabulary) any {
	if v, ok := vocab.Lookup(name); ok {
		if s, ok := v.(*cas.Sym); ok {
			return s
		}
	}
	return cas.S(name)
}
