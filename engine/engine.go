package engine

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/njchilds90/symengine/cas"
)

// Engine turns requests into library calls. An Engine is immutable after
// New and safe to share; every call runs to completion on the caller's
// goroutine.
type Engine struct {
	cfg   Config
	base  *Vocabulary
	tasks []string
}

// New constructs an Engine from cfg.
func New(cfg Config) *Engine {
	e := &Engine{cfg: cfg, base: NewVocabulary(cfg.lib, cfg.allowlist)}
	seen := map[string]bool{}
	for _, name := range cfg.lib.Operations() {
		seen[name] = true
	}
	for alias := range cfg.aliases {
		seen[alias] = true
	}
	for name := range fastPath {
		seen[name] = true
	}
	for name := range seen {
		e.tasks = append(e.tasks, name)
	}
	sort.Strings(e.tasks)
	return e
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-wide engine, constructed on first use with
// the default configuration.
func Default() *Engine {
	defaultOnce.Do(func() { defaultEngine = New(NewConfig()) })
	return defaultEngine
}

// Logger returns the engine's logger.
func (e *Engine) Logger() *slog.Logger { return e.cfg.logger }

// Library returns the namespace tasks are resolved against.
func (e *Engine) Library() *cas.Lib { return e.cfg.lib }

// Alias reports the target of an alias task.
func (e *Engine) Alias(task string) (string, bool) {
	target, ok := e.cfg.aliases[task]
	return target, ok
}

// Compute runs one request. Every returned error is an *Error.
func (e *Engine) Compute(req Request) (resp *Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			resp = nil
			err = newError(KindComputation, nil, "%v", r)
			if re, ok := r.(error); ok {
				err = newError(KindComputation, re, "%v", re)
			}
		}
	}()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	vocab := e.vocabulary(req)
	parsed, err := Parse(req.Expression, vocab)
	if err != nil {
		return nil, asError(err)
	}

	meta := map[string]any{}
	var result any
	if h, ok := fastPath[req.Task]; ok && req.PositionalArgs == nil {
		e.cfg.logger.Debug("dispatch", slog.String("task", req.Task), slog.String("path", "fast"))
		result, err = h(&fastCall{req: req, expr: parsed, meta: meta})
	} else {
		e.cfg.logger.Debug("dispatch", slog.String("task", req.Task), slog.String("path", "generic"))
		result, err = e.invoke(req, parsed, vocab)
	}
	if err != nil {
		return nil, asError(err)
	}
	return normalize(result, parsed, meta), nil
}

// ComputeBatch runs requests in order. Failures are captured per item and
// never abort the batch.
func (e *Engine) ComputeBatch(reqs []Request) []BatchItemResult {
	out := make([]BatchItemResult, len(reqs))
	for i, req := range reqs {
		resp, err := e.Compute(req)
		if err != nil {
			e.cfg.logger.Debug("batch item failed", slog.Int("index", i), slog.String("error", err.Error()))
			out[i] = BatchItemResult{OK: false, Error: err.Error()}
			continue
		}
		out[i] = BatchItemResult{OK: true, Data: resp}
	}
	return out
}

// ListTasks returns the sorted discoverable task names: top-level library
// operations, fast-path tasks and aliases. Dotted paths resolve without
// being listed.
func (e *Engine) ListTasks() []string {
	return append([]string(nil), e.tasks...)
}

// Describe returns the one-line description of a task, following aliases.
func (e *Engine) Describe(task string) string {
	if target, ok := e.cfg.aliases[task]; ok {
		if op, ok := e.resolve(target); ok {
			return fmt.Sprintf("Alias for %s. %s", target, op.Doc)
		}
		return "Alias for " + target + "."
	}
	if d, ok := fastPathDocs[task]; ok {
		return d
	}
	if op, ok := e.resolve(task); ok {
		return op.Doc
	}
	return ""
}

// vocabulary declares the request's variables on top of the base
// allowlist.
func (e *Engine) vocabulary(req Request) *Vocabulary {
	var names []string
	for k := range req.Substitutions {
		names = append(names, k)
	}
	if req.Variable != "" {
		names = append(names, req.Variable)
	}
	if req.SolveFor != "" {
		names = append(names, req.SolveFor)
	}
	for _, a := range req.PositionalArgs {
		names = e.identifiers(a, names)
	}
	if e.cfg.implicitSymbols {
		for _, id := range freeIdentifiers(req.Expression) {
			if !e.base.IsBase(id) {
				names = append(names, id)
			}
		}
	}
	return e.base.Declare(names...)
}

// identifiers collects identifier-looking strings, recursively, that are
// not base vocabulary names.
func (e *Engine) identifiers(v any, acc []string) []string {
	switch x := v.(type) {
	case string:
		if cas.IsIdentifier(x) && !e.base.IsBase(x) && !literals[x] {
			acc = append(acc, x)
		}
	case []any:
		for _, it := range x {
			acc = e.identifiers(it, acc)
		}
	case map[string]any:
		for _, it := range x {
			acc = e.identifiers(it, acc)
		}
	}
	return acc
}

var fastPathDocs = map[string]string{
	"simplify":  "Simplify the expression, then apply substitutions.",
	"expand":    "Expand products and integer powers.",
	"factor":    "Factor over the rationals.",
	"collect":   "Collect terms in powers of variable.",
	"cancel":    "Cancel common factors of a rational function.",
	"apart":     "Partial fraction decomposition in variable.",
	"together":  "Combine over a common denominator.",
	"trigsimp":  "Simplify trigonometric identities.",
	"ratsimp":   "Rational simplification.",
	"solve":     "Solve expression = 0 for solveFor or variable; returns solution mappings.",
	"diff":      "Differentiate with respect to variable.",
	"integrate": "Integrate with respect to variable.",
	"evalf":     "Apply substitutions, then evaluate numerically.",
	"limit":     "Limit as variable approaches substitutions[variable] (default 0).",
	"series":    "Series about substitutions[variable] up to seriesOrder, without the remainder term.",
	"subs":      "Apply substitutions.",
	"det":       "Determinant of a matrix.",
	"inv":       "Inverse of a matrix.",
	"transpose": "Transpose of a matrix.",
}
