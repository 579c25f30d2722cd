package cas

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// ============================================================
// Operation descriptors
// ============================================================

// Kind is the accepted type of an operation argument.
type Kind int

const (
	KindExpr Kind = iota
	KindSymbol
	KindSymbols // variadic: the remaining positionals, or one list of symbols
	KindInteger
	KindNumber
	KindString
	KindBool
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindExpr:
		return "expression"
	case KindSymbol:
		return "symbol"
	case KindSymbols:
		return "symbols"
	case KindInteger:
		return "integer"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	}
	return "any"
}

// Param describes one positional parameter.
type Param struct {
	Name     string
	Kind     Kind
	Optional bool
	// MustOccur requires a symbol argument to be free in the first argument;
	// transforms use it so that swapped variables fail to bind.
	MustOccur bool
}

// Operation is an invocable member of the library namespace.
type Operation struct {
	Name     string
	Doc      string
	Params   []Param
	Keywords map[string]Kind
	Attrs    map[string]*Operation

	call func(c *Call) (any, error)
}

// Call is a bound invocation: arguments converted to their declared kinds.
type Call struct {
	Op   *Operation
	Args []any // one slot per Param; nil for omitted optionals
	Rest []any // variadic tail for a trailing KindSymbols or KindAny param
	Kw   map[string]any
}

// Invoke runs the bound call. Kernel panics carrying a *MathError are
// returned as errors.
func (c *Call) Invoke() (out any, err error) {
	defer func() {
		if r := recover(); r != nil {
			me, ok := r.(*MathError)
			if !ok {
				panic(r)
			}
			out, err = nil, me
		}
	}()
	return c.Op.call(c)
}

// Bind checks args and kwargs against the signature without invoking
// anything. A failed bind is always a *BindError.
func (op *Operation) Bind(args []any, kwargs map[string]any) (*Call, error) {
	c := &Call{Op: op, Args: make([]any, len(op.Params)), Kw: map[string]any{}}
	for k, v := range kwargs {
		kind, ok := op.Keywords[k]
		if !ok {
			return nil, bindErrorf(op.Name, "got an unexpected keyword argument '%s'", k)
		}
		cv, err := convert(v, kind)
		if err != nil {
			return nil, bindErrorf(op.Name, "keyword '%s': %v", k, err)
		}
		c.Kw[k] = cv
	}
	i := 0
	for pi, p := range op.Params {
		variadic := pi == len(op.Params)-1 && (p.Kind == KindSymbols || (p.Kind == KindAny && strings.HasSuffix(p.Name, "...")))
		if variadic {
			for ; i < len(args); i++ {
				kind := p.Kind
				if kind == KindSymbols {
					if flat, ok := symbolList(args[i]); ok && len(args) == i+1 && len(c.Rest) == 0 {
						for _, s := range flat {
							c.Rest = append(c.Rest, s)
						}
						continue
					}
					kind = KindSymbol
				}
				cv, err := convert(args[i], kind)
				if err != nil {
					return nil, bindErrorf(op.Name, "argument %d (%s): %v", i+1, p.Name, err)
				}
				c.Rest = append(c.Rest, cv)
			}
			if !p.Optional && len(c.Rest) == 0 {
				return nil, bindErrorf(op.Name, "missing required argument: '%s'", p.Name)
			}
			break
		}
		if i >= len(args) {
			if !p.Optional {
				return nil, bindErrorf(op.Name, "missing required positional argument: '%s'", p.Name)
			}
			continue
		}
		cv, err := convert(args[i], p.Kind)
		if err != nil {
			return nil, bindErrorf(op.Name, "argument %d (%s): %v", i+1, p.Name, err)
		}
		if p.MustOccur && len(args) > 0 {
			if first, ok := c.Args[0].(Expr); ok && !Has(first, cv.(string)) {
				return nil, bindErrorf(op.Name, "%s does not occur in %s", cv, first)
			}
		}
		c.Args[pi] = cv
		i++
	}
	if i < len(args) {
		return nil, bindErrorf(op.Name, "takes at most %d positional arguments but %d were given", len(op.Params), len(args))
	}
	return c, nil
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsIdentifier reports whether s can name a symbol.
func IsIdentifier(s string) bool { return identRe.MatchString(s) }

func convert(v any, kind Kind) (any, error) {
	switch kind {
	case KindSymbol:
		switch x := v.(type) {
		case *Sym:
			return x.name, nil
		case string:
			if IsIdentifier(x) {
				return x, nil
			}
		}
		return nil, fmt.Errorf("expected a symbol, got %s", describe(v))
	case KindInteger:
		switch x := v.(type) {
		case int:
			return x, nil
		case float64:
			if x == math.Trunc(x) && math.Abs(x) < 1<<31 {
				return int(x), nil
			}
		case *Num:
			if k, ok := x.Int64(); ok && x.IsInteger() && k < 1<<31 && k > -(1<<31) {
				return int(k), nil
			}
		}
		return nil, fmt.Errorf("expected an integer, got %s", describe(v))
	case KindBool:
		switch x := v.(type) {
		case bool:
			return x, nil
		case *Bool:
			return x.val, nil
		}
		return nil, fmt.Errorf("expected a bool, got %s", describe(v))
	case KindString:
		switch x := v.(type) {
		case string:
			return x, nil
		case *Sym:
			return x.name, nil
		}
		if e, ok := v.(Expr); ok {
			return e.String(), nil
		}
		return nil, fmt.Errorf("expected a string, got %s", describe(v))
	case KindNumber:
		e, err := toExpr(v)
		if err != nil || !isNumericAtom(e) && !isInfinity(e) {
			return nil, fmt.Errorf("expected a number, got %s", describe(v))
		}
		return e, nil
	case KindExpr:
		e, err := toExpr(v)
		if err != nil {
			return nil, err
		}
		return e, nil
	}
	if e, err := toExpr(v); err == nil {
		return e, nil
	}
	return v, nil
}

// toExpr converts engine argument values to expressions.
func toExpr(v any) (Expr, error) {
	switch x := v.(type) {
	case Expr:
		return x, nil
	case float64:
		return Number(x), nil
	case int:
		return N(int64(x)), nil
	case int64:
		return N(x), nil
	case bool:
		return BoolOf(x), nil
	case []any:
		items := make([]Expr, len(x))
		for i, it := range x {
			e, err := toExpr(it)
			if err != nil {
				return nil, err
			}
			items[i] = e
		}
		return ListOf(items...), nil
	case map[string]any:
		d := &Dict{}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			val, err := toExpr(x[k])
			if err != nil {
				return nil, err
			}
			d.Set(S(k), val)
		}
		return d, nil
	}
	return nil, fmt.Errorf("expected an expression, got %s", describe(v))
}

// symbolList flattens a list argument of symbols.
func symbolList(v any) ([]string, bool) {
	var items []any
	switch x := v.(type) {
	case *List:
		for _, it := range x.items {
			items = append(items, it)
		}
	case []any:
		items = x
	default:
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		s, err := convert(it, KindSymbol)
		if err != nil {
			return nil, false
		}
		out = append(out, s.(string))
	}
	return out, true
}

func describe(v any) string {
	switch x := v.(type) {
	case nil:
		return "None"
	case string:
		return fmt.Sprintf("string %q", x)
	case Expr:
		return x.String()
	}
	return fmt.Sprintf("%T", v)
}

// Typed accessors for bound arguments.

func (c *Call) Expr(i int) Expr {
	if e, ok := c.Args[i].(Expr); ok {
		return e
	}
	return nil
}

func (c *Call) Symbol(i int) string {
	s, _ := c.Args[i].(string)
	return s
}

func (c *Call) Int(i int, def int) int {
	if n, ok := c.Args[i].(int); ok {
		return n
	}
	return def
}

func (c *Call) Has(i int) bool { return c.Args[i] != nil }

func (c *Call) RestSymbols() []string {
	out := make([]string, 0, len(c.Rest))
	for _, r := range c.Rest {
		if s, ok := r.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func (c *Call) KwBool(name string, def bool) bool {
	if b, ok := c.Kw[name].(bool); ok {
		return b
	}
	return def
}

func (c *Call) KwString(name, def string) string {
	if s, ok := c.Kw[name].(string); ok {
		return s
	}
	return def
}

// Attr implements attribute access on operations (Matrix.det).
func (op *Operation) Attr(name string) (any, bool) {
	a, ok := op.Attrs[name]
	return a, ok
}

// ============================================================
// Namespace: the module tree
// ============================================================

// Namespace is a module of the library. Members are *Operation, nested
// *Namespace, or constant Expr values.
type Namespace struct {
	Name    string
	Package bool
	members map[string]any
}

func newNamespace(name string, pkg bool) *Namespace {
	return &Namespace{Name: name, Package: pkg, members: map[string]any{}}
}

func (ns *Namespace) Attr(name string) (any, bool) {
	m, ok := ns.members[name]
	return m, ok
}

// Names lists members in sorted order.
func (ns *Namespace) Names() []string {
	out := make([]string, 0, len(ns.members))
	for n := range ns.members {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Lib is the library root plus its importable submodules.
type Lib struct {
	Root     *Namespace
	packages map[string]*Namespace
}

// Import loads a dotted submodule path such as "integrals.transforms".
func (l *Lib) Import(path string) (*Namespace, bool) {
	ns, ok := l.packages[path]
	return ns, ok
}

// Packages lists the importable submodule paths in sorted order.
func (l *Lib) Packages() []string {
	out := make([]string, 0, len(l.packages))
	for p := range l.packages {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Attr reads an attribute of a namespace or an operation.
func Attr(obj any, name string) (any, bool) {
	type attrs interface {
		Attr(string) (any, bool)
	}
	if a, ok := obj.(attrs); ok {
		return a.Attr(name)
	}
	return nil, false
}

// Invocable reports whether obj can be called.
func Invocable(obj any) (*Operation, bool) {
	op, ok := obj.(*Operation)
	return op, ok && op != nil && op.call != nil
}

// Operations lists the invocable top-level names.
func (l *Lib) Operations() []string {
	var out []string
	for _, n := range l.Root.Names() {
		if _, ok := Invocable(l.Root.members[n]); ok {
			out = append(out, n)
		}
	}
	return out
}

var (
	libOnce sync.Once
	lib     *Lib
)

// Library returns the process-wide namespace, built on first use.
func Library() *Lib {
	libOnce.Do(func() { lib = buildLibrary() })
	return lib
}

func buildLibrary() *Lib {
	l := &Lib{Root: newNamespace("", true), packages: map[string]*Namespace{}}
	for _, op := range operations() {
		l.Root.members[op.Name] = op
	}
	for name, c := range map[string]Expr{
		"pi": Pi, "E": E, "I": I, "oo": Infinity, "zoo": ComplexInfinity, "nan": NaN,
		"true": True, "false": False,
	} {
		l.Root.members[name] = c
	}
	paths := make([]string, 0, len(packageMembers))
	for p := range packageMembers {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, path := range paths {
		ns := l.ensurePackage(path)
		for _, name := range packageMembers[path] {
			if m, ok := l.Root.members[name]; ok {
				ns.members[name] = m
			}
		}
	}
	return l
}

func (l *Lib) ensurePackage(path string) *Namespace {
	if ns, ok := l.packages[path]; ok {
		return ns
	}
	ns := newNamespace(path, true)
	l.packages[path] = ns
	if i := strings.LastIndex(path, "."); i >= 0 {
		parent := l.ensurePackage(path[:i])
		parent.members[path[i+1:]] = ns
	}
	return ns
}

// packageMembers places root operations into the submodule tree.
var packageMembers = map[string][]string{
	"core.function":                          {"diff", "expand"},
	"functions":                              {"sin", "cos", "tan", "asin", "acos", "atan", "sinh", "cosh", "tanh", "exp", "log", "ln", "sqrt", "Abs", "sign", "floor", "ceiling", "factorial", "binomial"},
	"functions.elementary.trigonometric":     {"sin", "cos", "tan", "asin", "acos", "atan"},
	"functions.elementary.exponential":       {"exp", "log"},
	"functions.elementary.hyperbolic":        {"sinh", "cosh", "tanh"},
	"functions.elementary.miscellaneous":     {"sqrt"},
	"functions.elementary.complexes":         {"Abs", "sign"},
	"functions.elementary.integers":          {"floor", "ceiling"},
	"functions.combinatorial.factorials":     {"factorial", "binomial"},
	"integrals":                              {"integrate", "laplace_transform", "inverse_laplace_transform"},
	"integrals.integrals":                    {"integrate"},
	"integrals.transforms":                   {"laplace_transform", "inverse_laplace_transform"},
	"matrices":                               {"Matrix", "eye", "zeros", "ones", "det", "trace", "transpose", "hessian"},
	"polys":                                  {"factor", "cancel", "apart", "together", "gcd", "lcm", "quo", "rem", "div", "degree", "roots"},
	"polys.polytools":                        {"factor", "cancel", "gcd", "lcm", "quo", "rem", "div", "degree"},
	"polys.partfrac":                         {"apart"},
	"polys.polyroots":                        {"roots"},
	"polys.rationaltools":                    {"together"},
	"printing":                               {"latex", "srepr"},
	"printing.latex":                         {"latex"},
	"series":                                 {"series", "limit"},
	"series.limits":                          {"limit"},
	"series.series":                          {"series"},
	"simplify":                               {"simplify", "trigsimp", "ratsimp", "collect", "fraction", "numer", "denom"},
	"simplify.radsimp":                       {"collect", "fraction", "numer", "denom"},
	"simplify.ratsimp":                       {"ratsimp"},
	"simplify.simplify":                      {"simplify"},
	"simplify.trigsimp":                      {"trigsimp"},
	"solvers":                                {"solve"},
	"solvers.solvers":                        {"solve"},
	"vector":                                 {"gradient", "divergence", "curl", "laplacian", "jacobian", "hessian"},
}
