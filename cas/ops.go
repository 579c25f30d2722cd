package cas

import (
	"math/big"
	"strings"
)

// ============================================================
// Library members
// ============================================================

func expr(name string) Param { return Param{Name: name, Kind: KindExpr} }
func optExpr(name string) Param { return Param{Name: name, Kind: KindExpr, Optional: true} }
func symbol(name string) Param { return Param{Name: name, Kind: KindSymbol} }
func optSymbol(name string) Param { return Param{Name: name, Kind: KindSymbol, Optional: true} }
func optInt(name string) Param { return Param{Name: name, Kind: KindInteger, Optional: true} }
func rest(name string, opt bool) Param { return Param{Name: name, Kind: KindSymbols, Optional: opt} }
func restAny(name string, opt bool) Param { return Param{Name: name + "...", Kind: KindAny, Optional: opt} }

func unary(name, doc string, f func(Expr) Expr) *Operation {
	return &Operation{Name: name, Doc: doc, Params: []Param{expr("arg")},
		call: func(c *Call) (any, error) { return f(c.Expr(0)), nil }}
}

func operations() []*Operation {
	ops := []*Operation{
		{Name: "Symbol", Doc: "Create a symbol.", Params: []Param{{Name: "name", Kind: KindString}},
			call: func(c *Call) (any, error) {
				name := c.Args[0].(string)
				if !IsIdentifier(name) {
					return nil, mathErrorf("invalid symbol name %q", name)
				}
				return S(name), nil
			}},
		{Name: "symbols", Doc: "Create symbols from a comma or space separated list.", Params: []Param{{Name: "names", Kind: KindString}},
			call: callSymbols},
		{Name: "Eq", Doc: "Equation lhs = rhs.", Params: []Param{expr("lhs"), optExpr("rhs")},
			call: func(c *Call) (any, error) {
				rhs := Expr(zero)
				if c.Has(1) {
					rhs = c.Expr(1)
				}
				return Eq(c.Expr(0), rhs), nil
			}},
		{Name: "Rational", Doc: "Exact rational p/q.", Params: []Param{expr("p"), optExpr("q")},
			call: func(c *Call) (any, error) {
				if !c.Has(1) {
					return c.Expr(0), nil
				}
				if isZeroNumber(c.Expr(1)) {
					return ComplexInfinity, nil
				}
				return Div(c.Expr(0), c.Expr(1)), nil
			}},
		{Name: "Integer", Doc: "Exact integer.", Params: []Param{{Name: "n", Kind: KindInteger}},
			call: func(c *Call) (any, error) { return N(int64(c.Int(0, 0))), nil }},
		{Name: "log", Doc: "Natural logarithm, or logarithm to an optional base.", Params: []Param{expr("arg"), optExpr("base")},
			call: func(c *Call) (any, error) {
				if c.Has(1) {
					return Div(Log(c.Expr(0)), Log(c.Expr(1))), nil
				}
				return Log(c.Expr(0)), nil
			}},
		unary("ln", "Natural logarithm.", Log),
		unary("sqrt", "Principal square root.", Sqrt),
		{Name: "binomial", Doc: "Binomial coefficient.", Params: []Param{expr("n"), expr("k")},
			call: func(c *Call) (any, error) { return binomial(c.Expr(0), c.Expr(1)), nil }},

		{Name: "Matrix", Doc: "Matrix from a list of rows, or a column from a flat list.", Params: []Param{{Name: "rows", Kind: KindAny}},
			Attrs: matrixAttrs(), call: func(c *Call) (any, error) { return matrixFrom(c.Args[0]) }},
		{Name: "eye", Doc: "n x n identity matrix.", Params: []Param{{Name: "n", Kind: KindInteger}},
			call: func(c *Call) (any, error) { return Identity(c.Int(0, 0)), nil }},
		{Name: "zeros", Doc: "Zero matrix.", Params: []Param{{Name: "rows", Kind: KindInteger}, optInt("cols")},
			call: func(c *Call) (any, error) { return filled(c, zero), nil }},
		{Name: "ones", Doc: "Matrix of ones.", Params: []Param{{Name: "rows", Kind: KindInteger}, optInt("cols")},
			call: func(c *Call) (any, error) { return filled(c, one), nil }},
		{Name: "det", Doc: "Determinant.", Params: []Param{expr("M")},
			call: matrixMethod("det", (*Matrix).Det)},
		{Name: "trace", Doc: "Trace.", Params: []Param{expr("M")},
			call: matrixMethod("trace", (*Matrix).Trace)},
		{Name: "transpose", Doc: "Transpose; scalars are their own transpose.", Params: []Param{expr("M")},
			call: func(c *Call) (any, error) {
				if m, ok := c.Expr(0).(*Matrix); ok {
					return m.T(), nil
				}
				return c.Expr(0), nil
			}},

		{Name: "diff", Doc: "Differentiate with respect to symbols; a symbol may be followed by a count.",
			Params: []Param{expr("f"), restAny("symbols", true)}, call: callDiff},
		{Name: "Derivative", Doc: "Evaluated derivative.",
			Params: []Param{expr("f"), restAny("symbols", true)}, call: callDiff},
		{Name: "integrate", Doc: "Indefinite integral, or definite over (x, a, b) tuples.",
			Params: []Param{expr("f"), restAny("limits", true)}, call: callIntegrate},
		{Name: "Integral", Doc: "Evaluated integral.",
			Params: []Param{expr("f"), restAny("limits", true)}, call: callIntegrate},
		{Name: "limit", Doc: "Limit of e as z approaches z0.",
			Params:   []Param{expr("e"), symbol("z"), expr("z0"), {Name: "dir", Kind: KindString, Optional: true}},
			Keywords: map[string]Kind{"dir": KindString},
			call: func(c *Call) (any, error) {
				dir := c.KwString("dir", "+")
				if s, ok := c.Args[3].(string); ok {
					dir = s
				}
				return Limit(c.Expr(0), c.Symbol(1), c.Expr(2), dir)
			}},
		{Name: "series", Doc: "Power series of expr about x0 up to O(x**n).",
			Params:   []Param{expr("expr"), optSymbol("x"), optExpr("x0"), optInt("n")},
			Keywords: map[string]Kind{"x0": KindExpr, "n": KindInteger, "dir": KindString},
			call:     callSeries},
		{Name: "solve", Doc: "Solve an equation or a system; expressions are taken as equal to zero.",
			Params:   []Param{{Name: "f", Kind: KindAny}, rest("symbols", true)},
			Keywords: map[string]Kind{"dict": KindBool},
			call:     callSolve},
		{Name: "roots", Doc: "Roots of a univariate polynomial with multiplicities.",
			Params: []Param{expr("f"), optSymbol("x")},
			call: func(c *Call) (any, error) {
				x, err := generator(c, 1, "roots")
				if err != nil {
					return nil, err
				}
				return Roots(c.Expr(0), x)
			}},

		unary("simplify", "Heuristic simplification.", Simplify),
		unary("expand", "Expand products and integer powers.", Expand),
		unary("factor", "Factor over the rationals.", Factor),
		unary("cancel", "Cancel common factors of a rational function.", Cancel),
		unary("together", "Combine over a common denominator.", Together),
		unary("trigsimp", "Simplify trigonometric expressions.", Trigsimp),
		unary("ratsimp", "Rational simplification.", Ratsimp),
		unary("numer", "Numerator.", Numer),
		unary("denom", "Denominator.", Denom),
		{Name: "fraction", Doc: "(numerator, denominator) pair.", Params: []Param{expr("expr")},
			call: func(c *Call) (any, error) {
				n, d := numerDenom(c.Expr(0))
				return TupleOf(n, d), nil
			}},
		{Name: "collect", Doc: "Collect terms by powers of a symbol.", Params: []Param{expr("expr"), symbol("syms")},
			call: func(c *Call) (any, error) { return Collect(c.Expr(0), c.Symbol(1)), nil }},
		{Name: "apart", Doc: "Partial fraction decomposition.", Params: []Param{expr("f"), optSymbol("x")},
			call: func(c *Call) (any, error) {
				x, err := generator(c, 1, "apart")
				if err != nil {
					return nil, err
				}
				return Apart(c.Expr(0), x)
			}},
		{Name: "gcd", Doc: "Polynomial greatest common divisor.", Params: []Param{expr("f"), expr("g")},
			call: func(c *Call) (any, error) { return Gcd(c.Expr(0), c.Expr(1)) }},
		{Name: "lcm", Doc: "Polynomial least common multiple.", Params: []Param{expr("f"), expr("g")},
			call: func(c *Call) (any, error) { return Lcm(c.Expr(0), c.Expr(1)) }},
		{Name: "div", Doc: "Polynomial division with remainder.", Params: []Param{expr("f"), expr("g"), optSymbol("gen")},
			call: func(c *Call) (any, error) {
				q, r, err := PolyDiv(c.Expr(0), c.Expr(1), c.Symbol(2))
				if err != nil {
					return nil, err
				}
				return TupleOf(q, r), nil
			}},
		{Name: "quo", Doc: "Polynomial quotient.", Params: []Param{expr("f"), expr("g"), optSymbol("gen")},
			call: func(c *Call) (any, error) {
				q, _, err := PolyDiv(c.Expr(0), c.Expr(1), c.Symbol(2))
				return q, err
			}},
		{Name: "rem", Doc: "Polynomial remainder.", Params: []Param{expr("f"), expr("g"), optSymbol("gen")},
			call: func(c *Call) (any, error) {
				_, r, err := PolyDiv(c.Expr(0), c.Expr(1), c.Symbol(2))
				return r, err
			}},
		{Name: "degree", Doc: "Degree in a generator.", Params: []Param{expr("f"), optSymbol("gen")},
			call: func(c *Call) (any, error) { return Degree(c.Expr(0), c.Symbol(1)) }},

		{Name: "N", Doc: "Numerical evaluation.", Params: []Param{expr("expr"), optInt("n")},
			call: func(c *Call) (any, error) { return Evalf(c.Expr(0)), nil }},
		{Name: "latex", Doc: "LaTeX rendering.", Params: []Param{expr("expr")},
			call: func(c *Call) (any, error) { return c.Expr(0).LaTeX(), nil }},
		{Name: "srepr", Doc: "Constructor-form rendering.", Params: []Param{expr("expr")},
			call: func(c *Call) (any, error) { return Srepr(c.Expr(0)), nil }},

		{Name: "laplace_transform", Doc: "Unilateral Laplace transform of f(t) into F(s).",
			Params:   []Param{expr("f"), {Name: "t", Kind: KindSymbol, MustOccur: true}, symbol("s")},
			Keywords: map[string]Kind{"noconds": KindBool},
			call: func(c *Call) (any, error) {
				F, a, err := LaplaceTransform(c.Expr(0), c.Symbol(1), c.Symbol(2))
				if err != nil {
					return nil, err
				}
				if c.KwBool("noconds", false) {
					return F, nil
				}
				return TupleOf(F, a, True), nil
			}},
		{Name: "inverse_laplace_transform", Doc: "Inverse Laplace transform of F(s) into f(t), t > 0.",
			Params:   []Param{expr("F"), {Name: "s", Kind: KindSymbol, MustOccur: true}, symbol("t")},
			Keywords: map[string]Kind{"noconds": KindBool},
			call: func(c *Call) (any, error) {
				return InverseLaplaceTransform(c.Expr(0), c.Symbol(1), c.Symbol(2))
			}},

		{Name: "gradient", Doc: "Gradient column vector.", Params: []Param{expr("f"), rest("symbols", false)},
			call: func(c *Call) (any, error) { return Gradient(c.Expr(0), c.RestSymbols()), nil }},
		{Name: "hessian", Doc: "Hessian matrix.", Params: []Param{expr("f"), rest("symbols", false)},
			call: func(c *Call) (any, error) { return Hessian(c.Expr(0), c.RestSymbols()), nil }},
		{Name: "laplacian", Doc: "Sum of unmixed second partials.", Params: []Param{expr("f"), rest("symbols", false)},
			call: func(c *Call) (any, error) { return Laplacian(c.Expr(0), c.RestSymbols()), nil }},
		{Name: "jacobian", Doc: "Jacobian matrix of a vector field.", Params: []Param{expr("F"), rest("symbols", false)},
			call: func(c *Call) (any, error) {
				fs, err := field(c.Expr(0))
				if err != nil {
					return nil, err
				}
				return Jacobian(fs, c.RestSymbols()), nil
			}},
		{Name: "divergence", Doc: "Divergence of a vector field.", Params: []Param{expr("F"), rest("symbols", false)},
			call: func(c *Call) (any, error) {
				fs, err := field(c.Expr(0))
				if err != nil {
					return nil, err
				}
				return Divergence(fs, c.RestSymbols())
			}},
		{Name: "curl", Doc: "Curl of a three-dimensional vector field.", Params: []Param{expr("F"), rest("symbols", false)},
			call: func(c *Call) (any, error) {
				fs, err := field(c.Expr(0))
				if err != nil {
					return nil, err
				}
				return Curl(fs, c.RestSymbols())
			}},
	}
	defined := map[string]bool{}
	for _, op := range ops {
		defined[op.Name] = true
	}
	for _, name := range FuncNames() {
		if defined[name] {
			continue
		}
		name := name
		ops = append(ops, unary(name, name+" function.", func(a Expr) Expr { return FuncOf(name, a) }))
	}
	return ops
}

func matrixAttrs() map[string]*Operation {
	self := []Param{expr("self")}
	return map[string]*Operation{
		"det":   {Name: "det", Doc: "Determinant.", Params: self, call: matrixMethod("det", (*Matrix).Det)},
		"inv":   {Name: "inv", Doc: "Inverse.", Params: self, call: matrixMethod("inv", (*Matrix).Inv)},
		"trace": {Name: "trace", Doc: "Trace.", Params: self, call: matrixMethod("trace", (*Matrix).Trace)},
		"transpose": {Name: "transpose", Doc: "Transpose.", Params: self,
			call: matrixMethod("transpose", func(m *Matrix) (Expr, error) { return m.T(), nil })},
		"T": {Name: "T", Doc: "Transpose.", Params: self,
			call: matrixMethod("T", func(m *Matrix) (Expr, error) { return m.T(), nil })},
		"rank": {Name: "rank", Doc: "Rank.", Params: self,
			call: matrixMethod("rank", func(m *Matrix) (Expr, error) { return N(int64(m.Rank())), nil })},
	}
}

func matrixMethod(name string, f func(*Matrix) (Expr, error)) func(*Call) (any, error) {
	return func(c *Call) (any, error) {
		m, ok := c.Expr(0).(*Matrix)
		if !ok {
			return nil, mathErrorf("%s: expected a Matrix, got %s", name, c.Expr(0))
		}
		return f(m)
	}
}

func matrixFrom(v any) (Expr, error) {
	e, err := toExpr(v)
	if err != nil {
		return nil, err
	}
	switch x := e.(type) {
	case *Matrix:
		return x, nil
	case *List:
		items := x.Items()
		if len(items) == 0 {
			return &Matrix{}, nil
		}
		if _, nested := items[0].(*List); !nested {
			return ColumnVector(items...), nil
		}
		rows := make([][]Expr, len(items))
		for i, it := range items {
			r, ok := it.(*List)
			if !ok {
				return nil, mathErrorf("Matrix: row %d is not a list", i)
			}
			rows[i] = r.Items()
		}
		return MatrixFromRows(rows)
	}
	return ColumnVector(e), nil
}

func filled(c *Call, v Expr) *Matrix {
	r := c.Int(0, 0)
	m := NewMatrix(r, c.Int(1, r))
	for i := range m.data {
		m.data[i] = v
	}
	return m
}

func field(e Expr) ([]Expr, error) {
	fs, ok := components(e)
	if !ok {
		return nil, mathErrorf("expected a vector field, got %s", e)
	}
	return fs, nil
}

func callSymbols(c *Call) (any, error) {
	names := strings.FieldsFunc(c.Args[0].(string), func(r rune) bool { return r == ',' || r == ' ' })
	out := make([]Expr, 0, len(names))
	for _, n := range names {
		if !IsIdentifier(n) {
			return nil, mathErrorf("invalid symbol name %q", n)
		}
		out = append(out, S(n))
	}
	if len(out) == 1 {
		return out[0], nil
	}
	return TupleOf(out...), nil
}

// generator returns the symbol argument at i, or the only free symbol of
// the first argument.
func generator(c *Call, i int, op string) (string, error) {
	if i >= 0 && c.Has(i) {
		return c.Symbol(i), nil
	}
	syms := FreeSymbols(c.Expr(0))
	switch len(syms) {
	case 1:
		return syms[0], nil
	case 0:
		return "x", nil
	}
	return "", mathErrorf("%s: specify a variable for multivariate %s", op, c.Expr(0))
}

func symbolName(v any) (string, bool) {
	switch x := v.(type) {
	case *Sym:
		return x.name, true
	case string:
		return x, IsIdentifier(x)
	}
	return "", false
}

func callDiff(c *Call) (any, error) {
	f := c.Expr(0)
	if len(c.Rest) == 0 {
		x, err := generator(c, -1, "diff")
		if err != nil {
			return nil, err
		}
		return f.Diff(x), nil
	}
	for i := 0; i < len(c.Rest); i++ {
		if l, ok := c.Rest[i].(*List); ok && l.Len() == 2 {
			// (x, n) pair
			x, ok1 := symbolName(l.items[0])
			n, err := convert(l.items[1], KindInteger)
			if !ok1 || err != nil {
				return nil, bindErrorf("diff", "invalid derivative pair %s", l)
			}
			f = DiffN(f, x, n.(int))
			continue
		}
		x, ok := symbolName(c.Rest[i])
		if !ok {
			return nil, bindErrorf("diff", "cannot differentiate with respect to %s", describe(c.Rest[i]))
		}
		n := 1
		if i+1 < len(c.Rest) {
			if k, err := convert(c.Rest[i+1], KindInteger); err == nil {
				n = k.(int)
				i++
			}
		}
		f = DiffN(f, x, n)
	}
	return f, nil
}

func callIntegrate(c *Call) (any, error) {
	f := c.Expr(0)
	if len(c.Rest) == 0 {
		x, err := generator(c, -1, "integrate")
		if err != nil {
			return nil, err
		}
		return Integrate(f, x)
	}
	var err error
	for _, lim := range c.Rest {
		if x, ok := symbolName(lim); ok {
			if f, err = Integrate(f, x); err != nil {
				return nil, err
			}
			continue
		}
		l, ok := lim.(*List)
		if !ok {
			return nil, bindErrorf("integrate", "invalid integration limits %s", describe(lim))
		}
		items := l.Items()
		x, ok := "", false
		if len(items) > 0 {
			x, ok = symbolName(items[0])
		}
		switch {
		case ok && len(items) == 1:
			f, err = Integrate(f, x)
		case ok && len(items) == 3:
			f, err = DefiniteIntegrate(f, x, items[1], items[2])
		default:
			return nil, bindErrorf("integrate", "invalid integration limits %s", l)
		}
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

func callSeries(c *Call) (any, error) {
	x, err := generator(c, 1, "series")
	if err != nil {
		return nil, err
	}
	x0 := Expr(zero)
	if v, ok := c.Kw["x0"].(Expr); ok {
		x0 = v
	}
	if c.Has(2) {
		x0 = c.Expr(2)
	}
	n := 6
	if v, ok := c.Kw["n"].(int); ok {
		n = v
	}
	n = c.Int(3, n)
	return Series(c.Expr(0), x, x0, n)
}

func callSolve(c *Call) (any, error) {
	asDicts := c.KwBool("dict", false)
	syms := c.RestSymbols()
	var eqs []Expr
	switch f := c.Args[0].(type) {
	case *List:
		eqs = f.Items()
	case Expr:
		eqs = []Expr{f}
	default:
		return nil, bindErrorf("solve", "cannot solve %s", describe(c.Args[0]))
	}
	if len(syms) == 0 {
		syms = FreeSymbols(ListOf(eqs...))
	}
	if len(syms) == 0 {
		return ListOf(), nil
	}
	if len(eqs) > 1 || len(syms) > 1 && len(eqs) == len(syms) {
		sol, err := SolveSystem(eqs, syms)
		if err != nil {
			return nil, err
		}
		if d, ok := sol.(*Dict); ok && asDicts {
			return ListOf(d), nil
		}
		return sol, nil
	}
	x := syms[0]
	sols, err := Solve(eqs[0], x)
	if err != nil {
		return nil, err
	}
	if !asDicts {
		return ListOf(sols...), nil
	}
	out := make([]Expr, len(sols))
	for i, s := range sols {
		d := &Dict{}
		d.Set(S(x), s)
		out[i] = d
	}
	return ListOf(out...), nil
}

func binomial(n, k Expr) Expr {
	nn, ok1 := n.(*Num)
	kk, ok2 := k.(*Num)
	if ok1 && ok2 && nn.IsInteger() && kk.IsInteger() && !nn.IsNegative() {
		if kk.IsNegative() || numCmp(kk, nn) > 0 {
			return zero
		}
		ni, ok1 := nn.Int64()
		ki, ok2 := kk.Int64()
		if ok1 && ok2 {
			return numFromInt(new(big.Int).Binomial(ni, ki))
		}
	}
	fact := func(e Expr) Expr { return FuncOf("factorial", e) }
	return Div(fact(n), MulOf(fact(k), fact(Sub(n, k))))
}
