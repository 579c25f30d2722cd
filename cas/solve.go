package cas

import (
	"math"
	"sort"
)

// ============================================================
// Equation solving
// ============================================================

// residual turns lhs = rhs into lhs - rhs.
func residual(e Expr) Expr {
	if eq, ok := e.(*Equation); ok {
		return Sub(eq.lhs, eq.rhs)
	}
	return e
}

// Solve returns the distinct solutions of e = 0 for x, sorted. e may be an
// Equation.
func Solve(e Expr, x string) ([]Expr, error) {
	e = residual(e)
	if b, ok := e.(*Bool); ok {
		if b.val {
			return nil, nil
		}
		return []Expr{}, nil
	}
	n, d := numerDenom(Together(e))
	n = Expand(n)
	if !Has(n, x) {
		return []Expr{}, nil
	}
	cands, err := solveNumerator(n, x, 0)
	if err != nil {
		return nil, err
	}
	var out []Expr
	for _, r := range cands {
		if Has(d, x) {
			dv := Cancel(d.Subs(x, r))
			if isZeroNumber(dv) || hasUndefined(dv) {
				continue
			}
		}
		if !checkRoot(e, x, r) {
			continue
		}
		out = appendUnique(out, r)
	}
	sortSolutions(out)
	return out, nil
}

// checkRoot rejects candidates that leave a closed residual clearly nonzero,
// such as spurious roots introduced by squaring.
func checkRoot(e Expr, x string, r Expr) bool {
	v := e.Subs(x, r)
	if hasUndefined(v) {
		return false
	}
	f, ok := evalFloat(v)
	if !ok {
		return true
	}
	scale := 1.0
	if rf, ok := evalFloat(r); ok {
		scale += math.Abs(rf)
	}
	return math.Abs(f) <= 1e-9*scale
}

func appendUnique(list []Expr, r Expr) []Expr {
	for _, x := range list {
		if x.Equal(r) {
			return list
		}
	}
	return append(list, r)
}

// sortSolutions orders real numeric roots by value, then everything else by
// its printed form.
func sortSolutions(sols []Expr) {
	sort.SliceStable(sols, func(i, j int) bool {
		a, aok := evalFloat(sols[i])
		b, bok := evalFloat(sols[j])
		switch {
		case aok && bok:
			return a < b
		case aok != bok:
			return aok
		}
		return swapSigns(sols[i].String()) < swapSigns(sols[j].String())
	})
}

const maxSolveDepth = 4

func solveNumerator(n Expr, x string, depth int) ([]Expr, error) {
	if depth > maxSolveDepth {
		return nil, noClosedForm("cannot solve %s = 0 for %s", n, x)
	}
	if p, ok := polyIn(n, x); ok {
		return polySolve(p, S(x))
	}
	if cs, ok := coeffsIn(n, x); ok && len(cs) <= 3 {
		return symbolicPolySolve(cs)
	}
	// a product vanishes where any factor does
	if m, ok := Factor(n).(*Mul); ok {
		var dep []Expr
		for _, f := range m.factors {
			if !Has(f, x) {
				continue
			}
			if p, ok := f.(*Pow); ok && numberSign(p.exp) > 0 {
				f = p.base
			}
			dep = append(dep, f)
		}
		if len(dep) > 1 || (len(dep) == 1 && !Expand(dep[0]).Equal(n)) {
			var out []Expr
			for _, f := range dep {
				rs, err := solveNumerator(Expand(f), x, depth+1)
				if err != nil {
					return nil, err
				}
				out = append(out, rs...)
			}
			return out, nil
		}
	}
	if rs, ok := solveByGenerator(n, x, depth); ok {
		return rs, nil
	}
	if rs, ok := isolate(n, zero, x); ok {
		return rs, nil
	}
	return nil, noClosedForm("cannot solve %s = 0 for %s", n, x)
}

// polySolve finds roots of a polynomial with rational coefficients: rational
// roots first, then the quadratic formula and biquadratic substitution on
// the deflated remainder.
func polySolve(p poly, x Expr) ([]Expr, error) {
	if p.deg() < 1 {
		return nil, nil
	}
	var out []Expr
	_, rest := p.primitive()
	for _, r := range rest.rationalRoots() {
		out = append(out, r)
		_, rest = rest.multiplicity(r)
	}
	switch rest.deg() {
	case -1, 0:
		return out, nil
	case 1, 2:
		cs := make([]Expr, len(rest))
		for i, c := range rest {
			cs[i] = c
		}
		rs, err := symbolicPolySolve(cs)
		if err != nil {
			return nil, err
		}
		return append(out, rs...), nil
	case 4:
		if rest.coeff(1).IsZero() && rest.coeff(3).IsZero() {
			ys, err := symbolicPolySolve([]Expr{rest[0], rest[2], rest[4]})
			if err != nil {
				return nil, err
			}
			for _, y := range ys {
				s := Sqrt(y)
				out = append(out, Neg(s), s)
			}
			return out, nil
		}
	}
	return nil, noClosedForm("cannot solve %s = 0 in radicals", rest.expr(x))
}

// symbolicPolySolve solves c0 + c1*x + c2*x**2 = 0 for coefficient expressions.
func symbolicPolySolve(cs []Expr) ([]Expr, error) {
	for len(cs) > 0 && isZeroNumber(Expand(cs[len(cs)-1])) {
		cs = cs[:len(cs)-1]
	}
	switch len(cs) {
	case 0, 1:
		return nil, nil
	case 2:
		return []Expr{Cancel(Neg(Div(cs[0], cs[1])))}, nil
	case 3:
		a, b, c := cs[2], cs[1], cs[0]
		disc := Expand(Sub(PowOf(b, N(2)), MulOf(N(4), a, c)))
		s := Sqrt(disc)
		twoA := MulOf(N(2), a)
		r1 := Expand(Div(Sub(Neg(b), s), twoA))
		r2 := Expand(Div(AddOf(Neg(b), s), twoA))
		if r1.Equal(r2) {
			return []Expr{r1}, nil
		}
		return []Expr{r1, r2}, nil
	}
	return nil, noClosedForm("cannot solve a degree %d polynomial with symbolic coefficients", len(cs)-1)
}

// solveByGenerator treats a non-symbol generator such as exp(x) or sin(x) as
// the unknown, solves the polynomial, and inverts the generator.
func solveByGenerator(n Expr, x string, depth int) ([]Expr, bool) {
	for _, g := range generators(n) {
		if _, isSym := g.(*Sym); isSym || !Has(g, x) {
			continue
		}
		p, ok := toPoly(n, g)
		if !ok || p.deg() < 1 {
			continue
		}
		vals, err := polySolve(p, g)
		if err != nil {
			continue
		}
		var out []Expr
		for _, v := range vals {
			rs, ok := isolate(g, v, x)
			if !ok {
				return nil, false
			}
			out = append(out, rs...)
		}
		return out, true
	}
	return nil, false
}

// isolate inverts lhs = rhs for x when x occurs in a single branch of lhs.
func isolate(lhs, rhs Expr, x string) ([]Expr, bool) {
	if s, ok := lhs.(*Sym); ok && s.name == x {
		return []Expr{rhs}, true
	}
	switch v := lhs.(type) {
	case *Add:
		var dep Expr
		rest := []Expr{rhs}
		for _, t := range v.terms {
			if Has(t, x) {
				if dep != nil {
					return nil, false
				}
				dep = t
				continue
			}
			rest = append(rest, Neg(t))
		}
		if dep == nil {
			return nil, false
		}
		return isolate(dep, AddOf(rest...), x)
	case *Mul:
		indep, dep := splitDependent(v, x)
		if !isOneNumber(indep) {
			return isolate(dep, Div(rhs, indep), x)
		}
		return nil, false
	case *Pow:
		switch {
		case !Has(v.exp, x):
			if n, ok := v.exp.(*Num); ok && n.IsInteger() && n.IsPositive() && numDiv(n, N(2)).IsInteger() {
				r := PowOf(rhs, numRecip(n))
				a, _ := isolate(v.base, Neg(r), x)
				b, _ := isolate(v.base, r, x)
				return append(a, b...), len(a)+len(b) > 0
			}
			return isolate(v.base, PowOf(rhs, PowOf(v.exp, minusOne)), x)
		case !Has(v.base, x):
			return isolate(v.exp, Div(Log(rhs), Log(v.base)), x)
		}
	case *Func:
		var branches []Expr
		switch v.name {
		case "exp":
			branches = []Expr{Log(rhs)}
		case "log":
			branches = []Expr{Exp(rhs)}
		case "sin":
			a := Asin(rhs)
			branches = []Expr{a, Sub(Pi, a)}
		case "cos":
			a := Acos(rhs)
			branches = []Expr{a, Sub(MulOf(N(2), Pi), a)}
		case "tan":
			branches = []Expr{Atan(rhs)}
		case "asin":
			branches = []Expr{Sin(rhs)}
		case "acos":
			branches = []Expr{Cos(rhs)}
		case "atan":
			branches = []Expr{Tan(rhs)}
		case "sinh":
			branches = []Expr{Log(AddOf(rhs, Sqrt(AddOf(PowOf(rhs, N(2)), one))))}
		default:
			return nil, false
		}
		var out []Expr
		for _, b := range branches {
			rs, ok := isolate(v.arg, b, x)
			if !ok {
				return nil, false
			}
			for _, r := range rs {
				out = appendUnique(out, r)
			}
		}
		return out, true
	}
	return nil, false
}

// ------------------------------------------------------------
// systems
// ------------------------------------------------------------

// SolveSystem solves simultaneous equations. A linear system with a unique or
// parametric solution returns a Dict; otherwise the result is a List of
// Dicts, one per solution branch.
func SolveSystem(eqs []Expr, syms []string) (Expr, error) {
	res := make([]Expr, 0, len(eqs))
	for _, e := range eqs {
		r := residual(e)
		if b, ok := r.(*Bool); ok {
			if !b.val {
				return ListOf(), nil
			}
			continue
		}
		res = append(res, Expand(r))
	}
	if len(syms) == 0 {
		seen := map[string]bool{}
		for _, r := range res {
			for _, s := range FreeSymbols(r) {
				if !seen[s] {
					seen[s] = true
					syms = append(syms, s)
				}
			}
		}
		sort.Strings(syms)
	}
	if isLinearSystem(res, syms) {
		return solveLinearSystem(res, syms)
	}
	branches, err := solveBySubstitution(res, syms)
	if err != nil {
		return nil, err
	}
	out := make([]Expr, len(branches))
	for i, b := range branches {
		out[i] = b
	}
	return ListOf(out...), nil
}

func isLinearSystem(res []Expr, syms []string) bool {
	for _, r := range res {
		for _, t := range sumTerms(r) {
			deg := 0
			for _, s := range syms {
				cs, ok := coeffsIn(t, s)
				if !ok || len(cs) > 2 {
					return false
				}
				if len(cs) == 2 && !isZeroNumber(cs[1]) {
					deg++
				}
			}
			if deg > 1 {
				return false
			}
		}
	}
	return true
}

func solveLinearSystem(res []Expr, syms []string) (Expr, error) {
	m := NewMatrix(len(res), len(syms)+1)
	for i, r := range res {
		rest := r
		for j, s := range syms {
			cs, _ := coeffsIn(r, s)
			c := Expr(zero)
			if len(cs) == 2 {
				c = cs[1]
			}
			m.set(i, j, c)
			rest = Sub(rest, MulOf(c, S(s)))
		}
		m.set(i, len(syms), Neg(Expand(rest)))
	}
	pivots, red := rref(m)
	for _, p := range pivots {
		if p == len(syms) {
			return ListOf(), nil
		}
	}
	out := &Dict{}
	for i, p := range pivots {
		v := red.At(i, len(syms))
		for j := p + 1; j < len(syms); j++ {
			if c := red.At(i, j); !isZeroNumber(c) {
				v = Sub(v, MulOf(c, S(syms[j])))
			}
		}
		out.Set(S(syms[p]), Cancel(v))
	}
	return out, nil
}

// solveBySubstitution eliminates one unknown at a time.
func solveBySubstitution(res []Expr, syms []string) ([]*Dict, error) {
	if len(res) == 0 {
		return []*Dict{{}}, nil
	}
	for i, r := range res {
		for si, s := range syms {
			if !Has(r, s) {
				continue
			}
			vals, err := Solve(r, s)
			if err != nil {
				continue
			}
			rest := append(append([]Expr(nil), res[:i]...), res[i+1:]...)
			others := append(append([]string(nil), syms[:si]...), syms[si+1:]...)
			var out []*Dict
			for _, v := range vals {
				sub := make([]Expr, 0, len(rest))
				for _, q := range rest {
					if qq := Expand(q.Subs(s, v)); !isZeroNumber(qq) {
						sub = append(sub, qq)
					}
				}
				tails, err := solveBySubstitution(sub, others)
				if err != nil {
					return nil, err
				}
				for _, t := range tails {
					d := &Dict{}
					back := map[string]Expr{}
					for k, key := range t.keys {
						back[key.(*Sym).name] = t.values[k]
					}
					d.Set(S(s), Cancel(SubsMap(v, back)))
					for k, key := range t.keys {
						d.Set(key, t.values[k])
					}
					out = append(out, d)
				}
			}
			return out, nil
		}
	}
	for _, r := range res {
		if !isZeroNumber(r) {
			return nil, nil
		}
	}
	return []*Dict{{}}, nil
}

// ------------------------------------------------------------
// roots with multiplicity
// ------------------------------------------------------------

// Roots returns a Dict mapping each root of the polynomial e in x to its
// multiplicity.
func Roots(e Expr, x string) (*Dict, error) {
	e = residual(e)
	if x == "" {
		syms := FreeSymbols(e)
		if len(syms) != 1 {
			return nil, mathErrorf("roots: a generator is required for %s", e)
		}
		x = syms[0]
	}
	out := &Dict{}
	p, ok := polyIn(e, x)
	if !ok {
		cs, ok := coeffsIn(e, x)
		if !ok {
			return nil, mathErrorf("roots: %s is not a polynomial in %s", e, x)
		}
		rs, err := symbolicPolySolve(cs)
		if err != nil {
			return nil, err
		}
		for _, r := range rs {
			out.Set(r, one)
		}
		return out, nil
	}
	rest := p
	for _, r := range p.rationalRoots() {
		var m int
		m, rest = rest.multiplicity(r)
		out.Set(r, N(int64(m)))
	}
	if rest.deg() >= 1 {
		base, m := radical(rest)
		rs, err := polySolve(base, S(x))
		if err == nil {
			for _, r := range rs {
				out.Set(r, N(int64(m)))
			}
		}
	}
	return out, nil
}
