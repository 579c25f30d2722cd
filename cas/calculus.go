package cas

import (
	"fmt"
	"math"
	"sort"
)

// ============================================================
// Differentiation
// ============================================================

// DiffN returns the n-th derivative of e with respect to x.
func DiffN(e Expr, x string, n int) Expr {
	for i := 0; i < n; i++ {
		e = e.Diff(x)
	}
	return e
}

// ============================================================
// Integration (rule-based symbolic + numerical)
// ============================================================

const maxIntegrateDepth = 6

// Integrate returns an antiderivative of e with respect to x, without the
// constant of integration. ErrNoClosedForm is wrapped when no rule applies.
func Integrate(e Expr, x string) (Expr, error) {
	switch e.(type) {
	case *Matrix, *List:
		return mapArgsErr(e, func(c Expr) (Expr, error) { return Integrate(c, x) })
	}
	if r, ok := integrate(e, x, 0); ok {
		return r, nil
	}
	return nil, noClosedForm("cannot integrate %s with respect to %s", e, x)
}

// mapArgsErr is mapArgs for fallible element functions.
func mapArgsErr(e Expr, f func(Expr) (Expr, error)) (Expr, error) {
	var first error
	out := mapArgs(e, func(c Expr) Expr {
		if first != nil {
			return c
		}
		r, err := f(c)
		if err != nil {
			first = err
			return c
		}
		return r
	})
	return out, first
}

// linear reports a, b with e == a*x + b, a nonzero and free of x.
func linear(e Expr, x string) (Expr, Expr, bool) {
	cs, ok := coeffsIn(e, x)
	if !ok || len(cs) != 2 || isZeroNumber(cs[1]) {
		return nil, nil, false
	}
	return cs[1], cs[0], true
}

// splitDependent separates the factors of m that do not involve x.
func splitDependent(m *Mul, x string) (indep, dep Expr) {
	in := []Expr{m.coeff}
	var d []Expr
	for _, f := range m.factors {
		if Has(f, x) {
			d = append(d, f)
		} else {
			in = append(in, f)
		}
	}
	return MulOf(in...), MulOf(d...)
}

func integrate(e Expr, x string, depth int) (Expr, bool) {
	if depth > maxIntegrateDepth {
		return nil, false
	}
	sx := S(x)
	if !Has(e, x) {
		return MulOf(e, sx), true
	}
	switch v := e.(type) {
	case *Sym:
		return MulOf(F(1, 2), PowOf(sx, N(2))), true
	case *Add:
		out := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			r, ok := integrate(t, x, depth)
			if !ok {
				return nil, false
			}
			out[i] = r
		}
		return AddOf(out...), true
	case *Mul:
		if indep, dep := splitDependent(v, x); !isOneNumber(indep) {
			r, ok := integrate(dep, x, depth)
			if !ok {
				return nil, false
			}
			return MulOf(indep, r), true
		}
	}
	rules := []func(Expr, string, int) (Expr, bool){
		integrateTable,
		integrateRational,
		integrateTrigPower,
		integrateExpTrig,
		integrateByParts,
		integrateSubstitution,
	}
	for _, rule := range rules {
		if r, ok := rule(e, x, depth); ok {
			return r, true
		}
	}
	if ex := Expand(e); !ex.Equal(e) {
		return integrate(ex, x, depth+1)
	}
	return nil, false
}

// integrateTable covers powers and elementary functions of a linear argument.
func integrateTable(e Expr, x string, _ int) (Expr, bool) {
	switch v := e.(type) {
	case *Pow:
		if !Has(v.exp, x) {
			if a, _, ok := linear(v.base, x); ok {
				if v.exp.Equal(minusOne) {
					return Div(Log(v.base), a), true
				}
				n1 := AddOf(v.exp, one)
				return Div(PowOf(v.base, n1), MulOf(a, n1)), true
			}
			// sec(u)**2
			if f, ok := v.base.(*Func); ok && f.name == "cos" && v.exp.Equal(N(-2)) {
				if a, _, ok := linear(f.arg, x); ok {
					return Div(Tan(f.arg), a), true
				}
			}
		}
		if !Has(v.base, x) {
			if a, _, ok := linear(v.exp, x); ok {
				return Div(e, MulOf(a, Log(v.base))), true
			}
		}
	case *Func:
		a, _, ok := linear(v.arg, x)
		if !ok {
			return nil, false
		}
		u := v.arg
		var r Expr
		switch v.name {
		case "sin":
			r = Neg(Cos(u))
		case "cos":
			r = Sin(u)
		case "tan":
			r = Neg(Log(Cos(u)))
		case "exp":
			r = Exp(u)
		case "sinh":
			r = FuncOf("cosh", u)
		case "cosh":
			r = FuncOf("sinh", u)
		case "tanh":
			r = Log(FuncOf("cosh", u))
		case "log":
			r = Sub(MulOf(u, Log(u)), u)
		case "asin":
			r = AddOf(MulOf(u, Asin(u)), Sqrt(Sub(one, PowOf(u, N(2)))))
		case "acos":
			r = Sub(MulOf(u, Acos(u)), Sqrt(Sub(one, PowOf(u, N(2)))))
		case "atan":
			r = Sub(MulOf(u, Atan(u)), MulOf(F(1, 2), Log(AddOf(PowOf(u, N(2)), one))))
		default:
			return nil, false
		}
		return Div(r, a), true
	}
	return nil, false
}

// integrateRational integrates P/Q with rational coefficients through partial
// fractions: logarithms for linear factors and atan for irreducible quadratics.
func integrateRational(e Expr, x string, _ int) (Expr, bool) {
	n, d := numerDenom(e)
	pn, ok1 := polyIn(n, x)
	pd, ok2 := polyIn(d, x)
	if !ok1 || !ok2 || pd.deg() < 1 {
		return nil, false
	}
	sx := S(x)
	q, terms := partialFractions(pn, pd)
	out := []Expr{polyIntegral(q).expr(sx)}
	for _, t := range terms {
		u := t.base.expr(sx)
		switch t.base.deg() {
		case 1:
			c := numDiv(t.num.coeff(0), t.base[1])
			if t.k == 1 {
				out = append(out, MulOf(c, Log(u)))
				continue
			}
			k1 := N(int64(1 - t.k))
			out = append(out, MulOf(numDiv(c, k1), PowOf(u, k1)))
		case 2:
			if t.k != 1 {
				return nil, false
			}
			A, B, C := t.base[2], t.base[1], t.base[0]
			alpha, beta := t.num.coeff(1), t.num.coeff(0)
			twoA := numMul(N(2), A)
			if !alpha.IsZero() {
				out = append(out, MulOf(numDiv(alpha, twoA), Log(u)))
			}
			g := numSub(beta, numDiv(numMul(alpha, B), twoA))
			if g.IsZero() {
				continue
			}
			D := numSub(numMul(N(4), numMul(A, C)), numMul(B, B))
			lin := polyLinear(twoA, B).expr(sx)
			if D.IsPositive() {
				root := Sqrt(D)
				out = append(out, MulOf(g, N(2), PowOf(root, minusOne), Atan(Div(lin, root))))
			} else {
				root := Sqrt(numNeg(D))
				out = append(out, MulOf(g, PowOf(root, minusOne), Log(Div(Sub(lin, root), AddOf(lin, root)))))
			}
		default:
			return nil, false
		}
	}
	return AddOf(out...), true
}

func polyIntegral(p poly) poly {
	if p.isZero() {
		return nil
	}
	out := make(poly, len(p)+1)
	out[0] = zero
	for i, c := range p {
		out[i+1] = numDiv(c, N(int64(i+1)))
	}
	return out.trim()
}

// integrateTrigPower reduces sin(u)**n and cos(u)**n.
func integrateTrigPower(e Expr, x string, depth int) (Expr, bool) {
	p, ok := e.(*Pow)
	if !ok {
		return nil, false
	}
	f, ok := p.base.(*Func)
	n, nok := p.exp.(*Num)
	if !ok || !nok || !n.IsInteger() || numCmp(n, N(2)) < 0 || (f.name != "sin" && f.name != "cos") {
		return nil, false
	}
	a, _, ok := linear(f.arg, x)
	if !ok {
		return nil, false
	}
	u := f.arg
	lower, ok := integrate(PowOf(f, numSub(n, N(2))), x, depth+1)
	if !ok {
		return nil, false
	}
	tail := MulOf(numDiv(numSub(n, one), n), lower)
	var head Expr
	if f.name == "sin" {
		head = Neg(MulOf(PowOf(Sin(u), numSub(n, one)), Cos(u)))
	} else {
		head = MulOf(PowOf(Cos(u), numSub(n, one)), Sin(u))
	}
	return AddOf(Div(head, MulOf(n, a)), tail), true
}

// integrateExpTrig handles exp(a*x+b) * sin(c*x+d) and the cosine variant.
func integrateExpTrig(e Expr, x string, _ int) (Expr, bool) {
	m, ok := e.(*Mul)
	if !ok || len(m.factors) != 2 || !isOneNumber(m.coeff) {
		return nil, false
	}
	var ex, tr *Func
	for _, f := range m.factors {
		fn, ok := f.(*Func)
		if !ok {
			return nil, false
		}
		switch fn.name {
		case "exp":
			ex = fn
		case "sin", "cos":
			tr = fn
		}
	}
	if ex == nil || tr == nil {
		return nil, false
	}
	al, _, ok1 := linear(ex.arg, x)
	ga, _, ok2 := linear(tr.arg, x)
	if !ok1 || !ok2 {
		return nil, false
	}
	den := AddOf(PowOf(al, N(2)), PowOf(ga, N(2)))
	s, c := Sin(tr.arg), Cos(tr.arg)
	var inner Expr
	if tr.name == "sin" {
		inner = Sub(MulOf(al, s), MulOf(ga, c))
	} else {
		inner = AddOf(MulOf(al, c), MulOf(ga, s))
	}
	return Expand(Div(MulOf(Exp(ex.arg), inner), den)), true
}

// integrateByParts handles polynomial * {exp, sin, cos, sinh, cosh} by
// differentiating the polynomial, and polynomial * {log, atan, asin} by
// differentiating the transcendental factor.
func integrateByParts(e Expr, x string, depth int) (Expr, bool) {
	factors := []Expr{e}
	if m, ok := e.(*Mul); ok {
		if !isOneNumber(m.coeff) {
			return nil, false
		}
		factors = m.factors
	}
	var polyFactors []Expr
	var g *Func
	for _, f := range factors {
		if fn, ok := f.(*Func); ok && g == nil {
			g = fn
			continue
		}
		polyFactors = append(polyFactors, f)
	}
	if g == nil {
		return nil, false
	}
	sx := S(x)
	P := MulOf(polyFactors...)
	pp, ok := polyIn(P, x)
	if !ok || pp.deg() < 0 {
		return nil, false
	}
	if _, _, ok := linear(g.arg, x); !ok {
		return nil, false
	}
	switch g.name {
	case "exp", "sin", "cos", "sinh", "cosh":
		if pp.deg() < 1 {
			return nil, false
		}
		G, ok := integrateTable(g, x, depth)
		if !ok {
			return nil, false
		}
		rest, ok := integrate(Expand(MulOf(pp.deriv().expr(sx), G)), x, depth+1)
		if !ok {
			return nil, false
		}
		return Expand(Sub(MulOf(P, G), rest)), true
	case "log", "atan", "asin":
		Q := polyIntegral(pp).expr(sx)
		rest, ok := integrate(MulOf(Q, g.Diff(x)), x, depth+1)
		if !ok {
			return nil, false
		}
		return Sub(mulNoDistribute(Q, g), rest), true
	}
	return nil, false
}

// integrateSubstitution tries u-substitution for every candidate inner
// expression u whose derivative divides the integrand.
func integrateSubstitution(e Expr, x string, depth int) (Expr, bool) {
	t := fmt.Sprintf("_u%d", depth)
	st := S(t)
	var cands []Expr
	seen := map[string]bool{}
	walk(e, func(c Expr) bool {
		var inner []Expr
		switch v := c.(type) {
		case *Func:
			inner = []Expr{v, v.arg}
		case *Pow:
			inner = []Expr{v.base}
		}
		for _, u := range inner {
			if _, isSym := u.(*Sym); isSym || !Has(u, x) || seen[u.String()] {
				continue
			}
			seen[u.String()] = true
			cands = append(cands, u)
		}
		return true
	})
	for _, u := range cands {
		du := u.Diff(x)
		if isZeroNumber(du) {
			continue
		}
		q := replace(Div(e, du), u, st)
		if Has(q, x) {
			q = replace(Cancel(Div(e, du)), u, st)
		}
		if Has(q, x) {
			continue
		}
		if r, ok := integrate(q, t, depth+1); ok {
			return r.Subs(t, u), true
		}
	}
	return nil, false
}

// ------------------------------------------------------------
// definite integrals
// ------------------------------------------------------------

// DefiniteIntegrate evaluates the integral of e over [a, b]. Bounds may be
// infinite. When no antiderivative is found and the integrand is closed, the
// value is computed numerically by composite Gauss-Legendre quadrature.
func DefiniteIntegrate(e Expr, x string, a, b Expr) (Expr, error) {
	poles := interiorPoles(e, x, a, b)
	F, err := Integrate(e, x)
	if len(poles) > 0 {
		if err != nil {
			return nil, mathErrorf("integrand %s is singular at %s = %s inside [%s, %s]", e, x, poles[0], a, b)
		}
		return acrossPoles(e, F, x, a, b, poles)
	}
	if err == nil {
		hi, errHi := boundValue(F, x, b, "-")
		lo, errLo := boundValue(F, x, a, "+")
		if errHi == nil && errLo == nil {
			return Sub(hi, lo), nil
		}
	}
	fa, okA := evalFloat(a)
	fb, okB := evalFloat(b)
	closed := true
	for _, s := range FreeSymbols(e) {
		if s != x {
			closed = false
		}
	}
	if !closed || !okA || !okB || math.IsInf(fa, 0) || math.IsInf(fb, 0) {
		if err != nil {
			return nil, err
		}
		return nil, noClosedForm("cannot evaluate the integral of %s over [%s, %s]", e, a, b)
	}
	v, ok := gaussLegendre(e, x, fa, fb, 32)
	if !ok {
		return nil, mathErrorf("integrand %s is not finite on [%s, %s]", e, a, b)
	}
	return NFloat(v), nil
}

// interiorPoles returns the real points strictly between a and b where the
// denominator of e vanishes and e has no finite limit, in ascending order.
func interiorPoles(e Expr, x string, a, b Expr) []Expr {
	lo, okA := evalFloat(a)
	hi, okB := evalFloat(b)
	if !okA || !okB {
		return nil
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	d := Denom(Together(e))
	if !Has(d, x) {
		return nil
	}
	roots, err := Solve(d, x)
	if err != nil {
		return nil
	}
	type pole struct {
		at  Expr
		val float64
	}
	var out []pole
	for _, r := range roots {
		v, ok := evalFloat(r)
		if !ok || v <= lo || v >= hi {
			continue
		}
		if l, err := Limit(e, x, r, "+-"); err == nil && IsFinite(l) && !hasUndefined(l) {
			continue
		}
		out = append(out, pole{at: r, val: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].val < out[j].val })
	pts := make([]Expr, len(out))
	for i, p := range out {
		pts[i] = p.at
	}
	return pts
}

// acrossPoles sums the antiderivative over the pieces between poles. The
// integral converges only when every one-sided limit at a pole is finite.
func acrossPoles(e, F Expr, x string, a, b Expr, poles []Expr) (Expr, error) {
	fa, _ := evalFloat(a)
	fb, _ := evalFloat(b)
	if fa > fb {
		v, err := acrossPoles(e, F, x, b, a, poles)
		if err != nil {
			return nil, err
		}
		return Neg(v), nil
	}
	pts := append(append([]Expr{a}, poles...), b)
	total := Expr(zero)
	for i := 0; i+1 < len(pts); i++ {
		hi, errHi := boundValue(F, x, pts[i+1], "-")
		lo, errLo := boundValue(F, x, pts[i], "+")
		if errHi != nil || errLo != nil || !IsFinite(hi) || !IsFinite(lo) || hasUndefined(hi) || hasUndefined(lo) {
			return nil, mathErrorf("the integral of %s over [%s, %s] diverges", e, a, b)
		}
		total = AddOf(total, Sub(hi, lo))
	}
	return total, nil
}

func boundValue(F Expr, x string, p Expr, dir string) (Expr, error) {
	if !isInfinity(p) {
		v := F.Subs(x, p)
		if IsFinite(v) && !hasUndefined(v) {
			return v, nil
		}
	}
	return Limit(F, x, p, dir)
}

var (
	glNodes = []float64{
		-0.9739065285171717, -0.8650633666889845, -0.6794095682990244,
		-0.4333953941292472, -0.1488743389816312, 0.1488743389816312,
		0.4333953941292472, 0.6794095682990244, 0.8650633666889845, 0.9739065285171717,
	}
	glWeights = []float64{
		0.0666713443086881, 0.1494513491505806, 0.2190863625159820,
		0.2692667193099963, 0.2955242247147529, 0.2955242247147529,
		0.2692667193099963, 0.2190863625159820, 0.1494513491505806, 0.0666713443086881,
	}
)

// gaussLegendre applies the 10-point rule on each of panels subintervals.
func gaussLegendre(e Expr, x string, a, b float64, panels int) (float64, bool) {
	width := (b - a) / float64(panels)
	sum := 0.0
	for p := 0; p < panels; p++ {
		lo := a + float64(p)*width
		mid, half := lo+width/2, width/2
		for i, t := range glNodes {
			f, ok := evalAt(e, x, mid+half*t)
			if !ok || math.IsInf(f, 0) {
				return 0, false
			}
			sum += glWeights[i] * half * f
		}
	}
	return sum, true
}

// ============================================================
// Limits
// ============================================================

const maxLimitDepth = 8

// Limit computes the limit of e as x approaches x0. dir is "+" (the default
// when empty), "-" or "+-"; a two-sided limit fails when the sides disagree.
// Substitution is tried first, then quotient rewriting with L'Hopital's rule,
// exponential forms, and finally a Taylor expansion.
func Limit(e Expr, x string, x0 Expr, dir string) (Expr, error) {
	switch e.(type) {
	case *Matrix, *List:
		return mapArgsErr(e, func(c Expr) (Expr, error) { return Limit(c, x, x0, dir) })
	}
	switch dir {
	case "", "+", "-":
	case "+-":
		if isInfinity(x0) {
			return Limit(e, x, x0, "")
		}
		left, err := Limit(e, x, x0, "-")
		if err != nil {
			return nil, err
		}
		right, err := Limit(e, x, x0, "+")
		if err != nil {
			return nil, err
		}
		if !left.Equal(right) {
			return nil, mathErrorf("the limit does not exist since left hand limit = %s and right hand limit = %s", left, right)
		}
		return right, nil
	default:
		return nil, mathErrorf("direction must be one of '+', '-' or '+-', got %q", dir)
	}
	side := 1
	switch {
	case x0 == Expr(Infinity):
		side = -1
	case x0 == Expr(NegInfinity):
		side = 1
	case dir == "-":
		side = -1
	}
	l := &limiter{x: x, x0: x0, side: side}
	if r, ok := l.limit(e, 0); ok {
		return r, nil
	}
	if !isInfinity(x0) {
		if s, err := Series(e, x, x0, 4); err == nil {
			if v := RemoveO(s).Subs(x, x0); IsFinite(v) && !hasUndefined(v) {
				return v, nil
			}
		}
	}
	return nil, noClosedForm("cannot compute the limit of %s as %s -> %s", e, x, x0)
}

// limiter evaluates one-sided limits; side is +1 when x approaches x0 from
// above and -1 from below.
type limiter struct {
	x    string
	x0   Expr
	side int
}

func determinate(v Expr) bool { return !hasUndefined(v) && (IsFinite(v) || isInfinity(v)) }

func (l *limiter) limit(f Expr, depth int) (Expr, bool) {
	if depth > maxLimitDepth {
		return nil, false
	}
	if !Has(f, l.x) {
		return f, true
	}
	if v, ok := l.direct(f); ok {
		return v, true
	}
	switch v := f.(type) {
	case *Add:
		return l.sum(v, depth)
	case *Mul:
		return l.product(v, depth)
	case *Pow:
		return l.power(v, depth)
	case *Func:
		return l.function(v, depth)
	}
	return nil, false
}

// direct substitutes x0, accepting signed infinities only at infinite points.
func (l *limiter) direct(f Expr) (Expr, bool) {
	v := f.Subs(l.x, l.x0)
	if hasUndefined(v) {
		return nil, false
	}
	if IsFinite(v) {
		return v, true
	}
	if isInfinity(v) && isInfinity(l.x0) {
		return v, true
	}
	return nil, false
}

func (l *limiter) sum(a *Add, depth int) (Expr, bool) {
	lims := make([]Expr, len(a.terms))
	pos, neg := false, false
	for i, t := range a.terms {
		r, ok := l.limit(t, depth+1)
		if !ok {
			return l.combined(a, depth)
		}
		lims[i] = r
		pos = pos || r == Expr(Infinity)
		neg = neg || r == Expr(NegInfinity)
	}
	if pos && neg {
		if isInfinity(l.x0) {
			if p, ok := polyIn(a, l.x); ok {
				lead := MulOf(p.lead(), PowOf(S(l.x), N(int64(p.deg()))))
				return l.limit(lead, depth+1)
			}
		}
		return l.combined(a, depth)
	}
	r := AddOf(lims...)
	return r, determinate(r)
}

// combined retries a sum over a common denominator.
func (l *limiter) combined(a *Add, depth int) (Expr, bool) {
	g := Together(a)
	if _, ok := g.(*Add); ok || g.Equal(a) {
		return nil, false
	}
	return l.limit(g, depth+1)
}

func (l *limiter) product(m *Mul, depth int) (Expr, bool) {
	n, d := numerDenom(m)
	if Has(d, l.x) {
		return l.quotient(n, d, depth)
	}
	var zeros, infs, others []Expr
	lims := []Expr{}
	for _, f := range append([]Expr{m.coeff}, m.factors...) {
		r, ok := l.limit(f, depth+1)
		if !ok {
			return nil, false
		}
		switch {
		case isZeroNumber(r) && Has(f, l.x):
			zeros = append(zeros, f)
		case isInfinity(r):
			infs = append(infs, f)
		default:
			others = append(others, f)
		}
		lims = append(lims, r)
	}
	if len(zeros) > 0 && len(infs) > 0 {
		// 0 * oo: keep the transcendental factors on top
		var top, bottom []Expr
		for _, f := range append(zeros, infs...) {
			if _, ok := polyIn(f, l.x); ok {
				bottom = append(bottom, PowOf(f, minusOne))
			} else {
				top = append(top, f)
			}
		}
		if len(top) == 0 || len(bottom) == 0 {
			top, bottom = zeros, nil
			for _, f := range infs {
				bottom = append(bottom, PowOf(f, minusOne))
			}
		}
		return l.quotient(MulOf(append(others, top...)...), MulOf(bottom...), depth)
	}
	r := MulOf(lims...)
	return r, determinate(r)
}

// quotient evaluates lim n/d, applying L'Hopital's rule to 0/0 and oo/oo.
func (l *limiter) quotient(n, d Expr, depth int) (Expr, bool) {
	ln, okn := l.limit(n, depth+1)
	ld, okd := l.limit(d, depth+1)
	if !okn {
		if okd && isInfinity(ld) && bounded(n) {
			return zero, true
		}
		return nil, false
	}
	if !okd {
		return nil, false
	}
	zn, zd := isZeroNumber(ln), isZeroNumber(ld)
	in, id := isInfinity(ln), isInfinity(ld)
	switch {
	case (zn && zd) || (in && id):
		dn, dd := n.Diff(l.x), d.Diff(l.x)
		if isZeroNumber(dd) {
			return nil, false
		}
		return l.limit(Div(dn, dd), depth+1)
	case zd:
		switch l.signNear(Div(n, d)) {
		case 1:
			return Infinity, true
		case -1:
			return NegInfinity, true
		}
		return nil, false
	case id:
		return zero, true
	}
	r := Div(ln, ld)
	return r, determinate(r)
}

func (l *limiter) power(p *Pow, depth int) (Expr, bool) {
	if !Has(p.exp, l.x) {
		if numberSign(p.exp) < 0 {
			return l.quotient(one, PowOf(p.base, Neg(p.exp)), depth)
		}
		lb, ok := l.limit(p.base, depth+1)
		if !ok {
			return nil, false
		}
		r := PowOf(lb, p.exp)
		return r, determinate(r)
	}
	g, ok := l.limit(MulOf(p.exp, Log(p.base)), depth+1)
	if !ok {
		return nil, false
	}
	r := Exp(g)
	return r, determinate(r)
}

func (l *limiter) function(f *Func, depth int) (Expr, bool) {
	la, ok := l.limit(f.arg, depth+1)
	if !ok {
		return nil, false
	}
	if f.name == "log" && isZeroNumber(la) {
		if l.signNear(f.arg) > 0 {
			return NegInfinity, true
		}
		return nil, false
	}
	r := FuncOf(f.name, la)
	return r, determinate(r)
}

// signNear probes the sign of f numerically on the approach side.
func (l *limiter) signNear(f Expr) int {
	var pts []float64
	if isInfinity(l.x0) {
		s := 1.0
		if l.x0 == Expr(NegInfinity) {
			s = -1
		}
		pts = []float64{s * 1e4, s * 1e6, s * 1e8}
	} else {
		c, ok := evalFloat(l.x0)
		if !ok {
			return 0
		}
		for _, h := range []float64{1e-4, 1e-6, 1e-8} {
			pts = append(pts, c+float64(l.side)*h)
		}
	}
	sign := 0
	for _, p := range pts {
		v, ok := evalAt(f, l.x, p)
		if !ok || v == 0 {
			return 0
		}
		s := 1
		if v < 0 {
			s = -1
		}
		if sign != 0 && s != sign {
			return 0
		}
		sign = s
	}
	return sign
}

// bounded reports whether e is built from sin and cos alone with finite weights.
func bounded(e Expr) bool {
	switch v := e.(type) {
	case *Func:
		return v.name == "sin" || v.name == "cos"
	case *Mul:
		for _, f := range v.factors {
			if !bounded(f) {
				return false
			}
		}
		return true
	case *Add:
		for _, t := range v.terms {
			if !bounded(t) {
				return false
			}
		}
		return true
	case *Pow:
		n, ok := v.exp.(*Num)
		return ok && n.IsPositive() && bounded(v.base)
	}
	return isNumber(e)
}

// ============================================================
// Series
// ============================================================

const maxPoleOrder = 12

// Series expands e around x0 through (x - x0)**(n-1) and appends the O
// remainder. Poles are handled by expanding (x - x0)**m * e first.
func Series(e Expr, x string, x0 Expr, n int) (Expr, error) {
	if n < 0 {
		return nil, mathErrorf("series order must be non-negative, got %d", n)
	}
	if isInfinity(x0) {
		return nil, mathErrorf("series expansion around %s is not supported", x0)
	}
	v := Sub(S(x), x0)
	l := &limiter{x: x, x0: x0, side: 1}
	value := func(f Expr) (Expr, bool) {
		if r, ok := l.direct(f); ok && IsFinite(r) {
			return r, true
		}
		if r, ok := l.direct(Cancel(f)); ok && IsFinite(r) {
			return r, true
		}
		r, ok := l.limit(f, 0)
		return r, ok && IsFinite(r)
	}
	m := 0
	g := e
	for ; m <= maxPoleOrder; m++ {
		g = MulOf(e, PowOf(v, N(int64(m))))
		if _, ok := value(g); ok {
			break
		}
	}
	if m > maxPoleOrder {
		return nil, noClosedForm("cannot expand %s around %s = %s", e, x, x0)
	}
	terms := []Expr{}
	d := g
	fact := one
	for k := 0; k < n+m; k++ {
		if k > 0 {
			fact = numMul(fact, N(int64(k)))
			d = d.Diff(x)
		}
		c, ok := value(d)
		if !ok {
			return nil, noClosedForm("cannot expand %s around %s = %s", e, x, x0)
		}
		if !isZeroNumber(c) {
			terms = append(terms, MulOf(c, numRecip(fact), PowOf(v, N(int64(k-m)))))
		}
	}
	terms = append(terms, Order(PowOf(v, N(int64(n))), x, x0))
	return AddOf(terms...), nil
}
