package cas

import (
	"math/big"
	"strings"
)

// ============================================================
// Expand
// ============================================================

// Expand distributes products over sums and expands integer powers of sums,
// all the way down into function arguments.
func Expand(e Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = Expand(t)
		}
		return AddOf(terms...)
	case *Mul:
		acc := Expr(v.coeff)
		for _, f := range v.factors {
			acc = expandProduct(acc, Expand(f))
		}
		return acc
	case *Pow:
		base, exp := Expand(v.base), Expand(v.exp)
		n, ok := exp.(*Num)
		if _, isSum := base.(*Add); ok && isSum && n.IsInteger() {
			k, _ := n.Int64()
			switch {
			case k > 0 && k <= 64:
				acc := base
				for i := int64(1); i < k; i++ {
					acc = expandProduct(acc, base)
				}
				return acc
			case k < 0 && k >= -64:
				return PowOf(Expand(PowOf(base, N(-k))), minusOne)
			}
		}
		return PowOf(base, exp)
	case *Func:
		arg := Expand(v.arg)
		if sum, ok := arg.(*Add); ok && v.name == "exp" {
			fs := make([]Expr, len(sum.terms))
			for i, t := range sum.terms {
				fs[i] = FuncOf("exp", t)
			}
			return MulOf(fs...)
		}
		return FuncOf(v.name, arg)
	}
	return mapArgs(e, Expand)
}

func sumTerms(e Expr) []Expr {
	if a, ok := e.(*Add); ok {
		return a.terms
	}
	return []Expr{e}
}

func expandProduct(a, b Expr) Expr {
	ta, tb := sumTerms(a), sumTerms(b)
	if len(ta) == 1 && len(tb) == 1 {
		p := MulOf(a, b)
		if _, ok := p.(*Add); ok {
			return Expand(p)
		}
		return p
	}
	out := make([]Expr, 0, len(ta)*len(tb))
	for _, x := range ta {
		for _, y := range tb {
			out = append(out, expandProduct(x, y))
		}
	}
	return AddOf(out...)
}

// ============================================================
// Fractions: numer/denom, together, cancel
// ============================================================

// numerDenom splits e into numerator and denominator, combining sums over a
// common denominator.
func numerDenom(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Num:
		return numFromInt(v.val.Num()), numFromInt(v.val.Denom())
	case *Add:
		nums := make([]Expr, len(v.terms))
		dens := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			nums[i], dens[i] = numerDenom(t)
		}
		return combineFractions(nums, dens)
	case *Mul:
		cn, cd := numerDenom(v.coeff)
		ns, ds := []Expr{cn}, []Expr{cd}
		for _, f := range v.factors {
			n, d := numerDenom(f)
			ns, ds = append(ns, n), append(ds, d)
		}
		return MulOf(ns...), MulOf(ds...)
	case *Pow:
		if n, ok := v.exp.(*Num); ok {
			if n.IsInteger() {
				bn, bd := numerDenom(v.base)
				if n.IsPositive() {
					return PowOf(bn, n), PowOf(bd, n)
				}
				return PowOf(bd, numNeg(n)), PowOf(bn, numNeg(n))
			}
			if n.IsNegative() {
				return one, PowOf(v.base, numNeg(n))
			}
		}
		if c, _ := splitCoeff(v.exp); numberSign(c) < 0 {
			return one, PowOf(v.base, Neg(v.exp))
		}
	case *Func:
		if c, _ := splitCoeff(v.arg); v.name == "exp" && numberSign(c) < 0 {
			return one, FuncOf("exp", Neg(v.arg))
		}
	}
	return e, one
}

// Numer and Denom return the parts of e over a common denominator.
func Numer(e Expr) Expr { n, _ := numerDenom(e); return n }
func Denom(e Expr) Expr { _, d := numerDenom(e); return d }

type factorMap struct {
	keys  []string
	bases map[string]Expr
	exps  map[string]*Num
	coeff *Num
}

func toFactorMap(d Expr) factorMap {
	fm := factorMap{bases: map[string]Expr{}, exps: map[string]*Num{}, coeff: one}
	c, r := splitCoeff(d)
	if cn, ok := c.(*Num); ok {
		fm.coeff = cn
	} else {
		r = d
	}
	factors := []Expr{r}
	if m, ok := r.(*Mul); ok {
		factors = m.factors
	}
	for _, f := range factors {
		if isOneNumber(f) {
			continue
		}
		b, e := baseExp(f)
		n, ok := e.(*Num)
		if !ok {
			b, n = f, one
		}
		key := b.String()
		if prev, seen := fm.exps[key]; seen {
			fm.exps[key] = numAdd(prev, n)
			continue
		}
		fm.keys = append(fm.keys, key)
		fm.bases[key] = b
		fm.exps[key] = n
	}
	return fm
}

func combineFractions(nums, dens []Expr) (Expr, Expr) {
	maps := make([]factorMap, len(dens))
	lcd := factorMap{bases: map[string]Expr{}, exps: map[string]*Num{}, coeff: one}
	lcdInt := big.NewInt(1)
	for i, d := range dens {
		maps[i] = toFactorMap(d)
		if c := maps[i].coeff; c.IsInteger() {
			a := new(big.Int).Abs(c.val.Num())
			g := new(big.Int).GCD(nil, nil, lcdInt, a)
			lcdInt.Mul(lcdInt, new(big.Int).Quo(a, g))
		}
		for _, k := range maps[i].keys {
			e := maps[i].exps[k]
			if prev, ok := lcd.exps[k]; ok {
				if numCmp(e, prev) > 0 {
					lcd.exps[k] = e
				}
				continue
			}
			lcd.keys = append(lcd.keys, k)
			lcd.bases[k] = maps[i].bases[k]
			lcd.exps[k] = e
		}
	}
	lcd.coeff = numFromInt(lcdInt)

	terms := make([]Expr, len(nums))
	for i, n := range nums {
		mult := []Expr{n, numDiv(lcd.coeff, maps[i].coeff)}
		for _, k := range lcd.keys {
			have := zero
			if e, ok := maps[i].exps[k]; ok {
				have = e
			}
			if diff := numSub(lcd.exps[k], have); !diff.IsZero() {
				mult = append(mult, PowOf(lcd.bases[k], diff))
			}
		}
		terms[i] = MulOf(mult...)
	}
	den := []Expr{lcd.coeff}
	for _, k := range lcd.keys {
		den = append(den, PowOf(lcd.bases[k], lcd.exps[k]))
	}
	return AddOf(terms...), MulOf(den...)
}

// Together rewrites e over a single common denominator without expanding.
func Together(e Expr) Expr {
	switch e.(type) {
	case *Matrix, *List, *Dict, *Equation:
		return mapArgs(e, Together)
	}
	n, d := numerDenom(e)
	if isOneNumber(d) {
		return n
	}
	return MulOf(n, PowOf(d, minusOne))
}

// Cancel divides numerator and denominator by their polynomial gcd and returns
// the expanded quotient.
func Cancel(e Expr) Expr {
	switch e.(type) {
	case *Matrix, *List, *Dict, *Equation:
		return mapArgs(e, Cancel)
	case *Num, *Float, *Sym, *Const:
		return e
	}
	n, d := numerDenom(e)
	if isNumber(d) {
		return Expand(MulOf(n, PowOf(d, minusOne)))
	}
	gens := generators(AddOf(Expand(n), Expand(d)))
	if len(gens) == 1 {
		g := gens[0]
		pn, ok1 := toPoly(n, g)
		pd, ok2 := toPoly(d, g)
		if ok1 && ok2 && !pd.isZero() {
			return rationalExpr(pn, pd, g)
		}
	}
	fn, fd := factorPoly(n), factorPoly(d)
	q := MulOf(fn, PowOf(fd, minusOne))
	qn, qd := numerDenom(q)
	if isOneNumber(qd) {
		return Expand(qn)
	}
	return MulOf(Expand(qn), PowOf(Expand(qd), minusOne))
}

// rationalExpr renders n/d in lowest terms with coprime integer content.
func rationalExpr(n, d poly, g Expr) Expr {
	if n.isZero() {
		return zero
	}
	gcd := polyGCD(n, d)
	n, _ = polyDivMod(n, gcd)
	d, _ = polyDivMod(d, gcd)
	cn, pn := n.primitive()
	cd, pd := d.primitive()
	c := numDiv(cn, cd)
	if pd.deg() <= 0 {
		return MulOf(c, pn.expr(g))
	}
	top := keepCoeff(numFromInt(c.val.Num()), pn.expr(g))
	bottom := keepCoeff(numFromInt(c.val.Denom()), pd.expr(g))
	return MulOf(top, PowOf(bottom, minusOne))
}

// Ratsimp puts e over a common denominator in lowest terms.
func Ratsimp(e Expr) Expr { return Cancel(Together(e)) }

// ============================================================
// Collect
// ============================================================

// Collect groups the terms of e by their dependence on x.
func Collect(e Expr, x string) Expr {
	switch e.(type) {
	case *Matrix, *List, *Dict, *Equation:
		return mapArgs(e, func(c Expr) Expr { return Collect(c, x) })
	}
	var keys []string
	parts := map[string]Expr{}
	coeffs := map[string][]Expr{}
	for _, t := range sumTerms(Expand(e)) {
		c, r := splitCoeff(t)
		factors := []Expr{r}
		if m, ok := r.(*Mul); ok {
			factors = m.factors
		}
		dep := []Expr{}
		rest := []Expr{c}
		for _, f := range factors {
			if Has(f, x) {
				dep = append(dep, f)
			} else {
				rest = append(rest, f)
			}
		}
		part := MulOf(dep...)
		key := part.String()
		if _, ok := parts[key]; !ok {
			keys = append(keys, key)
			parts[key] = part
		}
		coeffs[key] = append(coeffs[key], MulOf(rest...))
	}
	out := make([]Expr, 0, len(keys))
	for _, k := range keys {
		out = append(out, mulNoDistribute(AddOf(coeffs[k]...), parts[k]))
	}
	return AddOf(out...)
}

// mulNoDistribute multiplies a coefficient sum onto part while keeping the sum intact.
func mulNoDistribute(c, part Expr) Expr {
	if _, ok := c.(*Add); ok && !isOneNumber(part) {
		fs := []Expr{c}
		if m, ok := part.(*Mul); ok && isOneNumber(m.coeff) {
			fs = append(fs, m.factors...)
		} else {
			fs = append(fs, part)
		}
		sortFactors(fs)
		return &Mul{coeff: one, factors: fs}
	}
	return MulOf(c, part)
}

// ============================================================
// Factor
// ============================================================

// Factor factors polynomials over the rationals: content and monomial
// extraction, rational linear factors, and differences of squares.
func Factor(e Expr) Expr {
	switch e.(type) {
	case *Matrix, *List, *Dict, *Equation:
		return mapArgs(e, Factor)
	case *Num, *Float, *Sym, *Const:
		return e
	}
	c := Cancel(e)
	n, d := numerDenom(c)
	fn := factorPoly(n)
	if isOneNumber(d) {
		return fn
	}
	fd := factorPoly(d)
	cn, rn := splitCoeff(fn)
	cd, rd := splitCoeff(fd)
	k, ok := cn.(*Num)
	kd, okd := cd.(*Num)
	if !ok || !okd {
		return MulOf(fn, PowOf(fd, minusOne))
	}
	return keepCoeff(numDiv(k, kd), MulOf(rn, PowOf(rd, minusOne)))
}

func factorPoly(p Expr) Expr {
	p = Expand(p)
	gens := generators(p)
	switch len(gens) {
	case 0:
		return p
	case 1:
		if pl, ok := toPoly(p, gens[0]); ok {
			return factorUnivariate(pl, gens[0])
		}
		return p
	}
	return factorMultivariate(p)
}

func factorUnivariate(p poly, g Expr) Expr {
	content, prim := p.primitive()
	if prim.deg() < 1 {
		return p.expr(g)
	}
	var fs []Expr
	for _, r := range prim.rationalRoots() {
		lin := polyLinear(numFromInt(r.val.Denom()), numNeg(numFromInt(r.val.Num())))
		m := 0
		for prim.deg() >= 1 {
			q, rem := polyDivMod(prim, lin)
			if !rem.isZero() {
				break
			}
			prim = q
			m++
		}
		if m > 0 {
			fs = append(fs, PowOf(lin.expr(g), N(int64(m))))
		}
	}
	if prim.deg() >= 1 {
		c, rest := prim.primitive()
		content = numMul(content, c)
		fs = append(fs, factorSquares(rest.expr(g)))
	} else if len(prim) > 0 {
		content = numMul(content, prim[0])
	}
	return keepCoeff(content, MulOf(fs...))
}

func factorMultivariate(p Expr) Expr {
	terms := sumTerms(p)
	// numeric content
	coeffs := make(poly, len(terms))
	for i, t := range terms {
		c, _ := splitCoeff(t)
		n, ok := c.(*Num)
		if !ok {
			return p
		}
		coeffs[i] = n
	}
	content, _ := coeffs.primitive()
	content = numAbs(content)
	if coeffs[0].IsNegative() {
		content = numNeg(content)
	}
	// common monomial: minimum exponent of each base across all terms
	common := toFactorMap(terms[0])
	for _, t := range terms[1:] {
		fm := toFactorMap(t)
		for _, k := range common.keys {
			e, ok := fm.exps[k]
			if !ok {
				common.exps[k] = zero
				continue
			}
			if numCmp(e, common.exps[k]) < 0 {
				common.exps[k] = e
			}
		}
	}
	mono := []Expr{}
	for _, k := range common.keys {
		if e := common.exps[k]; e.IsPositive() && e.IsInteger() {
			mono = append(mono, PowOf(common.bases[k], e))
		}
	}
	m := MulOf(mono...)
	rest := make([]Expr, len(terms))
	scale := MulOf(content, m)
	for i, t := range terms {
		rest[i] = Expand(Div(t, scale))
	}
	inner := factorSquares(AddOf(rest...))
	return keepCoeff(content, MulOf(m, inner))
}

// factorSquares splits a two-term difference of squares a**2 - b**2.
func factorSquares(p Expr) Expr {
	sum, ok := p.(*Add)
	if !ok || len(sum.terms) != 2 {
		return p
	}
	a, b := sum.terms[0], sum.terms[1]
	negA, absA := negativeTerm(a)
	negB, absB := negativeTerm(b)
	if negA == negB {
		return p
	}
	if negA {
		absA, absB = absB, absA
	}
	ra, oka := exactSqrt(absA)
	rb, okb := exactSqrt(absB)
	if !oka || !okb {
		return p
	}
	return MulOf(factorSquares(Sub(ra, rb)), factorSquares(AddOf(ra, rb)))
}

// exactSqrt returns r with r**2 == t when t is a monomial with a square
// coefficient and even exponents.
func exactSqrt(t Expr) (Expr, bool) {
	c, r := splitCoeff(t)
	n, ok := c.(*Num)
	if !ok || n.IsNegative() {
		return nil, false
	}
	rc := PowOf(n, F(1, 2))
	if _, ok := rc.(*Num); !ok {
		return nil, false
	}
	fm := toFactorMap(r)
	fs := []Expr{rc}
	for _, k := range fm.keys {
		e := fm.exps[k]
		if !e.IsInteger() || e.IsNegative() {
			return nil, false
		}
		h := numDiv(e, N(2))
		if !h.IsInteger() {
			return nil, false
		}
		fs = append(fs, PowOf(fm.bases[k], h))
	}
	return MulOf(fs...), true
}

// ============================================================
// Apart: partial fractions
// ============================================================

// pfTerm is num / base**k with deg(num) < deg(base).
type pfTerm struct {
	num  poly
	base poly
	k    int
}

// partialFractions decomposes n/d into a polynomial part and proper terms.
func partialFractions(n, d poly) (poly, []pfTerm) {
	q, r := polyDivMod(n, d)
	if r.isZero() {
		return q, nil
	}
	c, prim := d.primitive()
	r = polyScale(r, numRecip(c))

	type block struct {
		base poly
		m    int
	}
	var blocks []block
	rest := prim
	for _, root := range prim.rationalRoots() {
		lin := polyLinear(numFromInt(root.val.Denom()), numNeg(numFromInt(root.val.Num())))
		m := 0
		for rest.deg() >= 1 {
			qq, rem := polyDivMod(rest, lin)
			if !rem.isZero() {
				break
			}
			rest = qq
			m++
		}
		blocks = append(blocks, block{base: lin, m: m})
	}
	if rest.deg() >= 1 {
		base, m := radical(rest)
		blocks = append(blocks, block{base: base, m: m})
	}

	var out []pfTerm
	for _, b := range blocks {
		P := polyPow(b.base, b.m)
		Q, _ := polyDivMod(prim, P)
		_, s, _ := polyExtGCD(Q, P)
		_, A := polyDivMod(polyMul(r, s), P)
		// expand A in powers of the base
		parts := make([]poly, b.m)
		for j := 0; j < b.m; j++ {
			quo, rem := polyDivMod(A, b.base)
			parts[j] = rem
			A = quo
		}
		for j := b.m - 1; j >= 0; j-- {
			if !parts[j].isZero() {
				out = append(out, pfTerm{num: parts[j], base: b.base, k: b.m - j})
			}
		}
	}
	return q, out
}

// radical returns u, m with p proportional to u**m when p is a perfect power.
func radical(p poly) (poly, int) {
	g := polyGCD(p, p.deriv())
	if g.deg() < 1 {
		return p, 1
	}
	u, _ := polyDivMod(p, g)
	_, u = u.primitive()
	if u.deg() < 1 {
		return p, 1
	}
	m := p.deg() / u.deg()
	pw := polyPow(u, m)
	if _, rem := polyDivMod(p, pw); rem.isZero() && pw.deg() == p.deg() {
		return u, m
	}
	return p, 1
}

// Apart decomposes a rational function of x into partial fractions.
func Apart(e Expr, x string) (Expr, error) {
	n, d := numerDenom(Cancel(e))
	if x == "" {
		syms := FreeSymbols(e)
		if len(syms) != 1 {
			if len(syms) == 0 {
				return e, nil
			}
			return nil, mathErrorf("apart: multivariate expression %s needs a variable", e)
		}
		x = syms[0]
	}
	pn, ok1 := polyIn(n, x)
	pd, ok2 := polyIn(d, x)
	if !ok1 || !ok2 {
		return nil, noClosedForm("apart: %s is not a rational function of %s with rational coefficients", e, x)
	}
	sx := S(x)
	q, terms := partialFractions(pn, pd)
	out := []Expr{q.expr(sx)}
	for _, t := range terms {
		out = append(out, MulOf(t.num.expr(sx), PowOf(t.base.expr(sx), N(int64(-t.k)))))
	}
	return AddOf(out...), nil
}

// ============================================================
// Trigsimp and Simplify
// ============================================================

// Trigsimp applies Pythagorean, quotient and double-angle identities and keeps
// the smallest result.
func Trigsimp(e Expr) Expr {
	switch e.(type) {
	case *Matrix, *List, *Dict, *Equation:
		return mapArgs(e, Trigsimp)
	}
	e = simplifyArgs(e, Trigsimp)
	if !hasTrig(e) {
		return e
	}
	cands := []Expr{e}
	for _, from := range []string{"sin", "cos"} {
		r := Expand(rewriteSquares(e, from))
		cands = append(cands, r, Cancel(r))
	}
	n := len(cands)
	for _, c := range cands[:n] {
		cands = append(cands, toTan(c), doubleAngle(c))
	}
	return best(cands)
}

func hasTrig(e Expr) bool {
	found := false
	walk(e, func(x Expr) bool {
		if f, ok := x.(*Func); ok && (f.name == "sin" || f.name == "cos" || f.name == "tan") {
			found = true
		}
		return !found
	})
	return found
}

// rewriteSquares replaces even powers of from(a) using sin**2 + cos**2 = 1.
func rewriteSquares(e Expr, from string) Expr {
	other := "cos"
	if from == "cos" {
		other = "sin"
	}
	var rw func(Expr) Expr
	rw = func(x Expr) Expr {
		if p, ok := x.(*Pow); ok {
			if f, ok := p.base.(*Func); ok && f.name == from {
				if n, ok := p.exp.(*Num); ok && n.IsInteger() && n.IsPositive() {
					if h := numDiv(n, N(2)); h.IsInteger() {
						return PowOf(Sub(one, PowOf(FuncOf(other, f.arg), N(2))), h)
					}
				}
			}
		}
		return mapArgs(x, rw)
	}
	return rw(e)
}

// toTan rewrites sin(a)**k * cos(a)**-k as tan(a)**k.
func toTan(e Expr) Expr {
	var rw func(Expr) Expr
	rw = func(x Expr) Expr {
		x = mapArgs(x, rw)
		m, ok := x.(*Mul)
		if !ok {
			return x
		}
		fm := toFactorMap(m)
		out := []Expr{m.coeff}
		used := map[string]bool{}
		for _, k := range fm.keys {
			f, ok := fm.bases[k].(*Func)
			if !ok || f.name != "sin" {
				continue
			}
			ck := FuncOf("cos", f.arg).String()
			ce, ok := fm.exps[ck]
			se := fm.exps[k]
			if !ok || !numAdd(se, ce).IsZero() {
				continue
			}
			out = append(out, PowOf(FuncOf("tan", f.arg), se))
			used[k], used[ck] = true, true
		}
		if len(used) == 0 {
			return x
		}
		for _, k := range fm.keys {
			if !used[k] {
				out = append(out, PowOf(fm.bases[k], fm.exps[k]))
			}
		}
		return MulOf(out...)
	}
	return rw(e)
}

// doubleAngle rewrites sin(a)*cos(a) as sin(2*a)/2.
func doubleAngle(e Expr) Expr {
	var rw func(Expr) Expr
	rw = func(x Expr) Expr {
		x = mapArgs(x, rw)
		m, ok := x.(*Mul)
		if !ok {
			return x
		}
		fm := toFactorMap(m)
		for _, k := range fm.keys {
			f, ok := fm.bases[k].(*Func)
			if !ok || f.name != "sin" || !fm.exps[k].IsOne() {
				continue
			}
			ck := FuncOf("cos", f.arg).String()
			if ce, ok := fm.exps[ck]; !ok || !ce.IsOne() {
				continue
			}
			out := []Expr{m.coeff, F(1, 2), FuncOf("sin", MulOf(N(2), f.arg))}
			for _, j := range fm.keys {
				if j != k && j != ck {
					out = append(out, PowOf(fm.bases[j], fm.exps[j]))
				}
			}
			return MulOf(out...)
		}
		return x
	}
	return rw(e)
}

// simplifyArgs applies f to the arguments of every function call in e.
func simplifyArgs(e Expr, f func(Expr) Expr) Expr {
	if fn, ok := e.(*Func); ok {
		return FuncOf(fn.name, f(fn.arg))
	}
	return mapArgs(e, func(c Expr) Expr { return simplifyArgs(c, f) })
}

// best picks the candidate with the fewest operations, preferring earlier ones.
func best(cands []Expr) Expr {
	pick := cands[0]
	score, length := countOps(pick), len(pick.String())
	for _, c := range cands[1:] {
		s, l := countOps(c), len(c.String())
		if s < score || (s == score && l < length) {
			pick, score, length = c, s, l
		}
	}
	return pick
}

// Simplify tries the rewriting strategies and returns the simplest result.
func Simplify(e Expr) Expr {
	switch e.(type) {
	case *Matrix, *List, *Dict, *Equation:
		return mapArgs(e, Simplify)
	case *Num, *Float, *Sym, *Const, *Bool:
		return e
	}
	e = simplifyArgs(e, Simplify)
	c := Cancel(e)
	t := Trigsimp(e)
	cands := []Expr{
		e,
		Expand(e),
		c,
		Together(e),
		Factor(c),
		t,
		Cancel(t),
		Trigsimp(c),
	}
	return best(cands)
}

// ============================================================
// Polynomial arithmetic on expressions
// ============================================================

// polyPair reads a and b as polynomials in a shared single generator.
func polyPair(op string, a, b Expr, x string) (poly, poly, Expr, error) {
	var gen Expr
	if x != "" {
		gen = S(x)
	} else {
		gens := generators(AddOf(Expand(a), Expand(b)))
		switch len(gens) {
		case 0:
			gen = S("x")
		case 1:
			gen = gens[0]
		default:
			return nil, nil, nil, mathErrorf("%s: multivariate polynomials need a generator", op)
		}
	}
	pa, ok1 := toPoly(a, gen)
	pb, ok2 := toPoly(b, gen)
	if !ok1 || !ok2 {
		return nil, nil, nil, mathErrorf("%s: expected polynomials in %s", op, gen)
	}
	return pa, pb, gen, nil
}

func Gcd(a, b Expr) (Expr, error) {
	pa, pb, g, err := polyPair("gcd", a, b, "")
	if err != nil {
		return nil, err
	}
	if pa.deg() <= 0 && pb.deg() <= 0 {
		ca, _ := pa.primitive()
		cb, _ := pb.primitive()
		return numFromInt(new(big.Int).GCD(nil, nil, ca.val.Num(), cb.val.Num())), nil
	}
	return polyGCD(pa, pb).expr(g), nil
}

func Lcm(a, b Expr) (Expr, error) {
	pa, pb, g, err := polyPair("lcm", a, b, "")
	if err != nil {
		return nil, err
	}
	if pa.isZero() || pb.isZero() {
		return zero, nil
	}
	q, _ := polyDivMod(polyMul(pa, pb), polyGCD(pa, pb))
	return q.monic().expr(g), nil
}

// PolyDiv returns quotient and remainder of a / b.
func PolyDiv(a, b Expr, x string) (Expr, Expr, error) {
	pa, pb, g, err := polyPair("div", a, b, x)
	if err != nil {
		return nil, nil, err
	}
	if pb.isZero() {
		return nil, nil, mathErrorf("polynomial division by zero")
	}
	q, r := polyDivMod(pa, pb)
	return q.expr(g), r.expr(g), nil
}

// Degree returns the degree of e in x; the degree of zero is -oo.
func Degree(e Expr, x string) (Expr, error) {
	if x == "" {
		syms := FreeSymbols(e)
		switch len(syms) {
		case 0:
			if isZeroNumber(e) {
				return NegInfinity, nil
			}
			return zero, nil
		case 1:
			x = syms[0]
		default:
			return nil, mathErrorf("degree: a generator is required for multivariate %s", e)
		}
	}
	cs, ok := coeffsIn(e, x)
	if !ok {
		return nil, mathErrorf("degree: %s is not a polynomial in %s", e, x)
	}
	for k := len(cs) - 1; k >= 0; k-- {
		if !isZeroNumber(Expand(cs[k])) {
			return N(int64(k)), nil
		}
	}
	return NegInfinity, nil
}

// swapSigns orders "x - 2" ahead of "x + 2" when sorting factor strings.
func swapSigns(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '+':
			return '-'
		case '-':
			return '+'
		}
		return r
	}, s)
}
