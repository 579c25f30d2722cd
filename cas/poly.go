package cas

import (
	"math/big"
	"sort"
)

// ============================================================
// poly: dense univariate polynomial over the rationals
// ============================================================

// poly holds coefficients lowest degree first.
type poly []*Num

func (p poly) trim() poly {
	n := len(p)
	for n > 0 && p[n-1].IsZero() {
		n--
	}
	return p[:n]
}

func (p poly) deg() int     { return len(p.trim()) - 1 }
func (p poly) isZero() bool { return p.deg() < 0 }

func (p poly) lead() *Num {
	t := p.trim()
	if len(t) == 0 {
		return zero
	}
	return t[len(t)-1]
}

func (p poly) coeff(k int) *Num {
	if k < len(p) {
		return p[k]
	}
	return zero
}

func polyConst(c *Num) poly { return poly{c}.trim() }

// polyLinear returns a*x + b.
func polyLinear(a, b *Num) poly { return poly{b, a}.trim() }

func polyAdd(a, b poly) poly {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(poly, n)
	for i := range out {
		out[i] = numAdd(a.coeff(i), b.coeff(i))
	}
	return out.trim()
}

func polySub(a, b poly) poly { return polyAdd(a, polyScale(b, minusOne)) }

func polyScale(p poly, c *Num) poly {
	out := make(poly, len(p))
	for i, x := range p {
		out[i] = numMul(x, c)
	}
	return out.trim()
}

func polyMul(a, b poly) poly {
	a, b = a.trim(), b.trim()
	if len(a) == 0 || len(b) == 0 {
		return nil
	}
	out := make(poly, len(a)+len(b)-1)
	for i := range out {
		out[i] = zero
	}
	for i, x := range a {
		for j, y := range b {
			out[i+j] = numAdd(out[i+j], numMul(x, y))
		}
	}
	return out.trim()
}

func polyPow(p poly, k int) poly {
	out := poly{one}
	for ; k > 0; k-- {
		out = polyMul(out, p)
	}
	return out
}

func polyDivMod(a, b poly) (q, r poly) {
	b = b.trim()
	if len(b) == 0 {
		panic(mathErrorf("polynomial division by zero"))
	}
	r = append(poly(nil), a.trim()...)
	if len(r) < len(b) {
		return nil, r
	}
	q = make(poly, len(r)-len(b)+1)
	for i := range q {
		q[i] = zero
	}
	lb := b[len(b)-1]
	for len(r) >= len(b) {
		shift := len(r) - len(b)
		c := numDiv(r[len(r)-1], lb)
		q[shift] = c
		for i, x := range b {
			r[shift+i] = numSub(r[shift+i], numMul(c, x))
		}
		r = r[:len(r)-1].trim()
	}
	return q.trim(), r
}

func (p poly) monic() poly {
	if p.isZero() {
		return p
	}
	return polyScale(p, numRecip(p.lead()))
}

func polyGCD(a, b poly) poly {
	a, b = a.trim(), b.trim()
	for !b.isZero() {
		_, r := polyDivMod(a, b)
		a, b = b, r
	}
	return a.monic()
}

// polyExtGCD returns monic g with s*a + t*b = g.
func polyExtGCD(a, b poly) (g, s, t poly) {
	r0, r1 := a.trim(), b.trim()
	s0, s1 := poly{one}, poly(nil)
	t0, t1 := poly(nil), poly{one}
	for !r1.isZero() {
		q, r := polyDivMod(r0, r1)
		r0, r1 = r1, r
		s0, s1 = s1, polySub(s0, polyMul(q, s1))
		t0, t1 = t1, polySub(t0, polyMul(q, t1))
	}
	inv := numRecip(r0.lead())
	return polyScale(r0, inv), polyScale(s0, inv), polyScale(t0, inv)
}

func (p poly) deriv() poly {
	if len(p) <= 1 {
		return nil
	}
	out := make(poly, len(p)-1)
	for i := 1; i < len(p); i++ {
		out[i-1] = numMul(p[i], N(int64(i)))
	}
	return out.trim()
}

func (p poly) eval(x *Num) *Num {
	acc := zero
	for i := len(p) - 1; i >= 0; i-- {
		acc = numAdd(numMul(acc, x), p[i])
	}
	return acc
}

// expr rebuilds the polynomial in x.
func (p poly) expr(x Expr) Expr {
	terms := make([]Expr, 0, len(p))
	for i, c := range p {
		if c.IsZero() {
			continue
		}
		terms = append(terms, MulOf(c, PowOf(x, N(int64(i)))))
	}
	return AddOf(terms...)
}

// primitive splits p into content * prim where prim has coprime integer
// coefficients and a positive leading coefficient.
func (p poly) primitive() (*Num, poly) {
	p = p.trim()
	if len(p) == 0 {
		return zero, nil
	}
	lcm := big.NewInt(1)
	for _, c := range p {
		d := c.val.Denom()
		g := new(big.Int).GCD(nil, nil, lcm, d)
		lcm.Mul(lcm, new(big.Int).Quo(d, g))
	}
	ints := make([]*big.Int, len(p))
	g := new(big.Int)
	for i, c := range p {
		v := new(big.Rat).Mul(c.val, new(big.Rat).SetInt(lcm))
		ints[i] = new(big.Int).Set(v.Num())
		g.GCD(nil, nil, g, new(big.Int).Abs(ints[i]))
	}
	if p.lead().IsNegative() {
		g.Neg(g)
	}
	prim := make(poly, len(p))
	for i, v := range ints {
		prim[i] = numFromInt(new(big.Int).Quo(v, g))
	}
	content := &Num{val: new(big.Rat).SetFrac(g, lcm)}
	return content, prim
}

// rationalRoots returns the distinct rational roots in ascending order.
func (p poly) rationalRoots() []*Num {
	_, prim := p.primitive()
	if prim.deg() < 1 {
		return nil
	}
	var roots []*Num
	low := 0
	for low < len(prim) && prim[low].IsZero() {
		low++
	}
	if low > 0 {
		roots = append(roots, zero)
		prim = prim[low:]
	}
	if prim.deg() >= 1 {
		a0 := new(big.Int).Abs(prim[0].val.Num())
		an := new(big.Int).Abs(prim.lead().val.Num())
		ps, ok1 := divisors(a0)
		qs, ok2 := divisors(an)
		if ok1 && ok2 {
			seen := map[string]bool{}
			for _, pp := range ps {
				for _, qq := range qs {
					for _, s := range []int64{1, -1} {
						c := &Num{val: new(big.Rat).SetFrac(new(big.Int).Mul(big.NewInt(s), pp), qq)}
						key := c.String()
						if seen[key] {
							continue
						}
						seen[key] = true
						if prim.eval(c).IsZero() {
							roots = append(roots, c)
						}
					}
				}
			}
		}
	}
	sort.Slice(roots, func(i, j int) bool { return numCmp(roots[i], roots[j]) < 0 })
	return roots
}

// divisors lists the positive divisors of n when n is small enough to factor
// by trial division.
func divisors(n *big.Int) ([]*big.Int, bool) {
	if n.Sign() == 0 {
		return nil, false
	}
	if !n.IsInt64() || n.Int64() > 1e12 {
		return nil, false
	}
	v := n.Int64()
	var small, large []*big.Int
	for d := int64(1); d*d <= v; d++ {
		if v%d == 0 {
			small = append(small, big.NewInt(d))
			if d*d != v {
				large = append(large, big.NewInt(v/d))
			}
		}
	}
	for i := len(large) - 1; i >= 0; i-- {
		small = append(small, large[i])
	}
	return small, true
}

// multiplicity divides out (x - r) as many times as it divides p.
func (p poly) multiplicity(r *Num) (int, poly) {
	lin := polyLinear(one, numNeg(r))
	m := 0
	for !p.isZero() {
		q, rem := polyDivMod(p, lin)
		if !rem.isZero() {
			break
		}
		p = q
		m++
	}
	return m, p
}

// ------------------------------------------------------------
// conversion from expressions
// ------------------------------------------------------------

// toPoly reads e as a polynomial in gen with rational coefficients.
func toPoly(e Expr, gen Expr) (poly, bool) {
	e = Expand(e)
	terms := []Expr{e}
	if a, ok := e.(*Add); ok {
		terms = a.terms
	}
	out := poly{}
	for _, t := range terms {
		c, r := splitCoeff(t)
		cn, ok := c.(*Num)
		if !ok {
			return nil, false
		}
		k := 0
		if !isOneNumber(r) {
			deg, ok := genDegree(r, gen)
			if !ok {
				return nil, false
			}
			k = deg
		}
		for len(out) <= k {
			out = append(out, zero)
		}
		out[k] = numAdd(out[k], cn)
	}
	return out.trim(), true
}

func genDegree(r, gen Expr) (int, bool) {
	b, ex := baseExp(r)
	if r.Equal(gen) {
		return 1, true
	}
	if !b.Equal(gen) {
		// exp(2*x) is exp(x)**2 when the generator is exp(x)
		if g, ok := gen.(*Func); ok && g.name == "exp" {
			if f, ok := r.(*Func); ok && f.name == "exp" {
				q := Cancel(Div(f.arg, g.arg))
				if n, ok := q.(*Num); ok && n.IsInteger() && n.IsPositive() {
					k, _ := n.Int64()
					return int(k), true
				}
			}
		}
		return 0, false
	}
	n, ok := ex.(*Num)
	if !ok || !n.IsInteger() || n.IsNegative() {
		return 0, false
	}
	k, ok := n.Int64()
	if !ok || k > 1<<16 {
		return 0, false
	}
	return int(k), true
}

// polyIn reads e as a univariate rational polynomial in the symbol x.
func polyIn(e Expr, x string) (poly, bool) { return toPoly(e, S(x)) }

// coeffsIn reads e as a polynomial in the symbol x whose coefficients may be
// any expressions free of x.
func coeffsIn(e Expr, x string) ([]Expr, bool) {
	e = Expand(e)
	terms := []Expr{e}
	if a, ok := e.(*Add); ok {
		terms = a.terms
	}
	parts := map[int][]Expr{}
	maxDeg := 0
	sx := S(x)
	for _, t := range terms {
		c, r := splitCoeff(t)
		factors := []Expr{r}
		if m, ok := r.(*Mul); ok {
			factors = m.factors
		}
		k := 0
		rest := []Expr{c}
		for _, f := range factors {
			if !Has(f, x) {
				rest = append(rest, f)
				continue
			}
			d, ok := genDegree(f, sx)
			if !ok {
				return nil, false
			}
			k += d
		}
		parts[k] = append(parts[k], MulOf(rest...))
		if k > maxDeg {
			maxDeg = k
		}
	}
	out := make([]Expr, maxDeg+1)
	for k := range out {
		out[k] = AddOf(parts[k]...)
	}
	return out, true
}

// generators lists the distinct non-numeric bases that e is polynomial in.
func generators(e Expr) []Expr {
	e = Expand(e)
	terms := []Expr{e}
	if a, ok := e.(*Add); ok {
		terms = a.terms
	}
	var gens []Expr
	addGen := func(g Expr) {
		for _, x := range gens {
			if x.Equal(g) {
				return
			}
		}
		gens = append(gens, g)
	}
	for _, t := range terms {
		_, r := splitCoeff(t)
		factors := []Expr{r}
		if m, ok := r.(*Mul); ok {
			factors = m.factors
		}
		for _, f := range factors {
			if isOneNumber(f) {
				continue
			}
			b, ex := baseExp(f)
			if n, ok := ex.(*Num); ok && n.IsInteger() && n.IsPositive() && !isNumber(b) && b != Expr(E) {
				addGen(b)
				continue
			}
			addGen(f)
		}
	}
	return gens
}
