package cas

import (
	"math"
	"math/big"
)

// ============================================================
// Pow: base ** exponent
// ============================================================

type Pow struct{ base, exp Expr }

// PowOf returns the canonical base**exp. Integer powers of numbers are exact,
// rational powers extract perfect roots, and E**x becomes exp(x).
func PowOf(base, exp Expr) Expr {
	if m, ok := base.(*Matrix); ok {
		return m.pow(exp)
	}
	if base == Expr(NaN) || exp == Expr(NaN) {
		return NaN
	}
	if isZeroNumber(exp) {
		return one
	}
	if isOneNumber(exp) {
		return base
	}
	if isOneNumber(base) {
		if isInfinity(exp) {
			return NaN
		}
		return one
	}

	switch b := base.(type) {
	case *Num:
		switch e := exp.(type) {
		case *Num:
			return ratPow(b, e)
		case *Float:
			return floatPow(b.Float64(), e.val)
		case *Const:
			if r, ok := powToInfinity(b.Float64(), e); ok {
				return r
			}
		}
		if b.IsZero() {
			if s := numberSign(exp); s > 0 {
				return zero
			} else if s < 0 {
				return ComplexInfinity
			}
		}
	case *Float:
		if isNumber(exp) {
			return floatPow(b.val, numberFloat(exp))
		}
		if c, ok := exp.(*Const); ok {
			if r, ok := powToInfinity(b.val, c); ok {
				return r
			}
		}
	case *Const:
		switch b {
		case E:
			return FuncOf("exp", exp)
		case I:
			if n, ok := exp.(*Num); ok && n.IsInteger() {
				k := new(big.Int).Mod(n.val.Num(), big.NewInt(4)).Int64()
				switch k {
				case 0:
					return one
				case 1:
					return I
				case 2:
					return minusOne
				default:
					return MulOf(minusOne, I)
				}
			}
		case Infinity, ComplexInfinity:
			switch numberSign(exp) {
			case 1:
				return b
			case -1:
				return zero
			}
		case NegInfinity:
			if n, ok := exp.(*Num); ok {
				switch {
				case n.IsNegative():
					return zero
				case n.IsInteger() && new(big.Int).Mod(n.val.Num(), big.NewInt(2)).Sign() == 0:
					return Infinity
				case n.IsInteger():
					return NegInfinity
				}
			}
		}
	case *Pow:
		if n, ok := exp.(*Num); ok && n.IsInteger() {
			// (x**2)**(1/2) stays as written; only integer outer powers fold.
			return PowOf(b.base, MulOf(b.exp, n))
		}
	case *Func:
		if b.name == "exp" {
			if _, ok := exp.(*Num); ok {
				return FuncOf("exp", MulOf(b.arg, exp))
			}
		}
	case *Mul:
		if n, ok := exp.(*Num); ok {
			if n.IsInteger() {
				fs := make([]Expr, 0, len(b.factors)+1)
				fs = append(fs, PowOf(b.coeff, n))
				for _, f := range b.factors {
					fs = append(fs, PowOf(f, n))
				}
				return MulOf(fs...)
			}
			if c, ok := b.coeff.(*Num); ok && !c.IsOne() && !c.IsNegOne() {
				if c.IsPositive() {
					return MulOf(PowOf(c, n), PowOf(b.rest(), n))
				}
				return MulOf(PowOf(numNeg(c), n), PowOf(MulOf(minusOne, b.rest()), n))
			}
		}
	}
	return &Pow{base: base, exp: exp}
}

func powToInfinity(b float64, e *Const) (Expr, bool) {
	switch e {
	case Infinity:
		switch {
		case b > 1:
			return Infinity, true
		case b > -1 && b < 1:
			return zero, true
		}
		return NaN, true
	case NegInfinity:
		switch {
		case b > 1 || b < -1:
			return zero, true
		case b > 0 && b < 1:
			return Infinity, true
		case b == 0:
			return ComplexInfinity, true
		}
		return NaN, true
	}
	return nil, false
}

func floatPow(b, e float64) Expr {
	if b < 0 && e != math.Trunc(e) {
		return &Pow{base: NFloat(b), exp: NFloat(e)}
	}
	if b == 0 && e < 0 {
		return ComplexInfinity
	}
	return NFloat(math.Pow(b, e))
}

// ratPow computes b**e for rationals, exactly where the result is rational and
// as a reduced radical otherwise.
func ratPow(b, e *Num) Expr {
	if e.IsInteger() {
		k, ok := e.Int64()
		if !ok {
			return &Pow{base: b, exp: e}
		}
		if b.IsZero() && k < 0 {
			return ComplexInfinity
		}
		v, ok := numPowInt(b, k)
		if !ok {
			return &Pow{base: b, exp: e}
		}
		return v
	}
	if b.IsZero() {
		if e.IsPositive() {
			return zero
		}
		return ComplexInfinity
	}
	if b.IsNegative() {
		if b.IsNegOne() {
			if e.val.Denom().Cmp(big.NewInt(2)) == 0 {
				return PowOf(I, numFromInt(e.val.Num()))
			}
			return &Pow{base: b, exp: e}
		}
		return MulOf(ratPow(minusOne, e), ratPow(numNeg(b), e))
	}
	if !e.val.Denom().IsInt64() || !e.val.Num().IsInt64() {
		return &Pow{base: b, exp: e}
	}
	p, q := e.val.Num().Int64(), e.val.Denom().Int64()
	k := p / q
	if p < 0 && p%q != 0 {
		k--
	}
	r := p - k*q

	whole, ok := numPowInt(b, k)
	if !ok {
		return &Pow{base: b, exp: e}
	}
	num, den := b.val.Num(), b.val.Denom()
	root := intRoot(num, r, q)
	if den.Cmp(big.NewInt(1)) != 0 {
		return MulOf(whole, root, intRoot(den, q-r, q), numRecip(numFromInt(den)))
	}
	return radicalOf(whole, root)
}

// intRoot returns n**(r/q) for a positive integer n with 0 < r < q.
func intRoot(n *big.Int, r, q int64) Expr {
	out, in := perfectRoot(n, q)
	outer, ok := numPowInt(numFromInt(out), r)
	if !ok {
		return &Pow{base: numFromInt(n), exp: F(r, q)}
	}
	if in.Cmp(big.NewInt(1)) == 0 {
		return outer
	}
	g := gcdInt(r, q)
	return radicalOf(outer, &Pow{base: numFromInt(in), exp: F(r/g, q/g)})
}

// radicalOf builds c*p for a reduced radical p. It must not go back through
// MulOf: MulOf renormalizes its powers with PowOf, which lands here again.
func radicalOf(c *Num, p Expr) Expr {
	switch v := p.(type) {
	case *Num:
		return numMul(c, v)
	case *Mul:
		if vc, ok := v.coeff.(*Num); ok {
			c = numMul(c, vc)
			if c.IsOne() && len(v.factors) == 1 {
				return v.factors[0]
			}
			return &Mul{coeff: c, factors: v.factors}
		}
	}
	if c.IsOne() {
		return p
	}
	return &Mul{coeff: c, factors: []Expr{p}}
}

// perfectRoot splits n as out**q * in with in free of q-th powers of small primes.
func perfectRoot(n *big.Int, q int64) (out, in *big.Int) {
	out, in = big.NewInt(1), big.NewInt(1)
	rem := new(big.Int).Set(n)
	bigOne := big.NewInt(1)
	mod := new(big.Int)
	for p := int64(2); p < 1000 && rem.Cmp(bigOne) > 0; p++ {
		bp := big.NewInt(p)
		count := int64(0)
		for {
			quo, m := new(big.Int).QuoRem(rem, bp, mod)
			if m.Sign() != 0 {
				break
			}
			rem = quo
			count++
		}
		if count == 0 {
			continue
		}
		out.Mul(out, new(big.Int).Exp(bp, big.NewInt(count/q), nil))
		in.Mul(in, new(big.Int).Exp(bp, big.NewInt(count%q), nil))
	}
	if rem.Cmp(bigOne) > 0 {
		if r := nthRoot(rem, q); new(big.Int).Exp(r, big.NewInt(q), nil).Cmp(rem) == 0 {
			out.Mul(out, r)
		} else {
			in.Mul(in, rem)
		}
	}
	return out, in
}

// nthRoot returns floor(n**(1/q)) by Newton iteration.
func nthRoot(n *big.Int, q int64) *big.Int {
	if q == 2 {
		return new(big.Int).Sqrt(n)
	}
	bq := big.NewInt(q)
	bq1 := big.NewInt(q - 1)
	x := new(big.Int).Lsh(big.NewInt(1), uint(n.BitLen()/int(q)+1))
	for {
		// y = ((q-1)*x + n / x**(q-1)) / q
		t := new(big.Int).Exp(x, bq1, nil)
		t.Quo(n, t)
		y := new(big.Int).Mul(bq1, x)
		y.Add(y, t)
		y.Quo(y, bq)
		if y.Cmp(x) >= 0 {
			return x
		}
		x = y
	}
}

func (p *Pow) Base() Expr { return p.base }
func (p *Pow) Exp() Expr  { return p.exp }

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) Subs(name string, value Expr) Expr {
	return SubsMap(p, map[string]Expr{name: value})
}

func (p *Pow) Diff(name string) Expr {
	db := p.base.Diff(name)
	de := p.exp.Diff(name)
	var terms []Expr
	if !isZeroNumber(db) {
		terms = append(terms, MulOf(p.exp, PowOf(p.base, AddOf(p.exp, minusOne)), db))
	}
	if !isZeroNumber(de) {
		terms = append(terms, MulOf(p, FuncOf("log", p.base), de))
	}
	return AddOf(terms...)
}
