package cas

import "sort"

// ============================================================
// Mul: product of factors
// ============================================================

// Mul is coeff * factors[0] * factors[1] ... where coeff is a *Num or *Float and
// no two factors share a base.
type Mul struct {
	coeff   Expr
	factors []Expr
}

// baseExp views e as base**exp; exp(a) is E**a.
func baseExp(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Pow:
		return v.base, v.exp
	case *Func:
		if v.name == "exp" {
			return E, v.arg
		}
	}
	return e, one
}

// MulOf returns the canonical product of factors.
func MulOf(factors ...Expr) Expr {
	var (
		coeff     Expr = one
		mats      []*Matrix
		order     *BigO
		infinite  bool
		negInf    int
		cinf      bool
		undefined bool
		keys      []string
		bases     = map[string]Expr{}
		exps      = map[string][]Expr{}
	)
	group := func(f Expr) {
		b, e := baseExp(f)
		key := b.String()
		if _, ok := bases[key]; !ok {
			keys = append(keys, key)
			bases[key] = b
		}
		exps[key] = append(exps[key], e)
	}
	var add func(f Expr)
	add = func(f Expr) {
		switch v := f.(type) {
		case *Mul:
			coeff = mulNumbers(coeff, v.coeff)
			for _, inner := range v.factors {
				add(inner)
			}
		case *Num, *Float:
			coeff = mulNumbers(coeff, v)
		case *Matrix:
			mats = append(mats, v)
		case *BigO:
			order = v
		case *Const:
			switch v {
			case Infinity:
				infinite = true
			case NegInfinity:
				infinite = true
				negInf++
			case ComplexInfinity:
				cinf = true
			case NaN:
				undefined = true
			default:
				group(v)
			}
		default:
			group(f)
		}
	}
	for _, f := range factors {
		add(f)
	}

	if undefined {
		return NaN
	}
	if infinite || cinf {
		if isZeroNumber(coeff) {
			return NaN
		}
		if cinf {
			return ComplexInfinity
		}
		inf := Infinity
		if (numberSign(coeff) < 0) != (negInf%2 == 1) {
			inf = NegInfinity
		}
		var rest []Expr
		for _, key := range keys {
			rest = append(rest, PowOf(bases[key], AddOf(exps[key]...)))
		}
		if len(rest) == 0 {
			return inf
		}
		r := MulOf(rest...)
		if isNumber(r) {
			return MulOf(r, inf)
		}
		_, rr := splitCoeff(r)
		fs := []Expr{rr}
		if m, ok := rr.(*Mul); ok {
			fs = m.factors
		}
		fs = append(append([]Expr{}, fs...), inf)
		sortFactors(fs)
		return &Mul{coeff: one, factors: fs}
	}
	if isZeroNumber(coeff) && len(mats) == 0 {
		return zero
	}

	rebuilt := make([]Expr, 0, len(keys))
	refold := false
	for _, key := range keys {
		p := PowOf(bases[key], AddOf(exps[key]...))
		switch v := p.(type) {
		case *Num, *Float:
			coeff = mulNumbers(coeff, v)
		case *Mul:
			refold = true
			rebuilt = append(rebuilt, v)
		case *Const:
			if v.infinite() {
				refold = true
			}
			rebuilt = append(rebuilt, v)
		default:
			rebuilt = append(rebuilt, p)
		}
	}
	if refold {
		return MulOf(append([]Expr{coeff}, rebuilt...)...)
	}

	if len(mats) > 0 {
		prod := mats[0]
		for _, m := range mats[1:] {
			prod = prod.mul(m)
		}
		scalar := Expr(coeff)
		if len(rebuilt) > 0 {
			scalar = MulOf(append([]Expr{coeff}, rebuilt...)...)
		}
		return prod.scale(scalar)
	}
	if order != nil {
		if len(rebuilt) == 0 {
			return order
		}
		return Order(MulOf(append(rebuilt, order.term)...), order.sym, order.point)
	}

	sortFactors(rebuilt)
	switch {
	case len(rebuilt) == 0:
		return coeff
	case len(rebuilt) == 1 && isOneNumber(coeff):
		return rebuilt[0]
	case len(rebuilt) == 1:
		if sum, ok := rebuilt[0].(*Add); ok {
			terms := make([]Expr, len(sum.terms))
			for i, t := range sum.terms {
				terms[i] = MulOf(coeff, t)
			}
			return AddOf(terms...)
		}
	}
	return &Mul{coeff: coeff, factors: rebuilt}
}

// keepCoeff builds c*e without distributing c over a sum, the way factored
// output is presented.
func keepCoeff(c *Num, e Expr) Expr {
	if c.IsOne() {
		return e
	}
	switch v := e.(type) {
	case *Add:
		return &Mul{coeff: c, factors: []Expr{e}}
	case *Mul:
		if cn, ok := v.coeff.(*Num); ok {
			c = numMul(c, cn)
			if c.IsOne() {
				return MulOf(v.factors...)
			}
			for _, f := range v.factors {
				if _, ok := f.(*Add); ok {
					return &Mul{coeff: c, factors: v.factors}
				}
			}
			return MulOf(append([]Expr{c}, v.factors...)...)
		}
	}
	return MulOf(c, e)
}

func sortFactors(fs []Expr) {
	sort.SliceStable(fs, func(i, j int) bool {
		ki, kj := factorKey(fs[i]), factorKey(fs[j])
		if ki != kj {
			return ki < kj
		}
		return fs[i].String() < fs[j].String()
	})
}

func (m *Mul) Coeff() Expr      { return m.coeff }
func (m *Mul) Factors() []Expr { return append([]Expr(nil), m.factors...) }

// rest is the product without its coefficient.
func (m *Mul) rest() Expr {
	if len(m.factors) == 1 {
		return m.factors[0]
	}
	return &Mul{coeff: one, factors: m.factors}
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	if !ok || len(m.factors) != len(o.factors) || !m.coeff.Equal(o.coeff) {
		return false
	}
	for i := range m.factors {
		if !m.factors[i].Equal(o.factors[i]) {
			return false
		}
	}
	return true
}

func (m *Mul) Subs(name string, value Expr) Expr {
	return SubsMap(m, map[string]Expr{name: value})
}

func (m *Mul) Diff(name string) Expr {
	terms := make([]Expr, 0, len(m.factors))
	for i, f := range m.factors {
		d := f.Diff(name)
		if isZeroNumber(d) {
			continue
		}
		prod := make([]Expr, 0, len(m.factors)+1)
		prod = append(prod, m.coeff, d)
		for j, g := range m.factors {
			if j != i {
				prod = append(prod, g)
			}
		}
		terms = append(terms, MulOf(prod...))
	}
	return AddOf(terms...)
}
