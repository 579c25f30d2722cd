package cas

import "sort"

// ============================================================
// Add: sum of terms
// ============================================================

type Add struct{ terms []Expr }

// AddOf returns the canonical sum of terms: nested sums are flattened, numbers
// folded into one trailing constant, and like terms combined by coefficient.
func AddOf(terms ...Expr) Expr {
	var (
		num            Expr = zero
		mats           []*Matrix
		orders         []*BigO
		posInf, negInf bool
		undefined      bool
		cinf           bool
		keys           []string
		coeffs         = map[string]Expr{}
		rests          = map[string]Expr{}
	)
	var add func(t Expr)
	add = func(t Expr) {
		switch v := t.(type) {
		case *Add:
			for _, inner := range v.terms {
				add(inner)
			}
			return
		case *Num, *Float:
			num = addNumbers(num, v)
			return
		case *Matrix:
			mats = append(mats, v)
			return
		case *BigO:
			orders = append(orders, v)
			return
		case *Const:
			switch v {
			case Infinity:
				posInf = true
				return
			case NegInfinity:
				negInf = true
				return
			case ComplexInfinity:
				cinf = true
				return
			case NaN:
				undefined = true
				return
			}
		}
		c, r := splitCoeff(t)
		key := r.String()
		if prev, ok := coeffs[key]; ok {
			coeffs[key] = addNumbers(prev, c)
			return
		}
		keys = append(keys, key)
		coeffs[key] = c
		rests[key] = r
	}
	for _, t := range terms {
		add(t)
	}

	if undefined || (posInf && negInf) || (cinf && (posInf || negInf)) {
		return NaN
	}
	if len(mats) > 0 {
		if len(keys) > 0 || !isZeroNumber(num) || posInf || negInf || cinf {
			panic(mathErrorf("cannot add a matrix and a scalar"))
		}
		sum := mats[0]
		for _, m := range mats[1:] {
			sum = sum.add(m)
		}
		return sum
	}
	if cinf {
		return ComplexInfinity
	}

	out := make([]Expr, 0, len(keys)+2)
	for _, key := range keys {
		c := coeffs[key]
		if isZeroNumber(c) {
			continue
		}
		out = append(out, MulOf(c, rests[key]))
	}

	var order *BigO
	if len(orders) > 0 {
		order = orders[0]
		for _, o := range orders[1:] {
			if o.degree().val.Cmp(order.degree().val) < 0 {
				order = o
			}
		}
		out = order.absorb(out)
		if !order.degree().IsPositive() {
			num = zero
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		c := compareTerms(out[i], out[j])
		if order != nil {
			return c > 0
		}
		return c < 0
	})

	switch {
	case posInf:
		out = append(out, Infinity)
	case negInf:
		out = append(out, NegInfinity)
	case !isZeroNumber(num):
		if order != nil {
			out = append([]Expr{num}, out...)
		} else {
			out = append(out, num)
		}
	}
	if order != nil {
		out = append(out, order)
	}

	switch len(out) {
	case 0:
		if _, ok := num.(*Float); ok {
			return num
		}
		return zero
	case 1:
		return out[0]
	}
	return &Add{terms: out}
}

func (a *Add) Terms() []Expr { return append([]Expr(nil), a.terms...) }

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	if !ok || len(a.terms) != len(o.terms) {
		return false
	}
	for i := range a.terms {
		if !a.terms[i].Equal(o.terms[i]) {
			return false
		}
	}
	return true
}

func (a *Add) Subs(name string, value Expr) Expr {
	return SubsMap(a, map[string]Expr{name: value})
}

func (a *Add) Diff(name string) Expr {
	d := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		d[i] = t.Diff(name)
	}
	return AddOf(d...)
}

// splitCoeff separates the numeric coefficient of a term from the rest.
func splitCoeff(e Expr) (Expr, Expr) {
	switch v := e.(type) {
	case *Num, *Float:
		return e, one
	case *Mul:
		return v.coeff, v.rest()
	}
	return one, e
}
