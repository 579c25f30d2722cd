package cas

import "math/big"

// ============================================================
// Equation: lhs = rhs
// ============================================================

type Equation struct{ lhs, rhs Expr }

// Eq builds lhs = rhs, or a Bool when the sides are numbers or identical.
func Eq(lhs, rhs Expr) Expr {
	if lhs.Equal(rhs) {
		return True
	}
	if isNumber(lhs) && isNumber(rhs) {
		return BoolOf(numberFloat(lhs) == numberFloat(rhs))
	}
	return &Equation{lhs: lhs, rhs: rhs}
}

func (e *Equation) LHS() Expr { return e.lhs }
func (e *Equation) RHS() Expr { return e.rhs }

func (e *Equation) Equal(other Expr) bool {
	o, ok := other.(*Equation)
	return ok && e.lhs.Equal(o.lhs) && e.rhs.Equal(o.rhs)
}
func (e *Equation) Subs(name string, value Expr) Expr {
	return SubsMap(e, map[string]Expr{name: value})
}
func (e *Equation) Diff(name string) Expr {
	return &Equation{lhs: e.lhs.Diff(name), rhs: e.rhs.Diff(name)}
}

// ============================================================
// List: ordered sequence (list or tuple)
// ============================================================

type List struct {
	items []Expr
	tuple bool
}

func ListOf(items ...Expr) *List  { return &List{items: items} }
func TupleOf(items ...Expr) *List { return &List{items: items, tuple: true} }

func (l *List) Items() []Expr { return append([]Expr(nil), l.items...) }
func (l *List) Len() int      { return len(l.items) }
func (l *List) IsTuple() bool { return l.tuple }

func (l *List) Equal(other Expr) bool {
	o, ok := other.(*List)
	if !ok || len(l.items) != len(o.items) || l.tuple != o.tuple {
		return false
	}
	for i := range l.items {
		if !l.items[i].Equal(o.items[i]) {
			return false
		}
	}
	return true
}
func (l *List) Subs(name string, value Expr) Expr {
	return SubsMap(l, map[string]Expr{name: value})
}
func (l *List) Diff(name string) Expr {
	return mapArgs(l, func(x Expr) Expr { return x.Diff(name) })
}

// ============================================================
// Dict: ordered mapping from expressions to expressions
// ============================================================

type Dict struct {
	keys   []Expr
	values []Expr
}

func (d *Dict) Set(k, v Expr) {
	for i, existing := range d.keys {
		if existing.Equal(k) {
			d.values[i] = v
			return
		}
	}
	d.keys = append(d.keys, k)
	d.values = append(d.values, v)
}

func (d *Dict) Get(k Expr) (Expr, bool) {
	for i, existing := range d.keys {
		if existing.Equal(k) {
			return d.values[i], true
		}
	}
	return nil, false
}

func (d *Dict) Keys() []Expr { return append([]Expr(nil), d.keys...) }
func (d *Dict) Len() int     { return len(d.keys) }

func (d *Dict) Equal(other Expr) bool {
	o, ok := other.(*Dict)
	if !ok || len(d.keys) != len(o.keys) {
		return false
	}
	for i, k := range d.keys {
		v, hit := o.Get(k)
		if !hit || !v.Equal(d.values[i]) {
			return false
		}
	}
	return true
}
func (d *Dict) Subs(name string, value Expr) Expr {
	return SubsMap(d, map[string]Expr{name: value})
}
func (d *Dict) Diff(name string) Expr {
	out := &Dict{}
	for i, k := range d.keys {
		out.Set(k, d.values[i].Diff(name))
	}
	return out
}

// ============================================================
// Bool
// ============================================================

type Bool struct{ val bool }

var (
	True  = &Bool{val: true}
	False = &Bool{val: false}
)

func BoolOf(b bool) *Bool {
	if b {
		return True
	}
	return False
}

func (b *Bool) Value() bool { return b.val }
func (b *Bool) String() string {
	if b.val {
		return "True"
	}
	return "False"
}
func (b *Bool) LaTeX() string          { return `\text{` + b.String() + `}` }
func (b *Bool) Equal(other Expr) bool  { o, ok := other.(*Bool); return ok && o.val == b.val }
func (b *Bool) Subs(string, Expr) Expr { return b }
func (b *Bool) Diff(string) Expr       { return zero }

// ============================================================
// BigO: asymptotic remainder of a series
// ============================================================

// BigO is O((sym - point)**n) as sym approaches point.
type BigO struct {
	term  Expr
	sym   string
	point Expr
}

// Order builds O(term) around point, dropping the numeric coefficient.
func Order(term Expr, sym string, point Expr) Expr {
	if point == nil {
		point = zero
	}
	_, r := splitCoeff(term)
	return &BigO{term: r, sym: sym, point: point}
}

func (o *BigO) Term() Expr { return o.term }

// variable is the expression the order is measured in: sym - point.
func (o *BigO) variable() Expr { return Sub(S(o.sym), o.point) }

func (o *BigO) degree() *Num {
	d, ok := powerOf(o.term, o.variable(), o.sym)
	if !ok {
		return zero
	}
	return d
}

// absorb drops the terms that the remainder dominates.
func (o *BigO) absorb(terms []Expr) []Expr {
	n := o.degree()
	v := o.variable()
	out := terms[:0:0]
	for _, t := range terms {
		if d, ok := powerOf(t, v, o.sym); ok && numCmp(d, n) >= 0 {
			continue
		}
		out = append(out, t)
	}
	return out
}

// powerOf reports k when t is c * base**k with c free of sym.
func powerOf(t, base Expr, sym string) (*Num, bool) {
	_, r := splitCoeff(t)
	factors := []Expr{r}
	if m, ok := r.(*Mul); ok {
		factors = m.factors
	}
	k := new(big.Rat)
	for _, f := range factors {
		if isOneNumber(f) {
			continue
		}
		b, e := baseExp(f)
		if b.Equal(base) {
			n, ok := e.(*Num)
			if !ok {
				return nil, false
			}
			k.Add(k, n.val)
			continue
		}
		if Has(f, sym) {
			return nil, false
		}
	}
	return NumFromRat(k), true
}

func (o *BigO) Equal(other Expr) bool {
	p, ok := other.(*BigO)
	return ok && p.sym == o.sym && p.term.Equal(o.term) && p.point.Equal(o.point)
}
func (o *BigO) Subs(name string, value Expr) Expr {
	if name == o.sym {
		return o
	}
	return &BigO{term: o.term.Subs(name, value), sym: o.sym, point: o.point}
}
func (o *BigO) Diff(name string) Expr {
	if name != o.sym {
		return zero
	}
	return Order(PowOf(o.variable(), numSub(o.degree(), one)), o.sym, o.point)
}

// RemoveO drops the BigO remainder from a series.
func RemoveO(e Expr) Expr {
	switch v := e.(type) {
	case *BigO:
		return zero
	case *Add:
		kept := make([]Expr, 0, len(v.terms))
		for _, t := range v.terms {
			if _, ok := t.(*BigO); !ok {
				kept = append(kept, t)
			}
		}
		return AddOf(kept...)
	}
	return e
}
