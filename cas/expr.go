package cas

import (
	"sort"
)

// ============================================================
// Core Interface
// ============================================================

// Expr is an immutable symbolic value. Constructors (AddOf, MulOf, PowOf, ...)
// return canonical forms, so structural equality is the library's equality.
type Expr interface {
	String() string
	LaTeX() string
	Equal(other Expr) bool
	Subs(name string, value Expr) Expr
	Diff(name string) Expr
}

// SubsMap substitutes every symbol named in m simultaneously.
func SubsMap(e Expr, m map[string]Expr) Expr {
	if len(m) == 0 {
		return e
	}
	var walk func(Expr) Expr
	walk = func(x Expr) Expr {
		if s, ok := x.(*Sym); ok {
			if v, hit := m[s.name]; hit {
				return v
			}
			return s
		}
		return mapArgs(x, walk)
	}
	return walk(e)
}

// args returns the direct children of e.
func args(e Expr) []Expr {
	switch v := e.(type) {
	case *Add:
		return v.terms
	case *Mul:
		out := make([]Expr, 0, len(v.factors)+1)
		out = append(out, v.coeff)
		return append(out, v.factors...)
	case *Pow:
		return []Expr{v.base, v.exp}
	case *Func:
		return []Expr{v.arg}
	case *Equation:
		return []Expr{v.lhs, v.rhs}
	case *List:
		return v.items
	case *Dict:
		out := make([]Expr, 0, 2*len(v.keys))
		out = append(out, v.keys...)
		return append(out, v.values...)
	case *Matrix:
		return v.data
	case *BigO:
		return []Expr{v.term}
	}
	return nil
}

// mapArgs rebuilds e through the canonical constructors after applying f to
// each child. Atoms are returned unchanged.
func mapArgs(e Expr, f func(Expr) Expr) Expr {
	switch v := e.(type) {
	case *Add:
		terms := make([]Expr, len(v.terms))
		for i, t := range v.terms {
			terms[i] = f(t)
		}
		return AddOf(terms...)
	case *Mul:
		factors := make([]Expr, 0, len(v.factors)+1)
		factors = append(factors, f(v.coeff))
		for _, x := range v.factors {
			factors = append(factors, f(x))
		}
		return MulOf(factors...)
	case *Pow:
		return PowOf(f(v.base), f(v.exp))
	case *Func:
		return FuncOf(v.name, f(v.arg))
	case *Equation:
		return Eq(f(v.lhs), f(v.rhs))
	case *List:
		items := make([]Expr, len(v.items))
		for i, it := range v.items {
			items[i] = f(it)
		}
		return &List{items: items, tuple: v.tuple}
	case *Dict:
		d := &Dict{}
		for i := range v.keys {
			d.Set(f(v.keys[i]), f(v.values[i]))
		}
		return d
	case *Matrix:
		data := make([]Expr, len(v.data))
		for i, x := range v.data {
			data[i] = f(x)
		}
		return &Matrix{rows: v.rows, cols: v.cols, data: data}
	case *BigO:
		return Order(f(v.term), v.sym, v.point)
	}
	return e
}

// walk visits e and every descendant, stopping early when visit returns false.
func walk(e Expr, visit func(Expr) bool) bool {
	if !visit(e) {
		return false
	}
	for _, c := range args(e) {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}

// FreeSymbols returns the sorted names of the symbols occurring in e.
func FreeSymbols(e Expr) []string {
	seen := map[string]bool{}
	walk(e, func(x Expr) bool {
		if s, ok := x.(*Sym); ok {
			seen[s.name] = true
		}
		return true
	})
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Has reports whether the symbol name occurs anywhere in e.
func Has(e Expr, name string) bool {
	found := false
	walk(e, func(x Expr) bool {
		if s, ok := x.(*Sym); ok && s.name == name {
			found = true
		}
		return !found
	})
	return found
}

// contains reports whether sub occurs structurally inside e.
func contains(e, sub Expr) bool {
	found := false
	walk(e, func(x Expr) bool {
		if x.Equal(sub) {
			found = true
		}
		return !found
	})
	return found
}

// replace substitutes every structural occurrence of old in e.
func replace(e, old, repl Expr) Expr {
	if e.Equal(old) {
		return repl
	}
	return mapArgs(e, func(c Expr) Expr { return replace(c, old, repl) })
}

// IsFinite reports whether e is free of infinities and nan.
func IsFinite(e Expr) bool {
	finite := true
	walk(e, func(x Expr) bool {
		switch v := x.(type) {
		case *Const:
			if v.infinite() {
				finite = false
			}
		case *Float:
			if v.val != v.val || v.val > maxFloat || v.val < -maxFloat {
				finite = false
			}
		}
		return finite
	})
	return finite
}

// hasUndefined reports whether e contains zoo or nan.
func hasUndefined(e Expr) bool {
	hit := false
	walk(e, func(x Expr) bool {
		if c, ok := x.(*Const); ok && (c == ComplexInfinity || c == NaN) {
			hit = true
		}
		return !hit
	})
	return hit
}

// countOps is a rough size measure used to rank simplification candidates.
func countOps(e Expr) int {
	n := 0
	walk(e, func(x Expr) bool {
		switch v := x.(type) {
		case *Add:
			n += len(v.terms) - 1
		case *Mul:
			n += len(v.factors)
			if !isOneNumber(v.coeff) {
				n++
			}
		case *Pow, *Func:
			n++
		}
		return true
	})
	return n
}

func Sub(a, b Expr) Expr { return AddOf(a, MulOf(minusOne, b)) }
func Neg(a Expr) Expr    { return MulOf(minusOne, a) }
func Div(a, b Expr) Expr { return MulOf(a, PowOf(b, minusOne)) }

// Sqrt returns x**(1/2).
func Sqrt(x Expr) Expr { return PowOf(x, F(1, 2)) }
