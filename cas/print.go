package cas

import (
	"strings"
)

// ============================================================
// Printing: plain text (round-trips through the engine parser) and LaTeX
// ============================================================

const (
	precAdd  = 10
	precMul  = 20
	precPow  = 30
	precAtom = 1000
)

func precOf(e Expr) int {
	switch v := e.(type) {
	case *Add:
		return precAdd
	case *Mul:
		if numberSign(v.coeff) < 0 {
			return precAdd
		}
		return precMul
	case *Pow:
		if n, ok := v.exp.(*Num); ok && (n.Equal(F(1, 2)) || n.Equal(F(-1, 2))) {
			return precAtom
		}
		if n, ok := v.exp.(*Num); ok && n.IsNegOne() {
			return precMul
		}
		return precPow
	case *Num:
		if v.IsNegative() {
			return precAdd
		}
		if !v.IsInteger() {
			return precMul
		}
	case *Float:
		if v.val < 0 {
			return precAdd
		}
	case *Const:
		if v == NegInfinity {
			return precAdd
		}
	case *Equation:
		return 0
	}
	return precAtom
}

func parens(e Expr, prec int) string {
	if precOf(e) < prec {
		return "(" + e.String() + ")"
	}
	return e.String()
}

func latexParens(e Expr, prec int) string {
	if precOf(e) < prec {
		return `\left(` + e.LaTeX() + `\right)`
	}
	return e.LaTeX()
}

// negativeTerm reports whether t prints with a leading minus, and its negation.
func negativeTerm(t Expr) (bool, Expr) {
	switch v := t.(type) {
	case *Num:
		if v.IsNegative() {
			return true, numNeg(v)
		}
	case *Float:
		if v.val < 0 {
			return true, NFloat(-v.val)
		}
	case *Const:
		if v == NegInfinity {
			return true, Infinity
		}
	case *Mul:
		if numberSign(v.coeff) < 0 {
			c := mulNumbers(minusOne, v.coeff)
			if isOneNumber(c) && len(v.factors) == 1 {
				return true, v.factors[0]
			}
			return true, &Mul{coeff: c, factors: v.factors}
		}
	}
	return false, t
}

func joinTerms(terms []Expr, render func(Expr) string) string {
	var sb strings.Builder
	for i, t := range terms {
		neg, abs := negativeTerm(t)
		switch {
		case i == 0 && neg:
			sb.WriteString("-")
			sb.WriteString(render(abs))
		case i == 0:
			sb.WriteString(render(t))
		case neg:
			sb.WriteString(" - ")
			sb.WriteString(render(abs))
		default:
			sb.WriteString(" + ")
			sb.WriteString(render(t))
		}
	}
	return sb.String()
}

func (a *Add) String() string {
	return joinTerms(a.terms, func(e Expr) string { return e.String() })
}

func (a *Add) LaTeX() string {
	return joinTerms(a.terms, func(e Expr) string { return e.LaTeX() })
}

// fraction splits a product into numerator and denominator factors for display.
func (m *Mul) fraction() (sign bool, num, den []Expr) {
	c := m.coeff
	if numberSign(c) < 0 {
		sign = true
		c = mulNumbers(minusOne, c)
	}
	switch v := c.(type) {
	case *Num:
		if p := numFromInt(v.val.Num()); !p.IsOne() {
			num = append(num, p)
		}
		if q := numFromInt(v.val.Denom()); !q.IsOne() {
			den = append(den, q)
		}
	case *Float:
		if v.val != 1 {
			num = append(num, v)
		}
	}
	for _, f := range m.factors {
		if p, ok := f.(*Pow); ok {
			if n, ok := p.exp.(*Num); ok && n.IsNegative() {
				den = append(den, PowOf(p.base, numNeg(n)))
				continue
			}
		}
		num = append(num, f)
	}
	return sign, num, den
}

func (m *Mul) String() string {
	sign, num, den := m.fraction()
	render := func(fs []Expr) string {
		parts := make([]string, len(fs))
		for i, f := range fs {
			parts[i] = parens(f, precMul)
		}
		return strings.Join(parts, "*")
	}
	s := "1"
	if len(num) > 0 {
		s = render(num)
	}
	if len(den) > 0 {
		d := render(den)
		if len(den) > 1 {
			d = "(" + d + ")"
		}
		s += "/" + d
	}
	if sign {
		return "-" + s
	}
	return s
}

func (m *Mul) LaTeX() string {
	sign, num, den := m.fraction()
	render := func(fs []Expr) string {
		parts := make([]string, len(fs))
		for i, f := range fs {
			parts[i] = latexParens(f, precMul)
		}
		return strings.Join(parts, " ")
	}
	s := "1"
	if len(num) > 0 {
		s = render(num)
	}
	if len(den) > 0 {
		s = `\frac{` + s + `}{` + render(den) + `}`
	}
	if sign {
		return "-" + s
	}
	return s
}

func (p *Pow) String() string {
	if n, ok := p.exp.(*Num); ok {
		switch {
		case n.Equal(F(1, 2)):
			return "sqrt(" + p.base.String() + ")"
		case n.Equal(F(-1, 2)):
			return "1/sqrt(" + p.base.String() + ")"
		case n.IsNegOne():
			return "1/" + parens(p.base, precPow)
		}
	}
	base := parens(p.base, precPow+1)
	exp := p.exp.String()
	if !isPlainExponent(p.exp) {
		exp = "(" + exp + ")"
	}
	return base + "**" + exp
}

func isPlainExponent(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsInteger() && !v.IsNegative()
	case *Float:
		return v.val >= 0
	case *Sym, *Const:
		return e != Expr(NegInfinity)
	}
	return false
}

func (p *Pow) LaTeX() string {
	if n, ok := p.exp.(*Num); ok {
		switch {
		case n.Equal(F(1, 2)):
			return `\sqrt{` + p.base.LaTeX() + `}`
		case n.IsNegative():
			return `\frac{1}{` + PowOf(p.base, numNeg(n)).LaTeX() + `}`
		case !n.IsInteger() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1:
			return `\sqrt[` + n.val.Denom().String() + `]{` + p.base.LaTeX() + `}`
		}
	}
	if f, ok := p.base.(*Func); ok {
		if def, ok := funcs[f.name]; ok && def.latex != "" {
			return def.latex + "^{" + p.exp.LaTeX() + `}{\left(` + f.arg.LaTeX() + ` \right)}`
		}
	}
	return latexParens(p.base, precPow+1) + "^{" + p.exp.LaTeX() + "}"
}

func (f *Func) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Func) LaTeX() string {
	a := f.arg.LaTeX()
	switch f.name {
	case "exp":
		return "e^{" + a + "}"
	case "Abs":
		return `\left|{` + a + `}\right|`
	case "floor":
		return `\left\lfloor{` + a + `}\right\rfloor`
	case "ceiling":
		return `\left\lceil{` + a + `}\right\rceil`
	case "factorial":
		return latexParens(f.arg, precAtom) + "!"
	}
	name := `\operatorname{` + f.name + `}`
	if def, ok := funcs[f.name]; ok && def.latex != "" {
		name = def.latex
	}
	return name + `{\left(` + a + ` \right)}`
}

func (e *Equation) String() string { return "Eq(" + e.lhs.String() + ", " + e.rhs.String() + ")" }
func (e *Equation) LaTeX() string  { return e.lhs.LaTeX() + " = " + e.rhs.LaTeX() }

func (l *List) String() string {
	parts := make([]string, len(l.items))
	for i, it := range l.items {
		parts[i] = it.String()
	}
	if l.tuple {
		if len(parts) == 1 {
			return "(" + parts[0] + ",)"
		}
		return "(" + strings.Join(parts, ", ") + ")"
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (l *List) LaTeX() string {
	parts := make([]string, len(l.items))
	for i, it := range l.items {
		parts[i] = it.LaTeX()
	}
	open, closing := `\left[ `, `\right]`
	if l.tuple {
		open, closing = `\left( `, `\right)`
	}
	return open + strings.Join(parts, `, \  `) + closing
}

func (d *Dict) String() string {
	parts := make([]string, len(d.keys))
	for i := range d.keys {
		parts[i] = d.keys[i].String() + ": " + d.values[i].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (d *Dict) LaTeX() string {
	parts := make([]string, len(d.keys))
	for i := range d.keys {
		parts[i] = d.keys[i].LaTeX() + " : " + d.values[i].LaTeX()
	}
	return `\left\{ ` + strings.Join(parts, `, \  `) + `\right\}`
}

func (o *BigO) String() string {
	if isZeroNumber(o.point) {
		return "O(" + o.term.String() + ")"
	}
	return "O(" + o.term.String() + ", (" + o.sym + ", " + o.point.String() + "))"
}

func (o *BigO) LaTeX() string {
	if isZeroNumber(o.point) {
		return `O\left(` + o.term.LaTeX() + `\right)`
	}
	return `O\left(` + o.term.LaTeX() + "; " + latexSymbol(o.sym) + `\rightarrow ` + o.point.LaTeX() + `\right)`
}

// Srepr renders the constructor tree of e.
func Srepr(e Expr) string {
	switch v := e.(type) {
	case *Num:
		if v.IsInteger() {
			return "Integer(" + v.String() + ")"
		}
		return "Rational(" + v.val.Num().String() + ", " + v.val.Denom().String() + ")"
	case *Float:
		return "Float('" + v.String() + "')"
	case *Sym:
		return "Symbol('" + v.name + "')"
	case *Const:
		switch v {
		case Infinity:
			return "oo"
		case NegInfinity:
			return "-oo"
		case ComplexInfinity:
			return "zoo"
		case NaN:
			return "nan"
		case I:
			return "I"
		}
		return v.name
	case *Bool:
		return e.String()
	case *Add:
		return "Add(" + sreprJoin(v.terms) + ")"
	case *Mul:
		return "Mul(" + sreprJoin(args(v)) + ")"
	case *Pow:
		return "Pow(" + Srepr(v.base) + ", " + Srepr(v.exp) + ")"
	case *Func:
		return v.name + "(" + Srepr(v.arg) + ")"
	case *Equation:
		return "Equality(" + Srepr(v.lhs) + ", " + Srepr(v.rhs) + ")"
	case *List:
		if v.tuple {
			return "Tuple(" + sreprJoin(v.items) + ")"
		}
		return "[" + sreprJoin(v.items) + "]"
	case *Dict:
		parts := make([]string, len(v.keys))
		for i := range v.keys {
			parts[i] = Srepr(v.keys[i]) + ": " + Srepr(v.values[i])
		}
		return "{" + strings.Join(parts, ", ") + "}"
	case *Matrix:
		rows := make([]string, v.rows)
		for i := range rows {
			rows[i] = "[" + sreprJoin(v.row(i)) + "]"
		}
		return "MutableDenseMatrix([" + strings.Join(rows, ", ") + "])"
	case *BigO:
		return "Order(" + Srepr(v.term) + ", Tuple(Symbol('" + v.sym + "'), " + Srepr(v.point) + "))"
	}
	return e.String()
}

func sreprJoin(es []Expr) string {
	parts := make([]string, len(es))
	for i, e := range es {
		parts[i] = Srepr(e)
	}
	return strings.Join(parts, ", ")
}
