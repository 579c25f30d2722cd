package cas

import "math"

const maxFloat = math.MaxFloat64

// ============================================================
// Sym: symbolic variable
// ============================================================

type Sym struct{ name string }

func S(name string) *Sym { return &Sym{name: name} }

func (s *Sym) Name() string   { return s.name }
func (s *Sym) String() string { return s.name }
func (s *Sym) LaTeX() string  { return latexSymbol(s.name) }
func (s *Sym) Equal(other Expr) bool {
	o, ok := other.(*Sym)
	return ok && s.name == o.name
}
func (s *Sym) Subs(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}
func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return one
	}
	return zero
}

// Symbols builds one symbol per name.
func Symbols(names ...string) []*Sym {
	out := make([]*Sym, len(names))
	for i, n := range names {
		out[i] = S(n)
	}
	return out
}

// ============================================================
// Const: named constants and the extended reals
// ============================================================

type Const struct {
	name  string
	latex string
	value float64
}

var (
	Pi              = &Const{name: "pi", latex: `\pi`, value: math.Pi}
	E               = &Const{name: "E", latex: "e", value: math.E}
	I               = &Const{name: "I", latex: "i", value: math.NaN()}
	Infinity        = &Const{name: "oo", latex: `\infty`, value: math.Inf(1)}
	NegInfinity     = &Const{name: "-oo", latex: `-\infty`, value: math.Inf(-1)}
	ComplexInfinity = &Const{name: "zoo", latex: `\tilde{\infty}`, value: math.NaN()}
	NaN             = &Const{name: "nan", latex: `\text{NaN}`, value: math.NaN()}
)

func (c *Const) Name() string         { return c.name }
func (c *Const) String() string       { return c.name }
func (c *Const) LaTeX() string        { return c.latex }
func (c *Const) Equal(other Expr) bool { return c == other }
func (c *Const) Subs(string, Expr) Expr {
	return c
}
func (c *Const) Diff(string) Expr { return zero }

func (c *Const) infinite() bool {
	return c == Infinity || c == NegInfinity || c == ComplexInfinity || c == NaN
}

// isNumericAtom reports whether e is a number or a real constant such as pi.
func isNumericAtom(e Expr) bool {
	switch v := e.(type) {
	case *Num, *Float:
		return true
	case *Const:
		return v == Pi || v == E
	}
	return false
}

func isInfinity(e Expr) bool { return e == Expr(Infinity) || e == Expr(NegInfinity) }

// greek letters render with a backslash in LaTeX.
var greek = map[string]bool{
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true, "zeta": true,
	"eta": true, "theta": true, "iota": true, "kappa": true, "lambda": true, "mu": true,
	"nu": true, "xi": true, "rho": true, "sigma": true, "tau": true, "upsilon": true,
	"phi": true, "chi": true, "psi": true, "omega": true,
	"Gamma": true, "Delta": true, "Theta": true, "Lambda": true, "Xi": true, "Pi": true,
	"Sigma": true, "Phi": true, "Psi": true, "Omega": true,
}

func latexSymbol(name string) string {
	base, sub := name, ""
	for i := 1; i < len(name); i++ {
		if name[i] == '_' {
			base, sub = name[:i], name[i+1:]
			break
		}
	}
	if greek[base] {
		base = `\` + base
	}
	if sub != "" {
		return base + "_{" + sub + "}"
	}
	return base
}
