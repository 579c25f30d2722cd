package cas

import (
	"math"
	"sort"
)

// ============================================================
// Func: elementary function application
// ============================================================

type Func struct {
	name string
	arg  Expr
}

type funcDef struct {
	eval    func(arg Expr) Expr // nil result leaves the call unevaluated
	deriv   func(arg Expr) Expr
	numeric func(float64) float64
	odd     bool
	even    bool
	latex   string
}

var funcs map[string]*funcDef

func init() {
	funcs = map[string]*funcDef{
		"sin": {
			eval: func(a Expr) Expr {
				if isZeroNumber(a) {
					return zero
				}
				if k, ok := piCoeff(a); ok {
					return sinPi(k)
				}
				return inverseOf(a, "asin")
			},
			deriv:   func(a Expr) Expr { return FuncOf("cos", a) },
			numeric: math.Sin, odd: true, latex: `\sin`,
		},
		"cos": {
			eval: func(a Expr) Expr {
				if isZeroNumber(a) {
					return one
				}
				if k, ok := piCoeff(a); ok {
					return cosPi(k)
				}
				return inverseOf(a, "acos")
			},
			deriv:   func(a Expr) Expr { return Neg(FuncOf("sin", a)) },
			numeric: math.Cos, even: true, latex: `\cos`,
		},
		"tan": {
			eval: func(a Expr) Expr {
				if isZeroNumber(a) {
					return zero
				}
				if k, ok := piCoeff(a); ok {
					s, c := sinPi(k), cosPi(k)
					if s == nil || c == nil {
						return nil
					}
					if isZeroNumber(c) {
						return ComplexInfinity
					}
					return Div(s, c)
				}
				return inverseOf(a, "atan")
			},
			deriv:   func(a Expr) Expr { return AddOf(one, PowOf(FuncOf("tan", a), N(2))) },
			numeric: math.Tan, odd: true, latex: `\tan`,
		},
		"asin": {
			eval: func(a Expr) Expr {
				switch {
				case isZeroNumber(a):
					return zero
				case isOneNumber(a):
					return MulOf(F(1, 2), Pi)
				case a.Equal(F(1, 2)):
					return MulOf(F(1, 6), Pi)
				}
				return nil
			},
			deriv:   func(a Expr) Expr { return PowOf(Sub(one, PowOf(a, N(2))), F(-1, 2)) },
			numeric: math.Asin, odd: true, latex: `\operatorname{asin}`,
		},
		"acos": {
			eval: func(a Expr) Expr {
				switch {
				case isOneNumber(a):
					return zero
				case isZeroNumber(a):
					return MulOf(F(1, 2), Pi)
				case a.Equal(minusOne):
					return Pi
				case a.Equal(F(1, 2)):
					return MulOf(F(1, 3), Pi)
				case a.Equal(F(-1, 2)):
					return MulOf(F(2, 3), Pi)
				}
				return nil
			},
			deriv:   func(a Expr) Expr { return Neg(PowOf(Sub(one, PowOf(a, N(2))), F(-1, 2))) },
			numeric: math.Acos, latex: `\operatorname{acos}`,
		},
		"atan": {
			eval: func(a Expr) Expr {
				switch {
				case isZeroNumber(a):
					return zero
				case isOneNumber(a):
					return MulOf(F(1, 4), Pi)
				case a == Expr(Infinity):
					return MulOf(F(1, 2), Pi)
				case a == Expr(NegInfinity):
					return MulOf(F(-1, 2), Pi)
				}
				return nil
			},
			deriv:   func(a Expr) Expr { return PowOf(AddOf(one, PowOf(a, N(2))), minusOne) },
			numeric: math.Atan, odd: true, latex: `\operatorname{atan}`,
		},
		"sinh": {
			eval: func(a Expr) Expr {
				switch {
				case isZeroNumber(a):
					return zero
				case isInfinity(a):
					return a
				}
				return nil
			},
			deriv:   func(a Expr) Expr { return FuncOf("cosh", a) },
			numeric: math.Sinh, odd: true, latex: `\sinh`,
		},
		"cosh": {
			eval: func(a Expr) Expr {
				switch {
				case isZeroNumber(a):
					return one
				case isInfinity(a):
					return Infinity
				}
				return nil
			},
			deriv:   func(a Expr) Expr { return FuncOf("sinh", a) },
			numeric: math.Cosh, even: true, latex: `\cosh`,
		},
		"tanh": {
			eval: func(a Expr) Expr {
				switch {
				case isZeroNumber(a):
					return zero
				case a == Expr(Infinity):
					return one
				case a == Expr(NegInfinity):
					return minusOne
				}
				return nil
			},
			deriv:   func(a Expr) Expr { return Sub(one, PowOf(FuncOf("tanh", a), N(2))) },
			numeric: math.Tanh, odd: true, latex: `\tanh`,
		},
		"exp": {
			eval:    evalExp,
			deriv:   func(a Expr) Expr { return FuncOf("exp", a) },
			numeric: math.Exp,
		},
		"log": {
			eval:    evalLog,
			deriv:   func(a Expr) Expr { return PowOf(a, minusOne) },
			numeric: math.Log, latex: `\log`,
		},
		"Abs": {
			eval:    evalAbs,
			deriv:   func(a Expr) Expr { return FuncOf("sign", a) },
			numeric: math.Abs, even: true,
		},
		"sign": {
			eval: func(a Expr) Expr {
				if isNumericAtom(a) {
					return N(int64(sgn(numericAtom(a))))
				}
				return nil
			},
			deriv:   func(Expr) Expr { return zero },
			numeric: sgn, odd: true, latex: `\operatorname{sign}`,
		},
		"floor": {
			eval:    roundingEval(math.Floor),
			deriv:   func(Expr) Expr { return zero },
			numeric: math.Floor,
		},
		"ceiling": {
			eval:    roundingEval(math.Ceil),
			deriv:   func(Expr) Expr { return zero },
			numeric: math.Ceil,
		},
		"factorial": {
			eval:    evalFactorial,
			numeric: func(x float64) float64 { return math.Gamma(x + 1) },
		},
	}
}

// FuncNames lists the elementary functions FuncOf evaluates.
func FuncNames() []string {
	out := make([]string, 0, len(funcs))
	for n := range funcs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// FuncOf applies the named function, evaluating exact special values.
func FuncOf(name string, arg Expr) Expr {
	if name == "ln" {
		name = "log"
	}
	def, ok := funcs[name]
	if !ok {
		return &Func{name: name, arg: arg}
	}
	if arg == Expr(NaN) {
		return NaN
	}
	if _, ok := arg.(*Matrix); ok {
		panic(mathErrorf("%s() does not accept a matrix argument", name))
	}
	if f, ok := arg.(*Float); ok && def.numeric != nil {
		if v := def.numeric(f.val); !math.IsNaN(v) {
			return NFloat(v)
		}
	}
	if def.odd || def.even {
		if c, _ := splitCoeff(arg); numberSign(c) < 0 {
			pos := Neg(arg)
			if def.odd {
				return Neg(FuncOf(name, pos))
			}
			return FuncOf(name, pos)
		}
	}
	if def.eval != nil {
		if v := def.eval(arg); v != nil {
			return v
		}
	}
	return &Func{name: name, arg: arg}
}

func Sin(x Expr) Expr  { return FuncOf("sin", x) }
func Cos(x Expr) Expr  { return FuncOf("cos", x) }
func Tan(x Expr) Expr  { return FuncOf("tan", x) }
func Exp(x Expr) Expr  { return FuncOf("exp", x) }
func Log(x Expr) Expr  { return FuncOf("log", x) }
func Abs(x Expr) Expr  { return FuncOf("Abs", x) }
func Asin(x Expr) Expr { return FuncOf("asin", x) }
func Acos(x Expr) Expr { return FuncOf("acos", x) }
func Atan(x Expr) Expr { return FuncOf("atan", x) }

func (f *Func) Name() string { return f.name }
func (f *Func) Arg() Expr    { return f.arg }

func (f *Func) Equal(other Expr) bool {
	o, ok := other.(*Func)
	return ok && f.name == o.name && f.arg.Equal(o.arg)
}

func (f *Func) Subs(name string, value Expr) Expr {
	return SubsMap(f, map[string]Expr{name: value})
}

func (f *Func) Diff(name string) Expr {
	d := f.arg.Diff(name)
	if isZeroNumber(d) {
		return zero
	}
	def, ok := funcs[f.name]
	if !ok || def.deriv == nil {
		panic(mathErrorf("cannot differentiate %s", f.name))
	}
	return MulOf(def.deriv(f.arg), d)
}

// ------------------------------------------------------------
// special values
// ------------------------------------------------------------

// piCoeff reports k when a is k*pi for a rational k.
func piCoeff(a Expr) (*Num, bool) {
	if a == Expr(Pi) {
		return one, true
	}
	m, ok := a.(*Mul)
	if !ok || len(m.factors) != 1 || m.factors[0] != Expr(Pi) {
		return nil, false
	}
	c, ok := m.coeff.(*Num)
	return c, ok
}

// sinPi returns sin(k*pi) for k a multiple of 1/6 or 1/4, nil otherwise.
func sinPi(k *Num) Expr {
	two := N(2)
	// reduce into [0, 2)
	r := numSub(k, numMul(two, floorNum(numDiv(k, two))))
	sign := one
	if numCmp(r, one) >= 0 {
		r = numSub(r, one)
		sign = minusOne
	}
	if numCmp(r, F(1, 2)) > 0 {
		r = numSub(one, r)
	}
	var v Expr
	switch {
	case r.IsZero():
		v = zero
	case r.Equal(F(1, 6)):
		v = F(1, 2)
	case r.Equal(F(1, 4)):
		v = MulOf(F(1, 2), Sqrt(N(2)))
	case r.Equal(F(1, 3)):
		v = MulOf(F(1, 2), Sqrt(N(3)))
	case r.Equal(F(1, 2)):
		v = one
	default:
		return nil
	}
	return MulOf(sign, v)
}

func cosPi(k *Num) Expr { return sinPi(numSub(F(1, 2), k)) }

// inverseOf unwraps f(finv(y)) = y.
func inverseOf(a Expr, inverse string) Expr {
	if f, ok := a.(*Func); ok && f.name == inverse {
		return f.arg
	}
	return nil
}

func evalExp(a Expr) Expr {
	switch {
	case isZeroNumber(a):
		return one
	case a == Expr(Infinity):
		return Infinity
	case a == Expr(NegInfinity):
		return zero
	case a == Expr(ComplexInfinity):
		return NaN
	}
	if f, ok := a.(*Func); ok && f.name == "log" {
		return f.arg
	}
	if m, ok := a.(*Mul); ok {
		c, cok := m.coeff.(*Num)
		if cok && len(m.factors) == 1 {
			if f, ok := m.factors[0].(*Func); ok && f.name == "log" {
				return PowOf(f.arg, c)
			}
		}
		if cok && len(m.factors) == 2 && m.factors[0] == Expr(I) && m.factors[1] == Expr(Pi) {
			re, im := cosPi(c), sinPi(c)
			if re != nil && im != nil {
				return AddOf(re, MulOf(I, im))
			}
		}
	}
	return nil
}

func evalLog(a Expr) Expr {
	switch {
	case isOneNumber(a):
		return zero
	case isZeroNumber(a):
		return ComplexInfinity
	case a == Expr(E):
		return one
	case a == Expr(Infinity), a == Expr(NegInfinity):
		return Infinity
	case a.Equal(minusOne):
		return MulOf(I, Pi)
	}
	if f, ok := a.(*Func); ok && f.name == "exp" && isNumber(f.arg) {
		return f.arg
	}
	return nil
}

func evalAbs(a Expr) Expr {
	switch v := a.(type) {
	case *Num:
		return numAbs(v)
	case *Const:
		switch v {
		case Pi, E:
			return v
		case Infinity, NegInfinity:
			return Infinity
		case I:
			return one
		}
	case *Func:
		if v.name == "Abs" {
			return v
		}
	case *Mul:
		if c, ok := v.coeff.(*Num); ok && !c.IsOne() {
			return MulOf(numAbs(c), FuncOf("Abs", v.rest()))
		}
	case *Pow:
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			return PowOf(FuncOf("Abs", v.base), n)
		}
	}
	return nil
}

func roundingEval(round func(float64) float64) func(Expr) Expr {
	return func(a Expr) Expr {
		if n, ok := a.(*Num); ok && n.IsInteger() {
			return n
		}
		if isNumericAtom(a) {
			return Number(round(numericAtom(a)))
		}
		return nil
	}
}

func evalFactorial(a Expr) Expr {
	n, ok := a.(*Num)
	if !ok || !n.IsInteger() {
		return nil
	}
	k, ok := n.Int64()
	if !ok || k < 0 || k > 1000 {
		if k < 0 {
			return ComplexInfinity
		}
		return nil
	}
	acc := one
	for i := int64(2); i <= k; i++ {
		acc = numMul(acc, N(i))
	}
	return acc
}

func numericAtom(e Expr) float64 {
	if c, ok := e.(*Const); ok {
		return c.value
	}
	return numberFloat(e)
}

func sgn(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}
