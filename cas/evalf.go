package cas

import "math"

// Evalf replaces exact numbers and real constants with floats, keeping
// integer exponents exact.
func Evalf(e Expr) Expr {
	switch v := e.(type) {
	case *Num:
		return NFloat(v.Float64())
	case *Const:
		if v == Pi || v == E {
			return NFloat(v.value)
		}
		return v
	case *Pow:
		base := Evalf(v.base)
		if n, ok := v.exp.(*Num); ok && n.IsInteger() {
			return PowOf(base, n)
		}
		return PowOf(base, Evalf(v.exp))
	case *Func:
		return FuncOf(v.name, Evalf(v.arg))
	}
	return mapArgs(e, Evalf)
}

// evalFloat evaluates a closed real expression to a float64.
func evalFloat(e Expr) (float64, bool) {
	switch v := Evalf(e).(type) {
	case *Float:
		return v.val, !math.IsNaN(v.val)
	case *Num:
		return v.Float64(), true
	case *Const:
		switch v {
		case Infinity:
			return math.Inf(1), true
		case NegInfinity:
			return math.Inf(-1), true
		}
	}
	return 0, false
}

// evalAt evaluates e with x bound to a float.
func evalAt(e Expr, x string, at float64) (float64, bool) {
	return evalFloat(e.Subs(x, NFloat(at)))
}
