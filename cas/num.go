package cas

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

// ============================================================
// Num: exact rational number
// ============================================================

type Num struct{ val *big.Rat }

var (
	zero     = N(0)
	one      = N(1)
	minusOne = N(-1)
)

func N(n int64) *Num { return &Num{val: new(big.Rat).SetInt64(n)} }

func F(p, q int64) *Num {
	if q == 0 {
		panic(mathErrorf("division by zero"))
	}
	return &Num{val: new(big.Rat).SetFrac(big.NewInt(p), big.NewInt(q))}
}

// NumFromRat copies r into a Num.
func NumFromRat(r *big.Rat) *Num { return &Num{val: new(big.Rat).Set(r)} }

func numFromInt(i *big.Int) *Num { return &Num{val: new(big.Rat).SetInt(i)} }

func (n *Num) Equal(other Expr) bool {
	o, ok := other.(*Num)
	return ok && n.val.Cmp(o.val) == 0
}
func (n *Num) Subs(string, Expr) Expr { return n }
func (n *Num) Diff(string) Expr       { return zero }

func (n *Num) Float64() float64 { f, _ := n.val.Float64(); return f }
func (n *Num) IsZero() bool     { return n.val.Sign() == 0 }
func (n *Num) IsOne() bool      { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == 1 }
func (n *Num) IsNegOne() bool   { return n.val.IsInt() && n.val.Num().IsInt64() && n.val.Num().Int64() == -1 }
func (n *Num) IsInteger() bool  { return n.val.IsInt() }
func (n *Num) IsPositive() bool { return n.val.Sign() > 0 }
func (n *Num) IsNegative() bool { return n.val.Sign() < 0 }
func (n *Num) Rat() *big.Rat    { return new(big.Rat).Set(n.val) }

// Int64 reports the value when it is an integer that fits in an int64.
func (n *Num) Int64() (int64, bool) {
	if !n.val.IsInt() || !n.val.Num().IsInt64() {
		return 0, false
	}
	return n.val.Num().Int64(), true
}

func (n *Num) String() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	return n.val.RatString()
}

func (n *Num) LaTeX() string {
	if n.val.IsInt() {
		return n.val.Num().String()
	}
	sign := ""
	v := new(big.Rat).Set(n.val)
	if v.Sign() < 0 {
		sign = "-"
		v.Neg(v)
	}
	return fmt.Sprintf("%s\\frac{%s}{%s}", sign, v.Num().String(), v.Denom().String())
}

func numAdd(a, b *Num) *Num { return &Num{val: new(big.Rat).Add(a.val, b.val)} }
func numSub(a, b *Num) *Num { return &Num{val: new(big.Rat).Sub(a.val, b.val)} }
func numMul(a, b *Num) *Num { return &Num{val: new(big.Rat).Mul(a.val, b.val)} }
func numNeg(a *Num) *Num    { return &Num{val: new(big.Rat).Neg(a.val)} }
func numRecip(a *Num) *Num {
	if a.IsZero() {
		panic(mathErrorf("division by zero"))
	}
	return &Num{val: new(big.Rat).Inv(a.val)}
}
func numDiv(a, b *Num) *Num { return numMul(a, numRecip(b)) }
func numAbs(a *Num) *Num    { return &Num{val: new(big.Rat).Abs(a.val)} }
func numCmp(a, b *Num) int  { return a.val.Cmp(b.val) }

func floorNum(a *Num) *Num {
	return numFromInt(new(big.Int).Div(a.val.Num(), a.val.Denom()))
}

// numPowInt raises a to an integer power; false when the exponent is too large to
// expand exactly.
func numPowInt(a *Num, e int64) (*Num, bool) {
	if e > 4096 || e < -4096 {
		return nil, false
	}
	if e < 0 {
		if a.IsZero() {
			return nil, false
		}
		a, e = numRecip(a), -e
	}
	exp := big.NewInt(e)
	num := new(big.Int).Exp(a.val.Num(), exp, nil)
	den := new(big.Int).Exp(a.val.Denom(), exp, nil)
	return &Num{val: new(big.Rat).SetFrac(num, den)}, true
}

// ============================================================
// Float: inexact number
// ============================================================

type Float struct{ val float64 }

func NFloat(f float64) *Float { return &Float{val: f} }

func (f *Float) Value() float64 { return f.val }
func (f *Float) Equal(other Expr) bool {
	o, ok := other.(*Float)
	return ok && o.val == f.val
}
func (f *Float) Subs(string, Expr) Expr { return f }
func (f *Float) Diff(string) Expr       { return zero }
func (f *Float) String() string         { return formatFloat(f.val) }
func (f *Float) LaTeX() string          { return formatFloat(f.val) }

func formatFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "oo"
	case math.IsInf(f, -1):
		return "-oo"
	case math.IsNaN(f):
		return "nan"
	}
	s := strconv.FormatFloat(f, 'g', 15, 64)
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// Number converts a Go float to a kernel number: integral values become exact.
func Number(f float64) Expr {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return N(int64(f))
	}
	return NFloat(f)
}

// ============================================================
// Mixed arithmetic over Num and Float
// ============================================================

func isNumber(e Expr) bool {
	switch e.(type) {
	case *Num, *Float:
		return true
	}
	return false
}

func numberFloat(e Expr) float64 {
	switch v := e.(type) {
	case *Num:
		return v.Float64()
	case *Float:
		return v.val
	}
	return math.NaN()
}

func addNumbers(a, b Expr) Expr {
	an, aok := a.(*Num)
	bn, bok := b.(*Num)
	if aok && bok {
		return numAdd(an, bn)
	}
	return NFloat(numberFloat(a) + numberFloat(b))
}

func mulNumbers(a, b Expr) Expr {
	an, aok := a.(*Num)
	bn, bok := b.(*Num)
	if aok && bok {
		return numMul(an, bn)
	}
	return NFloat(numberFloat(a) * numberFloat(b))
}

func isZeroNumber(e Expr) bool {
	switch v := e.(type) {
	case *Num:
		return v.IsZero()
	case *Float:
		return v.val == 0
	}
	return false
}

func isOneNumber(e Expr) bool {
	n, ok := e.(*Num)
	return ok && n.IsOne()
}

func numberSign(e Expr) int {
	switch v := e.(type) {
	case *Num:
		return v.val.Sign()
	case *Float:
		switch {
		case v.val > 0:
			return 1
		case v.val < 0:
			return -1
		}
	}
	return 0
}

func gcdInt(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
