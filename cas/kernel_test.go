package cas_test

import (
	"strings"
	"testing"

	"github.com/njchilds90/symengine/cas"
)

var (
	x = cas.S("x")
	y = cas.S("y")
)

func same(t *testing.T, got, want cas.Expr) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("want %s, got %s", want, got)
	}
}

// ============================================================
// Num tests
// ============================================================

func TestNum_Rational(t *testing.T) {
	n := cas.F(2, 4)
	if n.String() != "1/2" {
		t.Errorf("want 1/2, got %s", n.String())
	}
	if n.LaTeX() != `\frac{1}{2}` {
		t.Errorf("want \\frac{1}{2}, got %s", n.LaTeX())
	}
}

func TestNumber_IntegralFloatIsExact(t *testing.T) {
	if _, ok := cas.Number(3).(*cas.Num); !ok {
		t.Errorf("Number(3) should be exact")
	}
	if _, ok := cas.Number(2.5).(*cas.Float); !ok {
		t.Errorf("Number(2.5) should be a float")
	}
}

func TestFloat_String(t *testing.T) {
	if s := cas.NFloat(2).String(); s != "2.0" {
		t.Errorf("want 2.0, got %s", s)
	}
	if s := cas.NFloat(2.25).String(); s != "2.25" {
		t.Errorf("want 2.25, got %s", s)
	}
}

// ============================================================
// Canonical forms
// ============================================================

func TestAdd_CollectsLikeTerms(t *testing.T) {
	same(t, cas.AddOf(x, x, y), cas.AddOf(cas.MulOf(cas.N(2), x), y))
	same(t, cas.Sub(x, x), cas.N(0))
}

func TestAdd_IsOrderIndependent(t *testing.T) {
	same(t, cas.AddOf(y, x, cas.N(1)), cas.AddOf(cas.N(1), x, y))
}

func TestMul_CombinesPowers(t *testing.T) {
	same(t, cas.MulOf(x, x, x), cas.PowOf(x, cas.N(3)))
	same(t, cas.Div(x, x), cas.N(1))
}

func TestPow_NumericFolding(t *testing.T) {
	same(t, cas.PowOf(cas.N(2), cas.N(10)), cas.N(1024))
	same(t, cas.PowOf(cas.N(4), cas.F(1, 2)), cas.N(2))
	same(t, cas.PowOf(x, cas.N(0)), cas.N(1))
}

func TestFunc_KnownValues(t *testing.T) {
	same(t, cas.Sin(cas.N(0)), cas.N(0))
	same(t, cas.Cos(cas.Pi), cas.N(-1))
	same(t, cas.Exp(cas.N(0)), cas.N(1))
	same(t, cas.Log(cas.E), cas.N(1))
}

// ============================================================
// Printing
// ============================================================

func TestString_Polynomial(t *testing.T) {
	e := cas.AddOf(cas.PowOf(x, cas.N(2)), cas.MulOf(cas.N(2), x), cas.N(1))
	if e.String() != "x**2 + 2*x + 1" {
		t.Errorf("want x**2 + 2*x + 1, got %s", e.String())
	}
}

func TestString_Fraction(t *testing.T) {
	e := cas.MulOf(cas.F(1, 6), cas.PowOf(x, cas.N(3)))
	if e.String() != "x**3/6" {
		t.Errorf("want x**3/6, got %s", e.String())
	}
	if s := cas.Div(cas.N(1), cas.AddOf(x, cas.N(1))).String(); s != "1/(x + 1)" {
		t.Errorf("want 1/(x + 1), got %s", s)
	}
}

func TestString_Containers(t *testing.T) {
	d := &cas.Dict{}
	d.Set(x, cas.N(2))
	for _, tc := range []struct {
		e    cas.Expr
		want string
	}{
		{cas.ListOf(x, y), "[x, y]"},
		{cas.TupleOf(x, y), "(x, y)"},
		{cas.TupleOf(x), "(x,)"},
		{d, "{x: 2}"},
		{cas.Eq(x, cas.N(1)), "Eq(x, 1)"},
		{cas.BoolOf(true), "True"},
	} {
		if got := tc.e.String(); got != tc.want {
			t.Errorf("want %s, got %s", tc.want, got)
		}
	}
}

func TestLaTeX(t *testing.T) {
	if s := cas.Div(x, cas.N(2)).LaTeX(); s != `\frac{x}{2}` {
		t.Errorf("want \\frac{x}{2}, got %s", s)
	}
	if s := cas.Sqrt(x).LaTeX(); s != `\sqrt{x}` {
		t.Errorf("want \\sqrt{x}, got %s", s)
	}
}

func TestSrepr(t *testing.T) {
	got := cas.Srepr(cas.AddOf(x, cas.N(1)))
	if !strings.HasPrefix(got, "Add(") || !strings.Contains(got, "Symbol('x')") || !strings.Contains(got, "Integer(1)") {
		t.Errorf("unexpected srepr %s", got)
	}
}

// ============================================================
// Symbol queries
// ============================================================

func TestFreeSymbols_Sorted(t *testing.T) {
	got := cas.FreeSymbols(cas.AddOf(y, cas.Sin(x), cas.Pi))
	if strings.Join(got, ",") != "x,y" {
		t.Errorf("want [x y], got %v", got)
	}
}

func TestSubsMap(t *testing.T) {
	e := cas.AddOf(cas.PowOf(x, cas.N(2)), y)
	same(t, cas.SubsMap(e, map[string]cas.Expr{"x": cas.N(3), "y": cas.N(1)}), cas.N(10))
}

func TestEvalf(t *testing.T) {
	v, ok := cas.Evalf(cas.MulOf(cas.N(2), cas.Pi)).(*cas.Float)
	if !ok || v.Value() < 6.2831 || v.Value() > 6.2832 {
		t.Errorf("want 2*pi ~ 6.2832, got %v", v)
	}
}

// ============================================================
// Radicals
// ============================================================

func TestRadicals(t *testing.T) {
	if got := cas.Sqrt(cas.N(8)).String(); got != "2*sqrt(2)" {
		t.Errorf("want 2*sqrt(2), got %s", got)
	}
	same(t, cas.Sqrt(cas.N(12)), cas.MulOf(cas.N(2), cas.Sqrt(cas.N(3))))
	same(t, cas.Sqrt(cas.F(1, 2)), cas.Div(cas.Sqrt(cas.N(2)), cas.N(2)))
	same(t, cas.MulOf(cas.Sqrt(cas.N(2)), cas.Sqrt(cas.N(2))), cas.N(2))
	same(t, cas.PowOf(cas.N(2), cas.F(3, 2)), cas.MulOf(cas.N(2), cas.Sqrt(cas.N(2))))
	same(t, cas.PowOf(cas.N(27), cas.F(1, 3)), cas.N(3))
}
