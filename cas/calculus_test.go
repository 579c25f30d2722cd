package cas_test

import (
	"errors"
	"testing"

	"github.com/njchilds90/symengine/cas"
)

// ============================================================
// Differentiation
// ============================================================

func TestDiff_PowerRule(t *testing.T) {
	same(t, cas.PowOf(x, cas.N(3)).Diff("x"), cas.MulOf(cas.N(3), cas.PowOf(x, cas.N(2))))
}

func TestDiff_Chain(t *testing.T) {
	e := cas.Sin(cas.PowOf(x, cas.N(2)))
	same(t, e.Diff("x"), cas.MulOf(cas.N(2), x, cas.Cos(cas.PowOf(x, cas.N(2)))))
}

func TestDiffN(t *testing.T) {
	same(t, cas.DiffN(cas.PowOf(x, cas.N(4)), "x", 2), cas.MulOf(cas.N(12), cas.PowOf(x, cas.N(2))))
	same(t, cas.DiffN(cas.Sin(x), "x", 0), cas.Sin(x))
}

// ============================================================
// Integration
// ============================================================

func TestIntegrate_Table(t *testing.T) {
	for _, tc := range []struct{ f, want cas.Expr }{
		{cas.PowOf(x, cas.N(2)), cas.MulOf(cas.F(1, 3), cas.PowOf(x, cas.N(3)))},
		{cas.Sin(x), cas.Neg(cas.Cos(x))},
		{cas.Exp(x), cas.Exp(x)},
		{cas.Div(cas.N(1), x), cas.Log(x)},
		{y, cas.MulOf(x, y)},
	} {
		got, err := cas.Integrate(tc.f, "x")
		if err != nil {
			t.Errorf("integrate(%s): %v", tc.f, err)
			continue
		}
		same(t, got, tc.want)
	}
}

func TestIntegrate_DerivativeRecovers(t *testing.T) {
	f := cas.AddOf(cas.MulOf(cas.N(3), cas.PowOf(x, cas.N(2))), cas.Cos(x), cas.N(5))
	got, err := cas.Integrate(f, "x")
	if err != nil {
		t.Fatal(err)
	}
	same(t, cas.Expand(cas.Sub(got.Diff("x"), f)), cas.N(0))
}

func TestDefiniteIntegrate(t *testing.T) {
	got, err := cas.DefiniteIntegrate(cas.PowOf(x, cas.N(2)), "x", cas.N(0), cas.N(1))
	if err != nil {
		t.Fatal(err)
	}
	same(t, got, cas.F(1, 3))
}

func TestDefiniteIntegrate_Divergent(t *testing.T) {
	for _, e := range []cas.Expr{
		cas.PowOf(x, cas.N(-2)),
		cas.Div(cas.N(1), x),
		cas.Div(cas.N(1), cas.Sub(x, cas.N(1))),
	} {
		got, err := cas.DefiniteIntegrate(e, "x", cas.N(-1), cas.N(2))
		var me *cas.MathError
		if !errors.As(err, &me) {
			t.Errorf("%s over [-1, 2]: want a divergence error, got %v (%v)", e, got, err)
		}
	}
}

func TestDefiniteIntegrate_PoleOutsideInterval(t *testing.T) {
	got, err := cas.DefiniteIntegrate(cas.Div(cas.N(1), x), "x", cas.N(1), cas.N(2))
	if err != nil {
		t.Fatal(err)
	}
	same(t, got, cas.Log(cas.N(2)))
}

func TestIntegrate_NoClosedForm(t *testing.T) {
	_, err := cas.Integrate(cas.Exp(cas.PowOf(x, cas.N(2))), "x")
	if !errors.Is(err, cas.ErrNoClosedForm) {
		t.Errorf("want ErrNoClosedForm, got %v", err)
	}
}

// ============================================================
// Limits
// ============================================================

func TestLimit(t *testing.T) {
	for _, tc := range []struct {
		e, x0, want cas.Expr
		dir         string
	}{
		{cas.Div(cas.Sin(x), x), cas.N(0), cas.N(1), "+"},
		{cas.Div(cas.N(1), x), cas.Infinity, cas.N(0), "+"},
		{cas.Div(cas.N(1), x), cas.N(0), cas.Infinity, "+"},
		{cas.Div(cas.N(1), x), cas.N(0), cas.NegInfinity, "-"},
		{cas.Div(cas.Sub(cas.PowOf(x, cas.N(2)), cas.N(1)), cas.Sub(x, cas.N(1))), cas.N(1), cas.N(2), "+"},
	} {
		got, err := cas.Limit(tc.e, "x", tc.x0, tc.dir)
		if err != nil {
			t.Errorf("limit(%s, x, %s): %v", tc.e, tc.x0, err)
			continue
		}
		same(t, got, tc.want)
	}
}

func TestLimit_TwoSidedDisagree(t *testing.T) {
	if _, err := cas.Limit(cas.Div(cas.N(1), x), "x", cas.N(0), "+-"); err == nil {
		t.Errorf("two-sided limit of 1/x at 0 should fail")
	}
}

// ============================================================
// Series
// ============================================================

func TestSeries_Exp(t *testing.T) {
	got, err := cas.Series(cas.Exp(x), "x", cas.N(0), 4)
	if err != nil {
		t.Fatal(err)
	}
	want := cas.AddOf(cas.N(1), x, cas.MulOf(cas.F(1, 2), cas.PowOf(x, cas.N(2))), cas.MulOf(cas.F(1, 6), cas.PowOf(x, cas.N(3))))
	same(t, cas.RemoveO(got), want)
	if got.Equal(want) {
		t.Errorf("series should carry an O term, got %s", got)
	}
}

func TestSeries_Sin(t *testing.T) {
	got, err := cas.Series(cas.Sin(x), "x", cas.N(0), 6)
	if err != nil {
		t.Fatal(err)
	}
	want := cas.AddOf(x, cas.MulOf(cas.F(-1, 6), cas.PowOf(x, cas.N(3))), cas.MulOf(cas.F(1, 120), cas.PowOf(x, cas.N(5))))
	same(t, cas.RemoveO(got), want)
}

// ============================================================
// Laplace transforms
// ============================================================

func TestLaplaceTransform_Exp(t *testing.T) {
	s := cas.S("s")
	f, a, err := cas.LaplaceTransform(cas.Exp(cas.MulOf(cas.N(2), cas.S("t"))), "t", "s")
	if err != nil {
		t.Fatal(err)
	}
	same(t, f, cas.Div(cas.N(1), cas.Sub(s, cas.N(2))))
	same(t, a, cas.N(2))
}

func TestLaplaceTransform_RoundTrip(t *testing.T) {
	tt := cas.S("t")
	for _, f := range []cas.Expr{
		cas.Exp(cas.Neg(tt)),
		cas.Sin(tt),
		cas.PowOf(tt, cas.N(2)),
	} {
		F, _, err := cas.LaplaceTransform(f, "t", "s")
		if err != nil {
			t.Errorf("laplace(%s): %v", f, err)
			continue
		}
		back, err := cas.InverseLaplaceTransform(F, "s", "t")
		if err != nil {
			t.Errorf("inverse laplace(%s): %v", F, err)
			continue
		}
		same(t, cas.Expand(back), cas.Expand(f))
	}
}

// ============================================================
// Vector calculus
// ============================================================

func TestGradient_Laplacian(t *testing.T) {
	f := cas.AddOf(cas.PowOf(x, cas.N(2)), cas.MulOf(x, y))
	g := cas.Gradient(f, []string{"x", "y"})
	same(t, g.At(0, 0), cas.AddOf(cas.MulOf(cas.N(2), x), y))
	same(t, g.At(1, 0), x)
	same(t, cas.Laplacian(f, []string{"x", "y"}), cas.N(2))
}

func TestJacobian(t *testing.T) {
	j := cas.Jacobian([]cas.Expr{cas.MulOf(x, y), cas.AddOf(x, y)}, []string{"x", "y"})
	if j.Rows() != 2 || j.Cols() != 2 {
		t.Fatalf("want 2x2, got %dx%d", j.Rows(), j.Cols())
	}
	same(t, j.At(0, 0), y)
	same(t, j.At(1, 1), cas.N(1))
}
