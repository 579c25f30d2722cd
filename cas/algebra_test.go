package cas_test

import (
	"testing"

	"github.com/njchilds90/symengine/cas"
)

// ============================================================
// Expand / Factor / rational functions
// ============================================================

func TestExpand_Binomial(t *testing.T) {
	got := cas.Expand(cas.PowOf(cas.AddOf(x, cas.N(1)), cas.N(2)))
	same(t, got, cas.AddOf(cas.PowOf(x, cas.N(2)), cas.MulOf(cas.N(2), x), cas.N(1)))
}

func TestExpand_Distributes(t *testing.T) {
	got := cas.Expand(cas.MulOf(x, cas.AddOf(x, y)))
	same(t, got, cas.AddOf(cas.PowOf(x, cas.N(2)), cas.MulOf(x, y)))
}

func TestFactor_RoundTrips(t *testing.T) {
	for _, e := range []cas.Expr{
		cas.Sub(cas.PowOf(x, cas.N(2)), cas.N(1)),
		cas.AddOf(cas.PowOf(x, cas.N(2)), cas.MulOf(cas.N(2), x), cas.N(1)),
		cas.Sub(cas.PowOf(x, cas.N(3)), x),
	} {
		f := cas.Factor(e)
		if _, ok := f.(*cas.Add); ok {
			t.Errorf("factor(%s) should be a product, got %s", e, f)
		}
		same(t, cas.Expand(f), e)
	}
}

func TestCancel_CommonFactor(t *testing.T) {
	e := cas.Div(cas.Sub(cas.PowOf(x, cas.N(2)), cas.N(1)), cas.Sub(x, cas.N(1)))
	same(t, cas.Cancel(e), cas.AddOf(x, cas.N(1)))
}

func TestTogether_CommonDenominator(t *testing.T) {
	e := cas.AddOf(cas.Div(cas.N(1), x), cas.Div(cas.N(1), y))
	got := cas.Together(e)
	same(t, cas.Expand(cas.Numer(got)), cas.AddOf(x, y))
	same(t, cas.Expand(cas.Denom(got)), cas.MulOf(x, y))
}

func TestApart_SimpleFractions(t *testing.T) {
	// 1/(x**2 - 1) = 1/(2*(x - 1)) - 1/(2*(x + 1))
	e := cas.Div(cas.N(1), cas.Sub(cas.PowOf(x, cas.N(2)), cas.N(1)))
	got, err := cas.Apart(e, "x")
	if err != nil {
		t.Fatalf("apart: %v", err)
	}
	if _, ok := got.(*cas.Add); !ok {
		t.Fatalf("want a sum of fractions, got %s", got)
	}
	same(t, cas.Ratsimp(cas.Sub(got, e)), cas.N(0))
}

func TestCollect_GroupsPowers(t *testing.T) {
	a := cas.S("a")
	e := cas.AddOf(cas.MulOf(a, x), cas.MulOf(y, x), cas.N(1))
	got := cas.Collect(e, "x")
	same(t, cas.Expand(got), e)
	if sum, ok := got.(*cas.Add); !ok || len(sum.Terms()) != 2 {
		t.Errorf("want (a + y)*x + 1, got %s", got)
	}
}

func TestTrigsimp_Pythagorean(t *testing.T) {
	e := cas.AddOf(cas.PowOf(cas.Sin(x), cas.N(2)), cas.PowOf(cas.Cos(x), cas.N(2)))
	same(t, cas.Trigsimp(e), cas.N(1))
	same(t, cas.Simplify(e), cas.N(1))
}

func TestGcd_Lcm(t *testing.T) {
	a := cas.Sub(cas.PowOf(x, cas.N(2)), cas.N(1))
	b := cas.AddOf(cas.PowOf(x, cas.N(2)), cas.MulOf(cas.N(2), x), cas.N(1))
	g, err := cas.Gcd(a, b)
	if err != nil {
		t.Fatal(err)
	}
	same(t, g, cas.AddOf(x, cas.N(1)))
	l, err := cas.Lcm(a, b)
	if err != nil {
		t.Fatal(err)
	}
	same(t, cas.Expand(l), cas.Expand(cas.MulOf(cas.Sub(x, cas.N(1)), cas.PowOf(cas.AddOf(x, cas.N(1)), cas.N(2)))))
}

func TestPolyDiv(t *testing.T) {
	q, r, err := cas.PolyDiv(cas.AddOf(cas.PowOf(x, cas.N(2)), cas.N(1)), cas.Sub(x, cas.N(1)), "x")
	if err != nil {
		t.Fatal(err)
	}
	same(t, q, cas.AddOf(x, cas.N(1)))
	same(t, r, cas.N(2))
}

func TestDegree(t *testing.T) {
	d, err := cas.Degree(cas.AddOf(cas.PowOf(x, cas.N(3)), x), "x")
	if err != nil {
		t.Fatal(err)
	}
	same(t, d, cas.N(3))
}
