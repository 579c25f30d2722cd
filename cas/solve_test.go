package cas_test

import (
	"testing"

	"github.com/njchilds90/symengine/cas"
)

func hasSolution(sols []cas.Expr, want cas.Expr) bool {
	for _, s := range sols {
		if s.Equal(want) {
			return true
		}
	}
	return false
}

func TestSolve_Linear(t *testing.T) {
	sols, err := cas.Solve(cas.Eq(cas.AddOf(cas.MulOf(cas.N(2), x), cas.N(3)), cas.N(7)), "x")
	if err != nil {
		t.Fatal(err)
	}
	if len(sols) != 1 || !sols[0].Equal(cas.N(2)) {
		t.Errorf("want [2], got %v", sols)
	}
}

func TestSolve_Quadratic(t *testing.T) {
	sols, err := cas.Solve(cas.Sub(cas.PowOf(x, cas.N(2)), cas.N(4)), "x")
	if err != nil {
		t.Fatal(err)
	}
	if len(sols) != 2 || !hasSolution(sols, cas.N(2)) || !hasSolution(sols, cas.N(-2)) {
		t.Errorf("want [-2, 2], got %v", sols)
	}
}

func TestSolve_Irrational(t *testing.T) {
	sols, err := cas.Solve(cas.Sub(cas.PowOf(x, cas.N(2)), cas.N(2)), "x")
	if err != nil {
		t.Fatal(err)
	}
	if len(sols) != 2 || !hasSolution(sols, cas.Sqrt(cas.N(2))) {
		t.Errorf("want [-sqrt(2), sqrt(2)], got %v", sols)
	}
}

func TestSolve_RejectsPoles(t *testing.T) {
	// (x**2 - 1)/(x - 1) = 0 has x = -1 only
	e := cas.Div(cas.Sub(cas.PowOf(x, cas.N(2)), cas.N(1)), cas.Sub(x, cas.N(1)))
	sols, err := cas.Solve(e, "x")
	if err != nil {
		t.Fatal(err)
	}
	if len(sols) != 1 || !sols[0].Equal(cas.N(-1)) {
		t.Errorf("want [-1], got %v", sols)
	}
}

func TestSolve_NoDependence(t *testing.T) {
	sols, err := cas.Solve(cas.AddOf(y, cas.N(1)), "x")
	if err != nil {
		t.Fatal(err)
	}
	if len(sols) != 0 {
		t.Errorf("want no solutions, got %v", sols)
	}
}

func TestSolveSystem_Linear(t *testing.T) {
	eqs := []cas.Expr{
		cas.Eq(cas.AddOf(x, y), cas.N(3)),
		cas.Eq(cas.Sub(x, y), cas.N(1)),
	}
	out, err := cas.SolveSystem(eqs, []string{"x", "y"})
	if err != nil {
		t.Fatal(err)
	}
	d, ok := out.(*cas.Dict)
	if !ok {
		t.Fatalf("want a mapping, got %s", out)
	}
	if v, _ := d.Get(x); v == nil || !v.Equal(cas.N(2)) {
		t.Errorf("want x = 2, got %v", v)
	}
	if v, _ := d.Get(y); v == nil || !v.Equal(cas.N(1)) {
		t.Errorf("want y = 1, got %v", v)
	}
}

func TestRoots_Multiplicity(t *testing.T) {
	// (x - 1)**2 * (x + 2)
	e := cas.Expand(cas.MulOf(cas.PowOf(cas.Sub(x, cas.N(1)), cas.N(2)), cas.AddOf(x, cas.N(2))))
	d, err := cas.Roots(e, "x")
	if err != nil {
		t.Fatal(err)
	}
	if m, _ := d.Get(cas.N(1)); m == nil || !m.Equal(cas.N(2)) {
		t.Errorf("want root 1 with multiplicity 2, got %s", d)
	}
	if m, _ := d.Get(cas.N(-2)); m == nil || !m.Equal(cas.N(1)) {
		t.Errorf("want root -2 with multiplicity 1, got %s", d)
	}
}
