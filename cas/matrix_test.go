package cas_test

import (
	"testing"

	"github.com/njchilds90/symengine/cas"
)

func mat(t *testing.T, rows ...[]cas.Expr) *cas.Matrix {
	t.Helper()
	m, err := cas.MatrixFromRows(rows)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func row(vs ...int64) []cas.Expr {
	out := make([]cas.Expr, len(vs))
	for i, v := range vs {
		out[i] = cas.N(v)
	}
	return out
}

func TestMatrix_String(t *testing.T) {
	m := mat(t, row(1, 2), row(3, 4))
	if s := m.T().String(); s != "Matrix([[1, 3], [2, 4]])" {
		t.Errorf("want Matrix([[1, 3], [2, 4]]), got %s", s)
	}
}

func TestMatrix_Ragged(t *testing.T) {
	if _, err := cas.MatrixFromRows([][]cas.Expr{row(1, 2), row(3)}); err == nil {
		t.Errorf("ragged rows should fail")
	}
}

func TestMatrix_DetTrace(t *testing.T) {
	m := mat(t, row(2, 0, 1), row(1, 3, 2), row(1, 1, 2))
	det, err := m.Det()
	if err != nil {
		t.Fatal(err)
	}
	same(t, det, cas.N(6))
	tr, err := m.Trace()
	if err != nil {
		t.Fatal(err)
	}
	same(t, tr, cas.N(7))
}

func TestMatrix_Symbolic(t *testing.T) {
	m := mat(t, []cas.Expr{x, cas.N(1)}, []cas.Expr{cas.N(1), x})
	det, err := m.Det()
	if err != nil {
		t.Fatal(err)
	}
	same(t, det, cas.Sub(cas.PowOf(x, cas.N(2)), cas.N(1)))
}

func TestMatrix_InvTimesSelfIsIdentity(t *testing.T) {
	m := mat(t, row(1, 2), row(3, 4))
	inv, err := m.Inv()
	if err != nil {
		t.Fatal(err)
	}
	same(t, cas.MulOf(m, inv), cas.Identity(2))
}

func TestMatrix_SingularInverse(t *testing.T) {
	if _, err := mat(t, row(1, 2), row(2, 4)).Inv(); err == nil {
		t.Errorf("singular inverse should fail")
	}
}

func TestMatrix_NonSquare(t *testing.T) {
	m := mat(t, row(1, 2, 3))
	if _, err := m.Det(); err == nil {
		t.Errorf("det of 1x3 should fail")
	}
	if m.Rank() != 1 {
		t.Errorf("want rank 1, got %d", m.Rank())
	}
}

func TestMatrix_Arithmetic(t *testing.T) {
	m := mat(t, row(1, 2), row(3, 4))
	same(t, cas.AddOf(m, m), cas.MulOf(cas.N(2), m))
	same(t, cas.PowOf(m, cas.N(2)), mat(t, row(7, 10), row(15, 22)))
}
