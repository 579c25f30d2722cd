package cas_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/njchilds90/symengine/cas"
)

func op(t *testing.T, name string) *cas.Operation {
	t.Helper()
	m, ok := cas.Library().Root.Attr(name)
	if !ok {
		t.Fatalf("%s not in library", name)
	}
	o, ok := cas.Invocable(m)
	if !ok {
		t.Fatalf("%s is not invocable", name)
	}
	return o
}

func call(t *testing.T, name string, args []any, kwargs map[string]any) any {
	t.Helper()
	c, err := op(t, name).Bind(args, kwargs)
	if err != nil {
		t.Fatalf("bind %s: %v", name, err)
	}
	out, err := c.Invoke()
	if err != nil {
		t.Fatalf("invoke %s: %v", name, err)
	}
	return out
}

// ============================================================
// Binding
// ============================================================

func TestBind_TooManyArguments(t *testing.T) {
	_, err := op(t, "expand").Bind([]any{x, x, x}, nil)
	var be *cas.BindError
	if !errors.As(err, &be) {
		t.Fatalf("want *BindError, got %v", err)
	}
	if !strings.HasPrefix(be.Error(), "expand() ") {
		t.Errorf("want expand() prefix, got %s", be.Error())
	}
}

func TestBind_UnknownKeyword(t *testing.T) {
	_, err := op(t, "expand").Bind([]any{x}, map[string]any{"bogus": true})
	var be *cas.BindError
	if !errors.As(err, &be) {
		t.Errorf("want *BindError, got %v", err)
	}
}

func TestBind_MissingRequired(t *testing.T) {
	_, err := op(t, "gcd").Bind([]any{x}, nil)
	var be *cas.BindError
	if !errors.As(err, &be) {
		t.Errorf("want *BindError, got %v", err)
	}
}

func TestBind_SymbolMustOccur(t *testing.T) {
	_, err := op(t, "laplace_transform").Bind([]any{cas.Exp(cas.S("t")), cas.S("s"), cas.S("t")}, nil)
	var be *cas.BindError
	if !errors.As(err, &be) {
		t.Errorf("transform variable absent from the expression: want *BindError, got %v", err)
	}
}

func TestBind_ConvertsStrings(t *testing.T) {
	out := call(t, "diff", []any{cas.PowOf(x, cas.N(2)), "x"}, nil)
	same(t, out.(cas.Expr), cas.MulOf(cas.N(2), x))
}

func TestInvoke_MathErrorIsReturned(t *testing.T) {
	c, err := op(t, "det").Bind([]any{cas.ListOf(x)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Invoke(); err == nil {
		t.Errorf("det of a list should fail")
	}
}

// ============================================================
// Operations
// ============================================================

func TestOps_Diff(t *testing.T) {
	e := cas.PowOf(x, cas.N(3))
	same(t, call(t, "diff", []any{e, x, cas.N(2)}, nil).(cas.Expr), cas.MulOf(cas.N(6), x))
	same(t, call(t, "diff", []any{e, x, x}, nil).(cas.Expr), cas.MulOf(cas.N(6), x))
	same(t, call(t, "diff", []any{e}, nil).(cas.Expr), cas.MulOf(cas.N(3), cas.PowOf(x, cas.N(2))))
}

func TestOps_IntegrateDefinite(t *testing.T) {
	out := call(t, "integrate", []any{x, cas.TupleOf(x, cas.N(0), cas.N(2))}, nil)
	same(t, out.(cas.Expr), cas.N(2))
}

func TestOps_SolveDict(t *testing.T) {
	out := call(t, "solve", []any{cas.Sub(x, cas.N(1)), x}, map[string]any{"dict": true})
	if s := out.(cas.Expr).String(); s != "[{x: 1}]" {
		t.Errorf("want [{x: 1}], got %s", s)
	}
}

func TestOps_LaplaceConditions(t *testing.T) {
	tt, s := cas.S("t"), cas.S("s")
	out := call(t, "laplace_transform", []any{cas.Exp(cas.Neg(tt)), tt, s}, nil)
	tup, ok := out.(*cas.List)
	if !ok || !tup.IsTuple() || tup.Len() != 3 {
		t.Fatalf("want (F, a, cond), got %v", out)
	}
	out = call(t, "laplace_transform", []any{cas.Exp(cas.Neg(tt)), tt, s}, map[string]any{"noconds": true})
	same(t, out.(cas.Expr), cas.Div(cas.N(1), cas.AddOf(s, cas.N(1))))
}

func TestOps_Matrix(t *testing.T) {
	m := call(t, "Matrix", []any{cas.ListOf(cas.ListOf(cas.N(1), cas.N(2)), cas.ListOf(cas.N(3), cas.N(4)))}, nil)
	same(t, call(t, "det", []any{m}, nil).(cas.Expr), cas.N(-2))
	trace, ok := cas.Attr(op(t, "Matrix"), "trace")
	if !ok {
		t.Fatalf("Matrix.trace missing")
	}
	c, err := trace.(*cas.Operation).Bind([]any{m}, nil)
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Invoke()
	if err != nil {
		t.Fatal(err)
	}
	same(t, out.(cas.Expr), cas.N(5))
}

func TestOps_Latex(t *testing.T) {
	if s := call(t, "latex", []any{cas.Sqrt(x)}, nil); s != `\sqrt{x}` {
		t.Errorf("want \\sqrt{x}, got %v", s)
	}
}

// ============================================================
// Namespaces
// ============================================================

func TestLibrary_Import(t *testing.T) {
	ns, ok := cas.Library().Import("integrals.transforms")
	if !ok {
		t.Fatalf("integrals.transforms should import")
	}
	m, ok := ns.Attr("inverse_laplace_transform")
	if _, inv := cas.Invocable(m); !ok || !inv {
		t.Errorf("inverse_laplace_transform should be invocable")
	}
	if _, ok := cas.Library().Import("polys.nope"); ok {
		t.Errorf("polys.nope should not import")
	}
}

func TestLibrary_AttributeTraversal(t *testing.T) {
	lib := cas.Library()
	integrals, ok := lib.Import("integrals")
	if !ok {
		t.Fatalf("integrals should import")
	}
	sub, ok := cas.Attr(integrals, "transforms")
	if !ok {
		t.Fatalf("integrals.transforms should be an attribute")
	}
	if _, ok := cas.Invocable(sub); ok {
		t.Errorf("a namespace is not invocable")
	}
}

func TestLibrary_OperationsExcludeConstants(t *testing.T) {
	ops := cas.Library().Operations()
	seen := map[string]bool{}
	for _, n := range ops {
		seen[n] = true
	}
	if seen["pi"] || seen["oo"] {
		t.Errorf("constants listed as operations")
	}
	for _, want := range []string{"diff", "solve", "sin", "Matrix", "laplace_transform"} {
		if !seen[want] {
			t.Errorf("want %s in operations", want)
		}
	}
}

func TestIsIdentifier(t *testing.T) {
	for s, want := range map[string]bool{"x": true, "x_1": true, "_t": true, "1x": false, "x y": false, "": false} {
		if cas.IsIdentifier(s) != want {
			t.Errorf("IsIdentifier(%q) = %v", s, !want)
		}
	}
}
