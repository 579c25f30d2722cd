package engine_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/njchilds90/symengine/cas"
	"github.com/njchilds90/symengine/engine"
)

func newEngine() *engine.Engine { return engine.New(engine.NewConfig()) }

// sameExpr parses both strings and compares them structurally.
func sameExpr(t *testing.T, got, want string) {
	t.Helper()
	vocab := engine.NewVocabulary(cas.Library(), engine.DefaultAllowlist()).Declare("x", "y", "s", "t")
	g, err := engine.Parse(got, vocab)
	if err != nil {
		t.Fatalf("parse %q: %v", got, err)
	}
	w, err := engine.Parse(want, vocab)
	if err != nil {
		t.Fatalf("parse %q: %v", want, err)
	}
	if !g.Equal(w) {
		t.Errorf("want %s, got %s", w, g)
	}
}

func mustCompute(t *testing.T, e *engine.Engine, req engine.Request) *engine.Response {
	t.Helper()
	resp, err := e.Compute(req)
	if err != nil {
		t.Fatalf("Compute(%+v): %v", req, err)
	}
	return resp
}

// ============================================================
// Fast path
// ============================================================

func TestCompute_SolveQuadratic(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{Expression: "x**2 - 4", Task: "solve", Variable: "x"})
	if strings.Count(resp.ResultText, "{") != 2 {
		t.Fatalf("want two solution mappings, got %s", resp.ResultText)
	}
	for _, want := range []string{"{x: -2}", "{x: 2}"} {
		if !strings.Contains(resp.ResultText, want) {
			t.Errorf("want %s in %s", want, resp.ResultText)
		}
	}
}

func TestCompute_SolveIrrational(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{Expression: "x**2 - 2", Task: "solve", Variable: "x"})
	for _, want := range []string{"{x: -sqrt(2)}", "{x: sqrt(2)}"} {
		if !strings.Contains(resp.ResultText, want) {
			t.Errorf("want %s in %s", want, resp.ResultText)
		}
	}
}

func TestCompute_SimplifyRadical(t *testing.T) {
	for in, want := range map[string]string{"sqrt(8)": "2*sqrt(2)", "sqrt(2)": "sqrt(2)", "sqrt(2)*sqrt(2)": "2"} {
		resp := mustCompute(t, newEngine(), engine.Request{Expression: in, Task: "simplify"})
		if resp.ResultText != want {
			t.Errorf("%s: want %s, got %s", in, want, resp.ResultText)
		}
	}
}

func TestCompute_DivergentIntegral(t *testing.T) {
	for _, expr := range []string{"1/x**2", "1/x", "1/(x - 1)"} {
		_, err := newEngine().Compute(engine.Request{
			Expression:     expr,
			Task:           "integrate",
			PositionalArgs: []any{[]any{"x", -1.0, 2.0}},
		})
		if !errors.Is(err, engine.ErrComputation) {
			t.Errorf("%s over [-1, 2]: want ErrComputation, got %v", expr, err)
		}
	}
}

func TestCompute_SolveDefaultsToFirstFreeSymbol(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{Expression: "Eq(2*b, a)", Task: "solve"})
	if resp.ResultText != "[{a: 2*b}]" {
		t.Errorf("want [{a: 2*b}], got %s", resp.ResultText)
	}
}

func TestCompute_SolveNoTarget(t *testing.T) {
	_, err := newEngine().Compute(engine.Request{Expression: "4", Task: "solve"})
	if !errors.Is(err, engine.ErrNoSolveTarget) {
		t.Errorf("want ErrNoSolveTarget, got %v", err)
	}
}

func TestCompute_LimitSinc(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{
		Expression:    "sin(x)/x",
		Task:          "limit",
		Variable:      "x",
		Substitutions: map[string]float64{"x": 0},
	})
	if resp.ResultText != "1" {
		t.Errorf("want 1, got %s", resp.ResultText)
	}
	if p, ok := resp.Metadata["limitPoint"].(float64); !ok || p != 0 {
		t.Errorf("want limitPoint 0, got %v", resp.Metadata["limitPoint"])
	}
}

func TestCompute_LimitKeepsOtherSubstitutions(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{
		Expression:    "a*sin(x)/x",
		Task:          "limit",
		Variable:      "x",
		Substitutions: map[string]float64{"x": 0, "a": 3},
	})
	if resp.ResultText != "3" {
		t.Errorf("want 3, got %s", resp.ResultText)
	}
}

func TestCompute_LimitDirection(t *testing.T) {
	e := newEngine()
	for _, tc := range []struct{ dir, want string }{{"+", "oo"}, {"-", "-oo"}} {
		resp := mustCompute(t, e, engine.Request{
			Expression:  "1/x",
			Task:        "limit",
			Variable:    "x",
			KeywordArgs: map[string]any{"dir": tc.dir},
		})
		if resp.ResultText != tc.want {
			t.Errorf("dir %s: want %s, got %s", tc.dir, tc.want, resp.ResultText)
		}
	}
}

func TestCompute_SeriesExp(t *testing.T) {
	order := 4
	resp := mustCompute(t, newEngine(), engine.Request{Expression: "exp(x)", Task: "series", Variable: "x", SeriesOrder: &order})
	if strings.Contains(resp.ResultText, "O(") {
		t.Fatalf("remainder term should be stripped, got %s", resp.ResultText)
	}
	sameExpr(t, resp.ResultText, "1 + x + x**2/2 + x**3/6")
}

func TestCompute_DiffOfIntegral(t *testing.T) {
	e := newEngine()
	for _, p := range []string{"3*x**2 + 2*x + 1", "x**5 - 7*x", "(x + 1)**3"} {
		integral := mustCompute(t, e, engine.Request{Expression: p, Task: "integrate", Variable: "x"})
		back := mustCompute(t, e, engine.Request{Expression: integral.ResultText, Task: "diff", Variable: "x"})
		got := mustCompute(t, e, engine.Request{Expression: "(" + back.ResultText + ") - (" + p + ")", Task: "expand"})
		if got.ResultText != "0" {
			t.Errorf("d/dx of integral of %s: residue %s", p, got.ResultText)
		}
	}
}

func TestCompute_PreservesFreeSymbols(t *testing.T) {
	e := newEngine()
	for _, task := range []string{"expand", "factor", "cancel", "together", "trigsimp", "ratsimp"} {
		resp := mustCompute(t, e, engine.Request{Expression: "(x + y)**2 - a", Task: task})
		got, _ := resp.Metadata["freeSymbols"].([]string)
		if strings.Join(got, ",") != "a,x,y" {
			t.Errorf("%s: want [a x y], got %v", task, got)
		}
	}
}

func TestCompute_MissingVariable(t *testing.T) {
	e := newEngine()
	for _, task := range []string{"diff", "integrate", "collect"} {
		_, err := e.Compute(engine.Request{Expression: "x**2", Task: task})
		if !errors.Is(err, engine.ErrMissingParameter) {
			t.Errorf("%s: want ErrMissingParameter, got %v", task, err)
		}
	}
}

func TestCompute_SubsNeedsMapping(t *testing.T) {
	_, err := newEngine().Compute(engine.Request{Expression: "x + 1", Task: "subs"})
	if !errors.Is(err, engine.ErrMissingParameter) {
		t.Errorf("want ErrMissingParameter, got %v", err)
	}
}

func TestCompute_EvalfSubstitutesFirst(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{Expression: "x**2", Task: "evalf", Substitutions: map[string]float64{"x": 1.5}})
	if resp.ResultText != "2.25" {
		t.Errorf("want 2.25, got %s", resp.ResultText)
	}
}

func TestCompute_SimplifyThenSubstitute(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{Expression: "sin(x)**2 + cos(x)**2 + y", Task: "simplify", Substitutions: map[string]float64{"y": 2}})
	if resp.ResultText != "3" {
		t.Errorf("want 3, got %s", resp.ResultText)
	}
}

func TestCompute_Matrix(t *testing.T) {
	e := newEngine()
	m := "Matrix([[1, 2], [3, 4]])"
	if got := mustCompute(t, e, engine.Request{Expression: m, Task: "det"}).ResultText; got != "-2" {
		t.Errorf("det: want -2, got %s", got)
	}
	if got := mustCompute(t, e, engine.Request{Expression: m, Task: "transpose"}).ResultText; got != "Matrix([[1, 3], [2, 4]])" {
		t.Errorf("transpose: want Matrix([[1, 3], [2, 4]]), got %s", got)
	}
	for _, task := range []string{"det", "inv", "transpose"} {
		_, err := e.Compute(engine.Request{Expression: "x + 1", Task: task})
		if !errors.Is(err, engine.ErrNotAMatrix) {
			t.Errorf("%s: want ErrNotAMatrix, got %v", task, err)
		}
	}
	_, err := e.Compute(engine.Request{Expression: "Matrix([[1, 2], [2, 4]])", Task: "inv"})
	if !errors.Is(err, engine.ErrComputation) {
		t.Errorf("singular inverse: want ErrComputation, got %v", err)
	}
}

// ============================================================
// Generic invocation
// ============================================================

func TestCompute_AliasMatchesDiff(t *testing.T) {
	e := newEngine()
	a := mustCompute(t, e, engine.Request{Expression: "x**3 + sin(x)", Task: "derivative", Variable: "x"})
	b := mustCompute(t, e, engine.Request{Expression: "x**3 + sin(x)", Task: "diff", Variable: "x"})
	if a.ResultText != b.ResultText {
		t.Errorf("derivative %s != diff %s", a.ResultText, b.ResultText)
	}
}

func TestCompute_UnsupportedOperation(t *testing.T) {
	e := newEngine()
	for _, task := range []string{"not_a_real_operation", "fourier", "polys.nope", "integrals.transforms"} {
		_, err := e.Compute(engine.Request{Expression: "x", Task: task})
		if !errors.Is(err, engine.ErrUnsupportedOperation) {
			t.Errorf("%s: want ErrUnsupportedOperation, got %v", task, err)
		}
	}
}

func TestCompute_DottedPath(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{
		Expression: "exp(-t)",
		Task:       "integrals.transforms.laplace_transform",
		Variable:   "t",
		SolveFor:   "s",
	})
	sameExpr(t, resp.ResultText, "1/(s + 1)")
}

func TestCompute_AttributeChain(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{Expression: "Matrix([[2, 0], [0, 3]])", Task: "Matrix.trace"})
	if resp.ResultText != "5" {
		t.Errorf("want 5, got %s", resp.ResultText)
	}
}

func TestCompute_InverseSwapsVariables(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{
		Expression: "1/(s + 1)",
		Task:       "invlaplace",
		Variable:   "t",
		SolveFor:   "s",
	})
	sameExpr(t, resp.ResultText, "exp(-t)")
}

func TestCompute_LaplaceConditions(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{
		Expression:  "exp(2*t)",
		Task:        "laplace_transform",
		Variable:    "t",
		SolveFor:    "s",
		KeywordArgs: map[string]any{"noconds": false},
	})
	if resp.ResultText != "(1/(s - 2), 2, True)" {
		t.Errorf("want (1/(s - 2), 2, True), got %s", resp.ResultText)
	}
}

func TestCompute_PositionalArgs(t *testing.T) {
	resp := mustCompute(t, newEngine(), engine.Request{
		Expression:     "1/x",
		Task:           "limit",
		PositionalArgs: []any{"x", "oo"},
	})
	if resp.ResultText != "0" {
		t.Errorf("want 0, got %s", resp.ResultText)
	}
}

func TestCompute_PositionalArgsBindOnce(t *testing.T) {
	_, err := newEngine().Compute(engine.Request{
		Expression:     "x**2",
		Task:           "diff",
		PositionalArgs: []any{map[string]any{"bad": 1}},
	})
	if !errors.Is(err, engine.ErrInvocationFailed) {
		t.Errorf("want ErrInvocationFailed, got %v", err)
	}
}

func TestCompute_InvocationFailed(t *testing.T) {
	_, err := newEngine().Compute(engine.Request{Expression: "x**2 - 1", Task: "gcd"})
	if !errors.Is(err, engine.ErrInvocationFailed) {
		t.Fatalf("want ErrInvocationFailed, got %v", err)
	}
	var be *cas.BindError
	if !errors.As(err, &be) {
		t.Errorf("want the last bind failure as cause, got %v", err)
	}
}

func TestCompute_ComputationErrorIsNotRetried(t *testing.T) {
	_, err := newEngine().Compute(engine.Request{Expression: "Matrix([[1, 2], [2, 4]])", Task: "Matrix.inv"})
	if !errors.Is(err, engine.ErrComputation) {
		t.Errorf("want ErrComputation, got %v", err)
	}
}

// ============================================================
// Parsing and validation
// ============================================================

func TestCompute_ParseError(t *testing.T) {
	e := newEngine()
	for _, expr := range []string{"x**", "(x + 1", "x $ 2", "__import__('os')"} {
		_, err := e.Compute(engine.Request{Expression: expr, Task: "expand"})
		if !errors.Is(err, engine.ErrParse) {
			t.Errorf("%q: want ErrParse, got %v", expr, err)
		}
	}
}

func TestCompute_StrictVocabulary(t *testing.T) {
	e := engine.New(engine.NewConfig(engine.WithImplicitSymbols(false)))
	if _, err := e.Compute(engine.Request{Expression: "x + y", Task: "expand", Variable: "x"}); !errors.Is(err, engine.ErrParse) {
		t.Errorf("undeclared y: want ErrParse, got %v", err)
	}
	resp := mustCompute(t, e, engine.Request{Expression: "x + y", Task: "expand", Variable: "x", Substitutions: map[string]float64{"y": 1}})
	if resp.ResultText != "x + y" {
		t.Errorf("want x + y, got %s", resp.ResultText)
	}
}

func TestCompute_Validation(t *testing.T) {
	bad := 0.01
	order := 51
	e := newEngine()
	for _, req := range []engine.Request{
		{Task: "expand"},
		{Expression: "x"},
		{Expression: "x", Task: "expand", TimeoutSeconds: &bad},
		{Expression: "x", Task: "series", SeriesOrder: &order},
	} {
		if _, err := e.Compute(req); !errors.Is(err, engine.ErrInvalidRequest) {
			t.Errorf("%+v: want ErrInvalidRequest, got %v", req, err)
		}
	}
}

func TestCompute_Notation(t *testing.T) {
	e := newEngine()
	resp := mustCompute(t, e, engine.Request{Expression: "x/2", Task: "expand"})
	if resp.ResultNotation == nil || *resp.ResultNotation != `\frac{x}{2}` {
		t.Errorf("want \\frac{x}{2}, got %v", resp.ResultNotation)
	}
	resp = mustCompute(t, e, engine.Request{Expression: "x**2", Task: "latex"})
	if resp.ResultNotation == nil || *resp.ResultNotation != resp.ResultText {
		t.Errorf("string results are their own notation, got %v", resp.ResultNotation)
	}
}

// ============================================================
// Batch and task listing
// ============================================================

func TestComputeBatch_IsolatesFailures(t *testing.T) {
	out := newEngine().ComputeBatch([]engine.Request{
		{Expression: "(x + 1)**2", Task: "expand"},
		{Expression: "x**", Task: "expand"},
		{Expression: "x**3", Task: "diff", Variable: "x"},
	})
	if len(out) != 3 {
		t.Fatalf("want 3 results, got %d", len(out))
	}
	if !out[0].OK || out[0].Data.ResultText != "x**2 + 2*x + 1" {
		t.Errorf("item 1: %+v", out[0])
	}
	if out[1].OK || !strings.HasPrefix(out[1].Error, "ParseError: ") {
		t.Errorf("item 2: want ParseError failure, got %+v", out[1])
	}
	if !out[2].OK || out[2].Data.ResultText != "3*x**2" {
		t.Errorf("item 3: %+v", out[2])
	}
}

func TestComputeBatch_Radicals(t *testing.T) {
	out := newEngine().ComputeBatch([]engine.Request{
		{Expression: "sqrt(8)", Task: "simplify"},
		{Expression: "x**2 - 2", Task: "solve", Variable: "x"},
		{Expression: "x**3", Task: "diff", Variable: "x"},
	})
	if len(out) != 3 {
		t.Fatalf("want 3 results, got %d", len(out))
	}
	for i, r := range out {
		if !r.OK {
			t.Errorf("item %d failed: %s", i+1, r.Error)
		}
	}
	if out[2].OK && out[2].Data.ResultText != "3*x**2" {
		t.Errorf("item 3: want 3*x**2, got %s", out[2].Data.ResultText)
	}
}

func TestListTasks(t *testing.T) {
	tasks := newEngine().ListTasks()
	has := map[string]bool{}
	for i, name := range tasks {
		has[name] = true
		if i > 0 && tasks[i-1] >= name {
			t.Fatalf("tasks not sorted at %d: %s >= %s", i, tasks[i-1], name)
		}
	}
	for _, want := range []string{"diff", "derivative", "laplace_transform", "invlaplace", "solve", "Matrix"} {
		if !has[want] {
			t.Errorf("want %s in task list", want)
		}
	}
	if has["pi"] {
		t.Errorf("constants are not tasks")
	}
}

func TestDefault_IsShared(t *testing.T) {
	if engine.Default() != engine.Default() {
		t.Errorf("Default should return one engine")
	}
}
