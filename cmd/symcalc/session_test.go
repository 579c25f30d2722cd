package main

import (
	"strings"
	"testing"

	"github.com/njchilds90/symengine/engine"
	"github.com/njchilds90/symengine/internal/catalog"
)

func newTestSession(t *testing.T) *session {
	t.Helper()
	eng := engine.New(engine.NewConfig())
	cat, err := catalog.New(eng)
	if err != nil {
		t.Fatal(err)
	}
	return newSession(eng, cat)
}

func TestSession_Script(t *testing.T) {
	s := newTestSession(t)
	steps := []struct{ in, want string }{
		{"sin(x)**2 + cos(x)**2", "1"},
		{":task diff", "task: diff"},
		{":var x", "variable: x"},
		{"x**3", "3*x**2"},
		{":task evalf", "task: evalf"},
		{":let x=1.5", "substitutions: x=1.5"},
		{"x**2", "2.25"},
		{":clear", "cleared"},
	}
	for _, st := range steps {
		got, quit := s.handle(st.in)
		if quit {
			t.Fatalf("%q ended the session", st.in)
		}
		if got != st.want {
			t.Errorf("%q: want %q, got %q", st.in, st.want, got)
		}
	}
}

func TestSession_Errors(t *testing.T) {
	s := newTestSession(t)
	if got, _ := s.handle("x**"); !strings.HasPrefix(got, "error: ParseError") {
		t.Errorf("want parse error, got %q", got)
	}
	if got, _ := s.handle(":let x"); !strings.HasPrefix(got, "usage") {
		t.Errorf("want usage, got %q", got)
	}
	if got, _ := s.handle(":nope"); !strings.Contains(got, "unknown command") {
		t.Errorf("want unknown command, got %q", got)
	}
}

func TestSession_Quit(t *testing.T) {
	if _, quit := newTestSession(t).handle(":quit"); !quit {
		t.Errorf(":quit should end the session")
	}
}

func TestSession_Latex(t *testing.T) {
	s := newTestSession(t)
	s.handle(":latex")
	got, _ := s.handle("x/2")
	if !strings.Contains(got, `\frac{x}{2}`) {
		t.Errorf("want LaTeX line, got %q", got)
	}
}

func TestSession_Complete(t *testing.T) {
	s := newTestSession(t)
	got := s.complete(":task inverse_l")
	if len(got) != 1 || got[0] != ":task inverse_laplace_transform" {
		t.Errorf("unexpected completion %v", got)
	}
	if got := s.complete(":la"); len(got) != 1 || got[0] != ":latex" {
		t.Errorf("unexpected completion %v", got)
	}
}
