package main

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/njchilds90/symengine/engine"
	"github.com/njchilds90/symengine/internal/catalog"
)

const helpText = `Enter an expression to run the current task on it.

  :task NAME        set the task (default simplify); :task alone shows it
  :var NAME         set the bound variable ("variable")
  :solvefor NAME    set solveFor
  :let NAME=VALUE   add a numeric substitution
  :order N          set the series order
  :clear            reset variable, solveFor, substitutions and order
  :tasks [QUERY]    list tasks, or search them
  :latex            toggle LaTeX output
  :help             this text
  :quit             exit`

// session holds the REPL state between lines.
type session struct {
	eng     *engine.Engine
	cat     *catalog.Catalog
	task    string
	req     engine.Request
	showTeX bool
}

func newSession(eng *engine.Engine, cat *catalog.Catalog) *session {
	return &session{eng: eng, cat: cat, task: "simplify"}
}

// handle runs one input line. It returns the text to print and whether the
// session should end.
func (s *session) handle(line string) (string, bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", false
	}
	if strings.HasPrefix(line, ":") {
		return s.command(line)
	}

	req := s.req
	req.Expression = line
	req.Task = s.task
	resp, err := s.eng.Compute(req)
	if err != nil {
		return "error: " + err.Error(), false
	}
	if s.showTeX && resp.ResultNotation != nil {
		return resp.ResultText + "\n  " + *resp.ResultNotation, false
	}
	return resp.ResultText, false
}

func (s *session) command(line string) (string, bool) {
	name, arg, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	arg = strings.TrimSpace(arg)
	switch strings.ToLower(name) {
	case "quit", "q", "exit":
		return "", true
	case "help", "h":
		return helpText, false
	case "task":
		if arg != "" {
			s.task = arg
		}
		return "task: " + s.task, false
	case "var":
		s.req.Variable = arg
		return "variable: " + display(arg), false
	case "solvefor":
		s.req.SolveFor = arg
		return "solveFor: " + display(arg), false
	case "let":
		k, v, ok := strings.Cut(arg, "=")
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if !ok || err != nil || strings.TrimSpace(k) == "" {
			return "usage: :let NAME=VALUE", false
		}
		if s.req.Substitutions == nil {
			s.req.Substitutions = map[string]float64{}
		}
		s.req.Substitutions[strings.TrimSpace(k)] = f
		return s.substitutions(), false
	case "order":
		n, err := strconv.Atoi(arg)
		if err != nil {
			return "usage: :order N", false
		}
		s.req.SeriesOrder = &n
		return "seriesOrder: " + arg, false
	case "clear":
		s.req = engine.Request{}
		return "cleared", false
	case "tasks":
		return s.tasks(arg), false
	case "latex":
		s.showTeX = !s.showTeX
		return fmt.Sprintf("latex: %v", s.showTeX), false
	}
	return "unknown command :" + name + " (try :help)", false
}

func (s *session) substitutions() string {
	keys := make([]string, 0, len(s.req.Substitutions))
	for k := range s.req.Substitutions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%g", k, s.req.Substitutions[k])
	}
	return "substitutions: " + strings.Join(parts, ", ")
}

func (s *session) tasks(query string) string {
	if query == "" {
		return strings.Join(s.eng.ListTasks(), " ")
	}
	hits, err := s.cat.Search(query, 8)
	if err != nil {
		return "error: " + err.Error()
	}
	if len(hits) == 0 {
		return "no matching tasks"
	}
	var b strings.Builder
	for i, h := range hits {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%-28s %s", h.Task, h.Description)
	}
	return b.String()
}

// complete offers task names after ":task " and command names after ":".
func (s *session) complete(line string) []string {
	var out []string
	if prefix, ok := strings.CutPrefix(line, ":task "); ok {
		for _, t := range s.eng.ListTasks() {
			if strings.HasPrefix(t, prefix) {
				out = append(out, ":task "+t)
			}
		}
		return out
	}
	if strings.HasPrefix(line, ":") && !strings.Contains(line, " ") {
		for _, c := range []string{":task", ":var", ":solvefor", ":let", ":order", ":clear", ":tasks", ":latex", ":help", ":quit"} {
			if strings.HasPrefix(c, line) {
				out = append(out, c)
			}
		}
	}
	return out
}

func display(s string) string {
	if s == "" {
		return "(unset)"
	}
	return s
}
