// Command symcalc is an interactive calculator over the symengine engine.
//
//	$ symcalc
//	symcalc> :task diff
//	symcalc> :var x
//	symcalc> x**3 + sin(x)
//	3*x**2 + cos(x)
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/peterh/liner"

	"github.com/njchilds90/symengine/engine"
	"github.com/njchilds90/symengine/internal/catalog"
)

const (
	historyFile = ".symcalc_history"
	prompt      = "symcalc> "
)

func main() {
	verbose := flag.Bool("v", false, "log engine decisions to stderr")
	flag.Parse()

	handler := slog.Handler(slog.NewTextHandler(io.Discard, nil))
	if *verbose {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	eng := engine.New(engine.NewConfig(engine.WithLogger(slog.New(handler))))
	cat, err := catalog.New(eng)
	if err != nil {
		fmt.Fprintln(os.Stderr, "symcalc:", err)
		os.Exit(1)
	}
	os.Exit(repl(newSession(eng, cat)))
}

func repl(s *session) int {
	fmt.Println("symcalc: symbolic math at the prompt. Type :help for commands.")

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)
	ln.SetCompleter(s.complete)

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	for {
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			return 0
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, "symcalc:", err)
			return 1
		}
		out, quit := s.handle(line)
		if quit {
			return 0
		}
		if out != "" {
			fmt.Println(out)
		}
		ln.AppendHistory(line)
	}
}
