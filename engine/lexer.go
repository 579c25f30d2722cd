package engine

import (
	"fmt"
	"strings"
)

type tokenType int

const (
	tokEOF tokenType = iota
	tokInt
	tokFloat
	tokIdent
	tokString
	tokOp // + - * / ** ^ ( ) [ ] , . =
)

type token struct {
	typ tokenType
	lit string
	pos int
}

func (t token) String() string {
	if t.typ == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.lit)
}

// lexer scans an expression into tokens.
type lexer struct {
	src    string
	start  int
	cur    int
	tokens []token
}

type lexError struct {
	msg string
	pos int
}

func (e *lexError) Error() string { return fmt.Sprintf("%s at offset %d", e.msg, e.pos) }

func lex(src string) ([]token, error) {
	l := &lexer{src: src}
	for {
		l.skipWhitespace()
		l.start = l.cur
		if l.cur >= len(l.src) {
			l.emit(tokEOF)
			return l.tokens, nil
		}
		ch := l.src[l.cur]
		switch {
		case isDigit(ch) || ch == '.' && l.cur+1 < len(l.src) && isDigit(l.src[l.cur+1]):
			l.emit(l.scanNumber())
		case isAlpha(ch):
			for l.cur < len(l.src) && isAlphaNum(l.src[l.cur]) {
				l.cur++
			}
			l.emit(tokIdent)
		case ch == '\'' || ch == '"':
			if err := l.scanString(ch); err != nil {
				return nil, err
			}
		case ch == '*' && strings.HasPrefix(l.src[l.cur:], "**"):
			l.cur += 2
			l.emit(tokOp)
		case strings.IndexByte("+-*/^()[],.=", ch) >= 0:
			l.cur++
			l.emit(tokOp)
		default:
			return nil, &lexError{msg: fmt.Sprintf("unexpected character %q", ch), pos: l.cur}
		}
	}
}

func (l *lexer) emit(t tokenType) {
	lit := l.src[l.start:l.cur]
	if t == tokString {
		lit = l.src[l.start+1 : l.cur-1]
	}
	l.tokens = append(l.tokens, token{typ: t, lit: lit, pos: l.start})
}

func (l *lexer) skipWhitespace() {
	for l.cur < len(l.src) {
		switch l.src[l.cur] {
		case ' ', '\t', '\r', '\n':
			l.cur++
		default:
			return
		}
	}
}

// scanNumber accepts 12, 1.5, .5, 1., 1e-3 and 2.5E+4.
func (l *lexer) scanNumber() tokenType {
	typ := tokInt
	for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
		l.cur++
	}
	if l.cur < len(l.src) && l.src[l.cur] == '.' {
		typ = tokFloat
		l.cur++
		for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
			l.cur++
		}
	}
	if l.cur < len(l.src) && (l.src[l.cur] == 'e' || l.src[l.cur] == 'E') {
		save := l.cur
		l.cur++
		if l.cur < len(l.src) && (l.src[l.cur] == '+' || l.src[l.cur] == '-') {
			l.cur++
		}
		if l.cur < len(l.src) && isDigit(l.src[l.cur]) {
			typ = tokFloat
			for l.cur < len(l.src) && isDigit(l.src[l.cur]) {
				l.cur++
			}
		} else {
			l.cur = save
		}
	}
	return typ
}

func (l *lexer) scanString(quote byte) error {
	l.cur++
	for l.cur < len(l.src) && l.src[l.cur] != quote {
		l.cur++
	}
	if l.cur >= len(l.src) {
		return &lexError{msg: "unterminated string", pos: l.start}
	}
	l.cur++
	l.emit(tokString)
	return nil
}

func isDigit(b byte) bool    { return b >= '0' && b <= '9' }
func isAlpha(b byte) bool    { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b == '_' }
func isAlphaNum(b byte) bool { return isAlpha(b) || isDigit(b) }

// freeIdentifiers returns identifiers used as plain names: not called, not
// attributes, not keyword-argument names and not literals.
func freeIdentifiers(src string) []string {
	toks, err := lex(src)
	if err != nil {
		return nil
	}
	var out []string
	for i, t := range toks {
		if t.typ != tokIdent || literals[t.lit] {
			continue
		}
		if i > 0 && toks[i-1].typ == tokOp && toks[i-1].lit == "." {
			continue
		}
		if next := toks[i+1]; next.typ == tokOp && (next.lit == "(" || next.lit == "=") {
			continue
		}
		out = append(out, t.lit)
	}
	return out
}

var literals = map[string]bool{"True": true, "False": true, "None": true}
