package engine

import (
	"fmt"
	"math/big"
	"strconv"

	"github.com/njchilds90/symengine/cas"
)

// Parse parses text strictly within vocab: a name vocab does not hold is a
// ParseError. Calls to allowlisted operations are evaluated while parsing,
// so "diff(x**3, x)" parses to 3*x**2.
//
// Engine.Compute declares every free identifier of the expression before
// parsing unless the engine was built with WithImplicitSymbols(false), so
// through Compute an undeclared name fails only on a strict engine.
func Parse(text string, vocab *Vocabulary) (cas.Expr, error) {
	v, err := parseValue(text, vocab)
	if err != nil {
		return nil, err
	}
	e, ok := v.(cas.Expr)
	if !ok {
		return nil, newError(KindParse, nil, "%q is not an expression", text)
	}
	return e, nil
}

// ParseArgument parses generic arguments: strings are tried as
// expressions and kept verbatim on failure, sequences and mappings are
// rebuilt element-wise, other scalars pass through.
func ParseArgument(value any, vocab *Vocabulary) any {
	switch x := value.(type) {
	case string:
		if v, err := parseValue(x, vocab); err == nil {
			if _, ok := v.(cas.Expr); ok {
				return v
			}
		}
		return x
	case []any:
		out := make([]any, len(x))
		for i, it := range x {
			out[i] = ParseArgument(it, vocab)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, it := range x {
			out[k] = ParseArgument(it, vocab)
		}
		return out
	}
	return value
}

func parseValue(text string, vocab *Vocabulary) (out any, err error) {
	toks, err := lex(text)
	if err != nil {
		return nil, newError(KindParse, err, "%v", err)
	}
	defer func() {
		if r := recover(); r != nil {
			me, ok := r.(*cas.MathError)
			if !ok {
				panic(r)
			}
			out, err = nil, newError(KindComputation, me, "%s", me.Msg)
		}
	}()
	p := &parser{toks: toks, vocab: vocab}
	v, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.peek().typ != tokEOF {
		return nil, p.errorf("unexpected %s", p.peek())
	}
	return v, nil
}

// parser is a recursive-descent evaluator over the token stream:
//
//	expr    = term { ("+" | "-") term }
//	term    = unary { ("*" | "/") unary }
//	unary   = ("+" | "-") unary | power
//	power   = postfix [ ("**" | "^") unary ]
//	postfix = primary { "(" args ")" | "." ident | "[" expr "]" }
//	primary = number | string | ident | "(" [ expr { "," expr } ] ")" | "[" ... "]"
type parser struct {
	toks  []token
	pos   int
	vocab *Vocabulary
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.typ != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(lit string) bool {
	t := p.peek()
	return t.typ == tokOp && t.lit == lit
}

func (p *parser) accept(lit string) bool {
	if p.isOp(lit) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expect(lit string) error {
	if !p.accept(lit) {
		return p.errorf("expected %q, got %s", lit, p.peek())
	}
	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return newError(KindParse, nil, "%s at offset %d", fmt.Sprintf(format, args...), p.peek().pos)
}

func (p *parser) expr() (any, error) {
	left, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.isOp("+") || p.isOp("-") {
		op := p.next().lit
		right, err := p.term()
		if err != nil {
			return nil, err
		}
		if left, err = p.arith(op, left, right); err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) term() (any, error) {
	left, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.isOp("*") || p.isOp("/") {
		op := p.next().lit
		right, err := p.unary()
		if err != nil {
			return nil, err
		}
		if left, err = p.arith(op, left, right); err != nil {
			return nil, err
		}
	}
	return left, nil
}

func (p *parser) unary() (any, error) {
	if p.isOp("-") || p.isOp("+") {
		op := p.next().lit
		v, err := p.unary()
		if err != nil {
			return nil, err
		}
		if op == "+" {
			return p.arith("*", cas.N(1), v)
		}
		return p.arith("*", cas.N(-1), v)
	}
	return p.power()
}

func (p *parser) power() (any, error) {
	base, err := p.postfix()
	if err != nil {
		return nil, err
	}
	if p.isOp("**") || p.isOp("^") {
		p.next()
		exp, err := p.unary()
		if err != nil {
			return nil, err
		}
		return p.arith("**", base, exp)
	}
	return base, nil
}

func (p *parser) arith(op string, a, b any) (any, error) {
	x, ok1 := a.(cas.Expr)
	y, ok2 := b.(cas.Expr)
	if !ok1 || !ok2 {
		return nil, p.errorf("unsupported operand types for %s: %s and %s", op, kindOf(a), kindOf(b))
	}
	switch op {
	case "+":
		return cas.AddOf(x, y), nil
	case "-":
		return cas.Sub(x, y), nil
	case "*":
		return cas.MulOf(x, y), nil
	case "/":
		return cas.Div(x, y), nil
	}
	return cas.PowOf(x, y), nil
}

func kindOf(v any) string {
	switch v.(type) {
	case *cas.Operation:
		return "function"
	case *method:
		return "method"
	case string:
		return "str"
	case nil:
		return "None"
	}
	return "expression"
}

// method is an operation bound to its receiver.
type method struct {
	op   *cas.Operation
	self cas.Expr
}

func (p *parser) postfix() (any, error) {
	v, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.accept("("):
			args, kwargs, err := p.arguments()
			if err != nil {
				return nil, err
			}
			if v, err = p.call(v, args, kwargs); err != nil {
				return nil, err
			}
		case p.accept("."):
			name := p.next()
			if name.typ != tokIdent {
				return nil, p.errorf("expected attribute name, got %s", name)
			}
			if v, err = p.attribute(v, name.lit); err != nil {
				return nil, err
			}
		case p.accept("["):
			idx, err := p.expr()
			if err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			if v, err = p.index(v, idx); err != nil {
				return nil, err
			}
		default:
			return v, nil
		}
	}
}

func (p *parser) primary() (any, error) {
	t := p.next()
	switch t.typ {
	case tokInt:
		i, ok := new(big.Int).SetString(t.lit, 10)
		if !ok {
			return nil, p.errorf("invalid integer %q", t.lit)
		}
		return cas.NumFromRat(new(big.Rat).SetInt(i)), nil
	case tokFloat:
		f, err := strconv.ParseFloat(t.lit, 64)
		if err != nil {
			return nil, p.errorf("invalid number %q", t.lit)
		}
		return cas.NFloat(f), nil
	case tokString:
		return t.lit, nil
	case tokIdent:
		switch t.lit {
		case "True":
			return cas.True, nil
		case "False":
			return cas.False, nil
		case "None":
			return nil, nil
		}
		v, ok := p.vocab.Lookup(t.lit)
		if !ok {
			return nil, newError(KindParse, nil, "name '%s' is not defined", t.lit)
		}
		return v, nil
	case tokOp:
		switch t.lit {
		case "(":
			items, trailing, err := p.sequence(")")
			if err != nil {
				return nil, err
			}
			if len(items) == 1 && !trailing {
				return items[0], nil
			}
			return tuple(items, true)
		case "[":
			items, _, err := p.sequence("]")
			if err != nil {
				return nil, err
			}
			return tuple(items, false)
		}
	}
	return nil, newError(KindParse, nil, "unexpected %s at offset %d", t, t.pos)
}

// sequence parses comma-separated items up to close, reporting whether a
// trailing comma was present.
func (p *parser) sequence(close string) ([]any, bool, error) {
	var items []any
	trailing := false
	for !p.accept(close) {
		v, err := p.expr()
		if err != nil {
			return nil, false, err
		}
		items = append(items, v)
		trailing = p.accept(",")
		if !trailing && !p.isOp(close) {
			return nil, false, p.errorf("expected %q or \",\", got %s", close, p.peek())
		}
	}
	return items, trailing, nil
}

func tuple(items []any, isTuple bool) (any, error) {
	es := make([]cas.Expr, len(items))
	for i, it := range items {
		e, ok := it.(cas.Expr)
		if !ok {
			return nil, newError(KindParse, nil, "sequence items must be expressions, got %s", kindOf(it))
		}
		es[i] = e
	}
	if isTuple {
		return cas.TupleOf(es...), nil
	}
	return cas.ListOf(es...), nil
}

func (p *parser) arguments() ([]any, map[string]any, error) {
	var args []any
	kwargs := map[string]any{}
	for !p.accept(")") {
		if t := p.peek(); t.typ == tokIdent && p.toks[p.pos+1].typ == tokOp && p.toks[p.pos+1].lit == "=" {
			p.pos += 2
			v, err := p.expr()
			if err != nil {
				return nil, nil, err
			}
			kwargs[t.lit] = plain(v)
		} else {
			if len(kwargs) > 0 {
				return nil, nil, p.errorf("positional argument follows keyword argument")
			}
			v, err := p.expr()
			if err != nil {
				return nil, nil, err
			}
			args = append(args, v)
		}
		if !p.accept(",") && !p.isOp(")") {
			return nil, nil, p.errorf("expected \")\" or \",\", got %s", p.peek())
		}
	}
	return args, kwargs, nil
}

// plain unwraps literal booleans for keyword arguments.
func plain(v any) any {
	if b, ok := v.(*cas.Bool); ok {
		return b.Equal(cas.True)
	}
	return v
}

func (p *parser) call(callee any, args []any, kwargs map[string]any) (any, error) {
	var op *cas.Operation
	switch c := callee.(type) {
	case *cas.Operation:
		op = c
	case *method:
		op = c.op
		args = append([]any{c.self}, args...)
	case *subsMethod:
		return c.apply(args, p)
	default:
		return nil, p.errorf("%s is not callable", kindOf(callee))
	}
	if _, ok := cas.Invocable(op); !ok {
		return nil, p.errorf("%s is not callable", op.Name)
	}
	bound, err := op.Bind(args, kwargs)
	if err != nil {
		return nil, newError(KindParse, err, "%v", err)
	}
	out, err := bound.Invoke()
	if err != nil {
		return nil, newError(KindComputation, err, "%v", err)
	}
	return out, nil
}

func (p *parser) attribute(v any, name string) (any, error) {
	self, ok := v.(cas.Expr)
	if !ok {
		if m, ok := cas.Attr(v, name); ok {
			return m, nil
		}
		return nil, p.errorf("%s has no attribute '%s'", kindOf(v), name)
	}
	if _, isMatrix := self.(*cas.Matrix); isMatrix {
		if ctor, ok := p.vocab.lib.Root.Attr("Matrix"); ok {
			if a, ok := cas.Attr(ctor, name); ok {
				m := &method{op: a.(*cas.Operation), self: self}
				if name == "T" {
					return p.call(m, nil, nil)
				}
				return m, nil
			}
		}
	}
	switch name {
	case "subs":
		return &subsMethod{self: self}, nil
	case "evalf", "n":
		name = "N"
	}
	if m, ok := p.vocab.lib.Root.Attr(name); ok {
		if op, ok := cas.Invocable(m); ok && len(op.Params) > 0 && op.Params[0].Kind == cas.KindExpr {
			return &method{op: op, self: self}, nil
		}
	}
	return nil, p.errorf("expression has no attribute '%s'", name)
}

func (p *parser) index(v, idx any) (any, error) {
	l, ok := v.(*cas.List)
	n, ok2 := idx.(*cas.Num)
	if !ok || !ok2 || !n.IsInteger() {
		return nil, p.errorf("unsupported subscript")
	}
	i, _ := n.Int64()
	items := l.Items()
	if i < 0 {
		i += int64(len(items))
	}
	if i < 0 || i >= int64(len(items)) {
		return nil, p.errorf("index %d out of range", i)
	}
	return items[i], nil
}

// subsMethod implements expr.subs(old, new).
type subsMethod struct{ self cas.Expr }

func (s *subsMethod) apply(args []any, p *parser) (any, error) {
	if len(args) != 2 {
		return nil, p.errorf("subs() takes an (old, new) pair")
	}
	old, ok := args[0].(*cas.Sym)
	val, ok2 := args[1].(cas.Expr)
	if !ok || !ok2 {
		return nil, p.errorf("subs() expects a symbol and an expression")
	}
	return s.self.Subs(old.Name(), val), nil
}
