package console

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrDivisionByZero   = errors.New("division by zero")
	ErrUnexpectedEnd    = errors.New("unexpected end of expression")
	ErrNestingTooDeep   = errors.New("expression nested too deeply")
	ErrUnsupportedOp    = errors.New("unsupported operand types")
	ErrUndefinedName    = errors.New("undefined name")
	ErrUnterminatedText = errors.New("unterminated string literal")
)

const maxNesting = 64

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokNumber
	tokString
	tokIdent
	tokOp
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

func isDigit(r byte) bool { return r >= '0' && r <= '9' }

func isIdentStart(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentPart(r byte) bool { return isIdentStart(r) || isDigit(r) }

func isQuote(r byte) bool { return r == '\'' || r == '"' || r == '`' }

func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case isDigit(c):
			start := i
			for i < len(src) && isDigit(src[i]) {
				i++
			}
			if i+1 < len(src) && src[i] == '.' && isDigit(src[i+1]) {
				i++
				for i < len(src) && isDigit(src[i]) {
					i++
				}
			}
			toks = append(toks, token{kind: tokNumber, text: src[start:i], pos: start})
		case isQuote(c):
			end := strings.IndexByte(src[i+1:], c)
			if end < 0 {
				return nil, fmt.Errorf("%w at column %d", ErrUnterminatedText, i+1)
			}
			toks = append(toks, token{kind: tokString, text: src[i+1 : i+1+end], pos: i})
			i += end + 2
		case isIdentStart(c):
			start := i
			for i < len(src) && isIdentPart(src[i]) {
				i++
			}
			toks = append(toks, token{kind: tokIdent, text: src[start:i], pos: start})
		case (c == '*' || c == '/') && i+1 < len(src) && src[i+1] == c:
			toks = append(toks, token{kind: tokOp, text: src[i : i+2], pos: i})
			i += 2
		case strings.IndexByte("+-*/()", c) >= 0:
			toks = append(toks, token{kind: tokOp, text: string(c), pos: i})
			i++
		default:
			return nil, fmt.Errorf("unexpected character %q at column %d", c, i+1)
		}
	}
	return append(toks, token{kind: tokEOF, pos: len(src)}), nil
}

type parser struct {
	toks  []token
	pos   int
	depth int
	vars  map[string]Value
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) isOp(ops ...string) bool {
	t := p.peek()
	if t.kind != tokOp {
		return false
	}
	for _, op := range ops {
		if t.text == op {
			return true
		}
	}
	return false
}

// expr := term (('+' | '-') term)*
func (p *parser) expr() (Value, error) {
	left, err := p.term()
	if err != nil {
		return Value{}, err
	}
	for p.isOp("+", "-") {
		op := p.next().text
		right, err := p.term()
		if err != nil {
			return Value{}, err
		}
		if left, err = binary(op, left, right); err != nil {
			return Value{}, err
		}
	}
	return left, nil
}

// term := unary (('*' | '/' | '//') unary)*
func (p *parser) term() (Value, error) {
	left, err := p.unary()
	if err != nil {
		return Value{}, err
	}
	for p.isOp("*", "/", "//") {
		op := p.next().text
		right, err := p.unary()
		if err != nil {
			return Value{}, err
		}
		if left, err = binary(op, left, right); err != nil {
			return Value{}, err
		}
	}
	return left, nil
}

// unary := ('+' | '-') unary | power
func (p *parser) unary() (Value, error) {
	if p.isOp("+", "-") {
		op := p.next().text
		if err := p.enter(); err != nil {
			return Value{}, err
		}
		v, err := p.unary()
		p.depth--
		if err != nil {
			return Value{}, err
		}
		return negate(op, v)
	}
	return p.power()
}

// power := primary ('**' unary)?
// The exponent may carry a sign and is right-associative, so -2 ** 2 is -4 and 2 ** 3 ** 2 is 512.
func (p *parser) power() (Value, error) {
	base, err := p.primary()
	if err != nil {
		return Value{}, err
	}
	if !p.isOp("**") {
		return base, nil
	}
	p.next()
	if err := p.enter(); err != nil {
		return Value{}, err
	}
	exp, err := p.unary()
	p.depth--
	if err != nil {
		return Value{}, err
	}
	return binary("**", base, exp)
}

// primary := NUMBER | STRING | IDENT | '(' expr ')'
func (p *parser) primary() (Value, error) {
	t := p.next()
	switch t.kind {
	case tokNumber:
		return parseNumber(t.text)
	case tokString:
		return StringValue(t.text), nil
	case tokIdent:
		if v, ok := p.vars[t.text]; ok {
			return v, nil
		}
		return Value{}, fmt.Errorf("%w '%s'", ErrUndefinedName, t.text)
	case tokOp:
		if t.text != "(" {
			return Value{}, fmt.Errorf("unexpected %q at column %d", t.text, t.pos+1)
		}
		if err := p.enter(); err != nil {
			return Value{}, err
		}
		v, err := p.expr()
		p.depth--
		if err != nil {
			return Value{}, err
		}
		if !p.isOp(")") {
			return Value{}, fmt.Errorf("missing ')' at column %d", p.peek().pos+1)
		}
		p.next()
		return v, nil
	default:
		return Value{}, ErrUnexpectedEnd
	}
}

func (p *parser) enter() error {
	p.depth++
	if p.depth > maxNesting {
		return ErrNestingTooDeep
	}
	return nil
}

func parseNumber(text string) (Value, error) {
	if !strings.Contains(text, ".") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return IntValue(i), nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return Value{}, fmt.Errorf("invalid number %q", text)
	}
	return FloatValue(f), nil
}

func negate(op string, v Value) (Value, error) {
	if !v.IsNumber() {
		return Value{}, fmt.Errorf("%w for unary %s: '%s'", ErrUnsupportedOp, op, v.Kind)
	}
	if op == "+" {
		return v, nil
	}
	if v.Kind == KindInt && v.Int != math.MinInt64 {
		return IntValue(-v.Int), nil
	}
	return FloatValue(-v.float()), nil
}

func binary(op string, a, b Value) (Value, error) {
	if op == "+" && (a.Kind == KindString || b.Kind == KindString) {
		return StringValue(a.String() + b.String()), nil
	}
	if !a.IsNumber() || !b.IsNumber() {
		return Value{}, fmt.Errorf("%w for %s: '%s' and '%s'", ErrUnsupportedOp, op, a.Kind, b.Kind)
	}

	switch op {
	case "/":
		if b.float() == 0 {
			return Value{}, ErrDivisionByZero
		}
		return FloatValue(a.float() / b.float()), nil
	case "//":
		return floorDiv(a, b)
	case "**":
		return pow(a, b)
	}

	if a.Kind == KindInt && b.Kind == KindInt {
		if v, ok := intArith(op, a.Int, b.Int); ok {
			return IntValue(v), nil
		}
	}

	x, y := a.float(), b.float()
	switch op {
	case "+":
		return FloatValue(x + y), nil
	case "-":
		return FloatValue(x - y), nil
	default:
		return FloatValue(x * y), nil
	}
}

// intArith reports false on overflow so the caller can fall back to floats.
func intArith(op string, x, y int64) (int64, bool) {
	switch op {
	case "+":
		r := x + y
		return r, (r > x) == (y > 0)
	case "-":
		r := x - y
		return r, (r < x) == (y > 0)
	default:
		if x == 0 || y == 0 {
			return 0, true
		}
		r := x * y
		return r, r/y == x && !(x == -1 && y == math.MinInt64) && !(y == -1 && x == math.MinInt64)
	}
}

// floorDiv rounds toward negative infinity: -7 // 2 is -4.
func floorDiv(a, b Value) (Value, error) {
	if b.float() == 0 {
		return Value{}, ErrDivisionByZero
	}
	if a.Kind == KindInt && b.Kind == KindInt && !(a.Int == math.MinInt64 && b.Int == -1) {
		q := a.Int / b.Int
		if a.Int%b.Int != 0 && (a.Int < 0) != (b.Int < 0) {
			q--
		}
		return IntValue(q), nil
	}
	return FloatValue(math.Floor(a.float() / b.float())), nil
}

// pow keeps int ** non-negative int exact until it overflows; anything else is a float.
func pow(a, b Value) (Value, error) {
	if a.Kind == KindInt && b.Kind == KindInt && b.Int >= 0 {
		if v, ok := intPow(a.Int, b.Int); ok {
			return IntValue(v), nil
		}
	}
	x, y := a.float(), b.float()
	if x == 0 && y < 0 {
		return Value{}, ErrDivisionByZero
	}
	r := math.Pow(x, y)
	if math.IsNaN(r) {
		return Value{}, fmt.Errorf("%w for **: negative base with fractional exponent", ErrUnsupportedOp)
	}
	return FloatValue(r), nil
}

func intPow(base, exp int64) (int64, bool) {
	result := int64(1)
	for exp > 0 {
		if exp&1 == 1 {
			r, ok := intArith("*", result, base)
			if !ok {
				return 0, false
			}
			result = r
		}
		exp >>= 1
		if exp > 0 {
			b, ok := intArith("*", base, base)
			if !ok {
				return 0, false
			}
			base = b
		}
	}
	return result, true
}

// EvalExpression evaluates a literal/arithmetic expression. Identifiers resolve against vars
// (nil means no names are defined); nothing outside this grammar is ever executed.
func EvalExpression(src string, vars map[string]Value) (Value, error) {
	toks, err := tokenize(src)
	if err != nil {
		return Value{}, err
	}
	if len(toks) == 1 {
		return Value{}, ErrUnexpectedEnd
	}

	p := &parser{toks: toks, vars: vars}
	v, err := p.expr()
	if err != nil {
		return Value{}, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return Value{}, fmt.Errorf("unexpected %q at column %d", t.text, t.pos+1)
	}
	return v, nil
}
