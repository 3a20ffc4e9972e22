package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/fpicetti/stenfront/pkg/symbolic"
)

// ParseEquation parses "lhs = rhs" in the model's equation syntax and
// resolves identifiers against m: dimension names become dimension
// references, function names become indexed accesses, anything else
// becomes an opaque symbol.
//
// Grammar:
//
//	equation := expr '=' expr
//	expr     := term (('+' | '-') term)*
//	term     := factor ('*' factor)*
//	factor   := INT | IDENT | IDENT '[' expr (',' expr)* ']'
//	          | '(' expr ')' | '-' factor
func ParseEquation(src string, m *Model) (*symbolic.Equation, error) {
	lhsSrc, rhsSrc, found := strings.Cut(src, "=")
	if !found {
		return nil, fmt.Errorf("parse %q: missing '='", src)
	}
	lhs, err := ParseExpr(lhsSrc, m)
	if err != nil {
		return nil, err
	}
	rhs, err := ParseExpr(rhsSrc, m)
	if err != nil {
		return nil, err
	}
	return symbolic.NewEquation(lhs, rhs), nil
}

// ParseExpr parses a single expression in the equation syntax.
func ParseExpr(src string, m *Model) (symbolic.Expr, error) {
	p := &parser{src: src, model: m}
	p.next()
	e, err := p.expr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind != tokEOF {
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
	return e, nil
}

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokInt
	tokIdent
	tokPlus
	tokMinus
	tokStar
	tokLBracket
	tokRBracket
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type parser struct {
	src   string
	pos   int
	tok   token
	model *Model
}

func (p *parser) errorf(format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("parse %q at %d: %s", p.src, p.tok.pos, msg)
}

// next advances to the following token.
func (p *parser) next() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
	start := p.pos
	if p.pos >= len(p.src) {
		p.tok = token{kind: tokEOF, pos: start}
		return
	}

	c := p.src[p.pos]
	switch {
	case c >= '0' && c <= '9':
		for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
			p.pos++
		}
		p.tok = token{kind: tokInt, text: p.src[start:p.pos], pos: start}
	case isIdentStart(c):
		for p.pos < len(p.src) && isIdentPart(p.src[p.pos]) {
			p.pos++
		}
		p.tok = token{kind: tokIdent, text: p.src[start:p.pos], pos: start}
	default:
		var kind tokenKind
		switch c {
		case '+':
			kind = tokPlus
		case '-':
			kind = tokMinus
		case '*':
			kind = tokStar
		case '[':
			kind = tokLBracket
		case ']':
			kind = tokRBracket
		case '(':
			kind = tokLParen
		case ')':
			kind = tokRParen
		case ',':
			kind = tokComma
		default:
			p.tok = token{kind: tokEOF, text: string(c), pos: start}
			return
		}
		p.pos++
		p.tok = token{kind: kind, text: string(c), pos: start}
	}
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func (p *parser) expr() (symbolic.Expr, error) {
	first, err := p.term()
	if err != nil {
		return nil, err
	}
	terms := []symbolic.Expr{first}
	for p.tok.kind == tokPlus || p.tok.kind == tokMinus {
		neg := p.tok.kind == tokMinus
		p.next()
		t, err := p.term()
		if err != nil {
			return nil, err
		}
		if neg {
			t = negate(t)
		}
		terms = append(terms, t)
	}
	if len(terms) == 1 {
		return terms[0], nil
	}
	return symbolic.AddExpr(terms...), nil
}

func (p *parser) term() (symbolic.Expr, error) {
	first, err := p.factor()
	if err != nil {
		return nil, err
	}
	factors := []symbolic.Expr{first}
	for p.tok.kind == tokStar {
		p.next()
		f, err := p.factor()
		if err != nil {
			return nil, err
		}
		factors = append(factors, f)
	}
	if len(factors) == 1 {
		return factors[0], nil
	}
	return symbolic.MulExpr(factors...), nil
}

func (p *parser) factor() (symbolic.Expr, error) {
	switch p.tok.kind {
	case tokInt:
		n, err := strconv.Atoi(p.tok.text)
		if err != nil {
			return nil, p.errorf("bad integer %q", p.tok.text)
		}
		p.next()
		return symbolic.Int(n), nil

	case tokMinus:
		p.next()
		f, err := p.factor()
		if err != nil {
			return nil, err
		}
		return negate(f), nil

	case tokLParen:
		p.next()
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.tok.kind != tokRParen {
			return nil, p.errorf("expected ')'")
		}
		p.next()
		return e, nil

	case tokIdent:
		name := p.tok.text
		p.next()
		if p.tok.kind == tokLBracket {
			return p.indexed(name)
		}
		return p.resolveIdent(name), nil

	default:
		return nil, p.errorf("unexpected %q", p.tok.text)
	}
}

// indexed parses the bracketed index list of a function access.
func (p *parser) indexed(name string) (symbolic.Expr, error) {
	fn := p.model.Function(name)
	if fn == nil {
		return nil, p.errorf("unknown function %q", name)
	}
	p.next() // consume '['

	var indices []symbolic.Expr
	for {
		idx, err := p.expr()
		if err != nil {
			return nil, err
		}
		indices = append(indices, idx)
		if p.tok.kind == tokComma {
			p.next()
			continue
		}
		break
	}
	if p.tok.kind != tokRBracket {
		return nil, p.errorf("expected ']'")
	}
	p.next()

	if len(indices) != fn.Arity() {
		return nil, fmt.Errorf("parse %q: %s takes %d indices, got %d", p.src, name, fn.Arity(), len(indices))
	}
	return fn.At(indices...), nil
}

// resolveIdent maps a bare identifier to a dimension if the model declares
// one, otherwise to an interned opaque symbol.
func (p *parser) resolveIdent(name string) symbolic.Expr {
	if d := p.model.Dimension(name); d != nil {
		return d
	}
	return p.model.internSym(name)
}

func negate(e symbolic.Expr) symbolic.Expr {
	if n, ok := e.(symbolic.Int); ok {
		return -n
	}
	return symbolic.MulExpr(symbolic.Int(-1), e)
}
