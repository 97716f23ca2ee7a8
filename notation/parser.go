// Package notation parses free-form mathematical notation such as
// "sin(x)^3", "e^x", "1/x", "sin^3(x)" or "2x + |x|" into expression trees.
//
// Numeric literals are converted exactly, so "0.1" becomes the rational 1/10.
// The identifiers pi (or π) and e denote constants, log is the natural
// logarithm, and sqrt/cbrt are rewritten to powers 1/2 and 1/3.
package notation

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/njchilds90/gotaylor/expr"
)

// ErrSyntax is wrapped by every error returned from this package.
var ErrSyntax = errors.New("notation: syntax error")

// ParseError reports malformed input at a byte offset.
type ParseError struct {
	Pos int
	Msg string
}

func (e *ParseError) Error() string { return fmt.Sprintf("notation: at %d: %s", e.Pos, e.Msg) }
func (e *ParseError) Unwrap() error { return ErrSyntax }

func errorf(pos int, format string, args ...interface{}) *ParseError {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

// Parse parses src, accepting any identifier as a free symbol.
func Parse(src string) (expr.Expr, error) { return parse(src, "") }

// ParseIn parses src as a function of variable; other identifiers are errors.
func ParseIn(src, variable string) (expr.Expr, error) { return parse(src, variable) }

// MustParse is like Parse but panics on error.
func MustParse(src string) expr.Expr {
	e, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return e
}

func parse(src, variable string) (e expr.Expr, err error) {
	toks, err := Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks, variable: variable}
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*ParseError)
			if !ok {
				pe = errorf(0, "%v", r)
			}
			e, err = nil, pe
		}
	}()
	if p.cur().Type == EOF {
		return nil, errorf(0, "empty expression")
	}
	e = p.parseSum()
	if t := p.cur(); t.Type != EOF {
		p.fail(t, "unexpected %s", describe(t))
	}
	return e, nil
}

// aliases maps accepted function spellings onto expr function names.
var aliases = map[string]string{
	"log":    "ln",
	"arcsin": "asin",
	"arccos": "acos",
	"arctan": "atan",
}

// calls maps function names onto their constructors.
var calls = map[string]func(expr.Expr) expr.Expr{
	"sin":  expr.SinOf,
	"cos":  expr.CosOf,
	"tan":  expr.TanOf,
	"csc":  expr.CscOf,
	"sec":  expr.SecOf,
	"cot":  expr.CotOf,
	"exp":  expr.ExpOf,
	"ln":   expr.LnOf,
	"abs":  expr.AbsOf,
	"sign": expr.SignOf,
	"asin": expr.AsinOf,
	"acos": expr.AcosOf,
	"atan": expr.AtanOf,
	"sinh": expr.SinhOf,
	"cosh": expr.CoshOf,
	"tanh": expr.TanhOf,
	"sqrt": expr.SqrtOf,
	"cbrt": expr.CbrtOf,
}

type parser struct {
	toks     []Token
	i        int
	variable string
	absDepth int
}

func (p *parser) cur() Token { return p.toks[p.i] }

func (p *parser) next() Token {
	t := p.toks[p.i]
	if t.Type != EOF {
		p.i++
	}
	return t
}

func (p *parser) match(typ string) bool {
	if p.cur().Type == typ {
		p.i++
		return true
	}
	return false
}

func (p *parser) expect(typ string) Token {
	t := p.cur()
	if t.Type != typ {
		p.fail(t, "expected %q, found %s", typ, describe(t))
	}
	p.i++
	return t
}

func (p *parser) fail(t Token, format string, args ...interface{}) {
	panic(errorf(t.Pos, format, args...))
}

func describe(t Token) string {
	if t.Type == EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Lit)
}

// sum := product (("+" | "-") product)*
func (p *parser) parseSum() expr.Expr {
	terms := []expr.Expr{p.parseProduct()}
	for {
		switch {
		case p.match("+"):
			terms = append(terms, p.parseProduct())
		case p.match("-"):
			terms = append(terms, expr.MulOf(expr.N(-1), p.parseProduct()))
		default:
			return expr.AddOf(terms...)
		}
	}
}

// product := unary (("*" | "/") unary | implicit)*
func (p *parser) parseProduct() expr.Expr {
	left := p.parseUnary()
	for {
		switch {
		case p.match("*"):
			left = expr.MulOf(left, p.parseUnary())
		case p.match("/"):
			left = expr.DivOf(left, p.parseUnary())
		case p.startsImplicit():
			left = expr.MulOf(left, p.parsePower())
		default:
			return left
		}
	}
}

// startsImplicit reports whether the current token begins a factor that
// multiplies the previous one without an operator, as in "2x" or "3sin(x)".
func (p *parser) startsImplicit() bool {
	switch p.cur().Type {
	case NUM, IDENT, "(":
		return true
	case "|":
		return p.absDepth == 0
	}
	return false
}

// unary := ("-" | "+") unary | power
func (p *parser) parseUnary() expr.Expr {
	if p.match("-") {
		return expr.MulOf(expr.N(-1), p.parseUnary())
	}
	if p.match("+") {
		return p.parseUnary()
	}
	return p.parsePower()
}

// power := primary ("^" unary)?   right associative
func (p *parser) parsePower() expr.Expr {
	base := p.parsePrimary()
	if p.match("^") {
		return expr.PowOf(base, p.parseUnary())
	}
	return base
}

func (p *parser) parsePrimary() expr.Expr {
	t := p.cur()
	switch t.Type {
	case NUM:
		p.next()
		lit := t.Lit
		if strings.HasPrefix(lit, ".") {
			lit = "0" + lit
		}
		r, ok := new(big.Rat).SetString(lit)
		if !ok {
			p.fail(t, "invalid number %q", t.Lit)
		}
		return expr.NRat(r)
	case "(":
		p.next()
		saved := p.absDepth
		p.absDepth = 0
		e := p.parseSum()
		p.absDepth = saved
		p.expect(")")
		return e
	case "|":
		p.next()
		p.absDepth++
		e := p.parseSum()
		p.absDepth--
		p.expect("|")
		return expr.AbsOf(e)
	case IDENT:
		p.next()
		return p.parseIdent(t)
	}
	p.fail(t, "unexpected %s", describe(t))
	return nil
}

func (p *parser) parseIdent(t Token) expr.Expr {
	switch t.Lit {
	case "pi":
		return expr.Pi()
	case "e":
		return expr.E()
	}
	name := t.Lit
	if a, ok := aliases[name]; ok {
		name = a
	}
	if f, ok := calls[name]; ok {
		return p.parseCall(t, f)
	}
	if p.variable != "" && name != p.variable {
		p.fail(t, "unknown symbol %q", t.Lit)
	}
	return expr.S(name)
}

// parseCall handles "f(u)" and the "f^k(u)" form meaning f(u)^k.
func (p *parser) parseCall(t Token, f func(expr.Expr) expr.Expr) expr.Expr {
	var power expr.Expr
	if p.match("^") {
		power = p.parseUnary()
	}
	if p.cur().Type != "(" {
		p.fail(p.cur(), "expected \"(\" after %s, found %s", t.Lit, describe(p.cur()))
	}
	e := f(p.parsePrimary())
	if power != nil {
		e = expr.PowOf(e, power)
	}
	return e
}
