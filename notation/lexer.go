package notation

import (
	"unicode"
	"unicode/utf8"
)

// Token kinds. Operators and punctuation use their literal text as kind.
const (
	NUM   = "NUM"
	IDENT = "IDENT"
	EOF   = "EOF"
)

type Token struct {
	Type string
	Lit  string
	Pos  int // byte offset into the source
}

// Lex converts src into a flat token stream terminated by an EOF token.
func Lex(src string) ([]Token, error) {
	var out []Token
	i := 0
	n := len(src)

	emit := func(typ, lit string, pos int) { out = append(out, Token{Type: typ, Lit: lit, Pos: pos}) }

	for i < n {
		ch := src[i]

		if ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' {
			i++
			continue
		}

		if isDigit(ch) || (ch == '.' && i+1 < n && isDigit(src[i+1])) {
			start := i
			for i < n && isDigit(src[i]) {
				i++
			}
			if i+1 < n && src[i] == '.' && isDigit(src[i+1]) {
				i++
				for i < n && isDigit(src[i]) {
					i++
				}
			}
			// Exponent only if digits follow, so "2e^x" stays 2*e^x.
			if i < n && (src[i] == 'e' || src[i] == 'E') {
				j := i + 1
				if j < n && (src[j] == '+' || src[j] == '-') {
					j++
				}
				if j < n && isDigit(src[j]) {
					for j < n && isDigit(src[j]) {
						j++
					}
					i = j
				}
			}
			emit(NUM, src[start:i], start)
			continue
		}

		switch ch {
		case '+', '-', '*', '/', '^', '(', ')', '|', ',':
			emit(string(ch), string(ch), i)
			i++
			continue
		}

		r, size := utf8.DecodeRuneInString(src[i:])
		switch r {
		case '−':
			emit("-", "-", i)
			i += size
			continue
		case '·', '×':
			emit("*", "*", i)
			i += size
			continue
		case '÷':
			emit("/", "/", i)
			i += size
			continue
		case 'π':
			emit(IDENT, "pi", i)
			i += size
			continue
		}

		if r == '_' || (r < utf8.RuneSelf && unicode.IsLetter(r)) {
			start := i
			for i < n && isIdentPart(src[i]) {
				i++
			}
			emit(IDENT, src[start:i], start)
			continue
		}

		return nil, errorf(i, "unexpected character %q", r)
	}
	emit(EOF, "", n)
	return out, nil
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }

func isIdentPart(ch byte) bool {
	return ch == '_' || isDigit(ch) || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
