package main

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/term-index/discrim/expr"
)

// parseExpr reads the small surface syntax used throughout this package's
// documentation and tests: symbols are barewords, compound terms are
// Kind(operand, ...), _ / __ / ___ are fixed/min-1/min-0 wildcards, a
// leading name turns one into a named Variable (x_, x__, x___), and
// _:Kind is a SymbolWildcard. It is deliberately minimal — no numbers,
// strings or infix operators — this CLI only needs to build and query
// patterns and subjects for a Net.
type parser struct {
	s   string
	pos int
}

func parseExpr(s string) (expr.Expr, error) {
	p := &parser{s: s}
	p.skipSpace()
	e, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.s) {
		return nil, fmt.Errorf("unexpected trailing input at %d: %q", p.pos, p.s[p.pos:])
	}
	return e, nil
}

func (p *parser) skipSpace() {
	for p.pos < len(p.s) && unicode.IsSpace(rune(p.s[p.pos])) {
		p.pos++
	}
}

func isIdentByte(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}

func (p *parser) parseTerm() (expr.Expr, error) {
	p.skipSpace()
	if p.pos >= len(p.s) {
		return nil, fmt.Errorf("unexpected end of input")
	}

	start := p.pos
	for p.pos < len(p.s) && isIdentByte(p.s[p.pos]) {
		p.pos++
	}
	if start == p.pos {
		return nil, fmt.Errorf("unexpected character %q at %d", p.s[p.pos], p.pos)
	}
	ident := p.s[start:p.pos]

	// _:Kind — symbol wildcard.
	if ident == "_" && p.pos < len(p.s) && p.s[p.pos] == ':' {
		p.pos++
		kindStart := p.pos
		for p.pos < len(p.s) && isIdentByte(p.s[p.pos]) {
			p.pos++
		}
		if kindStart == p.pos {
			return nil, fmt.Errorf("expected kind name after ':' at %d", p.pos)
		}
		return expr.NewSymbolWildcard(expr.Kind(p.s[kindStart:p.pos])), nil
	}

	if w, ok := parseWildcardToken(ident); ok {
		return w, nil
	}
	if name, w, ok := parseNamedWildcard(ident); ok {
		return expr.NewVariable(name, w), nil
	}

	p.skipSpace()
	if p.pos < len(p.s) && p.s[p.pos] == '(' {
		p.pos++
		var operands []expr.Expr
		p.skipSpace()
		if p.pos < len(p.s) && p.s[p.pos] == ')' {
			p.pos++
			return expr.NewOperation(expr.Kind(ident), false, 0, true), nil
		}
		for {
			operand, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			operands = append(operands, operand)
			p.skipSpace()
			if p.pos >= len(p.s) {
				return nil, fmt.Errorf("unexpected end of input inside %s(...)", ident)
			}
			if p.s[p.pos] == ',' {
				p.pos++
				continue
			}
			if p.s[p.pos] == ')' {
				p.pos++
				break
			}
			return nil, fmt.Errorf("expected ',' or ')' at %d", p.pos)
		}
		return expr.NewOperation(expr.Kind(ident), false, len(operands), true, operands...), nil
	}

	return expr.NewSymbol(ident), nil
}

// parseWildcardToken recognizes a bare _, __ or ___ token.
func parseWildcardToken(s string) (expr.Wildcard, bool) {
	switch s {
	case "_":
		return expr.NewWildcard(1, true), true
	case "__":
		return expr.NewWildcard(1, false), true
	case "___":
		return expr.NewWildcard(0, false), true
	default:
		return expr.Wildcard{}, false
	}
}

// parseNamedWildcard splits name_, name__ or name___ into a variable name
// and the wildcard it wraps.
func parseNamedWildcard(s string) (string, expr.Wildcard, bool) {
	trimmed := strings.TrimRight(s, "_")
	suffix := s[len(trimmed):]
	if trimmed == "" || len(suffix) == 0 {
		return "", expr.Wildcard{}, false
	}
	w, ok := parseWildcardToken(suffix)
	if !ok {
		return "", expr.Wildcard{}, false
	}
	return trimmed, w, true
}
