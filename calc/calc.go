// Package calc evaluates a narrow arithmetic grammar: decimal numbers, the
// four operators + - * /, unary sign, and whitespace. Anything else is
// rejected. No general-purpose interpreter is ever involved.
//
//	expr   = term { ("+" | "-") term }
//	term   = factor { ("*" | "/") factor }
//	factor = ("+" | "-") factor | number
//	number = digit { digit } [ "." digit { digit } ]
package calc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
)

// MaxLength bounds the accepted expression size in bytes.
const MaxLength = 256

var (
	ErrInvalidExpression = errors.New("invalid expression")
	ErrDivisionByZero    = errors.New("division by zero")
)

// Evaluate parses and evaluates expr with the usual operator precedence.
func Evaluate(expr string) (float64, error) {
	if len(expr) > MaxLength {
		return 0, fmt.Errorf("%w: longer than %d characters", ErrInvalidExpression, MaxLength)
	}

	toks, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	if len(toks) == 0 {
		return 0, fmt.Errorf("%w: empty", ErrInvalidExpression)
	}

	p := &parser{toks: toks}
	v, err := p.expr()
	if err != nil {
		return 0, err
	}
	if p.pos != len(p.toks) {
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidExpression, p.toks[p.pos].text, p.toks[p.pos].offset)
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: result out of range", ErrInvalidExpression)
	}
	return v, nil
}

// Format renders v without a trailing ".0" for integral values.
func Format(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

type kind uint8

const (
	kindNumber kind = iota
	kindOperator
)

type token struct {
	kind   kind
	text   string
	value  float64
	offset int
}

func tokenize(s string) ([]token, error) {
	var toks []token
	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == ' ' || c == '\t':
			i++
		case c == '+' || c == '-' || c == '*' || c == '/':
			toks = append(toks, token{kind: kindOperator, text: string(c), offset: i})
			i++
		case isDigit(c):
			start := i
			for i < len(s) && isDigit(s[i]) {
				i++
			}
			if i < len(s) && s[i] == '.' {
				i++
				if i >= len(s) || !isDigit(s[i]) {
					return nil, fmt.Errorf("%w: malformed number at position %d", ErrInvalidExpression, start)
				}
				for i < len(s) && isDigit(s[i]) {
					i++
				}
			}
			v, err := strconv.ParseFloat(s[start:i], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidExpression, err)
			}
			toks = append(toks, token{kind: kindNumber, text: s[start:i], value: v, offset: start})
		default:
			return nil, fmt.Errorf("%w: disallowed character %q at position %d", ErrInvalidExpression, c, i)
		}
	}
	return toks, nil
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peekOperator(ops ...string) (string, bool) {
	if p.pos >= len(p.toks) || p.toks[p.pos].kind != kindOperator {
		return "", false
	}
	for _, op := range ops {
		if p.toks[p.pos].text == op {
			return op, true
		}
	}
	return "", false
}

func (p *parser) expr() (float64, error) {
	left, err := p.term()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOperator("+", "-")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.term()
		if err != nil {
			return 0, err
		}
		if op == "+" {
			left += right
		} else {
			left -= right
		}
	}
}

func (p *parser) term() (float64, error) {
	left, err := p.factor()
	if err != nil {
		return 0, err
	}
	for {
		op, ok := p.peekOperator("*", "/")
		if !ok {
			return left, nil
		}
		p.pos++
		right, err := p.factor()
		if err != nil {
			return 0, err
		}
		if op == "*" {
			left *= right
			continue
		}
		if right == 0 {
			return 0, ErrDivisionByZero
		}
		left /= right
	}
}

func (p *parser) factor() (float64, error) {
	if p.pos >= len(p.toks) {
		return 0, fmt.Errorf("%w: unexpected end of expression", ErrInvalidExpression)
	}

	if op, ok := p.peekOperator("+", "-"); ok {
		p.pos++
		v, err := p.factor()
		if err != nil {
			return 0, err
		}
		if op == "-" {
			return -v, nil
		}
		return v, nil
	}

	t := p.toks[p.pos]
	if t.kind != kindNumber {
		return 0, fmt.Errorf("%w: unexpected %q at position %d", ErrInvalidExpression, t.text, t.offset)
	}
	p.pos++
	return t.value, nil
}
