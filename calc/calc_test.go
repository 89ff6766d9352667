package calc_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/tailored-agentic-units/aria/calc"
)

func TestEvaluate(t *testing.T) {
	tests := []struct {
		expr string
		want string
	}{
		{"2+2", "4"},
		{"10+5", "15"},
		{"10 + 5 * 2", "20"},
		{"100 / 5 + 10", "30"},
		{"7-10", "-3"},
		{"10/4", "2.5"},
		{"4/2", "2"},
		{"-3 * -3", "9"},
		{"1.5*2", "3"},
		{"2 - - 2", "4"},
		{"0*5", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.expr, func(t *testing.T) {
			v, err := calc.Evaluate(tt.expr)
			if err != nil {
				t.Fatalf("Evaluate(%q) failed: %v", tt.expr, err)
			}
			if got := calc.Format(v); got != tt.want {
				t.Errorf("Evaluate(%q) = %s, want %s", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEvaluate_Rejects(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"letters", "2+a"},
		{"function call", "__import__('os').system('ls')"},
		{"parentheses", "(2+2)"},
		{"exponent", "2**3"},
		{"trailing operator", "2+"},
		{"leading multiply", "*2"},
		{"adjacent numbers", "2 3"},
		{"malformed decimal", "2.+1"},
		{"newline", "2\n+2"},
		{"too long", strings.Repeat("1+", calc.MaxLength) + "1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := calc.Evaluate(tt.expr)
			if !errors.Is(err, calc.ErrInvalidExpression) {
				t.Errorf("Evaluate(%q) error = %v, want ErrInvalidExpression", tt.expr, err)
			}
		})
	}
}

func TestEvaluate_DivisionByZero(t *testing.T) {
	_, err := calc.Evaluate("5/0")
	if !errors.Is(err, calc.ErrDivisionByZero) {
		t.Errorf("got %v, want ErrDivisionByZero", err)
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		v    float64
		want string
	}{
		{4, "4"},
		{-0.5, "-0.5"},
		{0, "0"},
		{1e6, "1000000"},
	}

	for _, tt := range tests {
		if got := calc.Format(tt.v); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.v, got, tt.want)
		}
	}
}
