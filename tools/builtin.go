package tools

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tailored-agentic-units/aria/calc"
	"github.com/tailored-agentic-units/aria/core/protocol"
)

var glossary = map[string]string{
	"serendipity": "The occurrence of events by chance in a happy or beneficial way",
	"ephemeral":   "Lasting for a very short time",
	"ubiquitous":  "Present, appearing, or found everywhere",
	"eloquent":    "Fluent, persuasive, and expressive in speaking or writing",
	"pragmatic":   "Dealing with things in a practical, realistic way based on actual circumstances",
}

// Builtin returns a Registry holding the calculator, time_info and
// define_word functions. clock supplies the current time; nil means
// time.Now.
func Builtin(clock func() time.Time) *Registry {
	if clock == nil {
		clock = time.Now
	}

	r := NewRegistry()
	for _, def := range []Definition{
		CalculatorDefinition(),
		TimeInfoDefinition(clock),
		DefineWordDefinition(),
	} {
		// Names are distinct constants; registration cannot collide.
		_ = r.Register(def)
	}
	return r
}

// CalculatorDefinition evaluates expressions with calc.Evaluate. Rejected
// expressions produce an explanatory Result marked IsError rather than an
// error.
func CalculatorDefinition() Definition {
	return Definition{
		Tool: protocol.Tool{
			Name:        NameCalculator,
			Description: "Evaluate an arithmetic expression using + - * / and decimal numbers",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"expression": map[string]any{
						"type":        "string",
						"description": "Arithmetic expression, for example 10 + 5 * 2",
					},
				},
				"required": []string{"expression"},
			},
		},
		Decode: decodeCalculate,
		Handler: func(ctx context.Context, cmd Command) (Result, error) {
			c, ok := cmd.(Calculate)
			if !ok {
				return Result{}, fmt.Errorf("%w: expected Calculate, got %T", ErrInvalidArguments, cmd)
			}
			v, err := calc.Evaluate(c.Expression)
			if err != nil {
				return Result{
					Content: fmt.Sprintf("I couldn't calculate that. Please make sure the expression is valid. Error: %v", err),
					IsError: true,
				}, nil
			}
			return Result{Content: fmt.Sprintf("The result of %s is %s", c.Expression, calc.Format(v))}, nil
		},
	}
}

// TimeInfoDefinition reports the time returned by clock.
func TimeInfoDefinition(clock func() time.Time) Definition {
	return Definition{
		Tool: protocol.Tool{
			Name:        NameTimeInfo,
			Description: "Get the current date and time",
			Parameters: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		Decode: decodeTimeInfo,
		Handler: func(ctx context.Context, cmd Command) (Result, error) {
			if _, ok := cmd.(TimeInfo); !ok {
				return Result{}, fmt.Errorf("%w: expected TimeInfo, got %T", ErrInvalidArguments, cmd)
			}
			now := clock()
			utc := now.UTC()
			return Result{Content: fmt.Sprintf(
				"Current date and time: %s. It's currently %s in UTC.",
				now.Format("Monday, January 02, 2006 at 03:04 PM"),
				utc.Format("15:04"),
			)}, nil
		},
	}
}

// DefineWordDefinition looks words up case-insensitively in the glossary.
func DefineWordDefinition() Definition {
	return Definition{
		Tool: protocol.Tool{
			Name:        NameDefineWord,
			Description: "Define a word from a small built-in glossary",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"word": map[string]any{
						"type":        "string",
						"description": "Word to define",
					},
				},
				"required": []string{"word"},
			},
		},
		Decode: decodeDefineWord,
		Handler: func(ctx context.Context, cmd Command) (Result, error) {
			c, ok := cmd.(DefineWord)
			if !ok {
				return Result{}, fmt.Errorf("%w: expected DefineWord, got %T", ErrInvalidArguments, cmd)
			}
			def, found := glossary[strings.ToLower(strings.TrimSpace(c.Word))]
			if !found {
				return Result{Content: fmt.Sprintf(
					"I don't have a definition for '%s' in my database. Try asking about another word!", c.Word,
				)}, nil
			}
			return Result{Content: fmt.Sprintf("**%s**: %s", c.Word, def)}, nil
		},
	}
}
