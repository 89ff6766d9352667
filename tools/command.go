package tools

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Names of the built-in functions.
const (
	NameCalculator = "calculator"
	NameTimeInfo   = "time_info"
	NameDefineWord = "define_word"
)

// Command is a typed function invocation. Each built-in function has its
// own Command type carrying its arguments; the registry routes a Command to
// its handler by Name.
type Command interface {
	Name() string
}

// Calculate evaluates an arithmetic expression with the restricted
// calculator grammar.
type Calculate struct {
	Expression string `json:"expression"`
}

func (Calculate) Name() string { return NameCalculator }

// TimeInfo reports the current date and time.
type TimeInfo struct{}

func (TimeInfo) Name() string { return NameTimeInfo }

// DefineWord looks a word up in the static glossary.
type DefineWord struct {
	Word string `json:"word"`
}

func (DefineWord) Name() string { return NameDefineWord }

// Decoder converts JSON-encoded arguments into a Command.
type Decoder func(raw json.RawMessage) (Command, error)

func decodeCalculate(raw json.RawMessage) (Command, error) {
	var c Calculate
	if err := decodeArgs(raw, &c); err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Expression) == "" {
		return nil, fmt.Errorf("%w: expression is required", ErrInvalidArguments)
	}
	return c, nil
}

func decodeTimeInfo(raw json.RawMessage) (Command, error) {
	var c TimeInfo
	if err := decodeArgs(raw, &c); err != nil {
		return nil, err
	}
	return c, nil
}

func decodeDefineWord(raw json.RawMessage) (Command, error) {
	var c DefineWord
	if err := decodeArgs(raw, &c); err != nil {
		return nil, err
	}
	if strings.TrimSpace(c.Word) == "" {
		return nil, fmt.Errorf("%w: word is required", ErrInvalidArguments)
	}
	return c, nil
}

func decodeArgs(raw json.RawMessage, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArguments, err)
	}
	return nil
}
