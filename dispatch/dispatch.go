// Package dispatch classifies approved input into capability intents.
//
// Classification is deliberately surface-level: each intent has an
// independent OR-of-phrases predicate over the lowercased input, so zero,
// one, or several intents may fire for one message. When Calculate fires,
// the leftmost <integer><operator><integer> run is extracted as the
// expression to evaluate.
package dispatch

import (
	_ "embed"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed triggers.yaml
var defaultTriggersYAML []byte

var expressionPattern = regexp.MustCompile(`[0-9]+[+\-*/][0-9]+`)

// Triggers holds the phrase list for each intent.
type Triggers struct {
	KnowledgeSearch []string `yaml:"knowledge_search"`
	Weather         []string `yaml:"weather"`
	Calculate       []string `yaml:"calculate"`
}

func (t *Triggers) forIntent(i Intent) []string {
	switch i {
	case KnowledgeSearch:
		return t.KnowledgeSearch
	case Weather:
		return t.Weather
	case Calculate:
		return t.Calculate
	}
	return nil
}

var loadDefaultTriggers = sync.OnceValues(func() (*Triggers, error) {
	return ParseTriggers(defaultTriggersYAML)
})

// DefaultTriggers returns a copy of the built-in trigger table.
func DefaultTriggers() *Triggers {
	t, err := loadDefaultTriggers()
	if err != nil {
		panic(fmt.Sprintf("dispatch: invalid embedded triggers: %v", err))
	}
	return &Triggers{
		KnowledgeSearch: slices.Clone(t.KnowledgeSearch),
		Weather:         slices.Clone(t.Weather),
		Calculate:       slices.Clone(t.Calculate),
	}
}

// ParseTriggers decodes a YAML trigger table. Phrases are lowercased and
// blank phrases are dropped.
func ParseTriggers(data []byte) (*Triggers, error) {
	var t Triggers
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("failed to parse intent triggers: %w", err)
	}
	t.KnowledgeSearch = normalize(t.KnowledgeSearch)
	t.Weather = normalize(t.Weather)
	t.Calculate = normalize(t.Calculate)
	return &t, nil
}

// Classification is the per-message dispatch result.
type Classification struct {
	Intents    Set
	Expression string // first arithmetic run; empty when none was found
}

// HasExpression reports whether an arithmetic expression was extracted.
func (c Classification) HasExpression() bool {
	return c.Expression != ""
}

// Classifier evaluates intent predicates. It is immutable after
// construction and safe for concurrent use.
type Classifier struct {
	phrases [len(Order)][]string
}

// NewClassifier builds a Classifier over t. A nil t uses DefaultTriggers.
func NewClassifier(t *Triggers) *Classifier {
	if t == nil {
		t = DefaultTriggers()
	}
	c := &Classifier{}
	for _, i := range Order {
		c.phrases[i] = normalize(t.forIntent(i))
	}
	return c
}

// Classify returns the intents that fire for input and, when Calculate
// fires, the extracted expression.
func (c *Classifier) Classify(input string) Classification {
	text := strings.ToLower(input)

	var out Classification
	for _, i := range Order {
		if containsAny(text, c.phrases[i]) {
			out.Intents = out.Intents.With(i)
		}
	}

	if out.Intents.Has(Calculate) {
		out.Expression = ExtractExpression(input)
	}
	return out
}

// ExtractExpression returns the leftmost <integer><operator><integer>
// substring of input, or "" if there is none.
func ExtractExpression(input string) string {
	return expressionPattern.FindString(input)
}

func containsAny(text string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return true
		}
	}
	return false
}

func normalize(phrases []string) []string {
	out := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
