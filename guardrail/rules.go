package guardrail

import (
	_ "embed"
	"fmt"
	"os"
	"slices"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// RestrictedTopic is one row of the restricted-topic table. Keywords are
// matched as whole words in their listed order.
type RestrictedTopic struct {
	ID       string   `yaml:"id"`
	Keywords []string `yaml:"keywords"`
	Response string   `yaml:"response"`
}

// PromptProtection lists phrases that indicate an attempt to read or
// rewrite the assistant's instructions.
type PromptProtection struct {
	Phrases  []string `yaml:"phrases"`
	Response string   `yaml:"response"`
}

// Rules is the complete guardrail rule set. Topic order is significant.
type Rules struct {
	PromptProtection     PromptProtection  `yaml:"prompt_protection"`
	RestrictedTopics     []RestrictedTopic `yaml:"restricted_topics"`
	DefaultTopicResponse string            `yaml:"default_topic_response"`
}

var loadDefaultRules = sync.OnceValues(func() (*Rules, error) {
	return ParseRules(defaultRulesYAML)
})

// DefaultRules returns a copy of the built-in rule set.
func DefaultRules() *Rules {
	r, err := loadDefaultRules()
	if err != nil {
		panic(fmt.Sprintf("guardrail: invalid embedded rules: %v", err))
	}
	return r.Clone()
}

// ParseRules decodes and validates a YAML rule document. Keywords and
// phrases are normalized to lowercase with surrounding space trimmed.
func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse guardrail rules: %w", err)
	}
	if err := r.normalize(); err != nil {
		return nil, err
	}
	return &r, nil
}

// LoadRulesFile reads a YAML rule document from disk.
func LoadRulesFile(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read guardrail rules: %w", err)
	}
	r, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return r, nil
}

// Clone returns a deep copy of r.
func (r *Rules) Clone() *Rules {
	c := &Rules{
		PromptProtection: PromptProtection{
			Phrases:  slices.Clone(r.PromptProtection.Phrases),
			Response: r.PromptProtection.Response,
		},
		DefaultTopicResponse: r.DefaultTopicResponse,
		RestrictedTopics:     make([]RestrictedTopic, len(r.RestrictedTopics)),
	}
	for i, t := range r.RestrictedTopics {
		c.RestrictedTopics[i] = RestrictedTopic{
			ID:       t.ID,
			Keywords: slices.Clone(t.Keywords),
			Response: t.Response,
		}
	}
	return c
}

func (r *Rules) normalize() error {
	if r.PromptProtection.Response == "" {
		return fmt.Errorf("%w: prompt protection response is empty", ErrInvalidRules)
	}
	for i, p := range r.PromptProtection.Phrases {
		p = normalizePhrase(p)
		if p == "" {
			return fmt.Errorf("%w: prompt protection phrase %d is empty", ErrInvalidRules, i)
		}
		r.PromptProtection.Phrases[i] = p
	}

	seen := make(map[string]bool, len(r.RestrictedTopics))
	for i := range r.RestrictedTopics {
		t := &r.RestrictedTopics[i]
		if t.ID == "" {
			return fmt.Errorf("%w: restricted topic %d has no id", ErrInvalidRules, i)
		}
		if seen[t.ID] {
			return fmt.Errorf("%w: duplicate restricted topic %q", ErrInvalidRules, t.ID)
		}
		seen[t.ID] = true

		if len(t.Keywords) == 0 {
			return fmt.Errorf("%w: restricted topic %q has no keywords", ErrInvalidRules, t.ID)
		}
		for j, k := range t.Keywords {
			k = normalizePhrase(k)
			if k == "" {
				return fmt.Errorf("%w: restricted topic %q keyword %d is empty", ErrInvalidRules, t.ID, j)
			}
			t.Keywords[j] = k
		}
		if t.Response == "" {
			t.Response = r.DefaultTopicResponse
		}
		if t.Response == "" {
			return fmt.Errorf("%w: restricted topic %q has no response", ErrInvalidRules, t.ID)
		}
	}
	return nil
}

func normalizePhrase(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
