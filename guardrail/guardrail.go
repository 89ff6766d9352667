// Package guardrail implements the content-policy gate that runs before any
// other per-turn logic. Checks are pure: a Filter holds compiled, read-only
// rule tables and performs no I/O.
//
// Matching is whole-word over lowercased input. Prompt-protection phrases
// are tested first and take absolute priority; restricted topics are then
// scanned in table order and the first keyword hit wins.
//
//	f := guardrail.MustNew(guardrail.DefaultRules())
//	if d := f.Check(input); !d.Proceed {
//	    return d.Response
//	}
package guardrail

import (
	"errors"
	"regexp"
	"strings"
)

// ErrInvalidRules reports a structurally invalid rule document.
var ErrInvalidRules = errors.New("invalid guardrail rules")

// ReasonKind classifies why a message was blocked.
type ReasonKind string

const (
	ReasonNone             ReasonKind = ""
	ReasonPromptProtection ReasonKind = "prompt_protection"
	ReasonRestrictedTopic  ReasonKind = "restricted_topic"
)

// Reason identifies the rule that fired. Topic is set only for
// ReasonRestrictedTopic; Phrase is the matched phrase or keyword.
type Reason struct {
	Kind   ReasonKind `json:"kind"`
	Topic  string     `json:"topic,omitempty"`
	Phrase string     `json:"phrase,omitempty"`
}

func (r Reason) String() string {
	if r.Kind == ReasonRestrictedTopic {
		return string(r.Kind) + ":" + r.Topic
	}
	return string(r.Kind)
}

// Decision is the outcome of a guardrail check. A blocked decision carries
// the canned response to return to the user in place of a model reply.
type Decision struct {
	Proceed  bool
	Response string
	Reason   Reason
}

type matcher struct {
	phrase  string
	pattern *regexp.Regexp
}

type topic struct {
	id       string
	response string
	keywords []matcher
}

// Filter evaluates input against a compiled rule set. A Filter is immutable
// after construction and safe for concurrent use.
type Filter struct {
	protection         []matcher
	protectionResponse string
	topics             []topic
	rules              *Rules
}

// New compiles rules into a Filter. The rules are copied; later changes to
// the argument have no effect on the Filter.
func New(rules *Rules) (*Filter, error) {
	if rules == nil {
		return nil, errors.New("guardrail rules are nil")
	}
	r := rules.Clone()
	if err := r.normalize(); err != nil {
		return nil, err
	}

	f := &Filter{
		protection:         make([]matcher, 0, len(r.PromptProtection.Phrases)),
		protectionResponse: r.PromptProtection.Response,
		topics:             make([]topic, 0, len(r.RestrictedTopics)),
		rules:              r,
	}

	for _, p := range r.PromptProtection.Phrases {
		f.protection = append(f.protection, compile(p))
	}

	for _, t := range r.RestrictedTopics {
		ct := topic{id: t.ID, response: t.Response}
		for _, k := range t.Keywords {
			ct.keywords = append(ct.keywords, compile(k))
		}
		f.topics = append(f.topics, ct)
	}

	return f, nil
}

// MustNew is New that panics on error. Intended for built-in rule sets.
func MustNew(rules *Rules) *Filter {
	f, err := New(rules)
	if err != nil {
		panic(err)
	}
	return f
}

// NewFromConfig builds a Filter from the embedded rules, or from
// cfg.RulesPath when set.
func NewFromConfig(cfg *Config) (*Filter, error) {
	if cfg == nil || cfg.RulesPath == "" {
		return New(DefaultRules())
	}
	rules, err := LoadRulesFile(cfg.RulesPath)
	if err != nil {
		return nil, err
	}
	return New(rules)
}

// Check evaluates input. Empty or whitespace-only input proceeds; callers
// decide whether to forward it.
func (f *Filter) Check(input string) Decision {
	text := strings.ToLower(input)
	if strings.TrimSpace(text) == "" {
		return Decision{Proceed: true}
	}

	for _, m := range f.protection {
		if m.pattern.MatchString(text) {
			return Decision{
				Response: f.protectionResponse,
				Reason:   Reason{Kind: ReasonPromptProtection, Phrase: m.phrase},
			}
		}
	}

	for _, t := range f.topics {
		for _, m := range t.keywords {
			if m.pattern.MatchString(text) {
				return Decision{
					Response: t.response,
					Reason:   Reason{Kind: ReasonRestrictedTopic, Topic: t.id, Phrase: m.phrase},
				}
			}
		}
	}

	return Decision{Proceed: true}
}

// Rules returns a copy of the rule set the Filter was compiled from.
func (f *Filter) Rules() *Rules {
	return f.rules.Clone()
}

// RE2's \b only knows ASCII word characters, so boundaries are spelled out
// over Unicode letters and digits.
const (
	wordStart = `(?:^|[^\p{L}\p{N}_])`
	wordEnd   = `(?:$|[^\p{L}\p{N}_])`
)

func compile(phrase string) matcher {
	return matcher{
		phrase:  phrase,
		pattern: regexp.MustCompile(wordStart + regexp.QuoteMeta(phrase) + wordEnd),
	}
}
