package dispatch

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Intent is a capability need derived from raw input text.
type Intent uint8

const (
	KnowledgeSearch Intent = iota
	Weather
	Calculate
)

// Order is the fixed iteration order for intents. Anything that renders or
// reports intents walks them in this order.
var Order = [...]Intent{KnowledgeSearch, Weather, Calculate}

var intentNames = [...]string{
	KnowledgeSearch: "knowledge_search",
	Weather:         "weather",
	Calculate:       "calculate",
}

func (i Intent) String() string {
	if int(i) < len(intentNames) {
		return intentNames[i]
	}
	return fmt.Sprintf("intent(%d)", uint8(i))
}

// ParseIntent resolves an intent by its string name.
func ParseIntent(name string) (Intent, error) {
	for _, i := range Order {
		if intentNames[i] == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("unknown intent: %q", name)
}

func (i Intent) MarshalText() ([]byte, error) {
	return []byte(i.String()), nil
}

func (i *Intent) UnmarshalText(text []byte) error {
	parsed, err := ParseIntent(string(text))
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

// Set is an unordered collection of intents. The zero value is empty.
type Set uint8

// NewSet returns a Set containing intents.
func NewSet(intents ...Intent) Set {
	var s Set
	for _, i := range intents {
		s = s.With(i)
	}
	return s
}

// With returns s with i added.
func (s Set) With(i Intent) Set {
	return s | 1<<i
}

// Has reports whether i is in s.
func (s Set) Has(i Intent) bool {
	return s&(1<<i) != 0
}

// Empty reports whether s contains no intents.
func (s Set) Empty() bool {
	return s == 0
}

// Len returns the number of intents in s.
func (s Set) Len() int {
	n := 0
	for _, i := range Order {
		if s.Has(i) {
			n++
		}
	}
	return n
}

// Intents returns the members of s in Order.
func (s Set) Intents() []Intent {
	out := make([]Intent, 0, len(Order))
	for _, i := range Order {
		if s.Has(i) {
			out = append(out, i)
		}
	}
	return out
}

func (s Set) String() string {
	names := make([]string, 0, len(Order))
	for _, i := range s.Intents() {
		names = append(names, i.String())
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// MarshalJSON encodes s as an ordered list of intent names.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Intents())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var intents []Intent
	if err := json.Unmarshal(data, &intents); err != nil {
		return err
	}
	*s = NewSet(intents...)
	return nil
}
