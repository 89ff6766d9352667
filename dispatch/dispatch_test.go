package dispatch_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tailored-agentic-units/aria/dispatch"
)

func TestClassify(t *testing.T) {
	c := dispatch.NewClassifier(nil)

	tests := []struct {
		name       string
		input      string
		want       dispatch.Set
		expression string
	}{
		{
			name:       "arithmetic question",
			input:      "what is 10+5",
			want:       dispatch.NewSet(dispatch.KnowledgeSearch, dispatch.Calculate),
			expression: "10+5",
		},
		{
			name:  "calculate without expression",
			input: "calculate my mortgage",
			want:  dispatch.NewSet(dispatch.Calculate),
		},
		{
			name:  "weather only",
			input: "Is it going to snow tomorrow?",
			want:  dispatch.NewSet(dispatch.Weather),
		},
		{
			name:  "knowledge only",
			input: "Explain the Renaissance",
			want:  dispatch.NewSet(dispatch.KnowledgeSearch),
		},
		{
			name:       "all three",
			input:      "What is the temperature times 3*4?",
			want:       dispatch.NewSet(dispatch.KnowledgeSearch, dispatch.Weather, dispatch.Calculate),
			expression: "3*4",
		},
		{
			name:  "nothing fires",
			input: "hello there",
			want:  0,
		},
		{
			name:  "case insensitive",
			input: "FORECAST please",
			want:  dispatch.NewSet(dispatch.Weather),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.input)
			if got.Intents != tt.want {
				t.Errorf("Classify(%q) intents = %s, want %s", tt.input, got.Intents, tt.want)
			}
			if got.Expression != tt.expression {
				t.Errorf("Classify(%q) expression = %q, want %q", tt.input, got.Expression, tt.expression)
			}
			if got.HasExpression() != (tt.expression != "") {
				t.Errorf("HasExpression() = %v", got.HasExpression())
			}
		})
	}
}

func TestClassify_ExpressionOnlyWhenCalculateFires(t *testing.T) {
	triggers := &dispatch.Triggers{Weather: []string{"rain"}}
	c := dispatch.NewClassifier(triggers)

	got := c.Classify("rain 2+2")
	if got.Intents.Has(dispatch.Calculate) {
		t.Fatal("calculate should not fire without triggers")
	}
	if got.Expression != "" {
		t.Errorf("expression = %q, want empty", got.Expression)
	}
}

func TestExtractExpression(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"What is 2+2?", "2+2"},
		{"first 12*3 then 4-1", "12*3"},
		{"100 / 5", ""},
		{"100/5+10", "100/5"},
		{"no numbers", ""},
		{"7-", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := dispatch.ExtractExpression(tt.input); got != tt.want {
				t.Errorf("ExtractExpression(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSet(t *testing.T) {
	var s dispatch.Set
	if !s.Empty() || s.Len() != 0 {
		t.Fatalf("zero Set should be empty, got %s", s)
	}

	s = s.With(dispatch.Calculate).With(dispatch.KnowledgeSearch).With(dispatch.Calculate)

	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
	if s.Has(dispatch.Weather) {
		t.Error("unexpected Weather membership")
	}

	want := []dispatch.Intent{dispatch.KnowledgeSearch, dispatch.Calculate}
	if diff := cmp.Diff(want, s.Intents()); diff != "" {
		t.Errorf("Intents() mismatch (-want +got):\n%s", diff)
	}
	if s.String() != "{knowledge_search, calculate}" {
		t.Errorf("String() = %q", s.String())
	}
}

func TestSet_JSON(t *testing.T) {
	s := dispatch.NewSet(dispatch.Calculate, dispatch.Weather)

	data, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	if string(data) != `["weather","calculate"]` {
		t.Errorf("got %s", data)
	}

	var decoded dispatch.Set
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if decoded != s {
		t.Errorf("decoded %s, want %s", decoded, s)
	}

	if err := json.Unmarshal([]byte(`["telepathy"]`), &decoded); err == nil {
		t.Error("expected error for unknown intent")
	}
}

func TestParseIntent(t *testing.T) {
	for _, i := range dispatch.Order {
		got, err := dispatch.ParseIntent(i.String())
		if err != nil || got != i {
			t.Errorf("ParseIntent(%q) = %v, %v", i.String(), got, err)
		}
	}
	if _, err := dispatch.ParseIntent("nope"); err == nil {
		t.Error("expected error for unknown intent")
	}
}

func TestDefaultTriggers_Copy(t *testing.T) {
	a := dispatch.DefaultTriggers()
	a.Weather[0] = "mutated"

	b := dispatch.DefaultTriggers()
	if b.Weather[0] != "weather" {
		t.Errorf("DefaultTriggers shares state: first weather trigger = %q", b.Weather[0])
	}
}

func TestParseTriggers(t *testing.T) {
	tr, err := dispatch.ParseTriggers([]byte("weather: [\" Hail \", \"\"]\n"))
	if err != nil {
		t.Fatalf("ParseTriggers failed: %v", err)
	}
	if diff := cmp.Diff([]string{"hail"}, tr.Weather); diff != "" {
		t.Errorf("weather mismatch (-want +got):\n%s", diff)
	}

	if _, err := dispatch.ParseTriggers([]byte("weather: {")); err == nil {
		t.Error("expected parse error")
	}
}

func TestNewClassifierFromConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "triggers.yaml")
	if err := os.WriteFile(path, []byte("weather:\n  - Umbrella\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := dispatch.NewClassifierFromConfig(&dispatch.Config{TriggersPath: path})
	if err != nil {
		t.Fatalf("NewClassifierFromConfig() error: %v", err)
	}

	got := c.Classify("do I need an umbrella?")
	if got.Intents != dispatch.NewSet(dispatch.Weather) {
		t.Errorf("Intents = %v, want {weather}", got.Intents)
	}

	if _, err := dispatch.NewClassifierFromConfig(&dispatch.Config{TriggersPath: filepath.Join(t.TempDir(), "missing.yaml")}); err == nil {
		t.Error("missing file should fail")
	}
}
