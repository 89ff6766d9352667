package augment_test

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/tailored-agentic-units/aria/augment"
	"github.com/tailored-agentic-units/aria/core/config"
	"github.com/tailored-agentic-units/aria/dispatch"
	"github.com/tailored-agentic-units/aria/knowledge"
	"github.com/tailored-agentic-units/aria/observability"
	"github.com/tailored-agentic-units/aria/tools"
	"github.com/tailored-agentic-units/aria/weather"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeSearcher struct {
	results []knowledge.Result
	err     error
	delay   time.Duration
	topK    atomic.Int64
}

func (f *fakeSearcher) Search(ctx context.Context, _ string, topK int) ([]knowledge.Result, error) {
	f.topK.Store(int64(topK))
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return f.results, f.err
}

type fakeWeather struct {
	report weather.Report
	err    error
	delay  time.Duration
	label  string
}

func (f *fakeWeather) Current(ctx context.Context, _, _ float64, label string) (weather.Report, error) {
	f.label = label
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return weather.Report{}, ctx.Err()
		}
	}
	r := f.report
	r.Label = label
	return r, f.err
}

func classify(input string) dispatch.Classification {
	return dispatch.NewClassifier(nil).Classify(input)
}

func newAssembler(s augment.Searcher, w augment.WeatherSource, obs observability.Observer) *augment.Assembler {
	return augment.New(augment.DefaultConfig(),
		augment.WithSearcher(s),
		augment.WithWeather(w),
		augment.WithFunctions(tools.Builtin(nil)),
		augment.WithObserver(obs),
	)
}

func TestBuild_Calculation(t *testing.T) {
	a := newAssembler(nil, nil, observability.NoOpObserver{})

	aug := a.Build(context.Background(), dispatch.Classification{
		Intents:    dispatch.NewSet(dispatch.Calculate),
		Expression: "2+2",
	}, "2+2")

	if aug.Text != "\nCalculation: The result of 2+2 is 4\n" {
		t.Errorf("Text = %q", aug.Text)
	}
	if !aug.Used.Has(dispatch.Calculate) || aug.Used.Len() != 1 {
		t.Errorf("Used = %v", aug.Used)
	}
}

func TestBuild_CalculationWithoutExpression(t *testing.T) {
	rec := observability.NewRecorder()
	a := newAssembler(nil, nil, rec)

	aug := a.Build(context.Background(), classify("calculate my mortgage"), "calculate my mortgage")

	if aug.Text != "" || !aug.Used.Empty() {
		t.Errorf("Build() = %+v, want empty", aug)
	}
	if len(rec.Events()) != 0 {
		t.Errorf("events = %v, want none", rec.Types())
	}
}

func TestBuild_InvalidExpressionExplains(t *testing.T) {
	a := newAssembler(nil, nil, observability.NoOpObserver{})

	aug := a.Build(context.Background(), dispatch.Classification{
		Intents:    dispatch.NewSet(dispatch.Calculate),
		Expression: "5/0",
	}, "what is 5/0")

	if !strings.HasPrefix(aug.Text, "\nCalculation: I couldn't calculate that.") {
		t.Errorf("Text = %q", aug.Text)
	}
}

func TestBuild_FixedOrder(t *testing.T) {
	// The slowest collaborator is first in order; output must not follow
	// completion order.
	s := &fakeSearcher{
		results: []knowledge.Result{{Text: "Climate change refers to long-term shifts."}},
		delay:   30 * time.Millisecond,
	}
	w := &fakeWeather{report: weather.Report{Temperature: 5, Humidity: 80, WindSpeed: 10, ConditionCode: 61}}
	a := newAssembler(s, w, observability.NoOpObserver{})

	input := "what is the weather and climate, also 3*4"
	aug := a.Build(context.Background(), classify(input), input)

	want := []dispatch.Intent{dispatch.KnowledgeSearch, dispatch.Weather, dispatch.Calculate}
	var got []dispatch.Intent
	for _, s := range aug.Sections {
		got = append(got, s.Intent)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("section order mismatch (-want +got):\n%s", diff)
	}

	ik := strings.Index(aug.Text, "Relevant knowledge base results")
	iw := strings.Index(aug.Text, "Weather Information: Here's the weather in Toronto")
	ic := strings.Index(aug.Text, "Calculation: The result of 3*4 is 12")
	if ik < 0 || iw < 0 || ic < 0 || !(ik < iw && iw < ic) {
		t.Errorf("Text order wrong: %q", aug.Text)
	}
	if w.label != "Toronto" {
		t.Errorf("weather label = %q, want Toronto", w.label)
	}
	if s.topK.Load() != 2 {
		t.Errorf("topK = %d, want 2", s.topK.Load())
	}
}

func TestBuild_KnowledgeTruncation(t *testing.T) {
	long := strings.Repeat("a", 250)
	s := &fakeSearcher{results: []knowledge.Result{
		{Text: long},
		{Text: "short snippet"},
		{Text: "third result dropped"},
	}}
	a := newAssembler(s, nil, observability.NoOpObserver{})

	aug := a.Build(context.Background(), dispatch.Classification{Intents: dispatch.NewSet(dispatch.KnowledgeSearch)}, "explain")

	want := "\nRelevant knowledge base results:\n- " + strings.Repeat("a", 200) + "...\n- short snippet\n"
	if aug.Text != want {
		t.Errorf("Text = %q, want %q", aug.Text, want)
	}
}

func TestBuild_Degradation(t *testing.T) {
	tests := []struct {
		name     string
		searcher *fakeSearcher
		weather  *fakeWeather
		input    string
		wantUsed dispatch.Set
	}{
		{
			name:     "search error",
			searcher: &fakeSearcher{err: errors.New("index offline")},
			weather:  &fakeWeather{},
			input:    "tell me about rome",
		},
		{
			name:     "search empty",
			searcher: &fakeSearcher{},
			weather:  &fakeWeather{},
			input:    "tell me about rome",
		},
		{
			name:     "weather error keeps knowledge",
			searcher: &fakeSearcher{results: []knowledge.Result{{Text: "doc"}}},
			weather:  &fakeWeather{err: weather.ErrMalformedResponse},
			input:    "explain the weather",
			wantUsed: dispatch.NewSet(dispatch.KnowledgeSearch),
		},
		{
			name:     "weather timeout",
			searcher: &fakeSearcher{},
			weather:  &fakeWeather{delay: time.Second},
			input:    "will it rain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := observability.NewRecorder()
			a := augment.New(augment.Config{Timeout: config.Duration(20 * time.Millisecond)},
				augment.WithSearcher(tt.searcher),
				augment.WithWeather(tt.weather),
				augment.WithObserver(rec),
			)

			aug := a.Build(context.Background(), classify(tt.input), tt.input)

			if aug.Used != tt.wantUsed {
				t.Errorf("Used = %v, want %v", aug.Used, tt.wantUsed)
			}
			if len(rec.Find(augment.EventCapabilityDegraded)) == 0 {
				t.Error("no degraded event recorded")
			}
		})
	}
}

func TestBuild_MissingCollaborators(t *testing.T) {
	a := augment.New(augment.Config{})

	aug := a.Build(context.Background(), dispatch.Classification{
		Intents:    dispatch.NewSet(dispatch.KnowledgeSearch, dispatch.Weather, dispatch.Calculate),
		Expression: "1+1",
	}, "what is the weather, 1+1")

	if aug.Text != "" || !aug.Used.Empty() {
		t.Errorf("Build() = %+v, want empty", aug)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		text  string
		limit int
		want  string
	}{
		{text: "hello", limit: 10, want: "hello"},
		{text: "hello", limit: 5, want: "hello"},
		{text: "hello world", limit: 5, want: "hello..."},
		{text: "héllo wörld", limit: 4, want: "héll..."},
		{text: "anything", limit: 0, want: "anything"},
	}

	for _, tt := range tests {
		if got := augment.Truncate(tt.text, tt.limit); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.text, tt.limit, got, tt.want)
		}
	}
}

func TestConfig_Merge(t *testing.T) {
	cfg := augment.DefaultConfig()
	cfg.Merge(&augment.Config{TopK: 5, Location: augment.Location{Label: "Oslo", Latitude: 59.9, Longitude: 10.7}})

	if cfg.TopK != 5 || cfg.SnippetLength != 200 || cfg.Location.Label != "Oslo" {
		t.Errorf("Merge() = %+v", cfg)
	}
	if cfg.Timeout != config.Duration(5*time.Second) {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
}
