// Package augment builds the per-turn context block appended to the system
// instructions. It calls the capability collaborators for the triggered
// intents concurrently and renders their results in fixed intent order.
// A failing collaborator only removes its own section.
package augment

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/aria/dispatch"
	"github.com/tailored-agentic-units/aria/knowledge"
	"github.com/tailored-agentic-units/aria/observability"
	"github.com/tailored-agentic-units/aria/tools"
	"github.com/tailored-agentic-units/aria/weather"
)

const (
	EventCapabilityComplete observability.EventType = "augment.capability.complete"
	EventCapabilityDegraded observability.EventType = "augment.capability.degraded"
)

const truncationMarker = "..."

// Searcher is the knowledge-search collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, topK int) ([]knowledge.Result, error)
}

// WeatherSource is the weather collaborator.
type WeatherSource interface {
	Current(ctx context.Context, lat, lon float64, label string) (weather.Report, error)
}

// Executor is the function registry collaborator.
type Executor interface {
	Execute(ctx context.Context, cmd tools.Command) (tools.Result, error)
}

// Section is one rendered capability result.
type Section struct {
	Intent dispatch.Intent `json:"intent"`
	Text   string          `json:"text"`
}

// Augmentation is the assembled context for one turn. Text is empty when no
// section survived.
type Augmentation struct {
	Text     string       `json:"text"`
	Used     dispatch.Set `json:"used"`
	Sections []Section    `json:"sections,omitempty"`
}

// Assembler calls capability collaborators and formats their results.
type Assembler struct {
	cfg       Config
	searcher  Searcher
	weather   WeatherSource
	functions Executor
	observer  observability.Observer
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithSearcher sets the knowledge-search collaborator.
func WithSearcher(s Searcher) Option {
	return func(a *Assembler) { a.searcher = s }
}

// WithWeather sets the weather collaborator.
func WithWeather(w WeatherSource) Option {
	return func(a *Assembler) { a.weather = w }
}

// WithFunctions sets the function registry used for calculations.
func WithFunctions(e Executor) Option {
	return func(a *Assembler) { a.functions = e }
}

// WithObserver sets the observer for capability events.
func WithObserver(o observability.Observer) Option {
	return func(a *Assembler) { a.observer = o }
}

// New creates an Assembler. Collaborators left unset make their intent
// degrade on every call.
func New(cfg Config, opts ...Option) *Assembler {
	full := DefaultConfig()
	full.Merge(&cfg)

	a := &Assembler{
		cfg:      full,
		observer: observability.NoOpObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Config returns the effective configuration.
func (a *Assembler) Config() Config {
	return a.cfg
}

// Build runs the collaborators for every intent in c and assembles their
// sections in dispatch.Order. Each call gets its own timeout; errors are
// reported to the observer and never returned.
func (a *Assembler) Build(ctx context.Context, c dispatch.Classification, input string) Augmentation {
	var (
		texts [len(dispatch.Order)]string
		g     errgroup.Group
	)

	for slot, intent := range dispatch.Order {
		if !c.Intents.Has(intent) {
			continue
		}
		if intent == dispatch.Calculate && !c.HasExpression() {
			continue
		}

		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout.Std())
			defer cancel()

			start := time.Now()
			text, err := a.run(cctx, intent, c, input)
			elapsed := time.Since(start)

			switch {
			case err != nil:
				a.emit(ctx, EventCapabilityDegraded, observability.LevelWarning, map[string]any{
					"intent":      intent.String(),
					"error":       err.Error(),
					"duration_ms": elapsed.Milliseconds(),
				})
			case text == "":
				a.emit(ctx, EventCapabilityDegraded, observability.LevelVerbose, map[string]any{
					"intent":      intent.String(),
					"error":       "empty result",
					"duration_ms": elapsed.Milliseconds(),
				})
			default:
				texts[slot] = text
				a.emit(ctx, EventCapabilityComplete, observability.LevelVerbose, map[string]any{
					"intent":      intent.String(),
					"duration_ms": elapsed.Milliseconds(),
				})
			}
			return nil
		})
	}
	_ = g.Wait()

	var (
		out Augmentation
		b   strings.Builder
	)
	for slot, intent := range dispatch.Order {
		if texts[slot] == "" {
			continue
		}
		b.WriteString(texts[slot])
		out.Used = out.Used.With(intent)
		out.Sections = append(out.Sections, Section{Intent: intent, Text: texts[slot]})
	}
	out.Text = b.String()
	return out
}

func (a *Assembler) run(ctx context.Context, intent dispatch.Intent, c dispatch.Classification, input string) (string, error) {
	switch intent {
	case dispatch.KnowledgeSearch:
		return a.knowledgeSection(ctx, input)
	case dispatch.Weather:
		return a.weatherSection(ctx)
	case dispatch.Calculate:
		return a.calculationSection(ctx, c.Expression)
	}
	return "", nil
}

func (a *Assembler) knowledgeSection(ctx context.Context, input string) (string, error) {
	if a.searcher == nil {
		return "", errUnavailable
	}

	results, err := a.searcher.Search(ctx, input, a.cfg.TopK)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	n := 0
	for _, r := range results {
		text := strings.TrimSpace(r.Text)
		if text == "" {
			continue
		}
		if n == 0 {
			b.WriteString("\nRelevant knowledge base results:\n")
		}
		b.WriteString("- ")
		b.WriteString(Truncate(text, a.cfg.SnippetLength))
		b.WriteString("\n")
		n++
		if n == a.cfg.TopK {
			break
		}
	}
	return b.String(), nil
}

func (a *Assembler) weatherSection(ctx context.Context) (string, error) {
	if a.weather == nil {
		return "", errUnavailable
	}

	loc := a.cfg.Location
	report, err := a.weather.Current(ctx, loc.Latitude, loc.Longitude, loc.Label)
	if err != nil {
		return "", err
	}
	return "\nWeather Information: " + report.String() + "\n", nil
}

func (a *Assembler) calculationSection(ctx context.Context, expr string) (string, error) {
	if a.functions == nil {
		return "", errUnavailable
	}

	res, err := a.functions.Execute(ctx, tools.Calculate{Expression: expr})
	if err != nil {
		return "", err
	}
	if res.Content == "" {
		return "", nil
	}
	return "\nCalculation: " + res.Content + "\n", nil
}

func (a *Assembler) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	a.observer.OnEvent(ctx, observability.NewEvent(typ, level, "augment", data))
}

// Truncate shortens text to at most limit characters, appending "..." only
// when characters were removed. A non-positive limit disables truncation.
func Truncate(text string, limit int) string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text
	}
	runes := []rune(text)
	return string(runes[:limit]) + truncationMarker
}
