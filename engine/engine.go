// Package engine runs one conversational turn end to end: guardrail,
// memory, intent dispatch, context assembly, and the completion call.
//
// An Engine owns one session. It initializes from configuration via New;
// functional options replace any subsystem, which is how tests and the
// multi-session server share collaborators.
//
//	e, err := engine.New(&cfg, engine.WithSearcher(store))
//	res, err := e.ProcessTurn(ctx, "What is 2+2?")
package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/aria/agent"
	"github.com/tailored-agentic-units/aria/agent/mock"
	"github.com/tailored-agentic-units/aria/augment"
	"github.com/tailored-agentic-units/aria/core/protocol"
	"github.com/tailored-agentic-units/aria/dispatch"
	"github.com/tailored-agentic-units/aria/guardrail"
	"github.com/tailored-agentic-units/aria/observability"
	"github.com/tailored-agentic-units/aria/session"
	"github.com/tailored-agentic-units/aria/tools"
	"github.com/tailored-agentic-units/aria/weather"
)

// Metadata describes what happened during a turn.
type Metadata struct {
	TurnID string `json:"turn_id"`
	// Blocked is set when the guardrail refused the input. Reason names the
	// rule, for example "restricted_topic:dogs".
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
	// Skipped is set for empty or whitespace-only input.
	Skipped bool `json:"skipped,omitempty"`
	// Intents fired by the dispatcher; ServicesUsed is the subset whose
	// section made it into the prompt.
	Intents        dispatch.Set  `json:"intents"`
	ServicesUsed   dispatch.Set  `json:"services_used"`
	ProviderFailed bool          `json:"provider_failed,omitempty"`
	Memory         session.Stats `json:"memory_status"`
}

// Result holds the outcome of a turn.
type Result struct {
	Response string   `json:"response"`
	Metadata Metadata `json:"metadata"`
	// Augmentation is the capability context sent with this turn only.
	Augmentation string `json:"-"`
}

// Option configures an Engine. Options run before config-driven
// initialization; any subsystem an option supplies is not built from config.
type Option func(*Engine)

// WithAgent overrides the config-created agent.
func WithAgent(a agent.Agent) Option {
	return func(e *Engine) { e.agent = a }
}

// WithProviders overrides the provider registry used to create the agent.
func WithProviders(r *agent.Registry) Option {
	return func(e *Engine) { e.providers = r }
}

// WithSession overrides the config-created session.
func WithSession(s session.Session) Option {
	return func(e *Engine) { e.session = s }
}

// WithFilter overrides the config-created guardrail filter.
func WithFilter(f *guardrail.Filter) Option {
	return func(e *Engine) { e.filter = f }
}

// WithClassifier overrides the config-created intent classifier.
func WithClassifier(c *dispatch.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithAssembler overrides the config-created context assembler. Searcher,
// weather and function overrides are ignored when an assembler is supplied.
func WithAssembler(a *augment.Assembler) Option {
	return func(e *Engine) { e.assembler = a }
}

// WithSearcher sets the knowledge-search collaborator. Without one the
// knowledge_search intent always degrades.
func WithSearcher(s augment.Searcher) Option {
	return func(e *Engine) { e.searcher = s }
}

// WithWeather overrides the config-created weather client.
func WithWeather(w augment.WeatherSource) Option {
	return func(e *Engine) { e.weather = w }
}

// WithFunctions overrides the built-in function registry.
func WithFunctions(r *tools.Registry) Option {
	return func(e *Engine) { e.functions = r }
}

// WithObserver overrides the config-named observer.
func WithObserver(o observability.Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// Engine processes turns for one session. Turns are serialized.
type Engine struct {
	mu sync.Mutex

	agent      agent.Agent
	providers  *agent.Registry
	session    session.Session
	filter     *guardrail.Filter
	classifier *dispatch.Classifier
	assembler  *augment.Assembler
	searcher   augment.Searcher
	weather    augment.WeatherSource
	functions  *tools.Registry
	observer   observability.Observer

	systemPrompt string
	options      agent.Options
	timeout      time.Duration
}

// Providers returns a registry with every built-in provider: anthropic,
// gemini, and the offline mock.
func Providers() *agent.Registry {
	r := agent.Builtin()
	_ = r.Register(agent.ProviderMock, mock.Factory)
	return r
}

// New creates an Engine from configuration. Subsystems not supplied by an
// option are initialized from their config sections.
func New(cfg *Config, opts ...Option) (*Engine, error) {
	full := DefaultConfig()
	if cfg != nil {
		full.Merge(cfg)
	}

	e := &Engine{
		systemPrompt: full.SystemPrompt,
		options: agent.Options{
			Temperature: full.temperature(),
			MaxTokens:   full.MaxTokens,
		},
		timeout: full.CompletionTimeout.Std(),
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.observer == nil {
		obs, err := observability.Resolve(full.Observer)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve observer: %w", err)
		}
		e.observer = obs
	}

	if e.agent == nil {
		if e.providers == nil {
			e.providers = Providers()
		}
		a, err := e.providers.New(context.Background(), &full.Agent)
		if err != nil {
			return nil, fmt.Errorf("failed to create agent: %w", err)
		}
		e.agent = a
	}

	if e.session == nil {
		s, err := session.New(&full.Session)
		if err != nil {
			return nil, fmt.Errorf("failed to create session: %w", err)
		}
		e.session = s
	}

	if e.filter == nil {
		f, err := guardrail.NewFromConfig(&full.Guardrail)
		if err != nil {
			return nil, fmt.Errorf("failed to create guardrail: %w", err)
		}
		e.filter = f
	}

	if e.classifier == nil {
		c, err := dispatch.NewClassifierFromConfig(&full.Dispatch)
		if err != nil {
			return nil, fmt.Errorf("failed to create classifier: %w", err)
		}
		e.classifier = c
	}

	if e.functions == nil {
		e.functions = tools.Builtin(nil)
	}

	if e.assembler == nil {
		if e.weather == nil {
			e.weather = weather.New(full.Weather)
		}
		assemblerOpts := []augment.Option{
			augment.WithWeather(e.weather),
			augment.WithFunctions(e.functions),
			augment.WithObserver(e.observer),
		}
		if e.searcher != nil {
			assemblerOpts = append(assemblerOpts, augment.WithSearcher(e.searcher))
		}
		e.assembler = augment.New(full.Augment, assemblerOpts...)
	}

	return e, nil
}

// SessionID returns the identifier of the engine's session.
func (e *Engine) SessionID() string {
	return e.session.ID()
}

// Stats returns the session's memory statistics.
func (e *Engine) Stats() session.Stats {
	return e.session.Stats()
}

// History returns a copy of the stored conversation.
func (e *Engine) History() []protocol.Message {
	return e.session.Messages()
}

// Recent returns a copy of the last n stored messages, oldest first.
func (e *Engine) Recent(n int) []protocol.Message {
	return e.session.LastN(n)
}

// Functions lists the functions callable through CallFunction.
func (e *Engine) Functions() []protocol.Tool {
	return e.functions.List()
}

// CallFunction invokes a registered function directly with JSON arguments.
// It does not touch the conversation.
func (e *Engine) CallFunction(ctx context.Context, name string, args json.RawMessage) (tools.Result, error) {
	return e.functions.Call(ctx, name, args)
}

// Reset clears the conversation.
func (e *Engine) Reset(ctx context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.session.Clear()
	e.emit(ctx, EventReset, observability.LevelInfo, map[string]any{
		"session_id": e.session.ID(),
	})
}

// ProcessTurn runs one turn. Blocked input returns the guardrail's canned
// response and leaves memory untouched. Empty input is a no-op. A failed
// completion returns ApologyResponse and stores no assistant message.
// The returned error is reserved for broken invariants, not for provider or
// capability failures.
func (e *Engine) ProcessTurn(ctx context.Context, input string) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	res := &Result{Metadata: Metadata{TurnID: uuid.Must(uuid.NewV7()).String()}}
	turn := map[string]any{"turn_id": res.Metadata.TurnID}

	e.emit(ctx, EventTurnStart, observability.LevelVerbose, with(turn, map[string]any{
		"session_id":   e.session.ID(),
		"input_length": len(input),
	}))

	decision := e.filter.Check(input)
	if !decision.Proceed {
		res.Response = decision.Response
		res.Metadata.Blocked = true
		res.Metadata.Reason = decision.Reason.String()
		res.Metadata.Memory = e.session.Stats()

		e.emit(ctx, EventGuardrailBlock, observability.LevelInfo, with(turn, map[string]any{
			"reason": res.Metadata.Reason,
		}))
		return res, nil
	}

	if strings.TrimSpace(input) == "" {
		res.Metadata.Skipped = true
		res.Metadata.Memory = e.session.Stats()
		e.emit(ctx, EventTurnSkip, observability.LevelVerbose, turn)
		return res, nil
	}

	if err := e.session.AddMessage(protocol.User(input)); err != nil {
		return nil, fmt.Errorf("failed to record user message: %w", err)
	}

	classification := e.classifier.Classify(input)
	res.Metadata.Intents = classification.Intents
	e.emit(ctx, EventIntents, observability.LevelVerbose, with(turn, map[string]any{
		"intents":    classification.Intents.String(),
		"expression": classification.Expression,
	}))

	aug := e.assembler.Build(ctx, classification, input)
	res.Augmentation = aug.Text
	res.Metadata.ServicesUsed = aug.Used

	text, err := e.complete(ctx, e.buildMessages(aug.Text))
	if err != nil {
		res.Response = ApologyResponse
		res.Metadata.ProviderFailed = true
		res.Metadata.Memory = e.session.Stats()

		e.emit(ctx, EventCompletionFailed, observability.LevelWarning, with(turn, map[string]any{
			"provider": e.agent.Provider(),
			"model":    e.agent.Model(),
			"error":    err.Error(),
		}))
		return res, nil
	}

	if err := e.session.AddMessage(protocol.Assistant(text)); err != nil {
		return nil, fmt.Errorf("failed to record assistant message: %w", err)
	}

	res.Response = text
	res.Metadata.Memory = e.session.Stats()

	e.emit(ctx, EventResponse, observability.LevelInfo, with(turn, map[string]any{
		"response_length":     len(text),
		"services_used":       aug.Used.String(),
		"conversation_length": res.Metadata.Memory.Length,
	}))
	return res, nil
}

func (e *Engine) complete(ctx context.Context, messages []protocol.Message) (string, error) {
	cctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	text, err := e.agent.Complete(cctx, messages, e.options)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", agent.ErrEmptyResponse
	}
	return text, nil
}

// buildMessages prepends the system instructions, with this turn's
// capability context, to the stored conversation.
func (e *Engine) buildMessages(augmentation string) []protocol.Message {
	history := e.session.Messages()

	messages := make([]protocol.Message, 0, len(history)+1)
	messages = append(messages, protocol.System(e.systemPrompt+augmentation))
	messages = append(messages, history...)
	return messages
}

func (e *Engine) emit(ctx context.Context, typ observability.EventType, level observability.Level, data map[string]any) {
	e.observer.OnEvent(ctx, observability.NewEvent(typ, level, "engine", data))
}

func with(base, extra map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(extra))
	maps.Copy(out, base)
	maps.Copy(out, extra)
	return out
}
