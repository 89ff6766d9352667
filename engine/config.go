package engine

import (
	"time"

	"github.com/tailored-agentic-units/aria/agent"
	"github.com/tailored-agentic-units/aria/augment"
	"github.com/tailored-agentic-units/aria/core/config"
	"github.com/tailored-agentic-units/aria/dispatch"
	"github.com/tailored-agentic-units/aria/guardrail"
	"github.com/tailored-agentic-units/aria/session"
	"github.com/tailored-agentic-units/aria/weather"
)

const (
	defaultTemperature       = 0.7
	defaultMaxTokens         = 500
	defaultCompletionTimeout = 30 * time.Second
	defaultObserver          = "slog"

	// DefaultKnowledgePath is where the hosting process keeps the knowledge
	// store.
	DefaultKnowledgePath = "aria-knowledge.db"
)

// Config holds initialization parameters for every subsystem in a turn.
// Each section delegates to that subsystem's config-driven constructor.
type Config struct {
	Agent     agent.Config     `json:"agent"`
	Session   session.Config   `json:"session"`
	Guardrail guardrail.Config `json:"guardrail"`
	Dispatch  dispatch.Config  `json:"dispatch"`
	Augment   augment.Config   `json:"augment"`
	Weather   weather.Config   `json:"weather"`

	// KnowledgePath locates the knowledge store. The engine does not open
	// it; the hosting process opens one store and shares it via
	// WithSearcher.
	KnowledgePath string `json:"knowledge_path,omitempty"`

	SystemPrompt      string          `json:"system_prompt,omitempty"`
	// Temperature is a pointer so a file can request 0.
	Temperature       *float64        `json:"temperature,omitempty"`
	MaxTokens         int             `json:"max_tokens,omitempty"`
	CompletionTimeout config.Duration `json:"completion_timeout,omitempty"`
	Observer          string          `json:"observer,omitempty"`
}

// DefaultConfig returns a Config with defaults for all subsystems.
func DefaultConfig() Config {
	return Config{
		Agent:             agent.DefaultConfig(),
		Session:           session.DefaultConfig(),
		Guardrail:         guardrail.DefaultConfig(),
		Dispatch:          dispatch.DefaultConfig(),
		Augment:           augment.DefaultConfig(),
		Weather:           weather.DefaultConfig(),
		KnowledgePath:     DefaultKnowledgePath,
		SystemPrompt:      DefaultSystemPrompt,
		Temperature:       Float(defaultTemperature),
		MaxTokens:         defaultMaxTokens,
		CompletionTimeout: config.Duration(defaultCompletionTimeout),
		Observer:          defaultObserver,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Agent.Merge(&source.Agent)
	c.Session.Merge(&source.Session)
	c.Guardrail.Merge(&source.Guardrail)
	c.Dispatch.Merge(&source.Dispatch)
	c.Augment.Merge(&source.Augment)
	c.Weather.Merge(&source.Weather)

	if source.KnowledgePath != "" {
		c.KnowledgePath = source.KnowledgePath
	}
	if source.SystemPrompt != "" {
		c.SystemPrompt = source.SystemPrompt
	}
	if source.Temperature != nil {
		c.Temperature = Float(*source.Temperature)
	}
	if source.MaxTokens > 0 {
		c.MaxTokens = source.MaxTokens
	}
	if source.CompletionTimeout > 0 {
		c.CompletionTimeout = source.CompletionTimeout
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSONC config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	var loaded Config
	if err := config.ReadJSONC(filename, &loaded); err != nil {
		return nil, err
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}

// Float returns a pointer to v, for optional config fields.
func Float(v float64) *float64 {
	return &v
}

func (c *Config) temperature() float64 {
	if c.Temperature == nil {
		return defaultTemperature
	}
	return *c.Temperature
}
