package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/tailored-agentic-units/aria/core/protocol"
)

// DefaultAnthropicModel is used when Config.Model is empty.
const DefaultAnthropicModel = "claude-3-5-haiku-latest"

type anthropicAgent struct {
	client anthropic.Client
	model  string
}

// NewAnthropic creates an Agent backed by the Anthropic Messages API. The
// API key defaults to ANTHROPIC_API_KEY.
func NewAnthropic(_ context.Context, cfg *Config) (Agent, error) {
	var opts []option.RequestOption
	if cfg.APIKey != "" {
		opts = append(opts, option.WithAPIKey(cfg.APIKey))
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultAnthropicModel
	}

	return &anthropicAgent{
		client: anthropic.NewClient(opts...),
		model:  model,
	}, nil
}

func (a *anthropicAgent) Provider() string { return ProviderAnthropic }
func (a *anthropicAgent) Model() string    { return a.model }

func (a *anthropicAgent) Complete(ctx context.Context, messages []protocol.Message, opts Options) (string, error) {
	system, dialogue := SplitSystem(messages)

	conv := make([]anthropic.MessageParam, 0, len(dialogue))
	for _, m := range dialogue {
		switch m.Role {
		case protocol.RoleAssistant:
			conv = append(conv, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			conv = append(conv, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(opts.MaxTokens),
		Messages:    conv,
		Temperature: anthropic.Float(opts.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}

	msg, err := a.client.Messages.New(ctx, params)
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", fmt.Errorf("%w: anthropic status %d", statusKind(apiErr.StatusCode), apiErr.StatusCode)
		}
		return "", fmt.Errorf("%w: %v", ErrNetwork, err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if strings.TrimSpace(text.String()) == "" {
		return "", ErrEmptyResponse
	}
	return text.String(), nil
}
