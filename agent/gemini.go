package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/tailored-agentic-units/aria/core/protocol"
)

// DefaultGeminiModel is used when Config.Model is empty.
const DefaultGeminiModel = "gemini-2.5-flash"

type geminiAgent struct {
	client *genai.Client
	model  string
}

// NewGemini creates an Agent backed by the Gemini API. The API key defaults
// to GEMINI_API_KEY or GOOGLE_API_KEY.
func NewGemini(ctx context.Context, cfg *Config) (Agent, error) {
	cc := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = DefaultGeminiModel
	}

	return &geminiAgent{client: client, model: model}, nil
}

func (a *geminiAgent) Provider() string { return ProviderGemini }
func (a *geminiAgent) Model() string    { return a.model }

func (a *geminiAgent) Complete(ctx context.Context, messages []protocol.Message, opts Options) (string, error) {
	system, dialogue := SplitSystem(messages)

	contents := make([]*genai.Content, 0, len(dialogue))
	for _, m := range dialogue {
		role := genai.Role(genai.RoleUser)
		if m.Role == protocol.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}

	temp := float32(opts.Temperature)
	cfg := &genai.GenerateContentConfig{
		Temperature:     &temp,
		MaxOutputTokens: int32(opts.MaxTokens),
	}
	if system != "" {
		cfg.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	res, err := a.client.Models.GenerateContent(ctx, a.model, contents, cfg)
	if err != nil {
		return "", classifyGenai(err)
	}

	text := res.Text()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func classifyGenai(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: gemini status %d", statusKind(apiErr.Code), apiErr.Code)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return fmt.Errorf("%w: gemini status %d", statusKind(apiErrPtr.Code), apiErrPtr.Code)
	}
	return fmt.Errorf("%w: %v", ErrNetwork, err)
}
