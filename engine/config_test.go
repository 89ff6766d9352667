package engine_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/tailored-agentic-units/aria/core/config"
	"github.com/tailored-agentic-units/aria/engine"
)

func TestDefaultConfig(t *testing.T) {
	cfg := engine.DefaultConfig()

	if cfg.Agent.Provider != "mock" {
		t.Errorf("Agent.Provider = %q, want mock", cfg.Agent.Provider)
	}
	if cfg.Session.MaxPairs != 10 {
		t.Errorf("Session.MaxPairs = %d, want 10", cfg.Session.MaxPairs)
	}
	if cfg.Augment.TopK != 2 || cfg.Augment.SnippetLength != 200 {
		t.Errorf("Augment = %+v", cfg.Augment)
	}
	if cfg.Augment.Location.Label != "Toronto" {
		t.Errorf("Location = %+v", cfg.Augment.Location)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0.7 || cfg.MaxTokens != 500 {
		t.Errorf("sampling = %v/%d", cfg.Temperature, cfg.MaxTokens)
	}
	if cfg.CompletionTimeout != config.Duration(30*time.Second) {
		t.Errorf("CompletionTimeout = %v", cfg.CompletionTimeout)
	}
	if cfg.KnowledgePath != engine.DefaultKnowledgePath {
		t.Errorf("KnowledgePath = %q", cfg.KnowledgePath)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aria.jsonc")
	data := `{
		// provider selection
		"agent": {"provider": "anthropic", "model": "claude-test"},
		"session": {"max_pairs": 4},
		"augment": {"timeout": "2s", "location": {"label": "Oslo", "latitude": 59.91, "longitude": 10.75}},
		"max_tokens": 256, /* trailing comma below */
	}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := engine.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Agent.Provider != "anthropic" || cfg.Agent.Model != "claude-test" {
		t.Errorf("Agent = %+v", cfg.Agent)
	}
	if cfg.Session.MaxPairs != 4 {
		t.Errorf("MaxPairs = %d, want 4", cfg.Session.MaxPairs)
	}
	if cfg.Augment.Timeout != config.Duration(2*time.Second) || cfg.Augment.TopK != 2 {
		t.Errorf("Augment = %+v", cfg.Augment)
	}
	if cfg.Augment.Location.Label != "Oslo" {
		t.Errorf("Location = %+v", cfg.Augment.Location)
	}
	if cfg.MaxTokens != 256 || *cfg.Temperature != 0.7 {
		t.Errorf("sampling = %v/%d", cfg.Temperature, cfg.MaxTokens)
	}
	if cfg.SystemPrompt != engine.DefaultSystemPrompt {
		t.Error("SystemPrompt not defaulted")
	}
}

func TestLoadConfig_ZeroTemperature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "aria.jsonc")
	if err := os.WriteFile(path, []byte(`{"temperature": 0}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := engine.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Temperature == nil || *cfg.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", cfg.Temperature)
	}
}

func TestMerge_TemperatureUnsetKeepsDefault(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.Merge(&engine.Config{MaxTokens: 100})

	if *cfg.Temperature != 0.7 {
		t.Errorf("Temperature = %v, want 0.7", *cfg.Temperature)
	}
}

func TestLoadConfig_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := engine.LoadConfig(filepath.Join(dir, "missing.jsonc")); err == nil {
		t.Error("missing file should fail")
	}

	bad := filepath.Join(dir, "bad.jsonc")
	if err := os.WriteFile(bad, []byte(`{"max_tokens": "many"}`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := engine.LoadConfig(bad); err == nil {
		t.Error("invalid field type should fail")
	}
}
