package dispatch

import (
	"fmt"
	"os"
)

// Config holds classifier initialization parameters.
type Config struct {
	TriggersPath string `json:"triggers_path,omitempty"` // YAML trigger table; empty uses the embedded table.
}

// DefaultConfig returns the default classifier configuration (embedded triggers).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.TriggersPath != "" {
		c.TriggersPath = source.TriggersPath
	}
}

// LoadTriggersFile reads and parses a YAML trigger table.
func LoadTriggersFile(path string) (*Triggers, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read intent triggers: %w", err)
	}
	return ParseTriggers(data)
}

// NewClassifierFromConfig builds a Classifier from the embedded triggers, or
// from cfg.TriggersPath when set.
func NewClassifierFromConfig(cfg *Config) (*Classifier, error) {
	if cfg == nil || cfg.TriggersPath == "" {
		return NewClassifier(nil), nil
	}
	t, err := LoadTriggersFile(cfg.TriggersPath)
	if err != nil {
		return nil, err
	}
	return NewClassifier(t), nil
}
