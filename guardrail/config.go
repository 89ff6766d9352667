package guardrail

// Config holds guardrail initialization parameters.
type Config struct {
	RulesPath string `json:"rules_path,omitempty"` // YAML rule file; empty uses the embedded rules.
}

// DefaultConfig returns the default guardrail configuration (embedded rules).
func DefaultConfig() Config {
	return Config{}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.RulesPath != "" {
		c.RulesPath = source.RulesPath
	}
}
