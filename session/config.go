package session

// DefaultMaxPairs is the number of user/assistant pairs a session keeps.
const DefaultMaxPairs = 10

// Config holds session initialization parameters.
type Config struct {
	// MaxPairs bounds the log at 2*MaxPairs messages.
	MaxPairs int `json:"max_pairs,omitempty"`
	// TokenLimit is an advisory context budget. It is recorded but does not
	// drive eviction.
	TokenLimit int `json:"token_limit,omitempty"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{MaxPairs: DefaultMaxPairs}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.MaxPairs > 0 {
		c.MaxPairs = source.MaxPairs
	}
	if source.TokenLimit > 0 {
		c.TokenLimit = source.TokenLimit
	}
}

// New creates a Session from configuration. Currently returns an in-memory session.
func New(cfg *Config) (Session, error) {
	s := NewMemorySession(cfg.MaxPairs).(*memorySession)
	s.tokenLimit = cfg.TokenLimit
	return s, nil
}
