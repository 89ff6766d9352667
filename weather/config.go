package weather

import (
	"time"

	"github.com/tailored-agentic-units/aria/core/config"
)

// DefaultBaseURL is the Open-Meteo forecast endpoint.
const DefaultBaseURL = "https://api.open-meteo.com/v1/forecast"

// Config holds weather client settings.
type Config struct {
	BaseURL string          `json:"base_url,omitempty"`
	Timeout config.Duration `json:"timeout,omitempty"`
}

// DefaultConfig returns a Config with the public Open-Meteo endpoint and a
// ten second HTTP timeout.
func DefaultConfig() Config {
	return Config{
		BaseURL: DefaultBaseURL,
		Timeout: config.Duration(10 * time.Second),
	}
}

// Merge overlays non-zero values from source onto c.
func (c *Config) Merge(source *Config) {
	if source.BaseURL != "" {
		c.BaseURL = source.BaseURL
	}
	if source.Timeout > 0 {
		c.Timeout = source.Timeout
	}
}
