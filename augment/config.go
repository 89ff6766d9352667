package augment

import (
	"time"

	"github.com/tailored-agentic-units/aria/core/config"
)

// Location is the fixed place weather is reported for.
type Location struct {
	Label     string  `json:"label,omitempty"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// DefaultLocation is the demonstration location. Weather requests never
// extract a place from the user's input.
var DefaultLocation = Location{Label: "Toronto", Latitude: 43.6532, Longitude: -79.3832}

// Config holds context assembly settings.
type Config struct {
	TopK          int             `json:"top_k,omitempty"`
	SnippetLength int             `json:"snippet_length,omitempty"`
	Location      Location        `json:"location,omitzero"`
	Timeout       config.Duration `json:"timeout,omitempty"`
}

// DefaultConfig returns two knowledge results trimmed to 200 characters,
// the demonstration location, and a five second per-capability timeout.
func DefaultConfig() Config {
	return Config{
		TopK:          2,
		SnippetLength: 200,
		Location:      DefaultLocation,
		Timeout:       config.Duration(5 * time.Second),
	}
}

// Merge applies non-zero values from source into c. A location replaces the
// current one only when its label is set.
func (c *Config) Merge(source *Config) {
	if source.TopK > 0 {
		c.TopK = source.TopK
	}
	if source.SnippetLength > 0 {
		c.SnippetLength = source.SnippetLength
	}
	if source.Location.Label != "" {
		c.Location = source.Location
	}
	if source.Timeout > 0 {
		c.Timeout = source.Timeout
	}
}
