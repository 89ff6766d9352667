// Package config provides shared configuration primitives used by every
// subsystem's Config type.
//
// Merge semantics follow one convention across the repository:
//
//   - Strings: merge if source is non-empty
//   - Integers and floats: merge if source is greater than zero
//   - Durations: merge if source is greater than zero
//   - Pointers: merge if source is non-nil
//   - Nested configs: recursive merge
package config

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration is a time.Duration that encodes to and from JSON as a Go
// duration string ("5s", "250ms"). Plain JSON numbers are read as seconds.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}

func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(v * float64(time.Second))
	default:
		return fmt.Errorf("invalid duration: %s", data)
	}
	return nil
}
