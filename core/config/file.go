package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/tidwall/jsonc"
)

// DecodeJSONC strips // and /* */ comments and trailing commas from data,
// then unmarshals the result into v.
func DecodeJSONC(data []byte, v any) error {
	if err := json.Unmarshal(jsonc.ToJSON(data), v); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// ReadJSONC reads a JSONC file from disk and decodes it into v.
func ReadJSONC(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := DecodeJSONC(data, v); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
