package server

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// codecName replaces connect's protobuf-JSON codec so plain Go structs can
// travel as application/json.
const codecName = "json"

type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return codecName }

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}
