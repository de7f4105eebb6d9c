package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"nodegraph/internal/domain"
)

// JSONCodec stores each document as a JSON array
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// EncodeNodes writes node records as a JSON array
func (c *JSONCodec) EncodeNodes(w io.Writer, nodes []domain.NodeRecord) error {
	return c.encode(w, nonNil(nodes))
}

// DecodeNodes reads a JSON array of node records
func (c *JSONCodec) DecodeNodes(r io.Reader) ([]domain.NodeRecord, error) {
	var nodes []domain.NodeRecord
	if err := json.NewDecoder(r).Decode(&nodes); err != nil {
		return nil, fmt.Errorf("failed to parse JSON nodes: %w", err)
	}
	return nonNil(nodes), nil
}

// EncodeConnections writes connection records as a JSON array
func (c *JSONCodec) EncodeConnections(w io.Writer, connections []domain.ConnectionRecord) error {
	return c.encode(w, nonNil(connections))
}

// DecodeConnections reads a JSON array of connection records
func (c *JSONCodec) DecodeConnections(r io.Reader) ([]domain.ConnectionRecord, error) {
	var connections []domain.ConnectionRecord
	if err := json.NewDecoder(r).Decode(&connections); err != nil {
		return nil, fmt.Errorf("failed to parse JSON connections: %w", err)
	}
	return nonNil(connections), nil
}

func (c *JSONCodec) encode(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
