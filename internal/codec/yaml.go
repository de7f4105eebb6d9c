package codec

import (
	"errors"
	"fmt"
	"io"

	"nodegraph/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec stores each document as a YAML sequence
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// EncodeNodes writes node records as a YAML sequence
func (c *YAMLCodec) EncodeNodes(w io.Writer, nodes []domain.NodeRecord) error {
	return c.encode(w, nonNil(nodes))
}

// DecodeNodes reads a YAML sequence of node records
func (c *YAMLCodec) DecodeNodes(r io.Reader) ([]domain.NodeRecord, error) {
	var nodes []domain.NodeRecord
	if err := c.decode(r, &nodes); err != nil {
		return nil, fmt.Errorf("failed to parse YAML nodes: %w", err)
	}
	return nonNil(nodes), nil
}

// EncodeConnections writes connection records as a YAML sequence
func (c *YAMLCodec) EncodeConnections(w io.Writer, connections []domain.ConnectionRecord) error {
	return c.encode(w, nonNil(connections))
}

// DecodeConnections reads a YAML sequence of connection records
func (c *YAMLCodec) DecodeConnections(r io.Reader) ([]domain.ConnectionRecord, error) {
	var connections []domain.ConnectionRecord
	if err := c.decode(r, &connections); err != nil {
		return nil, fmt.Errorf("failed to parse YAML connections: %w", err)
	}
	return nonNil(connections), nil
}

// decode treats an empty document as an empty list
func (c *YAMLCodec) decode(r io.Reader, v any) error {
	err := yaml.NewDecoder(r).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func (c *YAMLCodec) encode(w io.Writer, v any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)

	if err := encoder.Encode(v); err != nil {
		encoder.Close()
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("failed to flush YAML: %w", err)
	}

	return nil
}
