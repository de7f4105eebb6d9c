package codec

import (
	"fmt"
	"io"
	"strings"

	"nodegraph/internal/domain"
)

// Codec encodes and decodes the two flat record lists of a graph store
type Codec interface {
	EncodeNodes(w io.Writer, nodes []domain.NodeRecord) error
	DecodeNodes(r io.Reader) ([]domain.NodeRecord, error)
	EncodeConnections(w io.Writer, connections []domain.ConnectionRecord) error
	DecodeConnections(r io.Reader) ([]domain.ConnectionRecord, error)

	// Format returns the codec format identifier, also used as file extension
	Format() string
}

// ForFormat returns the codec registered for format
func ForFormat(format string) (Codec, error) {
	switch strings.ToLower(format) {
	case "xml", "":
		return NewXMLCodec(), nil
	case "json":
		return NewJSONCodec(), nil
	case "yaml", "yml":
		return NewYAMLCodec(), nil
	default:
		return nil, fmt.Errorf("unsupported store format: %q", format)
	}
}

// nonNil keeps empty documents encoding as empty lists instead of null
func nonNil[T any](s []T) []T {
	if s == nil {
		return make([]T, 0)
	}
	return s
}
