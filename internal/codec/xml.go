package codec

import (
	"encoding/xml"
	"fmt"
	"io"

	"nodegraph/internal/domain"
)

// XMLCodec stores each document as an XML list, in the ArrayOfNode /
// ArrayOfConnection layout used by the editor's original save files
type XMLCodec struct{}

type xmlNodeList struct {
	XMLName xml.Name            `xml:"ArrayOfNode"`
	Nodes   []domain.NodeRecord `xml:"Node"`
}

type xmlConnectionList struct {
	XMLName     xml.Name                  `xml:"ArrayOfConnection"`
	Connections []domain.ConnectionRecord `xml:"Connection"`
}

// NewXMLCodec creates a new XML codec
func NewXMLCodec() *XMLCodec {
	return &XMLCodec{}
}

// Format returns the codec format identifier
func (c *XMLCodec) Format() string {
	return "xml"
}

// EncodeNodes writes node records as an ArrayOfNode document
func (c *XMLCodec) EncodeNodes(w io.Writer, nodes []domain.NodeRecord) error {
	return c.encode(w, xmlNodeList{Nodes: nodes})
}

// DecodeNodes reads an ArrayOfNode document
func (c *XMLCodec) DecodeNodes(r io.Reader) ([]domain.NodeRecord, error) {
	var list xmlNodeList
	if err := xml.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse XML nodes: %w", err)
	}
	return nonNil(list.Nodes), nil
}

// EncodeConnections writes connection records as an ArrayOfConnection document
func (c *XMLCodec) EncodeConnections(w io.Writer, connections []domain.ConnectionRecord) error {
	return c.encode(w, xmlConnectionList{Connections: connections})
}

// DecodeConnections reads an ArrayOfConnection document
func (c *XMLCodec) DecodeConnections(r io.Reader) ([]domain.ConnectionRecord, error) {
	var list xmlConnectionList
	if err := xml.NewDecoder(r).Decode(&list); err != nil {
		return nil, fmt.Errorf("failed to parse XML connections: %w", err)
	}
	return nonNil(list.Connections), nil
}

func (c *XMLCodec) encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write XML header: %w", err)
	}

	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")

	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode XML: %w", err)
	}
	if err := encoder.Flush(); err != nil {
		return fmt.Errorf("failed to flush XML: %w", err)
	}

	return nil
}
