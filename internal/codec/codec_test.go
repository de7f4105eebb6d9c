package codec

import (
	"bytes"
	"encoding/xml"
	"errors"
	"strings"
	"testing"

	"nodegraph/internal/domain"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ignoreXMLName = cmpopts.IgnoreTypes(xml.Name{})

func sampleRecords() ([]domain.NodeRecord, []domain.ConnectionRecord) {
	nodes := []domain.NodeRecord{
		{
			Rect:     domain.Rect{X: 0, Y: 0, Width: 400, Height: 200},
			InPoint:  domain.PointRecord{ID: "a-in"},
			OutPoint: domain.PointRecord{ID: "a-out"},
		},
		{
			Rect:     domain.Rect{X: 100.5, Y: -20, Width: 400, Height: 200},
			InPoint:  domain.PointRecord{ID: "b-in"},
			OutPoint: domain.PointRecord{ID: "b-out"},
		},
	}
	connections := []domain.ConnectionRecord{
		{InPoint: domain.PointRecord{ID: "b-in"}, OutPoint: domain.PointRecord{ID: "a-out"}},
		{InPoint: domain.PointRecord{ID: "b-in"}, OutPoint: domain.PointRecord{ID: "a-out"}},
	}
	return nodes, connections
}

func TestCodecsPreserveRecords(t *testing.T) {
	for _, format := range []string{"xml", "json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			c, err := ForFormat(format)
			require.NoError(t, err)
			assert.Equal(t, format, c.Format())

			nodes, connections := sampleRecords()

			var nodeBuf, connBuf bytes.Buffer
			require.NoError(t, c.EncodeNodes(&nodeBuf, nodes))
			require.NoError(t, c.EncodeConnections(&connBuf, connections))

			gotNodes, err := c.DecodeNodes(&nodeBuf)
			require.NoError(t, err)
			gotConns, err := c.DecodeConnections(&connBuf)
			require.NoError(t, err)

			if diff := cmp.Diff(nodes, gotNodes, ignoreXMLName); diff != "" {
				t.Errorf("nodes mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(connections, gotConns, ignoreXMLName); diff != "" {
				t.Errorf("connections mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCodecsEmptyDocuments(t *testing.T) {
	for _, format := range []string{"xml", "json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			c, err := ForFormat(format)
			require.NoError(t, err)

			var buf bytes.Buffer
			require.NoError(t, c.EncodeNodes(&buf, nil))

			nodes, err := c.DecodeNodes(&buf)
			require.NoError(t, err)
			assert.NotNil(t, nodes)
			assert.Empty(t, nodes)
		})
	}
}

func TestXMLCodecReadsArrayOfNode(t *testing.T) {
	doc := `<?xml version="1.0" encoding="utf-8"?>
<ArrayOfNode>
  <Node>
    <rect><x>10</x><y>20</y><width>400</width><height>200</height></rect>
    <inPoint><id>in-1</id></inPoint>
    <outPoint><id>out-1</id></outPoint>
  </Node>
</ArrayOfNode>`

	nodes, err := NewXMLCodec().DecodeNodes(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, domain.Rect{X: 10, Y: 20, Width: 400, Height: 200}, nodes[0].Rect)
	assert.Equal(t, "in-1", nodes[0].InPoint.ID)
	assert.Equal(t, "out-1", nodes[0].OutPoint.ID)
}

func TestJSONCodecRejectsGarbage(t *testing.T) {
	_, err := NewJSONCodec().DecodeConnections(strings.NewReader("{not json"))
	assert.Error(t, err)
}

func TestForFormatUnknown(t *testing.T) {
	_, err := ForFormat("toml")
	assert.Error(t, err)
}

// failingWriter rejects every write
type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestYAMLCodecReportsWriteErrors(t *testing.T) {
	c := NewYAMLCodec()
	nodes := []domain.NodeRecord{{InPoint: domain.PointRecord{ID: "a-in"}, OutPoint: domain.PointRecord{ID: "a-out"}}}

	assert.Error(t, c.EncodeNodes(failingWriter{}, nodes))
	assert.Error(t, c.EncodeConnections(failingWriter{}, nil))
}
