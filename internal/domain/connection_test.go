package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConnection(t *testing.T) {
	a := NewNode(Vector2{}, DefaultNodeSize)
	b := NewNode(Vector2{X: 500}, DefaultNodeSize)

	tests := []struct {
		name    string
		in, out *ConnectionPoint
		wantErr bool
	}{
		{"input to output of another node", b.InPoint, a.OutPoint, false},
		{"same node", a.InPoint, a.OutPoint, true},
		{"kinds swapped", a.OutPoint, b.InPoint, true},
		{"both inputs", a.InPoint, b.InPoint, true},
		{"missing endpoint", nil, a.OutPoint, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConnection(tt.in, tt.out)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConnection)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, c.ID)
			assert.Same(t, tt.in, c.InPoint)
			assert.Same(t, tt.out, c.OutPoint)
		})
	}
}

func TestConnectionReferences(t *testing.T) {
	a := NewNode(Vector2{}, DefaultNodeSize)
	b := NewNode(Vector2{X: 500}, DefaultNodeSize)
	c := NewNode(Vector2{X: 1000}, DefaultNodeSize)

	conn, err := NewConnection(b.InPoint, a.OutPoint)
	require.NoError(t, err)

	assert.True(t, conn.References(a))
	assert.True(t, conn.References(b))
	assert.False(t, conn.References(c))
}

func TestConnectionRecord(t *testing.T) {
	a := RestoreNode(Rect{}, "a-in", "a-out")
	b := RestoreNode(Rect{}, "b-in", "b-out")

	conn, err := NewConnection(b.InPoint, a.OutPoint)
	require.NoError(t, err)

	rec := conn.Record()
	assert.Equal(t, "b-in", rec.InPoint.ID)
	assert.Equal(t, "a-out", rec.OutPoint.ID)
}

func TestDanglingReferenceError(t *testing.T) {
	err := error(&DanglingReferenceError{ConnectionIndex: 2, Kind: PointOut, PointID: "x"})

	assert.ErrorIs(t, err, ErrDanglingReference)
	assert.Contains(t, err.Error(), `"x"`)

	var dre *DanglingReferenceError
	require.ErrorAs(t, err, &dre)
	assert.Equal(t, 2, dre.ConnectionIndex)
}
