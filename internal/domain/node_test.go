package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNode(t *testing.T) {
	t.Run("creates node with two owned points", func(t *testing.T) {
		n := NewNode(Vector2{X: 10, Y: 20}, DefaultNodeSize)

		assert.NotEmpty(t, n.ID)
		assert.Equal(t, Rect{X: 10, Y: 20, Width: 400, Height: 200}, n.Rect)
		require.NotNil(t, n.InPoint)
		require.NotNil(t, n.OutPoint)
		assert.Equal(t, PointIn, n.InPoint.Kind())
		assert.Equal(t, PointOut, n.OutPoint.Kind())
		assert.Equal(t, n.ID, n.InPoint.OwnerID)
		assert.Equal(t, n.ID, n.OutPoint.OwnerID)
		assert.NotEqual(t, n.InPoint.ID, n.OutPoint.ID)
		assert.False(t, n.Selected)
	})

	t.Run("point IDs are unique across nodes", func(t *testing.T) {
		seen := make(map[string]bool)
		for i := 0; i < 50; i++ {
			n := NewNode(Vector2{}, DefaultNodeSize)
			for _, id := range []string{n.InPoint.ID, n.OutPoint.ID} {
				assert.False(t, seen[id], "duplicate point id %s", id)
				seen[id] = true
			}
		}
	})
}

func TestRestoreNode(t *testing.T) {
	t.Run("keeps persisted point IDs", func(t *testing.T) {
		rect := Rect{X: 1, Y: 2, Width: 3, Height: 4}
		n := RestoreNode(rect, "in-1", "out-1")

		assert.Equal(t, rect, n.Rect)
		assert.Equal(t, "in-1", n.InPoint.ID)
		assert.Equal(t, "out-1", n.OutPoint.ID)
		assert.Equal(t, n.ID, n.InPoint.OwnerID)
	})

	t.Run("generates missing IDs", func(t *testing.T) {
		n := RestoreNode(Rect{}, "", "out-1")

		assert.NotEmpty(t, n.InPoint.ID)
		assert.Equal(t, "out-1", n.OutPoint.ID)
	})
}

func TestNodeDrag(t *testing.T) {
	n := NewNode(Vector2{X: 100, Y: 100}, Vector2{X: 50, Y: 40})
	n.Drag(Vector2{X: -25, Y: 10})

	assert.Equal(t, Rect{X: 75, Y: 110, Width: 50, Height: 40}, n.Rect)
}

func TestNodeRecord(t *testing.T) {
	n := RestoreNode(Rect{X: 5, Y: 6, Width: 7, Height: 8}, "a", "b")
	rec := n.Record()

	assert.Equal(t, n.Rect, rec.Rect)
	assert.Equal(t, "a", rec.InPoint.ID)
	assert.Equal(t, "b", rec.OutPoint.ID)
}

func TestPointRect(t *testing.T) {
	n := NewNode(Vector2{X: 100, Y: 50}, Vector2{X: 200, Y: 100})

	in := n.InPoint.Rect(n.Rect)
	assert.Equal(t, Rect{X: 98, Y: 90, Width: PointWidth, Height: PointHeight}, in)

	out := n.OutPoint.Rect(n.Rect)
	assert.Equal(t, Rect{X: 292, Y: 90, Width: PointWidth, Height: PointHeight}, out)
}
