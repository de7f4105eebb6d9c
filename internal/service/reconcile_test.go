package service

import (
	"testing"

	"nodegraph/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(x, y float64, in, out string) domain.NodeRecord {
	return domain.NodeRecord{
		Rect:     domain.Rect{X: x, Y: y, Width: 400, Height: 200},
		InPoint:  domain.PointRecord{ID: in},
		OutPoint: domain.PointRecord{ID: out},
	}
}

func link(in, out string) domain.ConnectionRecord {
	return domain.ConnectionRecord{
		InPoint:  domain.PointRecord{ID: in},
		OutPoint: domain.PointRecord{ID: out},
	}
}

func TestReconcile(t *testing.T) {
	t.Run("resolves connections to restored points", func(t *testing.T) {
		nodes, conns, err := Reconcile(
			[]domain.NodeRecord{rec(0, 0, "a-in", "a-out"), rec(100, 0, "b-in", "b-out")},
			[]domain.ConnectionRecord{link("b-in", "a-out")},
		)
		require.NoError(t, err)
		require.Len(t, nodes, 2)
		require.Len(t, conns, 1)

		a, b := nodes[0], nodes[1]
		assert.Equal(t, "a-in", a.InPoint.ID)
		assert.Equal(t, domain.Rect{X: 100, Y: 0, Width: 400, Height: 200}, b.Rect)
		assert.Same(t, b.InPoint, conns[0].InPoint)
		assert.Same(t, a.OutPoint, conns[0].OutPoint)
		assert.Equal(t, b.ID, conns[0].InPoint.OwnerID)
	})

	t.Run("keeps parallel connections", func(t *testing.T) {
		_, conns, err := Reconcile(
			[]domain.NodeRecord{rec(0, 0, "a-in", "a-out"), rec(100, 0, "b-in", "b-out")},
			[]domain.ConnectionRecord{link("b-in", "a-out"), link("b-in", "a-out")},
		)
		require.NoError(t, err)
		assert.Len(t, conns, 2)
		assert.NotEqual(t, conns[0].ID, conns[1].ID)
	})

	t.Run("unknown in point is a dangling reference", func(t *testing.T) {
		_, _, err := Reconcile(
			[]domain.NodeRecord{rec(0, 0, "a-in", "a-out")},
			[]domain.ConnectionRecord{link("ghost-in", "a-out")},
		)
		require.ErrorIs(t, err, domain.ErrDanglingReference)

		var dre *domain.DanglingReferenceError
		require.ErrorAs(t, err, &dre)
		assert.Equal(t, "ghost-in", dre.PointID)
		assert.Equal(t, domain.PointIn, dre.Kind)
		assert.Equal(t, 0, dre.ConnectionIndex)
	})

	t.Run("unknown out point is a dangling reference", func(t *testing.T) {
		_, _, err := Reconcile(
			[]domain.NodeRecord{rec(0, 0, "a-in", "a-out"), rec(1, 1, "b-in", "b-out")},
			[]domain.ConnectionRecord{link("a-in", "b-out"), link("a-in", "ghost-out")},
		)
		var dre *domain.DanglingReferenceError
		require.ErrorAs(t, err, &dre)
		assert.Equal(t, "ghost-out", dre.PointID)
		assert.Equal(t, 1, dre.ConnectionIndex)
	})

	t.Run("point of the wrong kind does not resolve", func(t *testing.T) {
		_, _, err := Reconcile(
			[]domain.NodeRecord{rec(0, 0, "a-in", "a-out"), rec(1, 1, "b-in", "b-out")},
			[]domain.ConnectionRecord{link("a-out", "b-out")},
		)
		assert.ErrorIs(t, err, domain.ErrDanglingReference)
	})

	t.Run("self connection in store is rejected", func(t *testing.T) {
		_, _, err := Reconcile(
			[]domain.NodeRecord{rec(0, 0, "a-in", "a-out")},
			[]domain.ConnectionRecord{link("a-in", "a-out")},
		)
		assert.ErrorIs(t, err, domain.ErrInvalidConnection)
	})

	t.Run("duplicate point IDs are rejected", func(t *testing.T) {
		_, _, err := Reconcile(
			[]domain.NodeRecord{rec(0, 0, "a-in", "a-out"), rec(1, 1, "a-in", "b-out")},
			nil,
		)
		assert.ErrorIs(t, err, domain.ErrDuplicatePoint)
	})

	t.Run("node with an empty point ID is rejected", func(t *testing.T) {
		for _, raw := range []domain.NodeRecord{rec(0, 0, "", "a-out"), rec(0, 0, "a-in", "")} {
			nodes, conns, err := Reconcile([]domain.NodeRecord{raw}, nil)
			assert.ErrorIs(t, err, domain.ErrMissingPointID)
			assert.Nil(t, nodes)
			assert.Nil(t, conns)
		}
	})

	t.Run("empty store yields empty graph", func(t *testing.T) {
		nodes, conns, err := Reconcile(nil, nil)
		require.NoError(t, err)
		assert.Empty(t, nodes)
		assert.Empty(t, conns)
	})
}
