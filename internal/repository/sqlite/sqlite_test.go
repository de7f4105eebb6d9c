package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"nodegraph/internal/domain"
	"nodegraph/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Helpers
// ============================================================================

// newTestRepo creates an in-memory SQLite repository for testing
func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := New(":memory:")
	require.NoError(t, err, "failed to create test repository")

	t.Cleanup(func() {
		repo.Close()
	})
	return repo
}

func nodeRecord(x, y float64, in, out string) domain.NodeRecord {
	return domain.NodeRecord{
		Rect:     domain.Rect{X: x, Y: y, Width: 400, Height: 200},
		InPoint:  domain.PointRecord{ID: in},
		OutPoint: domain.PointRecord{ID: out},
	}
}

func connectionRecord(in, out string) domain.ConnectionRecord {
	return domain.ConnectionRecord{
		InPoint:  domain.PointRecord{ID: in},
		OutPoint: domain.PointRecord{ID: out},
	}
}

// ============================================================================
// Gateway Tests
// ============================================================================

func TestSaveAndLoad(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	nodes := []domain.NodeRecord{
		nodeRecord(0, 0, "a-in", "a-out"),
		nodeRecord(100, 0, "b-in", "b-out"),
		nodeRecord(-50, 75.5, "c-in", "c-out"),
	}
	connections := []domain.ConnectionRecord{
		connectionRecord("b-in", "a-out"),
		connectionRecord("c-in", "b-out"),
		connectionRecord("c-in", "b-out"),
	}

	require.NoError(t, repo.Save(ctx, nodes, connections, "nodes", "connections"))

	gotNodes, gotConns, err := repo.Load(ctx, "nodes", "connections")
	require.NoError(t, err)
	assert.Equal(t, nodes, gotNodes)
	assert.Equal(t, connections, gotConns)
}

func TestSaveReplacesDocuments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx,
		[]domain.NodeRecord{nodeRecord(0, 0, "a-in", "a-out"), nodeRecord(1, 1, "b-in", "b-out")},
		[]domain.ConnectionRecord{connectionRecord("b-in", "a-out")},
		"nodes", "connections"))

	require.NoError(t, repo.Save(ctx,
		[]domain.NodeRecord{nodeRecord(5, 5, "z-in", "z-out")},
		nil,
		"nodes", "connections"))

	nodes, connections, err := repo.Load(ctx, "nodes", "connections")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "z-in", nodes[0].InPoint.ID)
	assert.Empty(t, connections)
}

func TestKeysAreIndependent(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx,
		[]domain.NodeRecord{nodeRecord(0, 0, "a-in", "a-out")}, nil, "left-nodes", "left-connections"))
	require.NoError(t, repo.Save(ctx,
		[]domain.NodeRecord{nodeRecord(9, 9, "b-in", "b-out")}, nil, "right-nodes", "right-connections"))

	left, _, err := repo.Load(ctx, "left-nodes", "left-connections")
	require.NoError(t, err)
	require.Len(t, left, 1)
	assert.Equal(t, "a-in", left[0].InPoint.ID)

	// mixing keys from two saves is allowed; the gateway does not check references
	mixedNodes, mixedConns, err := repo.Load(ctx, "right-nodes", "left-connections")
	require.NoError(t, err)
	assert.Len(t, mixedNodes, 1)
	assert.Empty(t, mixedConns)
}

func TestLoadMissingStore(t *testing.T) {
	repo := newTestRepo(t)

	_, _, err := repo.Load(context.Background(), "nodes", "connections")
	assert.ErrorIs(t, err, repository.ErrStoreNotFound)
}

func TestLoadEmptyStore(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, nil, nil, "nodes", "connections"))

	nodes, connections, err := repo.Load(ctx, "nodes", "connections")
	require.NoError(t, err)
	assert.NotNil(t, nodes)
	assert.Empty(t, nodes)
	assert.Empty(t, connections)
}

func TestPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "graph.db")
	ctx := context.Background()

	repo, err := New(path)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx,
		[]domain.NodeRecord{nodeRecord(3, 4, "a-in", "a-out")}, nil, "nodes", "connections"))
	require.NoError(t, repo.Close())

	reopened, err := New(path)
	require.NoError(t, err)
	defer reopened.Close()

	nodes, _, err := reopened.Load(ctx, "nodes", "connections")
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, 3.0, nodes[0].Rect.X)
}
