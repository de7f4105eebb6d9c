package filestore

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"nodegraph/internal/codec"
	"nodegraph/internal/domain"
	"nodegraph/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, format string) *Store {
	t.Helper()
	c, err := codec.ForFormat(format)
	require.NoError(t, err)

	store, err := New(t.TempDir(), c)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSaveAndLoad(t *testing.T) {
	ctx := context.Background()

	for _, format := range []string{"xml", "json", "yaml"} {
		t.Run(format, func(t *testing.T) {
			store := newTestStore(t, format)

			nodes := []domain.NodeRecord{
				{Rect: domain.Rect{X: 1, Y: 2, Width: 3, Height: 4}, InPoint: domain.PointRecord{ID: "a-in"}, OutPoint: domain.PointRecord{ID: "a-out"}},
				{Rect: domain.Rect{X: 5, Y: 6, Width: 7, Height: 8}, InPoint: domain.PointRecord{ID: "b-in"}, OutPoint: domain.PointRecord{ID: "b-out"}},
			}
			connections := []domain.ConnectionRecord{
				{InPoint: domain.PointRecord{ID: "b-in"}, OutPoint: domain.PointRecord{ID: "a-out"}},
			}

			require.NoError(t, store.Save(ctx, nodes, connections, "nodes", "connections"))
			assert.FileExists(t, store.Path("nodes"))
			assert.FileExists(t, store.Path("connections"))

			gotNodes, gotConns, err := store.Load(ctx, "nodes", "connections")
			require.NoError(t, err)
			require.Len(t, gotNodes, 2)
			require.Len(t, gotConns, 1)
			assert.Equal(t, nodes[1].Rect, gotNodes[1].Rect)
			assert.Equal(t, "b-out", gotNodes[1].OutPoint.ID)
			assert.Equal(t, "b-in", gotConns[0].InPoint.ID)
			assert.Equal(t, "a-out", gotConns[0].OutPoint.ID)
		})
	}
}

func TestSaveReplacesPreviousDocuments(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "json")

	first := []domain.NodeRecord{{InPoint: domain.PointRecord{ID: "x"}, OutPoint: domain.PointRecord{ID: "y"}}}
	require.NoError(t, store.Save(ctx, first, nil, "n", "c"))
	require.NoError(t, store.Save(ctx, nil, nil, "n", "c"))

	nodes, connections, err := store.Load(ctx, "n", "c")
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Empty(t, connections)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(store.Path("n")))
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestLoadMissingStore(t *testing.T) {
	store := newTestStore(t, "xml")

	_, _, err := store.Load(context.Background(), "nodes", "connections")
	assert.ErrorIs(t, err, repository.ErrStoreNotFound)
}

func TestLoadCorruptDocument(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t, "json")

	require.NoError(t, store.Save(ctx, nil, nil, "nodes", "connections"))
	require.NoError(t, os.WriteFile(store.Path("connections"), []byte("{"), 0644))

	_, _, err := store.Load(ctx, "nodes", "connections")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrStoreNotFound)
}

func TestSaveCancelledContext(t *testing.T) {
	store := newTestStore(t, "json")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := store.Save(ctx, nil, nil, "nodes", "connections")
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoFileExists(t, store.Path("nodes"))
}

// cancellingCodec cancels the save's context while the nodes document is encoded
type cancellingCodec struct {
	codec.Codec
	cancel context.CancelFunc
}

func (c cancellingCodec) EncodeNodes(w io.Writer, nodes []domain.NodeRecord) error {
	c.cancel()
	return c.Codec.EncodeNodes(w, nodes)
}

func TestSaveCancelledMidwayKeepsPreviousPair(t *testing.T) {
	dir := t.TempDir()
	jsonCodec, err := codec.ForFormat("json")
	require.NoError(t, err)

	store, err := New(dir, jsonCodec)
	require.NoError(t, err)

	nodes := []domain.NodeRecord{
		{InPoint: domain.PointRecord{ID: "a-in"}, OutPoint: domain.PointRecord{ID: "a-out"}},
		{InPoint: domain.PointRecord{ID: "b-in"}, OutPoint: domain.PointRecord{ID: "b-out"}},
	}
	connections := []domain.ConnectionRecord{
		{InPoint: domain.PointRecord{ID: "b-in"}, OutPoint: domain.PointRecord{ID: "a-out"}},
	}
	require.NoError(t, store.Save(context.Background(), nodes, connections, "nodes", "connections"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cancelling, err := New(dir, cancellingCodec{Codec: jsonCodec, cancel: cancel})
	require.NoError(t, err)

	err = cancelling.Save(ctx, nodes[1:], nil, "nodes", "connections")
	require.ErrorIs(t, err, context.Canceled)

	gotNodes, gotConns, err := store.Load(context.Background(), "nodes", "connections")
	require.NoError(t, err)
	assert.Len(t, gotNodes, 2)
	assert.Len(t, gotConns, 1)

	// no staged temp files are left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}
