package repository

import (
	"context"
	"errors"

	"nodegraph/internal/domain"
)

// ErrStoreNotFound is returned by Load when a keyed document does not exist
var ErrStoreNotFound = errors.New("store not found")

// Gateway persists the node list and the connection list as two independent
// keyed documents
type Gateway interface {
	// Save replaces both documents
	Save(ctx context.Context, nodes []domain.NodeRecord, connections []domain.ConnectionRecord, nodesKey, connectionsKey string) error

	// Load reads both documents back in stored order
	Load(ctx context.Context, nodesKey, connectionsKey string) ([]domain.NodeRecord, []domain.ConnectionRecord, error)

	// Close releases resources
	Close() error
}
