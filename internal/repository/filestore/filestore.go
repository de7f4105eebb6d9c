package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"nodegraph/internal/codec"
	"nodegraph/internal/domain"
	"nodegraph/internal/repository"
)

// Store implements repository.Gateway with one file per key in a directory
type Store struct {
	dir   string
	codec codec.Codec
}

// New creates a file store rooted at dir, creating the directory if needed
func New(dir string, c codec.Codec) (*Store, error) {
	if c == nil {
		return nil, fmt.Errorf("codec cannot be nil")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}
	return &Store{dir: dir, codec: c}, nil
}

// Path returns the file backing key
func (s *Store) Path(key string) string {
	return filepath.Join(s.dir, key+"."+s.codec.Format())
}

// Save writes both documents. They are encoded into temp files first and
// only renamed into place once both encodings succeeded, so a failed or
// cancelled save leaves the previous pair intact.
func (s *Store) Save(ctx context.Context, nodes []domain.NodeRecord, connections []domain.ConnectionRecord, nodesKey, connectionsKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	nodesTmp, err := s.stage(nodesKey, func(w io.Writer) error {
		return s.codec.EncodeNodes(w, nodes)
	})
	if err != nil {
		return fmt.Errorf("failed to save nodes: %w", err)
	}
	defer os.Remove(nodesTmp)

	connectionsTmp, err := s.stage(connectionsKey, func(w io.Writer) error {
		return s.codec.EncodeConnections(w, connections)
	})
	if err != nil {
		return fmt.Errorf("failed to save connections: %w", err)
	}
	defer os.Remove(connectionsTmp)

	// last point where the save can be abandoned
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := os.Rename(nodesTmp, s.Path(nodesKey)); err != nil {
		return fmt.Errorf("failed to save nodes: %w", err)
	}
	if err := os.Rename(connectionsTmp, s.Path(connectionsKey)); err != nil {
		return fmt.Errorf("failed to save connections: %w", err)
	}

	return nil
}

// Load reads both documents
func (s *Store) Load(ctx context.Context, nodesKey, connectionsKey string) ([]domain.NodeRecord, []domain.ConnectionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	var nodes []domain.NodeRecord
	if err := s.read(nodesKey, func(r io.Reader) error {
		var err error
		nodes, err = s.codec.DecodeNodes(r)
		return err
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to load nodes: %w", err)
	}

	var connections []domain.ConnectionRecord
	if err := s.read(connectionsKey, func(r io.Reader) error {
		var err error
		connections, err = s.codec.DecodeConnections(r)
		return err
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to load connections: %w", err)
	}

	return nodes, connections, nil
}

// Close is a no-op; files are opened per call
func (s *Store) Close() error {
	return nil
}

func (s *Store) read(key string, decode func(io.Reader) error) error {
	f, err := os.Open(s.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %s", repository.ErrStoreNotFound, key)
	}
	if err != nil {
		return err
	}
	defer f.Close()

	return decode(f)
}

// stage encodes into a synced temp file next to the target and returns its path
func (s *Store) stage(key string, encode func(io.Writer) error) (string, error) {
	tmp, err := os.CreateTemp(s.dir, "."+key+"-*.tmp")
	if err != nil {
		return "", err
	}

	err = encode(tmp)
	if err == nil {
		err = tmp.Sync()
	}
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(tmp.Name())
		return "", err
	}

	return tmp.Name(), nil
}
