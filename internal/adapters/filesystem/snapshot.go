package filesystem

import (
	"context"

	"rtmsync/internal/domain"
	"rtmsync/internal/ports"
)

// SnapshotStore implements ports.SnapshotStore as a single JSON tree file
type SnapshotStore struct {
	path string
}

var _ ports.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore creates a store backed by path
func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: ExpandHome(path)}
}

// Load returns nil, nil when no snapshot has been written yet
func (s *SnapshotStore) Load(_ context.Context) (*domain.Node, error) {
	var root domain.Node
	ok, err := readJSON(s.path, &root)
	if err != nil || !ok {
		return nil, err
	}
	return &root, nil
}

func (s *SnapshotStore) Save(_ context.Context, root *domain.Node) error {
	return writeJSON(s.path, root)
}
