package ports

import (
	"context"

	"rtmsync/internal/domain"
)

// SnapshotStore persists the page tree between runs
type SnapshotStore interface {
	// Load returns nil, nil when no snapshot exists yet
	Load(ctx context.Context) (*domain.Node, error)
	// Save replaces the stored snapshot atomically
	Save(ctx context.Context, root *domain.Node) error
}

// StatisticsStore persists the statistics series between runs
type StatisticsStore interface {
	// Load returns an empty series when nothing is stored yet
	Load(ctx context.Context) (domain.Series, error)
	Save(ctx context.Context, series domain.Series) error
}
