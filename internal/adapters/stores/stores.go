// Package stores opens the snapshot and statistics stores of the configured backend.
package stores

import (
	"fmt"

	"rtmsync/internal/adapters/filesystem"
	"rtmsync/internal/adapters/sqlite"
	"rtmsync/internal/config"
	"rtmsync/internal/ports"
)

// Stores holds the two persistence ports of one environment
type Stores struct {
	Snapshots  ports.SnapshotStore
	Statistics ports.StatisticsStore
	Location   string

	closeFn func() error
}

// Open returns the stores for cfg.StoreBackend
func Open(cfg *config.Config) (*Stores, error) {
	switch cfg.StoreBackend {
	case config.BackendSQLite:
		db, err := sqlite.Open(cfg.DatabasePath())
		if err != nil {
			return nil, err
		}
		return &Stores{
			Snapshots:  db.Snapshots(),
			Statistics: db.Statistics(),
			Location:   db.Path(),
			closeFn:    db.Close,
		}, nil

	case config.BackendFile, "":
		return &Stores{
			Snapshots:  filesystem.NewSnapshotStore(cfg.SnapshotPath()),
			Statistics: filesystem.NewStatisticsStore(cfg.StatisticsPath()),
			Location:   cfg.DataDir,
		}, nil

	default:
		return nil, fmt.Errorf("unknown store backend: %s", cfg.StoreBackend)
	}
}

// Close releases the backend, if it holds anything open
func (s *Stores) Close() error {
	if s.closeFn == nil {
		return nil
	}
	return s.closeFn()
}
