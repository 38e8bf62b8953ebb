package filesystem

import (
	"context"

	"rtmsync/internal/domain"
	"rtmsync/internal/ports"
)

type statisticsFile struct {
	Statistics domain.Series `json:"statistics"`
}

// StatisticsStore implements ports.StatisticsStore as {"statistics": [...]}
type StatisticsStore struct {
	path string
}

var _ ports.StatisticsStore = (*StatisticsStore)(nil)

// NewStatisticsStore creates a store backed by path
func NewStatisticsStore(path string) *StatisticsStore {
	return &StatisticsStore{path: ExpandHome(path)}
}

func (s *StatisticsStore) Load(_ context.Context) (domain.Series, error) {
	var f statisticsFile
	if _, err := readJSON(s.path, &f); err != nil {
		return nil, err
	}
	return f.Statistics, nil
}

func (s *StatisticsStore) Save(_ context.Context, series domain.Series) error {
	if series == nil {
		series = domain.Series{}
	}
	return writeJSON(s.path, statisticsFile{Statistics: series})
}
