package ports

import (
	"context"
	"time"

	"rtmsync/internal/domain"
)

// RenderInput is everything a presentation layer needs to report a run
type RenderInput struct {
	Date        time.Time
	Changes     domain.ChangeSet
	Counts      domain.Counts
	Baseline    domain.Counts
	HasBaseline bool
	Gaps        []domain.AutomationGap
	Failed      []string // IDs of pages that could not be fetched
}

// ChangeRenderer turns a run's results into a document body
type ChangeRenderer interface {
	Render(ctx context.Context, in RenderInput) (string, error)
}
