package ports

import (
	"context"
	"errors"

	"rtmsync/internal/domain"
)

// ErrCaseNotFound is returned when the test management service has no such case
var ErrCaseNotFound = errors.New("case not found")

// AutomationSource reports the automation state of test cases
type AutomationSource interface {
	// GetStatus looks up a case by its canonical number
	GetStatus(ctx context.Context, caseNumber string) (domain.AutomationLevel, error)
}
