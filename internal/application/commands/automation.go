package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"rtmsync/internal/application"
	"rtmsync/internal/domain"
	"rtmsync/internal/logger"
	"rtmsync/internal/ports"
)

// CheckAutomationCommand asks the test management service which cases are automated
type CheckAutomationCommand struct {
	source ports.AutomationSource
	log    *logger.Logger

	CaseNumbers          []string
	MaxRequestsPerMinute int
	Limiter              *rate.Limiter // Built from MaxRequestsPerMinute when nil
}

// NewCheckAutomationCommand creates a new CheckAutomationCommand
func NewCheckAutomationCommand(source ports.AutomationSource, caseNumbers []string, maxRequestsPerMinute int, log *logger.Logger) *CheckAutomationCommand {
	return &CheckAutomationCommand{
		source:               source,
		log:                  log,
		CaseNumbers:          caseNumbers,
		MaxRequestsPerMinute: maxRequestsPerMinute,
	}
}

// Validate checks if the rate limit is usable
func (c *CheckAutomationCommand) Validate() error {
	if c.Limiter == nil && c.MaxRequestsPerMinute <= 0 {
		return &application.ValidationError{
			Field:   "maxRequestsPerMinute",
			Message: fmt.Sprintf("must be positive, got %d", c.MaxRequestsPerMinute),
		}
	}
	return nil
}

// Execute looks cases up one at a time and returns the set of automated case
// numbers. Unknown cases and lookup failures count as not automated.
func (c *CheckAutomationCommand) Execute(ctx context.Context) (map[string]bool, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	limiter := c.Limiter
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(c.MaxRequestsPerMinute)), 1)
	}

	automated := make(map[string]bool)
	for _, num := range c.CaseNumbers {
		if err := limiter.Wait(ctx); err != nil {
			return automated, fmt.Errorf("automation lookup interrupted: %w", err)
		}

		level, err := c.source.GetStatus(ctx, num)
		switch {
		case errors.Is(err, ports.ErrCaseNotFound):
			c.log.Debug("case not found", "case", num)
		case err != nil:
			c.log.Warn("automation lookup failed", "case", num, "error", err)
		case level.Automated():
			automated[num] = true
		}
	}

	c.log.Info("automation check complete", "checked", len(c.CaseNumbers), "automated", len(automated))
	return automated, nil
}

// NeedsAutomation counts the automatable criteria that still need automation:
// those without test cases, or with any case not in automated. Gaps are
// grouped per record in record order.
func NeedsAutomation(records []domain.Record, automated map[string]bool) (int, []domain.AutomationGap) {
	count := 0
	var gaps []domain.AutomationGap

	for _, r := range records {
		var names []string
		for _, c := range r.Criteria {
			if !c.Automatable {
				continue
			}
			if len(c.TestCaseIDs) == 0 || !allAutomated(c.TestCaseIDs, automated) {
				names = append(names, c.Name)
			}
		}
		if len(names) > 0 {
			count += len(names)
			gaps = append(gaps, domain.AutomationGap{RecordID: r.ID, Title: r.Title, Criteria: names})
		}
	}
	return count, gaps
}

// allAutomated ignores IDs without a case number; they cannot be looked up.
func allAutomated(ids []string, automated map[string]bool) bool {
	for _, id := range ids {
		num, ok := domain.CaseNumber(id)
		if !ok {
			continue
		}
		if !automated[num] {
			return false
		}
	}
	return true
}
