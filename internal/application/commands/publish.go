package commands

import (
	"context"
	"fmt"
	"time"

	"rtmsync/internal/application"
	"rtmsync/internal/logger"
	"rtmsync/internal/ports"
)

// PublishResult contains the result of replacing a page body
type PublishResult struct {
	PageID  string
	Title   string
	Version int
	Message string
}

// PublishPageCommand replaces the body of an existing page, keeping its title
type PublishPageCommand struct {
	source ports.DocumentSource
	log    *logger.Logger

	PageID string
	Body   string
	Retry  RetryPolicy
	Sleep  ports.SleepFunc
}

// NewPublishPageCommand creates a new PublishPageCommand
func NewPublishPageCommand(source ports.DocumentSource, pageID, body string, log *logger.Logger) *PublishPageCommand {
	return &PublishPageCommand{
		source: source,
		log:    log,
		PageID: pageID,
		Body:   body,
		Retry:  DefaultRetryPolicy,
		Sleep:  ports.Sleep,
	}
}

// Validate checks if the publish operation is valid
func (c *PublishPageCommand) Validate() error {
	if err := application.ValidatePageID("pageID", c.PageID); err != nil {
		return err
	}
	return application.ValidateRequired("body", c.Body)
}

// Execute reads the current version and writes version+1
func (c *PublishPageCommand) Execute(ctx context.Context) (*PublishResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	page, err := withRetry(ctx, c.Retry, c.Sleep, c.log, "full", c.PageID,
		func(ctx context.Context) (ports.Page, error) {
			return c.source.GetFull(ctx, c.PageID)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}
	if page.RateLimit > 0 {
		if err := c.Sleep(ctx, page.RateLimit); err != nil {
			return nil, err
		}
	}

	update := ports.PageUpdate{
		ID:      c.PageID,
		Title:   page.Title,
		Version: page.Version + 1,
		Body:    c.Body,
	}
	_, err = withRetry(ctx, c.Retry, c.Sleep, c.log, "update", c.PageID,
		func(ctx context.Context) (time.Duration, error) {
			return c.source.UpdatePage(ctx, update)
		})
	if err != nil {
		return nil, fmt.Errorf("failed to update page: %w", err)
	}

	c.log.Info("page published", "page_id", c.PageID, "version", update.Version)
	return &PublishResult{
		PageID:  c.PageID,
		Title:   page.Title,
		Version: update.Version,
		Message: fmt.Sprintf("Published %s (%s) as version %d", page.Title, c.PageID, update.Version),
	}, nil
}
