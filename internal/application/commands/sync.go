package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"rtmsync/internal/application"
	"rtmsync/internal/domain"
	"rtmsync/internal/logger"
	"rtmsync/internal/ports"
)

// SyncResult contains the result of a synchronization pass
type SyncResult struct {
	Root     *domain.Node
	Fetched  int
	Reused   int
	Failures []*application.FetchError
}

// SyncTreeCommand rebuilds the page tree from the remote source, reusing
// snapshot content for pages whose version did not change
type SyncTreeCommand struct {
	source      ports.DocumentSource
	transformer ports.ContentTransformer
	previous    map[string]*domain.Node
	log         *logger.Logger

	RootID string
	Retry  RetryPolicy
	Sleep  ports.SleepFunc
}

// NewSyncTreeCommand creates a new SyncTreeCommand. previous may be nil on
// the first run.
func NewSyncTreeCommand(
	source ports.DocumentSource,
	transformer ports.ContentTransformer,
	previous *domain.Node,
	rootID string,
	log *logger.Logger,
) *SyncTreeCommand {
	return &SyncTreeCommand{
		source:      source,
		transformer: transformer,
		previous:    domain.Index(previous),
		log:         log,
		RootID:      rootID,
		Retry:       DefaultRetryPolicy,
		Sleep:       ports.Sleep,
	}
}

// Validate checks if the sync can start
func (c *SyncTreeCommand) Validate() error {
	return application.ValidatePageID("rootID", c.RootID)
}

type syncTask struct {
	id     string
	parent *domain.Node
	slot   int
}

// Execute walks the remote tree depth-first, one call at a time. A page that
// fails terminally becomes a failure tombstone in its parent and its siblings
// still sync. Only failure of the root aborts the pass.
func (c *SyncTreeCommand) Execute(ctx context.Context) (*SyncResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	result := &SyncResult{}
	visited := make(map[string]bool)
	stack := []syncTask{{id: c.RootID}}

	for len(stack) > 0 {
		task := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if visited[task.id] {
			c.log.Warn("page reached twice, skipping", "page_id", task.id)
			task.parent.Children[task.slot] = domain.FailedNode(task.id, domain.ReasonCycle)
			continue
		}
		visited[task.id] = true

		node, err := c.syncNode(ctx, task.id, result)
		if err != nil {
			var fetchErr *application.FetchError
			if !errors.As(err, &fetchErr) {
				fetchErr = &application.FetchError{ID: task.id, Op: "sync", Attempts: 1, Err: err}
			}

			if task.parent == nil {
				fetchErr.Err = fmt.Errorf("%w: %w", application.ErrRootUnavailable, fetchErr.Err)
				return nil, fetchErr
			}

			c.log.Error("page sync failed", "page_id", task.id, "op", fetchErr.Op, "attempts", fetchErr.Attempts, "error", fetchErr.Err)
			result.Failures = append(result.Failures, fetchErr)
			task.parent.Children[task.slot] = domain.CarryForward(task.id, c.previous[task.id], fetchErr.Error())
			continue
		}

		if task.parent == nil {
			result.Root = node
		} else {
			task.parent.Children[task.slot] = node
		}

		node.Children = make([]*domain.Node, len(node.ChildIDs))
		for i := len(node.ChildIDs) - 1; i >= 0; i-- {
			stack = append(stack, syncTask{id: node.ChildIDs[i], parent: node, slot: i})
		}
	}

	c.log.Info("sync complete",
		"fetched", result.Fetched, "reused", result.Reused, "failed", len(result.Failures))
	return result, nil
}

func (c *SyncTreeCommand) syncNode(ctx context.Context, id string, result *SyncResult) (*domain.Node, error) {
	summary, err := withRetry(ctx, c.Retry, c.Sleep, c.log, "summary", id,
		func(ctx context.Context) (ports.PageSummary, error) {
			return c.source.GetSummary(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	if err := c.pause(ctx, summary.RateLimit); err != nil {
		return nil, err
	}

	if old := c.previous[id]; old != nil && old.Version != 0 && old.Version == summary.Version {
		result.Reused++
		return &domain.Node{
			ID:        id,
			Title:     old.Title,
			Content:   old.Content,
			PlainText: old.PlainText,
			Version:   summary.Version,
			ChildIDs:  append([]string(nil), summary.ChildIDs...),
		}, nil
	}

	page, err := withRetry(ctx, c.Retry, c.Sleep, c.log, "full", id,
		func(ctx context.Context) (ports.Page, error) {
			return c.source.GetFull(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	if err := c.pause(ctx, page.RateLimit); err != nil {
		return nil, err
	}

	content, err := c.transformer.Transform(page.Title, page.Body)
	if err != nil {
		return nil, &application.FetchError{ID: id, Op: "transform", Attempts: 1, Err: err}
	}

	result.Fetched++
	c.log.Debug("page fetched", "page_id", id, "version", page.Version)
	return &domain.Node{
		ID:        id,
		Title:     content.Title,
		Content:   content.Raw,
		PlainText: content.PlainText,
		Version:   page.Version,
		ChildIDs:  append([]string(nil), page.ChildIDs...),
		Changed:   true,
	}, nil
}

// pause honors a success-side rate limit before the next call
func (c *SyncTreeCommand) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	c.log.Debug("rate limited, pausing", "wait", d.String())
	return c.Sleep(ctx, d)
}
