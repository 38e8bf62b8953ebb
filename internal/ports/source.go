package ports

import (
	"context"
	"fmt"
	"time"
)

// PageSummary is the cheap view of a page: version and child IDs only
type PageSummary struct {
	ID        string
	Version   int
	ChildIDs  []string
	RateLimit time.Duration // Server-requested pause before the next call, 0 if none
}

// Page is the full view of a page including its raw storage body
type Page struct {
	ID        string
	Title     string
	Body      string
	Version   int
	ChildIDs  []string
	RateLimit time.Duration
}

// PageUpdate replaces the body of an existing page
type PageUpdate struct {
	ID      string
	Title   string
	Version int // Must be the current version + 1
	Body    string
}

// DocumentSource defines the remote page tree the synchronizer reads from
type DocumentSource interface {
	GetSummary(ctx context.Context, id string) (PageSummary, error)
	GetFull(ctx context.Context, id string) (Page, error)

	// UpdatePage returns the server-requested pause before the next call
	UpdatePage(ctx context.Context, update PageUpdate) (time.Duration, error)
}

// TransientError marks a remote failure worth retrying (throttling, 5xx,
// network). RetryAfter is zero when the server gave no hint.
type TransientError struct {
	Op         string
	StatusCode int
	RetryAfter time.Duration
	Err        error
}

func (e *TransientError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: transient status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: transient: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

// SleepFunc blocks for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep is the real SleepFunc. Callers waiting out a server-requested pause
// inject it so tests can swap it out.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Content is the result of transforming a raw page body
type Content struct {
	Title     string
	Raw       string // Body with editor-only markers stripped
	PlainText string
}

// ContentTransformer turns a raw storage body into stored and plain-text forms
type ContentTransformer interface {
	Transform(title, body string) (Content, error)
}
