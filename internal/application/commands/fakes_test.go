package commands

import (
	"context"
	"fmt"
	"time"

	"rtmsync/internal/domain"
	"rtmsync/internal/ports"
)

type fakePage struct {
	title    string
	body     string
	version  int
	children []string
}

// fakeSource serves pages from memory. Errors queued per ID are returned
// before the page is served.
type fakeSource struct {
	pages       map[string]fakePage
	summaryErrs map[string][]error
	fullErrs    map[string][]error
	rateLimit   time.Duration

	summaryCalls map[string]int
	fullCalls    map[string]int
	updates      []ports.PageUpdate
	updateErrs   []error
}

func newFakeSource(pages map[string]fakePage) *fakeSource {
	return &fakeSource{
		pages:        pages,
		summaryErrs:  make(map[string][]error),
		fullErrs:     make(map[string][]error),
		summaryCalls: make(map[string]int),
		fullCalls:    make(map[string]int),
	}
}

func (f *fakeSource) GetSummary(_ context.Context, id string) (ports.PageSummary, error) {
	f.summaryCalls[id]++
	if errs := f.summaryErrs[id]; len(errs) > 0 {
		f.summaryErrs[id] = errs[1:]
		return ports.PageSummary{}, errs[0]
	}
	p, ok := f.pages[id]
	if !ok {
		return ports.PageSummary{}, fmt.Errorf("page %s: status 404", id)
	}
	return ports.PageSummary{ID: id, Version: p.version, ChildIDs: p.children, RateLimit: f.rateLimit}, nil
}

func (f *fakeSource) GetFull(_ context.Context, id string) (ports.Page, error) {
	f.fullCalls[id]++
	if errs := f.fullErrs[id]; len(errs) > 0 {
		f.fullErrs[id] = errs[1:]
		return ports.Page{}, errs[0]
	}
	p, ok := f.pages[id]
	if !ok {
		return ports.Page{}, fmt.Errorf("page %s: status 404", id)
	}
	return ports.Page{ID: id, Title: p.title, Body: p.body, Version: p.version, ChildIDs: p.children}, nil
}

func (f *fakeSource) UpdatePage(_ context.Context, u ports.PageUpdate) (time.Duration, error) {
	if len(f.updateErrs) > 0 {
		err := f.updateErrs[0]
		f.updateErrs = f.updateErrs[1:]
		return 0, err
	}
	f.updates = append(f.updates, u)
	return 0, nil
}

// identityTransformer keeps the body as both raw and plain text
type identityTransformer struct {
	failOn string
}

func (t identityTransformer) Transform(title, body string) (ports.Content, error) {
	if t.failOn != "" && body == t.failOn {
		return ports.Content{}, fmt.Errorf("malformed body")
	}
	return ports.Content{Title: title, Raw: body, PlainText: body}, nil
}

type fakeAutomation struct {
	levels map[string]domain.AutomationLevel
	errs   map[string]error
	calls  []string
}

func (f *fakeAutomation) GetStatus(_ context.Context, num string) (domain.AutomationLevel, error) {
	f.calls = append(f.calls, num)
	if err := f.errs[num]; err != nil {
		return domain.AutomationNone, err
	}
	level, ok := f.levels[num]
	if !ok {
		return domain.AutomationNone, ports.ErrCaseNotFound
	}
	return level, nil
}

func noSleep(context.Context, time.Duration) error { return nil }
