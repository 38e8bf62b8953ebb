// Package qase looks up test case automation state in Qase.
package qase

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rtmsync/internal/adapters/httpx"
	"rtmsync/internal/domain"
	"rtmsync/internal/ports"
)

// Client implements ports.AutomationSource
type Client struct {
	baseURL string
	project string
	token   string

	HTTPClient *http.Client
	// Sleep waits out a success-side Retry-After before returning
	Sleep ports.SleepFunc
}

// NewClient creates a client for the project code on baseURL ("https://api.qase.io")
func NewClient(baseURL, project, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		project:    project,
		token:      token,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		Sleep:      ports.Sleep,
	}
}

type caseResponse struct {
	Status bool `json:"status"`
	Result struct {
		ID         int `json:"id"`
		Automation int `json:"automation"`
	} `json:"result"`
}

// GetStatus implements ports.AutomationSource
func (c *Client) GetStatus(ctx context.Context, caseNumber string) (domain.AutomationLevel, error) {
	u := fmt.Sprintf("%s/v1/case/%s/%s", c.baseURL, url.PathEscape(c.project), url.PathEscape(caseNumber))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.AutomationNone, err
	}
	req.Header.Set("Token", c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return domain.AutomationNone, httpx.TransportError(ctx, "case", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domain.AutomationNone, fmt.Errorf("case %s: %w", caseNumber, ports.ErrCaseNotFound)
	}
	if err := httpx.CheckResponse("case", resp); err != nil {
		return domain.AutomationNone, err
	}

	var out caseResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.AutomationNone, fmt.Errorf("case %s: decode response: %w", caseNumber, err)
	}

	if wait := httpx.RetryAfter(resp); wait > 0 {
		if err := c.Sleep(ctx, wait); err != nil {
			return domain.AutomationNone, err
		}
	}
	return domain.AutomationLevel(out.Result.Automation), nil
}
