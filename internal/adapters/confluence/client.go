// Package confluence reads and updates pages through the Confluence REST API.
package confluence

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rtmsync/internal/adapters/httpx"
	"rtmsync/internal/ports"
)

const childPageLimit = 100

// Client implements ports.DocumentSource
type Client struct {
	baseURL  string
	username string
	token    string

	HTTPClient *http.Client
}

// NewClient creates a client for baseURL (".../wiki/rest/api/content")
func NewClient(baseURL, username, token string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		username:   username,
		token:      token,
		HTTPClient: &http.Client{Timeout: 60 * time.Second},
	}
}

type contentResponse struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Body struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
	Children struct {
		Page childPages `json:"page"`
	} `json:"children"`
}

type childPages struct {
	Results []struct {
		ID string `json:"id"`
	} `json:"results"`
	Size  int `json:"size"`
	Limit int `json:"limit"`
	Links struct {
		Next string `json:"next"`
	} `json:"_links"`
}

func (p childPages) ids() []string {
	ids := make([]string, 0, len(p.Results))
	for _, r := range p.Results {
		ids = append(ids, r.ID)
	}
	return ids
}

// GetSummary implements ports.DocumentSource
func (c *Client) GetSummary(ctx context.Context, id string) (ports.PageSummary, error) {
	var out contentResponse
	wait, err := c.getJSON(ctx, "summary", c.pageURL(id, "children.page,version"), &out)
	if err != nil {
		return ports.PageSummary{}, err
	}
	children, err := c.allChildren(ctx, id, out.Children.Page)
	if err != nil {
		return ports.PageSummary{}, err
	}
	return ports.PageSummary{
		ID:        id,
		Version:   out.Version.Number,
		ChildIDs:  children,
		RateLimit: wait,
	}, nil
}

// GetFull implements ports.DocumentSource
func (c *Client) GetFull(ctx context.Context, id string) (ports.Page, error) {
	var out contentResponse
	wait, err := c.getJSON(ctx, "full", c.pageURL(id, "body.storage,children.page,version"), &out)
	if err != nil {
		return ports.Page{}, err
	}
	children, err := c.allChildren(ctx, id, out.Children.Page)
	if err != nil {
		return ports.Page{}, err
	}
	return ports.Page{
		ID:        id,
		Title:     out.Title,
		Body:      out.Body.Storage.Value,
		Version:   out.Version.Number,
		ChildIDs:  children,
		RateLimit: wait,
	}, nil
}

type updateRequest struct {
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Body struct {
		Storage struct {
			Value          string `json:"value"`
			Representation string `json:"representation"`
		} `json:"storage"`
	} `json:"body"`
}

// UpdatePage implements ports.DocumentSource
func (c *Client) UpdatePage(ctx context.Context, u ports.PageUpdate) (time.Duration, error) {
	var req updateRequest
	req.ID = u.ID
	req.Type = "page"
	req.Title = u.Title
	req.Version.Number = u.Version
	req.Body.Storage.Value = u.Body
	req.Body.Storage.Representation = "storage"

	payload, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("failed to encode update: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, c.baseURL+"/"+url.PathEscape(u.ID), bytes.NewReader(payload))
	if err != nil {
		return 0, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.do(ctx, "update", httpReq)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return httpx.RetryAfter(resp), nil
}

// allChildren follows child pagination when the expanded list was truncated
func (c *Client) allChildren(ctx context.Context, id string, first childPages) ([]string, error) {
	ids := first.ids()
	page := first
	for page.Links.Next != "" && len(page.Results) > 0 {
		next := fmt.Sprintf("%s/%s/child/page?start=%d&limit=%d", c.baseURL, url.PathEscape(id), len(ids), childPageLimit)
		page = childPages{}
		if _, err := c.getJSON(ctx, "children", next, &page); err != nil {
			return nil, err
		}
		ids = append(ids, page.ids()...)
	}
	return ids, nil
}

func (c *Client) pageURL(id, expand string) string {
	return c.baseURL + "/" + url.PathEscape(id) + "?expand=" + expand
}

func (c *Client) getJSON(ctx context.Context, op, u string, out any) (time.Duration, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, err
	}
	resp, err := c.do(ctx, op, req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return 0, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return httpx.RetryAfter(resp), nil
}

func (c *Client) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	req.SetBasicAuth(c.username, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, httpx.TransportError(ctx, op, err)
	}
	if err := httpx.CheckResponse(op, resp); err != nil {
		resp.Body.Close()
		return nil, err
	}
	return resp, nil
}
