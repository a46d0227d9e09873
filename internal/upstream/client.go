package upstream

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/localsite/planboard/internal/types"
	"go.uber.org/zap"
)

// Pagination headers on upstream collection replies.
const (
	headerLastSyncedAt = "X-Last-Synced-At"
	headerHasMore      = "X-Has-More"
)

// Request headers the upstream API requires on list endpoints.
const (
	headerAPIVersion = "Fieldwire-Version"
	headerFilter     = "Fieldwire-Filter"
	headerPerPage    = "Fieldwire-Per-Page"
)

// Meta is the pagination metadata lifted off upstream response headers.
type Meta struct {
	LastSyncedAt string `json:"last_synced_at,omitempty"`
	HasMore      bool   `json:"has_more"`
}

// Result is an upstream payload with its normalized pagination metadata.
type Result struct {
	Data json.RawMessage `json:"data"`
	Meta Meta            `json:"meta"`
}

// TaskFilters narrows a per-project task fetch. Empty fields are omitted from
// the request. LastSyncedAt resumes an incremental sync at the given cursor.
type TaskFilters struct {
	FloorplanID  string
	StatusID     string
	LastSyncedAt string
}

// Query renders the filters the way the upstream API expects them.
func (f TaskFilters) Query() url.Values {
	q := url.Values{}
	if f.FloorplanID != "" {
		q.Set("filters[floorplan_id_eq]", f.FloorplanID)
	}
	if f.StatusID != "" {
		q.Set("filters[status_id_eq]", f.StatusID)
	}
	if f.LastSyncedAt != "" {
		q.Set("last_synced_at", f.LastSyncedAt)
	}
	return q
}

// Map returns the filter set as a fingerprintable map, excluding the cursor
// itself (the cursor is what the fingerprint protects).
func (f TaskFilters) Map() map[string]string {
	m := map[string]string{}
	if f.FloorplanID != "" {
		m["floorplan_id"] = f.FloorplanID
	}
	if f.StatusID != "" {
		m["status_id"] = f.StatusID
	}
	return m
}

// Client talks to the upstream project-management REST API. It attaches the
// bearer token and the required version / active-filter / page-size headers,
// and maps pagination headers into Result.Meta. Non-2xx replies surface as
// UpstreamError; there is no retry here, callers own any retry policy.
type Client struct {
	http    *resty.Client
	tokens  *TokenSource
	version string
	perPage int
	logger  *zap.Logger
}

// NewClient builds an upstream client rooted at baseURL (".../api/v3").
func NewClient(baseURL string, tokens *TokenSource, version string, perPage int, timeout time.Duration, logger *zap.Logger) *Client {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	return &Client{
		http:    client,
		tokens:  tokens,
		version: version,
		perPage: perPage,
		logger:  logger,
	}
}

// Projects fetches every project visible to the credential.
func (c *Client) Projects(ctx context.Context, version string) (*Result, error) {
	return c.get(ctx, "/projects", version, nil)
}

// ProjectTasks fetches one page of a project's tasks with optional filters
// and sync cursor.
func (c *Client) ProjectTasks(ctx context.Context, version, projectID string, f TaskFilters) (*Result, error) {
	return c.get(ctx, "/projects/"+projectID+"/tasks", version, f.Query())
}

// Task fetches a single task.
func (c *Client) Task(ctx context.Context, version, projectID, taskID string) (*Result, error) {
	return c.get(ctx, "/projects/"+projectID+"/tasks/"+taskID, version, nil)
}

// TaskBubbles fetches the bubbles attached to one task.
func (c *Client) TaskBubbles(ctx context.Context, version, projectID, taskID string) (*Result, error) {
	return c.get(ctx, "/projects/"+projectID+"/tasks/"+taskID+"/bubbles", version, nil)
}

// ProjectFloorplans fetches a project's floorplans.
func (c *Client) ProjectFloorplans(ctx context.Context, version, projectID string) (*Result, error) {
	return c.get(ctx, "/projects/"+projectID+"/floorplans", version, nil)
}

// Floorplan fetches a single floorplan.
func (c *Client) Floorplan(ctx context.Context, version, projectID, floorplanID string) (*Result, error) {
	return c.get(ctx, "/projects/"+projectID+"/floorplans/"+floorplanID, version, nil)
}

// ProjectStatuses fetches a project's status labels.
func (c *Client) ProjectStatuses(ctx context.Context, version, projectID string) (*Result, error) {
	return c.get(ctx, "/projects/"+projectID+"/statuses", version, nil)
}

// ProjectBubbles fetches a project's bubbles.
func (c *Client) ProjectBubbles(ctx context.Context, version, projectID string) (*Result, error) {
	return c.get(ctx, "/projects/"+projectID+"/bubbles", version, nil)
}

func (c *Client) get(ctx context.Context, path, version string, query url.Values) (*Result, error) {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, err
	}

	if version == "" {
		version = c.version
	}

	req := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader(headerAPIVersion, version).
		SetHeader(headerFilter, "active").
		SetHeader(headerPerPage, strconv.Itoa(c.perPage))
	if query != nil {
		req.SetQueryParamsFromValues(query)
	}

	resp, err := req.Get(path)
	if err != nil {
		return nil, &types.UpstreamError{Status: 0, Message: err.Error()}
	}
	if resp.IsError() {
		c.logger.Warn("upstream request failed",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode()),
		)
		return nil, &types.UpstreamError{
			Status:  resp.StatusCode(),
			Message: fmt.Sprintf("%s %s", resp.Status(), strings.TrimSpace(string(resp.Body()))),
		}
	}

	return &Result{
		Data: json.RawMessage(resp.Body()),
		Meta: Meta{
			LastSyncedAt: resp.Header().Get(headerLastSyncedAt),
			HasMore:      strings.EqualFold(resp.Header().Get(headerHasMore), "true"),
		},
	}, nil
}
