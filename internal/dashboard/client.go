package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/localsite/planboard/internal/middleware"
	"github.com/localsite/planboard/internal/models"
	"github.com/localsite/planboard/internal/services"
)

// Client is the dashboard-side HTTP client for the local API surface. It
// attaches the internal shared secret on every request and treats any non-2xx
// reply as "no data" for the caller.
type Client struct {
	http *resty.Client
}

// NewClient targets the local API at baseURL (".../api").
func NewClient(baseURL, internalSecret string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout).
			SetHeader(middleware.HeaderInternalSecret, internalSecret).
			SetHeader("Accept", "application/json"),
	}
}

// WithUserEmail identifies the dashboard user for allow-list checks.
func (c *Client) WithUserEmail(email string) *Client {
	c.http.SetHeader(middleware.HeaderUserEmail, email)
	return c
}

// Projects implements API.
func (c *Client) Projects(ctx context.Context) ([]models.Project, error) {
	var projects []models.Project
	if err := c.get(ctx, "/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// Floorplans implements API.
func (c *Client) Floorplans(ctx context.Context, projectID string) ([]models.Floorplan, error) {
	var floorplans []models.Floorplan
	params := map[string]string{"project_id": projectID}
	if err := c.get(ctx, "/floorplans", params, &floorplans); err != nil {
		return nil, err
	}
	return floorplans, nil
}

// Statuses implements API.
func (c *Client) Statuses(ctx context.Context, projectID, floorplanID string) ([]services.StatusCount, error) {
	var statuses []services.StatusCount
	params := map[string]string{"project_id": projectID}
	if floorplanID != "" {
		params["floorplan_id"] = floorplanID
	}
	if err := c.get(ctx, "/statuses", params, &statuses); err != nil {
		return nil, err
	}
	return statuses, nil
}

// Tasks implements API.
func (c *Client) Tasks(ctx context.Context, filter services.TaskFilter) (*services.TaskPage, error) {
	params := map[string]string{
		"project_id":     filter.ProjectID,
		"page":           fmt.Sprintf("%d", filter.Page),
		"page_count":     fmt.Sprintf("%d", filter.PageCount),
		"sort_direction": string(filter.Sort),
	}
	if filter.StatusID != "" {
		params["status_id"] = filter.StatusID
	}
	if filter.FloorplanID != "" {
		params["floorplan_id"] = filter.FloorplanID
	}
	if filter.Search != "" {
		params["search"] = filter.Search
	}

	var page services.TaskPage
	if err := c.get(ctx, "/tasks", params, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	req := c.http.R().SetContext(ctx).SetResult(out)
	if params != nil {
		req.SetQueryParams(params)
	}
	resp, err := req.Get(path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("GET %s: %s", path, resp.Status())
	}
	return nil
}
