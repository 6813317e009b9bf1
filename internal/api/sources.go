package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Source types
const (
	SourceGeneric        = "generic"
	SourceValueDateAware = "value_date_aware"
)

// Source represents a data source that can trigger jobs
type Source struct {
	ID         int64      `json:"id"`
	Name       string     `json:"name"`
	Code       string     `json:"code,omitempty"`
	SourceType string     `json:"source_type"`
	CreatedAt  *time.Time `json:"created_at,omitempty"`
}

// CreateSourceRequest represents a source creation request
type CreateSourceRequest struct {
	Name       string `json:"name"`
	SourceType string `json:"source_type"`
}

// UpdateSourceRequest represents a source update request
type UpdateSourceRequest struct {
	Name       *string `json:"name,omitempty"`
	SourceType *string `json:"source_type,omitempty"`
}

// SourceAvailability represents one availability notification for a source
type SourceAvailability struct {
	ID        int64      `json:"id"`
	SourceID  int64      `json:"source_id"`
	ValueDate string     `json:"value_date,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// NotifyAvailableRequest announces that a source's data is ready.
// ValueDate is required for value-date-aware sources and omitted for
// generic ones.
type NotifyAvailableRequest struct {
	SourceCode string `json:"source_code"`
	ValueDate  string `json:"value_date,omitempty"`
}

// Sources retrieves sources with page/limit pagination
func (c *Client) Sources(ctx context.Context, page, limit int) ([]Source, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))

	var sources []Source
	if err := c.do(ctx, http.MethodGet, "/sources", q, nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// SourceByID retrieves a single source
func (c *Client) SourceByID(ctx context.Context, id int64) (*Source, error) {
	var source Source
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sources/%d", id), nil, nil, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// CreateSource creates a new source
func (c *Client) CreateSource(ctx context.Context, req CreateSourceRequest) (*Source, error) {
	var source Source
	if err := c.do(ctx, http.MethodPost, "/sources", nil, req, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// UpdateSource updates an existing source
func (c *Client) UpdateSource(ctx context.Context, id int64, req UpdateSourceRequest) (*Source, error) {
	var source Source
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/sources/%d", id), nil, req, &source); err != nil {
		return nil, err
	}
	return &source, nil
}

// DeleteSource deletes a source
func (c *Client) DeleteSource(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/sources/%d", id), nil, nil, nil)
}

// SourceAvailabilityHistory retrieves a source's availability notifications
func (c *Client) SourceAvailabilityHistory(ctx context.Context, sourceID int64) ([]SourceAvailability, error) {
	var history []SourceAvailability
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sources/%d/availability", sourceID), nil, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// SourceJobs retrieves the jobs triggered by a source
func (c *Client) SourceJobs(ctx context.Context, sourceID int64) ([]Job, error) {
	var jobs []Job
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/sources/%d/jobs", sourceID), nil, nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// NotifySourceAvailable announces that a source's data is ready
func (c *Client) NotifySourceAvailable(ctx context.Context, req NotifyAvailableRequest) error {
	return c.do(ctx, http.MethodPost, "/sources/notify-available", nil, req, nil)
}
