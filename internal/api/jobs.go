package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Job trigger types
const (
	TriggerScheduled          = "scheduled"
	TriggerSourceAvailability = "source_availability"
)

// Job execution statuses
const (
	StatusPending   = "pending"
	StatusStarted   = "started"
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusErrored   = "errored"
	StatusCancelled = "cancelled"
)

// Job represents a scheduled or event-triggered job
type Job struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	CallbackURL string     `json:"callback_url"`
	TriggerType string     `json:"trigger_type"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// CreateJobRequest represents a job creation request
type CreateJobRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	CallbackURL string `json:"callback_url"`
	TriggerType string `json:"trigger_type"`
}

// Schedule represents a job's cron schedule
type Schedule struct {
	CronExpression string `json:"cron_expression"`
	Timezone       string `json:"timezone"`
}

// JobExecution represents one run of a job
type JobExecution struct {
	ID        int64      `json:"id"`
	JobID     int64      `json:"job_id"`
	Status    string     `json:"status"`
	Details   string     `json:"details,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// UpdateJobStatusRequest reports an execution status transition
type UpdateJobStatusRequest struct {
	JobExecutionID int64  `json:"job_execution_id"`
	Status         string `json:"status"`
	Details        string `json:"details,omitempty"`
}

// associateSourcesRequest links sources to a job
type associateSourcesRequest struct {
	SourceIDs []int64 `json:"source_ids"`
}

// pageQuery builds skip/limit pagination parameters
func pageQuery(skip, limit int) url.Values {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))
	return q
}

// Jobs retrieves jobs with skip/limit pagination
func (c *Client) Jobs(ctx context.Context, skip, limit int) ([]Job, error) {
	var jobs []Job
	if err := c.do(ctx, http.MethodGet, "/jobs", pageQuery(skip, limit), nil, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// JobByID retrieves a single job
func (c *Client) JobByID(ctx context.Context, id int64) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/jobs/%d", id), nil, nil, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// CreateJob creates a new job
func (c *Client) CreateJob(ctx context.Context, req CreateJobRequest) (*Job, error) {
	var job Job
	if err := c.do(ctx, http.MethodPost, "/jobs", nil, req, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// DeleteJob deletes a job
func (c *Client) DeleteJob(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/jobs/%d", id), nil, nil, nil)
}

// JobSources retrieves the sources associated with a job
func (c *Client) JobSources(ctx context.Context, jobID int64) ([]Source, error) {
	var sources []Source
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/jobs/%d/sources", jobID), nil, nil, &sources); err != nil {
		return nil, err
	}
	return sources, nil
}

// AssociateSources links sources to a job
func (c *Client) AssociateSources(ctx context.Context, jobID int64, sourceIDs []int64) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/jobs/%d/sources", jobID),
		nil, associateSourcesRequest{SourceIDs: sourceIDs}, nil)
}

// SetJobSchedule sets a job's cron schedule
func (c *Client) SetJobSchedule(ctx context.Context, jobID int64, schedule Schedule) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/jobs/%d/schedule", jobID), nil, schedule, nil)
}

// JobExecutions retrieves a job's execution history with skip/limit pagination
func (c *Client) JobExecutions(ctx context.Context, jobID int64, skip, limit int) ([]JobExecution, error) {
	var execs []JobExecution
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/jobs/%d/status", jobID), pageQuery(skip, limit), nil, &execs); err != nil {
		return nil, err
	}
	return execs, nil
}

// UpdateJobStatus reports an execution status transition
func (c *Client) UpdateJobStatus(ctx context.Context, req UpdateJobStatusRequest) error {
	return c.do(ctx, http.MethodPost, "/job-status", nil, req, nil)
}
