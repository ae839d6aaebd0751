// Package jobs wraps the job administration endpoints. The jobs family is
// pinned to API version 2.1.
package jobs

import (
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/lakeport-io/lakeport-go/pkg/api"
)

const apiVersion = "2.1"

var (
	epList     = api.Endpoint{Method: http.MethodGet, Path: "jobs/list", Version: apiVersion}
	epGet      = api.Endpoint{Method: http.MethodGet, Path: "jobs/get", Version: apiVersion}
	epRunNow   = api.Endpoint{Method: http.MethodPost, Path: "jobs/run-now", Version: apiVersion}
	epDelete   = api.Endpoint{Method: http.MethodPost, Path: "jobs/delete", Version: apiVersion}
	epListRuns = api.Endpoint{Method: http.MethodGet, Path: "jobs/runs/list", Version: apiVersion}
)

// Service exposes job operations on one client.
type Service struct {
	client *api.Client
}

// NewService returns a job service backed by client.
func NewService(client *api.Client) *Service {
	return &Service{client: client}
}

// Job describes one job as returned by the API.
type Job struct {
	JobID       int64    `json:"job_id"`
	CreatorName string   `json:"creator_user_name"`
	CreatedTime int64    `json:"created_time"`
	Settings    Settings `json:"settings"`
}

// Settings is the caller-visible job configuration.
type Settings struct {
	Name              string            `json:"name"`
	Tags              map[string]string `json:"tags"`
	TimeoutSeconds    int64             `json:"timeout_seconds"`
	MaxConcurrentRuns int64             `json:"max_concurrent_runs"`
}

// Run describes one run of a job.
type Run struct {
	RunID     int64  `json:"run_id"`
	JobID     int64  `json:"job_id"`
	RunName   string `json:"run_name"`
	State     State  `json:"state"`
	StartTime int64  `json:"start_time"`
	EndTime   int64  `json:"end_time"`
}

// State is the lifecycle and result state of a run.
type State struct {
	LifeCycleState string `json:"life_cycle_state"`
	ResultState    string `json:"result_state"`
	StateMessage   string `json:"state_message"`
}

// ListOptions filter and page the job list. Zero values are omitted from the
// request: job ids, offsets and limits are never zero on the wire, so zero is
// the "not supplied" sentinel for these fields.
type ListOptions struct {
	Name        string
	Offset      int64
	Limit       int64
	ExpandTasks bool
}

// List returns jobs matching opts, unwrapping the "jobs" field of the
// response envelope.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]Job, error) {
	envelope, err := s.ListRaw(ctx, opts)
	if err != nil {
		return nil, err
	}

	var jobs []Job
	if err := envelope.DecodeField("jobs", &jobs); err != nil {
		return nil, fmt.Errorf("failed to decode job list: %w", err)
	}
	return jobs, nil
}

// ListRaw returns the full list envelope without unwrapping, including paging
// fields such as "has_more".
func (s *Service) ListRaw(ctx context.Context, opts ListOptions) (api.Envelope, error) {
	payload := api.NewPayload().
		Set("name", opts.Name).
		SetSentinel("offset", opts.Offset, 0).
		SetSentinel("limit", opts.Limit, 0)
	if opts.ExpandTasks {
		payload.Force("expand_tasks", true)
	}
	return s.client.Call(ctx, epList, payload, api.WithOp("jobs.List"))
}

// Get retrieves a single job by id, returning the envelope decoded as-is.
func (s *Service) Get(ctx context.Context, jobID int64) (*Job, error) {
	if jobID <= 0 {
		return nil, api.MissingField("jobs.Get", "job_id")
	}

	payload := api.NewPayload().Force("job_id", jobID)
	envelope, err := s.client.Call(ctx, epGet, payload, api.WithOp("jobs.Get"))
	if err != nil {
		return nil, err
	}

	var job Job
	if err := envelope.Decode(&job); err != nil {
		return nil, fmt.Errorf("failed to decode job: %w", err)
	}
	return &job, nil
}

// RunNowRequest triggers one run of a job. An empty IdempotencyToken is
// filled with a generated UUID so that a caller-side retry of the same
// request cannot start a second run.
type RunNowRequest struct {
	JobID            int64
	IdempotencyToken string
	NotebookParams   map[string]string
	JarParams        []string
}

// RunNow triggers a run and returns the new run id.
func (s *Service) RunNow(ctx context.Context, req RunNowRequest) (int64, error) {
	if req.JobID <= 0 {
		return 0, api.MissingField("jobs.RunNow", "job_id")
	}
	if req.IdempotencyToken == "" {
		req.IdempotencyToken = uuid.NewString()
	}

	payload := api.NewPayload().
		Force("job_id", req.JobID).
		Force("idempotency_token", req.IdempotencyToken).
		Set("notebook_params", req.NotebookParams).
		Set("jar_params", req.JarParams)

	envelope, err := s.client.Call(ctx, epRunNow, payload, api.WithOp("jobs.RunNow"))
	if err != nil {
		return 0, err
	}

	var result struct {
		RunID int64 `json:"run_id"`
	}
	if err := envelope.Decode(&result); err != nil {
		return 0, fmt.Errorf("failed to decode run-now response: %w", err)
	}
	return result.RunID, nil
}

// Delete removes a job. Active runs are not stopped.
func (s *Service) Delete(ctx context.Context, jobID int64) error {
	if jobID <= 0 {
		return api.MissingField("jobs.Delete", "job_id")
	}
	payload := api.NewPayload().Force("job_id", jobID)
	_, err := s.client.Call(ctx, epDelete, payload, api.WithOp("jobs.Delete"))
	return err
}

// ListRunsOptions page the run list for one job or the whole workspace.
// Zero values are omitted, as in ListOptions.
type ListRunsOptions struct {
	JobID      int64
	Offset     int64
	Limit      int64
	ActiveOnly bool
}

// ListRuns returns runs matching opts, unwrapping the "runs" field.
func (s *Service) ListRuns(ctx context.Context, opts ListRunsOptions) ([]Run, error) {
	payload := api.NewPayload().
		SetSentinel("job_id", opts.JobID, 0).
		SetSentinel("offset", opts.Offset, 0).
		SetSentinel("limit", opts.Limit, 0)
	if opts.ActiveOnly {
		payload.Force("active_only", true)
	}

	envelope, err := s.client.Call(ctx, epListRuns, payload, api.WithOp("jobs.ListRuns"))
	if err != nil {
		return nil, err
	}

	var runs []Run
	if err := envelope.DecodeField("runs", &runs); err != nil {
		return nil, fmt.Errorf("failed to decode run list: %w", err)
	}
	return runs, nil
}
