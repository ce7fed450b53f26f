package control

import (
	"context"

	"github.com/stainedhead/lc-platform/api"
)

// SubmitJobParams is submitJob's input.
type SubmitJobParams struct {
	Name        string
	Image       string
	Command     []string
	Environment map[string]string
	CPU         int
	Memory      int
	Timeout     int
	RetryCount  int
}

// ScheduleJobParams is scheduleJob's input.
type ScheduleJobParams struct {
	Name        string
	Schedule    string // cron or rate(...) expression
	Enabled     bool
	Image       string
	Command     []string
	Environment map[string]string
	CPU         int
	Memory      int
	Timeout     int
}

// BatchService runs and schedules batch job executions.
type BatchService interface {
	SubmitJob(ctx context.Context, params SubmitJobParams) (api.Job, error)
	GetJob(ctx context.Context, id string) (api.Job, error)
	CancelJob(ctx context.Context, id string) error
	ListJobs(ctx context.Context, status *api.JobStatus) ([]api.Job, error)

	ScheduleJob(ctx context.Context, params ScheduleJobParams) (api.ScheduledJob, error)
	DeleteScheduledJob(ctx context.Context, id string) error
	ListScheduledJobs(ctx context.Context) ([]api.ScheduledJob, error)
}
