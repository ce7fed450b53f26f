package aws

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ecs"
	"github.com/aws/aws-sdk-go-v2/service/ecs/types"
	"github.com/robfig/cron/v3"
	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
	"github.com/stainedhead/lc-platform/pkg/provider"
)

var rateExprRe = regexp.MustCompile(`^rate\((\d+)\s+(minute|minutes|hour|hours|day|days)\)$`)

const batchServiceName = "ecs-batch"

// batchSvc adapts control.BatchService to one-off ECS Fargate tasks for
// ad-hoc jobs and a robfig/cron/v3 scheduler for recurring ones. Jobs are
// modeled the same way webHosting models
// long-running services: one ECS task definition family per job name,
// with each run registering a new revision of it.
type batchSvc struct {
	base
	client  *ecs.Client
	cluster string

	schedMu   sync.Mutex
	scheduler *cron.Cron
	scheduled map[string]*scheduledEntry
}

type scheduledEntry struct {
	job     api.ScheduledJob
	entryID cron.EntryID
	params  control.SubmitJobParams
}

var _ control.BatchService = (*batchSvc)(nil)

func newBatchSvc(cfg provider.Config, shared *provider.Shared) (any, error) {
	awsCfg, err := loadConfig(context.Background(), cfg)
	if err != nil {
		return nil, err
	}
	client := ecs.NewFromConfig(awsCfg, func(o *ecs.Options) {
		if ep := endpointOverride(cfg); ep != nil {
			o.BaseEndpoint = ep
		}
	})
	cluster := cfg.Options.Raw["ecsCluster"]
	if cluster == "" {
		cluster = "lc-platform"
	}
	b := &batchSvc{
		base:      newBase(cfg, shared),
		client:    client,
		cluster:   cluster,
		scheduler: cron.New(),
		scheduled: make(map[string]*scheduledEntry),
	}
	b.scheduler.Start()
	return b, nil
}

func (s *batchSvc) registerJobTaskDefinition(ctx context.Context, family string, p control.SubmitJobParams) (string, error) {
	kvs := make([]types.KeyValuePair, 0, len(p.Environment))
	for k, v := range p.Environment {
		kvs = append(kvs, types.KeyValuePair{Name: aws.String(k), Value: aws.String(v)})
	}
	out, err := s.client.RegisterTaskDefinition(ctx, &ecs.RegisterTaskDefinitionInput{
		Family:                  aws.String(family),
		NetworkMode:             types.NetworkModeAwsvpc,
		RequiresCompatibilities: []types.Compatibility{types.CompatibilityFargate},
		Cpu:                     aws.String(strconv.Itoa(p.CPU)),
		Memory:                  aws.String(strconv.Itoa(p.Memory)),
		ContainerDefinitions: []types.ContainerDefinition{{
			Name:        aws.String(family),
			Image:       aws.String(p.Image),
			Essential:   aws.Bool(true),
			Command:     p.Command,
			Environment: kvs,
		}},
	})
	if err != nil {
		return "", err
	}
	return aws.ToString(out.TaskDefinition.TaskDefinitionArn), nil
}

func (s *batchSvc) runTask(ctx context.Context, name string, p control.SubmitJobParams) (api.Job, error) {
	taskDefArn, err := s.registerJobTaskDefinition(ctx, name, p)
	if err != nil {
		return api.Job{}, err
	}
	out, err := s.client.RunTask(ctx, &ecs.RunTaskInput{
		Cluster:        aws.String(s.cluster),
		TaskDefinition: aws.String(taskDefArn),
		LaunchType:     types.LaunchTypeFargate,
		Count:          aws.Int32(1),
	})
	if err != nil {
		return api.Job{}, err
	}
	if len(out.Failures) > 0 && len(out.Tasks) == 0 {
		return api.Job{}, cperrors.Wrap(cperrors.ServiceUnavailable, fmt.Errorf("%s", aws.ToString(out.Failures[0].Reason)), "ecs run-task failed")
	}
	task := out.Tasks[0]
	return api.Job{
		ID:          aws.ToString(task.TaskArn),
		Name:        name,
		Status:      api.JobPending,
		Image:       p.Image,
		Command:     p.Command,
		Environment: p.Environment,
		CPU:         p.CPU,
		Memory:      p.Memory,
		Timeout:     p.Timeout,
		RetryCount:  p.RetryCount,
	}, nil
}

func (s *batchSvc) SubmitJob(ctx context.Context, p control.SubmitJobParams) (api.Job, error) {
	return do(ctx, s.base, batchServiceName, func(ctx context.Context) (api.Job, error) {
		return s.runTask(ctx, p.Name, p)
	})
}

func jobStatusFromTask(task *types.Task) api.JobStatus {
	switch aws.ToString(task.LastStatus) {
	case "PROVISIONING", "PENDING":
		return api.JobPending
	case "RUNNING", "ACTIVATING", "DEACTIVATING":
		return api.JobRunning
	case "STOPPED", "DELETED":
		for _, c := range task.Containers {
			if c.ExitCode != nil && *c.ExitCode != 0 {
				return api.JobFailed
			}
		}
		return api.JobSucceeded
	default:
		return api.JobPending
	}
}

func (s *batchSvc) GetJob(ctx context.Context, id string) (api.Job, error) {
	return do(ctx, s.base, batchServiceName, func(ctx context.Context) (api.Job, error) {
		out, err := s.client.DescribeTasks(ctx, &ecs.DescribeTasksInput{Cluster: aws.String(s.cluster), Tasks: []string{id}})
		if err != nil {
			return api.Job{}, err
		}
		if len(out.Tasks) == 0 {
			return api.Job{}, cperrors.NotFound("Job", id)
		}
		task := out.Tasks[0]
		j := api.Job{ID: id, Status: jobStatusFromTask(&task)}
		if len(task.Containers) > 0 {
			if ec := task.Containers[0].ExitCode; ec != nil {
				v := int(*ec)
				j.ExitCode = &v
			}
		}
		return j, nil
	})
}

func (s *batchSvc) CancelJob(ctx context.Context, id string) error {
	_, err := do(ctx, s.base, batchServiceName, func(ctx context.Context) (struct{}, error) {
		_, err := s.client.StopTask(ctx, &ecs.StopTaskInput{Cluster: aws.String(s.cluster), Task: aws.String(id), Reason: aws.String("cancelled")})
		return struct{}{}, err
	})
	return err
}

func (s *batchSvc) ListJobs(ctx context.Context, status *api.JobStatus) ([]api.Job, error) {
	return do(ctx, s.base, batchServiceName, func(ctx context.Context) ([]api.Job, error) {
		list, err := s.client.ListTasks(ctx, &ecs.ListTasksInput{Cluster: aws.String(s.cluster)})
		if err != nil {
			return nil, err
		}
		if len(list.TaskArns) == 0 {
			return nil, nil
		}
		out, err := s.client.DescribeTasks(ctx, &ecs.DescribeTasksInput{Cluster: aws.String(s.cluster), Tasks: list.TaskArns})
		if err != nil {
			return nil, err
		}
		jobs := make([]api.Job, 0, len(out.Tasks))
		for _, task := range out.Tasks {
			st := jobStatusFromTask(&task)
			if status != nil && st != *status {
				continue
			}
			jobs = append(jobs, api.Job{ID: aws.ToString(task.TaskArn), Status: st})
		}
		return jobs, nil
	})
}

func (s *batchSvc) ScheduleJob(ctx context.Context, p control.ScheduleJobParams) (api.ScheduledJob, error) {
	schedule, err := parseBatchSchedule(p.Schedule)
	if err != nil {
		return api.ScheduledJob{}, cperrors.ValidationError(p.Name, "invalid schedule expression %q: %v", p.Schedule, err)
	}
	id := fmt.Sprintf("sched-%s", p.Name)
	sj := api.ScheduledJob{
		ID:          id,
		Name:        p.Name,
		Schedule:    p.Schedule,
		Enabled:     p.Enabled,
		Image:       p.Image,
		Command:     p.Command,
		Environment: p.Environment,
		CPU:         p.CPU,
		Memory:      p.Memory,
		Timeout:     p.Timeout,
	}
	submitParams := control.SubmitJobParams{
		Name: p.Name, Image: p.Image, Command: p.Command,
		Environment: p.Environment, CPU: p.CPU, Memory: p.Memory, Timeout: p.Timeout,
	}

	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	entry := &scheduledEntry{job: sj, params: submitParams}
	if p.Enabled {
		entryID, err := s.scheduler.AddFunc(schedule, func() {
			ctx := context.Background()
			_, _ = s.runTask(ctx, p.Name, submitParams)
		})
		if err != nil {
			return api.ScheduledJob{}, cperrors.ValidationError(p.Name, "invalid schedule expression %q: %v", p.Schedule, err)
		}
		entry.entryID = entryID
	}
	s.scheduled[id] = entry
	return sj, nil
}

// parseBatchSchedule validates a generalized cron expression or a
// "rate(<n> <unit>)" expression, translating the latter into the
// equivalent "@every" duration spec robfig/cron/v3 understands.
func parseBatchSchedule(schedule string) (string, error) {
	if n, unit, ok := parseRateExpr(schedule); ok {
		return fmt.Sprintf("@every %d%s", n, unit), nil
	}
	if _, err := cron.ParseStandard(schedule); err != nil {
		return "", err
	}
	return schedule, nil
}

func parseRateExpr(schedule string) (int, string, bool) {
	m := rateExprRe.FindStringSubmatch(schedule)
	if m == nil {
		return 0, "", false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	switch m[2] {
	case "minute", "minutes":
		return n, "m", true
	case "hour", "hours":
		return n, "h", true
	case "day", "days":
		return n * 24, "h", true
	default:
		return 0, "", false
	}
}

func (s *batchSvc) DeleteScheduledJob(ctx context.Context, id string) error {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	entry, ok := s.scheduled[id]
	if !ok {
		return cperrors.NotFound("ScheduledJob", id)
	}
	if entry.job.Enabled {
		s.scheduler.Remove(entry.entryID)
	}
	delete(s.scheduled, id)
	return nil
}

func (s *batchSvc) ListScheduledJobs(ctx context.Context) ([]api.ScheduledJob, error) {
	s.schedMu.Lock()
	defer s.schedMu.Unlock()
	out := make([]api.ScheduledJob, 0, len(s.scheduled))
	for _, e := range s.scheduled {
		out = append(out, e.job)
	}
	return out, nil
}
