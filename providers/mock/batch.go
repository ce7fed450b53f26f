package mock

import (
	"context"
	"time"

	"github.com/stainedhead/lc-platform/api"
	"github.com/stainedhead/lc-platform/pkg/control"
	"github.com/stainedhead/lc-platform/pkg/cperrors"
)

type batch struct{ w *world }

var _ control.BatchService = (*batch)(nil)

// schedulerTick is the fixed, tiny delay used to advance mock job state
// through pending -> running -> terminal. It exists purely so a test can
// poll GetJob a bounded number of times and observe a terminal state
// without depending on real wall-clock timing.
const schedulerTick = 2 * time.Millisecond

func (s *batch) SubmitJob(ctx context.Context, p control.SubmitJobParams) (api.Job, error) {
	s.w.injectLatency()
	id := s.w.nextID("job")
	now := s.w.now()
	j := &api.Job{
		ID:          id,
		Name:        p.Name,
		Status:      api.JobPending,
		Image:       p.Image,
		Command:     p.Command,
		Environment: copyStrMap(p.Environment),
		CPU:         p.CPU,
		Memory:      p.Memory,
		Timeout:     p.Timeout,
		RetryCount:  p.RetryCount,
		Created:     now,
	}
	s.w.jobsMu.Lock()
	s.w.jobs[id] = j
	s.w.jobsMu.Unlock()

	go s.w.runJob(id)
	return *j, nil
}

// runJob advances a job from pending through running to a terminal state
// over a few scheduler ticks. Outcome is drawn from the world's seeded rng
// so repeated runs with the same seed are deterministic.
func (w *world) runJob(id string) {
	time.Sleep(schedulerTick)
	w.jobsMu.Lock()
	j, ok := w.jobs[id]
	if !ok || j.Status != api.JobPending {
		w.jobsMu.Unlock()
		return
	}
	started := w.now()
	j.Status = api.JobRunning
	j.Started = &started
	w.jobsMu.Unlock()

	time.Sleep(schedulerTick)

	w.jobsMu.Lock()
	defer w.jobsMu.Unlock()
	j, ok = w.jobs[id]
	if !ok || j.Status != api.JobRunning {
		return
	}
	finished := w.now()
	j.Finished = &finished
	j.AttemptsMade = 1
	w.seqMu.Lock()
	ok2 := w.rng.Intn(10) != 0 // ~90% success rate
	w.seqMu.Unlock()
	if ok2 {
		j.Status = api.JobSucceeded
		code := 0
		j.ExitCode = &code
	} else {
		j.Status = api.JobFailed
		code := 1
		j.ExitCode = &code
		errMsg := "mock job exited non-zero"
		j.Error = &errMsg
	}
}

func (s *batch) GetJob(ctx context.Context, id string) (api.Job, error) {
	s.w.jobsMu.RLock()
	defer s.w.jobsMu.RUnlock()
	j, ok := s.w.jobs[id]
	if !ok {
		return api.Job{}, cperrors.NotFound("Job", id)
	}
	return *j, nil
}

func (s *batch) CancelJob(ctx context.Context, id string) error {
	s.w.jobsMu.Lock()
	defer s.w.jobsMu.Unlock()
	j, ok := s.w.jobs[id]
	if !ok {
		return cperrors.NotFound("Job", id)
	}
	if j.Status != api.JobPending && j.Status != api.JobRunning {
		return cperrors.ValidationError(id, "job %q is already in terminal state %q", id, j.Status)
	}
	j.Status = api.JobCancelled
	finished := s.w.now()
	j.Finished = &finished
	return nil
}

func (s *batch) ListJobs(ctx context.Context, status *api.JobStatus) ([]api.Job, error) {
	s.w.jobsMu.RLock()
	defer s.w.jobsMu.RUnlock()
	var out []api.Job
	for _, j := range s.w.jobs {
		if status != nil && j.Status != *status {
			continue
		}
		out = append(out, *j)
	}
	return out, nil
}

func (s *batch) ScheduleJob(ctx context.Context, p control.ScheduleJobParams) (api.ScheduledJob, error) {
	id := s.w.nextID("scheduled-job")
	sj := &api.ScheduledJob{
		ID:          id,
		Name:        p.Name,
		Schedule:    p.Schedule,
		Enabled:     p.Enabled,
		Image:       p.Image,
		Command:     p.Command,
		Environment: copyStrMap(p.Environment),
		CPU:         p.CPU,
		Memory:      p.Memory,
		Timeout:     p.Timeout,
		Created:     s.w.now(),
	}
	s.w.schedMu.Lock()
	if s.w.scheduled == nil {
		s.w.scheduled = make(map[string]*api.ScheduledJob)
	}
	s.w.scheduled[id] = sj
	s.w.schedMu.Unlock()
	return *sj, nil
}

func (s *batch) DeleteScheduledJob(ctx context.Context, id string) error {
	s.w.schedMu.Lock()
	defer s.w.schedMu.Unlock()
	if _, ok := s.w.scheduled[id]; !ok {
		return cperrors.NotFound("ScheduledJob", id)
	}
	delete(s.w.scheduled, id)
	return nil
}

func (s *batch) ListScheduledJobs(ctx context.Context) ([]api.ScheduledJob, error) {
	s.w.schedMu.RLock()
	defer s.w.schedMu.RUnlock()
	out := make([]api.ScheduledJob, 0, len(s.w.scheduled))
	for _, sj := range s.w.scheduled {
		out = append(out, *sj)
	}
	return out, nil
}
