package jobsrv

import (
	"context"
	"slices"
	"sync"

	"github.com/Shashank26122003/entnt-assignment/pkg/crosstab"
	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/Shashank26122003/entnt-assignment/pkg/store"
	"github.com/Shashank26122003/entnt-assignment/pkg/validatex"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job"
)

// JobService provides business operations for jobs
type JobService struct {
	jobs       *store.Collection[job.Job]
	policy     job.DeletePolicy
	dependents []job.Dependent

	mu   sync.RWMutex
	view []job.Job

	baseCtx context.Context
	sub     *crosstab.Subscription
}

// NewJobService creates a new instance of the job service
func NewJobService(jobs *store.Collection[job.Job], policy job.DeletePolicy) *JobService {
	if !policy.IsValid() {
		policy = job.DeletePolicyOrphan
	}
	return &JobService{
		jobs:    jobs,
		policy:  policy,
		view:    []job.Job{},
		baseCtx: context.Background(),
	}
}

// WithDependents registers collections that reference jobs. They are
// consulted on delete according to the delete policy.
func (s *JobService) WithDependents(deps ...job.Dependent) *JobService {
	s.dependents = append(s.dependents, deps...)
	return s
}

func (s *JobService) Policy() job.DeletePolicy { return s.policy }

// ============================================================================
// Lifecycle
// ============================================================================

// Start loads the job view and follows changes made by other contexts.
func (s *JobService) Start(ctx context.Context, ch *crosstab.Channel) {
	s.baseCtx = context.WithoutCancel(ctx)
	s.Refresh(ctx)
	if ch != nil {
		s.sub = ch.Subscribe(s.onStorageEvent, kernel.CollectionJobs)
	}
}

// Close stops following changes. It is safe to call more than once.
func (s *JobService) Close() {
	s.sub.Close()
}

func (s *JobService) onStorageEvent(ev storage.Event) {
	logx.Debugf("jobsrv: %s changed by %s, reloading", ev.Key, ev.Origin)
	s.Refresh(s.baseCtx)
}

// Refresh reloads the view from storage and returns it.
func (s *JobService) Refresh(ctx context.Context) []job.Job {
	jobs := s.jobs.Load(ctx)
	s.setView(jobs)
	return slices.Clone(jobs)
}

// ============================================================================
// Queries
// ============================================================================

// List returns the current view
func (s *JobService) List() []job.Job {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.view)
}

// Get reads a job from storage
func (s *JobService) Get(ctx context.Context, id kernel.JobID) (*job.Job, error) {
	jobs := s.jobs.Load(ctx)
	idx := indexOf(jobs, id)
	if idx < 0 {
		return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
	}
	found := jobs[idx]
	return &found, nil
}

// Exists reports whether the job is persisted
func (s *JobService) Exists(ctx context.Context, id kernel.JobID) (bool, error) {
	_, err := s.Get(ctx, id)
	if err != nil {
		if errx.IsCode(err, job.CodeJobNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// Title resolves a job title, falling back to the placeholder for unknown ids
func (s *JobService) Title(ctx context.Context, id kernel.JobID) (kernel.JobTitle, bool) {
	found, err := s.Get(ctx, id)
	if err != nil {
		return kernel.UnknownJobTitle, false
	}
	return found.DisplayTitle(), true
}

// ============================================================================
// Commands
// ============================================================================

// Create appends a new job with a fresh id and persists the collection
func (s *JobService) Create(ctx context.Context, req job.CreateJobRequest) (*job.Job, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	newJob := job.New(req)
	jobs, err := s.jobs.Mutate(ctx, func(jobs []job.Job) ([]job.Job, error) {
		return append(jobs, newJob), nil
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to create job", errx.TypeInternal)
	}
	s.setView(jobs)

	logx.Infof("job %s created: %s", newJob.ID, newJob.Title)
	return &newJob, nil
}

// Update replaces the editable fields of a job in place
func (s *JobService) Update(ctx context.Context, id kernel.JobID, req job.UpdateJobRequest) (*job.Job, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	var updated job.Job
	jobs, err := s.jobs.Mutate(ctx, func(jobs []job.Job) ([]job.Job, error) {
		idx := indexOf(jobs, id)
		if idx < 0 {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		jobs[idx].Apply(req)
		updated = jobs[idx]
		return jobs, nil
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to update job", errx.TypeInternal)
	}
	s.setView(jobs)

	return &updated, nil
}

// Delete removes a job, applying the delete policy to its dependents
func (s *JobService) Delete(ctx context.Context, id kernel.JobID) error {
	if s.policy == job.DeletePolicyRestrict {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		if err := s.checkNoDependents(ctx, id); err != nil {
			return err
		}
	}

	jobs, err := s.jobs.Mutate(ctx, func(jobs []job.Job) ([]job.Job, error) {
		idx := indexOf(jobs, id)
		if idx < 0 {
			return nil, job.ErrJobNotFound().WithDetail("job_id", id.String())
		}
		return slices.Delete(jobs, idx, idx+1), nil
	})
	if err != nil {
		return errx.Wrap(err, "failed to delete job", errx.TypeInternal)
	}
	s.setView(jobs)

	if s.policy == job.DeletePolicyCascade {
		return s.deleteDependents(ctx, id)
	}
	return nil
}

func (s *JobService) checkNoDependents(ctx context.Context, id kernel.JobID) error {
	var blocking *errx.Error
	for _, dep := range s.dependents {
		n, err := dep.CountByJob(ctx, id)
		if err != nil {
			return errx.Wrap(err, "failed to count job dependents", errx.TypeInternal)
		}
		if n == 0 {
			continue
		}
		if blocking == nil {
			blocking = job.ErrJobHasDependents().WithDetail("job_id", id.String())
		}
		blocking.WithDetail(dep.Collection().String(), n)
	}
	if blocking != nil {
		return blocking
	}
	return nil
}

func (s *JobService) deleteDependents(ctx context.Context, id kernel.JobID) error {
	for _, dep := range s.dependents {
		n, err := dep.DeleteByJob(ctx, id)
		if err != nil {
			return job.ErrDependentCleanupFailed().
				WithDetail("job_id", id.String()).
				WithDetail("collection", dep.Collection().String()).
				WithCause(err)
		}
		if n > 0 {
			logx.Infof("job %s deleted with %d %s", id, n, dep.Collection())
		}
	}
	return nil
}

// ============================================================================
// Helpers
// ============================================================================

func (s *JobService) setView(jobs []job.Job) {
	s.mu.Lock()
	s.view = slices.Clone(jobs)
	s.mu.Unlock()
}

func indexOf(jobs []job.Job, id kernel.JobID) int {
	return slices.IndexFunc(jobs, func(j job.Job) bool { return j.ID == id })
}
