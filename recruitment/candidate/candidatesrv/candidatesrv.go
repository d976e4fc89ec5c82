package candidatesrv

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/Shashank26122003/entnt-assignment/pkg/crosstab"
	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
	"github.com/Shashank26122003/entnt-assignment/pkg/logx"
	"github.com/Shashank26122003/entnt-assignment/pkg/storage"
	"github.com/Shashank26122003/entnt-assignment/pkg/store"
	"github.com/Shashank26122003/entnt-assignment/pkg/validatex"
	"github.com/Shashank26122003/entnt-assignment/recruitment/candidate"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job"
)

// errUnchanged aborts a mutation that would write the collection back as is.
var errUnchanged = errors.New("unchanged")

// CandidateService provides business operations for candidates. It keeps a
// view scoped to one job, but every write starts from the full persisted
// collection so candidates of other jobs are never lost.
type CandidateService struct {
	candidates    *store.Collection[candidate.Candidate]
	jobs          job.Lookup
	enforceJobRef bool

	mu     sync.RWMutex
	scoped bool
	scope  kernel.JobID
	view   []candidate.Candidate

	baseCtx context.Context
	sub     *crosstab.Subscription
}

// NewCandidateService creates a new instance of the candidate service. jobs
// may be nil, in which case job titles resolve to the placeholder and job
// references are never enforced.
func NewCandidateService(
	candidates *store.Collection[candidate.Candidate],
	jobs job.Lookup,
	enforceJobRef bool,
) *CandidateService {
	return &CandidateService{
		candidates:    candidates,
		jobs:          jobs,
		enforceJobRef: enforceJobRef && jobs != nil,
		view:          []candidate.Candidate{},
		baseCtx:       context.Background(),
	}
}

// ============================================================================
// Lifecycle
// ============================================================================

// Start follows changes made by other contexts. The scoped view is reloaded
// whenever the candidates or jobs collection changes.
func (s *CandidateService) Start(ctx context.Context, ch *crosstab.Channel) {
	s.baseCtx = context.WithoutCancel(ctx)
	if ch != nil {
		s.sub = ch.Subscribe(s.onStorageEvent, kernel.CollectionCandidates, kernel.CollectionJobs)
	}
}

// Close stops following changes. It is safe to call more than once.
func (s *CandidateService) Close() {
	s.sub.Close()
}

func (s *CandidateService) onStorageEvent(ev storage.Event) {
	s.mu.RLock()
	scoped, scope := s.scoped, s.scope
	s.mu.RUnlock()
	if !scoped {
		return
	}
	logx.Debugf("candidatesrv: %s changed by %s, reloading job %s", ev.Key, ev.Origin, scope)
	s.ListForJob(s.baseCtx, scope)
}

// ============================================================================
// Queries
// ============================================================================

// ListForJob loads the full collection and keeps the candidates of jobID as
// the scoped view
func (s *CandidateService) ListForJob(ctx context.Context, jobID kernel.JobID) []candidate.Candidate {
	filtered := filterByJob(s.candidates.Load(ctx), jobID)

	s.mu.Lock()
	s.scoped = true
	s.scope = jobID
	s.view = slices.Clone(filtered)
	s.mu.Unlock()

	return filtered
}

// List returns the full persisted collection
func (s *CandidateService) List(ctx context.Context) []candidate.Candidate {
	return s.candidates.Load(ctx)
}

// View returns the job the view is scoped to and its candidates. ok is false
// until ListForJob has been called.
func (s *CandidateService) View() (jobID kernel.JobID, candidates []candidate.Candidate, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scope, slices.Clone(s.view), s.scoped
}

// Get reads a candidate from storage
func (s *CandidateService) Get(ctx context.Context, id kernel.CandidateID) (*candidate.Candidate, error) {
	all := s.candidates.Load(ctx)
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
	}
	found := all[idx]
	return &found, nil
}

// JobTitle resolves the title shown above a job's candidates
func (s *CandidateService) JobTitle(ctx context.Context, jobID kernel.JobID) kernel.JobTitle {
	if s.jobs == nil {
		return kernel.UnknownJobTitle
	}
	title, _ := s.jobs.Title(ctx, jobID)
	return title
}

// ============================================================================
// Commands
// ============================================================================

// Create appends a candidate to the persisted collection
func (s *CandidateService) Create(ctx context.Context, req candidate.CreateCandidateRequest) (*candidate.Candidate, error) {
	if err := validatex.Struct(req); err != nil {
		return nil, err
	}

	if s.enforceJobRef {
		exists, err := s.jobs.Exists(ctx, req.JobID)
		if err != nil {
			return nil, errx.Wrap(err, "failed to check job reference", errx.TypeInternal)
		}
		if !exists {
			return nil, candidate.ErrJobNotFound().WithDetail("job_id", req.JobID.String())
		}
	}

	newCandidate, err := candidate.New(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.candidates.Mutate(ctx, func(all []candidate.Candidate) ([]candidate.Candidate, error) {
		return append(all, newCandidate), nil
	}); err != nil {
		return nil, errx.Wrap(err, "failed to create candidate", errx.TypeInternal)
	}

	s.mu.Lock()
	if s.scoped && s.scope == newCandidate.JobID {
		s.view = append(s.view, newCandidate)
	}
	s.mu.Unlock()

	logx.Infof("candidate %s added to job %s", newCandidate.ID, newCandidate.JobID)
	return &newCandidate, nil
}

// SetStatus moves a candidate to another stage. Setting the current status
// again is allowed and leaves the record unchanged.
func (s *CandidateService) SetStatus(ctx context.Context, id kernel.CandidateID, status candidate.Status) (*candidate.Candidate, error) {
	parsed, err := candidate.ParseStatus(string(status))
	if err != nil {
		return nil, err
	}

	var updated candidate.Candidate
	if _, err := s.candidates.Mutate(ctx, func(all []candidate.Candidate) ([]candidate.Candidate, error) {
		idx := indexOf(all, id)
		if idx < 0 {
			return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
		}
		all[idx].Status = parsed
		updated = all[idx]
		return all, nil
	}); err != nil {
		return nil, errx.Wrap(err, "failed to update candidate status", errx.TypeInternal)
	}

	s.mu.Lock()
	if idx := indexOf(s.view, id); idx >= 0 {
		s.view[idx].Status = parsed
	}
	s.mu.Unlock()

	return &updated, nil
}

// Delete removes a candidate from the persisted collection
func (s *CandidateService) Delete(ctx context.Context, id kernel.CandidateID) error {
	if _, err := s.candidates.Mutate(ctx, func(all []candidate.Candidate) ([]candidate.Candidate, error) {
		idx := indexOf(all, id)
		if idx < 0 {
			return nil, candidate.ErrCandidateNotFound().WithDetail("candidate_id", id.String())
		}
		return slices.Delete(all, idx, idx+1), nil
	}); err != nil {
		return errx.Wrap(err, "failed to delete candidate", errx.TypeInternal)
	}

	s.mu.Lock()
	if idx := indexOf(s.view, id); idx >= 0 {
		s.view = slices.Delete(s.view, idx, idx+1)
	}
	s.mu.Unlock()

	return nil
}

// ============================================================================
// job.Dependent
// ============================================================================

func (s *CandidateService) Collection() kernel.CollectionName {
	return kernel.CollectionCandidates
}

// CountByJob counts persisted candidates of jobID
func (s *CandidateService) CountByJob(ctx context.Context, jobID kernel.JobID) (int, error) {
	return len(filterByJob(s.candidates.Load(ctx), jobID)), nil
}

// DeleteByJob removes every candidate of jobID
func (s *CandidateService) DeleteByJob(ctx context.Context, jobID kernel.JobID) (int, error) {
	removed := 0
	_, err := s.candidates.Mutate(ctx, func(all []candidate.Candidate) ([]candidate.Candidate, error) {
		kept := slices.DeleteFunc(all, func(c candidate.Candidate) bool { return c.AppliedTo(jobID) })
		removed = len(all) - len(kept)
		if removed == 0 {
			return nil, errUnchanged
		}
		return kept, nil
	})
	if errors.Is(err, errUnchanged) {
		return 0, nil
	}
	if err != nil {
		return 0, errx.Wrap(err, "failed to delete candidates of job", errx.TypeInternal)
	}

	s.mu.Lock()
	if s.scoped && s.scope == jobID {
		s.view = []candidate.Candidate{}
	}
	s.mu.Unlock()

	return removed, nil
}

// ============================================================================
// Helpers
// ============================================================================

func filterByJob(all []candidate.Candidate, jobID kernel.JobID) []candidate.Candidate {
	filtered := make([]candidate.Candidate, 0, len(all))
	for _, c := range all {
		if c.AppliedTo(jobID) {
			filtered = append(filtered, c)
		}
	}
	return filtered
}

func indexOf(all []candidate.Candidate, id kernel.CandidateID) int {
	return slices.IndexFunc(all, func(c candidate.Candidate) bool { return c.ID == id })
}
