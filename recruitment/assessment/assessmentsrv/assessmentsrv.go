package assessmentsrv

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
	"github.com/Shashank26122003/entnt-assignment/recruitment/assessment"
	"github.com/Shashank26122003/entnt-assignment/recruitment/job"
)

var errUnchanged = errors.New("unchanged")

// AssessmentService provides business operations for assessments and the
// drafts they are edited through
type AssessmentService struct {
	assessments   *store.Collection[assessment.Assessment]
	jobs          job.Lookup
	enforceJobRef bool
	drafts        *DraftBook

	mu   sync.RWMutex
	view []assessment.Assessment

	baseCtx context.Context
	sub     *crosstab.Subscription
}

// NewAssessmentService creates a new instance of the assessment service.
// jobs may be nil, in which case job titles resolve to the placeholder.
func NewAssessmentService(
	assessments *store.Collection[assessment.Assessment],
	jobs job.Lookup,
	enforceJobRef bool,
	drafts *DraftBook,
) *AssessmentService {
	if drafts == nil {
		drafts = NewDraftBook(DefaultDraftTTL)
	}
	return &AssessmentService{
		assessments:   assessments,
		jobs:          jobs,
		enforceJobRef: enforceJobRef && jobs != nil,
		drafts:        drafts,
		view:          []assessment.Assessment{},
		baseCtx:       context.Background(),
	}
}

// ============================================================================
// Lifecycle
// ============================================================================

// Start loads the view and follows changes made by other contexts.
func (s *AssessmentService) Start(ctx context.Context, ch *crosstab.Channel) {
	s.baseCtx = context.WithoutCancel(ctx)
	s.Refresh(ctx)
	if ch != nil {
		s.sub = ch.Subscribe(s.onStorageEvent, kernel.CollectionAssessments)
	}
}

// Close stops following changes. It is safe to call more than once.
func (s *AssessmentService) Close() {
	s.sub.Close()
}

func (s *AssessmentService) onStorageEvent(ev storage.Event) {
	logx.Debugf("assessmentsrv: %s changed by %s, reloading", ev.Key, ev.Origin)
	s.Refresh(s.baseCtx)
}

// Refresh reloads the view from storage and returns it.
func (s *AssessmentService) Refresh(ctx context.Context) []assessment.Assessment {
	all := s.load(ctx)
	s.setView(all)
	return cloneAll(all)
}

// ============================================================================
// Queries
// ============================================================================

// List returns the current view
func (s *AssessmentService) List() []assessment.Assessment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneAll(s.view)
}

// ListView returns the current view with job titles resolved
func (s *AssessmentService) ListView(ctx context.Context) []assessment.AssessmentView {
	all := s.List()
	titles := make(map[kernel.JobID]kernel.JobTitle)

	out := make([]assessment.AssessmentView, 0, len(all))
	for _, a := range all {
		title, ok := titles[a.JobID]
		if !ok {
			title = s.jobTitle(ctx, a.JobID)
			titles[a.JobID] = title
		}
		out = append(out, assessment.AssessmentView{
			ID:            a.ID,
			JobID:         a.JobID,
			JobTitle:      title,
			Title:         a.Title,
			Questions:     a.Questions,
			QuestionCount: a.QuestionCount(),
		})
	}
	return out
}

// Get reads an assessment from storage
func (s *AssessmentService) Get(ctx context.Context, id kernel.AssessmentID) (*assessment.Assessment, error) {
	all := s.load(ctx)
	idx := indexOf(all, id)
	if idx < 0 {
		return nil, assessment.ErrAssessmentNotFound().WithDetail("assessment_id", id.String())
	}
	found := all[idx]
	return &found, nil
}

// ============================================================================
// Commands
// ============================================================================

// Create appends a new assessment. A job is required; the title may be empty.
func (s *AssessmentService) Create(ctx context.Context, req assessment.CreateAssessmentRequest) (*assessment.Assessment, error) {
	newAssessment, err := assessment.New(req)
	if err != nil {
		return nil, err
	}
	if err := s.checkJob(ctx, newAssessment.JobID); err != nil {
		return nil, err
	}

	all, err := s.assessments.Mutate(ctx, func(all []assessment.Assessment) ([]assessment.Assessment, error) {
		normalizeAll(all)
		return append(all, newAssessment), nil
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to create assessment", errx.TypeInternal)
	}
	s.setView(all)

	logx.Infof("assessment %s created for job %s with %d questions", newAssessment.ID, newAssessment.JobID, newAssessment.QuestionCount())
	return &newAssessment, nil
}

// Update replaces the fields present in req, keeping the id
func (s *AssessmentService) Update(ctx context.Context, id kernel.AssessmentID, req assessment.UpdateAssessmentRequest) (*assessment.Assessment, error) {
	if req.JobID != nil {
		if err := s.checkJob(ctx, *req.JobID); err != nil {
			return nil, err
		}
	}

	var updated assessment.Assessment
	all, err := s.assessments.Mutate(ctx, func(all []assessment.Assessment) ([]assessment.Assessment, error) {
		normalizeAll(all)
		idx := indexOf(all, id)
		if idx < 0 {
			return nil, assessment.ErrAssessmentNotFound().WithDetail("assessment_id", id.String())
		}
		if err := all[idx].Apply(req); err != nil {
			return nil, err
		}
		updated = all[idx]
		return all, nil
	})
	if err != nil {
		return nil, errx.Wrap(err, "failed to update assessment", errx.TypeInternal)
	}
	s.setView(all)

	return &updated, nil
}

// Delete removes an assessment. Removing the last one persists an empty
// collection.
func (s *AssessmentService) Delete(ctx context.Context, id kernel.AssessmentID) error {
	all, err := s.assessments.Mutate(ctx, func(all []assessment.Assessment) ([]assessment.Assessment, error) {
		normalizeAll(all)
		idx := indexOf(all, id)
		if idx < 0 {
			return nil, assessment.ErrAssessmentNotFound().WithDetail("assessment_id", id.String())
		}
		return slices.Delete(all, idx, idx+1), nil
	})
	if err != nil {
		return errx.Wrap(err, "failed to delete assessment", errx.TypeInternal)
	}
	s.setView(all)
	return nil
}

// Commit creates or updates the assessment staged in d, then resets d.
func (s *AssessmentService) Commit(ctx context.Context, d *assessment.Draft) (*assessment.Assessment, error) {
	if d.JobID().IsEmpty() {
		return nil, assessment.ErrJobRequired()
	}

	var (
		saved *assessment.Assessment
		err   error
	)
	if id, editing := d.Editing(); editing {
		saved, err = s.Update(ctx, id, d.UpdateRequest())
	} else {
		saved, err = s.Create(ctx, d.CreateRequest())
	}
	if err != nil {
		return nil, err
	}

	d.Reset()
	return saved, nil
}

// ============================================================================
// Drafts
// ============================================================================

// OpenDraft starts an editing session, blank or staged from an existing
// assessment when from is set
func (s *AssessmentService) OpenDraft(ctx context.Context, from kernel.AssessmentID) (assessment.DraftView, error) {
	if from.IsEmpty() {
		return s.drafts.Open(assessment.NewDraft()), nil
	}

	existing, err := s.Get(ctx, from)
	if err != nil {
		return assessment.DraftView{}, err
	}
	return s.drafts.Open(assessment.EditDraft(*existing)), nil
}

// Draft returns the state of an editing session
func (s *AssessmentService) Draft(draftID string) (assessment.DraftView, error) {
	return s.drafts.Get(draftID)
}

// UpdateDraft applies fn to the staged draft
func (s *AssessmentService) UpdateDraft(draftID string, fn func(d *assessment.Draft) error) (assessment.DraftView, error) {
	return s.drafts.Update(draftID, fn)
}

// CommitDraft saves the staged draft and closes its session. A failed commit
// leaves the session open for correction.
func (s *AssessmentService) CommitDraft(ctx context.Context, draftID string) (*assessment.Assessment, error) {
	var saved *assessment.Assessment
	err := s.drafts.Take(draftID, func(d *assessment.Draft) error {
		var err error
		saved, err = s.Commit(ctx, d)
		return err
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// DiscardDraft closes an editing session without saving
func (s *AssessmentService) DiscardDraft(draftID string) error {
	return s.drafts.Discard(draftID)
}

// ============================================================================
// job.Dependent
// ============================================================================

func (s *AssessmentService) Collection() kernel.CollectionName {
	return kernel.CollectionAssessments
}

// CountByJob counts persisted assessments attached to jobID
func (s *AssessmentService) CountByJob(ctx context.Context, jobID kernel.JobID) (int, error) {
	n := 0
	for _, a := range s.load(ctx) {
		if a.ReferencesJob(jobID) {
			n++
		}
	}
	return n, nil
}

// DeleteByJob removes every assessment attached to jobID
func (s *AssessmentService) DeleteByJob(ctx context.Context, jobID kernel.JobID) (int, error) {
	removed := 0
	all, err := s.assessments.Mutate(ctx, func(all []assessment.Assessment) ([]assessment.Assessment, error) {
		normalizeAll(all)
		kept := slices.DeleteFunc(all, func(a assessment.Assessment) bool { return a.ReferencesJob(jobID) })
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
		return 0, errx.Wrap(err, "failed to delete assessments of job", errx.TypeInternal)
	}
	s.setView(all)
	return removed, nil
}

// ============================================================================
// Helpers
// ============================================================================

func (s *AssessmentService) load(ctx context.Context) []assessment.Assessment {
	all := s.assessments.Load(ctx)
	normalizeAll(all)
	return all
}

func (s *AssessmentService) checkJob(ctx context.Context, jobID kernel.JobID) error {
	if jobID.IsEmpty() {
		return assessment.ErrJobRequired()
	}
	if !s.enforceJobRef {
		return nil
	}
	exists, err := s.jobs.Exists(ctx, jobID)
	if err != nil {
		return errx.Wrap(err, "failed to check job reference", errx.TypeInternal)
	}
	if !exists {
		return assessment.ErrJobNotFound().WithDetail("job_id", jobID.String())
	}
	return nil
}

func (s *AssessmentService) jobTitle(ctx context.Context, jobID kernel.JobID) kernel.JobTitle {
	if s.jobs == nil {
		return kernel.UnknownJobTitle
	}
	title, _ := s.jobs.Title(ctx, jobID)
	return title
}

func (s *AssessmentService) setView(all []assessment.Assessment) {
	s.mu.Lock()
	s.view = cloneAll(all)
	s.mu.Unlock()
}

func normalizeAll(all []assessment.Assessment) {
	for i := range all {
		all[i].Normalize()
	}
}

// cloneAll copies the records and their question lists.
func cloneAll(all []assessment.Assessment) []assessment.Assessment {
	out := make([]assessment.Assessment, len(all))
	for i, a := range all {
		a.Questions = slices.Clone(a.Questions)
		a.Normalize()
		out[i] = a
	}
	return out
}

func indexOf(all []assessment.Assessment, id kernel.AssessmentID) int {
	return slices.IndexFunc(all, func(a assessment.Assessment) bool { return a.ID == id })
}
