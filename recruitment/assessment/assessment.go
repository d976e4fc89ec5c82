package assessment

import (
	"strings"

	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
)

// Assessment is a question list attached to one job, as persisted in the
// assessments collection.
type Assessment struct {
	ID        kernel.AssessmentID    `json:"id"`
	JobID     kernel.JobID           `json:"jobId"`
	Title     kernel.AssessmentTitle `json:"title"`
	Questions []string               `json:"questions"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// New builds an assessment with a fresh id. Questions are trimmed and must
// not be blank.
func New(req CreateAssessmentRequest) (Assessment, error) {
	if req.JobID.IsEmpty() {
		return Assessment{}, ErrJobRequired()
	}
	questions, err := cleanQuestions(req.Questions)
	if err != nil {
		return Assessment{}, err
	}

	return Assessment{
		ID:        kernel.NewAssessmentID(),
		JobID:     req.JobID,
		Title:     req.Title,
		Questions: questions,
	}, nil
}

// Apply replaces the fields present in req. The id is never touched.
func (a *Assessment) Apply(req UpdateAssessmentRequest) error {
	if req.JobID != nil && req.JobID.IsEmpty() {
		return ErrJobRequired()
	}

	var questions []string
	if req.Questions != nil {
		cleaned, err := cleanQuestions(*req.Questions)
		if err != nil {
			return err
		}
		questions = cleaned
	}

	if req.JobID != nil {
		a.JobID = *req.JobID
	}
	if req.Title != nil {
		a.Title = *req.Title
	}
	if req.Questions != nil {
		a.Questions = questions
	}
	a.Normalize()
	return nil
}

// Normalize makes an absent question list an empty one, so it is stored as
// [] rather than null.
func (a *Assessment) Normalize() {
	if a.Questions == nil {
		a.Questions = []string{}
	}
}

// QuestionCount returns the number of questions
func (a *Assessment) QuestionCount() int {
	return len(a.Questions)
}

// ReferencesJob reports whether the assessment is attached to jobID
func (a *Assessment) ReferencesJob(jobID kernel.JobID) bool {
	return a.JobID == jobID
}

func cleanQuestions(in []string) ([]string, error) {
	out := make([]string, 0, len(in))
	for i, q := range in {
		q = strings.TrimSpace(q)
		if q == "" {
			return nil, ErrEmptyQuestion().WithDetail("index", i)
		}
		out = append(out, q)
	}
	return out, nil
}
