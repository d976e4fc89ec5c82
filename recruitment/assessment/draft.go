package assessment

import (
	"slices"
	"strings"

	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
)

// Draft stages an assessment while it is being edited. Nothing in a draft
// reaches the collection until it is committed.
type Draft struct {
	editing   kernel.AssessmentID
	jobID     kernel.JobID
	title     kernel.AssessmentTitle
	questions []string
}

// NewDraft starts a draft for a new assessment
func NewDraft() *Draft {
	return &Draft{questions: []string{}}
}

// EditDraft stages an existing assessment. The question list is copied.
func EditDraft(a Assessment) *Draft {
	questions := slices.Clone(a.Questions)
	if questions == nil {
		questions = []string{}
	}
	return &Draft{
		editing:   a.ID,
		jobID:     a.JobID,
		title:     a.Title,
		questions: questions,
	}
}

// Clone returns an independent copy of the draft
func (d *Draft) Clone() *Draft {
	c := *d
	c.questions = slices.Clone(d.questions)
	return &c
}

// Editing returns the id of the assessment being edited; ok is false for a
// new assessment.
func (d *Draft) Editing() (id kernel.AssessmentID, ok bool) {
	return d.editing, !d.editing.IsEmpty()
}

func (d *Draft) JobID() kernel.JobID           { return d.jobID }
func (d *Draft) Title() kernel.AssessmentTitle { return d.title }

func (d *Draft) SetJob(id kernel.JobID)            { d.jobID = id }
func (d *Draft) SetTitle(t kernel.AssessmentTitle) { d.title = t }

// Questions returns a copy of the staged questions
func (d *Draft) Questions() []string {
	return slices.Clone(d.questions)
}

// AddQuestion appends the trimmed text. Blank text is rejected and leaves
// the draft unchanged.
func (d *Draft) AddQuestion(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyQuestion()
	}
	d.questions = append(d.questions, text)
	return nil
}

// RemoveQuestion drops the question at index
func (d *Draft) RemoveQuestion(index int) error {
	if index < 0 || index >= len(d.questions) {
		return ErrQuestionIndex().
			WithDetail("index", index).
			WithDetail("questions", len(d.questions))
	}
	d.questions = slices.Delete(d.questions, index, index+1)
	return nil
}

// Reset returns the draft to a blank new assessment
func (d *Draft) Reset() {
	*d = Draft{questions: []string{}}
}

// CreateRequest converts the draft for a new assessment
func (d *Draft) CreateRequest() CreateAssessmentRequest {
	return CreateAssessmentRequest{
		JobID:     d.jobID,
		Title:     d.title,
		Questions: d.Questions(),
	}
}

// UpdateRequest converts the draft into a full replacement of the edited
// assessment
func (d *Draft) UpdateRequest() UpdateAssessmentRequest {
	jobID, title, questions := d.jobID, d.title, d.Questions()
	return UpdateAssessmentRequest{
		JobID:     &jobID,
		Title:     &title,
		Questions: &questions,
	}
}

// View renders the draft under its session id
func (d *Draft) View(id string) DraftView {
	v := DraftView{
		ID:        id,
		JobID:     d.jobID,
		Title:     d.title,
		Questions: d.Questions(),
	}
	if editing, ok := d.Editing(); ok {
		v.Editing = &editing
	}
	return v
}
