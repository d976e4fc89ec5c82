package assessment

import (
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
)

// CreateAssessmentRequest - DTO for creating an assessment. The title may be
// empty.
type CreateAssessmentRequest struct {
	JobID     kernel.JobID           `json:"jobId" yaml:"-"`
	Title     kernel.AssessmentTitle `json:"title" yaml:"title"`
	Questions []string               `json:"questions" yaml:"questions"`
}

// UpdateAssessmentRequest - DTO for updating an assessment. Absent fields
// keep their current value.
type UpdateAssessmentRequest struct {
	JobID     *kernel.JobID           `json:"jobId,omitempty"`
	Title     *kernel.AssessmentTitle `json:"title,omitempty"`
	Questions *[]string               `json:"questions,omitempty"`
}

// AssessmentView - DTO for an assessment card with its job resolved
type AssessmentView struct {
	ID            kernel.AssessmentID    `json:"id"`
	JobID         kernel.JobID           `json:"jobId"`
	JobTitle      kernel.JobTitle        `json:"jobTitle"`
	Title         kernel.AssessmentTitle `json:"title"`
	Questions     []string               `json:"questions"`
	QuestionCount int                    `json:"questionCount"`
}

// ListAssessmentsResponse - DTO for returning assessment cards
type ListAssessmentsResponse struct {
	Assessments []AssessmentView `json:"assessments"`
	Total       int              `json:"total"`
}

// DraftView - DTO for a staged assessment
type DraftView struct {
	ID        string                 `json:"draftId"`
	Editing   *kernel.AssessmentID   `json:"editing,omitempty"`
	JobID     kernel.JobID           `json:"jobId"`
	Title     kernel.AssessmentTitle `json:"title"`
	Questions []string               `json:"questions"`
}

// UpdateDraftRequest - DTO for changing the job or title of a draft
type UpdateDraftRequest struct {
	JobID *kernel.JobID           `json:"jobId,omitempty"`
	Title *kernel.AssessmentTitle `json:"title,omitempty"`
}

// AddQuestionRequest - DTO for staging a question
type AddQuestionRequest struct {
	Text string `json:"text"`
}
