package candidate

import (
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
)

// CreateCandidateRequest - DTO for adding a candidate to a job
type CreateCandidateRequest struct {
	JobID           kernel.JobID           `json:"jobId" validate:"required"`
	Name            kernel.CandidateName   `json:"name" validate:"required"`
	ApplicationDate kernel.ApplicationDate `json:"applicationDate"`
	ResumeURL       kernel.ResumeURL       `json:"resumeUrl"`
	Status          Status                 `json:"status,omitempty"`
}

// UpdateStatusRequest - DTO for moving a candidate to another stage
type UpdateStatusRequest struct {
	Status Status `json:"status" validate:"required"`
}

// ListCandidatesResponse - DTO for returning candidates, optionally scoped
// to one job
type ListCandidatesResponse struct {
	JobID      kernel.JobID    `json:"jobId,omitempty"`
	JobTitle   kernel.JobTitle `json:"jobTitle,omitempty"`
	Candidates []Candidate     `json:"candidates"`
	Total      int             `json:"total"`
}
