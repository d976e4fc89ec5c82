package job

import (
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
)

// Job is a posting as persisted in the jobs collection.
type Job struct {
	ID          kernel.JobID          `json:"id"`
	Title       kernel.JobTitle       `json:"title"`
	Description kernel.JobDescription `json:"description"`
	Location    kernel.JobLocation    `json:"location"`
	Salary      kernel.JobSalary      `json:"salary"`

	// Candidates is a display counter. It starts at zero and is never
	// recalculated from the candidates collection.
	Candidates int `json:"candidates"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// New builds a job with a fresh id and a zero candidate counter.
func New(req CreateJobRequest) Job {
	return Job{
		ID:          kernel.NewJobID(),
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Salary:      req.Salary,
		Candidates:  0,
	}
}

// Apply overwrites the editable fields present in req. ID and Candidates are
// never touched.
func (j *Job) Apply(req UpdateJobRequest) {
	if req.Title != nil {
		j.Title = *req.Title
	}
	if req.Description != nil {
		j.Description = *req.Description
	}
	if req.Location != nil {
		j.Location = *req.Location
	}
	if req.Salary != nil {
		j.Salary = *req.Salary
	}
}

// DisplayTitle returns the title, or the placeholder when it is blank.
func (j *Job) DisplayTitle() kernel.JobTitle {
	if j == nil || j.Title == "" {
		return kernel.UnknownJobTitle
	}
	return j.Title
}
