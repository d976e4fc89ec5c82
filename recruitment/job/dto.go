package job

import (
	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
)

// CreateJobRequest - DTO for creating a new job
type CreateJobRequest struct {
	Title       kernel.JobTitle       `json:"title" yaml:"title" validate:"required"`
	Description kernel.JobDescription `json:"description" yaml:"description"`
	Location    kernel.JobLocation    `json:"location" yaml:"location"`
	Salary      kernel.JobSalary      `json:"salary" yaml:"salary"`
}

// UpdateJobRequest - DTO for updating an existing job. Absent fields keep
// their current value.
type UpdateJobRequest struct {
	Title       *kernel.JobTitle       `json:"title,omitempty" validate:"omitnil,min=1"`
	Description *kernel.JobDescription `json:"description,omitempty"`
	Location    *kernel.JobLocation    `json:"location,omitempty"`
	Salary      *kernel.JobSalary      `json:"salary,omitempty"`
}

// ListJobsResponse - DTO for returning the job list
type ListJobsResponse struct {
	Jobs  []Job `json:"jobs"`
	Total int   `json:"total"`
}
