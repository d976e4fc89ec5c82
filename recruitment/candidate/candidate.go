package candidate

import (
	"strings"

	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
)

// Status is the hiring stage of a candidate
type Status string

const (
	StatusUnderReview        Status = "Under Review"
	StatusInterviewScheduled Status = "Interview Scheduled"
	StatusOfferExtended      Status = "Offer Extended"
	StatusRejected           Status = "Rejected"
)

// Statuses lists every status in pipeline order
func Statuses() []Status {
	return []Status{StatusUnderReview, StatusInterviewScheduled, StatusOfferExtended, StatusRejected}
}

func (s Status) IsValid() bool {
	switch s {
	case StatusUnderReview, StatusInterviewScheduled, StatusOfferExtended, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string { return string(s) }

// ParseStatus matches a status name ignoring case and surrounding spaces
func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range Statuses() {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", ErrInvalidStatus().WithDetail("status", s)
}

// Candidate is an applicant for one job, as persisted in the candidates
// collection.
type Candidate struct {
	ID              kernel.CandidateID     `json:"id"`
	JobID           kernel.JobID           `json:"jobId"`
	Name            kernel.CandidateName   `json:"name"`
	ApplicationDate kernel.ApplicationDate `json:"applicationDate"`
	ResumeURL       kernel.ResumeURL       `json:"resumeUrl"`
	Status          Status                 `json:"status"`
}

// ============================================================================
// Domain Methods
// ============================================================================

// New builds a candidate with a fresh id. A missing status defaults to
// StatusUnderReview.
func New(req CreateCandidateRequest) (Candidate, error) {
	status := StatusUnderReview
	if req.Status != "" {
		parsed, err := ParseStatus(string(req.Status))
		if err != nil {
			return Candidate{}, err
		}
		status = parsed
	}

	return Candidate{
		ID:              kernel.NewCandidateID(),
		JobID:           req.JobID,
		Name:            req.Name,
		ApplicationDate: req.ApplicationDate,
		ResumeURL:       req.ResumeURL,
		Status:          status,
	}, nil
}

// AppliedTo reports whether the candidate belongs to jobID
func (c *Candidate) AppliedTo(jobID kernel.JobID) bool {
	return c.JobID == jobID
}
