package kernel

type JobTitle string

type JobDescription string

type JobLocation string

// JobSalary is free text ("100k", "negotiable").
type JobSalary string

type CandidateName string

// ApplicationDate is kept as the date string the form submitted (YYYY-MM-DD).
type ApplicationDate string

// ResumeURL is an opaque external link; it is never fetched or validated.
type ResumeURL string

type AssessmentTitle string

// CollectionName identifies one persisted collection in the key-value store.
type CollectionName string

const (
	CollectionJobs        CollectionName = "jobs"
	CollectionCandidates  CollectionName = "candidates"
	CollectionAssessments CollectionName = "assessments"
)

func (c CollectionName) String() string { return string(c) }

// Collections lists every collection the service persists.
func Collections() []CollectionName {
	return []CollectionName{CollectionJobs, CollectionCandidates, CollectionAssessments}
}

// UnknownJobTitle is shown wherever a job reference cannot be resolved.
const UnknownJobTitle JobTitle = "N/A"
