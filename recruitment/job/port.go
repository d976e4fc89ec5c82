package job

import (
	"context"
	"strings"

	"github.com/Shashank26122003/entnt-assignment/pkg/kernel"
)

// Lookup resolves job references for the other managers.
type Lookup interface {
	// Exists reports whether a job with id is persisted
	Exists(ctx context.Context, id kernel.JobID) (bool, error)

	// Title returns the job title, or the placeholder title and false when
	// the job cannot be found
	Title(ctx context.Context, id kernel.JobID) (kernel.JobTitle, bool)
}

// Dependent is a collection whose records reference jobs by id.
type Dependent interface {
	// Collection names the dependent collection, used in error details
	Collection() kernel.CollectionName

	// CountByJob counts records referencing jobID
	CountByJob(ctx context.Context, jobID kernel.JobID) (int, error)

	// DeleteByJob removes records referencing jobID and returns how many
	// were removed
	DeleteByJob(ctx context.Context, jobID kernel.JobID) (int, error)
}

// DeletePolicy decides what happens to dependents when a job is deleted.
type DeletePolicy string

const (
	// DeletePolicyOrphan leaves dependents in place with a dangling jobId
	DeletePolicyOrphan DeletePolicy = "orphan"
	// DeletePolicyRestrict refuses to delete a job that still has dependents
	DeletePolicyRestrict DeletePolicy = "restrict"
	// DeletePolicyCascade deletes dependents together with the job
	DeletePolicyCascade DeletePolicy = "cascade"
)

func (p DeletePolicy) IsValid() bool {
	switch p {
	case DeletePolicyOrphan, DeletePolicyRestrict, DeletePolicyCascade:
		return true
	}
	return false
}

// ParseDeletePolicy accepts a policy name case-insensitively. The empty
// string selects DeletePolicyOrphan.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return DeletePolicyOrphan, nil
	}
	p := DeletePolicy(s)
	if !p.IsValid() {
		return "", ErrInvalidDeletePolicy().WithDetail("policy", s)
	}
	return p, nil
}
