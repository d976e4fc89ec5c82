package kernel

import (
	"strconv"
	"sync"
	"time"
)

type JobID int64

func NewJobID() JobID          { return JobID(nextID()) }
func (r JobID) String() string { return strconv.FormatInt(int64(r), 10) }
func (r JobID) IsEmpty() bool  { return r == 0 }

func ParseJobID(s string) (JobID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	return JobID(id), err
}

type CandidateID int64

func NewCandidateID() CandidateID    { return CandidateID(nextID()) }
func (r CandidateID) String() string { return strconv.FormatInt(int64(r), 10) }
func (r CandidateID) IsEmpty() bool  { return r == 0 }

func ParseCandidateID(s string) (CandidateID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	return CandidateID(id), err
}

type AssessmentID int64

func NewAssessmentID() AssessmentID   { return AssessmentID(nextID()) }
func (r AssessmentID) String() string { return strconv.FormatInt(int64(r), 10) }
func (r AssessmentID) IsEmpty() bool  { return r == 0 }

func ParseAssessmentID(s string) (AssessmentID, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	return AssessmentID(id), err
}

// ============================================================================
// Timestamp ids
// ============================================================================

var (
	idMu   sync.Mutex
	lastID int64
	nowMs  = func() int64 { return time.Now().UnixMilli() }
)

// nextID returns the current unix time in milliseconds, bumped past the last
// issued id so that two records created in the same tick never collide.
func nextID() int64 {
	idMu.Lock()
	defer idMu.Unlock()

	id := nowMs()
	if id <= lastID {
		id = lastID + 1
	}
	lastID = id
	return id
}
