package candidate

import (
	"net/http"

	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
)

var ErrRegistry = errx.NewRegistry("CANDIDATE")

// Error codes
var (
	CodeCandidateNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Candidate not found")
	CodeInvalidStatus     = ErrRegistry.Register("INVALID_STATUS", errx.TypeValidation, http.StatusBadRequest, "Invalid candidate status")
	CodeInvalidID         = ErrRegistry.Register("INVALID_ID", errx.TypeValidation, http.StatusBadRequest, "Candidate id must be an integer")
	CodeInvalidJobID      = ErrRegistry.Register("INVALID_JOB_ID", errx.TypeValidation, http.StatusBadRequest, "jobId must be an integer")
	CodeJobNotFound       = ErrRegistry.Register("JOB_NOT_FOUND", errx.TypeBusiness, http.StatusUnprocessableEntity, "Candidate references a job that does not exist")
)

// Helper functions
func ErrCandidateNotFound() *errx.Error {
	return ErrRegistry.New(CodeCandidateNotFound)
}

func ErrInvalidStatus() *errx.Error {
	return ErrRegistry.New(CodeInvalidStatus)
}

func ErrInvalidID() *errx.Error {
	return ErrRegistry.New(CodeInvalidID)
}

func ErrInvalidJobID() *errx.Error {
	return ErrRegistry.New(CodeInvalidJobID)
}

func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}
