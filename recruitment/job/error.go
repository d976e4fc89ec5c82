package job

import (
	"net/http"

	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("JOB")

// Error codes
var (
	CodeJobNotFound          = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Job not found")
	CodeJobHasDependents     = ErrRegistry.Register("HAS_DEPENDENTS", errx.TypeBusiness, http.StatusConflict, "Cannot delete job referenced by candidates or assessments")
	CodeInvalidJobID         = ErrRegistry.Register("INVALID_ID", errx.TypeValidation, http.StatusBadRequest, "Job id must be an integer")
	CodeInvalidDeletePolicy  = ErrRegistry.Register("INVALID_DELETE_POLICY", errx.TypeValidation, http.StatusBadRequest, "Unknown job delete policy")
	CodeDependentCleanupFail = ErrRegistry.Register("DEPENDENT_CLEANUP_FAILED", errx.TypeInternal, http.StatusInternalServerError, "Job was deleted but its dependents could not be removed")
)

// Helper functions
func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrJobHasDependents() *errx.Error {
	return ErrRegistry.New(CodeJobHasDependents)
}

func ErrInvalidJobID() *errx.Error {
	return ErrRegistry.New(CodeInvalidJobID)
}

func ErrInvalidDeletePolicy() *errx.Error {
	return ErrRegistry.New(CodeInvalidDeletePolicy)
}

func ErrDependentCleanupFailed() *errx.Error {
	return ErrRegistry.New(CodeDependentCleanupFail)
}
