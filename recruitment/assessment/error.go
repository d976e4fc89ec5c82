package assessment

import (
	"net/http"

	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
)

// Error Registry
var ErrRegistry = errx.NewRegistry("ASSESSMENT")

// Error codes
var (
	CodeAssessmentNotFound = ErrRegistry.Register("NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Assessment not found")
	CodeJobRequired        = ErrRegistry.Register("JOB_REQUIRED", errx.TypeValidation, http.StatusBadRequest, "A job must be selected")
	CodeJobNotFound        = ErrRegistry.Register("JOB_NOT_FOUND", errx.TypeBusiness, http.StatusUnprocessableEntity, "Assessment references a job that does not exist")
	CodeEmptyQuestion      = ErrRegistry.Register("EMPTY_QUESTION", errx.TypeValidation, http.StatusBadRequest, "Question text must not be blank")
	CodeQuestionIndex      = ErrRegistry.Register("QUESTION_INDEX", errx.TypeValidation, http.StatusBadRequest, "Question index out of range")
	CodeInvalidID          = ErrRegistry.Register("INVALID_ID", errx.TypeValidation, http.StatusBadRequest, "Assessment id must be an integer")
	CodeDraftNotFound      = ErrRegistry.Register("DRAFT_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "Draft not found or expired")
	CodeDraftBusy          = ErrRegistry.Register("DRAFT_BUSY", errx.TypeConflict, http.StatusConflict, "Draft is being committed")
)

// Helper functions
func ErrAssessmentNotFound() *errx.Error {
	return ErrRegistry.New(CodeAssessmentNotFound)
}

func ErrJobRequired() *errx.Error {
	return ErrRegistry.New(CodeJobRequired)
}

func ErrJobNotFound() *errx.Error {
	return ErrRegistry.New(CodeJobNotFound)
}

func ErrEmptyQuestion() *errx.Error {
	return ErrRegistry.New(CodeEmptyQuestion)
}

func ErrQuestionIndex() *errx.Error {
	return ErrRegistry.New(CodeQuestionIndex)
}

func ErrInvalidID() *errx.Error {
	return ErrRegistry.New(CodeInvalidID)
}

func ErrDraftNotFound() *errx.Error {
	return ErrRegistry.New(CodeDraftNotFound)
}

func ErrDraftBusy() *errx.Error {
	return ErrRegistry.New(CodeDraftBusy)
}
