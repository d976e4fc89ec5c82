// Package validatex checks request DTOs against their `validate` tags and
// reports failures as errx validation errors.
package validatex

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/Shashank26122003/entnt-assignment/pkg/errx"
	"github.com/go-playground/validator/v10"
)

var ErrRegistry = errx.NewRegistry("REQUEST")

var (
	CodeValidationFailed = ErrRegistry.Register("VALIDATION_FAILED", errx.TypeValidation, http.StatusBadRequest, "Request validation failed")
	CodeInvalidBody      = ErrRegistry.Register("INVALID_BODY", errx.TypeValidation, http.StatusBadRequest, "Request body could not be parsed")
)

func ErrValidationFailed() *errx.Error {
	return ErrRegistry.New(CodeValidationFailed)
}

func ErrInvalidBody() *errx.Error {
	return ErrRegistry.New(CodeInvalidBody)
}

var (
	once     sync.Once
	validate *validator.Validate
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		// Report fields by their JSON names.
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// Struct validates v. Failures come back as REQUEST.VALIDATION_FAILED with
// one detail per offending field, keyed by its JSON name.
func Struct(v any) error {
	err := instance().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errx.Wrap(err, "invalid request", errx.TypeValidation)
	}

	appErr := ErrValidationFailed()
	for _, fe := range fieldErrs {
		appErr.WithDetail(fe.Field(), fe.Tag())
	}
	return appErr
}
