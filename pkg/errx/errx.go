// Package errx provides registry-backed, typed application errors that carry
// an HTTP status and structured details.
package errx

import (
	"errors"
	"fmt"
	"net/http"
	"sync"
)

// Type classifies an error independently of its code.
type Type string

const (
	TypeValidation    Type = "VALIDATION"
	TypeNotFound      Type = "NOT_FOUND"
	TypeConflict      Type = "CONFLICT"
	TypeBusiness      Type = "BUSINESS"
	TypeAuthorization Type = "AUTHORIZATION"
	TypeInternal      Type = "INTERNAL"
	TypeExternal      Type = "EXTERNAL"
)

// Code is a fully qualified error code such as "JOB.NOT_FOUND".
type Code string

// Error is the application error returned across package boundaries.
type Error struct {
	Code       Code           `json:"code"`
	Type       Type           `json:"type"`
	Message    string         `json:"message"`
	HTTPStatus int            `json:"-"`
	Details    map[string]any `json:"details,omitempty"`
	Cause      error          `json:"-"`
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithDetail attaches a key/value detail and returns the same error.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// WithCause records the underlying error.
func (e *Error) WithCause(err error) *Error {
	e.Cause = err
	return e
}

// HTTPResponse is the JSON body rendered for an Error.
type HTTPResponse struct {
	Error   string         `json:"error"`
	Type    Type           `json:"type"`
	Code    Code           `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func (e *Error) ToHTTPResponse() HTTPResponse {
	return HTTPResponse{
		Error:   http.StatusText(e.HTTPStatus),
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	}
}

// ============================================================================
// Registry
// ============================================================================

type definition struct {
	typ     Type
	status  int
	message string
}

// Registry holds the error codes of one domain, prefixed by its namespace.
type Registry struct {
	namespace string
	mu        sync.RWMutex
	defs      map[Code]definition
}

func NewRegistry(namespace string) *Registry {
	return &Registry{
		namespace: namespace,
		defs:      make(map[Code]definition),
	}
}

// Register defines a code in the registry. Registering the same key twice
// panics, since codes are declared once at package init.
func (r *Registry) Register(key string, typ Type, httpStatus int, message string) Code {
	code := Code(r.namespace + "." + key)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.defs[code]; exists {
		panic(fmt.Sprintf("errx: duplicate code %s", code))
	}
	r.defs[code] = definition{typ: typ, status: httpStatus, message: message}
	return code
}

// New builds a fresh Error for a registered code.
func (r *Registry) New(code Code) *Error {
	r.mu.RLock()
	def, ok := r.defs[code]
	r.mu.RUnlock()
	if !ok {
		return &Error{
			Code:       code,
			Type:       TypeInternal,
			Message:    "unregistered error code",
			HTTPStatus: http.StatusInternalServerError,
		}
	}
	return &Error{
		Code:       code,
		Type:       def.typ,
		Message:    def.message,
		HTTPStatus: def.status,
	}
}

// ============================================================================
// Helpers
// ============================================================================

var statusByType = map[Type]int{
	TypeValidation:    http.StatusBadRequest,
	TypeNotFound:      http.StatusNotFound,
	TypeConflict:      http.StatusConflict,
	TypeBusiness:      http.StatusUnprocessableEntity,
	TypeAuthorization: http.StatusForbidden,
	TypeInternal:      http.StatusInternalServerError,
	TypeExternal:      http.StatusBadGateway,
}

// Wrap turns any error into an *Error. Errors that already are *Error keep
// their code and gain the message as a detail.
func Wrap(err error, message string, typ Type) *Error {
	if err == nil {
		return nil
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.WithDetail("context", message)
	}
	status, ok := statusByType[typ]
	if !ok {
		status = http.StatusInternalServerError
	}
	return &Error{
		Code:       Code(string(typ) + "_ERROR"),
		Type:       typ,
		Message:    message,
		HTTPStatus: status,
		Cause:      err,
	}
}

// IsType reports whether err is an *Error of the given type.
func IsType(err error, typ Type) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Type == typ
	}
	return false
}

// IsCode reports whether err is an *Error carrying code.
func IsCode(err error, code Code) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
