// pkg/common/errors/errors.go

/*
  - Usage
    // handler side: hand the failure to the error chain and return
    c.Error(errors.NotFound("no startup of this id"))

    // boundary side: classify whatever reached the end of the chain
    status := errors.StatusOf(errors.Last(c.Errors))
*/
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	hzte "github.com/cloudwego/hertz/pkg/common/errors"
)

// Kind classifies a failure for the HTTP boundary.
type Kind int

const (
	KindUnexpected Kind = iota
	KindUnauthorized
	KindForbidden
	KindNotFound
	KindValidation
	KindConflict
	KindInternalConfig
)

func (k Kind) String() string {
	switch k {
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindNotFound:
		return "not_found"
	case KindValidation:
		return "validation_failure"
	case KindConflict:
		return "conflict"
	case KindInternalConfig:
		return "internal_config"
	default:
		return "unexpected"
	}
}

var kindStatusMap = map[Kind]int{
	KindUnauthorized:   http.StatusUnauthorized,
	KindForbidden:      http.StatusForbidden,
	KindNotFound:       http.StatusNotFound,
	KindValidation:     http.StatusBadRequest,
	KindConflict:       http.StatusConflict,
	KindInternalConfig: http.StatusInternalServerError,
	KindUnexpected:     http.StatusInternalServerError,
}

// Violation is a single failed constraint on an input field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError is the error type every layer hands to the HTTP boundary.
type AppError struct {
	Kind       Kind
	Message    string
	Fields     []string    // conflicting fields, KindConflict only
	Violations []Violation // KindValidation only
	Err        error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on Kind so callers can write errors.Is(err, errors.ErrNotFound).
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Message == "" && t.Kind == e.Kind
}

// Kind sentinels for errors.Is checks
var (
	ErrUnauthorized   = &AppError{Kind: KindUnauthorized}
	ErrForbidden      = &AppError{Kind: KindForbidden}
	ErrNotFound       = &AppError{Kind: KindNotFound}
	ErrValidation     = &AppError{Kind: KindValidation}
	ErrConflict       = &AppError{Kind: KindConflict}
	ErrInternalConfig = &AppError{Kind: KindInternalConfig}
)

func Unauthorized(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Kind: KindNotFound, Message: msg}
}

func InternalConfig(msg string) *AppError {
	return &AppError{Kind: KindInternalConfig, Message: msg}
}

// Validation builds a validation failure; the message names every offending field.
func Validation(violations []Violation) *AppError {
	fields := make([]string, 0, len(violations))
	for _, v := range violations {
		fields = append(fields, v.Field)
	}
	return &AppError{
		Kind:       KindValidation,
		Message:    "Invalid value for field(s): " + strings.Join(fields, ", "),
		Violations: violations,
	}
}

// Conflict builds a uniqueness violation naming the duplicated fields.
func Conflict(fields ...string) *AppError {
	return &AppError{
		Kind:    KindConflict,
		Message: "Duplicate value for field(s): " + strings.Join(fields, ", "),
		Fields:  fields,
	}
}

// Unexpected wraps a failure the boundary must not describe to clients.
func Unexpected(msg string, err error) *AppError {
	return &AppError{Kind: KindUnexpected, Message: msg, Err: err}
}

// As extracts the AppError carried by err, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf reports the Kind of err; unclassified errors are KindUnexpected.
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindUnexpected
}

// StatusOf maps err to an HTTP status code.
func StatusOf(err error) int {
	if status, ok := kindStatusMap[KindOf(err)]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Last returns the most recent error recorded on a Hertz error chain.
func Last(chain hzte.ErrorChain) error {
	last := chain.Last()
	if last == nil {
		return nil
	}
	return last.Err
}
