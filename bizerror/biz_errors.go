package bizerror

import (
	"errors"
	"net/http"
	"strings"
)

var ErrUnauthenticated = errors.New("unauthenticated")
var ErrForbidden = errors.New("forbidden")
var ErrReferenceNotFound = errors.New("referenced record not found")
var ErrConcurrentModification = errors.New("concurrent modification")
var ErrAllocationFailure = errors.New("sequence allocation failure")
var ErrUnknownState = errors.New("unknown state")
var ErrChildTypeNotPermitted = errors.New("child type not permitted")
var ErrTypeIsReferenced = errors.New("type is referenced")
var ErrStateCategoryInvalid = errors.New("state category invalid")

type BizError interface {
	Respond() *BizErrorDetail
}

type BizErrorDetail struct {
	Status  int
	Code    string
	Message string

	Data  interface{}
	Cause error
}

type FieldFailure struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationFailed carries every failing field of a validation pass, not only the first.
type ValidationFailed struct {
	Failures []FieldFailure
}

func (e *ValidationFailed) Error() string {
	messages := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		messages = append(messages, f.Message)
	}
	return "validation failed: " + strings.Join(messages, "; ")
}

func (e *ValidationFailed) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.validation_failed",
		Message: "validation failed", Data: e.Failures}
}

type IllegalTransition struct {
	Subject    string
	FromStatus string
	ToStatus   string
}

func (e *IllegalTransition) Error() string {
	return "illegal transition of " + e.Subject + " from " + e.FromStatus + " to " + e.ToStatus
}

func (e *IllegalTransition) Respond() *BizErrorDetail {
	return &BizErrorDetail{Status: http.StatusConflict, Code: "workflow.illegal_transition",
		Message: e.Error(), Data: nil}
}

type ErrBadParam struct {
	Cause error
}

func (e *ErrBadParam) Unwrap() error {
	return e.Cause
}

func (e *ErrBadParam) Error() string {
	if e.Cause != nil {
		return e.Cause.Error()
	}
	return "common.bad_param"
}

func (e *ErrBadParam) Respond() *BizErrorDetail {
	message := "common.bad_param"
	if e.Cause != nil {
		message = e.Cause.Error()
	}
	return &BizErrorDetail{Status: http.StatusBadRequest, Code: "common.bad_param", Message: message}
}
