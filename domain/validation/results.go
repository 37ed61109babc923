package validation

import "corework/bizerror"

// Result is the tagged outcome of one check: either the validated field name
// or a human readable message naming the offending field.
type Result struct {
	Field   string `json:"field"`
	Message string `json:"message,omitempty"`
	Passed  bool   `json:"passed"`
}

func Success(field string) Result {
	return Result{Field: field, Passed: true}
}

func Failure(field, message string) Result {
	return Result{Field: field, Message: message, Passed: false}
}

// Results aggregates every check of a validation pass. A single failing check
// never short-circuits the rest: callers collect all of them, then ask Error().
type Results []Result

func (r Results) Passed() bool {
	for _, result := range r {
		if !result.Passed {
			return false
		}
	}
	return true
}

func (r Results) Failures() []Result {
	failures := []Result{}
	for _, result := range r {
		if !result.Passed {
			failures = append(failures, result)
		}
	}
	return failures
}

// Error converts the aggregate into a ValidationFailed carrying every failure,
// or nil when all checks passed.
func (r Results) Error() error {
	failures := r.Failures()
	if len(failures) == 0 {
		return nil
	}
	fieldFailures := make([]bizerror.FieldFailure, 0, len(failures))
	for _, f := range failures {
		fieldFailures = append(fieldFailures, bizerror.FieldFailure{Field: f.Field, Message: f.Message})
	}
	return &bizerror.ValidationFailed{Failures: fieldFailures}
}
