package domain

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyClaimed    = errors.New("job already claimed")
	ErrInvalidTransition = errors.New("invalid job status transition")
)

// FetchError means the source could not be retrieved.
type FetchError struct {
	URL string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ProbeError means metadata could not be obtained or lacks dimensions.
type ProbeError struct {
	Path string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %v", e.Path, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// StepError wraps a failure to decode the step at Index.
type StepError struct {
	Index int
	Token string
	Err   error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (%q): %v", e.Index, e.Token, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// ExecutionError carries the tool's diagnostic output for a failed step.
type ExecutionError struct {
	StepIndex   int
	Kind        string
	Diagnostics string
	Err         error
}

func (e *ExecutionError) Error() string {
	if e.StepIndex < 0 {
		return fmt.Sprintf("%s failed: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("step %d (%s) failed: %v", e.StepIndex, e.Kind, e.Err)
}

func (e *ExecutionError) Unwrap() error { return e.Err }

type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

// NotificationError is logged by reporters and never changes job state.
type NotificationError struct {
	Target string
	Err    error
}

func (e *NotificationError) Error() string {
	return fmt.Sprintf("notify %s: %v", e.Target, e.Err)
}

func (e *NotificationError) Unwrap() error { return e.Err }
