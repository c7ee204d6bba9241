package report

import (
	"errors"
	"fmt"
)

// ErrSubmitInProgress is returned when a draft is submitted again while
// an earlier submission of it is still running.
var ErrSubmitInProgress = errors.New("this report is already being submitted")

// ValidationError is a problem with the form itself. It is always
// detected before any network call is made.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// Stage names the step of a submission that failed.
type Stage string

const (
	StageUpload  Stage = "upload"
	StagePersist Stage = "persist"
	StageMatch   Stage = "match"
)

// StageError wraps the failure of one submission step. The submission is
// abandoned at that point; the user may submit again.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	switch e.Stage {
	case StageUpload:
		return fmt.Sprintf("Photo upload failed: %v", e.Err)
	case StagePersist:
		return fmt.Sprintf("Saving the report failed: %v", e.Err)
	case StageMatch:
		return fmt.Sprintf("Matching failed: %v", e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
