package domain

import (
	"errors"
	"fmt"
)

// ValidationError carries a stable code plus the offending payload fragment.
// Details are echoed verbatim to the client.
type ValidationError struct {
	Code    string
	Msg     string
	Details map[string]any
	Err     error
}

func (e ValidationError) Error() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Code != "":
		return fmt.Sprintf("validation failed: %s", e.Code)
	default:
		return "validation error"
	}
}

func (e ValidationError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Resource string
	ID       string
	Err      error
}

func (e NotFoundError) Error() string {
	switch {
	case e.Resource == "":
		return "not found"
	case e.ID == "":
		return fmt.Sprintf("%s not found", e.Resource)
	default:
		return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
	}
}

func (e NotFoundError) Unwrap() error { return e.Err }

type ConflictError struct {
	Code     string
	Resource string
	Msg      string
	Err      error
}

func (e ConflictError) Error() string {
	switch {
	case e.Msg != "" && e.Resource != "":
		return fmt.Sprintf("%s conflict: %s", e.Resource, e.Msg)
	case e.Msg != "":
		return e.Msg
	case e.Resource != "":
		return fmt.Sprintf("%s conflict", e.Resource)
	default:
		return "conflict"
	}
}

func (e ConflictError) Unwrap() error { return e.Err }

// DocumentIOError reports a read or write failure on a persisted document.
// Parse failures on read never surface as this error.
type DocumentIOError struct {
	Document string
	Op       string
	Err      error
}

func (e DocumentIOError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("document %s: %s failed", e.Document, e.Op)
	}
	return fmt.Sprintf("document %s: %s failed: %v", e.Document, e.Op, e.Err)
}

func (e DocumentIOError) Unwrap() error { return e.Err }

type InternalError struct {
	Msg string
	Err error
}

func (e InternalError) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	return "internal error"
}

func (e InternalError) Unwrap() error { return e.Err }

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsDocumentIO(err error) bool {
	var target DocumentIOError
	return errors.As(err, &target)
}

func IsInternal(err error) bool {
	var target InternalError
	return errors.As(err, &target)
}
