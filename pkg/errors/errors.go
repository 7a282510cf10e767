package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// Kind tags an application error with one of the fault classes the API reports.
type Kind int

const (
	// KindUnknown is any error that carries no tag
	KindUnknown Kind = iota
	// KindValidation is a missing or empty required field
	KindValidation
	// KindNotFound is a lookup of an identifier with no matching record
	KindNotFound
	// KindCommit is a storage failure while persisting a write
	KindCommit
	// KindRead is a storage failure while reading
	KindRead
)

// String returns the name of the kind
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindCommit:
		return "commit"
	case KindRead:
		return "read"
	default:
		return "unknown"
	}
}

// HTTPStatuser is implemented by errors that know their HTTP status code
type HTTPStatuser interface {
	HTTPStatus() int
}

// ValidationError represents a request that failed the presence checks
type ValidationError struct {
	Message string
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	return e.Message
}

// HTTPStatus returns 400
func (e *ValidationError) HTTPStatus() int {
	return http.StatusBadRequest
}

// NotFoundError represents a resource not found error
type NotFoundError struct {
	Resource string
	Message  string
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(resource, message string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		Message:  message,
	}
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

// HTTPStatus returns 404
func (e *NotFoundError) HTTPStatus() int {
	return http.StatusNotFound
}

// CommitError represents a write that could not be committed and was rolled back.
// The message embeds the raw storage error.
type CommitError struct {
	Message string
	Err     error
}

// NewCommitError creates a new commit error
func NewCommitError(message string, err error) *CommitError {
	return &CommitError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *CommitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *CommitError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns 400
func (e *CommitError) HTTPStatus() int {
	return http.StatusBadRequest
}

// ReadError represents a storage read failure
type ReadError struct {
	Message string
	Err     error
}

// NewReadError creates a new read error
func NewReadError(message string, err error) *ReadError {
	return &ReadError{
		Message: message,
		Err:     err,
	}
}

// Error implements the error interface
func (e *ReadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *ReadError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns 500
func (e *ReadError) HTTPStatus() int {
	return http.StatusInternalServerError
}

// KindOf reports the tag of err, looking through wrapped errors.
func KindOf(err error) Kind {
	var (
		validationErr *ValidationError
		notFoundErr   *NotFoundError
		commitErr     *CommitError
		readErr       *ReadError
	)

	switch {
	case err == nil:
		return KindUnknown
	case stderrors.As(err, &validationErr):
		return KindValidation
	case stderrors.As(err, &notFoundErr):
		return KindNotFound
	case stderrors.As(err, &commitErr):
		return KindCommit
	case stderrors.As(err, &readErr):
		return KindRead
	default:
		return KindUnknown
	}
}

// StatusOf returns the HTTP status for err, defaulting to 500 for untagged errors.
func StatusOf(err error) int {
	var statuser HTTPStatuser
	if stderrors.As(err, &statuser) {
		return statuser.HTTPStatus()
	}
	return http.StatusInternalServerError
}
