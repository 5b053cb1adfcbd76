package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a vault or item does not resolve for the owner.
	ErrNotFound = errors.New("not found")
	// ErrNotAuthenticated is returned when no owner identity is available.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrQuotaExceeded matches every *QuotaExceededError.
	ErrQuotaExceeded = errors.New("quota exceeded")
	// ErrTransient matches every *TransientError.
	ErrTransient = errors.New("transient io error")
	// ErrInvalidArgument matches every *ValidationError.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrPartialDelete matches every *PartialDeleteError.
	ErrPartialDelete = errors.New("partial delete failure")
	// ErrCaptureInProgress is returned when a recorder already has an open session.
	ErrCaptureInProgress = errors.New("capture already in progress")
	// ErrCaptureTimeout is returned when a capture outlived the wall-clock cap.
	ErrCaptureTimeout = errors.New("capture exceeded maximum duration")
	// ErrCaptureClosed is returned when a terminal session receives an event.
	ErrCaptureClosed = errors.New("capture session closed")
)

// QuotaExceededError reports an admission denial. No mutation happened.
type QuotaExceededError struct {
	Reason string
}

func (e *QuotaExceededError) Error() string {
	return fmt.Sprintf("quota exceeded: %s", e.Reason)
}

func (e *QuotaExceededError) Is(target error) bool {
	return target == ErrQuotaExceeded
}

// TransientError is a storage or network failure without a definitive outcome.
// Callers may retry with backoff; it must never be treated as success.
type TransientError struct {
	Op  string
	Err error
}

// NewTransientError wraps err as a transient failure of op.
func NewTransientError(op string, err error) *TransientError {
	return &TransientError{Op: op, Err: err}
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransientError) Unwrap() error {
	return e.Err
}

func (e *TransientError) Is(target error) bool {
	return target == ErrTransient
}

// ValidationError describes a rejected input field.
type ValidationError struct {
	Field  string
	Reason string
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidArgument
}

// BlobFailure is a single object-store key that could not be removed.
type BlobFailure struct {
	Key string
	Err error
}

// PartialDeleteError reports a delete that completed only partly.
//
// For vault deletes the vault row is gone and the error is a warning listing
// blobs that may still exist. For item deletes MetadataErr is set when the
// blob was removed but the row was not.
type PartialDeleteError struct {
	Failures    []BlobFailure
	ListErr     error
	MetadataErr error
}

// FailedKeys returns the keys that could not be removed.
func (e *PartialDeleteError) FailedKeys() []string {
	keys := make([]string, 0, len(e.Failures))
	for _, f := range e.Failures {
		keys = append(keys, f.Key)
	}
	return keys
}

func (e *PartialDeleteError) Error() string {
	var parts []string
	if len(e.Failures) > 0 {
		parts = append(parts, fmt.Sprintf("%d blob(s) not removed: %s", len(e.Failures), strings.Join(e.FailedKeys(), ", ")))
	}
	if e.ListErr != nil {
		parts = append(parts, fmt.Sprintf("listing failed: %v", e.ListErr))
	}
	if e.MetadataErr != nil {
		parts = append(parts, fmt.Sprintf("metadata not removed: %v", e.MetadataErr))
	}
	if len(parts) == 0 {
		return ErrPartialDelete.Error()
	}
	return fmt.Sprintf("%s: %s", ErrPartialDelete, strings.Join(parts, "; "))
}

func (e *PartialDeleteError) Is(target error) bool {
	return target == ErrPartialDelete
}

// Unwrap exposes the metadata failure so callers can classify it.
func (e *PartialDeleteError) Unwrap() error {
	return e.MetadataErr
}
