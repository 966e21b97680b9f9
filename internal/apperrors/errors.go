// Package apperrors defines the error kinds shared by the project and tag
// services and maps them onto HTTP semantics.
//
// Every kind is a structured error from github.com/jmgilman/go/errors, so the
// code and the retryable/permanent classification survive %w wrapping.
package apperrors

import (
	"net/http"

	platformerrors "github.com/jmgilman/go/errors"
)

// Error codes used by this service.
const (
	CodeNotFound           = platformerrors.CodeNotFound
	CodeOwnershipViolation = platformerrors.CodeForbidden
	CodeValidation         = platformerrors.CodeInvalidInput
	CodeStorageUnavailable = platformerrors.CodeUnavailable
	CodeUnauthenticated    = platformerrors.CodeUnauthorized
	CodeStorageFailure     = platformerrors.CodeInternal
)

// NotFound reports that a referenced project or tag does not exist.
func NotFound(format string, args ...any) error {
	return platformerrors.Newf(CodeNotFound, format, args...)
}

// OwnershipViolation reports that the caller does not own the resource.
func OwnershipViolation(format string, args ...any) error {
	return platformerrors.Newf(CodeOwnershipViolation, format, args...)
}

// Validation reports empty or malformed input.
func Validation(format string, args ...any) error {
	return platformerrors.Newf(CodeValidation, format, args...)
}

// Unauthenticated reports a mutating request without a verified user.
func Unauthenticated(message string) error {
	return platformerrors.New(CodeUnauthenticated, message)
}

// StorageUnavailable wraps a backend failure. The result is retryable.
func StorageUnavailable(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return platformerrors.Wrapf(err, CodeStorageUnavailable, format, args...)
}

// StorageFailure wraps a backend failure that a retry will not fix, such as
// a malformed statement or an unreadable row.
func StorageFailure(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return platformerrors.Wrapf(err, CodeStorageFailure, format, args...)
}

// Code returns the code carried by err, or CodeUnknown.
func Code(err error) platformerrors.ErrorCode {
	return platformerrors.GetCode(err)
}

func IsNotFound(err error) bool {
	return err != nil && Code(err) == CodeNotFound
}

func IsOwnershipViolation(err error) bool {
	return err != nil && Code(err) == CodeOwnershipViolation
}

func IsValidation(err error) bool {
	return err != nil && Code(err) == CodeValidation
}

func IsStorageUnavailable(err error) bool {
	return err != nil && Code(err) == CodeStorageUnavailable
}

func IsStorageFailure(err error) bool {
	return err != nil && Code(err) == CodeStorageFailure
}

// IsRetryable reports whether the same operation may succeed when retried.
func IsRetryable(err error) bool {
	return platformerrors.IsRetryable(err)
}

// HTTPStatus maps an error to the status the dispatcher should answer with.
func HTTPStatus(err error) int {
	switch Code(err) {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeOwnershipViolation:
		return http.StatusForbidden
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeStorageUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Body renders err as the JSON error document returned to API callers.
func Body(err error) *platformerrors.ErrorResponse {
	return platformerrors.ToJSON(err)
}
