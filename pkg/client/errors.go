package client

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors returned by the client.
var (
	// ErrRetryExhausted is returned when all retry attempts are exhausted.
	ErrRetryExhausted = errors.New("retry attempts exhausted")

	// ErrContextCancelled is returned when the context is cancelled during retry.
	ErrContextCancelled = errors.New("context cancelled")
)

// ErrorClass represents a classification of request failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors other than 503.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassUnavailable represents 503 answers, e.g. a storage outage.
	ErrorClassUnavailable ErrorClass = "unavailable"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// classificationRetryable is the error body classification of transient failures.
const (
	classificationRetryable = "RETRYABLE"
	classificationPermanent = "PERMANENT"
)

// APIError is a failed request: either a non-2xx answer or a transport
// failure (StatusCode 0).
type APIError struct {
	StatusCode int
	ErrorClass ErrorClass

	// Code, Message and Classification come from the error body, when present.
	Code           string
	Message        string
	Classification string

	Err error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("homepage api %s error (status %d): %s: %v",
			e.ErrorClass, e.StatusCode, e.Message, e.Err)
	}
	if e.Code != "" {
		return fmt.Sprintf("homepage api %s error (status %d): %s: %s",
			e.ErrorClass, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("homepage api %s error (status %d): %s",
		e.ErrorClass, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}

// Retryable reports whether repeating the request may succeed. A
// classification in the error body wins over the status class.
func (e *APIError) Retryable() bool {
	switch e.Classification {
	case classificationRetryable:
		return true
	case classificationPermanent:
		return false
	}
	return shouldRetry(e.ErrorClass)
}

// classifyStatus maps an HTTP status to an error class.
func classifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusServiceUnavailable:
		return ErrorClassUnavailable
	case status >= 500:
		return ErrorClassServer
	case status >= 400:
		return ErrorClassClient
	default:
		return ""
	}
}

// shouldRetry determines if an error should be retried based on its classification.
func shouldRetry(errorClass ErrorClass) bool {
	switch errorClass {
	case ErrorClassServer, ErrorClassUnavailable, ErrorClassNetwork:
		return true
	default:
		// 4xx answers are deterministic rejections
		return false
	}
}

// errorClassOf returns the class of err, or "" for errors not produced by a
// request, such as a cancelled context.
func errorClassOf(err error) ErrorClass {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorClass
	}
	return ""
}

func isRetryable(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Retryable()
}

// StatusCode returns the HTTP status of a failed request, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether the server answered 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsForbidden reports whether the caller does not own the resource.
func IsForbidden(err error) bool {
	return StatusCode(err) == http.StatusForbidden
}
