package client

import (
	"errors"
	"fmt"
)

// ErrCodeThroughputExceeded is the service code for a throughput-throttling
// rejection, which the retry policy treats differently from server faults.
const ErrCodeThroughputExceeded = "ProvisionedThroughputExceededException"

// ErrMissingCredentials is returned when a call is made with no credentials
// configured.
var ErrMissingCredentials = errors.New("wicker: no credentials configured")

// ServiceError is a failure classified from a store response. It retains
// enough structure for callers to distinguish throttling from genuine
// faults and from client-side misuse.
type ServiceError struct {
	// StatusCode is the HTTP status of the response.
	StatusCode int

	// Code is the short service error code: the substring after the last
	// '#' of the namespaced __type field.
	Code string

	// Message is the human-readable message from the response body.
	Message string

	// RequestID is the service-issued correlation id, when present.
	RequestID string
}

func (e *ServiceError) Error() string {
	if e.RequestID != "" {
		return fmt.Sprintf("wicker: %s: %s (status %d, request id %s)", e.Code, e.Message, e.StatusCode, e.RequestID)
	}
	return fmt.Sprintf("wicker: %s: %s (status %d)", e.Code, e.Message, e.StatusCode)
}

// ServerFault reports whether the failure is a retryable store-side fault.
func (e *ServiceError) ServerFault() bool {
	return e.StatusCode == 500 || e.StatusCode == 503
}

// Throttled reports whether the failure is a throughput-throttling
// rejection.
func (e *ServiceError) Throttled() bool {
	return e.StatusCode == 400 && e.Code == ErrCodeThroughputExceeded
}
