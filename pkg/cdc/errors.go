package cdc

import "fmt"

// NoResponseError means the request never produced a response: the
// connection was refused, the host did not resolve, or the request timed out.
type NoResponseError struct {
	Endpoint string
	Err      error
}

func (e *NoResponseError) Error() string {
	return "No response from " + e.Endpoint
}

func (e *NoResponseError) Unwrap() error {
	return e.Err
}

// StatusError means the service answered with an error status that the
// contract did not expect.
type StatusError struct {
	Expected int
	Actual   int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("Expected status %d but received %d", e.Expected, e.Actual)
}
