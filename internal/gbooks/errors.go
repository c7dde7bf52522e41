package gbooks

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when the response body is empty
	ErrNoData = errors.New("no data in response")
	// ErrMissingItems is returned when the payload has no items array
	ErrMissingItems = errors.New(`response has no "items" array`)
)

// NetworkError wraps any failure to retrieve a URL
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// StatusError reports a non-2xx HTTP response
type StatusError struct {
	Code   int
	Status string
}

func (e *StatusError) Error() string {
	return "unexpected status: " + e.Status
}

// DecodeError reports a payload that could not be turned into books
type DecodeError struct {
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Err == nil {
		return "decode: " + e.Reason
	}
	return fmt.Sprintf("decode: %s: %v", e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
