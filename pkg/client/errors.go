package client

import (
	"fmt"
)

// ErrorClass represents a classification of transport failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"

	// ErrorClassDecode represents response bodies that do not match the target shape.
	ErrorClassDecode ErrorClass = "decode"
)

// TransportError is returned when a request fails on the network or
// the server answers with a non-2xx status.
type TransportError struct {
	Endpoint   string
	StatusCode int
	ErrorClass ErrorClass
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("swapi %s error on %s: %v", e.ErrorClass, e.Endpoint, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("swapi %s error on %s (status %d): %s: %v",
			e.ErrorClass, e.Endpoint, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("swapi %s error on %s (status %d): %s",
		e.ErrorClass, e.Endpoint, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// DeserializationError is returned when a response body cannot be decoded
// into the caller's result shape.
type DeserializationError struct {
	Endpoint string
	Target   string
	Err      error
}

// Error implements the error interface.
func (e *DeserializationError) Error() string {
	return fmt.Sprintf("swapi decode error on %s (into %s): %v", e.Endpoint, e.Target, e.Err)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *DeserializationError) Unwrap() error {
	return e.Err
}

// classifyStatus maps a non-2xx HTTP status to an ErrorClass.
func classifyStatus(statusCode int) ErrorClass {
	switch {
	case statusCode >= 500:
		return ErrorClassServer
	case statusCode >= 400:
		return ErrorClassClient
	default:
		// 1xx/3xx that reached us unfollowed are treated as client-side misuse
		return ErrorClassClient
	}
}
