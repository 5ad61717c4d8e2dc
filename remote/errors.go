package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError is a response outside the accepted status range.
type StatusError struct {
	StatusCode int
	Detail     string
}

func (e *StatusError) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	if detail == "" {
		return fmt.Sprintf("server error %d", e.StatusCode)
	}
	return fmt.Sprintf("server error %d: %s", e.StatusCode, detail)
}

// NetworkError means the request never got a response.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "no response from server, check network connection"
}

func (e *NetworkError) Unwrap() error { return e.Err }

// RequestError means the request could not be built.
type RequestError struct {
	Err error
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("could not prepare request: %v", e.Err)
}

func (e *RequestError) Unwrap() error { return e.Err }

// ShapeError means the server answered but the body was not what the caller
// expected.
type ShapeError struct {
	Err error
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("unexpected response from server: %v", e.Err)
}

func (e *ShapeError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// IsNetwork reports whether err is a NetworkError.
func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
