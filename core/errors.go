package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidEndpoint is returned when an endpoint, or the endpoint carried by a
	// connection string, is not a well-formed absolute URL.
	ErrInvalidEndpoint = errors.New("invalid endpoint")
	// ErrMissingRequiredField is returned by Build when a builder was obtained without
	// going through the required transitions, e.g. a zero value or a nil credential.
	ErrMissingRequiredField = errors.New("missing required field")
	// ErrInvalidCredential is returned when credential material such as a SAS token
	// cannot be decoded.
	ErrInvalidCredential = errors.New("invalid credential")
)

// EndpointError records the endpoint text that failed to parse.
type EndpointError struct {
	Endpoint string
	Err      error
}

func (e *EndpointError) Error() string {
	if e.Endpoint == "" {
		return fmt.Sprintf("%s, %v", ErrInvalidEndpoint, e.Err)
	}

	if e.Err == nil {
		return fmt.Sprintf("%s %q", ErrInvalidEndpoint, e.Endpoint)
	}

	return fmt.Sprintf("%s %q, %v", ErrInvalidEndpoint, e.Endpoint, e.Err)
}

// Is reports whether target is ErrInvalidEndpoint.
func (e *EndpointError) Is(target error) bool {
	return target == ErrInvalidEndpoint
}

func (e *EndpointError) Unwrap() error {
	return e.Err
}
