package core

import (
	"errors"
	"net/url"
)

var (
	errNoScheme = errors.New("missing scheme")
	errNoHost   = errors.New("missing host")
)

// ParseEndpoint parses s as an absolute URL. Failures are returned as *EndpointError.
func ParseEndpoint(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, &EndpointError{Endpoint: s, Err: err}
	}

	if u.Scheme == "" {
		return nil, &EndpointError{Endpoint: s, Err: errNoScheme}
	}

	if u.Host == "" {
		return nil, &EndpointError{Endpoint: s, Err: errNoHost}
	}

	return u, nil
}
