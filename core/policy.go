package core

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/sas"
)

// APIVersionParam is the query parameter carrying the service API version.
const APIVersionParam = "api-version"

type apiVersionPolicy string

func (p apiVersionPolicy) Do(req *policy.Request) (*http.Response, error) {
	raw := req.Raw()
	q := raw.URL.Query()
	q.Set(APIVersionParam, string(p))
	raw.URL.RawQuery = q.Encode()

	return req.Next()
}

// SAS is a decoded shared access signature token.
type SAS struct {
	values url.Values
	params sas.QueryParameters
}

// ParseSAS decodes a SAS token, with or without its leading '?'.
func ParseSAS(token string) (SAS, error) {
	token = strings.TrimPrefix(strings.TrimSpace(token), "?")
	if token == "" {
		return SAS{}, fmt.Errorf("%w, empty SAS token", ErrInvalidCredential)
	}

	values, err := url.ParseQuery(token)
	if err != nil {
		return SAS{}, fmt.Errorf("%w, parse SAS token, %v", ErrInvalidCredential, err)
	}

	return SAS{
		values: values,
		params: sas.NewQueryParameters(values, false),
	}, nil
}

// Expiry returns the signed expiry, or the zero time when the token has none.
func (s SAS) Expiry() time.Time {
	return s.params.ExpiryTime()
}

// Policy returns a pipeline policy adding the token to every request's query.
func (s SAS) Policy() policy.Policy {
	return sasPolicy{values: s.values}
}

type sasPolicy struct {
	values url.Values
}

func (p sasPolicy) Do(req *policy.Request) (*http.Response, error) {
	raw := req.Raw()
	q := raw.URL.Query()

	for k, v := range p.values {
		q[k] = append([]string(nil), v...)
	}

	raw.URL.RawQuery = q.Encode()

	return req.Next()
}
