package blob

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/typestate-go/blobclient/core"
)

const (
	defaultEndpointsProtocol = "https"
	defaultEndpointSuffix    = "core.windows.net"

	// Azurite serves every account path-style under a fixed host.
	devStoreEndpoint    = "http://127.0.0.1:10000/devstoreaccount1"
	devStoreAccountName = "devstoreaccount1"
)

var (
	errEmptyConnectionString = errors.New("empty connection string")
	errNoAccountName         = errors.New("connection string has neither BlobEndpoint nor AccountName")
)

// connectionString holds the parts of a storage connection string this package uses.
// AccountKey is accepted but never decoded; shared key signing is not done here.
type connectionString struct {
	endpoint    *url.URL
	accountName string
	sas         string
}

// parseConnectionString decomposes s. Every failure matches core.ErrInvalidEndpoint;
// the error never includes s, since it may carry an account key.
func parseConnectionString(s string) (connectionString, error) {
	if strings.TrimSpace(s) == "" {
		return connectionString{}, &core.EndpointError{Err: errEmptyConnectionString}
	}

	parts := map[string]string{}

	for i, segment := range strings.Split(s, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		k, v, ok := strings.Cut(segment, "=")
		if !ok || k == "" {
			return connectionString{}, &core.EndpointError{Err: fmt.Errorf("malformed connection string segment %d", i)}
		}

		parts[k] = v
	}

	cs := connectionString{
		accountName: parts["AccountName"],
		sas:         parts["SharedAccessSignature"],
	}

	endpoint := parts["BlobEndpoint"]

	switch {
	case endpoint != "":
	case strings.EqualFold(parts["UseDevelopmentStorage"], "true"):
		endpoint = devStoreEndpoint
		if cs.accountName == "" {
			cs.accountName = devStoreAccountName
		}
	case cs.accountName != "":
		protocol := parts["DefaultEndpointsProtocol"]
		if protocol == "" {
			protocol = defaultEndpointsProtocol
		}

		suffix := parts["EndpointSuffix"]
		if suffix == "" {
			suffix = defaultEndpointSuffix
		}

		endpoint = fmt.Sprintf("%s://%s.blob.%s", protocol, cs.accountName, suffix)
	default:
		return connectionString{}, &core.EndpointError{Err: errNoAccountName}
	}

	u, err := core.ParseEndpoint(endpoint)
	if err != nil {
		return connectionString{}, err
	}

	cs.endpoint = u

	return cs, nil
}

// connectionStringSAS returns the SharedAccessSignature setting of s. Segments it
// cannot split are skipped, so it never fails.
func connectionStringSAS(s string) string {
	var sas string

	for _, segment := range strings.Split(s, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(segment), "=")
		if ok && k == "SharedAccessSignature" {
			sas = v
		}
	}

	return sas
}
