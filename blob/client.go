// Package blob provides a client for Azure Blob Storage whose builder only offers
// Build once an endpoint and authentication have both been supplied.
//
// The builder's state is the type the caller holds:
//
//	Builder          no endpoint, no authentication
//	EndpointBuilder  endpoint set, WithCredential or WithSASToken required
//	ReadyBuilder     endpoint and authentication set, optional settings and Build
//
// A connection string carries both the endpoint and the credentials, so
// Builder.WithConnectionString goes straight to ReadyBuilder.
package blob

import (
	"time"

	"github.com/typestate-go/blobclient/core"
)

const (
	moduleName    = "blobclient"
	moduleVersion = "v0.1.0"
)

// Client accesses blobs through the pipeline it was built with.
// It is immutable and safe for concurrent use.
type Client struct {
	pipeline  *core.Pipeline
	sasExpiry time.Time
}

// Endpoint returns the resolved endpoint.
func (c *Client) Endpoint() string {
	return c.pipeline.Endpoint().String()
}

// APIVersion returns the api-version sent with requests.
func (c *Client) APIVersion() string {
	return c.pipeline.APIVersion()
}

// Options returns the options the pipeline was built with.
func (c *Client) Options() core.ClientOptions {
	return c.pipeline.Options()
}

// Pipeline returns the handle requests are sent through.
func (c *Client) Pipeline() *core.Pipeline {
	return c.pipeline
}

// SASExpiry returns when the client's SAS token expires. It is zero when the client
// has no SAS token or the token does not state an expiry.
func (c *Client) SASExpiry() time.Time {
	return c.sasExpiry
}
