package core

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
)

// DefaultAPIVersion is sent when a client does not override the API version.
const DefaultAPIVersion = "2023-11-03"

// Pipeline is the transport handle of a client. Constructing one performs no I/O.
type Pipeline struct {
	endpoint   url.URL
	apiVersion string
	options    ClientOptions
	pl         runtime.Pipeline
}

// NewPipeline creates the pipeline for endpoint. auth policies run on every try, after retry.
func NewPipeline(module, version string, endpoint *url.URL, apiVersion string, opts ClientOptions, auth ...policy.Policy) *Pipeline {
	if apiVersion == "" {
		apiVersion = DefaultAPIVersion
	}

	plOpts := runtime.PipelineOptions{
		PerCall:  []policy.Policy{apiVersionPolicy(apiVersion)},
		PerRetry: auth,
	}
	azOpts := opts.azcore()

	return &Pipeline{
		endpoint:   *endpoint,
		apiVersion: apiVersion,
		options:    opts,
		pl:         runtime.NewPipeline(module, version, plOpts, &azOpts),
	}
}

// Endpoint returns a copy of the resolved endpoint.
func (p *Pipeline) Endpoint() *url.URL {
	u := p.endpoint
	return &u
}

func (p *Pipeline) APIVersion() string {
	return p.apiVersion
}

func (p *Pipeline) Options() ClientOptions {
	return p.options
}

// NewRequest creates a request for the endpoint joined with paths.
func (p *Pipeline) NewRequest(ctx context.Context, method string, paths ...string) (*policy.Request, error) {
	return runtime.NewRequest(ctx, method, runtime.JoinPaths(p.endpoint.String(), paths...))
}

// Do sends req through the pipeline policies and transport.
func (p *Pipeline) Do(req *policy.Request) (*http.Response, error) {
	return p.pl.Do(req)
}
