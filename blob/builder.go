package blob

import (
	"fmt"
	"net/url"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"

	"github.com/typestate-go/blobclient/core"
)

// Scope is the token scope requested for Azure Storage.
const Scope = "https://storage.azure.com/.default"

// config is the pending configuration carried from one builder state to the next.
type config struct {
	endpoint            *url.URL
	connectionString    string
	hasConnectionString bool
	credential          azcore.TokenCredential
	sasToken            string
	apiVersion          string

	// nil until an optional setter runs; replaced, never mutated in place.
	options *core.ClientOptions
}

func (c config) clientOptions() core.ClientOptions {
	if c.options == nil {
		return core.DefaultClientOptions()
	}

	return *c.options
}

func (c config) withOptions(opts ...core.Option) config {
	o := c.clientOptions().Apply(opts...)
	c.options = &o

	return c
}

// Builder is the initial state: neither a target nor authentication has been set.
// Set an endpoint with WithEndpoint, or both at once with WithConnectionString.
//
// Builders are values. Every transition returns a new builder and leaves the receiver
// as it was; a builder should not be reused once a transition has been taken from it.
type Builder struct {
	cfg config
}

// NewBuilder returns an empty Builder. It is equivalent to the zero value.
func NewBuilder() Builder {
	return Builder{}
}

// WithEndpoint sets the endpoint to call. The endpoint must be an absolute URL; on
// failure the returned error matches core.ErrInvalidEndpoint and b remains usable.
func (b Builder) WithEndpoint(endpoint string) (EndpointBuilder, error) {
	u, err := core.ParseEndpoint(endpoint)
	if err != nil {
		return EndpointBuilder{}, err
	}

	cfg := b.cfg
	cfg.endpoint = u

	return EndpointBuilder{cfg: cfg}, nil
}

// WithConnectionString sets a connection string, which carries both the endpoint and
// the credentials. It is stored verbatim and decomposed by Build.
func (b Builder) WithConnectionString(connectionString string) ReadyBuilder {
	cfg := b.cfg
	cfg.connectionString = connectionString
	cfg.hasConnectionString = true

	return ReadyBuilder{cfg: cfg}
}

// EndpointBuilder has an endpoint and needs either a credential or a SAS token.
type EndpointBuilder struct {
	cfg config
}

// WithCredential sets the credential used to authorize requests. The credential is
// shared, not copied: the caller may keep using it for other clients.
func (b EndpointBuilder) WithCredential(credential azcore.TokenCredential) ReadyBuilder {
	cfg := b.cfg
	cfg.credential = credential

	return ReadyBuilder{cfg: cfg}
}

// WithSASToken sets a shared access signature appended to every request.
func (b EndpointBuilder) WithSASToken(token string) ReadyBuilder {
	cfg := b.cfg
	cfg.sasToken = token

	return ReadyBuilder{cfg: cfg}
}

// ReadyBuilder has everything required. Optional settings may be applied in any
// order, the last write winning, before calling Build.
type ReadyBuilder struct {
	cfg config
}

// WithAPIVersion overrides the api-version sent with every request.
// An empty version restores core.DefaultAPIVersion.
func (b ReadyBuilder) WithAPIVersion(version string) ReadyBuilder {
	b.cfg.apiVersion = version
	return b
}

// WithDiagnostics replaces the diagnostics options.
func (b ReadyBuilder) WithDiagnostics(d core.DiagnosticsOptions) ReadyBuilder {
	b.cfg = b.cfg.withOptions(core.WithDiagnostics(d))
	return b
}

// WithRetry replaces the retry options.
func (b ReadyBuilder) WithRetry(r core.RetryOptions) ReadyBuilder {
	b.cfg = b.cfg.withOptions(core.WithRetry(r))
	return b
}

// WithOptions applies client options in order.
func (b ReadyBuilder) WithOptions(opts ...core.Option) ReadyBuilder {
	b.cfg = b.cfg.withOptions(opts...)
	return b
}

// Build resolves the endpoint and constructs the Client. No request is sent and the
// credential is not called.
//
// An explicitly set endpoint is used verbatim; otherwise the endpoint comes from the
// connection string, and a malformed connection string matches core.ErrInvalidEndpoint.
// A builder that did not reach this state through its transitions, such as a zero
// ReadyBuilder or one given a nil credential, fails with core.ErrMissingRequiredField.
func (b ReadyBuilder) Build() (*Client, error) {
	r, err := b.cfg.resolve()
	if err != nil {
		return nil, err
	}

	var auth []policy.Policy
	if r.credential != nil {
		auth = append(auth, runtime.NewBearerTokenPolicy(r.credential, []string{Scope}, nil))
	}

	c := &Client{}

	if r.sas != "" {
		s, err := core.ParseSAS(r.sas)
		if err != nil {
			return nil, fmt.Errorf("blob, SAS token, %w", err)
		}

		auth = append(auth, s.Policy())
		c.sasExpiry = s.Expiry()
	}

	c.pipeline = core.NewPipeline(moduleName, moduleVersion, r.endpoint, b.cfg.apiVersion, b.cfg.clientOptions(), auth...)

	return c, nil
}

type resolved struct {
	endpoint   *url.URL
	credential azcore.TokenCredential
	sas        string
}

func (c config) resolve() (resolved, error) {
	var r resolved

	explicitAuth := c.credential != nil || c.sasToken != ""

	switch {
	case c.endpoint == nil && !c.hasConnectionString:
		return r, fmt.Errorf("blob, %w, endpoint or connection string", core.ErrMissingRequiredField)
	case !explicitAuth && !c.hasConnectionString:
		return r, fmt.Errorf("blob, %w, credential or SAS token", core.ErrMissingRequiredField)
	}

	if c.endpoint == nil {
		cs, err := parseConnectionString(c.connectionString)
		if err != nil {
			return r, fmt.Errorf("blob, connection string, %w", err)
		}

		r.endpoint = cs.endpoint
		r.sas = cs.sas
	} else {
		// An explicit endpoint wins; the connection string can only contribute auth.
		r.endpoint = c.endpoint

		if !explicitAuth {
			r.sas = connectionStringSAS(c.connectionString)
		}
	}

	if explicitAuth {
		r.credential = c.credential
		r.sas = c.sasToken
	}

	return r, nil
}
