package blob

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"

	"github.com/typestate-go/blobclient/core"
	"github.com/typestate-go/blobclient/test"
)

const (
	defaultEndpoint         = "https://api.contoso.com/endpoint"
	defaultConnectionString = "DefaultEndpointsProtocol=https;AccountName=contoso;AccountKey=***;EndpointSuffix=core.windows.net"
	defaultSASToken         = "sv=2023-11-03&se=2030-01-01T00:00:00Z&sp=r&sig=c2lnbmF0dXJl"
)

type countingCredential struct {
	calls int32
}

func (c *countingCredential) GetToken(ctx context.Context, opts policy.TokenRequestOptions) (azcore.AccessToken, error) {
	atomic.AddInt32(&c.calls, 1)
	return azcore.AccessToken{Token: "token", ExpiresOn: time.Now().Add(time.Hour)}, nil
}

func (c *countingCredential) count() int32 {
	return atomic.LoadInt32(&c.calls)
}

func TestBuildWithEndpointAndCredential(t *testing.T) {
	cred := &countingCredential{}

	eb, err := NewBuilder().WithEndpoint(defaultEndpoint)
	test.Ok(t, err)

	client, err := eb.WithCredential(cred).Build()
	test.Ok(t, err)

	test.Equals(t, defaultEndpoint, client.Endpoint())
	test.Equals(t, core.DefaultAPIVersion, client.APIVersion())
	test.Equals(t, core.DefaultClientOptions(), client.Options())
	test.Assert(t, client.SASExpiry().IsZero(), "expected no SAS expiry")
	test.Equals(t, int32(0), cred.count())
}

func TestBuildWithConnectionStringOnly(t *testing.T) {
	client, err := NewBuilder().WithConnectionString(defaultConnectionString).Build()
	test.Ok(t, err)

	test.Equals(t, "https://contoso.blob.core.windows.net", client.Endpoint())
}

func TestWithEndpointInvalidLeavesBuilderUsable(t *testing.T) {
	b := NewBuilder()

	for _, endpoint := range []string{"://bad", "not a url"} {
		_, err := b.WithEndpoint(endpoint)
		test.ErrorIs(t, err, core.ErrInvalidEndpoint)
	}

	eb, err := b.WithEndpoint(defaultEndpoint)
	test.Ok(t, err)

	client, err := eb.WithSASToken(defaultSASToken).Build()
	test.Ok(t, err)
	test.Equals(t, defaultEndpoint, client.Endpoint())
}

func TestBuildWithSASToken(t *testing.T) {
	eb, err := NewBuilder().WithEndpoint(defaultEndpoint)
	test.Ok(t, err)

	client, err := eb.WithSASToken("?" + defaultSASToken).Build()
	test.Ok(t, err)

	test.Equals(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), client.SASExpiry())
}

func TestBuildWithInvalidSASToken(t *testing.T) {
	eb, err := NewBuilder().WithEndpoint(defaultEndpoint)
	test.Ok(t, err)

	_, err = eb.WithSASToken("sig=%zz").Build()
	test.ErrorIs(t, err, core.ErrInvalidCredential)
}

func TestConnectionStringSatisfiesTargetAndAuth(t *testing.T) {
	for _, cs := range []string{
		defaultConnectionString,
		"AccountName=contoso",
		"BlobEndpoint=https://contoso.blob.core.windows.net/;SharedAccessSignature=sv=2023-11-03&sig=abc",
		"UseDevelopmentStorage=true",
	} {
		_, err := NewBuilder().WithConnectionString(cs).Build()
		test.Ok(t, err)
	}
}

func TestBuildWithMalformedConnectionString(t *testing.T) {
	for _, cs := range []string{"", "   ", "AccountKey", "AccountKey=abc", "BlobEndpoint=://bad"} {
		_, err := NewBuilder().WithConnectionString(cs).Build()
		test.ErrorIs(t, err, core.ErrInvalidEndpoint)
	}
}

func TestConnectionStringSAS(t *testing.T) {
	cs := "BlobEndpoint=https://contoso.blob.core.windows.net/;SharedAccessSignature=sv=2023-11-03&se=2030-01-01T00:00:00Z&sig=abc"

	client, err := NewBuilder().WithConnectionString(cs).Build()
	test.Ok(t, err)

	test.Equals(t, "https://contoso.blob.core.windows.net/", client.Endpoint())
	test.Equals(t, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC), client.SASExpiry())
}

func TestAPIVersionLastWriteWins(t *testing.T) {
	client, err := NewBuilder().
		WithConnectionString(defaultConnectionString).
		WithAPIVersion("v1").
		WithAPIVersion("v2").
		Build()
	test.Ok(t, err)

	test.Equals(t, "v2", client.APIVersion())
}

func TestEmptyAPIVersionRestoresDefault(t *testing.T) {
	client, err := NewBuilder().
		WithConnectionString(defaultConnectionString).
		WithAPIVersion("v1").
		WithAPIVersion("").
		Build()
	test.Ok(t, err)

	test.Equals(t, core.DefaultAPIVersion, client.APIVersion())
}

func TestOptionalSettersAnyOrder(t *testing.T) {
	diag := core.DefaultDiagnosticsOptions()
	diag.LoggingContent = true

	ready := NewBuilder().WithConnectionString(defaultConnectionString)

	a, err := ready.WithDiagnostics(diag).WithRetry(core.NoRetry()).WithAPIVersion("v1").Build()
	test.Ok(t, err)

	b, err := ready.WithAPIVersion("v1").WithRetry(core.NoRetry()).WithDiagnostics(diag).Build()
	test.Ok(t, err)

	c, err := ready.WithOptions(core.WithRetry(core.FixedRetry()), core.WithDiagnostics(diag)).WithRetry(core.NoRetry()).WithAPIVersion("v1").Build()
	test.Ok(t, err)

	want := core.ClientOptions{Diagnostics: diag, Retry: core.NoRetry()}
	for _, client := range []*Client{a, b, c} {
		test.Equals(t, want, client.Options())
		test.Equals(t, "v1", client.APIVersion())
	}
}

func TestTransitionsDoNotChangeReceiver(t *testing.T) {
	ready := NewBuilder().WithConnectionString(defaultConnectionString)
	_ = ready.WithRetry(core.NoRetry()).WithAPIVersion("v1")

	client, err := ready.Build()
	test.Ok(t, err)

	test.Equals(t, core.ExponentialRetry(), client.Options().Retry)
	test.Equals(t, core.DefaultAPIVersion, client.APIVersion())
}

func TestBuildZeroReadyBuilder(t *testing.T) {
	_, err := ReadyBuilder{}.Build()
	test.ErrorIs(t, err, core.ErrMissingRequiredField)
}

func TestBuildZeroEndpointBuilder(t *testing.T) {
	_, err := EndpointBuilder{}.WithCredential(&countingCredential{}).Build()
	test.ErrorIs(t, err, core.ErrMissingRequiredField)
}

func TestBuildMissingAuthMaterial(t *testing.T) {
	eb, err := NewBuilder().WithEndpoint(defaultEndpoint)
	test.Ok(t, err)

	_, err = eb.WithCredential(nil).Build()
	test.ErrorIs(t, err, core.ErrMissingRequiredField)

	_, err = eb.WithSASToken("").Build()
	test.ErrorIs(t, err, core.ErrMissingRequiredField)
}

func TestExplicitEndpointWinsOverConnectionString(t *testing.T) {
	endpoint, err := core.ParseEndpoint(defaultEndpoint)
	test.Ok(t, err)

	testCases := []struct {
		name string
		cfg  config
		sas  bool
	}{
		{
			name: "credential",
			cfg: config{
				endpoint:            endpoint,
				connectionString:    defaultConnectionString,
				hasConnectionString: true,
				credential:          &countingCredential{},
			},
		},
		{
			name: "malformed connection string is not parsed",
			cfg: config{
				endpoint:            endpoint,
				connectionString:    "garbage",
				hasConnectionString: true,
				sasToken:            defaultSASToken,
			},
			sas: true,
		},
		{
			name: "auth from connection string",
			cfg: config{
				endpoint:            endpoint,
				connectionString:    "AccountName=contoso;SharedAccessSignature=sv=2023-11-03&se=2030-01-01T00:00:00Z&sig=abc",
				hasConnectionString: true,
			},
			sas: true,
		},
		{
			name: "malformed connection string without explicit auth",
			cfg: config{
				endpoint:            endpoint,
				connectionString:    "garbage",
				hasConnectionString: true,
			},
		},
		{
			name: "SAS taken from malformed connection string",
			cfg: config{
				endpoint:            endpoint,
				connectionString:    "garbage;SharedAccessSignature=sv=2023-11-03&se=2030-01-01T00:00:00Z&sig=abc",
				hasConnectionString: true,
			},
			sas: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			client, err := ReadyBuilder{cfg: tc.cfg}.Build()
			test.Ok(t, err)

			test.Equals(t, defaultEndpoint, client.Endpoint())
			test.Equals(t, tc.sas, !client.SASExpiry().IsZero())
		})
	}
}

func TestClientSendsSASAndAPIVersion(t *testing.T) {
	var (
		mu    sync.Mutex
		query url.Values
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		query = r.URL.Query()
		mu.Unlock()
	}))
	defer srv.Close()

	eb, err := NewBuilder().WithEndpoint(srv.URL)
	test.Ok(t, err)

	client, err := eb.WithSASToken(defaultSASToken).
		WithAPIVersion("2021-12-02").
		WithOptions(core.WithTransport(srv.Client())).
		Build()
	test.Ok(t, err)

	req, err := client.Pipeline().NewRequest(context.Background(), http.MethodGet, "container", "blob.txt")
	test.Ok(t, err)

	resp, err := client.Pipeline().Do(req)
	test.Ok(t, err)
	test.Ok(t, resp.Body.Close())

	mu.Lock()
	defer mu.Unlock()

	test.Equals(t, "c2lnbmF0dXJl", query.Get("sig"))
	test.Equals(t, "2021-12-02", query.Get(core.APIVersionParam))
}

func TestClientCredentialUsedOnlyWhenSending(t *testing.T) {
	var (
		mu   sync.Mutex
		auth string
	)

	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		auth = r.Header.Get("Authorization")
		mu.Unlock()
	}))
	defer srv.Close()

	cred := &countingCredential{}

	eb, err := NewBuilder().WithEndpoint(srv.URL)
	test.Ok(t, err)

	client, err := eb.WithCredential(cred).WithOptions(core.WithTransport(srv.Client())).Build()
	test.Ok(t, err)
	test.Equals(t, int32(0), cred.count())

	req, err := client.Pipeline().NewRequest(context.Background(), http.MethodGet)
	test.Ok(t, err)

	resp, err := client.Pipeline().Do(req)
	test.Ok(t, err)
	test.Ok(t, resp.Body.Close())

	mu.Lock()
	defer mu.Unlock()

	test.Equals(t, "Bearer token", auth)
	test.Equals(t, int32(1), cred.count())
}
