package core

import (
	"fmt"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// fixedRetryDelay is used for both the initial and maximum delay of RetryFixed.
const fixedRetryDelay = 4 * time.Second

// DiagnosticsOptions configures what the transport reports about requests.
type DiagnosticsOptions struct {
	// ApplicationID is prepended to the User-Agent. Empty means none.
	ApplicationID  string
	Logging        bool
	LoggingContent bool
	Telemetry      bool
}

// DefaultDiagnosticsOptions returns logging and telemetry enabled, request content not logged.
func DefaultDiagnosticsOptions() DiagnosticsOptions {
	return DiagnosticsOptions{
		Logging:   true,
		Telemetry: true,
	}
}

// RetryMode selects a retry policy.
type RetryMode int

const (
	// RetryExponential backs off exponentially with azcore's defaults.
	RetryExponential RetryMode = iota
	// RetryFixed waits a constant delay between tries.
	RetryFixed
	// RetryCustom leaves the policy to the azcore defaults until configured.
	RetryCustom
	// RetryNone sends each request once.
	RetryNone
)

func (m RetryMode) String() string {
	switch m {
	case RetryExponential:
		return "exponential"
	case RetryFixed:
		return "fixed"
	case RetryCustom:
		return "custom"
	case RetryNone:
		return "none"
	default:
		return fmt.Sprintf("RetryMode(%d)", int(m))
	}
}

// ParseRetryMode parses the String form of a RetryMode, ignoring case.
func ParseRetryMode(s string) (RetryMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "exponential":
		return RetryExponential, nil
	case "fixed":
		return RetryFixed, nil
	case "custom":
		return RetryCustom, nil
	case "none":
		return RetryNone, nil
	default:
		return RetryExponential, fmt.Errorf("unknown retry mode %q", s)
	}
}

// RetryOptions selects the retry policy handed to the pipeline.
// The zero value is exponential retry.
type RetryOptions struct {
	Mode RetryMode
}

// ExponentialRetry returns the default retry options.
func ExponentialRetry() RetryOptions { return RetryOptions{Mode: RetryExponential} }

// FixedRetry retries with a constant delay.
func FixedRetry() RetryOptions { return RetryOptions{Mode: RetryFixed} }

// CustomRetry selects the custom retry mode.
func CustomRetry() RetryOptions { return RetryOptions{Mode: RetryCustom} }

// NoRetry disables retries.
func NoRetry() RetryOptions { return RetryOptions{Mode: RetryNone} }

// ClientOptions is the options aggregate shared by client builders.
type ClientOptions struct {
	Diagnostics DiagnosticsOptions
	Retry       RetryOptions

	// Transport overrides the HTTP client used by the pipeline. Nil uses the azcore default.
	Transport policy.Transporter
}

// DefaultClientOptions returns default diagnostics and exponential retry.
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		Diagnostics: DefaultDiagnosticsOptions(),
		Retry:       ExponentialRetry(),
	}
}

// Option overrides ClientOptions.
type Option interface {
	apply(*ClientOptions)
}

type optionFunc func(*ClientOptions)

func (f optionFunc) apply(o *ClientOptions) {
	f(o)
}

// Apply returns a copy of o with opts applied in order.
func (o ClientOptions) Apply(opts ...Option) ClientOptions {
	for _, opt := range opts {
		opt.apply(&o)
	}

	return o
}

// WithDiagnostics sets diagnostics option.
func WithDiagnostics(d DiagnosticsOptions) Option {
	return optionFunc(func(o *ClientOptions) {
		o.Diagnostics = d
	})
}

// WithRetry sets retry option.
func WithRetry(r RetryOptions) Option {
	return optionFunc(func(o *ClientOptions) {
		o.Retry = r
	})
}

// WithTransport sets the HTTP transport used by the pipeline.
func WithTransport(t policy.Transporter) Option {
	return optionFunc(func(o *ClientOptions) {
		o.Transport = t
	})
}

func (o ClientOptions) azcore() policy.ClientOptions {
	var opts policy.ClientOptions

	opts.Transport = o.Transport
	opts.Telemetry.ApplicationID = o.Diagnostics.ApplicationID
	opts.Telemetry.Disabled = !o.Diagnostics.Telemetry
	opts.Logging.IncludeBody = o.Diagnostics.LoggingContent

	switch o.Retry.Mode {
	case RetryNone:
		opts.Retry.MaxRetries = -1
	case RetryFixed:
		opts.Retry.RetryDelay = fixedRetryDelay
		opts.Retry.MaxRetryDelay = fixedRetryDelay
	}

	return opts
}
