// Package app assembles a blob client from command line configuration.
package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"

	"github.com/typestate-go/blobclient/blob"
	"github.com/typestate-go/blobclient/core"
	"github.com/typestate-go/blobclient/identity"
	"github.com/typestate-go/blobclient/internal"
)

// ErrNoTarget is returned when neither an endpoint nor a connection string is configured.
var ErrNoTarget = errors.New("an endpoint or a connection string is required")

// NewClient walks the client builder with the values present in c. An endpoint takes
// precedence over a connection string; with an endpoint, a SAS token takes precedence
// over identity settings.
func NewClient(l log.Logger, c Config) (*blob.Client, error) {
	retry, err := core.ParseRetryMode(c.RetryMode)
	if err != nil {
		return nil, fmt.Errorf("retry, %w", err)
	}

	var ready blob.ReadyBuilder

	switch {
	case c.Endpoint != "":
		if c.ConnectionString != "" {
			level.Warn(l).Log("msg", "both endpoint and connection string set, using endpoint")
		}

		eb, err := blob.NewBuilder().WithEndpoint(c.Endpoint)
		if err != nil {
			return nil, err
		}

		if c.SASToken != "" {
			level.Info(l).Log("msg", "using SAS token authentication")
			ready = eb.WithSASToken(c.SASToken)

			break
		}

		cred, err := identity.NewCredential(l, c.Identity)
		if err != nil {
			return nil, err
		}

		ready = eb.WithCredential(cred)
	case c.ConnectionString != "":
		level.Info(l).Log("msg", "using connection string")
		ready = blob.NewBuilder().WithConnectionString(c.ConnectionString)
	default:
		return nil, ErrNoTarget
	}

	return ready.
		WithAPIVersion(c.APIVersion).
		WithDiagnostics(c.Diagnostics).
		WithRetry(core.RetryOptions{Mode: retry}).
		Build()
}

// Run builds the client described by c and logs what it resolved to.
func Run(l log.Logger, c Config) error {
	if c.Diagnostics.Logging {
		stop := internal.ForwardSDKLogs(l)
		defer stop()
	}

	client, err := NewClient(l, c)
	if err != nil {
		level.Error(l).Log("msg", "could not build client", "err", err)
		return err
	}

	keyvals := []interface{}{
		"msg", "client ready",
		"endpoint", client.Endpoint(),
		"apiVersion", client.APIVersion(),
		"retry", client.Options().Retry.Mode,
		"telemetry", client.Options().Diagnostics.Telemetry,
	}

	if exp := client.SASExpiry(); !exp.IsZero() {
		keyvals = append(keyvals, "sasExpiry", humanize.Time(exp))

		if exp.Before(time.Now()) {
			level.Warn(l).Log("msg", "SAS token has expired", "expiry", exp.Format(time.RFC3339))
		}
	}

	level.Info(l).Log(keyvals...)

	return nil
}
