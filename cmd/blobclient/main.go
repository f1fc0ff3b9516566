package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/go-kit/kit/log/level"
	"github.com/urfave/cli/v2"

	"github.com/typestate-go/blobclient/core"
	"github.com/typestate-go/blobclient/identity"
	"github.com/typestate-go/blobclient/internal"
	"github.com/typestate-go/blobclient/internal/app"
)

func main() {
	a := &cli.App{
		Name:   "blobclient",
		Usage:  "build an Azure Blob Storage client and report its resolved configuration",
		Action: run,
		Flags: []cli.Flag{
			// Logger args
			&cli.StringFlag{
				Name:    "log.level",
				Usage:   "log filtering level. ('error', 'warn', 'info', 'debug')",
				Value:   internal.LogLevelInfo,
				EnvVars: []string{"BLOBCLIENT_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log.format",
				Usage:   "log format to use. ('logfmt', 'json')",
				Value:   internal.LogFormatLogfmt,
				EnvVars: []string{"BLOBCLIENT_LOG_FORMAT"},
			},

			// Target args
			&cli.StringFlag{
				Name:    "endpoint",
				Usage:   "blob service endpoint, e.g. https://<account>.blob.core.windows.net",
				EnvVars: []string{"BLOBCLIENT_ENDPOINT"},
			},
			&cli.StringFlag{
				Name:    "connection-string",
				Usage:   "storage connection string carrying endpoint and credentials",
				EnvVars: []string{"BLOBCLIENT_CONNECTION_STRING", "AZURE_STORAGE_CONNECTION_STRING"},
			},

			// Authentication args
			&cli.StringFlag{
				Name:    "sas-token",
				Usage:   "shared access signature used with --endpoint",
				EnvVars: []string{"BLOBCLIENT_SAS_TOKEN"},
			},
			&cli.StringFlag{
				Name:    "tenant-id",
				Usage:   "Azure tenant ID",
				EnvVars: []string{"BLOBCLIENT_TENANT_ID", "AZURE_TENANT_ID"},
			},
			&cli.StringFlag{
				Name:    "client-id",
				Usage:   "Azure application (client) ID",
				EnvVars: []string{"BLOBCLIENT_CLIENT_ID", "AZURE_CLIENT_ID"},
			},
			&cli.StringFlag{
				Name:    "client-secret",
				Usage:   "Azure application secret",
				EnvVars: []string{"BLOBCLIENT_CLIENT_SECRET", "AZURE_CLIENT_SECRET"},
			},
			&cli.StringFlag{
				Name:    "oidc-token-id",
				Usage:   "OIDC token used as client assertion",
				EnvVars: []string{"BLOBCLIENT_OIDC_TOKEN_ID"},
			},

			// Optional args
			&cli.StringFlag{
				Name:    "api-version",
				Usage:   "override the api-version sent with every request",
				EnvVars: []string{"BLOBCLIENT_API_VERSION"},
			},
			&cli.StringFlag{
				Name:    "application-id",
				Usage:   "application ID prepended to the User-Agent",
				EnvVars: []string{"BLOBCLIENT_APPLICATION_ID"},
			},
			&cli.BoolFlag{
				Name:    "logging",
				Usage:   "log pipeline requests and responses at debug level",
				Value:   true,
				EnvVars: []string{"BLOBCLIENT_LOGGING"},
			},
			&cli.BoolFlag{
				Name:    "logging-content",
				Usage:   "include request and response bodies in pipeline logs",
				EnvVars: []string{"BLOBCLIENT_LOGGING_CONTENT"},
			},
			&cli.BoolFlag{
				Name:    "telemetry",
				Usage:   "send SDK telemetry in the User-Agent",
				Value:   true,
				EnvVars: []string{"BLOBCLIENT_TELEMETRY"},
			},
			&cli.StringFlag{
				Name:    "retry",
				Usage:   "retry policy. ('exponential', 'fixed', 'custom', 'none')",
				Value:   core.RetryExponential.String(),
				EnvVars: []string{"BLOBCLIENT_RETRY"},
			},
		},
	}

	if err := a.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	logger := internal.NewLogger(c.String("log.level"), c.String("log.format"), "blobclient")

	cfg := app.Config{
		Endpoint:         c.String("endpoint"),
		ConnectionString: c.String("connection-string"),
		SASToken:         c.String("sas-token"),
		Identity: identity.Config{
			OIDCTokenID:  c.String("oidc-token-id"),
			TenantID:     c.String("tenant-id"),
			ClientID:     c.String("client-id"),
			ClientSecret: c.String("client-secret"),
		},
		APIVersion: c.String("api-version"),
		Diagnostics: core.DiagnosticsOptions{
			ApplicationID:  c.String("application-id"),
			Logging:        c.Bool("logging"),
			LoggingContent: c.Bool("logging-content"),
			Telemetry:      c.Bool("telemetry"),
		},
		RetryMode: c.String("retry"),
	}

	if err := app.Run(logger, cfg); err != nil {
		if errors.Is(err, app.ErrNoTarget) {
			level.Error(logger).Log("msg", "set --endpoint or --connection-string")
		}

		return cli.Exit(err.Error(), 1)
	}

	return nil
}
