package app

import (
	"github.com/typestate-go/blobclient/core"
	"github.com/typestate-go/blobclient/identity"
)

// Config command-specific parameters and secrets.
type Config struct {
	// Target
	Endpoint         string
	ConnectionString string

	// Authentication, used with Endpoint only
	SASToken string
	Identity identity.Config

	// Optional
	APIVersion  string
	Diagnostics core.DiagnosticsOptions
	RetryMode   string
}
