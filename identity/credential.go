// Package identity selects the Azure credential a client authenticates with.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/go-kit/kit/log"
	"github.com/go-kit/kit/log/level"
)

// NewCredential creates the credential described by c. No token is requested until
// the credential is first used, so the result can be shared by several clients.
func NewCredential(l log.Logger, c Config) (azcore.TokenCredential, error) {
	// Priority 0 - OIDC
	if c.OIDCTokenID != "" && c.TenantID != "" {
		level.Info(l).Log("msg", "using OIDC token authentication", "tenantID", c.TenantID)

		if c.ClientID == "" {
			return nil, errors.New("azure client ID is required when using OIDC authentication")
		}

		// The OIDC token from the CI/CD system is used directly as the client assertion.
		oidcToken := c.OIDCTokenID
		getAssertion := func(ctx context.Context) (string, error) {
			return oidcToken, nil
		}

		cred, err := azidentity.NewClientAssertionCredential(c.TenantID, c.ClientID, getAssertion, nil)
		if err != nil {
			return nil, fmt.Errorf("azure, failed to create OIDC client assertion credential, %w", err)
		}

		return cred, nil
	}

	// Priority 1 - Service Principal
	if c.ClientID != "" && c.ClientSecret != "" && c.TenantID != "" {
		level.Info(l).Log("msg", "using service principal authentication", "clientID", c.ClientID, "tenantID", c.TenantID)

		cred, err := azidentity.NewClientSecretCredential(c.TenantID, c.ClientID, c.ClientSecret, nil)
		if err != nil {
			return nil, fmt.Errorf("azure, failed to create service principal credential, %w", err)
		}

		return cred, nil
	}

	if c.ClientSecret != "" {
		level.Warn(l).Log("msg", "client secret ignored, service principal requires client ID and tenant ID")
	}

	level.Info(l).Log("msg", "using default Azure credential chain", "tenantID", c.TenantID)

	cred, err := azidentity.NewDefaultAzureCredential(&azidentity.DefaultAzureCredentialOptions{
		TenantID: c.TenantID,
	})
	if err != nil {
		return nil, fmt.Errorf("azure, failed to create default credential, %w", err)
	}

	return cred, nil
}
