package identity

// Config is a structure to store credential selection settings.
type Config struct {
	// OIDC (Priority 0, highest)
	OIDCTokenID string // OIDC token issued by the CI/CD system
	TenantID    string // Azure Tenant ID (required for OIDC and service principal)

	// Service Principal (Priority 1)
	ClientID     string // Azure Application (Client) ID
	ClientSecret string // Azure Application Secret

	// DefaultAzureCredential is used when neither group is complete.
}
