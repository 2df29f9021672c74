package identity

import "context"

// Identity is the subset of an external provider account the platform cares
// about. AccountID is stable across logins; DisplayName may be empty when the
// provider withholds profile data.
type Identity struct {
	AccountID   string
	DisplayName string
}

// ProviderClient talks to the external identity provider's OAuth endpoints
type ProviderClient interface {
	// AuthorizeURL returns the provider URL the client is redirected to,
	// carrying the given opaque state value
	AuthorizeURL(state string) string

	// Exchange trades an authorization code for a provider access token
	Exchange(ctx context.Context, code string) (string, error)

	// FetchIdentity loads the account behind a provider access token
	FetchIdentity(ctx context.Context, accessToken string) (*Identity, error)
}
