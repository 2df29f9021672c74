// Package identity implements the external identity provider client.
package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	appidentity "github.com/creatorhub/backend/internal/application/identity"
	"github.com/creatorhub/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// Ensure HTTPProviderClient implements ProviderClient
var _ appidentity.ProviderClient = (*HTTPProviderClient)(nil)

// HTTPProviderClient talks to a standard OAuth 2.0 authorization-code
// provider over HTTP
type HTTPProviderClient struct {
	cfg        config.OAuthConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewHTTPProviderClient creates a new provider client
func NewHTTPProviderClient(cfg config.OAuthConfig, logger *zap.Logger) *HTTPProviderClient {
	return &HTTPProviderClient{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.RequestTimeout,
		},
		logger: logger,
	}
}

// AuthorizeURL returns the provider URL the client is redirected to
func (c *HTTPProviderClient) AuthorizeURL(state string) string {
	q := url.Values{}
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", c.cfg.RedirectURL)
	q.Set("response_type", "code")
	q.Set("state", state)

	return c.cfg.AuthorizeURL + "?" + q.Encode()
}

// tokenResponse is the provider's token endpoint payload
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	Error       string `json:"error"`
	ErrorDesc   string `json:"error_description"`
}

// Exchange trades an authorization code for a provider access token
func (c *HTTPProviderClient) Exchange(ctx context.Context, code string) (string, error) {
	form := url.Values{}
	form.Set("grant_type", "authorization_code")
	form.Set("code", code)
	form.Set("client_id", c.cfg.ClientID)
	form.Set("client_secret", c.cfg.ClientSecret)
	form.Set("redirect_uri", c.cfg.RedirectURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read token response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Provider token endpoint returned error",
			zap.Int("status", resp.StatusCode))
		return "", fmt.Errorf("token endpoint returned status %d", resp.StatusCode)
	}

	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to decode token response: %w", err)
	}
	if tr.Error != "" {
		return "", fmt.Errorf("token endpoint error: %s", tr.Error)
	}
	if tr.AccessToken == "" {
		return "", fmt.Errorf("token endpoint returned no access token")
	}

	return tr.AccessToken, nil
}

// identityResponse is the provider's identity endpoint payload
type identityResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// FetchIdentity loads the account behind a provider access token
func (c *HTTPProviderClient) FetchIdentity(ctx context.Context, accessToken string) (*appidentity.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.IdentityURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build identity request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read identity response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Provider identity endpoint returned error",
			zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("identity endpoint returned status %d", resp.StatusCode)
	}

	var ir identityResponse
	if err := json.Unmarshal(body, &ir); err != nil {
		return nil, fmt.Errorf("failed to decode identity response: %w", err)
	}
	if ir.ID == "" {
		return nil, fmt.Errorf("identity endpoint returned no account id")
	}

	return &appidentity.Identity{
		AccountID:   ir.ID,
		DisplayName: ir.DisplayName,
	}, nil
}
