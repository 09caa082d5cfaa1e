package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"

	"github.com/ibrasoft/command-centre/internal/config"
)

// oauthScopes are the delegated permissions requested at login. The
// guilds scope is what lets the gatekeeper list the user's guilds.
var oauthScopes = []string{"identify", "guilds", "email"}

// OAuthClient drives the Discord OAuth2 authorization-code flow for
// browser logins.
type OAuthClient struct {
	oauth      *oauth2.Config
	baseURL    string
	httpClient *http.Client
}

// NewOAuthClient builds the OAuth2 client from configuration.
func NewOAuthClient(cfg config.DiscordConfig) *OAuthClient {
	return &OAuthClient{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       oauthScopes,
			Endpoint: oauth2.Endpoint{
				AuthURL:   cfg.APIBaseURL + "/oauth2/authorize",
				TokenURL:  cfg.APIBaseURL + "/oauth2/token",
				AuthStyle: oauth2.AuthStyleInParams,
			},
		},
		baseURL:    cfg.APIBaseURL,
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout()},
	}
}

// DiscordUser is the authenticated user's profile from /users/@me.
type DiscordUser struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Avatar        string `json:"avatar"`
	Email         string `json:"email"`
}

// AuthorizeURL returns the provider URL to redirect the browser to.
func (o *OAuthClient) AuthorizeURL(state string) string {
	return o.oauth.AuthCodeURL(state)
}

// ExchangeCode trades an authorization code for a delegated access token.
func (o *OAuthClient) ExchangeCode(ctx context.Context, code string) (string, error) {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, o.httpClient)
	token, err := o.oauth.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("token exchange returned no access token")
	}
	return token.AccessToken, nil
}

// CurrentUser fetches the profile behind a delegated access token.
func (o *OAuthClient) CurrentUser(ctx context.Context, accessToken string) (*DiscordUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.baseURL+"/users/@me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := o.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user lookup failed with status %d", resp.StatusCode)
	}

	var user DiscordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, err
	}
	if user.ID == "" {
		return nil, fmt.Errorf("user lookup returned no id")
	}
	return &user, nil
}
