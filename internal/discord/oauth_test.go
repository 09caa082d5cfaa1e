package discord

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrasoft/command-centre/internal/config"
)

func newTestOAuthClient(baseURL string) *OAuthClient {
	return NewOAuthClient(config.DiscordConfig{
		APIBaseURL:     baseURL,
		ClientID:       "client-123",
		ClientSecret:   "shhh",
		RedirectURL:    "http://localhost:8080/api/auth/callback",
		HTTPTimeoutSec: 2,
	})
}

func TestAuthorizeURLCarriesStateAndScopes(t *testing.T) {
	client := newTestOAuthClient("https://discord.example/api/v10")

	raw := client.AuthorizeURL("state-abc")
	parsed, err := url.Parse(raw)
	require.NoError(t, err)

	assert.Equal(t, "/api/v10/oauth2/authorize", parsed.Path)
	query := parsed.Query()
	assert.Equal(t, "client-123", query.Get("client_id"))
	assert.Equal(t, "code", query.Get("response_type"))
	assert.Equal(t, "state-abc", query.Get("state"))
	assert.Equal(t, "identify guilds email", query.Get("scope"))
	assert.Equal(t, "http://localhost:8080/api/auth/callback", query.Get("redirect_uri"))
}

func TestExchangeCodeReturnsAccessToken(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/oauth2/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.FormValue("grant_type"))
		assert.Equal(t, "the-code", r.FormValue("code"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"delegated-token","token_type":"Bearer","expires_in":604800}`))
	}))
	defer server.Close()

	client := newTestOAuthClient(server.URL)
	token, err := client.ExchangeCode(context.Background(), "the-code")
	require.NoError(t, err)
	assert.Equal(t, "delegated-token", token)
}

func TestExchangeCodeFailsOnProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
	}))
	defer server.Close()

	client := newTestOAuthClient(server.URL)
	_, err := client.ExchangeCode(context.Background(), "stale-code")
	assert.Error(t, err)
}

func TestCurrentUserRequiresID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/@me", r.URL.Path)
		assert.Equal(t, "Bearer delegated-token", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"username":"tester"}`))
	}))
	defer server.Close()

	client := newTestOAuthClient(server.URL)
	_, err := client.CurrentUser(context.Background(), "delegated-token")
	assert.Error(t, err)
}

func TestCurrentUserDecodesProfile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"id":"184325","username":"tester","email":"t@example.com"}`))
	}))
	defer server.Close()

	client := newTestOAuthClient(server.URL)
	user, err := client.CurrentUser(context.Background(), "delegated-token")
	require.NoError(t, err)
	assert.Equal(t, "184325", user.ID)
	assert.Equal(t, "tester", user.Username)
}
