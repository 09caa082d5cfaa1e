package http

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ibrasoft/command-centre/internal/api/http/handlers"
	"github.com/ibrasoft/command-centre/internal/auth"
	"github.com/ibrasoft/command-centre/internal/config"
	"github.com/ibrasoft/command-centre/internal/domain"
	"github.com/ibrasoft/command-centre/internal/observability"
)

func newAuthTestApp(t *testing.T, botAPIKey string) (*fiber.App, *auth.TokenIssuer) {
	t.Helper()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	issuer, err := auth.NewTokenIssuer(config.AuthConfig{
		JWTSecret:       base64.StdEncoding.EncodeToString([]byte("a-transport-test-signing-secret")),
		JWTIssuer:       "command-centre",
		UserTokenTTLSec: 3600,
		BotTokenTTLSec:  7200,
	})
	require.NoError(t, err)

	sessions := auth.NewMemorySessionStore()
	gatekeeper := auth.NewGatekeeper(auth.GatekeeperConfig{
		Resolvers: []auth.Resolver{
			auth.StaticKeyResolver(botAPIKey),
			auth.BearerTokenResolver(issuer, logger),
			auth.SessionResolver(sessions, logger),
		},
		Sessions:  sessions,
		AllowList: auth.DefaultAllowList,
		Logger:    logger,
		Metrics:   metrics,
	})

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)

	authHandler := handlers.NewAuthHandler(handlers.AuthHandlerConfig{
		Tokens:    issuer,
		Sessions:  sessions,
		BotAPIKey: botAPIKey,
		Logger:    logger,
	})
	app.Use(gatekeeper.Handle)
	app.Post("/api/auth/bot-token", authHandler.BotToken)

	return app, issuer
}

func postBotToken(t *testing.T, app *fiber.App, key string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/bot-token", nil)
	if key != "" {
		req.Header.Set("X-Bot-Key", key)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return resp, body
}

func TestBotTokenRequiresConfiguredKey(t *testing.T) {
	app, _ := newAuthTestApp(t, "")

	resp, body := postBotToken(t, app, "anything")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "UNCONFIGURED_SECRET", errBody["code"])
}

func TestBotTokenRejectsWrongKey(t *testing.T) {
	app, _ := newAuthTestApp(t, "the-bot-key")

	resp, body := postBotToken(t, app, "wrong-key")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	errBody, ok := body["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "UNAUTHORIZED", errBody["code"])
}

func TestBotTokenRejectsMissingKey(t *testing.T) {
	app, _ := newAuthTestApp(t, "the-bot-key")

	resp, _ := postBotToken(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBotTokenMintsLongLivedBotCredential(t *testing.T) {
	app, issuer := newAuthTestApp(t, "the-bot-key")

	resp, body := postBotToken(t, app, "the-bot-key")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	token, ok := body["token"].(string)
	require.True(t, ok)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, domain.BotSubject, claims.Subject)
	assert.Equal(t, []domain.Role{domain.RoleBot}, claims.Roles)
}
