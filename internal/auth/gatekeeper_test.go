package auth

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ibrasoft/command-centre/internal/domain"
	"github.com/ibrasoft/command-centre/internal/observability"
)

// fakeMembership is a MembershipChecker with a fixed verdict and a
// call counter.
type fakeMembership struct {
	verdict bool
	calls   atomic.Int64
}

func (f *fakeMembership) IsGuildMember(_ context.Context, _, _ string) bool {
	f.calls.Add(1)
	return f.verdict
}

type gateFixture struct {
	app        *fiber.App
	issuer     *TokenIssuer
	sessions   *MemorySessionStore
	membership *fakeMembership
}

func newGateFixture(t *testing.T, botKey string, member bool) *gateFixture {
	t.Helper()

	issuer := newTestIssuer(t)
	sessions := NewMemorySessionStore()
	membership := &fakeMembership{verdict: member}
	logger := zap.NewNop()

	gatekeeper := NewGatekeeper(GatekeeperConfig{
		Resolvers: []Resolver{
			StaticKeyResolver(botKey),
			BearerTokenResolver(issuer, logger),
			SessionResolver(sessions, logger),
		},
		Membership: membership,
		Sessions:   sessions,
		AllowList:  DefaultAllowList,
		Logger:     logger,
		Metrics:    observability.NewMetrics(),
	})

	app := fiber.New()
	app.Use(gatekeeper.Handle)
	app.Get("/api/requests", func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		require.True(t, ok)
		return c.JSON(fiber.Map{
			"subject": identity.Subject,
			"mode":    identity.Mode,
		})
	})
	app.Get("/health/live", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	return &gateFixture{app: app, issuer: issuer, sessions: sessions, membership: membership}
}

func (f *gateFixture) get(t *testing.T, path string, decorate func(*http.Request)) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if decorate != nil {
		decorate(req)
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestGatekeeperRejectsAnonymousCaller(t *testing.T) {
	f := newGateFixture(t, "bot-key", true)

	resp := f.get(t, "/api/requests", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int64(0), f.membership.calls.Load())
}

func TestGatekeeperAllowListBypassesAuth(t *testing.T) {
	f := newGateFixture(t, "bot-key", false)

	resp := f.get(t, "/health/live", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestStaticKeyWinsWithoutGuildCheck(t *testing.T) {
	f := newGateFixture(t, "bot-key", false)

	resp := f.get(t, "/api/requests", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer bot-key")
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, domain.BotSubject, body["subject"])
	assert.Equal(t, string(domain.AuthModeStaticKey), body["mode"])
	assert.Equal(t, int64(0), f.membership.calls.Load())
}

func TestUnconfiguredStaticKeyNeverMatches(t *testing.T) {
	f := newGateFixture(t, "", true)

	resp := f.get(t, "/api/requests", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer ")
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBearerTokenAuthenticates(t *testing.T) {
	f := newGateFixture(t, "bot-key", false)

	token, _, err := f.issuer.IssueUserToken("184325", []domain.Role{domain.RoleUser})
	require.NoError(t, err)

	resp := f.get(t, "/api/requests", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "184325", body["subject"])
	assert.Equal(t, string(domain.AuthModeToken), body["mode"])
	// Token callers are trusted for the token lifetime; no oracle call.
	assert.Equal(t, int64(0), f.membership.calls.Load())
}

func TestExpiredBearerTokenRejected(t *testing.T) {
	f := newGateFixture(t, "bot-key", true)

	token, _, err := f.issuer.issue("184325", []domain.Role{domain.RoleUser}, -time.Minute)
	require.NoError(t, err)

	resp := f.get(t, "/api/requests", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func seedSession(t *testing.T, f *gateFixture, subject string) *Session {
	t.Helper()
	session := NewSession(subject, "tester", "delegated-token", time.Hour)
	require.NoError(t, f.sessions.Create(context.Background(), session))
	return session
}

func withSessionCookie(session *Session) func(*http.Request) {
	return func(req *http.Request) {
		req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: session.ID})
	}
}

func TestSessionMemberVerdictCachedPerSession(t *testing.T) {
	f := newGateFixture(t, "bot-key", true)
	session := seedSession(t, f, "184325")

	for i := 0; i < 3; i++ {
		resp := f.get(t, "/api/requests", withSessionCookie(session))
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	// One oracle call for the first request; later ones reuse the verdict.
	assert.Equal(t, int64(1), f.membership.calls.Load())

	stored, err := f.sessions.Get(context.Background(), session.ID)
	require.NoError(t, err)
	assert.True(t, stored.GuildVerified)
}

func TestSessionDeniedDestroysSession(t *testing.T) {
	f := newGateFixture(t, "bot-key", false)
	session := seedSession(t, f, "184325")

	resp := f.get(t, "/api/requests", withSessionCookie(session))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "Access Denied", body["error"])
	assert.Equal(t,
		"You must be a member of the required Discord server to access this API",
		body["message"])

	_, err := f.sessions.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The dead cookie now resolves to nothing at all.
	resp = f.get(t, "/api/requests", withSessionCookie(session))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, int64(1), f.membership.calls.Load())
}

func TestDeniedVerdictIsNotCached(t *testing.T) {
	f := newGateFixture(t, "bot-key", false)

	first := seedSession(t, f, "184325")
	resp := f.get(t, "/api/requests", withSessionCookie(first))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A fresh login after the denial re-checks the oracle.
	f.membership.verdict = true
	second := seedSession(t, f, "184325")
	resp = f.get(t, "/api/requests", withSessionCookie(second))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, int64(2), f.membership.calls.Load())
}

func TestStaticKeyTakesPrecedenceOverToken(t *testing.T) {
	f := newGateFixture(t, "bot-key", false)

	// A request carrying both a session cookie and the static key
	// resolves as the bot; the session resolver never runs.
	session := seedSession(t, f, "184325")
	resp := f.get(t, "/api/requests", func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer bot-key")
		withSessionCookie(session)(req)
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, domain.BotSubject, body["subject"])
	assert.Equal(t, int64(0), f.membership.calls.Load())
}
