package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ibrasoft/command-centre/internal/config"
	"github.com/ibrasoft/command-centre/internal/domain"
)

func testAuthConfig(secret string) config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:       base64.StdEncoding.EncodeToString([]byte(secret)),
		JWTIssuer:       "command-centre",
		UserTokenTTLSec: 3600,
		BotTokenTTLSec:  7200,
	}
}

func newTestIssuer(t *testing.T) *TokenIssuer {
	t.Helper()
	issuer, err := NewTokenIssuer(testAuthConfig("a-test-signing-secret-of-decent-length"))
	require.NoError(t, err)
	return issuer
}

func TestNewTokenIssuerRejectsMissingSecret(t *testing.T) {
	_, err := NewTokenIssuer(config.AuthConfig{JWTIssuer: "command-centre"})
	assert.Error(t, err)
}

func TestNewTokenIssuerRejectsMalformedSecret(t *testing.T) {
	_, err := NewTokenIssuer(config.AuthConfig{
		JWTSecret: "not!!valid//base64===",
		JWTIssuer: "command-centre",
	})
	assert.Error(t, err)
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := newTestIssuer(t)

	token, expiresAt, err := issuer.IssueUserToken("184325", []domain.Role{domain.RoleUser})
	require.NoError(t, err)
	assert.True(t, expiresAt.After(time.Now()))

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, "184325", claims.Subject)
	assert.Equal(t, []domain.Role{domain.RoleUser}, claims.Roles)
}

func TestBotTokenCarriesBotRole(t *testing.T) {
	issuer := newTestIssuer(t)

	token, _, err := issuer.IssueBotToken(domain.BotSubject, []domain.Role{domain.RoleBot})
	require.NoError(t, err)

	claims, err := issuer.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, domain.BotSubject, claims.Subject)
	assert.Equal(t, []domain.Role{domain.RoleBot}, claims.Roles)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	issuer := newTestIssuer(t)

	token, _, err := issuer.issue("184325", []domain.Role{domain.RoleUser}, -time.Hour)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	issuer := newTestIssuer(t)
	other, err := NewTokenIssuer(testAuthConfig("a-completely-different-signing-secret"))
	require.NoError(t, err)

	token, _, err := other.IssueUserToken("184325", []domain.Role{domain.RoleUser})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsWrongIssuer(t *testing.T) {
	issuer := newTestIssuer(t)

	otherCfg := testAuthConfig("a-test-signing-secret-of-decent-length")
	otherCfg.JWTIssuer = "someone-else"
	other, err := NewTokenIssuer(otherCfg)
	require.NoError(t, err)

	token, _, err := other.IssueUserToken("184325", []domain.Role{domain.RoleUser})
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsUnknownRole(t *testing.T) {
	issuer := newTestIssuer(t)

	token, _, err := issuer.issue("184325", []domain.Role{domain.Role("ROLE_ADMIN")}, time.Hour)
	require.NoError(t, err)

	_, err = issuer.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseRejectsGarbage(t *testing.T) {
	issuer := newTestIssuer(t)

	_, err := issuer.Parse("definitely.not.a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
