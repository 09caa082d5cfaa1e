package auth

import (
	"errors"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/ibrasoft/command-centre/internal/config"
	"github.com/ibrasoft/command-centre/internal/domain"
)

// ErrInvalidToken covers every verification failure: bad signature,
// wrong issuer, expired or not-yet-valid token, malformed claims.
var ErrInvalidToken = errors.New("invalid token")

// TokenIssuer mints and validates the signed credentials used for
// stateless API calls. Stateless across calls; all state is in the
// token itself.
type TokenIssuer struct {
	key     []byte
	issuer  string
	userTTL time.Duration
	botTTL  time.Duration
}

// NewTokenIssuer decodes the configured base64 secret and builds an
// issuer. An unconfigured secret is a deployment error and fails here.
func NewTokenIssuer(cfg config.AuthConfig) (*TokenIssuer, error) {
	key, err := cfg.SigningKey()
	if err != nil {
		return nil, err
	}

	userTTL := time.Duration(cfg.UserTokenTTLSec) * time.Second
	if userTTL <= 0 {
		userTTL = 7 * 24 * time.Hour
	}
	botTTL := time.Duration(cfg.BotTokenTTLSec) * time.Second
	if botTTL <= 0 {
		botTTL = 365 * 24 * time.Hour
	}

	return &TokenIssuer{
		key:     key,
		issuer:  cfg.JWTIssuer,
		userTTL: userTTL,
		botTTL:  botTTL,
	}, nil
}

// Claims is the validated payload of a credential. Roles is never nil.
type Claims struct {
	Subject string
	Roles   []domain.Role
}

type tokenClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// IssueUserToken mints a short-lived credential for a browser user.
func (t *TokenIssuer) IssueUserToken(subject string, roles []domain.Role) (string, time.Time, error) {
	return t.issue(subject, roles, t.userTTL)
}

// IssueBotToken mints a long-lived credential for the automation bot.
func (t *TokenIssuer) IssueBotToken(subject string, roles []domain.Role) (string, time.Time, error) {
	return t.issue(subject, roles, t.botTTL)
}

func (t *TokenIssuer) issue(subject string, roles []domain.Role, ttl time.Duration) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(ttl)

	roleNames := make([]string, len(roles))
	for i, role := range roles {
		roleNames[i] = string(role)
	}

	claims := &tokenClaims{
		Roles: roleNames,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(t.key)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse validates a credential and returns its claims. Signature,
// issuer, and validity window are all enforced; role strings outside
// the closed enum are rejected.
func (t *TokenIssuer) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &tokenClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return t.key, nil
	},
		jwt.WithIssuer(t.issuer),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	roles := make([]domain.Role, 0, len(claims.Roles))
	for _, name := range claims.Roles {
		role, err := domain.ParseRole(name)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		roles = append(roles, role)
	}

	return &Claims{Subject: claims.Subject, Roles: roles}, nil
}
