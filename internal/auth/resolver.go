package auth

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ibrasoft/command-centre/internal/domain"
)

// Resolution is the outcome of one resolver: a normalized identity,
// plus the session handle when the identity came from session state.
// A nil Resolution means "no opinion" and the next resolver runs.
type Resolution struct {
	Identity domain.Identity
	Session  *Session
}

// Resolver inspects the raw request and either produces a resolution
// or declines. Resolvers must not write to the response.
type Resolver func(c *fiber.Ctx) *Resolution

// bearerValue extracts the value of an Authorization: Bearer header,
// or "" when absent.
func bearerValue(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}

// StaticKeyResolver matches the bearer value against the configured
// bot key. It runs first so a correctly keyed automation caller
// bypasses every later step, including the guild gate. The comparison
// is constant-time; an unconfigured key never matches.
func StaticKeyResolver(botAPIKey string) Resolver {
	key := []byte(botAPIKey)
	return func(c *fiber.Ctx) *Resolution {
		if len(key) == 0 {
			return nil
		}
		candidate := bearerValue(c)
		if candidate == "" {
			return nil
		}
		if subtle.ConstantTimeCompare(key, []byte(candidate)) != 1 {
			return nil
		}
		return &Resolution{Identity: domain.Identity{
			Subject: domain.BotSubject,
			Roles:   []domain.Role{domain.RoleBot},
			Mode:    domain.AuthModeStaticKey,
		}}
	}
}

// BearerTokenResolver validates a signed credential from the
// Authorization header. An invalid token is equivalent to no token:
// it logs a warning and declines rather than failing the pipeline.
func BearerTokenResolver(issuer *TokenIssuer, logger *zap.Logger) Resolver {
	return func(c *fiber.Ctx) *Resolution {
		token := bearerValue(c)
		if token == "" {
			return nil
		}

		claims, err := issuer.Parse(token)
		if err != nil {
			logger.Warn("invalid bearer token presented", zap.Error(err))
			return nil
		}

		return &Resolution{Identity: domain.Identity{
			Subject: claims.Subject,
			Roles:   claims.Roles,
			Mode:    domain.AuthModeToken,
		}}
	}
}

// SessionResolver trusts session state established by a completed
// OAuth2 login. It never contacts the provider itself.
func SessionResolver(store SessionStore, logger *zap.Logger) Resolver {
	return func(c *fiber.Ctx) *Resolution {
		id := c.Cookies(SessionCookieName)
		if id == "" {
			return nil
		}

		session, err := store.Get(c.UserContext(), id)
		if err != nil {
			if err != ErrSessionNotFound {
				logger.Warn("session lookup failed", zap.Error(err))
			}
			return nil
		}

		return &Resolution{
			Identity: domain.Identity{
				Subject: session.Subject,
				Roles:   []domain.Role{domain.RoleUser},
				Mode:    domain.AuthModeOAuth2,
			},
			Session: session,
		}
	}
}
