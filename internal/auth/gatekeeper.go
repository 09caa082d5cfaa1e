package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/ibrasoft/command-centre/internal/domain"
	"github.com/ibrasoft/command-centre/internal/observability"
)

const (
	identityKey = "auth_identity"
	sessionKey  = "auth_session"
)

// guildDeniedMessage is the stable caller-facing denial message.
const guildDeniedMessage = "You must be a member of the required Discord server to access this API"

// DefaultAllowList names the path prefixes open to unauthenticated
// callers. "/" matches the root path only.
var DefaultAllowList = []string{
	"/",
	"/login",
	"/oauth2",
	"/error",
	"/api/auth/",
	"/health",
	"/api/workload/",
}

// MembershipChecker answers whether a subject belongs to the required
// guild, given that subject's delegated access token. Implementations
// are fail-closed: any ambiguity resolves to false.
type MembershipChecker interface {
	IsGuildMember(ctx context.Context, userID, accessToken string) bool
}

// Gatekeeper runs the resolver pipeline once per request and enforces
// the guild gate for OAuth2-derived identities. Resolver order is
// fixed; exactly one resolver contributes the identity.
type Gatekeeper struct {
	resolvers  []Resolver
	membership MembershipChecker
	sessions   SessionStore
	allowList  []string
	logger     *zap.Logger
	metrics    *observability.Metrics
}

// GatekeeperConfig bundles gatekeeper dependencies.
type GatekeeperConfig struct {
	Resolvers  []Resolver
	Membership MembershipChecker
	Sessions   SessionStore
	AllowList  []string
	Logger     *zap.Logger
	Metrics    *observability.Metrics
}

// NewGatekeeper builds the per-request pipeline.
func NewGatekeeper(cfg GatekeeperConfig) *Gatekeeper {
	return &Gatekeeper{
		resolvers:  cfg.Resolvers,
		membership: cfg.Membership,
		sessions:   cfg.Sessions,
		allowList:  cfg.AllowList,
		logger:     cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// Handle is the fiber middleware enforcing authentication and the
// guild membership gate for every protected route.
func (g *Gatekeeper) Handle(c *fiber.Ctx) error {
	if g.isAllowListed(c.Path()) {
		return c.Next()
	}

	resolution := g.resolve(c)
	if resolution == nil {
		return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
			"error":   "Unauthorized",
			"message": "authentication required",
		})
	}

	if resolution.Identity.Mode == domain.AuthModeOAuth2 {
		if err := g.enforceGuildGate(c, resolution); err != nil {
			return err
		}
	}

	c.Locals(identityKey, &resolution.Identity)
	if resolution.Session != nil {
		c.Locals(sessionKey, resolution.Session)
	}
	return c.Next()
}

// resolve runs the resolvers in order; the first opinion wins and no
// later resolver observes the request.
func (g *Gatekeeper) resolve(c *fiber.Ctx) *Resolution {
	for _, resolver := range g.resolvers {
		if resolution := resolver(c); resolution != nil {
			return resolution
		}
	}
	return nil
}

// enforceGuildGate verifies guild membership for a session-derived
// identity, reusing the session's cached verdict when present. Only a
// positive verdict is cached; a denied subject re-checks next request.
func (g *Gatekeeper) enforceGuildGate(c *fiber.Ctx, resolution *Resolution) error {
	session := resolution.Session
	if session != nil && session.GuildVerified {
		return nil
	}

	subject := resolution.Identity.Subject
	g.logger.Info("checking guild membership", zap.String("subject", subject))
	g.metrics.RecordGuildCheck()

	accessToken := ""
	if session != nil {
		accessToken = session.AccessToken
	}

	if !g.membership.IsGuildMember(c.UserContext(), subject, accessToken) {
		g.logger.Warn("subject is not in required guild", zap.String("subject", subject))
		if session != nil {
			if err := g.sessions.Destroy(c.UserContext(), session.ID); err != nil {
				g.logger.Warn("failed to destroy session", zap.Error(err))
			}
			c.ClearCookie(SessionCookieName)
		}
		return c.Status(http.StatusForbidden).JSON(fiber.Map{
			"error":   "Access Denied",
			"message": guildDeniedMessage,
		})
	}

	if session != nil {
		session.GuildVerified = true
		if err := g.sessions.Save(c.UserContext(), session); err != nil {
			// Verdict stays valid for this request; the next one re-checks.
			g.logger.Warn("failed to persist membership verdict", zap.Error(err))
		}
	}
	g.logger.Info("subject verified as guild member", zap.String("subject", subject))
	return nil
}

func (g *Gatekeeper) isAllowListed(path string) bool {
	for _, prefix := range g.allowList {
		if prefix == "/" {
			if path == "/" {
				return true
			}
			continue
		}
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IdentityFromContext retrieves the authenticated identity.
func IdentityFromContext(c *fiber.Ctx) (*domain.Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*domain.Identity)
	return identity, ok
}

// SessionFromContext retrieves the session handle for OAuth2 callers.
func SessionFromContext(c *fiber.Ctx) (*Session, bool) {
	val := c.Locals(sessionKey)
	if val == nil {
		return nil, false
	}
	session, ok := val.(*Session)
	return session, ok
}
