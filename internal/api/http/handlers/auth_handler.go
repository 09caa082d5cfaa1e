package handlers

import (
	"crypto/subtle"
	"net/http"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ibrasoft/command-centre/internal/api/dto"
	"github.com/ibrasoft/command-centre/internal/auth"
	"github.com/ibrasoft/command-centre/internal/discord"
	"github.com/ibrasoft/command-centre/internal/domain"
	"github.com/ibrasoft/command-centre/pkg/util"
)

const stateCookieName = "cc_oauth_state"

// AuthHandler owns the login flow and credential issuance. The guild
// check happens here at login time, not deferred to the first API call.
type AuthHandler struct {
	oauth       *discord.OAuthClient
	guilds      *discord.Client
	tokens      *auth.TokenIssuer
	sessions    auth.SessionStore
	sessionTTL  time.Duration
	frontendURL string
	botAPIKey   string
	logger      *zap.Logger
}

// AuthHandlerConfig bundles the handler's dependencies.
type AuthHandlerConfig struct {
	OAuth       *discord.OAuthClient
	Guilds      *discord.Client
	Tokens      *auth.TokenIssuer
	Sessions    auth.SessionStore
	SessionTTL  time.Duration
	FrontendURL string
	BotAPIKey   string
	Logger      *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(cfg AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		oauth:       cfg.OAuth,
		guilds:      cfg.Guilds,
		tokens:      cfg.Tokens,
		sessions:    cfg.Sessions,
		sessionTTL:  cfg.SessionTTL,
		frontendURL: cfg.FrontendURL,
		botAPIKey:   cfg.BotAPIKey,
		logger:      cfg.Logger,
	}
}

// Login handles GET /api/auth/login: redirect the browser to Discord.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	state := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     stateCookieName,
		Value:    state,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(10 * time.Minute),
	})
	return c.Redirect(h.oauth.AuthorizeURL(state), http.StatusFound)
}

// Callback handles GET /api/auth/callback: complete the code exchange,
// enforce the guild gate immediately, then establish a session and
// deliver a user credential via redirect parameter.
func (h *AuthHandler) Callback(c *fiber.Ctx) error {
	if errParam := c.Query("error"); errParam != "" {
		return c.Redirect(h.frontendURL+"/login?error=true", http.StatusFound)
	}

	state := c.Query("state")
	if state == "" || state != c.Cookies(stateCookieName) {
		return util.NewUnauthorized("oauth state mismatch")
	}
	c.ClearCookie(stateCookieName)

	code := c.Query("code")
	if code == "" {
		return util.NewUnauthorized("missing authorization code")
	}

	ctx := c.UserContext()
	accessToken, err := h.oauth.ExchangeCode(ctx, code)
	if err != nil {
		h.logger.Warn("oauth code exchange failed", zap.Error(err))
		return c.Redirect(h.frontendURL+"/login?error=true", http.StatusFound)
	}

	user, err := h.oauth.CurrentUser(ctx, accessToken)
	if err != nil {
		h.logger.Warn("oauth user lookup failed", zap.Error(err))
		return c.Redirect(h.frontendURL+"/login?error=true", http.StatusFound)
	}

	if !h.guilds.IsGuildMember(ctx, user.ID, accessToken) {
		h.logger.Warn("login denied for subject not in required guild",
			zap.String("subject", user.ID))
		return c.Redirect(h.frontendURL+"/login?error=guild", http.StatusFound)
	}

	session := auth.NewSession(user.ID, user.Username, accessToken, h.sessionTTL)
	session.GuildVerified = true
	if err := h.sessions.Create(ctx, session); err != nil {
		return util.NewInternalError(err)
	}
	c.Cookie(&fiber.Cookie{
		Name:     auth.SessionCookieName,
		Value:    session.ID,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  session.ExpiresAt,
	})

	token, _, err := h.tokens.IssueUserToken(user.ID, []domain.Role{domain.RoleUser})
	if err != nil {
		return util.NewInternalError(err)
	}

	redirect := h.frontendURL + "?token=" + url.QueryEscape(token)
	return c.Redirect(redirect, http.StatusFound)
}

// Success handles GET /api/auth/success: mint a user credential for an
// established session.
func (h *AuthHandler) Success(c *fiber.Ctx) error {
	session := h.currentSession(c)
	if session == nil {
		return util.NewUnauthorized("not authenticated")
	}

	token, exp, err := h.tokens.IssueUserToken(session.Subject, []domain.Role{domain.RoleUser})
	if err != nil {
		return util.NewInternalError(err)
	}

	return c.JSON(fiber.Map{
		"status":  "success",
		"message": "Successfully authenticated with Discord",
		"token":   token,
		"user": fiber.Map{
			"id":       session.Subject,
			"username": session.Username,
		},
		"expires_at": exp,
	})
}

// Failure handles GET /api/auth/failure.
func (h *AuthHandler) Failure(c *fiber.Ctx) error {
	return c.Status(http.StatusUnauthorized).JSON(fiber.Map{
		"status":  "error",
		"message": "Authentication with Discord failed",
	})
}

// User handles GET /api/auth/user: echo the caller behind the session
// or bearer credential.
func (h *AuthHandler) User(c *fiber.Ctx) error {
	if session := h.currentSession(c); session != nil {
		return c.JSON(fiber.Map{
			"id":       session.Subject,
			"username": session.Username,
		})
	}

	if identity, ok := auth.IdentityFromContext(c); ok {
		return c.JSON(identityResponse(identity))
	}

	return util.NewUnauthorized("not authenticated")
}

// Guilds handles GET /api/auth/guilds: list the session user's guilds.
func (h *AuthHandler) Guilds(c *fiber.Ctx) error {
	session := h.currentSession(c)
	if session == nil {
		return util.NewUnauthorized("not authenticated")
	}

	guilds, err := h.guilds.UserGuilds(c.UserContext(), session.AccessToken)
	if err != nil {
		return util.NewInternalError(err)
	}
	return c.JSON(guilds)
}

// BotToken handles POST /api/auth/bot-token: mint a long-lived bot
// credential for a caller presenting the static key. The static key is
// the trust anchor; no guild check applies.
func (h *AuthHandler) BotToken(c *fiber.Ctx) error {
	if h.botAPIKey == "" {
		return util.NewUnconfiguredSecret("bot API key not configured")
	}

	presented := c.Get("X-Bot-Key")
	if presented == "" || subtle.ConstantTimeCompare([]byte(h.botAPIKey), []byte(presented)) != 1 {
		h.logger.Warn("bot token request with invalid key")
		return util.NewUnauthorized("invalid bot key")
	}

	token, exp, err := h.tokens.IssueBotToken(domain.BotSubject, []domain.Role{domain.RoleBot})
	if err != nil {
		return util.NewInternalError(err)
	}
	return c.JSON(dto.AuthResponse{Token: token, ExpiresAt: exp})
}

// currentSession loads the caller's session, if any. Auth endpoints sit
// on the gatekeeper allow-list, so the session is resolved here.
func (h *AuthHandler) currentSession(c *fiber.Ctx) *auth.Session {
	if session, ok := auth.SessionFromContext(c); ok {
		return session
	}
	id := c.Cookies(auth.SessionCookieName)
	if id == "" {
		return nil
	}
	session, err := h.sessions.Get(c.UserContext(), id)
	if err != nil {
		return nil
	}
	return session
}

func identityResponse(identity *domain.Identity) dto.IdentityResponse {
	roles := make([]string, len(identity.Roles))
	for i, role := range identity.Roles {
		roles[i] = string(role)
	}
	return dto.IdentityResponse{
		Subject:  identity.Subject,
		Roles:    roles,
		AuthMode: string(identity.Mode),
	}
}
