package discord

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/ibrasoft/command-centre/internal/config"
	"github.com/ibrasoft/command-centre/internal/domain"
)

// Client talks to the Discord REST API. It implements the guild
// membership check backing the auth gatekeeper.
type Client struct {
	baseURL         string
	requiredGuildID string
	botToken        string
	httpClient      *http.Client
	logger          *zap.Logger
}

// NewClient builds a Discord API client with a bounded HTTP timeout.
func NewClient(cfg config.DiscordConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:         cfg.APIBaseURL,
		requiredGuildID: cfg.RequiredGuildID,
		botToken:        cfg.BotToken,
		httpClient:      &http.Client{Timeout: cfg.HTTPTimeout()},
		logger:          logger,
	}
}

// UserGuilds fetches the guilds the delegated access token can see.
func (c *Client) UserGuilds(ctx context.Context, accessToken string) ([]domain.DiscordGuild, error) {
	if accessToken == "" {
		return nil, fmt.Errorf("no delegated access token")
	}

	var guilds []domain.DiscordGuild
	if err := c.getJSON(ctx, c.baseURL+"/users/@me/guilds", "Bearer "+accessToken, &guilds); err != nil {
		return nil, err
	}
	return guilds, nil
}

// IsGuildMember reports whether the subject belongs to the required
// guild. Fail-closed: any error contacting Discord, including rate
// limiting, resolves to false. No retries within the request.
func (c *Client) IsGuildMember(ctx context.Context, userID, accessToken string) bool {
	guilds, err := c.UserGuilds(ctx, accessToken)
	if err != nil {
		c.logger.Warn("guild membership check failed",
			zap.String("subject", userID),
			zap.Error(err),
		)
		return false
	}

	for _, guild := range guilds {
		if guild.ID == c.requiredGuildID {
			return true
		}
	}

	c.logger.Warn("subject is not a member of required guild",
		zap.String("subject", userID),
		zap.String("guild", c.requiredGuildID),
	)
	return false
}

// guildMember mirrors the member objects under /guilds/{id}/members.
type guildMember struct {
	Nick string `json:"nick"`
	User struct {
		ID         string `json:"id"`
		Username   string `json:"username"`
		GlobalName string `json:"global_name"`
	} `json:"user"`
}

// EffectiveName returns the guild nickname, falling back to global
// display name, then username.
func (m guildMember) EffectiveName() string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

type guildRole struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// GuildMembers lists the required guild's members using the bot token.
func (c *Client) GuildMembers(ctx context.Context) ([]guildMember, error) {
	url := fmt.Sprintf("%s/guilds/%s/members?limit=1000", c.baseURL, c.requiredGuildID)
	var members []guildMember
	if err := c.getJSON(ctx, url, "Bot "+c.botToken, &members); err != nil {
		return nil, err
	}
	return members, nil
}

// GuildRoles lists the required guild's roles using the bot token.
func (c *Client) GuildRoles(ctx context.Context) ([]guildRole, error) {
	url := fmt.Sprintf("%s/guilds/%s/roles", c.baseURL, c.requiredGuildID)
	var roles []guildRole
	if err := c.getJSON(ctx, url, "Bot "+c.botToken, &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *Client) getJSON(ctx context.Context, url, authorization string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", authorization)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("discord API rate limit exceeded")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("discord API returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, out)
}
