package domain

import "fmt"

// Role is the closed set of authorities a caller may hold.
type Role string

const (
	RoleUser Role = "ROLE_USER"
	RoleBot  Role = "ROLE_BOT"
)

// ParseRole validates a role string against the closed set. Unknown
// values are rejected rather than silently passed through.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleUser, RoleBot:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

// AuthMode records how an identity was established.
type AuthMode string

const (
	AuthModeOAuth2    AuthMode = "OAUTH2"
	AuthModeToken     AuthMode = "TOKEN"
	AuthModeStaticKey AuthMode = "STATIC_KEY"
)

// BotSubject is the fixed subject the automation bot authenticates as,
// regardless of auth mode.
const BotSubject = "discord-bot"

// Identity is the normalized result of authentication resolution.
// Immutable once resolved for a request; never persisted.
type Identity struct {
	Subject string
	Roles   []Role
	Mode    AuthMode
}

// HasRole reports whether the identity carries the given role.
func (i *Identity) HasRole(role Role) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsBot reports whether the caller is the automation bot.
func (i *Identity) IsBot() bool {
	return i.Subject == BotSubject && i.HasRole(RoleBot)
}
