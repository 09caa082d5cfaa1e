package discord

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

const (
	unknownUser = "Unknown User"
	unknownRole = "Unknown Role"
)

// MappingService caches Discord member nicknames and role names for
// the required guild, so request views can render names without a
// Discord round trip. The cache is refreshed periodically in the
// background; lookups never block on the API.
type MappingService struct {
	client   *Client
	logger   *zap.Logger
	interval time.Duration

	mu    sync.RWMutex
	users map[string]string
	roles map[string]string
}

// NewMappingService builds the cache around the given Discord client.
func NewMappingService(client *Client, interval time.Duration, logger *zap.Logger) *MappingService {
	return &MappingService{
		client:   client,
		logger:   logger,
		interval: interval,
		users:    make(map[string]string),
		roles:    make(map[string]string),
	}
}

// Start populates the cache in the background and refreshes it until
// ctx is cancelled. Startup never waits on the Discord API; lookups
// return the unknown placeholders until the first refresh lands.
func (m *MappingService) Start(ctx context.Context) {
	go func() {
		m.Refresh(ctx)

		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.Refresh(ctx)
			}
		}
	}()
}

// Refresh reloads both caches from the Discord API. A failed reload
// keeps the previous cache contents.
func (m *MappingService) Refresh(ctx context.Context) {
	members, err := m.client.GuildMembers(ctx)
	if err != nil {
		m.logger.Warn("failed to refresh member mappings", zap.Error(err))
	} else {
		users := make(map[string]string, len(members))
		for _, member := range members {
			users[member.User.ID] = member.EffectiveName()
		}
		m.mu.Lock()
		m.users = users
		m.mu.Unlock()
	}

	roles, err := m.client.GuildRoles(ctx)
	if err != nil {
		m.logger.Warn("failed to refresh role mappings", zap.Error(err))
		return
	}
	names := make(map[string]string, len(roles))
	for _, role := range roles {
		names[role.ID] = role.Name
	}
	m.mu.Lock()
	m.roles = names
	m.mu.Unlock()
}

// Nickname resolves a member's effective name.
func (m *MappingService) Nickname(userID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if name, ok := m.users[userID]; ok {
		return name
	}
	return unknownUser
}

// RoleName resolves a role's display name.
func (m *MappingService) RoleName(roleID string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if name, ok := m.roles[roleID]; ok {
		return name
	}
	return unknownRole
}

// Nicknames resolves names for a batch of member IDs.
func (m *MappingService) Nicknames(userIDs []string) map[string]string {
	result := make(map[string]string, len(userIDs))
	for _, id := range userIDs {
		result[id] = m.Nickname(id)
	}
	return result
}

// RoleNames resolves names for a batch of role IDs.
func (m *MappingService) RoleNames(roleIDs []string) map[string]string {
	result := make(map[string]string, len(roleIDs))
	for _, id := range roleIDs {
		result[id] = m.RoleName(id)
	}
	return result
}
