package domain

// DiscordGuild mirrors the guild objects returned by the Discord API.
// Only ID is consulted for the membership gate; the rest is passed
// through to the frontend. Permissions is a string because Discord
// encodes it as a bitfield that can exceed 32-bit integer range.
type DiscordGuild struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Icon        string `json:"icon"`
	Owner       bool   `json:"owner"`
	Permissions string `json:"permissions"`
}
