package dto

import "time"

// AuthResponse standard response for token issuance endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IdentityResponse echoes the authenticated identity.
type IdentityResponse struct {
	Subject  string   `json:"subject"`
	Roles    []string `json:"roles"`
	AuthMode string   `json:"authMode"`
}

// MappingLookupRequest is the payload for bulk name lookups.
type MappingLookupRequest struct {
	IDs []string `json:"ids"`
}
