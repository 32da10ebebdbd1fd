package model

import "time"

// IdentityID uniquely identifies a player identity across the system
type IdentityID string

// Identity represents a player authenticated through Steam.
// Exactly one Identity exists per distinct SteamID.
type Identity struct {
	ID          IdentityID
	SteamID     string // 64-bit Steam account id, assigned by Steam, immutable
	DisplayName string
	AvatarURL   string
	ProfileURL  string
	CreatedAt   time.Time
	LastLogin   time.Time
}
