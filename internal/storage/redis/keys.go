package redis

import (
	"fmt"

	"github.com/pr-poehali-dev/cs2-gaming-public/internal/model"
)

// Key prefix for all backend data
const keyPrefix = "cs2"

// identityKey returns the Redis key for an Identity
func identityKey(id model.IdentityID) string {
	return fmt.Sprintf("%s:identity:%s", keyPrefix, id)
}

// steamIndexKey returns the Redis key for the steam_id -> identity_id index
func steamIndexKey(steamID string) string {
	return fmt.Sprintf("%s:idx:steam:%s", keyPrefix, steamID)
}

// sessionKey returns the Redis key for a Session
func sessionKey(token string) string {
	return fmt.Sprintf("%s:session:%s", keyPrefix, token)
}

// statsKey returns the Redis key for a PlayerStats row
func statsKey(id model.IdentityID) string {
	return fmt.Sprintf("%s:stats:%s", keyPrefix, id)
}

// killsLeaderboardKey is the sorted set of identity ids scored by kills,
// used for rank counting
const killsLeaderboardKey = keyPrefix + ":leaderboard:kills"
