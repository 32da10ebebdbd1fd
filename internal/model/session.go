package model

import "time"

// Session represents an issued bearer token.
// Sessions are never deleted; logout sets ExpiresAt to the revocation
// time, which keeps an audit trail of every token ever issued.
type Session struct {
	Token      string // opaque random token, unique, never reused
	IdentityID IdentityID
	CreatedAt  time.Time
	ExpiresAt  time.Time
}

// Valid reports whether the session is live at the given instant
func (s *Session) Valid(now time.Time) bool {
	return now.Before(s.ExpiresAt)
}
