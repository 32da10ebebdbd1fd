package model

import "errors"

// Common errors used across the application
var (
	// Identity errors
	ErrIdentityNotFound = errors.New("identity not found")
	ErrSteamIDExists    = errors.New("identity already exists for this steam id")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
	ErrSessionExpired  = errors.New("session has expired")

	// Stats errors
	ErrStatsNotFound = errors.New("player stats not found")
)
