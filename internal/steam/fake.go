package steam

import (
	"context"
	"net/url"
)

// Fake is a steam client stand-in for tests: validation outcome and
// profiles are controlled directly instead of over the network.
type Fake struct {
	// Valid controls the outcome of ValidateCallback
	Valid bool

	// Profiles maps steam ids to profiles; missing ids get the same
	// deterministic fallback as the real client
	Profiles map[string]Profile
}

// NewFake creates a Fake that accepts all callbacks
func NewFake() *Fake {
	return &Fake{
		Valid:    true,
		Profiles: make(map[string]Profile),
	}
}

// BuildLoginURL mirrors the real client against the default endpoint
func (f *Fake) BuildLoginURL(returnURL string) string {
	return buildLoginURL(DefaultOpenIDURL, returnURL)
}

// ValidateCallback returns the configured outcome
func (f *Fake) ValidateCallback(_ context.Context, _ url.Values) bool {
	return f.Valid
}

// FetchProfile returns the configured profile or the fallback
func (f *Fake) FetchProfile(_ context.Context, steamID string) Profile {
	if p, ok := f.Profiles[steamID]; ok {
		return p
	}
	return fallbackProfile(steamID)
}
