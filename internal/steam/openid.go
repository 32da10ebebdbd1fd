package steam

import (
	"errors"
	"strings"
)

// ErrInvalidClaimedID indicates the claimed identifier did not carry a
// numeric Steam account id
var ErrInvalidClaimedID = errors.New("claimed id does not contain a valid steam id")

// ExtractSteamID pulls the numeric Steam account id from an OpenID
// claimed identifier (e.g. https://steamcommunity.com/openid/id/7656119...).
// The trailing path segment must be a non-empty numeric token.
func ExtractSteamID(claimedID string) (string, error) {
	segment := claimedID
	if i := strings.LastIndex(claimedID, "/"); i >= 0 {
		segment = claimedID[i+1:]
	}
	if segment == "" {
		return "", ErrInvalidClaimedID
	}
	for _, r := range segment {
		if r < '0' || r > '9' {
			return "", ErrInvalidClaimedID
		}
	}
	return segment, nil
}
