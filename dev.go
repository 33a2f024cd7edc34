package auth

import "time"

// DevBypassHeader is the request header the development bypass reads.
const DevBypassHeader = "X-Dev-User"

// DevBypass maps a fixed header value to a canned identity so frontend work
// does not need a login round-trip. It is inert unless Enabled is set, and
// the middleware refuses an enabled bypass outside the development posture,
// so it can never be reached in production.
type DevBypass struct {
	Enabled    bool
	Header     string
	Identities map[string]AuthenticatedIdentity
}

// DefaultDevBypass returns a bypass with a single "dev" identity, suitable
// for local development.
func DefaultDevBypass() DevBypass {
	now := time.Now()
	return DevBypass{
		Enabled: true,
		Header:  DevBypassHeader,
		Identities: map[string]AuthenticatedIdentity{
			"dev": {
				UserID:    "00000000-0000-0000-0000-000000000001",
				Email:     "dev@campuslink.local",
				TokenID:   "dev-bypass",
				IssuedAt:  now,
				ExpiresAt: now.Add(24 * time.Hour),
			},
		},
	}
}

// IdentityFor resolves a header value to its canned identity. Always misses
// when the bypass is disabled.
func (d DevBypass) IdentityFor(value string) (*AuthenticatedIdentity, bool) {
	if !d.Enabled || value == "" {
		return nil, false
	}
	identity, ok := d.Identities[value]
	if !ok {
		return nil, false
	}
	clone := identity
	return &clone, true
}

// HeaderName returns the configured header, falling back to DevBypassHeader.
func (d DevBypass) HeaderName() string {
	if d.Header != "" {
		return d.Header
	}
	return DevBypassHeader
}
