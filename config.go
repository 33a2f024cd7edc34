package auth

import (
	"time"

	"github.com/goliatone/go-errors"
)

const (
	// DefaultTokenTTL is the standard session lifetime.
	DefaultTokenTTL = 24 * time.Hour
	// DefaultSweepInterval bounds how long an expired-but-not-revoked entry
	// can linger in the registry.
	DefaultSweepInterval = 5 * time.Minute
	// DefaultContextKey is where the middleware stores the identity.
	DefaultContextKey = "session"
	// DefaultAuthScheme prefixes the credential in the Authorization header.
	DefaultAuthScheme = "Bearer"
	// DefaultTokenLookup mirrors the jwtware lookup syntax.
	DefaultTokenLookup = "header:Authorization"

	// EnvDevelopment marks the only posture in which the dev bypass and the
	// sessions debug endpoint are allowed to exist.
	EnvDevelopment = "development"
	// EnvProduction is the default posture when none is configured.
	EnvProduction = "production"

	// minSigningKeyBytes is enforced outside development. HS256 keys shorter
	// than the hash size weaken the MAC.
	minSigningKeyBytes = 32
)

// SimpleConfig is a concrete Config with sane defaults applied by Normalize.
type SimpleConfig struct {
	SigningKey       string        `json:"signing_key" koanf:"signing_key"`
	TokenTTL         time.Duration `json:"token_ttl" koanf:"token_ttl"`
	ExtendedTokenTTL time.Duration `json:"extended_token_ttl" koanf:"extended_token_ttl"`
	Issuer           string        `json:"issuer" koanf:"issuer"`
	Audience         []string      `json:"audience" koanf:"audience"`
	ContextKey       string        `json:"context_key" koanf:"context_key"`
	AuthScheme       string        `json:"auth_scheme" koanf:"auth_scheme"`
	TokenLookup      string        `json:"token_lookup" koanf:"token_lookup"`
	SweepInterval    time.Duration `json:"sweep_interval" koanf:"sweep_interval"`
	Environment      string        `json:"environment" koanf:"environment"`
}

var _ Config = (*SimpleConfig)(nil)

// Normalize fills zero-valued optional fields with defaults. The extended
// TTL defaults to the standard one; the source system never distinguished
// the two durations and nothing here requires that they differ.
func (c *SimpleConfig) Normalize() *SimpleConfig {
	if c.TokenTTL <= 0 {
		c.TokenTTL = DefaultTokenTTL
	}
	if c.ExtendedTokenTTL <= 0 {
		c.ExtendedTokenTTL = c.TokenTTL
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.ContextKey == "" {
		c.ContextKey = DefaultContextKey
	}
	if c.AuthScheme == "" {
		c.AuthScheme = DefaultAuthScheme
	}
	if c.TokenLookup == "" {
		c.TokenLookup = DefaultTokenLookup
	}
	if c.Environment == "" {
		c.Environment = EnvProduction
	}
	return c
}

// Validate rejects configurations that must never reach production: a
// missing signing key is an error everywhere, a short one only outside
// development.
func (c *SimpleConfig) Validate() error {
	if c.SigningKey == "" {
		return errors.New("signing key is required", errors.CategoryValidation)
	}
	if c.Environment != EnvDevelopment && len(c.SigningKey) < minSigningKeyBytes {
		return errors.New("signing key must be at least 32 bytes outside development", errors.CategoryValidation)
	}
	return nil
}

func (c *SimpleConfig) GetSigningKey() string              { return c.SigningKey }
func (c *SimpleConfig) GetTokenTTL() time.Duration         { return c.TokenTTL }
func (c *SimpleConfig) GetExtendedTokenTTL() time.Duration { return c.ExtendedTokenTTL }
func (c *SimpleConfig) GetIssuer() string                  { return c.Issuer }
func (c *SimpleConfig) GetAudience() []string              { return c.Audience }
func (c *SimpleConfig) GetContextKey() string              { return c.ContextKey }
func (c *SimpleConfig) GetAuthScheme() string              { return c.AuthScheme }
func (c *SimpleConfig) GetTokenLookup() string             { return c.TokenLookup }
func (c *SimpleConfig) GetSweepInterval() time.Duration    { return c.SweepInterval }
func (c *SimpleConfig) GetEnvironment() string             { return c.Environment }
