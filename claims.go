package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims is the claims set carried by a session token: the registered
// claims (sub, jti, iat, exp, iss, aud) plus the subject's email.
type SessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
}

// Subject returns the subject claim (the user id).
func (c *SessionClaims) Subject() string {
	return c.RegisteredClaims.Subject
}

// UserID is an alias for Subject.
func (c *SessionClaims) UserID() string {
	return c.RegisteredClaims.Subject
}

// TokenID returns the jti claim.
func (c *SessionClaims) TokenID() string {
	return c.RegisteredClaims.ID
}

// Expires returns the expiration time, zero if unset.
func (c *SessionClaims) Expires() time.Time {
	if c.RegisteredClaims.ExpiresAt != nil {
		return c.RegisteredClaims.ExpiresAt.Time
	}
	return time.Time{}
}

// IssuedAt returns the issued-at time, zero if unset.
func (c *SessionClaims) IssuedAt() time.Time {
	if c.RegisteredClaims.IssuedAt != nil {
		return c.RegisteredClaims.IssuedAt.Time
	}
	return time.Time{}
}

// Record converts the claims into the registry entry they correspond to.
func (c *SessionClaims) Record() SessionRecord {
	return SessionRecord{
		UserID:    c.UserID(),
		Email:     c.Email,
		IssuedAt:  c.IssuedAt(),
		ExpiresAt: c.Expires(),
	}
}

// newTokenID builds a globally unique jti from the subject, the issue
// instant, and a random suffix. The random component alone makes collisions
// negligible; subject and timestamp keep the id greppable in logs.
func newTokenID(subject string, now time.Time) string {
	return fmt.Sprintf("%s.%d.%s", subject, now.UnixNano(), uuid.NewString()[:8])
}
