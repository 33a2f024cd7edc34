package auth

import (
	"context"
	"fmt"
	"time"
)

// Logger is the minimal logging surface the package needs. Pass a structured
// logger (slog adapter, glog, etc.); defLogger writes to stdout otherwise.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Identity holds the attributes of an identity as known to the credential
// store. It is what IdentityProvider returns after a successful password
// check; the session core only reads ID and Email from it.
type Identity interface {
	ID() string
	Username() string
	Email() string
	Role() string
}

// IdentityProvider is the credential-store collaborator consulted at login.
type IdentityProvider interface {
	VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error)
	FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error)
}

// Config holds session options.
type Config interface {
	GetSigningKey() string
	GetTokenTTL() time.Duration
	GetExtendedTokenTTL() time.Duration
	GetIssuer() string
	GetAudience() []string
	GetContextKey() string
	GetAuthScheme() string
	GetTokenLookup() string
	GetSweepInterval() time.Duration
	GetEnvironment() string
}

// AuthenticatedIdentity is the per-request result of a successful Verify.
// It lives in the request context for the duration of that request only.
type AuthenticatedIdentity struct {
	UserID    string    `json:"user_id"`
	Email     string    `json:"email"`
	TokenID   string    `json:"token_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NopLogger discards everything. Useful in tests and as the middleware
// default when no logger is injected.
type NopLogger struct{}

func (NopLogger) Debug(string, ...any) {}
func (NopLogger) Info(string, ...any)  {}
func (NopLogger) Warn(string, ...any)  {}
func (NopLogger) Error(string, ...any) {}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
