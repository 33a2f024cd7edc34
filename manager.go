package auth

import (
	"context"
	"reflect"
	"sync"
	"time"

	"github.com/goliatone/go-errors"
)

// SessionManager is the single entry point surrounding collaborators use: it
// composes the token service and the session registry and enforces TTL
// policy. Login and signup handlers call Issue (or Login), the middleware
// calls Verify, and logout calls Revoke.
type SessionManager struct {
	tokens      TokenService
	registry    *SessionRegistry
	provider    IdentityProvider
	tokenTTL    time.Duration
	extendedTTL time.Duration
	sweepEvery  time.Duration
	logger      Logger
}

// NewSessionManager wires a manager from config and an externally constructed
// registry. The registry is injected, not owned, so tests and diagnostics can
// reach it directly.
func NewSessionManager(cfg Config, registry *SessionRegistry) *SessionManager {
	if registry == nil {
		registry = NewSessionRegistry()
	}

	tokenTTL := cfg.GetTokenTTL()
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}

	// The extended ("remember me") duration falls back to the standard one:
	// the two are configured independently but nothing requires them to
	// differ.
	extendedTTL := cfg.GetExtendedTokenTTL()
	if extendedTTL <= 0 {
		extendedTTL = tokenTTL
	}

	sweepEvery := cfg.GetSweepInterval()
	if sweepEvery <= 0 {
		sweepEvery = DefaultSweepInterval
	}

	return &SessionManager{
		tokens:      NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetIssuer(), cfg.GetAudience(), defLogger{}),
		registry:    registry,
		tokenTTL:    tokenTTL,
		extendedTTL: extendedTTL,
		sweepEvery:  sweepEvery,
		logger:      defLogger{},
	}
}

func (m *SessionManager) WithLogger(logger Logger) *SessionManager {
	if logger != nil {
		m.logger = logger
		m.registry.WithLogger(logger)
		if ts, ok := m.tokens.(*TokenServiceImpl); ok {
			ts.logger = logger
		}
	}
	return m
}

// WithTokenService swaps the token codec, e.g. for a custom clock in tests.
func (m *SessionManager) WithTokenService(tokens TokenService) *SessionManager {
	if tokens != nil {
		m.tokens = tokens
	}
	return m
}

// WithIdentityProvider attaches the credential-store collaborator used by
// Login. Issue/Verify/Revoke work without one.
func (m *SessionManager) WithIdentityProvider(provider IdentityProvider) *SessionManager {
	m.provider = provider
	return m
}

// Registry exposes the underlying registry for diagnostics endpoints.
func (m *SessionManager) Registry() *SessionRegistry {
	return m.registry
}

// Issue mints a signed token for the user and registers its jti. The token
// string is only returned after registration completes, so a client can
// never hold a token the registry does not know about.
func (m *SessionManager) Issue(userID, email string, extended bool) (string, error) {
	ttl := m.tokenTTL
	if extended {
		ttl = m.extendedTTL
	}

	signed, claims, err := m.tokens.Mint(userID, email, ttl)
	if err != nil {
		m.logger.Error("session issue failed to mint token", "user_id", userID, "error", err)
		return "", err
	}

	m.registry.Register(claims.TokenID(), claims.Record())

	m.logger.Debug("session issued", "jti", claims.TokenID(), "user_id", userID, "extended", extended)

	return signed, nil
}

// Verify resolves a raw token string into an AuthenticatedIdentity. The
// cryptographic check runs first; a valid signature alone is not enough,
// the jti must also still be present in the registry.
func (m *SessionManager) Verify(raw string) (*AuthenticatedIdentity, error) {
	claims, err := m.tokens.Decode(raw)
	if err != nil {
		return nil, err
	}

	rec, ok := m.registry.Lookup(claims.TokenID())
	if !ok {
		m.logger.Debug("session verify found no registry entry", "jti", claims.TokenID())
		return nil, ErrTokenRevoked
	}

	return &AuthenticatedIdentity{
		UserID:    rec.UserID,
		Email:     rec.Email,
		TokenID:   claims.TokenID(),
		IssuedAt:  rec.IssuedAt,
		ExpiresAt: rec.ExpiresAt,
	}, nil
}

// Revoke removes the session for jti; used by logout. Reports whether a
// session was actually present and is idempotent either way.
func (m *SessionManager) Revoke(jti string) bool {
	return m.registry.Revoke(jti)
}

// Login verifies credentials through the IdentityProvider and issues a
// session for the resulting identity.
func (m *SessionManager) Login(ctx context.Context, identifier, password string, extended bool) (string, error) {
	if m.provider == nil {
		return "", errors.New("no identity provider configured", errors.CategoryInternal)
	}

	identity, err := m.provider.VerifyIdentity(ctx, identifier, password)
	if err != nil {
		m.logger.Info("login rejected", "identifier", identifier, "error", err)
		return "", err
	}

	if identity == nil || reflect.ValueOf(identity).IsZero() {
		m.logger.Error("login identity is nil or zero value", "identifier", identifier)
		return "", ErrIdentityNotFound
	}

	return m.Issue(identity.ID(), identity.Email(), extended)
}

// Logout revokes the session identified by jti.
func (m *SessionManager) Logout(jti string) bool {
	return m.Revoke(jti)
}

// SweepHandle cancels a running expiry sweep. Stop blocks until the sweep
// goroutine has exited and is safe to call more than once.
type SweepHandle struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func (h *SweepHandle) Stop() {
	h.once.Do(func() {
		close(h.stop)
		<-h.done
	})
}

// StartExpirySweep runs Registry.Sweep on a recurring timer until the
// returned handle is stopped. A panicking iteration is logged and swallowed;
// the sweep keeps running.
func (m *SessionManager) StartExpirySweep(interval time.Duration) *SweepHandle {
	if interval <= 0 {
		interval = m.sweepEvery
	}

	h := &SweepHandle{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}

	go func() {
		defer close(h.done)

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		m.logger.Debug("session sweep started", "interval", interval)
		for {
			select {
			case <-h.stop:
				m.logger.Debug("session sweep stopped")
				return
			case <-ticker.C:
				m.sweepOnce()
			}
		}
	}()

	return h
}

func (m *SessionManager) sweepOnce() {
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Error("session sweep iteration panicked", "panic", rec)
		}
	}()

	if evicted := m.registry.Sweep(time.Now()); evicted > 0 {
		m.logger.Debug("session sweep evicted expired sessions", "count", evicted, "remaining", m.registry.Size())
	}
}
