// Package sessionware adapts the auth session core to fiber: it extracts the
// bearer credential, delegates to SessionManager.Verify, and attaches the
// resolved identity to the request. All token-validity failures collapse into
// one uniform 401 response; the specific failure kind only reaches the logs.
package sessionware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	auth "github.com/campuslink/go-auth"
)

// Verifier resolves a raw token string into an identity. SessionManager
// satisfies it; tests substitute their own.
type Verifier interface {
	Verify(raw string) (*auth.AuthenticatedIdentity, error)
}

// VerifierFunc adapts a function into a Verifier.
type VerifierFunc func(raw string) (*auth.AuthenticatedIdentity, error)

// Verify satisfies the Verifier interface.
func (f VerifierFunc) Verify(raw string) (*auth.AuthenticatedIdentity, error) {
	if f == nil {
		return nil, auth.ErrTokenMalformed
	}
	return f(raw)
}

// Config configures the middleware.
type Config struct {
	// Verifier is required.
	Verifier Verifier

	// Optional lets requests without a valid credential proceed without an
	// identity instead of being rejected.
	Optional bool

	// Filter skips the middleware entirely when it returns true.
	Filter func(*fiber.Ctx) bool

	// SuccessHandler runs after an identity has been attached; defaults to
	// ctx.Next().
	SuccessHandler fiber.Handler

	// ErrorHandler produces the rejection response. The default responds 401
	// with a generic JSON body and logs the internal failure kind.
	ErrorHandler func(*fiber.Ctx, error) error

	// ContextKey is the fiber locals key for the identity.
	ContextKey string

	// TokenLookup is a comma-separated list of <source>:<name> entries tried
	// in order, e.g. "header:Authorization,cookie:campus_session".
	TokenLookup string

	// AuthScheme prefixes the credential in header lookups.
	AuthScheme string

	// Logger receives the server-side failure detail.
	Logger auth.Logger

	// Environment gates the dev bypass; anything but "development" refuses
	// an enabled bypass at construction time.
	Environment string

	// DevBypass maps a fixed header to a canned identity in development.
	DevBypass auth.DevBypass

	extractors []tokenExtractor
}

// New returns the strict middleware: requests without a verifiable
// credential are rejected.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		if identity, ok := cfg.DevBypass.IdentityFor(c.Get(cfg.DevBypass.HeaderName())); ok {
			cfg.Logger.Debug("dev bypass identity attached", "user_id", identity.UserID)
			attach(c, cfg.ContextKey, identity)
			return cfg.SuccessHandler(c)
		}

		raw, err := extractRawToken(c, cfg.extractors)
		if err != nil {
			if cfg.Optional {
				return c.Next()
			}
			return cfg.ErrorHandler(c, err)
		}

		identity, err := cfg.Verifier.Verify(raw)
		if err != nil {
			if cfg.Optional {
				cfg.Logger.Debug("optional auth failed, proceeding anonymously", "kind", auth.FailureKind(err))
				return c.Next()
			}
			return cfg.ErrorHandler(c, err)
		}

		attach(c, cfg.ContextKey, identity)
		return cfg.SuccessHandler(c)
	}
}

// NewOptional returns the optional-auth variant: same pipeline, but missing
// or invalid credentials let the request through without an identity.
func NewOptional(config ...Config) fiber.Handler {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg.Optional = true
	return New(cfg)
}

// IdentityFromLocals reads the identity the middleware stored, if any.
func IdentityFromLocals(c *fiber.Ctx, key string) (*auth.AuthenticatedIdentity, bool) {
	if key == "" {
		key = auth.DefaultContextKey
	}
	identity, ok := c.Locals(key).(*auth.AuthenticatedIdentity)
	if !ok || identity == nil {
		return nil, false
	}
	return identity, true
}

func attach(c *fiber.Ctx, key string, identity *auth.AuthenticatedIdentity) {
	c.Locals(key, identity)
	c.SetUserContext(auth.WithIdentityContext(c.UserContext(), identity))
}

func configDefault(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Verifier == nil {
		panic("AUTH: session middleware configuration: Verifier is required.")
	}

	if cfg.DevBypass.Enabled && !strings.EqualFold(cfg.Environment, auth.EnvDevelopment) {
		panic("AUTH: session middleware configuration: dev bypass enabled outside development.")
	}

	if cfg.Logger == nil {
		cfg.Logger = auth.NopLogger{}
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = auth.DefaultContextKey
	}

	if cfg.TokenLookup == "" {
		cfg.TokenLookup = auth.DefaultTokenLookup
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = auth.DefaultAuthScheme
	}

	if cfg.SuccessHandler == nil {
		cfg.SuccessHandler = func(c *fiber.Ctx) error {
			return c.Next()
		}
	}

	if cfg.ErrorHandler == nil {
		logger := cfg.Logger
		cfg.ErrorHandler = func(c *fiber.Ctx, err error) error {
			// The failure kind is log-only; the response never distinguishes
			// expired from revoked from never-logged-in.
			logger.Info("request rejected by session middleware",
				"kind", auth.FailureKind(err),
				"path", c.Path(),
			)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "unauthorized",
			})
		}
	}

	cfg.extractors = buildExtractors(cfg.TokenLookup, cfg.AuthScheme)

	return cfg
}
