package auth

import (
	"strings"

	"github.com/goliatone/go-errors"
)

// Stable text codes carried by the structured errors below. HTTP adapters log
// them server-side; they are never surfaced to clients.
const (
	TextCodeTokenMalformed    = "TOKEN_MALFORMED"
	TextCodeTokenBadSignature = "TOKEN_BAD_SIGNATURE"
	TextCodeTokenExpired      = "TOKEN_EXPIRED"
	TextCodeTokenRevoked      = "TOKEN_REVOKED"
	TextCodeNoCredential      = "NO_CREDENTIAL"
	TextCodeInvalidCreds      = "INVALID_CREDENTIALS"
	TextCodeTooManyAttempts   = "TOO_MANY_LOGIN_ATTEMPTS"
	TextCodeIdentityNotFound  = "IDENTITY_NOT_FOUND"
)

// ErrTokenMalformed is returned when a token string cannot be parsed at all.
var ErrTokenMalformed = errors.New("session token is malformed", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed)

// ErrTokenInvalidSignature is returned when a token parses but its signature
// does not verify against the server key.
var ErrTokenInvalidSignature = errors.New("session token signature is invalid", errors.CategoryAuth).
	WithTextCode(TextCodeTokenBadSignature)

// ErrTokenExpired is returned when the embedded expiry has passed.
var ErrTokenExpired = errors.New("session token has expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired)

// ErrTokenRevoked is returned when a cryptographically valid token has no
// matching entry in the session registry (explicit logout or sweep).
var ErrTokenRevoked = errors.New("session has been revoked", errors.CategoryAuth).
	WithTextCode(TextCodeTokenRevoked)

// ErrNoCredential is returned when a request supplies no bearer credential
// where one is required.
var ErrNoCredential = errors.New("missing bearer credential", errors.CategoryAuth).
	WithTextCode(TextCodeNoCredential)

// ErrMismatchedHashAndPassword is the uniform invalid-credentials error. The
// same value covers unknown identifier and wrong password so login responses
// do not reveal which one failed.
var ErrMismatchedHashAndPassword = errors.New("the credentials provided are invalid", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCreds)

// ErrTooManyLoginAttempts is returned when an account is in its cooldown
// window after repeated failed logins.
var ErrTooManyLoginAttempts = errors.New("too many login attempts", errors.CategoryRateLimit).
	WithTextCode(TextCodeTooManyAttempts)

// ErrIdentityNotFound is the error we return for non found identities.
var ErrIdentityNotFound = errors.New("identity not found", errors.CategoryNotFound).
	WithTextCode(TextCodeIdentityNotFound)

// ErrNoEmptyString rejects empty required string inputs (e.g. passwords).
var ErrNoEmptyString = errors.New("value must not be empty", errors.CategoryBadInput)

func hasTextCode(err error, code string) bool {
	var rich *errors.Error
	if errors.As(err, &rich) {
		return rich.TextCode == code
	}
	return false
}

// IsTokenExpiredError will check for expired tokens, including wrapped
// errors coming straight out of the jwt library.
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return hasTextCode(err, TextCodeTokenExpired) ||
		strings.Contains(err.Error(), "token is expired")
}

// IsMalformedError will check for unparseable token errors.
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return hasTextCode(err, TextCodeTokenMalformed) ||
		strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}

// IsSignatureError will check for signature verification failures.
func IsSignatureError(err error) bool {
	if err == nil {
		return false
	}
	return hasTextCode(err, TextCodeTokenBadSignature) ||
		strings.Contains(err.Error(), "signature is invalid")
}

// IsRevokedError will check for registry misses on otherwise valid tokens.
func IsRevokedError(err error) bool {
	if err == nil {
		return false
	}
	return hasTextCode(err, TextCodeTokenRevoked)
}

// FailureKind names the internal failure class for server-side logs. Clients
// only ever see a uniform unauthorized response.
func FailureKind(err error) string {
	switch {
	case err == nil:
		return ""
	case IsTokenExpiredError(err):
		return "expired"
	case IsSignatureError(err):
		return "bad_signature"
	case IsRevokedError(err):
		return "revoked"
	case IsMalformedError(err):
		return "malformed"
	case hasTextCode(err, TextCodeNoCredential):
		return "no_credential"
	default:
		return "internal"
	}
}
