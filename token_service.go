package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService signs and verifies session tokens. Implementations must be
// stateless and safe for unsynchronized concurrent use.
type TokenService interface {
	Mint(userID, email string, ttl time.Duration) (string, *SessionClaims, error)
	Decode(raw string) (*SessionClaims, error)
}

// TokenServiceImpl implements TokenService over HS256.
type TokenServiceImpl struct {
	signingKey []byte
	issuer     string
	audience   jwt.ClaimStrings
	logger     Logger
	now        func() time.Time
}

// NewTokenService creates a new TokenService instance.
func NewTokenService(signingKey []byte, issuer string, audience jwt.ClaimStrings, logger Logger) *TokenServiceImpl {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenServiceImpl{
		signingKey: signingKey,
		issuer:     issuer,
		audience:   audience,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock overrides the time source. Decode uses the same source for expiry
// validation, which is what makes boundary tests deterministic.
func (ts *TokenServiceImpl) WithClock(now func() time.Time) *TokenServiceImpl {
	if now != nil {
		ts.now = now
	}
	return ts
}

// Mint signs a fresh token for the subject and returns the signed string
// together with the parsed claims. The jti is unique per call; tokens are
// never mutated after this point.
func (ts *TokenServiceImpl) Mint(userID, email string, ttl time.Duration) (string, *SessionClaims, error) {
	if userID == "" {
		return "", nil, errors.New("subject must not be empty", errors.CategoryBadInput)
	}

	now := ts.now()

	var aud jwt.ClaimStrings
	if len(ts.audience) > 0 {
		aud = make(jwt.ClaimStrings, len(ts.audience))
		copy(aud, ts.audience)
	}

	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        newTokenID(userID, now),
			Issuer:    ts.issuer,
			Subject:   userID,
			Audience:  aud,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.CategoryInternal, "failed to sign session token")
	}

	ts.logger.Debug("minted session token", "jti", claims.TokenID(), "sub", userID, "exp", claims.Expires())

	return signed, claims, nil
}

// Decode verifies the signature and the embedded expiry, returning typed
// failures. It never panics on attacker-controlled input.
func (ts *TokenServiceImpl) Decode(raw string) (*SessionClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}
	if len(ts.audience) > 0 {
		parserOptions = append(parserOptions, jwt.WithAudience(ts.audience[0]))
	}

	token, err := jwt.ParseWithClaims(raw, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token decode rejected unexpected signing method", "alg", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			ts.logger.Debug("token decode failed embedded expiry check")
			return nil, errors.Wrap(err, ErrTokenExpired.Category, ErrTokenExpired.Message).
				WithTextCode(ErrTokenExpired.TextCode)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			ts.logger.Debug("token decode failed signature check")
			return nil, errors.Wrap(err, ErrTokenInvalidSignature.Category, ErrTokenInvalidSignature.Message).
				WithTextCode(ErrTokenInvalidSignature.TextCode)
		default:
			ts.logger.Debug("token decode failed to parse", "error", err)
			return nil, errors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
				WithTextCode(ErrTokenMalformed.TextCode)
		}
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		ts.logger.Error("token decode could not recover session claims")
		return nil, ErrTokenMalformed
	}

	// A token without a jti can never match the registry; refuse it here
	// rather than reporting it as revoked.
	if claims.TokenID() == "" {
		return nil, ErrTokenMalformed
	}

	return claims, nil
}
