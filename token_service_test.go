package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/go-auth"
)

func TestTokenService_MintAndDecode(t *testing.T) {
	signingKey := []byte("test-signing-key-test-signing-key")
	service := auth.NewTokenService(signingKey, "campuslink", jwt.ClaimStrings{"campuslink:web"}, nil)

	t.Run("roundtrip preserves subject and email", func(t *testing.T) {
		signed, minted, err := service.Mint("user-42", "a@b.com", time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, signed)
		require.NotNil(t, minted)

		claims, err := service.Decode(signed)
		require.NoError(t, err)

		assert.Equal(t, "user-42", claims.UserID())
		assert.Equal(t, "a@b.com", claims.Email)
		assert.Equal(t, minted.TokenID(), claims.TokenID())
		assert.False(t, claims.Expires().IsZero())
		assert.False(t, claims.IssuedAt().IsZero())
		assert.WithinDuration(t, claims.IssuedAt().Add(time.Hour), claims.Expires(), time.Second)
	})

	t.Run("mint requires a subject", func(t *testing.T) {
		_, _, err := service.Mint("", "a@b.com", time.Hour)
		assert.Error(t, err)
	})

	t.Run("each mint produces a distinct jti", func(t *testing.T) {
		seen := map[string]bool{}
		for i := 0; i < 100; i++ {
			_, claims, err := service.Mint("user-42", "a@b.com", time.Hour)
			require.NoError(t, err)
			assert.False(t, seen[claims.TokenID()], "jti reused: %s", claims.TokenID())
			seen[claims.TokenID()] = true
		}
	})
}

func TestTokenService_DecodeFailures(t *testing.T) {
	signingKey := []byte("test-signing-key-test-signing-key")
	service := auth.NewTokenService(signingKey, "campuslink", nil, nil)

	t.Run("garbage input is malformed", func(t *testing.T) {
		_, err := service.Decode("garbage")
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
		assert.Equal(t, "malformed", auth.FailureKind(err))
	})

	t.Run("empty input is malformed", func(t *testing.T) {
		_, err := service.Decode("")
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("token signed with a different key fails signature check", func(t *testing.T) {
		other := auth.NewTokenService([]byte("another-key-entirely-another-key"), "campuslink", nil, nil)
		signed, _, err := other.Mint("user-42", "a@b.com", time.Hour)
		require.NoError(t, err)

		_, err = service.Decode(signed)
		require.Error(t, err)
		assert.True(t, auth.IsSignatureError(err))
	})

	t.Run("single byte tamper fails closed, never yields foreign claims", func(t *testing.T) {
		signed, _, err := service.Mint("user-42", "a@b.com", time.Hour)
		require.NoError(t, err)

		parts := strings.Split(signed, ".")
		require.Len(t, parts, 3)

		// Flip one character of the payload; the signature no longer covers
		// the mutated body.
		payload := []byte(parts[1])
		if payload[10] == 'A' {
			payload[10] = 'B'
		} else {
			payload[10] = 'A'
		}
		tampered := parts[0] + "." + string(payload) + "." + parts[2]

		claims, err := service.Decode(tampered)
		require.Error(t, err)
		assert.Nil(t, claims)
		assert.True(t, auth.IsSignatureError(err) || auth.IsMalformedError(err))
	})

	t.Run("embedded expiry is enforced by decode alone", func(t *testing.T) {
		current := time.Now()
		clocked := auth.NewTokenService(signingKey, "campuslink", nil, nil).
			WithClock(func() time.Time { return current })

		signed, _, err := clocked.Mint("user-42", "a@b.com", time.Second)
		require.NoError(t, err)

		current = current.Add(2 * time.Second)
		_, err = clocked.Decode(signed)
		require.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
		assert.Equal(t, "expired", auth.FailureKind(err))
	})

	t.Run("unsigned alg none token is rejected", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
			Subject:   "user-42",
			ID:        "forged",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.Decode(signed)
		assert.Error(t, err)
	})

	t.Run("token without a jti is refused", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
			Subject:   "user-42",
			Issuer:    "campuslink",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		})
		signed, err := token.SignedString(signingKey)
		require.NoError(t, err)

		_, err = service.Decode(signed)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})
}
