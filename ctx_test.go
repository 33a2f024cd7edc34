package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuslink/go-auth"
)

func TestIdentityContext(t *testing.T) {
	identity := &auth.AuthenticatedIdentity{
		UserID:    "user-42",
		Email:     "a@b.com",
		TokenID:   "jti-1",
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(time.Hour),
	}

	ctx := auth.WithIdentityContext(context.Background(), identity)

	got, ok := auth.IdentityFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, identity, got)
}

func TestIdentityContextMisses(t *testing.T) {
	t.Run("empty context", func(t *testing.T) {
		got, ok := auth.IdentityFromContext(context.Background())
		assert.False(t, ok)
		assert.Nil(t, got)
	})

	t.Run("nil identity attached", func(t *testing.T) {
		ctx := auth.WithIdentityContext(context.Background(), nil)
		got, ok := auth.IdentityFromContext(ctx)
		assert.False(t, ok)
		assert.Nil(t, got)
	})
}
