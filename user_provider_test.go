package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/campuslink/go-auth"
)

type MockUserTracker struct {
	mock.Mock
}

func (m *MockUserTracker) GetByIdentifier(ctx context.Context, identifier string) (*auth.User, error) {
	args := m.Called(ctx, identifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockUserTracker) TrackAttemptedLogin(ctx context.Context, user *auth.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserTracker) TrackSuccessfulLogin(ctx context.Context, user *auth.User) error {
	return m.Called(ctx, user).Error(0)
}

func newStoredUser(t *testing.T, password string) *auth.User {
	t.Helper()
	hash, err := auth.HashPasswordWithCost(password, bcrypt.MinCost)
	require.NoError(t, err)
	return &auth.User{
		ID:           uuid.New(),
		Role:         auth.RoleMember,
		Username:     "ada",
		Email:        "a@b.com",
		PasswordHash: hash,
	}
}

func TestUserProvider_VerifyIdentity(t *testing.T) {
	ctx := context.Background()

	t.Run("valid credentials", func(t *testing.T) {
		user := newStoredUser(t, "secret-password")
		store := new(MockUserTracker)
		store.On("GetByIdentifier", ctx, "ada").Return(user, nil)
		store.On("TrackSuccessfulLogin", ctx, user).Return(nil)

		identity, err := auth.NewUserProvider(store).VerifyIdentity(ctx, "ada", "secret-password")
		require.NoError(t, err)
		require.NotNil(t, identity)
		assert.Equal(t, user.ID.String(), identity.ID())
		assert.Equal(t, "a@b.com", identity.Email())
		assert.Equal(t, "member", identity.Role())

		store.AssertExpectations(t)
	})

	t.Run("wrong password tracks the attempt", func(t *testing.T) {
		user := newStoredUser(t, "secret-password")
		store := new(MockUserTracker)
		store.On("GetByIdentifier", ctx, "ada").Return(user, nil)
		store.On("TrackAttemptedLogin", ctx, user).Return(nil)

		_, err := auth.NewUserProvider(store).VerifyIdentity(ctx, "ada", "wrong")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)

		store.AssertExpectations(t)
	})

	t.Run("unknown identifier yields the same error as a wrong password", func(t *testing.T) {
		store := new(MockUserTracker)
		store.On("GetByIdentifier", ctx, "ghost").Return(nil, auth.ErrIdentityNotFound)

		_, err := auth.NewUserProvider(store).VerifyIdentity(ctx, "ghost", "whatever")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrMismatchedHashAndPassword)

		store.AssertExpectations(t)
	})

	t.Run("account in cooldown is blocked before the password check", func(t *testing.T) {
		user := newStoredUser(t, "secret-password")
		recent := time.Now().Add(-time.Minute)
		user.LoginAttempts = auth.MaxLoginAttempts
		user.LoginAttemptAt = &recent

		store := new(MockUserTracker)
		store.On("GetByIdentifier", ctx, "ada").Return(user, nil)

		_, err := auth.NewUserProvider(store).VerifyIdentity(ctx, "ada", "secret-password")
		require.Error(t, err)
		assert.ErrorIs(t, err, auth.ErrTooManyLoginAttempts)

		store.AssertExpectations(t)
	})

	t.Run("cooldown lock expires on its own", func(t *testing.T) {
		user := newStoredUser(t, "secret-password")
		stale := time.Now().Add(-auth.CoolDownPeriod - time.Hour)
		user.LoginAttempts = auth.MaxLoginAttempts
		user.LoginAttemptAt = &stale

		store := new(MockUserTracker)
		store.On("GetByIdentifier", ctx, "ada").Return(user, nil)
		store.On("TrackSuccessfulLogin", ctx, user).Return(nil)

		identity, err := auth.NewUserProvider(store).VerifyIdentity(ctx, "ada", "secret-password")
		require.NoError(t, err)
		assert.NotNil(t, identity)

		store.AssertExpectations(t)
	})

	t.Run("tracking failure does not fail a verified login", func(t *testing.T) {
		user := newStoredUser(t, "secret-password")
		store := new(MockUserTracker)
		store.On("GetByIdentifier", ctx, "ada").Return(user, nil)
		store.On("TrackSuccessfulLogin", ctx, user).Return(assert.AnError)

		identity, err := auth.NewUserProvider(store).VerifyIdentity(ctx, "ada", "secret-password")
		require.NoError(t, err)
		assert.NotNil(t, identity)
	})
}

func TestUserProvider_FindIdentityByIdentifier(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		user := newStoredUser(t, "secret-password")
		store := new(MockUserTracker)
		store.On("GetByIdentifier", ctx, "a@b.com").Return(user, nil)

		identity, err := auth.NewUserProvider(store).FindIdentityByIdentifier(ctx, "a@b.com")
		require.NoError(t, err)
		assert.Equal(t, "ada", identity.Username())
	})

	t.Run("missing propagates not found", func(t *testing.T) {
		store := new(MockUserTracker)
		store.On("GetByIdentifier", ctx, "ghost").Return(nil, auth.ErrIdentityNotFound)

		_, err := auth.NewUserProvider(store).FindIdentityByIdentifier(ctx, "ghost")
		assert.ErrorIs(t, err, auth.ErrIdentityNotFound)
	})
}
