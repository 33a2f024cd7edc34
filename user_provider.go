package auth

import (
	"context"
	"time"

	"github.com/goliatone/go-errors"
)

// MaxLoginAttempts is the number of failed logins a user gets before the
// cooldown kicks in.
var MaxLoginAttempts = 5

// CoolDownPeriod is how long a locked account stays locked.
var CoolDownPeriod = 24 * time.Hour

// UserTracker is a store we can use to retrieve users and record login
// outcomes.
type UserTracker interface {
	GetByIdentifier(ctx context.Context, identifier string) (*User, error)
	TrackAttemptedLogin(ctx context.Context, user *User) error
	TrackSuccessfulLogin(ctx context.Context, user *User) error
}

// UserProvider implements IdentityProvider over a UserTracker: bcrypt
// comparison plus failed-attempt throttling.
type UserProvider struct {
	store  UserTracker
	logger Logger
}

var _ IdentityProvider = (*UserProvider)(nil)

// NewUserProvider will create a new UserProvider.
func NewUserProvider(store UserTracker) *UserProvider {
	return &UserProvider{
		store:  store,
		logger: defLogger{},
	}
}

func (u *UserProvider) WithLogger(logger Logger) *UserProvider {
	if logger != nil {
		u.logger = logger
	}
	return u
}

// VerifyIdentity will find the user, compare the password, and return the
// identity. Unknown identifiers and wrong passwords produce the same error
// so responses do not reveal which accounts exist.
func (u *UserProvider) VerifyIdentity(ctx context.Context, identifier, password string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrIdentityNotFound) || errors.IsNotFound(err) {
			return nil, ErrMismatchedHashAndPassword
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to retrieve user during verification")
	}

	// A stale lock expires on its own once the cooldown has elapsed.
	if user.LoginAttemptAt != nil && time.Since(*user.LoginAttemptAt) > CoolDownPeriod {
		user.LoginAttempts = 0
	}

	if user.LoginAttempts >= MaxLoginAttempts {
		u.logger.Warn("login blocked by attempt cooldown", "user_id", user.ID.String(), "attempts", user.LoginAttempts)
		return nil, ErrTooManyLoginAttempts
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		if trackErr := u.store.TrackAttemptedLogin(ctx, user); trackErr != nil {
			u.logger.Error("failed to track attempted login", "user_id", user.ID.String(), "error", trackErr)
		}
		return nil, err
	}

	if err := u.store.TrackSuccessfulLogin(ctx, user); err != nil {
		// Tracking is bookkeeping; a verified login still succeeds.
		u.logger.Error("failed to track successful login", "user_id", user.ID.String(), "error", err)
	}

	return NewIdentityFromUser(user), nil
}

// FindIdentityByIdentifier resolves an identity without a password check,
// e.g. for admin tooling.
func (u *UserProvider) FindIdentityByIdentifier(ctx context.Context, identifier string) (Identity, error) {
	user, err := u.store.GetByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	return NewIdentityFromUser(user), nil
}
