package auth

import (
	"context"
	"database/sql"
	"net/mail"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the persistence surface the credential-store collaborator needs.
type Users interface {
	UserTracker

	Register(ctx context.Context, user *User) (*User, error)
	CreateSchema(ctx context.Context) error
}

type users struct {
	db *bun.DB
}

var _ Users = (*users)(nil)

// NewUsersRepository returns a bun-backed Users store.
func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

// CreateSchema creates the users table if it does not exist. Convenience for
// the SQLite deployments and tests; real installs run migrations instead.
func (a *users) CreateSchema(ctx context.Context) error {
	_, err := a.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users table")
	}
	return nil
}

// Register inserts a new user, filling id, role, and password hash defaults.
// The cleartext password must already have been validated by the caller.
func (a *users) Register(ctx context.Context, user *User) (*User, error) {
	if user == nil {
		return nil, errors.New("user must not be nil", errors.CategoryBadInput)
	}

	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	if user.Role == "" {
		user.Role = RoleMember
	}
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.Username = strings.TrimSpace(user.Username)

	if _, err := a.db.NewInsert().Model(user).Exec(ctx); err != nil {
		return nil, errors.Wrap(err, errors.CategoryConflict, "could not create user")
	}

	return user, nil
}

// GetByIdentifier resolves a user by id, email, or username, whichever the
// identifier looks like.
func (a *users) GetByIdentifier(ctx context.Context, identifier string) (*User, error) {
	column, value := resolveUserIdentifier(identifier)

	user := &User{}
	err := a.db.NewSelect().
		Model(user).
		Where("?TableAlias."+column+" = ?", value).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to query user")
	}

	return user, nil
}

// TrackAttemptedLogin bumps the failed-attempt counter and timestamp.
func (a *users) TrackAttemptedLogin(ctx context.Context, user *User) error {
	now := time.Now()
	user.LoginAttempts++
	user.LoginAttemptAt = &now

	_, err := a.db.NewUpdate().
		Model(user).
		Column("login_attempts", "login_attempt_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to track attempted login")
	}
	return nil
}

// TrackSuccessfulLogin clears the attempt counter and stamps the login time.
func (a *users) TrackSuccessfulLogin(ctx context.Context, user *User) error {
	now := time.Now()
	user.LoginAttempts = 0
	user.LoginAttemptAt = nil
	user.LoggedInAt = &now

	_, err := a.db.NewUpdate().
		Model(user).
		Column("login_attempts", "login_attempt_at", "loggedin_at").
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to track successful login")
	}
	return nil
}

// resolveUserIdentifier picks the lookup column for an identifier: a parsable
// UUID means id, a parsable address means email, anything else is treated as
// a username.
func resolveUserIdentifier(identifier string) (column, value string) {
	identifier = strings.TrimSpace(identifier)

	if _, err := uuid.Parse(identifier); err == nil {
		return "id", identifier
	}

	if _, err := mail.ParseAddress(identifier); err == nil {
		return "email", strings.ToLower(identifier)
	}

	return "username", identifier
}
