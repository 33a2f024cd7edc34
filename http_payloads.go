package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// LoginRequest is the login form/JSON payload.
type LoginRequest struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
}

// GetIdentifier will return the submitted identifier.
func (r LoginRequest) GetIdentifier() string {
	return r.Identifier
}

// GetPassword will return the password.
func (r LoginRequest) GetPassword() string {
	return r.Password
}

// GetExtendedSession reports whether the client asked for a "remember me"
// session.
func (r LoginRequest) GetExtendedSession() bool {
	return r.RememberMe
}

// Validate will run validation rules.
func (r LoginRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Identifier, validation.Required, validation.Length(2, 100)),
		validation.Field(&r.Password, validation.Required),
	)
}

// RegistrationRequest is the signup form/JSON payload.
type RegistrationRequest struct {
	Username        string `form:"username" json:"username"`
	DisplayName     string `form:"display_name" json:"display_name"`
	Email           string `form:"email" json:"email"`
	Campus          string `form:"campus" json:"campus"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Validate will validate the payload.
func (r RegistrationRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Username, validation.Required, validation.Length(2, 60)),
		validation.Field(&r.DisplayName, validation.Length(0, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(10, 100)),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.In(r.Password).Error("passwords do not match"),
		),
	)
}
