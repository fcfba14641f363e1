package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrNoAuthMethod is returned when neither local nor LDAP login is enabled.
	ErrNoAuthMethod = errors.New("no authentication method available")

	// ErrInvalidCredentials is shown for unknown users and wrong passwords alike.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAccountDisabled is shown for deactivated accounts.
	ErrAccountDisabled = errors.New("account is disabled")

	// ErrInternalServerError is returned for unexpected failures during the login process.
	ErrInternalServerError = errors.New("internal server error")
)
