package domain

import (
	"errors"
	"fmt"
)

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// Validation failure kinds carried by ValidationError.
var (
	ErrMissingField = errors.New("missing required field")
	ErrInvalidEmail = errors.New("invalid email format")
	ErrWeakPassword = errors.New("weak password")
	ErrInvalidPhone = errors.New("invalid phone number")
	ErrInvalidRole  = errors.New("invalid role")
	ErrOutOfRange   = errors.New("value out of range")
)

var (
	ErrDuplicateEmail     = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRoleMismatch       = errors.New("invalid role")
	ErrUnauthorized       = errors.New("not authorized")
	ErrForbidden          = errors.New("access forbidden")
	ErrUserNotFound       = errors.New("user not found")
	ErrNoSensorData       = errors.New("no sensor data found")
)

// Token verification failures. Both match ErrUnauthorized.
var (
	ErrTokenExpired = fmt.Errorf("%w: token expired", ErrUnauthorized)
	ErrTokenInvalid = fmt.Errorf("%w: token invalid", ErrUnauthorized)
)

const weakPasswordMessage = "Password must contain at least one uppercase letter, one lowercase letter, " +
	"one number, and one special character (@$!%*?&)."

// ValidationError reports a rejected input field. Err is one of the
// validation kinds above.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	switch e.Err {
	case ErrMissingField:
		return e.Field + " is required"
	case ErrInvalidEmail:
		return "Invalid email format"
	case ErrWeakPassword:
		return weakPasswordMessage
	case ErrInvalidPhone:
		return "Invalid phone number"
	case ErrInvalidRole:
		return fmt.Sprintf("%s must be one of: %s, %s, %s", e.Field, RoleCitizen, RoleDriver, RoleMunicipal)
	case ErrOutOfRange:
		return e.Field + " is out of range"
	}
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// MissingField reports that a required field was absent or blank.
func MissingField(field string) error {
	return missing(field)
}

func missing(field string) error {
	return &ValidationError{Field: field, Err: ErrMissingField}
}

func invalid(field string, kind error) error {
	return &ValidationError{Field: field, Err: kind}
}
