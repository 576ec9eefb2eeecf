package internal

import (
	"errors"
	"fmt"
)

var (
	// ErrAuthentication is returned when the account service rejects the login.
	ErrAuthentication = errors.New("tclctl: invalid username or password")

	// ErrInvalidDevice is returned when the shadow service refuses a device id.
	ErrInvalidDevice = errors.New("tclctl: invalid device id")

	// ErrCredentialsRejected is returned when freshly refreshed credentials are refused again.
	ErrCredentialsRejected = errors.New("tclctl: credentials rejected after refresh")

	// ErrNotLoggedIn is returned by accessors used before the login chain completed.
	ErrNotLoggedIn = errors.New("tclctl: session has no credentials")
)

// LoginStepError is returned when a login response lacks an expected field.
type LoginStepError struct {
	Step  int
	Name  string
	Field string
}

func (e *LoginStepError) Error() string {
	return fmt.Sprintf("tclctl: login step %d (%s): response missing %q", e.Step, e.Name, e.Field)
}

// ValidationError is returned before any request is made when an argument is out of range.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("tclctl: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// APIError is a non-success response from the shadow service.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("tclctl: shadow API error %d", e.StatusCode)
	}
	return fmt.Sprintf("tclctl: shadow API error %d: %s", e.StatusCode, e.Message)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
