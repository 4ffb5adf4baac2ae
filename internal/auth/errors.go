package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPasswordMismatch = errors.New("passwords do not match")
	ErrRequired         = errors.New("this field is required")
	ErrInvalidEmail     = errors.New("enter a valid email address")
	ErrInvalidRole      = errors.New("please choose patient or doctor")
	ErrRoleMismatch     = errors.New("invalid user type")
)

// Op names the user-facing operation an error came from.
type Op string

const (
	OpLogin    Op = "login"
	OpRegister Op = "register"
)

// ValidationError is detected before any network call and blocks submission.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// AuthError is a rejection reported by the backend (bad credentials,
// duplicate email, ...). Message is the backend's text, possibly empty.
type AuthError struct {
	Op      Op
	Status  int
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s rejected (status %d)", e.Op, e.Status)
	}
	return e.Message
}

// NetworkError covers an unreachable backend or a response the portal
// could not make sense of.
type NetworkError struct {
	Op  Op
	Err error
}

func (e *NetworkError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }

func (e *NetworkError) Unwrap() error { return e.Err }

// UserMessage is the text shown to the user for err.
func UserMessage(err error) string {
	var (
		verr *ValidationError
		aerr *AuthError
		nerr *NetworkError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &verr):
		return capitalize(verr.Err.Error())
	case errors.As(err, &aerr):
		if aerr.Message != "" {
			return capitalize(aerr.Message)
		}
		return genericMessage(aerr.Op)
	case errors.As(err, &nerr):
		return genericMessage(nerr.Op)
	}
	return "Something went wrong. Please try again."
}

func genericMessage(op Op) string {
	if op == OpRegister {
		return "Registration failed. Please try again."
	}
	return "Login failed. Please try again."
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
