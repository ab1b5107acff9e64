package api

import (
	"fmt"
	"strings"
)

// APIError is any non-2xx answer from the library service, carrying the
// server-supplied message and the structured code when the server sends one.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// AuthError means the credentials were rejected at login.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

// ValidationCode tags a rejected registration so the caller can attach the
// error to the right form field without matching message strings.
type ValidationCode string

const (
	CodeDuplicateUsername ValidationCode = "USERNAME_TAKEN"
	CodeDuplicateEmail    ValidationCode = "EMAIL_TAKEN"
	CodeWeakPassword      ValidationCode = "WEAK_PASSWORD"
	CodeOther             ValidationCode = "OTHER"
)

type ValidationError struct {
	Code    ValidationCode
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// classifyValidation prefers the structured code from the server and falls
// back to message matching for servers that only send prose.
func classifyValidation(code, message string) *ValidationError {
	switch ValidationCode(code) {
	case CodeDuplicateUsername, CodeDuplicateEmail, CodeWeakPassword:
		return &ValidationError{Code: ValidationCode(code), Message: message}
	}

	lower := strings.ToLower(message)
	taken := strings.Contains(lower, "already") || strings.Contains(lower, "exist") || strings.Contains(lower, "taken")
	switch {
	case strings.Contains(lower, "email") && taken:
		return &ValidationError{Code: CodeDuplicateEmail, Message: message}
	case strings.Contains(lower, "username") && taken:
		return &ValidationError{Code: CodeDuplicateUsername, Message: message}
	case strings.Contains(lower, "password"):
		return &ValidationError{Code: CodeWeakPassword, Message: message}
	}
	return &ValidationError{Code: CodeOther, Message: message}
}

// RentalError is a business-rule rejection of a rent request, most commonly
// the one-active-book limit.
type RentalError struct {
	Message string
}

func (e *RentalError) Error() string {
	return e.Message
}
