package app

import (
	"fmt"
	"net/http"
)

type DomainError struct {
	Status  int
	Code    string
	Message string
	Details any
}

func (e *DomainError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func domainError(status int, code, message string, details any) *DomainError {
	return &DomainError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// errNoIdentity rejects operations that need an active identity. Returned as
// a value so callers and tests can compare codes; every call site gets the
// same shape.
func errNoIdentity() *DomainError {
	return domainError(http.StatusUnauthorized, "NO_ACTIVE_IDENTITY", "Sign in to do that", nil)
}
