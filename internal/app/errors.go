package app

import (
	"fmt"
	"net/http"

	"fieldnote/api/internal/validate"
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

func validationError(violations []validate.FieldError) *DomainError {
	return domainError(http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", violations)
}

func notFoundError() *DomainError {
	return domainError(http.StatusNotFound, "NOT_FOUND", "Not found or access denied", nil)
}

func forbiddenError() *DomainError {
	return domainError(http.StatusForbidden, "FORBIDDEN", "Forbidden", nil)
}

func duplicateDomainError(existingCompanyID string) *DomainError {
	return domainError(http.StatusConflict, "DUPLICATE_DOMAIN", "A company with this domain already exists",
		map[string]any{"existing_company_id": existingCompanyID})
}

func transitionError(message string) *DomainError {
	return domainError(http.StatusBadRequest, "TRANSITION_ERROR", message, nil)
}

func upstreamError(message string) *DomainError {
	return domainError(http.StatusInternalServerError, "UPSTREAM_FAILURE", message, nil)
}
