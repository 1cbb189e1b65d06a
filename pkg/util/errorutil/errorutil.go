package errorutil

import (
	"errors"
	"fmt"
)

// Error codes surfaced to callers of the ticket pipeline.
const (
	CodeValidationFailed              = "VALIDATION_FAILED"
	CodeCustomerNotFound              = "CUSTOMER_NOT_FOUND"
	CodeCustomerLookupFailed          = "CUSTOMER_LOOKUP_FAILED"
	CodeDescriptionTooShort           = "DESCRIPTION_TOO_SHORT"
	CodeInsufficientDetailForPriority = "INSUFFICIENT_DETAIL_FOR_PRIORITY"
	CodeTicketNotFound                = "TICKET_NOT_FOUND"
	CodeIllegalTransition             = "ILLEGAL_TRANSITION"
	CodeInternal                      = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code    string
	Message string
	Details map[string]any
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, details)
}

// NewRejection reports a ticket creation request refused by a validation rule.
func NewRejection(code, reason string, details map[string]any) error {
	return NewDomainError(code, reason, details)
}

func NewNotFound(code, resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:    code,
		Message: fmt.Sprintf("%s not found", resource),
		Details: details,
	}
}

func NewIllegalTransition(message string, details map[string]any) error {
	return NewDomainError(CodeIllegalTransition, message, details)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:    CodeInternal,
		Message: "internal error",
		Err:     err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	return &DomainError{
		Code:    CodeInternal,
		Message: "internal error",
		Err:     err,
	}
}

// IsCode reports whether err carries the given DomainError code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	if !errors.As(err, &domainErr) {
		return false
	}
	return domainErr.Code == code
}
