package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/support-desk/internal/domain"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

var validate = validator.New()

// customerForm is the raw customer input typed at the prompt.
type customerForm struct {
	Name  string `validate:"required,max=120"`
	Email string `validate:"omitempty,email"`
	Phone string `validate:"omitempty,max=32"`
	Type  string `validate:"omitempty,oneof=regular premium vip"`
}

// ticketForm is the raw ticket input typed at the prompt. Description rules
// belong to the validation chain, so only its size is bounded here.
type ticketForm struct {
	CustomerID  string `validate:"required,max=64"`
	Description string `validate:"max=4000"`
	Priority    string `validate:"required"`
	Category    string `validate:"required"`
}

func checkForm(form any) error {
	err := validate.Struct(form)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return apperrors.NewValidationError("invalid input", map[string]any{"error": err.Error()})
	}
	details := make(map[string]any, len(fieldErrs))
	parts := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details[strings.ToLower(fe.Field())] = fe.Tag()
		parts = append(parts, fmt.Sprintf("%s failed %q", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return apperrors.NewValidationError("invalid input: "+strings.Join(parts, ", "), details)
}

// parsePriority accepts a name or its menu index (0=LOW .. 3=CRITICAL).
func parsePriority(raw string) (domain.TicketPriority, error) {
	all := domain.TicketPriorities()
	if idx, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		if idx < 0 || idx >= len(all) {
			return "", apperrors.NewValidationError(fmt.Sprintf("priority index out of range: %d", idx), nil)
		}
		return all[idx], nil
	}
	p, err := domain.ParseTicketPriority(raw)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error(), map[string]any{"field": "priority"})
	}
	return p, nil
}

// parseCategory accepts a name or its menu index (0=TECHNICAL .. 4=FEATURE_REQUEST).
func parseCategory(raw string) (domain.TicketCategory, error) {
	all := domain.TicketCategories()
	if idx, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		if idx < 0 || idx >= len(all) {
			return "", apperrors.NewValidationError(fmt.Sprintf("category index out of range: %d", idx), nil)
		}
		return all[idx], nil
	}
	c, err := domain.ParseTicketCategory(raw)
	if err != nil {
		return "", apperrors.NewValidationError(err.Error(), map[string]any{"field": "category"})
	}
	return c, nil
}

func priorityPrompt() string {
	return "Priority (" + indexedNames(domain.TicketPriorities()) + "): "
}

func categoryPrompt() string {
	return "Category (" + indexedNames(domain.TicketCategories()) + "): "
}

func indexedNames[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprintf("%d=%s", i, v)
	}
	return strings.Join(parts, ",")
}
