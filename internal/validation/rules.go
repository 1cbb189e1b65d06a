package validation

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

const (
	DefaultMinDescriptionLength         = 10
	DefaultCriticalMinDescriptionLength = 20
)

// CustomerLookup resolves customers by identifier.
type CustomerLookup interface {
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
}

// CustomerExistsRule rejects requests whose customer cannot be resolved.
type CustomerExistsRule struct {
	customers CustomerLookup
}

func NewCustomerExistsRule(customers CustomerLookup) *CustomerExistsRule {
	return &CustomerExistsRule{customers: customers}
}

func (r *CustomerExistsRule) Name() string { return "customer-exists" }

func (r *CustomerExistsRule) Evaluate(ctx context.Context, req *Request) {
	_, err := r.customers.FindByID(ctx, req.CustomerID)
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrNotFound):
		req.Reject(apperrors.CodeCustomerNotFound, "customer does not exist: "+req.CustomerID)
	default:
		req.Reject(apperrors.CodeCustomerLookupFailed, fmt.Sprintf("customer lookup failed for %s: %v", req.CustomerID, err))
	}
}

// DescriptionLengthRule rejects descriptions shorter than a minimum.
type DescriptionLengthRule struct {
	minLength int
}

func NewDescriptionLengthRule(minLength int) *DescriptionLengthRule {
	return &DescriptionLengthRule{minLength: minLength}
}

func (r *DescriptionLengthRule) Name() string { return "description-length" }

func (r *DescriptionLengthRule) Evaluate(_ context.Context, req *Request) {
	if utf8.RuneCountInString(req.Description) < r.minLength {
		req.Reject(apperrors.CodeDescriptionTooShort,
			fmt.Sprintf("description too short, min length: %d", r.minLength))
	}
}

// PriorityDetailRule demands a longer description for CRITICAL tickets.
type PriorityDetailRule struct {
	criticalMinLength int
}

func NewPriorityDetailRule(criticalMinLength int) *PriorityDetailRule {
	return &PriorityDetailRule{criticalMinLength: criticalMinLength}
}

func (r *PriorityDetailRule) Name() string { return "priority-detail" }

func (r *PriorityDetailRule) Evaluate(_ context.Context, req *Request) {
	if req.Priority != domain.TicketPriorityCritical {
		return
	}
	if utf8.RuneCountInString(req.Description) < r.criticalMinLength {
		req.Reject(apperrors.CodeInsufficientDetailForPriority,
			fmt.Sprintf("CRITICAL tickets must have detailed descriptions (>= %d chars)", r.criticalMinLength))
	}
}

// NewTicketChain builds the admission chain: customer existence, then
// description length, then the priority specific bar.
func NewTicketChain(customers CustomerLookup, minLength, criticalMinLength int) *Chain {
	return NewChain(
		NewCustomerExistsRule(customers),
		NewDescriptionLengthRule(minLength),
		NewPriorityDetailRule(criticalMinLength),
	)
}
