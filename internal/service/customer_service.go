package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// CustomerService registers and looks up customers.
type CustomerService struct {
	customers repository.CustomerRepository
	ids       *IDSequence
	logger    *zap.Logger
	metrics   *observability.Metrics
}

// CustomerRegisterInput describes a new customer.
type CustomerRegisterInput struct {
	Name  string
	Email string
	Phone string
	Type  domain.CustomerType
}

// NewCustomerService constructs the service.
func NewCustomerService(customers repository.CustomerRepository, ids *IDSequence, logger *zap.Logger, metrics *observability.Metrics) *CustomerService {
	if ids == nil {
		ids = NewIDSequence("CUST")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomerService{customers: customers, ids: ids, logger: logger, metrics: metrics}
}

// RegisterCustomer stores a customer under a fresh CUST-n identifier. Premium
// and VIP customers get their tier prefixed to the name.
func (s *CustomerService) RegisterCustomer(ctx context.Context, input CustomerRegisterInput) (*domain.Customer, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewValidationError("customer name is required", map[string]any{"field": "name"})
	}
	if input.Type == "" {
		input.Type = domain.CustomerTypeRegular
	}

	customer := &domain.Customer{
		ID:    s.ids.Next(),
		Name:  input.Type.DisplayPrefix() + name,
		Email: strings.TrimSpace(input.Email),
		Phone: strings.TrimSpace(input.Phone),
		Type:  input.Type,
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("save customer %s: %w", customer.ID, err))
	}
	s.metrics.RecordCustomerRegistered()
	s.logger.Info("customer registered",
		zap.String("customer_id", customer.ID),
		zap.String("type", customer.Type.Label()))
	return customer, nil
}

// FindByID resolves a customer, returning repository.ErrNotFound when absent.
func (s *CustomerService) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, id)
}

// GetCustomer fetches a customer by id.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*domain.Customer, error) {
	customer, err := s.customers.FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound(apperrors.CodeCustomerNotFound, "customer", map[string]any{"customer_id": id})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("load customer %s: %w", id, err))
	}
	return customer, nil
}

// ListCustomers returns every customer ordered by id sequence number.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]*domain.Customer, error) {
	customers, err := s.customers.FindAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("list customers: %w", err))
	}
	return customers, nil
}
