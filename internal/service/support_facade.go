package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/notify"
)

// SupportFacade runs the walk-in workflow: register a customer, open their
// first ticket and confirm it to them.
type SupportFacade struct {
	customers *CustomerService
	tickets   *TicketService
	notifier  *notify.Dispatcher
	logger    *zap.Logger
}

// SupportRequestInput combines the customer and ticket fields.
type SupportRequestInput struct {
	Customer    CustomerRegisterInput
	Description string
	Priority    domain.TicketPriority
	Category    domain.TicketCategory
}

// NewSupportFacade constructs the facade.
func NewSupportFacade(customers *CustomerService, tickets *TicketService, notifier *notify.Dispatcher, logger *zap.Logger) *SupportFacade {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupportFacade{customers: customers, tickets: tickets, notifier: notifier, logger: logger}
}

// RegisterCustomerAndOpenTicket returns the new customer id and ticket id.
// When the ticket is rejected the customer id is still returned along with
// the rejection.
func (f *SupportFacade) RegisterCustomerAndOpenTicket(ctx context.Context, input SupportRequestInput) (string, string, error) {
	customer, err := f.customers.RegisterCustomer(ctx, input.Customer)
	if err != nil {
		return "", "", err
	}

	ticketID, err := f.tickets.CreateTicket(ctx, TicketCreateInput{
		CustomerID:  customer.ID,
		Description: input.Description,
		Priority:    input.Priority,
		Category:    input.Category,
	})
	if err != nil {
		f.logger.Info("walk-in ticket not opened",
			zap.String("customer_id", customer.ID),
			zap.Error(err))
		return customer.ID, "", err
	}

	if f.notifier != nil {
		f.notifier.Notify(ctx, customer.Email, ConfirmationMessage(input.Customer.Name, ticketID))
	}
	return customer.ID, ticketID, nil
}

// ConfirmationMessage is the text sent to a customer after their ticket opens.
func ConfirmationMessage(name, ticketID string) string {
	return fmt.Sprintf("Hello %s, your support ticket %s has been created. Our team will contact you soon.", name, ticketID)
}
