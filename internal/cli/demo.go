package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/spec-kit/support-desk/internal/app"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/lifecycle"
	"github.com/spec-kit/support-desk/internal/service"
)

func newDemoCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run a scripted ticket lifecycle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDemo(cmd.Context(), s.app, cmd.OutOrStdout())
		},
	}
}

// runDemo registers Ana, opens her ticket and walks it through a full
// lifecycle, ending back in OPEN.
func runDemo(ctx context.Context, a *app.App, out io.Writer) error {
	headerColor.Fprintln(out, "== Registering customer")
	customer, err := a.Customers.RegisterCustomer(ctx, service.CustomerRegisterInput{
		Name:  "Ana",
		Email: "ana@example.com",
		Phone: "+1-555-0100",
	})
	if err != nil {
		return err
	}
	successColor.Fprintf(out, "Customer registered: %s\n", customer.ID)

	headerColor.Fprintln(out, "== Creating ticket")
	ticketID, err := a.Tickets.CreateTicket(ctx, service.TicketCreateInput{
		CustomerID:  customer.ID,
		Description: "Cannot log in to the portal",
		Priority:    domain.TicketPriorityHigh,
		Category:    domain.TicketCategoryTechnical,
	})
	if err != nil {
		return err
	}
	successColor.Fprintf(out, "Ticket created: %s\n", ticketID)

	headerColor.Fprintln(out, "== Walking the lifecycle")
	for _, op := range []lifecycle.Operation{
		lifecycle.OpStartProgress,
		lifecycle.OpResolve,
		lifecycle.OpClose,
		lifecycle.OpReopen,
	} {
		result, err := a.Tickets.Transition(ctx, ticketID, op)
		if err != nil {
			return fmt.Errorf("%s %s: %w", op, ticketID, err)
		}
		printTransition(out, result)
	}

	tickets, err := a.Tickets.ListTickets(ctx)
	if err != nil {
		return err
	}
	printTickets(out, tickets)
	return nil
}
