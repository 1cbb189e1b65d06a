package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spec-kit/support-desk/internal/app"
	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/lifecycle"
	"github.com/spec-kit/support-desk/internal/service"
)

// shell is the interactive menu.
type shell struct {
	app *app.App
	in  *bufio.Scanner
	out io.Writer
}

func newShell(a *app.App, in io.Reader, out io.Writer) *shell {
	return &shell{app: a, in: bufio.NewScanner(in), out: out}
}

type menuItem struct {
	key    string
	label  string
	action func(ctx context.Context) error
}

func (s *shell) menu() []menuItem {
	return []menuItem{
		{"1", "Register customer", s.registerCustomer},
		{"2", "Create ticket", s.createTicket},
		{"3", "Register customer + create ticket", s.registerAndOpen},
		{"4", "List notification channels", s.listChannels},
		{"5", "Transition ticket", s.transitionTicket},
		{"6", "List tickets", s.listTickets},
		{"7", "List customers", s.listCustomers},
		{"8", "Show metrics", s.showMetrics},
	}
}

// Run loops over the menu until the user exits or input ends.
func (s *shell) Run(ctx context.Context) error {
	items := s.menu()
	for {
		s.showMenu(items)
		choice, err := s.readLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(s.out)
			return nil
		}
		if err != nil {
			return err
		}
		if choice == "0" {
			return nil
		}

		item, ok := findItem(items, choice)
		if !ok {
			warningColor.Fprintln(s.out, "Invalid option.")
			continue
		}
		if err := item.action(ctx); err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(s.out)
				return nil
			}
			printError(s.out, err)
		}
	}
}

func (s *shell) showMenu(items []menuItem) {
	headerColor.Fprintln(s.out, "\n========= SUPPORT DESK =========")
	for _, item := range items {
		fmt.Fprintf(s.out, "%s. %s\n", item.key, item.label)
	}
	fmt.Fprintln(s.out, "0. Exit")
	fmt.Fprint(s.out, "Choose: ")
}

func findItem(items []menuItem, key string) (menuItem, bool) {
	for _, item := range items {
		if item.key == key {
			return item, true
		}
	}
	return menuItem{}, false
}

func (s *shell) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(s.in.Text()), nil
}

func (s *shell) ask(prompt string) (string, error) {
	fmt.Fprint(s.out, prompt)
	return s.readLine()
}

func (s *shell) askAll(prompts ...string) ([]string, error) {
	answers := make([]string, len(prompts))
	for i, prompt := range prompts {
		answer, err := s.ask(prompt)
		if err != nil {
			return nil, err
		}
		answers[i] = answer
	}
	return answers, nil
}

func (s *shell) readCustomer() (service.CustomerRegisterInput, error) {
	answers, err := s.askAll("Customer name: ", "Email: ", "Phone: ", "Type (regular/premium/vip): ")
	if err != nil {
		return service.CustomerRegisterInput{}, err
	}
	form := customerForm{Name: answers[0], Email: answers[1], Phone: answers[2], Type: strings.ToLower(answers[3])}
	if err := checkForm(form); err != nil {
		return service.CustomerRegisterInput{}, err
	}
	customerType, err := domain.ParseCustomerType(form.Type)
	if err != nil {
		return service.CustomerRegisterInput{}, err
	}
	return service.CustomerRegisterInput{Name: form.Name, Email: form.Email, Phone: form.Phone, Type: customerType}, nil
}

func (s *shell) readTicketFields(customerID string) (service.TicketCreateInput, error) {
	prompts := []string{"Issue: ", priorityPrompt(), categoryPrompt()}
	if customerID == "" {
		prompts = append([]string{"Customer ID: "}, prompts...)
	}
	answers, err := s.askAll(prompts...)
	if err != nil {
		return service.TicketCreateInput{}, err
	}
	if customerID == "" {
		customerID, answers = answers[0], answers[1:]
	}
	form := ticketForm{CustomerID: customerID, Description: answers[0], Priority: answers[1], Category: answers[2]}
	if err := checkForm(form); err != nil {
		return service.TicketCreateInput{}, err
	}
	priority, err := parsePriority(form.Priority)
	if err != nil {
		return service.TicketCreateInput{}, err
	}
	category, err := parseCategory(form.Category)
	if err != nil {
		return service.TicketCreateInput{}, err
	}
	return service.TicketCreateInput{
		CustomerID:  form.CustomerID,
		Description: form.Description,
		Priority:    priority,
		Category:    category,
	}, nil
}

func (s *shell) registerCustomer(ctx context.Context) error {
	input, err := s.readCustomer()
	if err != nil {
		return err
	}
	customer, err := s.app.Customers.RegisterCustomer(ctx, input)
	if err != nil {
		return err
	}
	successColor.Fprintf(s.out, "Customer registered: %s (%s)\n", customer.ID, customer.Name)
	return nil
}

func (s *shell) createTicket(ctx context.Context) error {
	input, err := s.readTicketFields("")
	if err != nil {
		return err
	}
	ticketID, err := s.app.Tickets.CreateTicket(ctx, input)
	if err != nil {
		return err
	}
	successColor.Fprintf(s.out, "Ticket created: %s\n", ticketID)
	return nil
}

func (s *shell) registerAndOpen(ctx context.Context) error {
	customer, err := s.readCustomer()
	if err != nil {
		return err
	}
	// The customer id is not known yet; pass a placeholder so the form check
	// does not ask for one.
	fields, err := s.readTicketFields("pending")
	if err != nil {
		return err
	}
	customerID, ticketID, err := s.app.Facade.RegisterCustomerAndOpenTicket(ctx, service.SupportRequestInput{
		Customer:    customer,
		Description: fields.Description,
		Priority:    fields.Priority,
		Category:    fields.Category,
	})
	if customerID != "" {
		fmt.Fprintf(s.out, "Customer ID: %s\n", customerID)
	}
	if err != nil {
		return err
	}
	fmt.Fprintf(s.out, "Ticket ID: %s\n", ticketID)
	return nil
}

func (s *shell) listChannels(context.Context) error {
	printChannels(s.out, s.app.Notifier.Channels())
	return nil
}

func (s *shell) transitionTicket(ctx context.Context) error {
	ticketID, err := s.ask("Ticket ID: ")
	if err != nil {
		return err
	}
	ticket, err := s.app.Tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	machine, err := lifecycle.Restore(ticket.ID, ticket.Status, nil)
	if err != nil {
		return err
	}
	infoColor.Fprintf(s.out, "Current status: %s, allowed: %s\n", ticket.Status, joinOperations(machine.Allowed()))

	raw, err := s.ask("Operation (start/resolve/close/reopen): ")
	if err != nil {
		return err
	}
	op, err := lifecycle.ParseOperation(raw)
	if err != nil {
		return err
	}
	result, err := s.app.Tickets.Transition(ctx, ticket.ID, op)
	if err != nil {
		return err
	}
	printTransition(s.out, result)
	return nil
}

func (s *shell) listTickets(ctx context.Context) error {
	tickets, err := s.app.Tickets.ListTickets(ctx)
	if err != nil {
		return err
	}
	printTickets(s.out, tickets)
	return nil
}

func (s *shell) listCustomers(ctx context.Context) error {
	customers, err := s.app.Customers.ListCustomers(ctx)
	if err != nil {
		return err
	}
	printCustomers(s.out, customers)
	return nil
}

func (s *shell) showMetrics(context.Context) error {
	return printMetrics(s.out, s.app.Metrics)
}

func joinOperations(ops []lifecycle.Operation) string {
	if len(ops) == 0 {
		return "none"
	}
	parts := make([]string, len(ops))
	for i, op := range ops {
		parts[i] = string(op)
	}
	return strings.Join(parts, ", ")
}
