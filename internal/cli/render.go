package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/notify"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/service"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

func printError(w io.Writer, err error) {
	domainErr := apperrors.ToDomainError(err)
	if domainErr.Code == apperrors.CodeInternal && domainErr.Err != nil {
		errorColor.Fprintf(w, "Error: %v\n", err)
		return
	}
	errorColor.Fprintf(w, "Error [%s]: %s\n", domainErr.Code, domainErr.Message)
}

func printChannels(w io.Writer, channels []notify.Channel) {
	headerColor.Fprintln(w, "\nRegistered notification channels:")
	for _, c := range channels {
		fmt.Fprintf(w, " - %s\n", c.Name())
	}
}

func printTransition(w io.Writer, result service.TransitionResult) {
	if !result.Changed {
		warningColor.Fprintf(w, "Ticket %s unchanged (%s)\n", result.Ticket.ID, result.From)
		return
	}
	successColor.Fprintf(w, "Ticket %s: %s -> %s\n", result.Ticket.ID, result.From, result.To)
}

func printTickets(w io.Writer, tickets []*domain.Ticket) {
	if len(tickets) == 0 {
		infoColor.Fprintln(w, "No tickets.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tSTATUS\tPRIORITY\tCATEGORY\tASSIGNEE\tTAGS")
	for _, t := range tickets {
		assignee := t.AssignedTo
		if assignee == "" {
			assignee = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			t.ID, t.CustomerID, t.Status, t.Priority, t.Category, assignee, strings.Join(t.Tags.List(), ","))
	}
	_ = tw.Flush()
}

func printCustomers(w io.Writer, customers []*domain.Customer) {
	if len(customers) == 0 {
		infoColor.Fprintln(w, "No customers.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tTYPE\tEMAIL\tPHONE")
	for _, c := range customers {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Type.Label(), c.Email, c.Phone)
	}
	_ = tw.Flush()
}

func printMetrics(w io.Writer, metrics *observability.Metrics) error {
	samples, err := metrics.Snapshot()
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		infoColor.Fprintln(w, "No metrics recorded yet.")
		return nil
	}
	for _, sample := range samples {
		fmt.Fprintf(w, "%s%s %g\n", sample.Name, formatLabels(sample.Labels), sample.Value)
	}
	return nil
}

func formatLabels(labels map[string]string) string {
	if len(labels) == 0 {
		return ""
	}
	keys := make([]string, 0, len(labels))
	for k := range labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s=%q", k, labels[k])
	}
	return "{" + strings.Join(parts, ",") + "}"
}
