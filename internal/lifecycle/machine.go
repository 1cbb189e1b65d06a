// Package lifecycle enforces the legal status transitions of a ticket.
//
// Operations that are not legal in the current status leave the machine
// unchanged; the caller learns about it from the returned flag.
package lifecycle

import (
	"fmt"
	"strings"

	"github.com/spec-kit/support-desk/internal/domain"
)

// Operation is a request to move a ticket through its lifecycle.
type Operation string

const (
	OpStartProgress Operation = "start-progress"
	OpResolve       Operation = "resolve"
	OpClose         Operation = "close"
	OpReopen        Operation = "reopen"
)

var operations = []Operation{OpStartProgress, OpResolve, OpClose, OpReopen}

// transitions lists, per status, the legal operations and where they lead.
var transitions = map[domain.TicketStatus]map[Operation]domain.TicketStatus{
	domain.TicketStatusOpen: {
		OpStartProgress: domain.TicketStatusInProgress,
	},
	domain.TicketStatusInProgress: {
		OpResolve: domain.TicketStatusResolved,
		OpClose:   domain.TicketStatusClosed,
	},
	domain.TicketStatusResolved: {
		OpClose:  domain.TicketStatusClosed,
		OpReopen: domain.TicketStatusOpen,
	},
	domain.TicketStatusClosed: {
		OpReopen: domain.TicketStatusOpen,
	},
}

// Operations lists every operation.
func Operations() []Operation {
	return append([]Operation(nil), operations...)
}

// ParseOperation accepts an operation name such as "start", "start-progress",
// "startProgress" or "resolve".
func ParseOperation(raw string) (Operation, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	normalized = strings.NewReplacer("_", "", "-", "", " ", "").Replace(normalized)
	switch normalized {
	case "start", "startprogress", "progress":
		return OpStartProgress, nil
	case "resolve":
		return OpResolve, nil
	case "close":
		return OpClose, nil
	case "reopen":
		return OpReopen, nil
	}
	return "", fmt.Errorf("unknown operation %q", raw)
}

// Transition describes a status change of one ticket.
type Transition struct {
	TicketID string
	From     domain.TicketStatus
	To       domain.TicketStatus
}

// Listener is told about every transition that actually happens.
type Listener func(Transition)

// Machine holds the current status of a single ticket.
type Machine struct {
	ticketID string
	current  domain.TicketStatus
	listener Listener
}

// NewMachine starts a machine for a freshly created ticket, in OPEN.
func NewMachine(ticketID string, listener Listener) *Machine {
	return &Machine{ticketID: ticketID, current: domain.TicketStatusOpen, listener: listener}
}

// Restore resumes a machine for a ticket loaded in the given status.
func Restore(ticketID string, status domain.TicketStatus, listener Listener) (*Machine, error) {
	if _, ok := transitions[status]; !ok {
		return nil, fmt.Errorf("ticket %s has unknown status %q", ticketID, status)
	}
	return &Machine{ticketID: ticketID, current: status, listener: listener}, nil
}

// Status returns the current status.
func (m *Machine) Status() domain.TicketStatus {
	return m.current
}

// Can reports whether op is legal in the current status.
func (m *Machine) Can(op Operation) bool {
	_, ok := transitions[m.current][op]
	return ok
}

// Allowed lists the operations legal in the current status.
func (m *Machine) Allowed() []Operation {
	var allowed []Operation
	for _, op := range operations {
		if m.Can(op) {
			allowed = append(allowed, op)
		}
	}
	return allowed
}

// Apply performs op. It returns the transition and true when the status
// changed; an illegal op leaves the status as it was and returns false.
func (m *Machine) Apply(op Operation) (Transition, bool) {
	next, ok := transitions[m.current][op]
	if !ok {
		return Transition{TicketID: m.ticketID, From: m.current, To: m.current}, false
	}
	t := Transition{TicketID: m.ticketID, From: m.current, To: next}
	m.current = next
	if m.listener != nil {
		m.listener(t)
	}
	return t, true
}
