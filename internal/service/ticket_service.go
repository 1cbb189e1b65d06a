package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/domain"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/lifecycle"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/validation"
	apperrors "github.com/spec-kit/support-desk/pkg/util/errorutil"
)

// TicketService coordinates ticket workflows: admission through the
// validation chain, creation, and status transitions.
type TicketService struct {
	tickets    repository.TicketRepository
	chain      *validation.Chain
	dispatcher events.Dispatcher
	ids        *IDSequence
	logger     *zap.Logger
	metrics    *observability.Metrics
	strict     bool
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo        repository.TicketRepository
	Chain             *validation.Chain
	Dispatcher        events.Dispatcher
	IDs               *IDSequence
	Logger            *zap.Logger
	Metrics           *observability.Metrics
	StrictTransitions bool
	Clock             func() time.Time
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	CustomerID  string
	Description string
	Priority    domain.TicketPriority
	Category    domain.TicketCategory
}

// TransitionResult reports the outcome of a lifecycle operation.
type TransitionResult struct {
	Ticket  *domain.Ticket
	From    domain.TicketStatus
	To      domain.TicketStatus
	Changed bool
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	s := &TicketService{
		tickets:    deps.TicketRepo,
		chain:      deps.Chain,
		dispatcher: deps.Dispatcher,
		ids:        deps.IDs,
		logger:     deps.Logger,
		metrics:    deps.Metrics,
		strict:     deps.StrictTransitions,
		now:        deps.Clock,
	}
	if s.ids == nil {
		s.ids = NewIDSequence("TKT")
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// CreateTicket admits a ticket through the validation chain and, when
// accepted, persists it in OPEN and publishes the created event. The id is
// taken from the sequence before saving, so a failed save leaves a gap.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (string, error) {
	input.Description = strings.TrimSpace(input.Description)
	if input.Priority == "" {
		input.Priority = domain.TicketPriorityMedium
	}
	if input.Category == "" {
		input.Category = domain.TicketCategoryGeneral
	}
	if !input.Priority.IsValid() {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown ticket priority %q", input.Priority),
			map[string]any{"field": "priority"})
	}
	if !input.Category.IsValid() {
		return "", apperrors.NewValidationError(fmt.Sprintf("unknown ticket category %q", input.Category),
			map[string]any{"field": "category"})
	}

	req := validation.NewRequest(input.CustomerID, input.Description, input.Priority, input.Category)
	s.chain.Handle(ctx, req)
	if !req.Valid {
		s.metrics.RecordRejection(req.Code)
		s.logger.Info("ticket rejected",
			zap.String("customer_id", input.CustomerID),
			zap.String("code", req.Code),
			zap.String("reason", req.Reason))
		return "", apperrors.NewRejection(req.Code, req.Reason, map[string]any{
			"customer_id": input.CustomerID,
			"priority":    input.Priority,
		})
	}

	ticket := domain.NewTicket(domain.TicketDraft{
		ID:          s.ids.Next(),
		CustomerID:  input.CustomerID,
		Description: input.Description,
		Priority:    input.Priority,
		Category:    input.Category,
	}, s.now())

	if err := s.tickets.Save(ctx, ticket); err != nil {
		return "", apperrors.NewInternalError(fmt.Errorf("save ticket %s: %w", ticket.ID, err))
	}
	s.metrics.RecordTicketCreated(string(ticket.Priority))
	s.logger.Info("ticket created",
		zap.String("ticket_id", ticket.ID),
		zap.String("customer_id", ticket.CustomerID),
		zap.String("category", string(ticket.Category)),
		zap.String("priority", string(ticket.Priority)),
		zap.String("assigned_to", ticket.AssignedTo))

	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Payload: events.TicketCreatedPayload{
			CustomerID: ticket.CustomerID,
			Priority:   ticket.Priority,
			Category:   ticket.Category,
		},
	})
	return ticket.ID, nil
}

// Transition applies a lifecycle operation to a stored ticket. Operations not
// legal in the current status leave the ticket untouched and publish nothing;
// in strict mode they are reported as ILLEGAL_TRANSITION.
func (s *TicketService) Transition(ctx context.Context, ticketID string, op lifecycle.Operation) (TransitionResult, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return TransitionResult{}, err
	}

	var pending []lifecycle.Transition
	machine, err := lifecycle.Restore(ticket.ID, ticket.Status, func(t lifecycle.Transition) {
		pending = append(pending, t)
	})
	if err != nil {
		return TransitionResult{}, apperrors.NewInternalError(err)
	}

	result := TransitionResult{Ticket: ticket, From: ticket.Status, To: ticket.Status}
	machine.Apply(op)
	if len(pending) == 0 {
		if s.strict {
			return result, apperrors.NewIllegalTransition(
				fmt.Sprintf("cannot %s a ticket in status %s", op, ticket.Status),
				map[string]any{"ticket_id": ticket.ID, "operation": string(op), "status": string(ticket.Status)})
		}
		s.logger.Debug("transition ignored",
			zap.String("ticket_id", ticket.ID),
			zap.String("operation", string(op)),
			zap.String("status", string(ticket.Status)))
		return result, nil
	}

	// Transitions reported by the machine are published only once the new
	// status is stored.
	ticket.Status = machine.Status()
	if err := s.tickets.Save(ctx, ticket); err != nil {
		return TransitionResult{}, apperrors.NewInternalError(fmt.Errorf("save ticket %s: %w", ticket.ID, err))
	}
	result.To = ticket.Status
	result.Changed = true

	for _, change := range pending {
		s.metrics.RecordTransition(string(change.From), string(change.To))
		s.logger.Info("ticket status updated",
			zap.String("ticket_id", change.TicketID),
			zap.String("operation", string(op)),
			zap.String("from", string(change.From)),
			zap.String("to", string(change.To)))

		s.publishEvent(ctx, events.Event{
			Type:     events.EventTicketStatusChanged,
			TicketID: change.TicketID,
			Payload: events.TicketStatusChangedPayload{
				OldStatus: change.From,
				NewStatus: change.To,
			},
		})
	}
	return result, nil
}

// GetTicket fetches a ticket by id.
func (s *TicketService) GetTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.FindByID(ctx, ticketID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NewNotFound(apperrors.CodeTicketNotFound, "ticket", map[string]any{"ticket_id": ticketID})
	}
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("load ticket %s: %w", ticketID, err))
	}
	return ticket, nil
}

// ListTickets returns every stored ticket ordered by id sequence number.
func (s *TicketService) ListTickets(ctx context.Context) ([]*domain.Ticket, error) {
	tickets, err := s.tickets.FindAll(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(fmt.Errorf("list tickets: %w", err))
	}
	return tickets, nil
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}
