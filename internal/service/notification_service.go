package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/notify"
)

// NotificationService forwards lifecycle events to the operations mailbox.
type NotificationService struct {
	dispatcher events.Dispatcher
	notifier   *notify.Dispatcher
	logger     *zap.Logger
	opsAddress string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, notifier *notify.Dispatcher, logger *zap.Logger, opsAddress string) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		notifier:   notifier,
		logger:     logger,
		opsAddress: strings.TrimSpace(opsAddress),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	return n.notifyOps(ctx, event, "New ticket created: "+event.TicketID)
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	return n.notifyOps(ctx, event, fmt.Sprintf("Ticket %s changed to status %s", event.TicketID, payload.NewStatus))
}

func (n *NotificationService) notifyOps(ctx context.Context, event events.Event, message string) error {
	if n.notifier == nil || n.opsAddress == "" {
		return nil
	}
	report := n.notifier.Notify(ctx, n.opsAddress, message)
	n.logger.Debug("ops notified",
		zap.String("ticket_id", event.TicketID),
		zap.String("event_type", string(event.Type)),
		zap.Int("delivered", report.Delivered()),
		zap.Int("failed", len(report.Failures)))
	return nil
}
