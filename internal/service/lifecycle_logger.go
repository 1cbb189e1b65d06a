package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/events"
)

// LifecycleLogger writes every ticket lifecycle event to the log.
type LifecycleLogger struct {
	logger *zap.Logger
}

// NewLifecycleLogger creates the observer.
func NewLifecycleLogger(logger *zap.Logger) *LifecycleLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleLogger{logger: logger}
}

// RegisterHandlers subscribes to events.
func (l *LifecycleLogger) RegisterHandlers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	dispatcher.Subscribe(events.EventTicketCreated, l.handleTicketCreated)
	dispatcher.Subscribe(events.EventTicketStatusChanged, l.handleTicketStatusChanged)
}

func (l *LifecycleLogger) handleTicketCreated(_ context.Context, event events.Event) error {
	fields := []zap.Field{zap.String("ticket_id", event.TicketID), zap.String("event_id", event.ID)}
	if payload, ok := event.Payload.(events.TicketCreatedPayload); ok {
		fields = append(fields,
			zap.String("customer_id", payload.CustomerID),
			zap.String("priority", string(payload.Priority)),
			zap.String("category", string(payload.Category)))
	}
	l.logger.Info("Ticket created: "+event.TicketID, fields...)
	return nil
}

func (l *LifecycleLogger) handleTicketStatusChanged(_ context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.TicketStatusChangedPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	l.logger.Info(fmt.Sprintf("Ticket %s status changed from %s to %s", event.TicketID, payload.OldStatus, payload.NewStatus),
		zap.String("ticket_id", event.TicketID),
		zap.String("event_id", event.ID),
		zap.String("old_status", string(payload.OldStatus)),
		zap.String("new_status", string(payload.NewStatus)))
	return nil
}
