package worker

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/notify"
	"github.com/spec-kit/support-desk/internal/service"
)

func TestStartLifecycleObservers(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)
	dispatcher := events.NewInMemoryDispatcher(logger, nil)

	var out bytes.Buffer
	notifier := notify.NewDispatcher(nil, nil)
	notifier.Register(notify.NewEmailChannel(&out))

	StartLifecycleObservers(dispatcher,
		service.NewLifecycleLogger(logger),
		service.NewNotificationService(dispatcher, notifier, nil, "support@example.com"))

	require.NoError(t, dispatcher.Publish(context.Background(), events.Event{
		Type:     events.EventTicketCreated,
		TicketID: "TKT-1001",
	}))

	assert.Equal(t, 1, logs.FilterMessage("Ticket created: TKT-1001").Len())
	assert.Contains(t, out.String(), "Sending to support@example.com:\nNew ticket created: TKT-1001")
}

func TestStartLifecycleObservers_NilDispatcher(t *testing.T) {
	assert.NotPanics(t, func() {
		StartLifecycleObservers(nil, service.NewLifecycleLogger(nil), nil)
	})
}
