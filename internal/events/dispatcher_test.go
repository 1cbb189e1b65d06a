package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
	"go.uber.org/zap/zaptest"

	"github.com/spec-kit/support-desk/internal/observability"
)

func TestDispatcher_InvokesInRegistrationOrder(t *testing.T) {
	d := NewInMemoryDispatcher(zaptest.NewLogger(t), nil)
	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
			order = append(order, name)
			return nil
		})
	}

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "TKT-1"}))
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestDispatcher_OnlyMatchingType(t *testing.T) {
	d := NewInMemoryDispatcher(nil, nil)
	var created, changed int
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error { created++; return nil })
	d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error { changed++; return nil })

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketStatusChanged}))
	assert.Zero(t, created)
	assert.Equal(t, 1, changed)
}

func TestDispatcher_FailureIsolation(t *testing.T) {
	metrics := observability.NewMetrics()
	d := NewInMemoryDispatcher(zaptest.NewLogger(t), metrics)
	var reached []string

	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		reached = append(reached, "error")
		return errors.New("sink unavailable")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		reached = append(reached, "panic")
		panic("observer blew up")
	})
	d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		reached = append(reached, "ok")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "TKT-1"})

	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 2)
	assert.Contains(t, err.Error(), "sink unavailable")
	assert.Contains(t, err.Error(), "observer blew up")
	assert.Equal(t, []string{"error", "panic", "ok"}, reached)

	samples, err := metrics.Snapshot()
	require.NoError(t, err)
	var failures float64
	for _, s := range samples {
		if s.Name == "supportdesk_observer_failures_total" {
			failures += s.Value
		}
	}
	assert.Equal(t, 2.0, failures)
}

func TestDispatcher_StampsEvents(t *testing.T) {
	d := NewInMemoryDispatcher(nil, nil)
	var got Event
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error { got = e; return nil })

	require.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketID: "TKT-7"}))
	assert.NotEmpty(t, got.ID)
	assert.False(t, got.Timestamp.IsZero())
	assert.Equal(t, "TKT-7", got.TicketID)
}
