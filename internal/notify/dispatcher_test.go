package notify

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/support-desk/internal/chat"
	"github.com/spec-kit/support-desk/internal/observability"
)

type recordingChannel struct {
	name  string
	err   error
	panic bool
	calls []string
}

func (c *recordingChannel) Name() string { return c.name }

func (c *recordingChannel) Send(_ context.Context, recipient, message string) error {
	c.calls = append(c.calls, recipient+"|"+message)
	if c.panic {
		panic("driver crashed")
	}
	return c.err
}

func TestDispatcher_FanOutIsolatesFailingChannel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	metrics := observability.NewMetrics()
	d := NewDispatcher(zap.New(core), metrics)

	first := &recordingChannel{name: "first"}
	second := &recordingChannel{name: "second", err: errors.New("gateway timeout")}
	third := &recordingChannel{name: "third"}
	d.Register(first)
	d.Register(second)
	d.Register(third)

	report := d.Notify(context.Background(), "ops@example.com", "New ticket created: TKT-1001")

	assert.Len(t, first.calls, 1)
	assert.Len(t, second.calls, 1)
	assert.Len(t, third.calls, 1)
	assert.Equal(t, []string{"first", "second", "third"}, report.Attempted)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "second", report.Failures[0].Channel)
	assert.True(t, report.Partial())
	assert.Equal(t, 2, report.Delivered())

	assert.Equal(t, 1, logs.FilterMessage("notification failed").Len())
	assert.Equal(t, 2, logs.FilterMessage("notification sent").Len())
	assert.Equal(t, 1, logs.FilterMessage("notification partially delivered").Len())

	samples, err := metrics.Snapshot()
	require.NoError(t, err)
	outcomes := map[string]float64{}
	for _, s := range samples {
		if s.Name == "supportdesk_notification_deliveries_total" {
			outcomes[s.Labels["channel"]+"/"+s.Labels["outcome"]] = s.Value
		}
	}
	assert.Equal(t, map[string]float64{"first/sent": 1, "second/failed": 1, "third/sent": 1}, outcomes)
}

func TestDispatcher_RecoversChannelPanic(t *testing.T) {
	d := NewDispatcher(nil, nil)
	crashing := &recordingChannel{name: "crashing", panic: true}
	after := &recordingChannel{name: "after"}
	d.Register(crashing)
	d.Register(after)

	report := d.Notify(context.Background(), "someone", "hello")

	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0].Err.Error(), "driver crashed")
	assert.Len(t, after.calls, 1)
}

func TestDispatcher_AllFailedIsNotPartial(t *testing.T) {
	d := NewDispatcher(nil, nil)
	d.Register(&recordingChannel{name: "only", err: errors.New("down")})

	report := d.Notify(context.Background(), "x", "y")
	assert.True(t, report.Failed())
	assert.False(t, report.Partial())
}

func TestDispatcher_ChannelsInRegistrationOrder(t *testing.T) {
	d := NewDispatcher(nil, nil)
	d.Register(NewEmailChannel(nil))
	d.Register(nil)
	d.Register(NewSMSChannel(nil))

	var names []string
	for _, c := range d.Channels() {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{EmailChannelName, SMSChannelName}, names)

	report := NewDispatcher(nil, nil).Notify(context.Background(), "r", "m")
	assert.Empty(t, report.Attempted)
	assert.False(t, report.Failed())
}

func TestConsoleChannel_WritesDelivery(t *testing.T) {
	var buf bytes.Buffer
	channel := NewPushChannel(&buf)

	require.NoError(t, channel.Send(context.Background(), "ana@example.com", "hello"))
	assert.Contains(t, buf.String(), "[Push Notification]")
	assert.Contains(t, buf.String(), "Sending to ana@example.com:\nhello\n")
}

type chatRecorder struct {
	channelID, text string
}

func (c *chatRecorder) PostToChannel(channelID, text string) error {
	c.channelID, c.text = channelID, text
	return nil
}

func TestChatAdapter_RoutesByRecipientOrFixedChannel(t *testing.T) {
	api := &chatRecorder{}
	require.NoError(t, NewChatAdapter(api, "").Send(context.Background(), "#ops", "hi"))
	assert.Equal(t, "#ops", api.channelID)
	assert.Equal(t, "hi", api.text)

	require.NoError(t, NewChatAdapter(api, " #support ").Send(context.Background(), "ana@example.com", "hey"))
	assert.Equal(t, "#support", api.channelID)
}

func TestChatAdapter_PropagatesAPIError(t *testing.T) {
	adapter := NewChatAdapter(chat.NewClient(nil), "")
	assert.ErrorIs(t, adapter.Send(context.Background(), "", "hi"), chat.ErrEmptyChannel)
}

func TestNewChannels(t *testing.T) {
	channels, err := NewChannels([]string{"email", "SMS", "push", "chat", "email"}, nil, nil, "")
	require.NoError(t, err)

	var names []string
	for _, c := range channels {
		names = append(names, c.Name())
	}
	assert.Equal(t, []string{EmailChannelName, SMSChannelName, PushChannelName, ChatChannelName}, names)

	_, err = NewChannels([]string{"fax"}, nil, nil, "")
	assert.Error(t, err)
}

func TestDispatcher_DeliveryCounter(t *testing.T) {
	metrics := observability.NewMetrics()
	d := NewDispatcher(nil, metrics)
	d.Register(NewEmailChannel(nil))
	d.Notify(context.Background(), "a", "b")
	d.Notify(context.Background(), "a", "c")

	count, err := testutil.GatherAndCount(metrics.Registry(), "supportdesk_notification_deliveries_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
