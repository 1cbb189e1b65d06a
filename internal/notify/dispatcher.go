package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/observability"
)

// Failure records a channel that could not deliver.
type Failure struct {
	Channel string
	Err     error
}

// Report summarizes one Notify call.
type Report struct {
	Recipient string
	Attempted []string
	Failures  []Failure
}

// Delivered counts channels that succeeded.
func (r Report) Delivered() int {
	return len(r.Attempted) - len(r.Failures)
}

// Partial reports whether some, but not all, channels failed.
func (r Report) Partial() bool {
	return len(r.Failures) > 0 && len(r.Failures) < len(r.Attempted)
}

// Failed reports whether at least one channel failed.
func (r Report) Failed() bool {
	return len(r.Failures) > 0
}

// Dispatcher holds delivery channels in registration order. Registration
// must be complete before Notify is called; it does no locking.
type Dispatcher struct {
	channels []Channel
	logger   *zap.Logger
	metrics  *observability.Metrics
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(logger *zap.Logger, metrics *observability.Metrics) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{logger: logger, metrics: metrics}
}

// Register appends a channel. Nil channels are ignored.
func (d *Dispatcher) Register(channel Channel) {
	if channel == nil {
		return
	}
	d.channels = append(d.channels, channel)
}

// Channels returns the registered channels in registration order.
func (d *Dispatcher) Channels() []Channel {
	return append([]Channel(nil), d.channels...)
}

// Notify sends message to recipient over every channel. A failing channel is
// logged and recorded in the report; the remaining channels still run.
func (d *Dispatcher) Notify(ctx context.Context, recipient, message string) Report {
	report := Report{Recipient: recipient, Attempted: make([]string, 0, len(d.channels))}
	for _, channel := range d.channels {
		name := channel.Name()
		report.Attempted = append(report.Attempted, name)
		if err := send(ctx, channel, recipient, message); err != nil {
			report.Failures = append(report.Failures, Failure{Channel: name, Err: err})
			d.metrics.RecordDelivery(name, "failed")
			d.logger.Warn("notification failed",
				zap.String("channel", name),
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		d.metrics.RecordDelivery(name, "sent")
		d.logger.Info("notification sent",
			zap.String("channel", name),
			zap.String("recipient", recipient))
	}
	if report.Failed() {
		d.logger.Warn("notification partially delivered",
			zap.String("recipient", recipient),
			zap.Int("failed", len(report.Failures)),
			zap.Int("attempted", len(report.Attempted)))
	}
	return report
}

func send(ctx context.Context, channel Channel, recipient, message string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("channel panic: %v", r)
		}
	}()
	return channel.Send(ctx, recipient, message)
}
