// Package app assembles the support desk from configuration.
package app

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/spec-kit/support-desk/internal/chat"
	"github.com/spec-kit/support-desk/internal/config"
	"github.com/spec-kit/support-desk/internal/events"
	"github.com/spec-kit/support-desk/internal/notify"
	"github.com/spec-kit/support-desk/internal/observability"
	"github.com/spec-kit/support-desk/internal/persistence"
	"github.com/spec-kit/support-desk/internal/repository"
	"github.com/spec-kit/support-desk/internal/service"
	"github.com/spec-kit/support-desk/internal/validation"
	"github.com/spec-kit/support-desk/internal/worker"
)

// App holds the wired services. Each collaborator is created once in Build.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Metrics   *observability.Metrics
	Events    events.Dispatcher
	Notifier  *notify.Dispatcher
	Customers *service.CustomerService
	Tickets   *service.TicketService
	Facade    *service.SupportFacade

	redis *persistence.Redis
}

// Build wires the application. Channel output goes to out.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger, out io.Writer) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: observability.NewMetrics()}

	customerRepo, ticketRepo, err := a.repositories(ctx)
	if err != nil {
		return nil, err
	}

	customerIDs := service.NewIDSequence("CUST")
	ticketIDs := service.NewIDSequence("TKT")
	if err := seedSequences(ctx, customerRepo, ticketRepo, customerIDs, ticketIDs); err != nil {
		a.Close()
		return nil, err
	}

	channels, err := notify.NewChannels(cfg.Notification.Channels, out, chat.NewClient(out), cfg.Notification.ChatChannel)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Notifier = notify.NewDispatcher(logger.Named("notify"), a.Metrics)
	for _, channel := range channels {
		a.Notifier.Register(channel)
	}

	a.Events = events.NewInMemoryDispatcher(logger.Named("events"), a.Metrics)
	a.Customers = service.NewCustomerService(customerRepo, customerIDs, logger.Named("customers"), a.Metrics)
	a.Tickets = service.NewTicketService(service.TicketDependencies{
		TicketRepo:        ticketRepo,
		Chain:             validation.NewTicketChain(a.Customers, cfg.Validation.MinDescriptionLength, cfg.Validation.CriticalMinDescriptionLength),
		Dispatcher:        a.Events,
		IDs:               ticketIDs,
		Logger:            logger.Named("tickets"),
		Metrics:           a.Metrics,
		StrictTransitions: cfg.Lifecycle.StrictTransitions,
	})
	a.Facade = service.NewSupportFacade(a.Customers, a.Tickets, a.Notifier, logger.Named("facade"))

	worker.StartLifecycleObservers(a.Events,
		service.NewLifecycleLogger(logger.Named("lifecycle")),
		service.NewNotificationService(a.Events, a.Notifier, logger.Named("notifications"), cfg.Notification.OpsAddress))

	logger.Info("support desk ready",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("storage", a.Storage()),
		zap.Int("channels", len(channels)),
		zap.Bool("strict_transitions", cfg.Lifecycle.StrictTransitions))
	return a, nil
}

// Storage names the repository backend in use.
func (a *App) Storage() string {
	if a.redis != nil {
		return "redis"
	}
	return "memory"
}

// Close releases external connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	a.redis.Close()
}

func (a *App) repositories(ctx context.Context) (repository.CustomerRepository, repository.TicketRepository, error) {
	if !a.Config.Redis.UsesRedis() {
		return repository.NewInMemoryCustomerRepository(), repository.NewInMemoryTicketRepository(), nil
	}
	r, err := persistence.NewRedis(ctx, a.Config.Redis, a.Logger)
	if err != nil {
		return nil, nil, err
	}
	a.redis = r
	prefix := a.Config.Redis.KeyPrefix
	return repository.NewRedisCustomerRepository(r.Client, prefix), repository.NewRedisTicketRepository(r.Client, prefix), nil
}

func seedSequences(ctx context.Context, customers repository.CustomerRepository, tickets repository.TicketRepository, customerIDs, ticketIDs *service.IDSequence) error {
	existingCustomers, err := customers.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load customers: %w", err)
	}
	for _, c := range existingCustomers {
		customerIDs.Advance(c.ID)
	}
	existingTickets, err := tickets.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("load tickets: %w", err)
	}
	for _, t := range existingTickets {
		ticketIDs.Advance(t.ID)
	}
	return nil
}
