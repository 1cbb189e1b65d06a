package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-desk/internal/domain"
)

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Save(ctx context.Context, ticket *domain.Ticket) error
	FindByID(ctx context.Context, id string) (*domain.Ticket, error)
	FindAll(ctx context.Context) ([]*domain.Ticket, error)
}

type inMemoryTicketRepository struct {
	mu   sync.RWMutex
	byID map[string]*domain.Ticket
}

// NewInMemoryTicketRepository keeps tickets in process memory.
func NewInMemoryTicketRepository() TicketRepository {
	return &inMemoryTicketRepository{byID: make(map[string]*domain.Ticket)}
}

func (r *inMemoryTicketRepository) Save(_ context.Context, ticket *domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[ticket.ID] = ticket.Clone()
	return nil
}

func (r *inMemoryTicketRepository) FindByID(_ context.Context, id string) (*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ticket, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return ticket.Clone(), nil
}

func (r *inMemoryTicketRepository) FindAll(_ context.Context) ([]*domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Ticket, 0, len(r.byID))
	for _, ticket := range r.byID {
		result = append(result, ticket.Clone())
	}
	sort.Slice(result, func(i, j int) bool { return lessID(result[i].ID, result[j].ID) })
	return result, nil
}

type redisTicketRepository struct {
	store *redisStore[domain.Ticket]
}

// NewRedisTicketRepository stores tickets as JSON documents in Redis.
func NewRedisTicketRepository(client *redis.Client, prefix string) TicketRepository {
	return &redisTicketRepository{store: newRedisStore[domain.Ticket](client, prefix, "ticket")}
}

func (r *redisTicketRepository) Save(ctx context.Context, ticket *domain.Ticket) error {
	return r.store.save(ctx, ticket.ID, ticket)
}

func (r *redisTicketRepository) FindByID(ctx context.Context, id string) (*domain.Ticket, error) {
	return r.store.get(ctx, id)
}

func (r *redisTicketRepository) FindAll(ctx context.Context) ([]*domain.Ticket, error) {
	return r.store.all(ctx)
}
