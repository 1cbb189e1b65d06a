package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/support-desk/internal/domain"
)

// CustomerRepository defines persistence access for customers.
type CustomerRepository interface {
	Save(ctx context.Context, customer *domain.Customer) error
	FindByID(ctx context.Context, id string) (*domain.Customer, error)
	FindAll(ctx context.Context) ([]*domain.Customer, error)
}

type inMemoryCustomerRepository struct {
	mu   sync.RWMutex
	byID map[string]domain.Customer
}

// NewInMemoryCustomerRepository keeps customers in process memory.
func NewInMemoryCustomerRepository() CustomerRepository {
	return &inMemoryCustomerRepository{byID: make(map[string]domain.Customer)}
}

func (r *inMemoryCustomerRepository) Save(_ context.Context, customer *domain.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[customer.ID] = *customer
	return nil
}

func (r *inMemoryCustomerRepository) FindByID(_ context.Context, id string) (*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	customer, ok := r.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &customer, nil
}

func (r *inMemoryCustomerRepository) FindAll(_ context.Context) ([]*domain.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	result := make([]*domain.Customer, 0, len(r.byID))
	for _, customer := range r.byID {
		c := customer
		result = append(result, &c)
	}
	sort.Slice(result, func(i, j int) bool { return lessID(result[i].ID, result[j].ID) })
	return result, nil
}

type redisCustomerRepository struct {
	store *redisStore[domain.Customer]
}

// NewRedisCustomerRepository stores customers as JSON documents in Redis.
func NewRedisCustomerRepository(client *redis.Client, prefix string) CustomerRepository {
	return &redisCustomerRepository{store: newRedisStore[domain.Customer](client, prefix, "customer")}
}

func (r *redisCustomerRepository) Save(ctx context.Context, customer *domain.Customer) error {
	return r.store.save(ctx, customer.ID, customer)
}

func (r *redisCustomerRepository) FindByID(ctx context.Context, id string) (*domain.Customer, error) {
	return r.store.get(ctx, id)
}

func (r *redisCustomerRepository) FindAll(ctx context.Context) ([]*domain.Customer, error) {
	return r.store.all(ctx)
}
