package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/support-desk/internal/domain"
)

func newRedisClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func sampleTicket(id string) *domain.Ticket {
	return domain.NewTicket(domain.TicketDraft{
		ID:          id,
		CustomerID:  "CUST-1001",
		Description: "Cannot log in to the portal",
		Priority:    domain.TicketPriorityHigh,
		Category:    domain.TicketCategoryTechnical,
	}, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
}

func ticketRepositories(t *testing.T) map[string]TicketRepository {
	_, client := newRedisClient(t)
	return map[string]TicketRepository{
		"memory": NewInMemoryTicketRepository(),
		"redis":  NewRedisTicketRepository(client, "test"),
	}
}

func customerRepositories(t *testing.T) map[string]CustomerRepository {
	_, client := newRedisClient(t)
	return map[string]CustomerRepository{
		"memory": NewInMemoryCustomerRepository(),
		"redis":  NewRedisCustomerRepository(client, "test"),
	}
}

func TestTicketRepository_SaveAndFind(t *testing.T) {
	for name, repo := range ticketRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			ticket := sampleTicket("TKT-1001")
			require.NoError(t, repo.Save(ctx, ticket))

			got, err := repo.FindByID(ctx, "TKT-1001")
			require.NoError(t, err)
			assert.Equal(t, ticket.ID, got.ID)
			assert.Equal(t, domain.TicketStatusOpen, got.Status)
			assert.Equal(t, "Agent-002", got.AssignedTo)
			assert.True(t, got.Tags.Has("technical-support"))
			assert.True(t, ticket.CreatedAt.Equal(got.CreatedAt))

			_, err = repo.FindByID(ctx, "TKT-404")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestTicketRepository_SaveOverwritesAndFindAllSorted(t *testing.T) {
	for name, repo := range ticketRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Save(ctx, sampleTicket("TKT-1002")))
			first := sampleTicket("TKT-1001")
			require.NoError(t, repo.Save(ctx, first))

			first.Status = domain.TicketStatusInProgress
			require.NoError(t, repo.Save(ctx, first))

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "TKT-1001", all[0].ID)
			assert.Equal(t, domain.TicketStatusInProgress, all[0].Status)
			assert.Equal(t, "TKT-1002", all[1].ID)
		})
	}
}

func TestInMemoryTicketRepository_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewInMemoryTicketRepository()
	ticket := sampleTicket("TKT-1001")
	require.NoError(t, repo.Save(ctx, ticket))

	ticket.Status = domain.TicketStatusClosed
	got, err := repo.FindByID(ctx, "TKT-1001")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, got.Status)

	got.Tags.Add("mutated")
	again, err := repo.FindByID(ctx, "TKT-1001")
	require.NoError(t, err)
	assert.False(t, again.Tags.Has("mutated"))
}

func TestCustomerRepository_SaveAndFind(t *testing.T) {
	for name, repo := range customerRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.Save(ctx, &domain.Customer{ID: "CUST-1002", Name: "Bo", Type: domain.CustomerTypeVIP}))
			require.NoError(t, repo.Save(ctx, &domain.Customer{ID: "CUST-1001", Name: "Ana", Email: "ana@example.com"}))

			got, err := repo.FindByID(ctx, "CUST-1001")
			require.NoError(t, err)
			assert.Equal(t, "ana@example.com", got.Email)

			_, err = repo.FindByID(ctx, "CUST-9999")
			assert.ErrorIs(t, err, ErrNotFound)

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "CUST-1001", all[0].ID)
			assert.Equal(t, domain.CustomerTypeVIP, all[1].Type)
		})
	}
}

func TestRedisTicketRepository_KeyLayout(t *testing.T) {
	mr, client := newRedisClient(t)
	repo := NewRedisTicketRepository(client, "desk")

	require.NoError(t, repo.Save(context.Background(), sampleTicket("TKT-1001")))

	assert.True(t, mr.Exists("desk:ticket:TKT-1001"))
	members, err := mr.Members("desk:tickets")
	require.NoError(t, err)
	assert.Equal(t, []string{"TKT-1001"}, members)
}

func TestRedisTicketRepository_CorruptDocument(t *testing.T) {
	mr, client := newRedisClient(t)
	repo := NewRedisTicketRepository(client, "desk")
	require.NoError(t, mr.Set("desk:ticket:TKT-1", "{not json"))

	_, err := repo.FindByID(context.Background(), "TKT-1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestFindAll_OrdersBySequenceNumber(t *testing.T) {
	for name, repo := range ticketRepositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for _, id := range []string{"TKT-10000", "TKT-1001", "TKT-999", "TKT-1010"} {
				require.NoError(t, repo.Save(ctx, sampleTicket(id)))
			}

			all, err := repo.FindAll(ctx)
			require.NoError(t, err)
			ids := make([]string, 0, len(all))
			for _, ticket := range all {
				ids = append(ids, ticket.ID)
			}
			assert.Equal(t, []string{"TKT-999", "TKT-1001", "TKT-1010", "TKT-10000"}, ids)
		})
	}
}

func TestLessID(t *testing.T) {
	assert.True(t, lessID("CUST-9999", "CUST-10000"))
	assert.False(t, lessID("CUST-10000", "CUST-9999"))
	assert.True(t, lessID("CUST-10000", "TKT-1001"))
	assert.True(t, lessID("legacy", "plain"))
	assert.True(t, lessID("TKT-abc", "TKT-abd"))
}
