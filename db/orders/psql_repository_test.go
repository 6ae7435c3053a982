package orders_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/db"
	"boxoffice/db/concerts"
	"boxoffice/db/orders"
	"boxoffice/db/tickets"
	"boxoffice/entity"
)

type testEnv struct {
	concert     entity.Concert
	ticketsRepo *tickets.PostgresRepository
	ordersRepo  *orders.PostgresRepository
}

func setupConcert(t *testing.T, ticketCount int) testEnv {
	t.Helper()
	ctx := context.Background()
	conn := db.GetDb(t)

	concert := entity.Concert{
		ConcertID:        uuid.NewString(),
		Title:            "The Red Chord",
		Date:             time.Now().Add(24 * time.Hour).UTC(),
		TicketPriceCents: 3250,
		TicketQuantity:   ticketCount,
	}
	require.NoError(t, concerts.NewPostgresRepository(conn).Store(ctx, concert))

	ticketsRepo := tickets.NewPostgresRepository(conn)
	require.NoError(t, ticketsRepo.Add(ctx, concert.ConcertID, ticketCount, concert.TicketPriceCents))

	return testEnv{
		concert:     concert,
		ticketsRepo: ticketsRepo,
		ordersRepo:  orders.NewPostgresRepository(conn),
	}
}

func reserveIDs(t *testing.T, env testEnv, quantity int) []int64 {
	t.Helper()

	claimed, err := env.ticketsRepo.Reserve(context.Background(), env.concert.ConcertID, quantity)
	require.NoError(t, err)

	ids := make([]int64, 0, len(claimed))
	for _, ticket := range claimed {
		ids = append(ids, ticket.TicketID)
	}
	return ids
}

func confirmationNumber() string {
	return "TEST" + uuid.NewString()[:12]
}

func TestCreateForTicketsClaimsReservedTickets(t *testing.T) {
	ctx := context.Background()
	env := setupConcert(t, 3)
	ids := reserveIDs(t, env, 3)

	order := entity.Order{
		OrderID:            uuid.NewString(),
		ConcertID:          env.concert.ConcertID,
		ConfirmationNumber: confirmationNumber(),
		Email:              "jane@example.com",
		AmountCents:        9750,
		CardLastFour:       "4242",
	}

	created, err := env.ordersRepo.CreateForTickets(ctx, order, ids, []string{"code-1", "code-2", "code-3"})
	require.NoError(t, err)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, []string{"code-1", "code-2", "code-3"}, created.TicketCodes)

	found, err := env.ordersRepo.FindByConfirmationNumber(ctx, order.ConfirmationNumber)
	require.NoError(t, err)
	assert.Equal(t, order.OrderID, found.OrderID)
	assert.Equal(t, "jane@example.com", found.Email)
	assert.Equal(t, int64(9750), found.AmountCents)
	assert.ElementsMatch(t, []string{"code-1", "code-2", "code-3"}, found.TicketCodes)

	// claimed tickets never return to the pool
	remaining, err := env.ticketsRepo.RemainingFor(ctx, env.concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	require.NoError(t, env.ticketsRepo.Release(ctx, ids))
	remaining, err = env.ticketsRepo.RemainingFor(ctx, env.concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)
}

func TestCreateForTicketsRejectsSoldTickets(t *testing.T) {
	ctx := context.Background()
	env := setupConcert(t, 1)
	ids := reserveIDs(t, env, 1)

	first := entity.Order{
		OrderID:            uuid.NewString(),
		ConcertID:          env.concert.ConcertID,
		ConfirmationNumber: confirmationNumber(),
		Email:              "first@example.com",
		AmountCents:        3250,
		CardLastFour:       "4242",
	}
	_, err := env.ordersRepo.CreateForTickets(ctx, first, ids, []string{"code-a"})
	require.NoError(t, err)

	second := entity.Order{
		OrderID:            uuid.NewString(),
		ConcertID:          env.concert.ConcertID,
		ConfirmationNumber: confirmationNumber(),
		Email:              "second@example.com",
		AmountCents:        3250,
		CardLastFour:       "4242",
	}
	_, err = env.ordersRepo.CreateForTickets(ctx, second, ids, []string{"code-b"})
	require.Error(t, err)

	// the losing order is rolled back entirely
	_, err = env.ordersRepo.FindByConfirmationNumber(ctx, second.ConfirmationNumber)
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestCreateForTicketsConfirmationNumberConflict(t *testing.T) {
	ctx := context.Background()
	env := setupConcert(t, 2)
	number := confirmationNumber()

	firstIDs := reserveIDs(t, env, 1)
	first := entity.Order{
		OrderID:            uuid.NewString(),
		ConcertID:          env.concert.ConcertID,
		ConfirmationNumber: number,
		Email:              "first@example.com",
		AmountCents:        3250,
		CardLastFour:       "4242",
	}
	_, err := env.ordersRepo.CreateForTickets(ctx, first, firstIDs, []string{"code-a"})
	require.NoError(t, err)

	secondIDs := reserveIDs(t, env, 1)
	second := entity.Order{
		OrderID:            uuid.NewString(),
		ConcertID:          env.concert.ConcertID,
		ConfirmationNumber: number,
		Email:              "second@example.com",
		AmountCents:        3250,
		CardLastFour:       "4242",
	}
	_, err = env.ordersRepo.CreateForTickets(ctx, second, secondIDs, []string{"code-b"})
	require.ErrorIs(t, err, entity.ErrConflict)

	// the held ticket was not claimed by the failed order
	require.NoError(t, env.ticketsRepo.Release(ctx, secondIDs))
	remaining, err := env.ticketsRepo.RemainingFor(ctx, env.concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 1, remaining)
}

func TestHasOrderForAndEmails(t *testing.T) {
	ctx := context.Background()
	env := setupConcert(t, 2)

	has, err := env.ordersRepo.HasOrderFor(ctx, env.concert.ConcertID, "jane@example.com")
	require.NoError(t, err)
	assert.False(t, has)

	ids := reserveIDs(t, env, 2)
	order := entity.Order{
		OrderID:            uuid.NewString(),
		ConcertID:          env.concert.ConcertID,
		ConfirmationNumber: confirmationNumber(),
		Email:              "jane@example.com",
		AmountCents:        6500,
		CardLastFour:       "4242",
	}
	_, err = env.ordersRepo.CreateForTickets(ctx, order, ids, []string{"code-1", "code-2"})
	require.NoError(t, err)

	has, err = env.ordersRepo.HasOrderFor(ctx, env.concert.ConcertID, "jane@example.com")
	require.NoError(t, err)
	assert.True(t, has)

	emails, err := env.ordersRepo.EmailsForConcert(ctx, env.concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, []string{"jane@example.com"}, emails)

	listed, err := env.ordersRepo.ListByConcert(ctx, env.concert.ConcertID, 10)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, order.OrderID, listed[0].OrderID)
}
