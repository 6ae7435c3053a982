package tickets_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boxoffice/db"
	"boxoffice/db/concerts"
	"boxoffice/db/tickets"
	"boxoffice/entity"
)

func storeConcert(t *testing.T, conn interface {
	Store(ctx context.Context, concert entity.Concert) error
}) entity.Concert {
	t.Helper()

	concert := entity.Concert{
		ConcertID:        uuid.NewString(),
		Title:            "With The Dead",
		Date:             time.Now().Add(24 * time.Hour).UTC(),
		TicketPriceCents: 3250,
		TicketQuantity:   10,
	}
	require.NoError(t, conn.Store(context.Background(), concert))
	return concert
}

func TestReserveIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)

	ticketsRepo := tickets.NewPostgresRepository(conn)
	concert := storeConcert(t, concerts.NewPostgresRepository(conn))

	require.NoError(t, ticketsRepo.Add(ctx, concert.ConcertID, 5, 3250))

	claimed, err := ticketsRepo.Reserve(ctx, concert.ConcertID, 3)
	require.NoError(t, err)
	require.Len(t, claimed, 3)
	for _, ticket := range claimed {
		assert.Equal(t, entity.TicketStatusReserved, ticket.Status())
		assert.Equal(t, int64(3250), ticket.PriceCents)
	}

	remaining, err := ticketsRepo.RemainingFor(ctx, concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)

	// only 2 free, asking for 3 must not hold any of them
	_, err = ticketsRepo.Reserve(ctx, concert.ConcertID, 3)
	require.ErrorIs(t, err, entity.ErrNotEnoughTickets)

	remaining, err = ticketsRepo.RemainingFor(ctx, concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 2, remaining)
}

func TestReleaseReturnsTicketsToThePool(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)

	ticketsRepo := tickets.NewPostgresRepository(conn)
	concert := storeConcert(t, concerts.NewPostgresRepository(conn))

	require.NoError(t, ticketsRepo.Add(ctx, concert.ConcertID, 4, 3250))

	claimed, err := ticketsRepo.Reserve(ctx, concert.ConcertID, 4)
	require.NoError(t, err)

	var ids []int64
	for _, ticket := range claimed {
		ids = append(ids, ticket.TicketID)
	}

	require.NoError(t, ticketsRepo.Release(ctx, ids))

	remaining, err := ticketsRepo.RemainingFor(ctx, concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)

	// releasing again is a no-op
	require.NoError(t, ticketsRepo.Release(ctx, ids))
	remaining, err = ticketsRepo.RemainingFor(ctx, concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 4, remaining)
}

func TestConcurrentReservesNeverOversell(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)

	ticketsRepo := tickets.NewPostgresRepository(conn)
	concert := storeConcert(t, concerts.NewPostgresRepository(conn))

	require.NoError(t, ticketsRepo.Add(ctx, concert.ConcertID, 10, 1000))

	var wg sync.WaitGroup
	reserved := make(chan int, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := ticketsRepo.Reserve(ctx, concert.ConcertID, 2)
			if err != nil {
				assert.ErrorIs(t, err, entity.ErrNotEnoughTickets)
				reserved <- 0
				return
			}
			reserved <- len(claimed)
		}()
	}
	wg.Wait()
	close(reserved)

	total := 0
	for n := range reserved {
		require.True(t, n == 0 || n == 2, "partial claim of %d tickets", n)
		total += n
	}

	remaining, err := ticketsRepo.RemainingFor(ctx, concert.ConcertID)
	require.NoError(t, err)

	// every ticket is either held by exactly one reservation or still free
	assert.LessOrEqual(t, total, 10)
	assert.Equal(t, 10-total, remaining)
}

func TestReservationsOnOtherConcertsDoNotContend(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)

	ticketsRepo := tickets.NewPostgresRepository(conn)
	concertsRepo := concerts.NewPostgresRepository(conn)

	first := storeConcert(t, concertsRepo)
	second := storeConcert(t, concertsRepo)

	require.NoError(t, ticketsRepo.Add(ctx, first.ConcertID, 2, 1000))
	require.NoError(t, ticketsRepo.Add(ctx, second.ConcertID, 2, 2000))

	_, err := ticketsRepo.Reserve(ctx, first.ConcertID, 2)
	require.NoError(t, err)

	claimed, err := ticketsRepo.Reserve(ctx, second.ConcertID, 2)
	require.NoError(t, err)
	for _, ticket := range claimed {
		assert.Equal(t, second.ConcertID, ticket.ConcertID)
	}
}
