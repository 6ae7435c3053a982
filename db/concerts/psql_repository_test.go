package concerts_test

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

func draftConcert() entity.Concert {
	return entity.Concert{
		ConcertID:         uuid.NewString(),
		Title:             "The Red Chord",
		Subtitle:          "with Animosity and Lethargy",
		Venue:             "The Mosh Pit",
		VenueAddress:      "123 Example Lane",
		Date:              time.Now().Add(7 * 24 * time.Hour).UTC(),
		TicketPriceCents:  3250,
		TicketQuantity:    5,
		PromoterEmail:     "promoter@example.com",
		PromoterAccountID: "acct_promoter",
	}
}

func TestStoreAndGetConcert(t *testing.T) {
	ctx := context.Background()
	repo := concerts.NewPostgresRepository(db.GetDb(t))

	concert := draftConcert()
	require.NoError(t, repo.Store(ctx, concert))

	// storing twice is idempotent
	require.NoError(t, repo.Store(ctx, concert))

	found, err := repo.Get(ctx, concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, concert.Title, found.Title)
	assert.Equal(t, concert.TicketPriceCents, found.TicketPriceCents)
	assert.False(t, found.IsPublished())

	_, err = repo.Get(ctx, uuid.NewString())
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestPublishCreatesTicketsOnce(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)
	repo := concerts.NewPostgresRepository(conn)
	ticketsRepo := tickets.NewPostgresRepository(conn)

	concert := draftConcert()
	require.NoError(t, repo.Store(ctx, concert))

	require.NoError(t, repo.Publish(ctx, concert.ConcertID))

	published, err := repo.Get(ctx, concert.ConcertID)
	require.NoError(t, err)
	assert.True(t, published.IsPublished())

	remaining, err := ticketsRepo.RemainingFor(ctx, concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	// publishing again must not mint more tickets
	err = repo.Publish(ctx, concert.ConcertID)
	require.ErrorIs(t, err, entity.ErrAlreadyPublished)

	remaining, err = ticketsRepo.RemainingFor(ctx, concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	err = repo.Publish(ctx, uuid.NewString())
	require.ErrorIs(t, err, entity.ErrNotFound)
}

func TestStatsTrackTicketLifecycle(t *testing.T) {
	ctx := context.Background()
	conn := db.GetDb(t)
	repo := concerts.NewPostgresRepository(conn)
	ticketsRepo := tickets.NewPostgresRepository(conn)
	ordersRepo := orders.NewPostgresRepository(conn)

	concert := draftConcert()
	require.NoError(t, repo.Store(ctx, concert))
	require.NoError(t, repo.Publish(ctx, concert.ConcertID))

	claimed, err := ticketsRepo.Reserve(ctx, concert.ConcertID, 2)
	require.NoError(t, err)

	stats, err := repo.Stats(ctx, concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TicketsTotal)
	assert.Equal(t, 0, stats.TicketsSold)
	assert.Equal(t, 3, stats.TicketsRemaining)
	assert.Equal(t, int64(0), stats.RevenueCents)

	ids := make([]int64, 0, len(claimed))
	for _, ticket := range claimed {
		ids = append(ids, ticket.TicketID)
	}

	order := entity.Order{
		OrderID:            uuid.NewString(),
		ConcertID:          concert.ConcertID,
		ConfirmationNumber: "STATS" + uuid.NewString()[:11],
		Email:              "jane@example.com",
		AmountCents:        6500,
		CardLastFour:       "4242",
	}
	_, err = ordersRepo.CreateForTickets(ctx, order, ids, []string{"code-1", "code-2"})
	require.NoError(t, err)

	stats, err = repo.Stats(ctx, concert.ConcertID)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.TicketsTotal)
	assert.Equal(t, 2, stats.TicketsSold)
	assert.Equal(t, 3, stats.TicketsRemaining)
	assert.Equal(t, int64(6500), stats.RevenueCents)
	assert.Equal(t, float64(40), stats.PercentSoldOut())
}
