package entity_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"boxoffice/entity"
)

func TestConcertIsPublished(t *testing.T) {
	concert := entity.Concert{}
	assert.False(t, concert.IsPublished())

	now := time.Now()
	concert.PublishedAt = &now
	assert.True(t, concert.IsPublished())
}

func TestPercentSoldOutRoundsToTwoDecimals(t *testing.T) {
	testCases := []struct {
		name     string
		sold     int
		total    int
		expected float64
	}{
		{"empty concert", 0, 0, 0},
		{"nothing sold", 0, 50, 0},
		{"sold out", 50, 50, 100},
		{"one third", 1, 3, 33.33},
		{"two thirds", 2, 3, 66.67},
		{"rounds half up", 1, 8, 12.5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			stats := entity.ConcertStats{TicketsSold: tc.sold, TicketsTotal: tc.total}
			assert.Equal(t, tc.expected, stats.PercentSoldOut())
		})
	}
}

func TestTicketStatus(t *testing.T) {
	now := time.Now()
	orderID := "order-1"

	assert.Equal(t, entity.TicketStatusFree, entity.Ticket{}.Status())
	assert.Equal(t, entity.TicketStatusReserved, entity.Ticket{ReservedAt: &now}.Status())
	assert.Equal(t, entity.TicketStatusSold, entity.Ticket{OrderID: &orderID}.Status())
	assert.Equal(t, entity.TicketStatusSold, entity.Ticket{OrderID: &orderID, ReservedAt: &now}.Status())
}

func TestMoneyDollars(t *testing.T) {
	assert.Equal(t, "32.50", entity.NewMoney(3250).Dollars())
	assert.Equal(t, "0.05", entity.NewMoney(5).Dollars())
	assert.Equal(t, "100.00", entity.NewMoney(10000).Dollars())
}
