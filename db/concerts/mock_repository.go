package concerts

import (
	"context"
	"fmt"
	"sync"
	"time"

	"boxoffice/db/tickets"
	"boxoffice/entity"
)

// MockRepository keeps concerts in memory. It shares the tickets mock so
// Publish and Stats see the same pool the booking service reserves from.
type MockRepository struct {
	lock     sync.Mutex
	tickets  *tickets.MockRepository
	Concerts map[string]entity.Concert
}

func NewMockRepository(ticketRepo *tickets.MockRepository) *MockRepository {
	if ticketRepo == nil {
		panic("missing ticket repository")
	}
	return &MockRepository{
		tickets:  ticketRepo,
		Concerts: map[string]entity.Concert{},
	}
}

func (r *MockRepository) Store(ctx context.Context, concert entity.Concert) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.Concerts[concert.ConcertID]; ok {
		return nil
	}
	r.Concerts[concert.ConcertID] = concert
	return nil
}

func (r *MockRepository) Get(ctx context.Context, concertID string) (entity.Concert, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	concert, ok := r.Concerts[concertID]
	if !ok {
		return entity.Concert{}, fmt.Errorf("concert %s: %w", concertID, entity.ErrNotFound)
	}
	return concert, nil
}

func (r *MockRepository) Publish(ctx context.Context, concertID string) error {
	r.lock.Lock()
	concert, ok := r.Concerts[concertID]
	if !ok {
		r.lock.Unlock()
		return fmt.Errorf("concert %s: %w", concertID, entity.ErrNotFound)
	}
	if concert.IsPublished() {
		r.lock.Unlock()
		return fmt.Errorf("concert %s: %w", concertID, entity.ErrAlreadyPublished)
	}
	now := time.Now().UTC()
	concert.PublishedAt = &now
	r.Concerts[concertID] = concert
	r.lock.Unlock()

	return r.tickets.Add(ctx, concertID, concert.TicketQuantity, concert.TicketPriceCents)
}

func (r *MockRepository) Stats(ctx context.Context, concertID string) (entity.ConcertStats, error) {
	var stats entity.ConcertStats
	for _, t := range r.tickets.Snapshot() {
		if t.ConcertID != concertID {
			continue
		}
		stats.TicketsTotal++
		switch t.Status() {
		case entity.TicketStatusSold:
			stats.TicketsSold++
			stats.RevenueCents += t.PriceCents
		case entity.TicketStatusFree:
			stats.TicketsRemaining++
		}
	}
	return stats, nil
}
