package tickets

import (
	"context"
	"sort"
	"sync"
	"time"

	"boxoffice/entity"
)

// MockRepository is an in-memory stand-in for the postgres repository. It
// honors the same all-or-nothing claim contract under a mutex, so booking
// tests can exercise concurrent reservations without a database.
type MockRepository struct {
	lock    sync.Mutex
	seq     int64
	Tickets map[int64]*entity.Ticket
}

func NewMockRepository() *MockRepository {
	return &MockRepository{Tickets: map[int64]*entity.Ticket{}}
}

func (r *MockRepository) Add(ctx context.Context, concertID string, quantity int, priceCents int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for i := 0; i < quantity; i++ {
		r.seq++
		r.Tickets[r.seq] = &entity.Ticket{
			TicketID:   r.seq,
			ConcertID:  concertID,
			PriceCents: priceCents,
		}
	}
	return nil
}

func (r *MockRepository) Reserve(ctx context.Context, concertID string, quantity int) ([]entity.Ticket, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	free := r.freeLocked(concertID)
	if len(free) < quantity {
		return nil, entity.ErrNotEnoughTickets
	}

	now := time.Now().UTC()
	claimed := make([]entity.Ticket, 0, quantity)
	for _, t := range free[:quantity] {
		t.ReservedAt = &now
		claimed = append(claimed, *t)
	}
	return claimed, nil
}

func (r *MockRepository) Release(ctx context.Context, ticketIDs []int64) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, id := range ticketIDs {
		t, ok := r.Tickets[id]
		if !ok || t.OrderID != nil {
			continue
		}
		t.ReservedAt = nil
	}
	return nil
}

func (r *MockRepository) RemainingFor(ctx context.Context, concertID string) (int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	return len(r.freeLocked(concertID)), nil
}

// Claim marks a reserved ticket as sold to the order. Used by the orders
// mock to mirror the conditional update the postgres repository issues.
func (r *MockRepository) Claim(orderID string, ticketID int64, code string) bool {
	r.lock.Lock()
	defer r.lock.Unlock()

	t, ok := r.Tickets[ticketID]
	if !ok || t.OrderID != nil {
		return false
	}
	c := code
	t.Code = &c
	t.OrderID = &orderID
	t.ReservedAt = nil
	return true
}

// Snapshot copies all tickets under the lock.
func (r *MockRepository) Snapshot() []entity.Ticket {
	r.lock.Lock()
	defer r.lock.Unlock()

	all := make([]entity.Ticket, 0, len(r.Tickets))
	for _, t := range r.Tickets {
		all = append(all, *t)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].TicketID < all[j].TicketID })
	return all
}

// Unclaim reverts a Claim when the order mock rolls back.
func (r *MockRepository) Unclaim(orderID string, ticketID int64) {
	r.lock.Lock()
	defer r.lock.Unlock()

	t, ok := r.Tickets[ticketID]
	if !ok || t.OrderID == nil || *t.OrderID != orderID {
		return
	}
	t.Code = nil
	t.OrderID = nil
}

func (r *MockRepository) freeLocked(concertID string) []*entity.Ticket {
	var free []*entity.Ticket
	for _, t := range r.Tickets {
		if t.ConcertID == concertID && t.Status() == entity.TicketStatusFree {
			free = append(free, t)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].TicketID < free[j].TicketID })
	return free
}
