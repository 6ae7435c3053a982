package orders

import (
	"context"
	"fmt"
	"sync"
	"time"

	"boxoffice/db/tickets"
	"boxoffice/entity"
)

// MockRepository keeps orders in memory and claims tickets through the
// tickets mock, mirroring the all-or-nothing transaction of the postgres
// repository.
type MockRepository struct {
	lock    sync.Mutex
	tickets *tickets.MockRepository
	Orders  map[string]entity.Order

	// OnCreate runs before the order is stored, outside the lock. Tests use
	// it to inject competing work between the claim and the commit.
	OnCreate func()
}

func NewMockRepository(ticketRepo *tickets.MockRepository) *MockRepository {
	if ticketRepo == nil {
		panic("missing ticket repository")
	}
	return &MockRepository{
		tickets: ticketRepo,
		Orders:  map[string]entity.Order{},
	}
}

func (r *MockRepository) CreateForTickets(ctx context.Context, order entity.Order, ticketIDs []int64, codes []string) (entity.Order, error) {
	if len(ticketIDs) != len(codes) {
		return entity.Order{}, fmt.Errorf("got %d tickets but %d codes", len(ticketIDs), len(codes))
	}

	if r.OnCreate != nil {
		r.OnCreate()
	}

	var claimed []int64
	for i, id := range ticketIDs {
		if !r.tickets.Claim(order.OrderID, id, codes[i]) {
			for _, c := range claimed {
				r.tickets.Unclaim(order.OrderID, c)
			}
			return entity.Order{}, fmt.Errorf("ticket %d already sold", id)
		}
		claimed = append(claimed, id)
	}

	r.lock.Lock()
	defer r.lock.Unlock()

	for _, existing := range r.Orders {
		if existing.ConfirmationNumber == order.ConfirmationNumber {
			for _, c := range claimed {
				r.tickets.Unclaim(order.OrderID, c)
			}
			return entity.Order{}, fmt.Errorf("confirmation number %s: %w", order.ConfirmationNumber, entity.ErrConflict)
		}
	}

	order.CreatedAt = time.Now().UTC()
	order.TicketCodes = append([]string(nil), codes...)
	r.Orders[order.OrderID] = order
	return order, nil
}

func (r *MockRepository) FindByConfirmationNumber(ctx context.Context, confirmationNumber string) (entity.Order, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, order := range r.Orders {
		if order.ConfirmationNumber == confirmationNumber {
			return order, nil
		}
	}
	return entity.Order{}, fmt.Errorf("order %s: %w", confirmationNumber, entity.ErrNotFound)
}

func (r *MockRepository) HasOrderFor(ctx context.Context, concertID, email string) (bool, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	for _, order := range r.Orders {
		if order.ConcertID == concertID && order.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *MockRepository) ListByConcert(ctx context.Context, concertID string, limit int) ([]entity.Order, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	var result []entity.Order
	for _, order := range r.Orders {
		if order.ConcertID == concertID {
			result = append(result, order)
		}
	}
	if limit > 0 && len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *MockRepository) EmailsForConcert(ctx context.Context, concertID string) ([]string, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	seen := map[string]bool{}
	var emails []string
	for _, order := range r.Orders {
		if order.ConcertID == concertID && !seen[order.Email] {
			seen[order.Email] = true
			emails = append(emails, order.Email)
		}
	}
	return emails, nil
}
