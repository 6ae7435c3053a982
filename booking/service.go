package booking

import (
	"context"
	"fmt"

	"boxoffice/entity"
)

type TicketRepository interface {
	Reserve(ctx context.Context, concertID string, quantity int) ([]entity.Ticket, error)
	Release(ctx context.Context, ticketIDs []int64) error
	RemainingFor(ctx context.Context, concertID string) (int, error)
}

type OrderRepository interface {
	CreateForTickets(ctx context.Context, order entity.Order, ticketIDs []int64, codes []string) (entity.Order, error)
}

type PaymentGateway interface {
	Charge(ctx context.Context, request entity.ChargeRequest) (entity.Charge, error)
}

// Service coordinates the purchase flow: it hands out reservations against
// the ticket pool and turns paid reservations into orders.
type Service struct {
	tickets             TicketRepository
	orders              OrderRepository
	payments            PaymentGateway
	confirmationNumbers ConfirmationNumberGenerator
	ticketCodes         TicketCodeGenerator
}

func NewService(
	tickets TicketRepository,
	orders OrderRepository,
	payments PaymentGateway,
	confirmationNumbers ConfirmationNumberGenerator,
	ticketCodes TicketCodeGenerator,
) *Service {
	if tickets == nil {
		panic("missing ticket repository")
	}
	if orders == nil {
		panic("missing order repository")
	}
	if payments == nil {
		panic("missing payment gateway")
	}
	if confirmationNumbers == nil {
		panic("missing confirmation number generator")
	}
	if ticketCodes == nil {
		panic("missing ticket code generator")
	}

	return &Service{
		tickets:             tickets,
		orders:              orders,
		payments:            payments,
		confirmationNumbers: confirmationNumbers,
		ticketCodes:         ticketCodes,
	}
}

// ReserveTickets holds quantity tickets of the concert for the customer.
// The hold is all-or-nothing: if fewer tickets are free the call fails with
// entity.ErrNotEnoughTickets and nothing is held. The returned reservation
// must be completed or cancelled; until then the tickets stay off the market.
func (s *Service) ReserveTickets(ctx context.Context, concert entity.Concert, email string, quantity int) (*Reservation, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1, got %d", quantity)
	}

	tickets, err := s.tickets.Reserve(ctx, concert.ConcertID, quantity)
	if err != nil {
		return nil, fmt.Errorf("could not reserve %d tickets for concert %s: %w", quantity, concert.ConcertID, err)
	}

	return &Reservation{
		service: s,
		concert: concert,
		tickets: tickets,
		email:   email,
	}, nil
}

// TicketsRemaining reports how many tickets of the concert are still open
// for reservation.
func (s *Service) TicketsRemaining(ctx context.Context, concertID string) (int, error) {
	return s.tickets.RemainingFor(ctx, concertID)
}
