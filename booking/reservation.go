package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"boxoffice/entity"
)

// Reservation is a transient hold on concrete tickets for one customer. It
// is not persisted: its lifetime is the purchase attempt, ending in exactly
// one Complete or Cancel.
type Reservation struct {
	service  *Service
	concert  entity.Concert
	tickets  []entity.Ticket
	email    string
	finished bool
}

func (r *Reservation) Tickets() []entity.Ticket {
	return r.tickets
}

func (r *Reservation) Email() string {
	return r.email
}

// TotalCost is the sum of the held tickets' prices.
func (r *Reservation) TotalCost() entity.Money {
	return entity.NewMoney(lo.SumBy(r.tickets, func(t entity.Ticket) int64 {
		return t.PriceCents
	}))
}

// Complete charges the customer and converts the hold into an order. The
// charge happens first: if it fails the reservation stays open (and held)
// so the caller decides whether to retry or cancel. A successful purchase
// finishes the reservation.
func (r *Reservation) Complete(ctx context.Context, paymentToken string) (entity.Order, error) {
	if r.finished {
		return entity.Order{}, entity.ErrReservationFinished
	}

	charge, err := r.service.payments.Charge(ctx, entity.ChargeRequest{
		AmountCents:        r.TotalCost().AmountCents,
		PaymentToken:       paymentToken,
		DestinationAccount: r.concert.PromoterAccountID,
		CustomerEmail:      r.email,
	})
	if err != nil {
		return entity.Order{}, fmt.Errorf("could not charge customer: %w", err)
	}

	ticketIDs := lo.Map(r.tickets, func(t entity.Ticket, _ int) int64 { return t.TicketID })
	codes := lo.Map(r.tickets, func(entity.Ticket, int) string { return r.service.ticketCodes.Generate() })

	order := entity.Order{
		OrderID:            uuid.NewString(),
		ConcertID:          r.concert.ConcertID,
		ConfirmationNumber: r.service.confirmationNumbers.Generate(),
		Email:              r.email,
		AmountCents:        r.TotalCost().AmountCents,
		CardLastFour:       charge.CardLastFour,
	}

	created, err := r.service.orders.CreateForTickets(ctx, order, ticketIDs, codes)
	if errors.Is(err, entity.ErrConflict) {
		// confirmation number collision, regenerate once
		order.ConfirmationNumber = r.service.confirmationNumbers.Generate()
		created, err = r.service.orders.CreateForTickets(ctx, order, ticketIDs, codes)
	}
	if err != nil {
		return entity.Order{}, fmt.Errorf("could not create order: %w", err)
	}

	r.finished = true
	return created, nil
}

// Cancel returns the held tickets to the pool and finishes the reservation.
func (r *Reservation) Cancel(ctx context.Context) error {
	if r.finished {
		return entity.ErrReservationFinished
	}

	ticketIDs := lo.Map(r.tickets, func(t entity.Ticket, _ int) int64 { return t.TicketID })
	if err := r.service.tickets.Release(ctx, ticketIDs); err != nil {
		return fmt.Errorf("could not release tickets: %w", err)
	}

	r.finished = true
	return nil
}
