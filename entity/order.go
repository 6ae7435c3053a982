package entity

import "time"

// Order is the durable record of a completed, paid purchase. Orders are
// created exactly once, atomically with their ticket claims, and never
// updated afterwards.
type Order struct {
	OrderID            string    `json:"order_id" db:"order_id"`
	ConcertID          string    `json:"concert_id" db:"concert_id"`
	ConfirmationNumber string    `json:"confirmation_number" db:"confirmation_number"`
	Email              string    `json:"email" db:"email"`
	AmountCents        int64     `json:"amount_cents" db:"amount_cents"`
	CardLastFour       string    `json:"card_last_four" db:"card_last_four"`
	CreatedAt          time.Time `json:"created_at" db:"created_at"`

	// TicketCodes are the codes of the owned tickets, in claim order.
	// Populated by repository lookups, not stored on the orders row.
	TicketCodes []string `json:"ticket_codes" db:"-"`
}

func (o Order) TicketQuantity() int {
	return len(o.TicketCodes)
}
