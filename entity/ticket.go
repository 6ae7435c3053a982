package entity

import "time"

type TicketStatus string

const (
	TicketStatusFree     TicketStatus = "free"
	TicketStatusReserved TicketStatus = "reserved"
	TicketStatusSold     TicketStatus = "sold"
)

// Ticket is a single sellable seat for a concert. The lifecycle is
// free -> reserved -> sold; reserved tickets can fall back to free when a
// reservation is cancelled, sold is terminal. State is persisted as the
// nullable order_id/reserved_at pair; Status derives the tagged value.
type Ticket struct {
	TicketID   int64      `json:"ticket_id" db:"ticket_id"`
	ConcertID  string     `json:"concert_id" db:"concert_id"`
	PriceCents int64      `json:"price_cents" db:"price_cents"`
	Code       *string    `json:"code" db:"code"`
	OrderID    *string    `json:"order_id" db:"order_id"`
	ReservedAt *time.Time `json:"reserved_at" db:"reserved_at"`
}

func (t Ticket) Status() TicketStatus {
	switch {
	case t.OrderID != nil:
		return TicketStatusSold
	case t.ReservedAt != nil:
		return TicketStatusReserved
	default:
		return TicketStatusFree
	}
}
