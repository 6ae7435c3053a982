package entity

import "time"

type Concert struct {
	ConcertID          string     `json:"concert_id" db:"concert_id"`
	Title              string     `json:"title" db:"title"`
	Subtitle           string     `json:"subtitle" db:"subtitle"`
	Venue              string     `json:"venue" db:"venue"`
	VenueAddress       string     `json:"venue_address" db:"venue_address"`
	Date               time.Time  `json:"date" db:"date"`
	TicketPriceCents   int64      `json:"ticket_price_cents" db:"ticket_price_cents"`
	TicketQuantity     int        `json:"ticket_quantity" db:"ticket_quantity"`
	PromoterEmail      string     `json:"promoter_email" db:"promoter_email"`
	PromoterAccountID  string     `json:"promoter_account_id" db:"promoter_account_id"`
	PublishedAt        *time.Time `json:"published_at" db:"published_at"`
}

// IsPublished reports whether the concert is visible to customers. Ticket
// sales and attendee messaging are only permitted against published concerts.
func (c Concert) IsPublished() bool {
	return c.PublishedAt != nil
}

// ConcertStats is the promoter-facing aggregate view of one concert's sales.
type ConcertStats struct {
	TicketsTotal     int   `json:"tickets_total" db:"tickets_total"`
	TicketsSold      int   `json:"tickets_sold" db:"tickets_sold"`
	TicketsRemaining int   `json:"tickets_remaining" db:"tickets_remaining"`
	RevenueCents     int64 `json:"revenue_cents" db:"revenue_cents"`
}

// PercentSoldOut is rounded to two decimal places.
func (s ConcertStats) PercentSoldOut() float64 {
	if s.TicketsTotal == 0 {
		return 0
	}
	ratio := float64(s.TicketsSold) / float64(s.TicketsTotal)
	return float64(int64(ratio*10000+0.5)) / 100
}
