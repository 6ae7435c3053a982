package entity

// OrderCompleted is published transactionally (outbox) when a reservation is
// paid and its tickets are claimed by the new order.
type OrderCompleted struct {
	Header             EventHeader `json:"header"`
	OrderID            string      `json:"order_id"`
	ConcertID          string      `json:"concert_id"`
	ConfirmationNumber string      `json:"confirmation_number"`
	CustomerEmail      string      `json:"customer_email"`
	AmountCents        int64       `json:"amount_cents"`
	Currency           string      `json:"currency"`
	TicketCodes        []string    `json:"ticket_codes"`
}

func (OrderCompleted) IsInternal() bool { return false }

// ConcertPublished is published when a promoter puts a concert on sale.
type ConcertPublished struct {
	Header       EventHeader `json:"header"`
	ConcertID    string      `json:"concert_id"`
	TicketsAdded int         `json:"tickets_added"`
}

func (ConcertPublished) IsInternal() bool { return false }

// AttendeeMessagesSent is published after an attendee broadcast was handed
// to the mailer for every order on a concert.
type AttendeeMessagesSent struct {
	Header     EventHeader `json:"header"`
	ConcertID  string      `json:"concert_id"`
	Recipients int         `json:"recipients"`
}

func (AttendeeMessagesSent) IsInternal() bool { return false }
