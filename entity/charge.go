package entity

// ChargeRequest is the payment gateway input for a single purchase attempt.
// The customer email travels along as charge metadata.
type ChargeRequest struct {
	AmountCents        int64  `json:"amount_cents"`
	PaymentToken       string `json:"payment_token"`
	DestinationAccount string `json:"destination_account"`
	CustomerEmail      string `json:"customer_email"`
}

// Charge is a successful gateway charge.
type Charge struct {
	AmountCents  int64  `json:"amount_cents"`
	CardLastFour string `json:"card_last_four"`
}
