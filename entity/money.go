package entity

import "fmt"

// DefaultCurrency is the only currency the service operates in. Amounts are
// stored as integer cents everywhere; dollars exist only at the HTTP boundary.
const DefaultCurrency = "USD"

// Money is an integer amount of minor currency units.
type Money struct {
	AmountCents int64  `json:"amount_cents" db:"amount_cents"`
	Currency    string `json:"currency" db:"currency"`
}

func NewMoney(amountCents int64) Money {
	return Money{AmountCents: amountCents, Currency: DefaultCurrency}
}

// Dollars renders the amount in major units with two decimals, e.g. "42.50".
func (m Money) Dollars() string {
	return fmt.Sprintf("%d.%02d", m.AmountCents/100, m.AmountCents%100)
}
