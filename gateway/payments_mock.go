package gateway

import (
	"context"
	"strings"
	"sync"

	"boxoffice/entity"
)

const testTokenPrefix = "fake-tok_"

// PaymentsMock stands in for the payments provider. Tokens come from
// ValidTestToken; anything else is rejected with
// entity.ErrInvalidPaymentToken and nothing is recorded.
type PaymentsMock struct {
	mock sync.Mutex

	Charges           []chargeRecord
	beforeFirstCharge func()
}

type chargeRecord struct {
	entity.Charge
	DestinationAccount string
}

// ValidTestToken returns a single-use style token for the default test card.
func (c *PaymentsMock) ValidTestToken() string {
	return c.ValidTestTokenFor("4242424242424242")
}

// ValidTestTokenFor returns a chargeable token for the given card number.
func (c *PaymentsMock) ValidTestTokenFor(cardNumber string) string {
	return testTokenPrefix + cardNumber
}

// BeforeFirstCharge registers a callback invoked once, just before the next
// charge is processed. Tests use it to interleave a competing purchase at
// the most hostile moment.
func (c *PaymentsMock) BeforeFirstCharge(fn func()) {
	c.mock.Lock()
	defer c.mock.Unlock()
	c.beforeFirstCharge = fn
}

func (c *PaymentsMock) Charge(ctx context.Context, request entity.ChargeRequest) (entity.Charge, error) {
	c.mock.Lock()
	hook := c.beforeFirstCharge
	c.beforeFirstCharge = nil
	c.mock.Unlock()

	if hook != nil {
		hook()
	}

	if !strings.HasPrefix(request.PaymentToken, testTokenPrefix) {
		return entity.Charge{}, entity.ErrInvalidPaymentToken
	}

	cardNumber := strings.TrimPrefix(request.PaymentToken, testTokenPrefix)
	if len(cardNumber) < 4 {
		return entity.Charge{}, entity.ErrInvalidPaymentToken
	}
	charge := entity.Charge{
		AmountCents:  request.AmountCents,
		CardLastFour: cardNumber[len(cardNumber)-4:],
	}

	c.mock.Lock()
	defer c.mock.Unlock()
	c.Charges = append(c.Charges, chargeRecord{
		Charge:             charge,
		DestinationAccount: request.DestinationAccount,
	})

	return charge, nil
}

// TotalCharges sums everything charged so far, in cents.
func (c *PaymentsMock) TotalCharges() int64 {
	c.mock.Lock()
	defer c.mock.Unlock()

	var total int64
	for _, charge := range c.Charges {
		total += charge.AmountCents
	}
	return total
}

// TotalChargesFor sums the charges routed to one destination account.
func (c *PaymentsMock) TotalChargesFor(destinationAccount string) int64 {
	c.mock.Lock()
	defer c.mock.Unlock()

	var total int64
	for _, charge := range c.Charges {
		if charge.DestinationAccount == destinationAccount {
			total += charge.AmountCents
		}
	}
	return total
}

// ChargeCount reports how many charges succeeded.
func (c *PaymentsMock) ChargeCount() int {
	c.mock.Lock()
	defer c.mock.Unlock()
	return len(c.Charges)
}
