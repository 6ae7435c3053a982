package gateway

import (
	"context"
	"sync"
)

type MailerMock struct {
	mock sync.Mutex

	OrderConfirmations []OrderConfirmationEmail
	AttendeeMessages   []AttendeeMessageEmail
}

func (c *MailerMock) SendOrderConfirmation(ctx context.Context, email OrderConfirmationEmail) error {
	c.mock.Lock()
	defer c.mock.Unlock()

	c.OrderConfirmations = append(c.OrderConfirmations, email)
	return nil
}

func (c *MailerMock) SendAttendeeMessage(ctx context.Context, email AttendeeMessageEmail) error {
	c.mock.Lock()
	defer c.mock.Unlock()

	c.AttendeeMessages = append(c.AttendeeMessages, email)
	return nil
}

// SentOrderConfirmations copies the sent confirmations under the lock, for
// asserting from other goroutines.
func (c *MailerMock) SentOrderConfirmations() []OrderConfirmationEmail {
	c.mock.Lock()
	defer c.mock.Unlock()

	return append([]OrderConfirmationEmail(nil), c.OrderConfirmations...)
}

func (c *MailerMock) SentAttendeeMessages() []AttendeeMessageEmail {
	c.mock.Lock()
	defer c.mock.Unlock()

	return append([]AttendeeMessageEmail(nil), c.AttendeeMessages...)
}
