package event

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"boxoffice/gateway"
)

type MailerService interface {
	SendOrderConfirmation(ctx context.Context, email gateway.OrderConfirmationEmail) error
}

type Handler struct {
	eventBus *cqrs.EventBus
	mailer   MailerService
}

func NewHandler(
	eventBus *cqrs.EventBus,
	mailer MailerService,
) Handler {
	if eventBus == nil {
		panic("missing eventBus")
	}
	if mailer == nil {
		panic("missing mailer")
	}

	return Handler{
		eventBus: eventBus,
		mailer:   mailer,
	}
}
