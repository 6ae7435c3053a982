package command

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"boxoffice/gateway"
)

type MailerService interface {
	SendAttendeeMessage(ctx context.Context, email gateway.AttendeeMessageEmail) error
}

type OrderRepository interface {
	EmailsForConcert(ctx context.Context, concertID string) ([]string, error)
}

type Handler struct {
	eventBus   *cqrs.EventBus
	mailer     MailerService
	ordersRepo OrderRepository
}

func NewHandler(
	eventBus *cqrs.EventBus,
	mailer MailerService,
	ordersRepo OrderRepository,
) Handler {
	if eventBus == nil {
		panic("missing eventBus")
	}
	if mailer == nil {
		panic("missing mailer")
	}
	if ordersRepo == nil {
		panic("missing ordersRepo")
	}

	return Handler{
		eventBus:   eventBus,
		mailer:     mailer,
		ordersRepo: ordersRepo,
	}
}
