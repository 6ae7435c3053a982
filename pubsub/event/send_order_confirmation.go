package event

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"boxoffice/entity"
	"boxoffice/gateway"
	"boxoffice/pkg/log"
)

func (h Handler) SendOrderConfirmationHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"SendOrderConfirmationHandler",
		func(ctx context.Context, event *entity.OrderCompleted) error {
			log.FromContext(ctx).Infof("Sending order confirmation for %s", event.ConfirmationNumber)

			err := h.mailer.SendOrderConfirmation(ctx, gateway.OrderConfirmationEmail{
				To:                 event.CustomerEmail,
				ConfirmationNumber: event.ConfirmationNumber,
				AmountCents:        event.AmountCents,
				TicketQuantity:     len(event.TicketCodes),
				IdempotencyKey:     event.Header.IdempotencyKey,
			})
			if err != nil {
				return fmt.Errorf("failed to send order confirmation: %w", err)
			}

			return nil
		},
	)
}
