package command

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"

	"boxoffice/entity"
	"boxoffice/gateway"
	"boxoffice/pkg/log"
)

func (h Handler) SendAttendeeMessageHandler() cqrs.CommandHandler {
	return cqrs.NewCommandHandler(
		"SendAttendeeMessageHandler",
		func(ctx context.Context, command *entity.SendAttendeeMessage) error {
			log.FromContext(ctx).Infof("SendAttendeeMessageHandler: %s", command.ConcertID)

			emails, err := h.ordersRepo.EmailsForConcert(ctx, command.ConcertID)
			if err != nil {
				return fmt.Errorf("could not list attendee emails: %w", err)
			}

			for _, email := range emails {
				err := h.mailer.SendAttendeeMessage(ctx, gateway.AttendeeMessageEmail{
					To:             email,
					Subject:        command.Subject,
					Message:        command.Message,
					IdempotencyKey: command.Header.IdempotencyKey + ":" + email,
				})
				if err != nil {
					return fmt.Errorf("could not send attendee message to %s: %w", email, err)
				}
			}

			return h.eventBus.Publish(ctx, entity.AttendeeMessagesSent{
				Header:     entity.NewEventHeaderWithIdempotencyKey(command.Header.IdempotencyKey),
				ConcertID:  command.ConcertID,
				Recipients: len(emails),
			})
		},
	)
}
