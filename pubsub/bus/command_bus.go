package bus

import (
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
)

// NewCommandBus routes every command to its own "commands.<name>" stream, so
// a slow attendee broadcast cannot hold back other command handlers.
func NewCommandBus(pub message.Publisher) (*cqrs.CommandBus, error) {
	if pub == nil {
		panic("missing publisher")
	}

	return cqrs.NewCommandBusWithConfig(pub, cqrs.CommandBusConfig{
		GeneratePublishTopic: func(params cqrs.CommandBusGeneratePublishTopicParams) (string, error) {
			return "commands." + params.CommandName, nil
		},
		Marshaler: cqrs.JSONMarshaler{
			GenerateName: cqrs.StructName,
		},
	})
}
