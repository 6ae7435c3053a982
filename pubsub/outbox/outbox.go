package outbox

import (
	"context"
	stdSQL "database/sql"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Topic is the postgres staging topic for events published inside database
// transactions. The forwarder moves them to the redis streams they are
// addressed to.
const Topic = "events_to_forward"

func NewPostgresSubscriber(db *stdSQL.DB, logger watermill.LoggerAdapter) *sql.Subscriber {
	sub, err := sql.NewSubscriber(db, sql.SubscriberConfig{
		SchemaAdapter:    sql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   sql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
	}, logger)
	if err != nil {
		panic(fmt.Errorf("could not create postgres subscriber: %w", err))
	}
	return sub
}

// InitializeSchema creates the outbox tables up front, so transactions can
// publish before the forwarder has started consuming.
func InitializeSchema(db *stdSQL.DB, logger watermill.LoggerAdapter) error {
	sub := NewPostgresSubscriber(db, logger)
	if err := sub.SubscribeInitialize(Topic); err != nil {
		return fmt.Errorf("could not initialize outbox schema: %w", err)
	}
	return sub.Close()
}

// NewPublisherForDb returns a publisher that stores messages in the outbox
// table within the given transaction. Messages become visible to the
// forwarder only when the transaction commits.
func NewPublisherForDb(ctx context.Context, tx *stdSQL.Tx) (message.Publisher, error) {
	sqlPublisher, err := sql.NewPublisher(tx, sql.PublisherConfig{
		SchemaAdapter: sql.DefaultPostgreSQLSchema{},
	}, watermill.NopLogger{})
	if err != nil {
		return nil, fmt.Errorf("could not create outbox publisher: %w", err)
	}

	return forwarder.NewPublisher(sqlPublisher, forwarder.PublisherConfig{
		ForwarderTopic: Topic,
	}), nil
}

// NewForwarder moves committed outbox messages from postgres to redis. It is
// run alongside the watermill router.
func NewForwarder(
	postgresSubscriber message.Subscriber,
	publisher message.Publisher,
	logger watermill.LoggerAdapter,
) (*forwarder.Forwarder, error) {
	fwd, err := forwarder.NewForwarder(postgresSubscriber, publisher, logger, forwarder.Config{
		ForwarderTopic: Topic,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create outbox forwarder: %w", err)
	}
	return fwd, nil
}
