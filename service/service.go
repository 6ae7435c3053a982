package service

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"boxoffice/booking"
	"boxoffice/db"
	"boxoffice/db/concerts"
	"boxoffice/db/events"
	"boxoffice/db/orders"
	"boxoffice/db/tickets"
	"boxoffice/http"
	"boxoffice/pkg/log"
	"boxoffice/pubsub"
	"boxoffice/pubsub/bus"
	"boxoffice/pubsub/command"
	"boxoffice/pubsub/event"
	"boxoffice/pubsub/outbox"
)

func init() {
	log.Init(logrus.InfoLevel)
}

type MailerService interface {
	event.MailerService
	command.MailerService
}

type Service struct {
	db              *sqlx.DB
	watermillRouter *message.Router
	outboxForwarder *forwarder.Forwarder
	httpServer      *http.Server
}

func New(
	addr string,
	db *sqlx.DB,
	redisClient *redis.Client,
	paymentsService booking.PaymentGateway,
	mailerService MailerService,
) Service {
	ticketsRepo := tickets.NewPostgresRepository(db)
	concertsRepo := concerts.NewPostgresRepository(db)
	ordersRepo := orders.NewPostgresRepository(db)
	dataLake := events.NewPostgresRepository(db)

	watermillLogger := log.NewWatermill(log.FromContext(context.Background()))

	var redisPublisher message.Publisher
	redisPublisher = pubsub.NewRedisPublisher(redisClient, watermillLogger)
	redisPublisher = log.CorrelationPublisherDecorator{Publisher: redisPublisher}

	eventBus, err := bus.NewEventBus(redisPublisher)
	if err != nil {
		panic(fmt.Errorf("failed to create event bus: %w", err))
	}

	eventsHandler := event.NewHandler(
		eventBus,
		mailerService,
	)

	commandBus, err := bus.NewCommandBus(redisPublisher)
	if err != nil {
		panic(fmt.Errorf("failed to create command bus: %w", err))
	}

	commandsHandler := command.NewHandler(
		eventBus,
		mailerService,
		ordersRepo,
	)

	postgresSubscriber := outbox.NewPostgresSubscriber(db.DB, watermillLogger)
	outboxForwarder, err := outbox.NewForwarder(postgresSubscriber, redisPublisher, watermillLogger)
	if err != nil {
		panic(fmt.Errorf("failed to create outbox forwarder: %w", err))
	}

	eventProcessorConfig := event.NewProcessorConfig(redisClient, watermillLogger)
	commandProcessorConfig := command.NewProcessorConfig(redisClient, watermillLogger)

	redisSubscriber, err := redisstream.NewSubscriber(redisstream.SubscriberConfig{
		Client:        redisClient,
		ConsumerGroup: "svc-boxoffice.events",
	}, watermillLogger)
	if err != nil {
		panic(fmt.Errorf("failed to create redis subscriber: %w", err))
	}

	watermillRouter, err := pubsub.NewWatermillRouter(
		redisPublisher,
		redisSubscriber,
		eventProcessorConfig,
		eventsHandler,
		commandProcessorConfig,
		commandsHandler,
		dataLake,
		watermillLogger,
	)
	if err != nil {
		panic(fmt.Errorf("failed to create watermill router: %w", err))
	}

	bookingService := booking.NewService(
		ticketsRepo,
		ordersRepo,
		paymentsService,
		booking.RandomConfirmationNumberGenerator{},
		booking.ShortuuidTicketCodeGenerator{},
	)

	httpServer := http.NewServer(
		addr,
		commandBus,
		bookingService,
		concertsRepo,
		ordersRepo,
	)

	return Service{
		db:              db,
		watermillRouter: watermillRouter,
		outboxForwarder: outboxForwarder,
		httpServer:      httpServer,
	}
}

func (s Service) Run(ctx context.Context) error {
	if err := db.InitializeDatabaseSchema(s.db); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	watermillLogger := log.NewWatermill(log.FromContext(ctx))
	if err := outbox.InitializeSchema(s.db.DB, watermillLogger); err != nil {
		return fmt.Errorf("failed to initialize outbox schema: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return s.watermillRouter.Run(ctx)
	})

	g.Go(func() error {
		return s.outboxForwarder.Run(ctx)
	})

	g.Go(func() error {
		// the HTTP server shouldn't be healthy before the router is consuming
		<-s.watermillRouter.Running()

		return s.httpServer.Run(ctx)
	})

	return g.Wait()
}
