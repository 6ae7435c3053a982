package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	"boxoffice/gateway"
	"boxoffice/pkg/log"
	"boxoffice/service"
	"boxoffice/tracing"
)

type config struct {
	Addr           string `long:"addr" env:"ADDR" default:":8080" description:"HTTP listen address"`
	PostgresURL    string `long:"postgres-url" env:"POSTGRES_URL" required:"true" description:"postgres connection string"`
	RedisAddr      string `long:"redis-addr" env:"REDIS_ADDR" required:"true" description:"redis address"`
	PaymentsURL    string `long:"payments-url" env:"PAYMENTS_URL" required:"true" description:"payments provider base URL"`
	MailerURL      string `long:"mailer-url" env:"MAILER_URL" required:"true" description:"mailer service base URL"`
	JaegerEndpoint string `long:"jaeger-endpoint" env:"JAEGER_ENDPOINT" default:"http://localhost:14268/api/traces" description:"jaeger collector endpoint"`
}

func main() {
	var cfg config
	if _, err := flags.Parse(&cfg); err != nil {
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	traceProvider := tracing.ConfigureTraceProvider(cfg.JaegerEndpoint)
	defer func() {
		if err := traceProvider.Shutdown(context.Background()); err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown trace provider")
		}
	}()

	sqlDB, err := otelsql.Open("postgres", cfg.PostgresURL,
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	)
	if err != nil {
		panic(err)
	}
	dbConn := sqlx.NewDb(sqlDB, "postgres")
	defer dbConn.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})
	defer redisClient.Close()

	paymentsService := gateway.NewPaymentsClient(cfg.PaymentsURL)
	mailerService := gateway.NewMailerClient(cfg.MailerURL)

	svc := service.New(
		cfg.Addr,
		dbConn,
		redisClient,
		paymentsService,
		mailerService,
	)

	if err := svc.Run(ctx); err != nil {
		log.FromContext(ctx).WithError(err).Fatal("service stopped with error")
	}
}
