package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/lithammer/shortuuid/v3"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"boxoffice/booking"
	"boxoffice/entity"
	"boxoffice/pkg/log"
)

type ConcertRepository interface {
	Store(ctx context.Context, concert entity.Concert) error
	Get(ctx context.Context, concertID string) (entity.Concert, error)
	Publish(ctx context.Context, concertID string) error
	Stats(ctx context.Context, concertID string) (entity.ConcertStats, error)
}

type OrderRepository interface {
	FindByConfirmationNumber(ctx context.Context, confirmationNumber string) (entity.Order, error)
	ListByConcert(ctx context.Context, concertID string, limit int) ([]entity.Order, error)
}

type Server struct {
	addr           string
	e              *echo.Echo
	commandBus     *cqrs.CommandBus
	bookingService *booking.Service
	concertsRepo   ConcertRepository
	ordersRepo     OrderRepository
}

func NewServer(
	addr string,
	commandBus *cqrs.CommandBus,
	bookingService *booking.Service,
	concertsRepo ConcertRepository,
	ordersRepo OrderRepository,
) *Server {
	e := newEcho()

	server := &Server{
		addr:           addr,
		e:              e,
		commandBus:     commandBus,
		bookingService: bookingService,
		concertsRepo:   concertsRepo,
		ordersRepo:     ordersRepo,
	}

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	e.POST("/concerts", server.PostConcert)
	e.GET("/concerts/:concert_id", server.GetConcert)
	e.POST("/concerts/:concert_id/publish", server.PublishConcert)
	e.GET("/concerts/:concert_id/stats", server.GetConcertStats)

	e.POST("/concerts/:concert_id/orders", server.PostConcertOrder)
	e.GET("/concerts/:concert_id/orders", server.GetConcertOrders)
	e.GET("/orders/:confirmation_number", server.GetOrder)

	e.POST("/concerts/:concert_id/messages", server.PostConcertMessage)

	return server
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("boxoffice"))
	e.Use(correlationMiddleware)

	return e
}

// correlationMiddleware attaches a correlation ID and request-scoped logger
// to the request context, so everything downstream (including published
// messages) carries it.
func correlationMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		correlationID := c.Request().Header.Get("Correlation-ID")
		if correlationID == "" {
			correlationID = shortuuid.New()
		}

		ctx := log.ContextWithCorrelationID(c.Request().Context(), correlationID)
		ctx = log.ToContext(ctx, logrus.WithFields(logrus.Fields{
			"correlation_id": correlationID,
			"uri":            c.Request().RequestURI,
			"method":         c.Request().Method,
		}))

		c.SetRequest(c.Request().WithContext(ctx))
		c.Response().Header().Set("Correlation-ID", correlationID)

		return next(c)
	}
}

// ServeHTTP lets the server be driven directly, mainly from tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.e.ServeHTTP(w, r)
}

func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		err := s.e.Shutdown(context.Background())
		if err != nil {
			log.FromContext(ctx).WithError(err).Error("failed to shutdown HTTP server")
		}
	}()

	log.FromContext(ctx).WithField("addr", s.addr).Info("[HTTP] server listening")
	if err := s.e.Start(s.addr); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
