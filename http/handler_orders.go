package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/samber/lo"

	"boxoffice/entity"
	"boxoffice/metrics"
	"boxoffice/pkg/log"
)

type postOrderRequest struct {
	Email          string `json:"email"`
	TicketQuantity int    `json:"ticket_quantity"`
	PaymentToken   string `json:"payment_token"`
}

// orderResponse is the order's external representation. Amount is in cents,
// like everywhere else internally.
type orderResponse struct {
	ConfirmationNumber string        `json:"confirmation_number"`
	Email              string        `json:"email"`
	Amount             int64         `json:"amount"`
	TicketQuantity     int           `json:"ticket_quantity"`
	Tickets            []orderTicket `json:"tickets"`
	CreatedAt          time.Time     `json:"created_at"`
}

type orderTicket struct {
	Code string `json:"code"`
}

// PostConcertOrder is the purchase flow: reserve, charge, claim. A rejected
// charge cancels the reservation so the tickets go straight back on sale.
func (s *Server) PostConcertOrder(c echo.Context) error {
	ctx := c.Request().Context()

	var request postOrderRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Email == "" || !strings.Contains(request.Email, "@") {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "a valid email is required")
	}
	if request.TicketQuantity < 1 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "ticket_quantity must be at least 1")
	}
	if request.PaymentToken == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "payment_token is required")
	}

	concert, err := s.concertsRepo.Get(ctx, c.Param("concert_id"))
	if errors.Is(err, entity.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "concert not found")
	}
	if err != nil {
		return err
	}
	if !concert.IsPublished() {
		return echo.NewHTTPError(http.StatusNotFound, "concert not found")
	}

	reservation, err := s.bookingService.ReserveTickets(ctx, concert, request.Email, request.TicketQuantity)
	if errors.Is(err, entity.ErrNotEnoughTickets) {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "not enough tickets remain")
	}
	if err != nil {
		return err
	}
	metrics.TicketsReserved.WithLabelValues(concert.ConcertID).Add(float64(request.TicketQuantity))

	order, err := reservation.Complete(ctx, request.PaymentToken)
	if errors.Is(err, entity.ErrInvalidPaymentToken) || errors.Is(err, entity.ErrPaymentGateway) {
		metrics.PaymentsFailed.WithLabelValues(concert.ConcertID).Inc()

		if cancelErr := reservation.Cancel(ctx); cancelErr != nil {
			log.FromContext(ctx).WithError(cancelErr).Error("failed to cancel reservation after failed charge")
		}
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "payment failed")
	}
	if err != nil {
		return err
	}
	metrics.OrdersCompleted.WithLabelValues(concert.ConcertID).Inc()

	return c.JSON(http.StatusCreated, newOrderResponse(order))
}

func (s *Server) GetOrder(c echo.Context) error {
	order, err := s.ordersRepo.FindByConfirmationNumber(c.Request().Context(), c.Param("confirmation_number"))
	if errors.Is(err, entity.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "order not found")
	}
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, newOrderResponse(order))
}

func (s *Server) GetConcertOrders(c echo.Context) error {
	limit := 10
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "limit must be a positive integer")
		}
		limit = parsed
	}

	orders, err := s.ordersRepo.ListByConcert(c.Request().Context(), c.Param("concert_id"), limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, lo.Map(orders, func(o entity.Order, _ int) orderResponse {
		return newOrderResponse(o)
	}))
}

func newOrderResponse(order entity.Order) orderResponse {
	return orderResponse{
		ConfirmationNumber: order.ConfirmationNumber,
		Email:              order.Email,
		Amount:             order.AmountCents,
		TicketQuantity:     order.TicketQuantity(),
		Tickets: lo.Map(order.TicketCodes, func(code string, _ int) orderTicket {
			return orderTicket{Code: code}
		}),
		CreatedAt: order.CreatedAt,
	}
}
