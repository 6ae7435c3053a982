package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"boxoffice/entity"
)

type postConcertRequest struct {
	Title             string    `json:"title"`
	Subtitle          string    `json:"subtitle"`
	Venue             string    `json:"venue"`
	VenueAddress      string    `json:"venue_address"`
	Date              time.Time `json:"date"`
	TicketPriceCents  int64     `json:"ticket_price_cents"`
	TicketQuantity    int       `json:"ticket_quantity"`
	PromoterEmail     string    `json:"promoter_email"`
	PromoterAccountID string    `json:"promoter_account_id"`
}

// PostConcert creates a draft concert. Tickets are not created until the
// concert is published.
func (s *Server) PostConcert(c echo.Context) error {
	var request postConcertRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Title == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "title is required")
	}
	if request.TicketPriceCents < 1 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "ticket_price_cents must be positive")
	}
	if request.TicketQuantity < 1 {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "ticket_quantity must be at least 1")
	}

	concert := entity.Concert{
		ConcertID:         uuid.NewString(),
		Title:             request.Title,
		Subtitle:          request.Subtitle,
		Venue:             request.Venue,
		VenueAddress:      request.VenueAddress,
		Date:              request.Date,
		TicketPriceCents:  request.TicketPriceCents,
		TicketQuantity:    request.TicketQuantity,
		PromoterEmail:     request.PromoterEmail,
		PromoterAccountID: request.PromoterAccountID,
	}

	if err := s.concertsRepo.Store(c.Request().Context(), concert); err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, concert)
}

type concertResponse struct {
	ConcertID            string    `json:"concert_id"`
	Title                string    `json:"title"`
	Subtitle             string    `json:"subtitle"`
	Venue                string    `json:"venue"`
	VenueAddress         string    `json:"venue_address"`
	Date                 time.Time `json:"date"`
	TicketPriceCents     int64     `json:"ticket_price_cents"`
	TicketPriceInDollars string    `json:"ticket_price_in_dollars"`
	TicketsRemaining     int       `json:"tickets_remaining"`
}

// GetConcert is the public listing. Drafts are indistinguishable from missing
// concerts to customers.
func (s *Server) GetConcert(c echo.Context) error {
	ctx := c.Request().Context()

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

	remaining, err := s.bookingService.TicketsRemaining(ctx, concert.ConcertID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, concertResponse{
		ConcertID:            concert.ConcertID,
		Title:                concert.Title,
		Subtitle:             concert.Subtitle,
		Venue:                concert.Venue,
		VenueAddress:         concert.VenueAddress,
		Date:                 concert.Date,
		TicketPriceCents:     concert.TicketPriceCents,
		TicketPriceInDollars: entity.NewMoney(concert.TicketPriceCents).Dollars(),
		TicketsRemaining:     remaining,
	})
}

func (s *Server) PublishConcert(c echo.Context) error {
	err := s.concertsRepo.Publish(c.Request().Context(), c.Param("concert_id"))
	if errors.Is(err, entity.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "concert not found")
	}
	if errors.Is(err, entity.ErrAlreadyPublished) {
		return echo.NewHTTPError(http.StatusConflict, "concert already published")
	}
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

type concertStatsResponse struct {
	TicketsTotal     int     `json:"tickets_total"`
	TicketsSold      int     `json:"tickets_sold"`
	TicketsRemaining int     `json:"tickets_remaining"`
	RevenueCents     int64   `json:"revenue_cents"`
	RevenueInDollars string  `json:"revenue_in_dollars"`
	PercentSoldOut   float64 `json:"percent_sold_out"`
}

func (s *Server) GetConcertStats(c echo.Context) error {
	ctx := c.Request().Context()

	if _, err := s.concertsRepo.Get(ctx, c.Param("concert_id")); err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "concert not found")
		}
		return err
	}

	stats, err := s.concertsRepo.Stats(ctx, c.Param("concert_id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, concertStatsResponse{
		TicketsTotal:     stats.TicketsTotal,
		TicketsSold:      stats.TicketsSold,
		TicketsRemaining: stats.TicketsRemaining,
		RevenueCents:     stats.RevenueCents,
		RevenueInDollars: entity.NewMoney(stats.RevenueCents).Dollars(),
		PercentSoldOut:   stats.PercentSoldOut(),
	})
}
