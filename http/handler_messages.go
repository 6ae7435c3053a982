package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"boxoffice/entity"
)

type postMessageRequest struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// PostConcertMessage queues a broadcast to everyone with an order on the
// concert. Delivery happens asynchronously in the messaging worker.
func (s *Server) PostConcertMessage(c echo.Context) error {
	ctx := c.Request().Context()

	var request postMessageRequest
	if err := c.Bind(&request); err != nil {
		return err
	}

	if request.Subject == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "subject is required")
	}
	if request.Message == "" {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "message is required")
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

	err = s.commandBus.Send(ctx, entity.SendAttendeeMessage{
		Header:    entity.NewEventHeader(),
		ConcertID: concert.ConcertID,
		Subject:   request.Subject,
		Message:   request.Message,
	})
	if err != nil {
		return err
	}

	return c.NoContent(http.StatusAccepted)
}
