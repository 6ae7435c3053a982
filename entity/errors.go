package entity

import "errors"

var (
	// ErrNotEnoughTickets is returned when a reservation asks for more
	// tickets than the concert currently has free. No tickets are held
	// when this is returned.
	ErrNotEnoughTickets = errors.New("not enough tickets")

	// ErrNotFound is returned by lookups that don't resolve.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint rejects a write,
	// e.g. a confirmation number collision.
	ErrConflict = errors.New("conflict")

	// ErrInvalidPaymentToken is returned by the payment gateway when the
	// provided token cannot be charged.
	ErrInvalidPaymentToken = errors.New("invalid payment token")

	// ErrPaymentGateway is returned for any other gateway-reported charge
	// failure.
	ErrPaymentGateway = errors.New("payment gateway error")

	// ErrAlreadyPublished is returned when publishing a concert twice.
	ErrAlreadyPublished = errors.New("concert already published")

	// ErrReservationFinished is returned when a reservation is completed
	// or cancelled more than once.
	ErrReservationFinished = errors.New("reservation already finished")
)
