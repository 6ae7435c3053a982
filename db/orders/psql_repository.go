package orders

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"boxoffice/entity"
	"boxoffice/pubsub/bus"
	"boxoffice/pubsub/outbox"
)

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	if db == nil {
		panic("missing db")
	}
	return &PostgresRepository{db: db}
}

// CreateForTickets persists the order and claims its tickets in one
// transaction. Every ticket must still be unclaimed (reserved for this
// purchase); a ticket that was sold in the meantime aborts the whole
// transaction. The OrderCompleted event is published through the outbox in
// the same transaction, so it is only emitted if the order commits.
//
// A confirmation number collision surfaces as entity.ErrConflict so the
// caller can regenerate and retry.
func (r *PostgresRepository) CreateForTickets(ctx context.Context, order entity.Order, ticketIDs []int64, codes []string) (_ entity.Order, err error) {
	if len(ticketIDs) != len(codes) {
		return entity.Order{}, fmt.Errorf("got %d tickets but %d codes", len(ticketIDs), len(codes))
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return entity.Order{}, fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
			return
		}
		err = tx.Commit()
	}()

	err = tx.QueryRowContext(ctx, `
		INSERT INTO orders (order_id, concert_id, confirmation_number, email, amount_cents, card_last_four)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`, order.OrderID, order.ConcertID, order.ConfirmationNumber, order.Email, order.AmountCents, order.CardLastFour).
		Scan(&order.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return entity.Order{}, fmt.Errorf("confirmation number %s: %w", order.ConfirmationNumber, entity.ErrConflict)
		}
		return entity.Order{}, fmt.Errorf("could not insert order: %w", err)
	}

	order.TicketCodes = make([]string, 0, len(ticketIDs))
	for i, ticketID := range ticketIDs {
		res, execErr := tx.ExecContext(ctx, `
			UPDATE tickets
			SET order_id = $1, code = $2, reserved_at = NULL
			WHERE ticket_id = $3
			  AND order_id IS NULL
		`, order.OrderID, codes[i], ticketID)
		if execErr != nil {
			err = fmt.Errorf("could not claim ticket %d: %w", ticketID, execErr)
			return entity.Order{}, err
		}
		affected, execErr := res.RowsAffected()
		if execErr != nil {
			err = execErr
			return entity.Order{}, err
		}
		if affected == 0 {
			err = fmt.Errorf("ticket %d already sold", ticketID)
			return entity.Order{}, err
		}
		order.TicketCodes = append(order.TicketCodes, codes[i])
	}

	outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx.Tx)
	if err != nil {
		return entity.Order{}, fmt.Errorf("could not create outbox publisher: %w", err)
	}

	eventBus, err := bus.NewEventBus(outboxPublisher)
	if err != nil {
		return entity.Order{}, err
	}

	err = eventBus.Publish(ctx, entity.OrderCompleted{
		Header:             entity.NewEventHeaderWithIdempotencyKey(order.OrderID),
		OrderID:            order.OrderID,
		ConcertID:          order.ConcertID,
		ConfirmationNumber: order.ConfirmationNumber,
		CustomerEmail:      order.Email,
		AmountCents:        order.AmountCents,
		Currency:           entity.DefaultCurrency,
		TicketCodes:        order.TicketCodes,
	})
	if err != nil {
		return entity.Order{}, fmt.Errorf("could not publish event: %w", err)
	}

	return order, nil
}

func (r *PostgresRepository) FindByConfirmationNumber(ctx context.Context, confirmationNumber string) (entity.Order, error) {
	var order entity.Order
	err := r.db.GetContext(ctx, &order, `
		SELECT order_id, concert_id, confirmation_number, email, amount_cents, card_last_four, created_at
		FROM orders
		WHERE confirmation_number = $1
	`, confirmationNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Order{}, fmt.Errorf("order %s: %w", confirmationNumber, entity.ErrNotFound)
	}
	if err != nil {
		return entity.Order{}, fmt.Errorf("could not get order: %w", err)
	}

	err = r.db.SelectContext(ctx, &order.TicketCodes, `
		SELECT code
		FROM tickets
		WHERE order_id = $1
		ORDER BY ticket_id
	`, order.OrderID)
	if err != nil {
		return entity.Order{}, fmt.Errorf("could not get order tickets: %w", err)
	}

	return order, nil
}

func (r *PostgresRepository) HasOrderFor(ctx context.Context, concertID, email string) (bool, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM orders
		WHERE concert_id = $1 AND email = $2
	`, concertID, email)
	if err != nil {
		return false, fmt.Errorf("could not count orders: %w", err)
	}
	return count > 0, nil
}

// ListByConcert returns the most recent orders for the promoter view.
func (r *PostgresRepository) ListByConcert(ctx context.Context, concertID string, limit int) ([]entity.Order, error) {
	var result []entity.Order
	err := r.db.SelectContext(ctx, &result, `
		SELECT order_id, concert_id, confirmation_number, email, amount_cents, card_last_four, created_at
		FROM orders
		WHERE concert_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, concertID, limit)
	if err != nil {
		return nil, fmt.Errorf("could not list orders: %w", err)
	}
	return result, nil
}

// EmailsForConcert returns the distinct customer emails with an order on the
// concert, for attendee messaging.
func (r *PostgresRepository) EmailsForConcert(ctx context.Context, concertID string) ([]string, error) {
	var emails []string
	err := r.db.SelectContext(ctx, &emails, `
		SELECT DISTINCT email
		FROM orders
		WHERE concert_id = $1
		ORDER BY email
	`, concertID)
	if err != nil {
		return nil, fmt.Errorf("could not list order emails: %w", err)
	}
	return emails, nil
}
