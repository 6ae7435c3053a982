package tickets

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"boxoffice/entity"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) *PostgresRepository {
	if db == nil {
		panic("missing db")
	}
	return &PostgresRepository{db: db}
}

// Add creates quantity new free tickets for the concert.
func (r *PostgresRepository) Add(ctx context.Context, concertID string, quantity int, priceCents int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tickets (concert_id, price_cents)
		SELECT $1, $2 FROM generate_series(1, $3)
	`, concertID, priceCents, quantity)
	if err != nil {
		return fmt.Errorf("could not add tickets: %w", err)
	}
	return nil
}

// Reserve claims exactly quantity free tickets for the concert in a single
// conditional update, or claims none at all. Competing transactions skip
// rows that are already locked, so two buyers can never hold the same
// ticket; the row-count check turns a partial claim into a rollback and
// entity.ErrNotEnoughTickets. Reservations on other concerts never contend.
func (r *PostgresRepository) Reserve(ctx context.Context, concertID string, quantity int) (_ []entity.Ticket, err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
			return
		}
		err = tx.Commit()
	}()

	var claimed []entity.Ticket
	err = tx.SelectContext(ctx, &claimed, `
		UPDATE tickets
		SET reserved_at = now()
		WHERE ticket_id IN (
			SELECT ticket_id
			FROM tickets
			WHERE concert_id = $1
			  AND order_id IS NULL
			  AND reserved_at IS NULL
			ORDER BY ticket_id
			LIMIT $2
			FOR UPDATE SKIP LOCKED
		)
		RETURNING ticket_id, concert_id, price_cents, code, order_id, reserved_at
	`, concertID, quantity)
	if err != nil {
		return nil, fmt.Errorf("could not claim tickets: %w", err)
	}

	if len(claimed) < quantity {
		return nil, entity.ErrNotEnoughTickets
	}

	return claimed, nil
}

// Release returns reserved tickets to the free pool. Sold tickets are left
// alone, and releasing an already-free ticket is a no-op.
func (r *PostgresRepository) Release(ctx context.Context, ticketIDs []int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE tickets
		SET reserved_at = NULL
		WHERE ticket_id = ANY($1)
		  AND order_id IS NULL
	`, pq.Array(ticketIDs))
	if err != nil {
		return fmt.Errorf("could not release tickets: %w", err)
	}
	return nil
}

// RemainingFor counts tickets that are neither sold nor reserved.
func (r *PostgresRepository) RemainingFor(ctx context.Context, concertID string) (int, error) {
	var remaining int
	err := r.db.GetContext(ctx, &remaining, `
		SELECT COUNT(*)
		FROM tickets
		WHERE concert_id = $1
		  AND order_id IS NULL
		  AND reserved_at IS NULL
	`, concertID)
	if err != nil {
		return 0, fmt.Errorf("could not count remaining tickets: %w", err)
	}
	return remaining, nil
}
