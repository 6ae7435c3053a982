package concerts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"boxoffice/entity"
	"boxoffice/pubsub/bus"
	"boxoffice/pubsub/outbox"
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

func (r *PostgresRepository) Store(ctx context.Context, concert entity.Concert) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO concerts (
			concert_id, title, subtitle, venue, venue_address, date,
			ticket_price_cents, ticket_quantity, promoter_email, promoter_account_id, published_at
		)
		VALUES (
			:concert_id, :title, :subtitle, :venue, :venue_address, :date,
			:ticket_price_cents, :ticket_quantity, :promoter_email, :promoter_account_id, :published_at
		)
		ON CONFLICT DO NOTHING -- ignore if already exists
	`, concert)
	if err != nil {
		return fmt.Errorf("could not store concert: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Get(ctx context.Context, concertID string) (entity.Concert, error) {
	var concert entity.Concert
	err := r.db.GetContext(ctx, &concert, `
		SELECT concert_id, title, subtitle, venue, venue_address, date,
			ticket_price_cents, ticket_quantity, promoter_email, promoter_account_id, published_at
		FROM concerts
		WHERE concert_id = $1
	`, concertID)
	if errors.Is(err, sql.ErrNoRows) {
		return entity.Concert{}, fmt.Errorf("concert %s: %w", concertID, entity.ErrNotFound)
	}
	if err != nil {
		return entity.Concert{}, fmt.Errorf("could not get concert: %w", err)
	}
	return concert, nil
}

// Publish marks the concert as published and creates its ticket pool. A
// concert is published at most once; the conditional update makes a second
// call return entity.ErrAlreadyPublished without touching the tickets.
func (r *PostgresRepository) Publish(ctx context.Context, concertID string) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			err = errors.Join(err, tx.Rollback())
			return
		}
		err = tx.Commit()
	}()

	var concert entity.Concert
	err = tx.GetContext(ctx, &concert, `
		UPDATE concerts
		SET published_at = now()
		WHERE concert_id = $1
		  AND published_at IS NULL
		RETURNING concert_id, ticket_price_cents, ticket_quantity
	`, concertID)
	if errors.Is(err, sql.ErrNoRows) {
		// either missing or already published, disambiguate for the caller
		var exists bool
		if checkErr := tx.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM concerts WHERE concert_id = $1)`, concertID); checkErr != nil {
			err = fmt.Errorf("could not check concert: %w", checkErr)
			return err
		}
		if !exists {
			err = fmt.Errorf("concert %s: %w", concertID, entity.ErrNotFound)
			return err
		}
		err = fmt.Errorf("concert %s: %w", concertID, entity.ErrAlreadyPublished)
		return err
	}
	if err != nil {
		return fmt.Errorf("could not publish concert: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO tickets (concert_id, price_cents)
		SELECT $1, $2 FROM generate_series(1, $3)
	`, concert.ConcertID, concert.TicketPriceCents, concert.TicketQuantity)
	if err != nil {
		return fmt.Errorf("could not create tickets: %w", err)
	}

	outboxPublisher, err := outbox.NewPublisherForDb(ctx, tx.Tx)
	if err != nil {
		return fmt.Errorf("could not create outbox publisher: %w", err)
	}

	eventBus, err := bus.NewEventBus(outboxPublisher)
	if err != nil {
		return err
	}

	err = eventBus.Publish(ctx, entity.ConcertPublished{
		Header:       entity.NewEventHeaderWithIdempotencyKey(concert.ConcertID),
		ConcertID:    concert.ConcertID,
		TicketsAdded: concert.TicketQuantity,
	})
	if err != nil {
		return fmt.Errorf("could not publish event: %w", err)
	}

	return nil
}

// Stats aggregates the promoter dashboard numbers in one query.
func (r *PostgresRepository) Stats(ctx context.Context, concertID string) (entity.ConcertStats, error) {
	var stats entity.ConcertStats
	err := r.db.GetContext(ctx, &stats, `
		SELECT
			COUNT(*) AS tickets_total,
			COUNT(*) FILTER (WHERE order_id IS NOT NULL) AS tickets_sold,
			COUNT(*) FILTER (WHERE order_id IS NULL AND reserved_at IS NULL) AS tickets_remaining,
			COALESCE(SUM(price_cents) FILTER (WHERE order_id IS NOT NULL), 0) AS revenue_cents
		FROM tickets
		WHERE concert_id = $1
	`, concertID)
	if err != nil {
		return entity.ConcertStats{}, fmt.Errorf("could not get concert stats: %w", err)
	}
	return stats, nil
}
