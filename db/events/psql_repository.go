package events

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"boxoffice/entity"
)

// PostgresRepository is the data lake: an append-only archive of every event
// published on the shared events topic.
type PostgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) PostgresRepository {
	if db == nil {
		panic("missing db")
	}
	return PostgresRepository{db: db}
}

func (r PostgresRepository) Store(ctx context.Context, event entity.DataLakeEvent) error {
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO events (event_id, published_at, event_name, event_payload)
		VALUES (:event_id, :published_at, :event_name, :event_payload)
		ON CONFLICT (event_id) DO NOTHING
	`, event)
	if err != nil {
		return fmt.Errorf("could not store %s event in data lake: %w", event.ID, err)
	}
	return nil
}

func (r PostgresRepository) All(ctx context.Context) ([]entity.DataLakeEvent, error) {
	var all []entity.DataLakeEvent
	err := r.db.SelectContext(ctx, &all, `
		SELECT event_id, published_at, event_name, event_payload
		FROM events
		ORDER BY published_at ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("could not get events from data lake: %w", err)
	}
	return all, nil
}
