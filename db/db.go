package db

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

var schema = `
	CREATE TABLE IF NOT EXISTS concerts (
		concert_id UUID PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		subtitle VARCHAR(255) NOT NULL DEFAULT '',
		venue VARCHAR(255) NOT NULL DEFAULT '',
		venue_address VARCHAR(255) NOT NULL DEFAULT '',
		date TIMESTAMPTZ NOT NULL,
		ticket_price_cents BIGINT NOT NULL,
		ticket_quantity INT NOT NULL DEFAULT 0,
		promoter_email VARCHAR(255) NOT NULL DEFAULT '',
		promoter_account_id VARCHAR(255) NOT NULL DEFAULT '',
		published_at TIMESTAMPTZ NULL
	);

	CREATE TABLE IF NOT EXISTS orders (
		order_id UUID PRIMARY KEY,
		concert_id UUID NOT NULL REFERENCES concerts (concert_id),
		confirmation_number VARCHAR(32) NOT NULL UNIQUE,
		email VARCHAR(255) NOT NULL,
		amount_cents BIGINT NOT NULL,
		card_last_four VARCHAR(4) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);

	CREATE TABLE IF NOT EXISTS tickets (
		ticket_id BIGSERIAL PRIMARY KEY,
		concert_id UUID NOT NULL REFERENCES concerts (concert_id),
		price_cents BIGINT NOT NULL,
		code VARCHAR(64) NULL UNIQUE,
		order_id UUID NULL REFERENCES orders (order_id),
		reserved_at TIMESTAMPTZ NULL
	);

	CREATE INDEX IF NOT EXISTS tickets_free_idx
		ON tickets (concert_id, ticket_id)
		WHERE order_id IS NULL AND reserved_at IS NULL;

	CREATE TABLE IF NOT EXISTS events (
		event_id UUID PRIMARY KEY,
		published_at TIMESTAMPTZ NOT NULL,
		event_name VARCHAR(255) NOT NULL,
		event_payload JSONB NOT NULL
	);
`

func InitializeDatabaseSchema(db *sqlx.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("could not initialize database schema: %w", err)
	}
	return nil
}
