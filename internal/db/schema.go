package db

import (
	"context"
	"fmt"
)

// gen_random_uuid() is built in since PostgreSQL 13.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id          BIGSERIAL PRIMARY KEY,
		telegram_id BIGINT NOT NULL UNIQUE,
		name        VARCHAR(30),
		role        VARCHAR NOT NULL DEFAULT 'customer',
		created_at  TIMESTAMP DEFAULT now(),
		birth_day   TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id                   BIGSERIAL PRIMARY KEY,
		description          VARCHAR(1000) NOT NULL,
		urgency              VARCHAR(20) NOT NULL,
		status               VARCHAR NOT NULL DEFAULT 'pending',
		group_message_id     BIGINT NOT NULL UNIQUE,
		accepted_price       INTEGER,
		created_at           TIMESTAMP DEFAULT now(),
		accepted_executor_id BIGINT REFERENCES users (telegram_id),
		customer_id          BIGINT NOT NULL REFERENCES users (telegram_id)
	)`,
	`CREATE TABLE IF NOT EXISTS offers (
		id                  BIGSERIAL PRIMARY KEY,
		price               INTEGER NOT NULL,
		comment             VARCHAR(1000) NOT NULL,
		created_at          TIMESTAMP DEFAULT now(),
		status              VARCHAR NOT NULL DEFAULT 'sent',
		customer_message_id BIGINT NOT NULL,
		executor_id         BIGINT NOT NULL REFERENCES users (telegram_id) ON DELETE CASCADE,
		order_id            BIGINT NOT NULL REFERENCES orders (id) ON DELETE CASCADE
	)`,
	`CREATE TABLE IF NOT EXISTS executors (
		id               UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id          BIGINT NOT NULL UNIQUE REFERENCES users (id),
		name             VARCHAR(100) NOT NULL,
		age              INTEGER NOT NULL,
		rating           DOUBLE PRECISION NOT NULL DEFAULT 0,
		description      VARCHAR(2000),
		image_url        VARCHAR(500),
		price            INTEGER,
		experience       INTEGER,
		completed_orders INTEGER DEFAULT 0,
		created_at       TIMESTAMP DEFAULT now(),
		works            VARCHAR(100)
	)`,
	`CREATE TABLE IF NOT EXISTS feedback (
		id          BIGSERIAL PRIMARY KEY,
		star        INTEGER,
		text        VARCHAR(300),
		executor_id UUID NOT NULL REFERENCES executors (id) ON DELETE CASCADE,
		customer_id BIGINT NOT NULL REFERENCES users (telegram_id),
		order_id    BIGINT REFERENCES orders (id)
	)`,
}

// Migrate creates every table that does not exist yet. It runs in a single
// transaction and is a no-op against an already materialized schema.
func Migrate(ctx context.Context, db DB) error {
	tx, err := db.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}

	for _, stmt := range schemaStatements {
		if _, err := tx.Exec(ctx, stmt); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schema: %w", err)
	}
	return nil
}

// Initialize materializes the schema and moves the database into the ready
// state. It is safe to call on every startup.
func (db *Database) Initialize(ctx context.Context) error {
	if db.state.Load() == stateClosed {
		return ErrClosed
	}
	if err := Migrate(ctx, db); err != nil {
		return err
	}
	db.state.CompareAndSwap(stateUninitialized, stateReady)
	return nil
}
