package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema DDL idempotente. stock_movements es de solo inserción: un trigger rechaza UPDATE y DELETE.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id          TEXT PRIMARY KEY,
		code        VARCHAR(50)  NOT NULL UNIQUE,
		name        VARCHAR(200) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category_id TEXT NOT NULL DEFAULT '',
		supplier_id TEXT NOT NULL DEFAULT '',
		unit_price  NUMERIC(12,2) NOT NULL DEFAULT 0 CHECK (unit_price >= 0),
		balance     BIGINT NOT NULL DEFAULT 0 CHECK (balance >= 0),
		minimum     BIGINT NOT NULL DEFAULT 10 CHECK (minimum >= 0),
		maximum     BIGINT NOT NULL DEFAULT 1000 CHECK (maximum >= 1),
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL,
		updated_at  TIMESTAMPTZ NOT NULL,
		CHECK (minimum < maximum)
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		id               TEXT PRIMARY KEY,
		sequence         BIGINT GENERATED ALWAYS AS IDENTITY UNIQUE,
		item_id          TEXT NOT NULL REFERENCES items(id),
		kind             TEXT NOT NULL CHECK (kind IN ('IN', 'OUT', 'ADJUST')),
		quantity         BIGINT NOT NULL CHECK (quantity >= 0),
		unit_price       NUMERIC(12,2),
		total_value      NUMERIC(14,2),
		previous_balance BIGINT NOT NULL CHECK (previous_balance >= 0),
		new_balance      BIGINT NOT NULL CHECK (new_balance >= 0),
		reference        TEXT NOT NULL DEFAULT '',
		notes            TEXT NOT NULL DEFAULT '',
		created_by       TEXT NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_stock_movements_item_created ON stock_movements (item_id, created_at, sequence)`,
	`CREATE INDEX IF NOT EXISTS ix_stock_movements_created ON stock_movements (created_at, sequence)`,
	`CREATE OR REPLACE FUNCTION stock_movements_append_only() RETURNS trigger AS $$
	BEGIN
		RAISE EXCEPTION 'stock_movements es de solo inserción';
	END;
	$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS trg_stock_movements_append_only ON stock_movements`,
	`CREATE TRIGGER trg_stock_movements_append_only
		BEFORE UPDATE OR DELETE ON stock_movements
		FOR EACH ROW EXECUTE FUNCTION stock_movements_append_only()`,
	`CREATE TABLE IF NOT EXISTS low_balance_alerts (
		id               TEXT PRIMARY KEY,
		item_id          TEXT NOT NULL REFERENCES items(id),
		balance_snapshot BIGINT NOT NULL,
		minimum_snapshot BIGINT NOT NULL,
		is_resolved      BOOLEAN NOT NULL DEFAULT FALSE,
		created_at       TIMESTAMPTZ NOT NULL,
		resolved_at      TIMESTAMPTZ,
		resolved_by      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_low_balance_alerts_open ON low_balance_alerts (item_id) WHERE NOT is_resolved`,
}

// Migrate crea el esquema si no existe. Seguro de ejecutar en cada arranque.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migración %d: %w", i+1, err)
		}
	}
	return nil
}
