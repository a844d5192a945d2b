package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Fechas en INTEGER (unix nanos, UTC) y montos en TEXT (decimal exacto).
var schema = []string{
	`CREATE TABLE IF NOT EXISTS items (
		id          TEXT PRIMARY KEY,
		code        TEXT NOT NULL UNIQUE,
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category_id TEXT NOT NULL DEFAULT '',
		supplier_id TEXT NOT NULL DEFAULT '',
		unit_price  TEXT NOT NULL DEFAULT '0',
		balance     INTEGER NOT NULL DEFAULT 0 CHECK (balance >= 0),
		minimum     INTEGER NOT NULL DEFAULT 10 CHECK (minimum >= 0),
		maximum     INTEGER NOT NULL DEFAULT 1000 CHECK (maximum >= 1),
		is_active   INTEGER NOT NULL DEFAULT 1,
		created_at  INTEGER NOT NULL,
		updated_at  INTEGER NOT NULL,
		CHECK (minimum < maximum)
	)`,
	`CREATE TABLE IF NOT EXISTS stock_movements (
		sequence         INTEGER PRIMARY KEY AUTOINCREMENT,
		id               TEXT NOT NULL UNIQUE,
		item_id          TEXT NOT NULL REFERENCES items(id),
		kind             TEXT NOT NULL CHECK (kind IN ('IN', 'OUT', 'ADJUST')),
		quantity         INTEGER NOT NULL CHECK (quantity >= 0),
		unit_price       TEXT,
		total_value      TEXT,
		previous_balance INTEGER NOT NULL CHECK (previous_balance >= 0),
		new_balance      INTEGER NOT NULL CHECK (new_balance >= 0),
		reference        TEXT NOT NULL DEFAULT '',
		notes            TEXT NOT NULL DEFAULT '',
		created_by       TEXT NOT NULL,
		created_at       INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS ix_stock_movements_item_created ON stock_movements (item_id, created_at, sequence)`,
	`CREATE INDEX IF NOT EXISTS ix_stock_movements_created ON stock_movements (created_at, sequence)`,
	`CREATE TRIGGER IF NOT EXISTS trg_stock_movements_no_update BEFORE UPDATE ON stock_movements
	BEGIN
		SELECT RAISE(ABORT, 'stock_movements es de solo inserción');
	END`,
	`CREATE TRIGGER IF NOT EXISTS trg_stock_movements_no_delete BEFORE DELETE ON stock_movements
	BEGIN
		SELECT RAISE(ABORT, 'stock_movements es de solo inserción');
	END`,
	`CREATE TABLE IF NOT EXISTS low_balance_alerts (
		id               TEXT PRIMARY KEY,
		item_id          TEXT NOT NULL REFERENCES items(id),
		balance_snapshot INTEGER NOT NULL,
		minimum_snapshot INTEGER NOT NULL,
		is_resolved      INTEGER NOT NULL DEFAULT 0,
		created_at       INTEGER NOT NULL,
		resolved_at      INTEGER,
		resolved_by      TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_low_balance_alerts_open ON low_balance_alerts (item_id) WHERE is_resolved = 0`,
}

// Migrate crea el esquema si no existe.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migración %d: %w", i+1, err)
		}
	}
	return nil
}
