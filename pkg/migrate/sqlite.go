package migrate

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// sqliteSchema mirrors the goose migrations for the local SQLite driver.
// Arrays are stored as their postgres text form ("{100,0,0,0}"), which
// pq.Int64Array reads back unchanged.
var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS ledger_transactions (
		id TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		order_ref TEXT NOT NULL,
		description TEXT,
		created_at DATETIME,
		UNIQUE (kind, order_ref)
	)`,
	`CREATE TABLE IF NOT EXISTS gold_ledger (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT NOT NULL REFERENCES ledger_transactions(id) ON DELETE CASCADE,
		change INTEGER NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS ml_ledger (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT NOT NULL REFERENCES ledger_transactions(id) ON DELETE CASCADE,
		red_ml_change INTEGER NOT NULL DEFAULT 0,
		green_ml_change INTEGER NOT NULL DEFAULT 0,
		blue_ml_change INTEGER NOT NULL DEFAULT 0,
		dark_ml_change INTEGER NOT NULL DEFAULT 0,
		created_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS potions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sku TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		price INTEGER NOT NULL CHECK (price >= 0),
		potion_type TEXT NOT NULL,
		updated_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS potion_ledger (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		transaction_id TEXT NOT NULL REFERENCES ledger_transactions(id) ON DELETE CASCADE,
		potion_id INTEGER NOT NULL REFERENCES potions(id),
		potion_change INTEGER NOT NULL,
		created_at DATETIME
	)`,
	`CREATE TABLE IF NOT EXISTS capacity (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		potion_capacity INTEGER NOT NULL CHECK (potion_capacity >= 0),
		ml_capacity INTEGER NOT NULL CHECK (ml_capacity >= 0),
		may_buy_potion_capacity BOOLEAN NOT NULL DEFAULT 1,
		may_buy_ml_capacity BOOLEAN NOT NULL DEFAULT 1,
		updated_at DATETIME
	)`,
}

var sqliteSeed = []string{
	`INSERT OR IGNORE INTO potions (sku, name, price, potion_type) VALUES
		('RED_POTION', 'red potion', 50, '{100,0,0,0}'),
		('GREEN_POTION', 'green potion', 50, '{0,100,0,0}'),
		('BLUE_POTION', 'blue potion', 55, '{0,0,100,0}'),
		('DARK_POTION', 'dark potion', 65, '{0,0,0,100}'),
		('PURPLE_POTION', 'purple potion', 55, '{50,0,50,0}'),
		('YELLOW_POTION', 'yellow potion', 55, '{50,50,0,0}'),
		('TEAL_POTION', 'teal potion', 55, '{0,50,50,0}'),
		('SHADOW_POTION', 'shadow potion', 60, '{50,0,0,50}'),
		('RAINBOW_POTION', 'rainbow potion', 70, '{25,25,25,25}')`,
	`INSERT OR IGNORE INTO capacity (id, potion_capacity, ml_capacity) VALUES (1, 50, 10000)`,
	`INSERT OR IGNORE INTO ledger_transactions (id, kind, order_ref, description)
		VALUES ('` + seedTransactionID + `', 'reset', 'seed', 'starting gold')`,
	`INSERT INTO gold_ledger (transaction_id, change)
		SELECT '` + seedTransactionID + `', 100
		WHERE NOT EXISTS (SELECT 1 FROM gold_ledger WHERE transaction_id = '` + seedTransactionID + `')`,
}

const seedTransactionID = "00000000-0000-0000-0000-000000000001"

// ApplySQLite creates the schema on a SQLite connection. It is idempotent.
func ApplySQLite(ctx context.Context, conn *gorm.DB) error {
	for _, stmt := range sqliteSchema {
		if err := conn.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("apply sqlite schema: %w", err)
		}
	}
	return nil
}

// SeedSQLite loads the starter catalog, baseline capacity and starting gold.
// Running it twice leaves the data unchanged.
func SeedSQLite(ctx context.Context, conn *gorm.DB) error {
	for _, stmt := range sqliteSeed {
		if err := conn.WithContext(ctx).Exec(stmt).Error; err != nil {
			return fmt.Errorf("seed sqlite: %w", err)
		}
	}
	return nil
}
