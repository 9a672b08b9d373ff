package database

import (
	"context"
	"database/sql"
	"fmt"
)

// schema lists the DDL applied by Migrate, in dependency order.  Every
// table owned by a watch cascades on delete.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS watches (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		origin CHAR(3) NOT NULL,
		destination CHAR(3) NOT NULL,
		departure_date DATE NOT NULL,
		pax INT NOT NULL DEFAULT 1,
		cabin VARCHAR(16) NOT NULL DEFAULT 'ECONOMY',
		auto_book_price DECIMAL(12,2) NULL,
		confirm_price DECIMAL(12,2) NULL,
		currency CHAR(3) NOT NULL DEFAULT 'USD',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		INDEX idx_watches_route (origin, destination, departure_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS typical_prices (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		origin CHAR(3) NOT NULL,
		destination CHAR(3) NOT NULL,
		departure_date DATE NOT NULL,
		p10 DECIMAL(12,2) NULL,
		p25 DECIMAL(12,2) NULL,
		p50 DECIMAL(12,2) NULL,
		p75 DECIMAL(12,2) NULL,
		currency CHAR(3) NOT NULL DEFAULT 'USD',
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		UNIQUE KEY uq_typical_route (origin, destination, departure_date)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS price_snapshots (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		watch_id BIGINT UNSIGNED NOT NULL,
		provider VARCHAR(32) NOT NULL,
		offer_id VARCHAR(128) NOT NULL DEFAULT '',
		total DECIMAL(12,2) NOT NULL,
		currency CHAR(3) NOT NULL,
		raw JSON NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_snapshots_watch FOREIGN KEY (watch_id) REFERENCES watches(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS alerts (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		watch_id BIGINT UNSIGNED NOT NULL,
		kind VARCHAR(32) NOT NULL,
		message TEXT NOT NULL,
		snapshot_id BIGINT UNSIGNED NULL,
		resolved TINYINT(1) NOT NULL DEFAULT 0,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_alerts_watch FOREIGN KEY (watch_id) REFERENCES watches(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	`CREATE TABLE IF NOT EXISTS orders (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		watch_id BIGINT UNSIGNED NOT NULL,
		provider VARCHAR(32) NOT NULL DEFAULT 'duffel',
		provider_order_id VARCHAR(64) NULL,
		status VARCHAR(32) NOT NULL DEFAULT 'created',
		amount DECIMAL(12,2) NULL,
		currency CHAR(3) NOT NULL DEFAULT 'USD',
		hold_expires_at DATETIME NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_orders_watch FOREIGN KEY (watch_id) REFERENCES watches(id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
}

// Migrate creates any missing tables.  It is safe to run on every start.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate step %d: %w", i+1, err)
		}
	}
	return nil
}
