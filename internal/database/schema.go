package database

import (
	"context"
	"database/sql"
)

// Bootstrap creates the marketplace tables when they do not exist yet.
// Statements are idempotent so the server can run this on every start.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			username      VARCHAR(32) NOT NULL UNIQUE,
			password_hash TEXT        NOT NULL,
			contact       TEXT        NOT NULL,
			created_at    TIMESTAMP   NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_users_username (username)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS auctions (
			id           BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			textbook_id  BIGINT UNSIGNED NOT NULL DEFAULT 0,
			minimum_bid  INT             NOT NULL,
			sale_price   INT             NOT NULL DEFAULT 0,
			is_current   BOOLEAN         NOT NULL DEFAULT TRUE,
			closing_date DATE            NOT NULL,
			created_at   TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_auctions_open (is_current, closing_date)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS textbooks (
			id             BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			title          TEXT            NOT NULL,
			author         TEXT            NOT NULL,
			isbn           TEXT            NOT NULL,
			publisher      TEXT            NOT NULL,
			year_published INT             NOT NULL,
			description    TEXT            NOT NULL,
			version        TEXT            NOT NULL,
			cond           INT             NOT NULL,
			course         TEXT            NOT NULL,
			cover_photo    VARCHAR(50)     NOT NULL,
			best_photo     VARCHAR(50)     NOT NULL,
			worst_photo    VARCHAR(50)     NOT NULL,
			average_photo  VARCHAR(50)     NOT NULL,
			seller_id      BIGINT UNSIGNED NOT NULL,
			auction_id     BIGINT UNSIGNED NOT NULL DEFAULT 0,
			created_at     TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_textbooks_auction (auction_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
		`CREATE TABLE IF NOT EXISTS bids (
			id         BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			ceiling    INT             NOT NULL,
			bidder_id  BIGINT UNSIGNED NOT NULL,
			auction_id BIGINT UNSIGNED NOT NULL,
			created_at TIMESTAMP       NOT NULL DEFAULT CURRENT_TIMESTAMP,
			INDEX idx_bids_auction (auction_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
