package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/textbooktown/backend/internal/model"
)

type AuctionRepo struct{ DB *sql.DB }

func NewAuctionRepo(db *sql.DB) *AuctionRepo { return &AuctionRepo{DB: db} }

const auctionCols = "id,textbook_id,minimum_bid,sale_price,is_current,closing_date,created_at"

func scanAuction(row *sql.Row) (model.Auction, error) {
	var a model.Auction
	err := row.Scan(&a.ID, &a.TextbookID, &a.MinimumBid, &a.SalePrice, &a.IsCurrent, &a.ClosingDate, &a.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return a, ErrNotFound
	}
	return a, err
}

// GetByID fetches an auction by id.
func (r *AuctionRepo) GetByID(ctx context.Context, id uint64) (model.Auction, error) {
	return scanAuction(r.DB.QueryRowContext(ctx,
		"SELECT "+auctionCols+" FROM auctions WHERE id=? LIMIT 1", id))
}

// GetByTextbook fetches the auction paired with a textbook.
func (r *AuctionRepo) GetByTextbook(ctx context.Context, textbookID uint64) (model.Auction, error) {
	return scanAuction(r.DB.QueryRowContext(ctx,
		"SELECT "+auctionCols+" FROM auctions WHERE textbook_id=? LIMIT 1", textbookID))
}

// Close marks an auction as no longer current. Already-closed rows are
// untouched, which keeps the operation idempotent.
func (r *AuctionRepo) Close(ctx context.Context, id uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE auctions SET is_current=FALSE WHERE id=? AND is_current=TRUE", id)
	return err
}

// UpdateSalePrice records a new best bid amount.
func (r *AuctionRepo) UpdateSalePrice(ctx context.Context, id uint64, price int) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE auctions SET sale_price=? WHERE id=?", price, id)
	return err
}

// ListExpiredOpen returns every open auction whose closing date is
// strictly before the given calendar date. Used by the expiry sweeper.
func (r *AuctionRepo) ListExpiredOpen(ctx context.Context, today time.Time) ([]model.Auction, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+auctionCols+" FROM auctions WHERE is_current=TRUE AND closing_date<?", today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Auction
	for rows.Next() {
		var a model.Auction
		if err := rows.Scan(&a.ID, &a.TextbookID, &a.MinimumBid, &a.SalePrice, &a.IsCurrent, &a.ClosingDate, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
