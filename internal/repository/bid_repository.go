package repository

import (
	"context"
	"database/sql"
)

// BidRepo persists bids. Bids are append-only; there is no update or
// delete path.
type BidRepo struct{ DB *sql.DB }

func NewBidRepo(db *sql.DB) *BidRepo { return &BidRepo{DB: db} }

// Create inserts a bid and returns its id.
func (r *BidRepo) Create(ctx context.Context, auctionID, bidderID uint64, ceiling int) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO bids (ceiling, bidder_id, auction_id) VALUES (?,?,?)",
		ceiling, bidderID, auctionID)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// CountForAuction returns how many bids have been placed on an auction.
func (r *BidRepo) CountForAuction(ctx context.Context, auctionID uint64) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM bids WHERE auction_id=?", auctionID).Scan(&n)
	return n, err
}
