package model

import "time"

// Bid records a buyer's proxy bid on an auction. The ceiling is the
// maximum amount the bidder is willing to pay. Bids are append-only
// and never mutated after creation.
type Bid struct {
	ID        uint64    // bids.id
	Ceiling   int       // bids.ceiling
	BidderID  uint64    // bids.bidder_id
	AuctionID uint64    // bids.auction_id
	CreatedAt time.Time // bids.created_at
}
