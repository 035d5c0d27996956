// Package queue defines message payloads exchanged over the message broker.
package queue

// Queue names for marketplace events.
const (
	BidPlacedQueue     = "bid.placed"
	AuctionClosedQueue = "auction.closed"
)

// BidPlacedEvent is published when a bid is accepted. It carries enough
// information for downstream consumers to log or notify without
// querying the primary database.
type BidPlacedEvent struct {
	BidID     uint64 `json:"bid_id"`
	AuctionID uint64 `json:"auction_id"`
	BidderID  uint64 `json:"bidder_id"`
	Ceiling   int    `json:"ceiling"`
	SalePrice int    `json:"sale_price"`
	PlacedAt  string `json:"placed_at"`
}

// AuctionClosedEvent is published when an auction transitions from
// open to closed, whether by the lazy search-time check or by the
// background sweeper.
type AuctionClosedEvent struct {
	AuctionID   uint64 `json:"auction_id"`
	TextbookID  uint64 `json:"textbook_id"`
	SalePrice   int    `json:"sale_price"`
	MinimumBid  int    `json:"minimum_bid"`
	ClosingDate string `json:"closing_date"`
	ClosedAt    string `json:"closed_at"`
}
