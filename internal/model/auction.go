package model

import "time"

// Auction is the sellable state of one textbook. An auction accepts
// bids while IsCurrent is true; it closes at the end of ClosingDate
// evaluated in US Eastern time. SalePrice holds the current best bid
// amount and stays 0 until the first bid arrives.
//
// Fields:
//  ID          – primary key identifier.
//  TextbookID  – id of the textbook on sale (mutual 1:1 back-link).
//  MinimumBid  – lowest acceptable bid, positive integer.
//  SalePrice   – current best bid amount, 0 with no bids.
//  IsCurrent   – whether the auction is still open.
//  ClosingDate – calendar date the auction closes (date only).
//  CreatedAt   – creation timestamp.
type Auction struct {
	ID          uint64    // auctions.id
	TextbookID  uint64    // auctions.textbook_id
	MinimumBid  int       // auctions.minimum_bid
	SalePrice   int       // auctions.sale_price
	IsCurrent   bool      // auctions.is_current
	ClosingDate time.Time // auctions.closing_date (DATE column)
	CreatedAt   time.Time // auctions.created_at
}
