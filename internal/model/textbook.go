package model

import "time"

// Textbook is a listing put up for sale by a user. Each textbook is
// created atomically with its paired Auction; the two rows reference
// each other's generated id (Textbook.AuctionID and
// Auction.TextbookID form a mutual 1:1 link).
//
// Fields:
//  ID            – primary key identifier.
//  Title         – book title, searched by keyword.
//  Author        – author name(s).
//  ISBN          – ISBN string as entered by the seller.
//  Publisher     – publisher name.
//  YearPublished – publication year (1900-2017 inclusive).
//  Description   – free-text description.
//  Version       – edition/version string.
//  Condition     – 0-100 quality rating.
//  Course        – course the book is used in.
//  CoverPhoto    – stored filename of the cover photo.
//  BestPhoto     – stored filename of the best-condition photo.
//  WorstPhoto    – stored filename of the worst-condition photo.
//  AveragePhoto  – stored filename of the average-condition photo.
//  SellerID      – id of the selling user.
//  AuctionID     – id of the paired auction.
//  CreatedAt     – creation timestamp.
type Textbook struct {
	ID            uint64    // textbooks.id
	Title         string    // textbooks.title
	Author        string    // textbooks.author
	ISBN          string    // textbooks.isbn
	Publisher     string    // textbooks.publisher
	YearPublished int       // textbooks.year_published
	Description   string    // textbooks.description
	Version       string    // textbooks.version
	Condition     int       // textbooks.cond (0-100)
	Course        string    // textbooks.course
	CoverPhoto    string    // textbooks.cover_photo
	BestPhoto     string    // textbooks.best_photo
	WorstPhoto    string    // textbooks.worst_photo
	AveragePhoto  string    // textbooks.average_photo
	SellerID      uint64    // textbooks.seller_id
	AuctionID     uint64    // textbooks.auction_id
	CreatedAt     time.Time // textbooks.created_at
}
