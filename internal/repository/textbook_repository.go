package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/textbooktown/backend/internal/model"
)

type TextbookRepo struct{ DB *sql.DB }

func NewTextbookRepo(db *sql.DB) *TextbookRepo { return &TextbookRepo{DB: db} }

// CreateWithAuction inserts a textbook and its paired auction and links
// their generated ids. The two rows need each other's auto-increment
// value, so both are inserted first and the foreign keys patched
// afterwards. The whole sequence runs in one transaction: a failure at
// any step rolls back both rows instead of leaving a half-linked pair.
// Returns the new textbook id and auction id.
func (r *TextbookRepo) CreateWithAuction(ctx context.Context, b model.Textbook, a model.Auction) (uint64, uint64, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO auctions (minimum_bid, sale_price, is_current, closing_date)
		 VALUES (?,0,TRUE,?)`,
		a.MinimumBid, a.ClosingDate)
	if err != nil {
		return 0, 0, err
	}
	auctionID, err := res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}

	res, err = tx.ExecContext(ctx,
		`INSERT INTO textbooks
		 (title, author, isbn, publisher, year_published, description, version,
		  cond, course, cover_photo, best_photo, worst_photo, average_photo, seller_id)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		b.Title, b.Author, b.ISBN, b.Publisher, b.YearPublished, b.Description, b.Version,
		b.Condition, b.Course, b.CoverPhoto, b.BestPhoto, b.WorstPhoto, b.AveragePhoto, b.SellerID)
	if err != nil {
		return 0, 0, err
	}
	bookID, err := res.LastInsertId()
	if err != nil {
		return 0, 0, err
	}

	if _, err = tx.ExecContext(ctx,
		"UPDATE textbooks SET auction_id=? WHERE id=?", auctionID, bookID); err != nil {
		return 0, 0, err
	}
	if _, err = tx.ExecContext(ctx,
		"UPDATE auctions SET textbook_id=? WHERE id=?", bookID, auctionID); err != nil {
		return 0, 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, 0, err
	}
	return uint64(bookID), uint64(auctionID), nil
}

// GetByID fetches a textbook by id.
func (r *TextbookRepo) GetByID(ctx context.Context, id uint64) (model.Textbook, error) {
	var b model.Textbook
	err := r.DB.QueryRowContext(ctx,
		`SELECT id,title,author,isbn,publisher,year_published,description,version,
		        cond,course,cover_photo,best_photo,worst_photo,average_photo,
		        seller_id,auction_id,created_at
		 FROM textbooks WHERE id=? LIMIT 1`, id).
		Scan(&b.ID, &b.Title, &b.Author, &b.ISBN, &b.Publisher, &b.YearPublished,
			&b.Description, &b.Version, &b.Condition, &b.Course,
			&b.CoverPhoto, &b.BestPhoto, &b.WorstPhoto, &b.AveragePhoto,
			&b.SellerID, &b.AuctionID, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return b, ErrNotFound
	}
	return b, err
}
