package handler

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/textbooktown/backend/internal/auction"
	"github.com/textbooktown/backend/internal/middleware"
	"github.com/textbooktown/backend/internal/model"
	"github.com/textbooktown/backend/internal/repository"
	"github.com/textbooktown/backend/internal/upload"
	"github.com/textbooktown/backend/internal/utils"
	"github.com/textbooktown/backend/internal/validate"
)

// BookStore persists textbooks with their paired auctions.
type BookStore interface {
	CreateWithAuction(ctx context.Context, b model.Textbook, a model.Auction) (uint64, uint64, error)
	GetByID(ctx context.Context, id uint64) (model.Textbook, error)
}

// PhotoSaver stores one uploaded photo and returns its new filename.
type PhotoSaver interface {
	Save(fh *multipart.FileHeader) (string, error)
}

// BookHandler bundles dependencies for listing creation, lookup and
// keyword search.
type BookHandler struct {
	Books    BookStore
	Auctions auction.Store
	Photos   PhotoSaver
	Search   *auction.Search
}

func NewBookHandler(books BookStore, auctions auction.Store, photos PhotoSaver, search *auction.Search) *BookHandler {
	return &BookHandler{Books: books, Auctions: auctions, Photos: photos, Search: search}
}

// photoFields names the four multipart file fields in upload order:
// cover, best condition, worst condition, average condition.
var photoFields = [4]string{"cover", "pic1", "pic2", "pic3"}

// AddBook creates a textbook listing together with its auction.
// Validation failures are reported as 200 responses with human-readable
// messages. Photo writes are synchronous and not rolled back if a later
// step fails.
func (h *BookHandler) AddBook(c echo.Context) error {
	seller, ok := middleware.CurrentUser(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}

	var files [4]*multipart.FileHeader
	for i, field := range photoFields {
		fh, err := c.FormFile(field)
		if err != nil || !upload.AllowedFile(fh.Filename) {
			return failure(c, "Missing photos or improper photo extensions")
		}
		files[i] = fh
	}

	title := c.FormValue("title")
	isbn := c.FormValue("isbn")
	author := c.FormValue("author")
	publisher := c.FormValue("publisher")
	version := c.FormValue("version")
	minimumBidStr := c.FormValue("price")
	course := c.FormValue("subject")
	pubYearStr := c.FormValue("year")
	desc := c.FormValue("description")
	ratingStr := c.FormValue("rating")
	dateStr := c.FormValue("sellby")

	if title == "" || isbn == "" || author == "" || publisher == "" || version == "" ||
		minimumBidStr == "" || course == "" || pubYearStr == "" || ratingStr == "" || dateStr == "" {
		return failure(c, "All form fields must be filled out")
	}

	if !validate.ValidPubYear(pubYearStr) {
		return failure(c, "Year published must be between 1900 and 2017")
	}
	pubYear, _ := strconv.Atoi(pubYearStr)

	if !validate.ValidDateString(dateStr) {
		return failure(c, "Auction must close between tomorrow and 60 days from now")
	}
	closingDate, _ := validate.StringToDate(dateStr)

	rating, err := strconv.Atoi(ratingStr)
	if err != nil || rating < 0 || rating > 100 {
		return failure(c, "Condition rating must be an integer from 0 to 100")
	}

	if !validate.ValidMinimumBid(minimumBidStr) {
		return failure(c, "Minimum bid must be a positive integer")
	}
	minimumBid, _ := strconv.Atoi(minimumBidStr)

	var stored [4]string
	for i, fh := range files {
		name, err := h.Photos.Save(fh)
		if err != nil {
			utils.Error("photo save failed", map[string]any{"field": photoFields[i], "error": err.Error()})
			return failure(c, "Photo upload failed")
		}
		stored[i] = name
	}

	book := model.Textbook{
		Title:         title,
		Author:        author,
		ISBN:          isbn,
		Publisher:     publisher,
		YearPublished: pubYear,
		Description:   desc,
		Version:       version,
		Condition:     rating,
		Course:        course,
		CoverPhoto:    stored[0],
		BestPhoto:     stored[1],
		WorstPhoto:    stored[2],
		AveragePhoto:  stored[3],
		SellerID:      seller.ID,
	}
	auc := model.Auction{
		MinimumBid:  minimumBid,
		IsCurrent:   true,
		ClosingDate: closingDate,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	bookID, _, err := h.Books.CreateWithAuction(ctx, book, auc)
	if err != nil {
		utils.Error("create listing failed", map[string]any{"error": err.Error()})
		return c.JSON(http.StatusInternalServerError, statusResp{Status: "failure"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "id": bookID})
}

// SearchBooks runs the keyword title search. Keywords arrive
// %20-delimited in the q parameter; every keyword must match and only
// open auctions are returned.
func (h *BookHandler) SearchBooks(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ids, err := h.Search.ByTitle(ctx, c.QueryParam("q"))
	if err != nil {
		utils.Error("search failed", map[string]any{"error": err.Error()})
		return c.JSON(http.StatusInternalServerError, statusResp{Status: "failure"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "results": ids})
}

// bookResp is the public shape of a listing with its auction state.
type bookResp struct {
	ID            uint64 `json:"id"`
	Title         string `json:"title"`
	Author        string `json:"author"`
	ISBN          string `json:"isbn"`
	Publisher     string `json:"publisher"`
	YearPublished int    `json:"year"`
	Description   string `json:"description"`
	Version       string `json:"version"`
	Condition     int    `json:"rating"`
	Course        string `json:"subject"`
	CoverPhoto    string `json:"cover"`
	BestPhoto     string `json:"pic1"`
	WorstPhoto    string `json:"pic2"`
	AveragePhoto  string `json:"pic3"`
	SellerID      uint64 `json:"seller"`
	AuctionID     uint64 `json:"auction"`
	MinimumBid    int    `json:"minimumBid"`
	SalePrice     int    `json:"salePrice"`
	IsCurrent     bool   `json:"isCurrent"`
	ClosingDate   string `json:"closingDate"`
}

// GetBook returns a listing with its auction state, 400 when missing.
func (h *BookHandler) GetBook(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	b, err := h.Books.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.NoContent(http.StatusBadRequest)
		}
		utils.Error("load book failed", map[string]any{"error": err.Error()})
		return c.NoContent(http.StatusInternalServerError)
	}
	a, err := h.Auctions.GetByID(ctx, b.AuctionID)
	if err != nil {
		utils.Error("load auction failed", map[string]any{"book_id": id, "error": err.Error()})
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, bookResp{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		ISBN:          b.ISBN,
		Publisher:     b.Publisher,
		YearPublished: b.YearPublished,
		Description:   b.Description,
		Version:       b.Version,
		Condition:     b.Condition,
		Course:        b.Course,
		CoverPhoto:    b.CoverPhoto,
		BestPhoto:     b.BestPhoto,
		WorstPhoto:    b.WorstPhoto,
		AveragePhoto:  b.AveragePhoto,
		SellerID:      b.SellerID,
		AuctionID:     a.ID,
		MinimumBid:    a.MinimumBid,
		SalePrice:     a.SalePrice,
		IsCurrent:     a.IsCurrent,
		ClosingDate:   a.ClosingDate.Format(validate.DateLayout),
	})
}
