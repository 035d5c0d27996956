package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/textbooktown/backend/internal/auction"
	"github.com/textbooktown/backend/internal/middleware"
	"github.com/textbooktown/backend/internal/queue"
	"github.com/textbooktown/backend/internal/repository"
	"github.com/textbooktown/backend/internal/utils"
)

// BidStore persists bids.
type BidStore interface {
	Create(ctx context.Context, auctionID, bidderID uint64, ceiling int) (uint64, error)
	CountForAuction(ctx context.Context, auctionID uint64) (int, error)
}

// PriceUpdater records a new best bid amount on an auction.
type PriceUpdater interface {
	UpdateSalePrice(ctx context.Context, id uint64, price int) error
}

// BidEvents publishes accepted bids.
type BidEvents interface {
	BidPlaced(ctx context.Context, ev queue.BidPlacedEvent)
}

// BidHandler bundles dependencies for bid placement and counting.
type BidHandler struct {
	Bids      BidStore
	Auctions  auction.Store
	Prices    PriceUpdater
	Lifecycle *auction.Lifecycle
	Events    BidEvents // optional; nil means no events
}

func NewBidHandler(bids BidStore, auctions auction.Store, prices PriceUpdater, lc *auction.Lifecycle, events BidEvents) *BidHandler {
	return &BidHandler{Bids: bids, Auctions: auctions, Prices: prices, Lifecycle: lc, Events: events}
}

type placeBidReq struct {
	Ceiling int `json:"ceiling"`
}

// PlaceBid records a proxy bid on an open auction. The auction gets a
// lazy lifecycle check first, so bidding on an expired-but-unswept
// auction closes it and rejects the bid. An accepted ceiling must meet
// the minimum bid and strictly beat the current sale price; it then
// becomes the new sale price.
func (h *BidHandler) PlaceBid(c echo.Context) error {
	bidder, ok := middleware.CurrentUser(c)
	if !ok {
		return c.NoContent(http.StatusUnauthorized)
	}
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	var req placeBidReq
	if err := c.Bind(&req); err != nil || req.Ceiling <= 0 {
		return failure(c, "Bid must be a positive integer")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Lifecycle.CheckAndClose(ctx, auctionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.NoContent(http.StatusBadRequest)
		}
		utils.Error("lifecycle check failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return c.JSON(http.StatusInternalServerError, statusResp{Status: "failure"})
	}

	a, err := h.Auctions.GetByID(ctx, auctionID)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	if !a.IsCurrent {
		return failure(c, "Auction is closed")
	}
	if req.Ceiling < a.MinimumBid {
		return failure(c, "Bid must be at least the minimum bid")
	}
	if req.Ceiling <= a.SalePrice {
		return failure(c, "Bid must be greater than the current sale price")
	}

	bidID, err := h.Bids.Create(ctx, a.ID, bidder.ID, req.Ceiling)
	if err != nil {
		utils.Error("record bid failed", map[string]any{"auction_id": a.ID, "error": err.Error()})
		return c.JSON(http.StatusInternalServerError, statusResp{Status: "failure"})
	}
	if err := h.Prices.UpdateSalePrice(ctx, a.ID, req.Ceiling); err != nil {
		utils.Error("update sale price failed", map[string]any{"auction_id": a.ID, "error": err.Error()})
		return c.JSON(http.StatusInternalServerError, statusResp{Status: "failure"})
	}

	if h.Events != nil {
		h.Events.BidPlaced(ctx, queue.BidPlacedEvent{
			BidID:     bidID,
			AuctionID: a.ID,
			BidderID:  bidder.ID,
			Ceiling:   req.Ceiling,
			SalePrice: req.Ceiling,
			PlacedAt:  time.Now().UTC().Format(time.RFC3339),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "id": bidID})
}

// CountBids returns how many bids an auction has received.
func (h *BidHandler) CountBids(c echo.Context) error {
	auctionID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.NoContent(http.StatusBadRequest)
	}
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Auctions.GetByID(ctx, auctionID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.NoContent(http.StatusBadRequest)
		}
		utils.Error("load auction failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return c.NoContent(http.StatusInternalServerError)
	}
	n, err := h.Bids.CountForAuction(ctx, auctionID)
	if err != nil {
		utils.Error("count bids failed", map[string]any{"auction_id": auctionID, "error": err.Error()})
		return c.NoContent(http.StatusInternalServerError)
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "success", "count": n})
}
