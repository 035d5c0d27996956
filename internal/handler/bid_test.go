package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/textbooktown/backend/internal/auction"
	"github.com/textbooktown/backend/internal/middleware"
	"github.com/textbooktown/backend/internal/model"
	"github.com/textbooktown/backend/internal/queue"
	"github.com/textbooktown/backend/internal/repository"
)

// fakeAuctions implements auction.Store and PriceUpdater in memory.
type fakeAuctions struct {
	auctions map[uint64]*model.Auction
}

func newFakeAuctions(list ...model.Auction) *fakeAuctions {
	f := &fakeAuctions{auctions: map[uint64]*model.Auction{}}
	for _, a := range list {
		cp := a
		f.auctions[a.ID] = &cp
	}
	return f
}

func (f *fakeAuctions) GetByID(_ context.Context, id uint64) (model.Auction, error) {
	if a, ok := f.auctions[id]; ok {
		return *a, nil
	}
	return model.Auction{}, repository.ErrNotFound
}

func (f *fakeAuctions) GetByTextbook(_ context.Context, textbookID uint64) (model.Auction, error) {
	for _, a := range f.auctions {
		if a.TextbookID == textbookID {
			return *a, nil
		}
	}
	return model.Auction{}, repository.ErrNotFound
}

func (f *fakeAuctions) Close(_ context.Context, id uint64) error {
	if a, ok := f.auctions[id]; ok {
		a.IsCurrent = false
	}
	return nil
}

func (f *fakeAuctions) ListExpiredOpen(_ context.Context, today time.Time) ([]model.Auction, error) {
	var out []model.Auction
	for _, a := range f.auctions {
		if a.IsCurrent && a.ClosingDate.Before(today) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAuctions) UpdateSalePrice(_ context.Context, id uint64, price int) error {
	if a, ok := f.auctions[id]; ok {
		a.SalePrice = price
	}
	return nil
}

// fakeBids implements BidStore in memory.
type fakeBids struct {
	bids   []model.Bid
	nextID uint64
}

func (f *fakeBids) Create(_ context.Context, auctionID, bidderID uint64, ceiling int) (uint64, error) {
	f.nextID++
	f.bids = append(f.bids, model.Bid{ID: f.nextID, AuctionID: auctionID, BidderID: bidderID, Ceiling: ceiling})
	return f.nextID, nil
}

func (f *fakeBids) CountForAuction(_ context.Context, auctionID uint64) (int, error) {
	n := 0
	for _, b := range f.bids {
		if b.AuctionID == auctionID {
			n++
		}
	}
	return n, nil
}

type capturedEvents struct{ placed []queue.BidPlacedEvent }

func (e *capturedEvents) BidPlaced(_ context.Context, ev queue.BidPlacedEvent) {
	e.placed = append(e.placed, ev)
}

var bidToday = time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

func bidHandlerFor(store *fakeAuctions, bids *fakeBids, events *capturedEvents) *BidHandler {
	lc := auction.NewLifecycle(store, nil)
	lc.Today = func() time.Time { return bidToday }
	var ev BidEvents
	if events != nil {
		ev = events
	}
	return NewBidHandler(bids, store, store, lc, ev)
}

func placeBidCtx(e *echo.Echo, auctionID string, body string, bidder *model.User) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(auctionID)
	if bidder != nil {
		c.Set(middleware.ContextUserKey, *bidder)
	}
	return c, rec
}

func TestPlaceBid(t *testing.T) {
	bidder := model.User{ID: 5, Username: "buyer"}
	open := model.Auction{ID: 1, TextbookID: 10, MinimumBid: 20, SalePrice: 0, IsCurrent: true,
		ClosingDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name       string
		auction    model.Auction
		body       string
		wantStatus string
		wantMsg    string
	}{
		{
			name:       "first_bid_at_minimum",
			auction:    open,
			body:       `{"ceiling":20}`,
			wantStatus: "success",
		},
		{
			name:       "below_minimum",
			auction:    open,
			body:       `{"ceiling":19}`,
			wantStatus: "failure",
			wantMsg:    "Bid must be at least the minimum bid",
		},
		{
			name: "not_beating_sale_price",
			auction: model.Auction{ID: 1, TextbookID: 10, MinimumBid: 20, SalePrice: 50, IsCurrent: true,
				ClosingDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
			body:       `{"ceiling":50}`,
			wantStatus: "failure",
			wantMsg:    "Bid must be greater than the current sale price",
		},
		{
			name: "closed_auction",
			auction: model.Auction{ID: 1, TextbookID: 10, MinimumBid: 20, IsCurrent: false,
				ClosingDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
			body:       `{"ceiling":100}`,
			wantStatus: "failure",
			wantMsg:    "Auction is closed",
		},
		{
			name: "expired_open_auction_rejected_and_closed",
			auction: model.Auction{ID: 1, TextbookID: 10, MinimumBid: 20, IsCurrent: true,
				ClosingDate: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
			body:       `{"ceiling":100}`,
			wantStatus: "failure",
			wantMsg:    "Auction is closed",
		},
		{
			name:       "non_positive_ceiling",
			auction:    open,
			body:       `{"ceiling":0}`,
			wantStatus: "failure",
			wantMsg:    "Bid must be a positive integer",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeAuctions(tc.auction)
			bids := &fakeBids{}
			h := bidHandlerFor(store, bids, nil)
			c, rec := placeBidCtx(echo.New(), "1", tc.body, &bidder)

			require.NoError(t, h.PlaceBid(c))
			require.Equal(t, http.StatusOK, rec.Code)
			resp := decodeStatus(t, rec)
			require.Equal(t, tc.wantStatus, resp.Status)
			require.Equal(t, tc.wantMsg, resp.Message)

			if tc.name == "expired_open_auction_rejected_and_closed" {
				a, err := store.GetByID(context.Background(), 1)
				require.NoError(t, err)
				require.False(t, a.IsCurrent)
			}
		})
	}
}

func TestPlaceBid_UpdatesSalePriceAndPublishes(t *testing.T) {
	bidder := model.User{ID: 5, Username: "buyer"}
	store := newFakeAuctions(model.Auction{ID: 1, TextbookID: 10, MinimumBid: 20, IsCurrent: true,
		ClosingDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)})
	bids := &fakeBids{}
	events := &capturedEvents{}
	h := bidHandlerFor(store, bids, events)

	c, rec := placeBidCtx(echo.New(), "1", `{"ceiling":35}`, &bidder)
	require.NoError(t, h.PlaceBid(c))
	require.Equal(t, "success", decodeStatus(t, rec).Status)

	a, err := store.GetByID(context.Background(), 1)
	require.NoError(t, err)
	require.Equal(t, 35, a.SalePrice)

	require.Len(t, events.placed, 1)
	require.Equal(t, uint64(5), events.placed[0].BidderID)
	require.Equal(t, 35, events.placed[0].Ceiling)
}

func TestPlaceBid_UnknownAuction(t *testing.T) {
	h := bidHandlerFor(newFakeAuctions(), &fakeBids{}, nil)
	c, rec := placeBidCtx(echo.New(), "99", `{"ceiling":10}`, &model.User{ID: 1})
	require.NoError(t, h.PlaceBid(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPlaceBid_RequiresUser(t *testing.T) {
	h := bidHandlerFor(newFakeAuctions(), &fakeBids{}, nil)
	c, rec := placeBidCtx(echo.New(), "1", `{"ceiling":10}`, nil)
	require.NoError(t, h.PlaceBid(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCountBids(t *testing.T) {
	store := newFakeAuctions(model.Auction{ID: 1, TextbookID: 10, MinimumBid: 1, IsCurrent: true,
		ClosingDate: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)})
	bids := &fakeBids{}
	h := bidHandlerFor(store, bids, nil)
	e := echo.New()

	countFor := func(id string) (int, int) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		c.SetParamNames("id")
		c.SetParamValues(id)
		require.NoError(t, h.CountBids(c))
		if rec.Code != http.StatusOK {
			return rec.Code, 0
		}
		var resp struct {
			Count int `json:"count"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		return rec.Code, resp.Count
	}

	// Zero bids.
	code, n := countFor("1")
	require.Equal(t, http.StatusOK, code)
	require.Zero(t, n)

	// N insertions -> N.
	for i := 0; i < 4; i++ {
		_, err := bids.Create(context.Background(), 1, 5, 20+i)
		require.NoError(t, err)
	}
	code, n = countFor("1")
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 4, n)

	// Unknown auction -> 400.
	code, _ = countFor("77")
	require.Equal(t, http.StatusBadRequest, code)
}
