package auction

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/textbooktown/backend/internal/model"
	"github.com/textbooktown/backend/internal/repository"
)

// fakeStore is an in-memory Store for exercising lifecycle and search
// logic without a database.
type fakeStore struct {
	auctions map[uint64]*model.Auction // keyed by auction id
	byBook   map[uint64]uint64         // textbook id -> auction id
	closed   []uint64                  // ids passed to Close, in order
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		auctions: map[uint64]*model.Auction{},
		byBook:   map[uint64]uint64{},
	}
}

func (f *fakeStore) add(a model.Auction) {
	cp := a
	f.auctions[a.ID] = &cp
	f.byBook[a.TextbookID] = a.ID
}

func (f *fakeStore) GetByID(_ context.Context, id uint64) (model.Auction, error) {
	a, ok := f.auctions[id]
	if !ok {
		return model.Auction{}, repository.ErrNotFound
	}
	return *a, nil
}

func (f *fakeStore) GetByTextbook(_ context.Context, textbookID uint64) (model.Auction, error) {
	id, ok := f.byBook[textbookID]
	if !ok {
		return model.Auction{}, repository.ErrNotFound
	}
	return *f.auctions[id], nil
}

func (f *fakeStore) Close(_ context.Context, id uint64) error {
	if a, ok := f.auctions[id]; ok && a.IsCurrent {
		a.IsCurrent = false
		f.closed = append(f.closed, id)
	}
	return nil
}

func (f *fakeStore) ListExpiredOpen(_ context.Context, today time.Time) ([]model.Auction, error) {
	var out []model.Auction
	for _, a := range f.auctions {
		if a.IsCurrent && a.ClosingDate.Before(today) {
			out = append(out, *a)
		}
	}
	return out, nil
}

type fakeIndex map[string][]uint64

func (f fakeIndex) IDsMatchingTitle(_ context.Context, keyword string) ([]uint64, error) {
	return f[keyword], nil
}

type fakePublisher struct{ closed []uint64 }

func (p *fakePublisher) AuctionClosed(_ context.Context, a model.Auction) {
	p.closed = append(p.closed, a.ID)
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

var today = date(2024, 6, 15)

func fixedToday() time.Time { return today }

func lifecycleWith(store Store, pub Publisher) *Lifecycle {
	lc := NewLifecycle(store, pub)
	lc.Today = fixedToday
	return lc
}

func TestLifecycle_CheckAndClose(t *testing.T) {
	tests := []struct {
		name        string
		auction     model.Auction
		wantClosed  bool
		wantCurrent bool
	}{
		{
			name:        "expired_open_auction_closes",
			auction:     model.Auction{ID: 1, TextbookID: 10, IsCurrent: true, ClosingDate: date(2024, 6, 14)},
			wantClosed:  true,
			wantCurrent: false,
		},
		{
			name:        "closing_today_stays_open",
			auction:     model.Auction{ID: 2, TextbookID: 20, IsCurrent: true, ClosingDate: today},
			wantClosed:  false,
			wantCurrent: true,
		},
		{
			name:        "future_auction_stays_open",
			auction:     model.Auction{ID: 3, TextbookID: 30, IsCurrent: true, ClosingDate: date(2024, 7, 1)},
			wantClosed:  false,
			wantCurrent: true,
		},
		{
			name:        "already_closed_is_noop",
			auction:     model.Auction{ID: 4, TextbookID: 40, IsCurrent: false, ClosingDate: date(2024, 1, 1)},
			wantClosed:  false,
			wantCurrent: false,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			store.add(tc.auction)
			pub := &fakePublisher{}
			lc := lifecycleWith(store, pub)

			closed, err := lc.CheckAndClose(context.Background(), tc.auction.ID)
			require.NoError(t, err)
			require.Equal(t, tc.wantClosed, closed)

			got, err := store.GetByID(context.Background(), tc.auction.ID)
			require.NoError(t, err)
			require.Equal(t, tc.wantCurrent, got.IsCurrent)

			if tc.wantClosed {
				require.Equal(t, []uint64{tc.auction.ID}, pub.closed)
			} else {
				require.Empty(t, pub.closed)
			}
		})
	}
}

func TestLifecycle_CheckAndClose_Idempotent(t *testing.T) {
	store := newFakeStore()
	store.add(model.Auction{ID: 1, TextbookID: 10, IsCurrent: true, ClosingDate: date(2024, 6, 1)})
	lc := lifecycleWith(store, nil)

	closed, err := lc.CheckAndClose(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, closed)

	// Second call finds the auction already closed.
	closed, err = lc.CheckAndClose(context.Background(), 1)
	require.NoError(t, err)
	require.False(t, closed)
	require.Equal(t, []uint64{1}, store.closed)
}

func TestLifecycle_CheckAndClose_UnknownAuction(t *testing.T) {
	lc := lifecycleWith(newFakeStore(), nil)
	_, err := lc.CheckAndClose(context.Background(), 99)
	require.ErrorIs(t, err, repository.ErrNotFound)
}

// searchFixture builds a corpus of three open-by-default textbooks:
//
//	book 1: "Intro to Biology"   -> matches "Intro" and "Biology"
//	book 2: "Intro to Chemistry" -> matches "Intro" only
//	book 3: "Marine Biology"     -> matches "Biology" only
func searchFixture() (*fakeStore, fakeIndex) {
	store := newFakeStore()
	store.add(model.Auction{ID: 101, TextbookID: 1, IsCurrent: true, ClosingDate: date(2024, 7, 1)})
	store.add(model.Auction{ID: 102, TextbookID: 2, IsCurrent: true, ClosingDate: date(2024, 7, 1)})
	store.add(model.Auction{ID: 103, TextbookID: 3, IsCurrent: true, ClosingDate: date(2024, 7, 1)})
	index := fakeIndex{
		"Intro":   {1, 2},
		"Biology": {1, 3},
		"":        {1, 2, 3},
	}
	return store, index
}

func searchWith(store *fakeStore, index fakeIndex) *Search {
	return NewSearch(index, store, lifecycleWith(store, nil))
}

func TestSearch_ByTitle(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []uint64
	}{
		{name: "single_keyword", query: "Intro", want: []uint64{1, 2}},
		{name: "two_keywords_intersect", query: "Intro%20Biology", want: []uint64{1}},
		{name: "keyword_without_matches", query: "Intro%20Physics", want: []uint64{}},
		{name: "no_match_at_all", query: "Astronomy", want: []uint64{}},
		{name: "empty_query_matches_all", query: "", want: []uint64{1, 2, 3}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, index := searchFixture()
			got, err := searchWith(store, index).ByTitle(context.Background(), tc.query)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestSearch_ByTitle_ClosesExpiredAndExcludes(t *testing.T) {
	store, index := searchFixture()
	// Book 1's auction expired yesterday but is still flagged open.
	store.auctions[101].ClosingDate = date(2024, 6, 14)

	got, err := searchWith(store, index).ByTitle(context.Background(), "Intro%20Biology")
	require.NoError(t, err)
	require.Empty(t, got)

	// The lazy check persisted the close.
	a, err := store.GetByID(context.Background(), 101)
	require.NoError(t, err)
	require.False(t, a.IsCurrent)
}

func TestSearch_ByTitle_ChecksOnlyFirstKeywordMatches(t *testing.T) {
	store, index := searchFixture()
	// Book 3 is expired but only matches the SECOND keyword; the lazy
	// pass walks the first keyword's set, so its auction stays open
	// until the sweeper finds it.
	store.auctions[103].ClosingDate = date(2024, 6, 1)

	got, err := searchWith(store, index).ByTitle(context.Background(), "Intro%20Biology")
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, got)

	a, err := store.GetByID(context.Background(), 103)
	require.NoError(t, err)
	require.True(t, a.IsCurrent)
}

func TestSearch_ByTitle_SkipsClosedAuctions(t *testing.T) {
	store, index := searchFixture()
	store.auctions[102].IsCurrent = false

	got, err := searchWith(store, index).ByTitle(context.Background(), "Intro")
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, got)
}

func TestSearch_ByTitle_EmptyCorpus(t *testing.T) {
	got, err := searchWith(newFakeStore(), fakeIndex{}).ByTitle(context.Background(), "Anything")
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestSweeper_Sweep(t *testing.T) {
	store := newFakeStore()
	store.add(model.Auction{ID: 1, TextbookID: 10, IsCurrent: true, ClosingDate: date(2024, 6, 1)})
	store.add(model.Auction{ID: 2, TextbookID: 20, IsCurrent: true, ClosingDate: date(2024, 8, 1)})
	store.add(model.Auction{ID: 3, TextbookID: 30, IsCurrent: false, ClosingDate: date(2024, 5, 1)})
	pub := &fakePublisher{}

	sw := NewSweeper(store, pub, time.Minute)
	sw.Today = fixedToday
	require.NoError(t, sw.Sweep(context.Background()))

	require.False(t, store.auctions[1].IsCurrent)
	require.True(t, store.auctions[2].IsCurrent)
	require.Equal(t, []uint64{1}, pub.closed)

	// Second sweep finds nothing left to close.
	require.NoError(t, sw.Sweep(context.Background()))
	require.Equal(t, []uint64{1}, store.closed)
}
