// Package auction implements the auction lifecycle and the keyword
// title search. Both operate over small store interfaces satisfied by
// the repository layer, so the logic is testable without a database.
package auction

import (
	"context"
	"time"

	"github.com/textbooktown/backend/internal/model"
	"github.com/textbooktown/backend/internal/validate"
)

// Store is the persistence surface the lifecycle and search need.
type Store interface {
	GetByID(ctx context.Context, id uint64) (model.Auction, error)
	GetByTextbook(ctx context.Context, textbookID uint64) (model.Auction, error)
	Close(ctx context.Context, id uint64) error
	ListExpiredOpen(ctx context.Context, today time.Time) ([]model.Auction, error)
}

// Publisher receives lifecycle events. Implementations must not block
// the caller on broker trouble; publish failures are logged downstream.
type Publisher interface {
	AuctionClosed(ctx context.Context, a model.Auction)
}

// Lifecycle decides whether an auction is still open and flips its
// status once the closing date has passed. The check is invoked lazily
// from search and bid placement, and eagerly by the Sweeper.
type Lifecycle struct {
	Auctions Store
	Events   Publisher        // optional; nil means no events
	Today    func() time.Time // defaults to validate.CurrentESTDate
}

func NewLifecycle(store Store, events Publisher) *Lifecycle {
	return &Lifecycle{Auctions: store, Events: events, Today: validate.CurrentESTDate}
}

// CheckAndClose closes the auction iff today's Eastern date is strictly
// after its closing date. Idempotent: an already-closed auction is a
// no-op. Reports whether this call performed the close.
func (l *Lifecycle) CheckAndClose(ctx context.Context, auctionID uint64) (bool, error) {
	a, err := l.Auctions.GetByID(ctx, auctionID)
	if err != nil {
		return false, err
	}
	if !a.IsCurrent {
		return false, nil
	}
	if !l.today().After(a.ClosingDate) {
		return false, nil
	}
	if err := l.Auctions.Close(ctx, a.ID); err != nil {
		return false, err
	}
	a.IsCurrent = false
	if l.Events != nil {
		l.Events.AuctionClosed(ctx, a)
	}
	return true, nil
}

func (l *Lifecycle) today() time.Time {
	if l.Today != nil {
		return l.Today()
	}
	return validate.CurrentESTDate()
}
