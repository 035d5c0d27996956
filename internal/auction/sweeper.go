package auction

import (
	"context"
	"time"

	"github.com/textbooktown/backend/internal/utils"
	"github.com/textbooktown/backend/internal/validate"
)

// Sweeper periodically reconciles auction state: every interval it
// closes open auctions whose closing date has passed. This complements
// the lazy per-search check, which only touches auctions that happen
// to be accessed; without the sweeper an expired auction nobody
// searches for would stay visibly open forever.
type Sweeper struct {
	Auctions Store
	Events   Publisher        // optional
	Interval time.Duration
	Today    func() time.Time // defaults to validate.CurrentESTDate
}

func NewSweeper(store Store, events Publisher, interval time.Duration) *Sweeper {
	return &Sweeper{Auctions: store, Events: events, Interval: interval, Today: validate.CurrentESTDate}
}

// Run sweeps once immediately and then on every tick until the context
// is cancelled. Errors are logged and the loop keeps going; a failed
// sweep is retried on the next tick.
func (s *Sweeper) Run(ctx context.Context) {
	if err := s.Sweep(ctx); err != nil {
		utils.Error("auction sweep failed", map[string]any{"error": err.Error()})
	}
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				utils.Error("auction sweep failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// Sweep closes every open auction whose closing date is before today's
// Eastern date. Returns the first storage error encountered; auctions
// already processed stay closed.
func (s *Sweeper) Sweep(ctx context.Context) error {
	today := s.Today()
	expired, err := s.Auctions.ListExpiredOpen(ctx, today)
	if err != nil {
		return err
	}
	for _, a := range expired {
		if err := s.Auctions.Close(ctx, a.ID); err != nil {
			return err
		}
		a.IsCurrent = false
		if s.Events != nil {
			s.Events.AuctionClosed(ctx, a)
		}
		utils.Info("auction closed by sweeper", map[string]any{
			"auction_id":   a.ID,
			"textbook_id":  a.TextbookID,
			"closing_date": a.ClosingDate.Format(validate.DateLayout),
		})
	}
	return nil
}
