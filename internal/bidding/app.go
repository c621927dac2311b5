package bidding

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/datajunqer/bidding-app/internal/ledger"
	"github.com/datajunqer/bidding-app/internal/locks"
	"github.com/datajunqer/bidding-app/internal/models"
)

// Broadcaster receives exactly one notification per accepted bid, carrying
// the sanitized post-bid item state, the accepting bidder, and the server
// time of the commit. Implementations must not block: delivery is
// fire-and-forget and runs adjacent to the item's exclusive section.
type Broadcaster interface {
	BidAccepted(item models.ItemSnapshot, bidderID string, serverTime time.Time)
}

// App owns the bid path: unknown items are rejected up front, everything
// else enters the per-item serializer, and the evaluator decides against
// live ledger state inside the exclusive section. An accepted bid mutates
// the ledger and notifies the broadcaster exactly once; a rejected bid
// touches nothing.
type App struct {
	ledger      *ledger.Ledger
	locks       *locks.Keyed
	broadcaster Broadcaster
	clock       clockwork.Clock
}

// NewApp creates the bidding app around a seeded ledger.
func NewApp(l *ledger.Ledger, b Broadcaster, clock clockwork.Clock) *App {
	return &App{
		ledger:      l,
		locks:       locks.NewKeyed(),
		broadcaster: b,
		clock:       clock,
	}
}

// PlaceBid applies one bid and returns exactly one outcome. There is no
// cancellation: once submitted, a bid waits its turn behind earlier bids on
// the same item and always gets an answer. Only in-memory evaluation and
// mutation happen inside the exclusive section, so hold times stay short.
//
// A non-nil error is an internal fault. It reaches this caller only; queued
// bids behind it still run, and the ledger is untouched for this bid.
func (a *App) PlaceBid(itemID, bidderID string, amount Amount) (Outcome, error) {
	if !a.ledger.Has(itemID) {
		return Rejected(ReasonNotFound), nil
	}

	var out Outcome
	err := a.locks.RunExclusive(itemID, func() error {
		item, err := a.ledger.Get(itemID)
		if err != nil {
			return err
		}

		now := a.clock.Now()
		out = Evaluate(item, bidderID, amount, now)
		if !out.Accepted {
			return nil
		}

		snap, err := a.ledger.ApplyBid(itemID, amount.Value, bidderID)
		if err != nil {
			return err
		}
		out.Item = &snap

		a.broadcaster.BidAccepted(snap, bidderID, now)

		log.Info().
			Str("item_id", itemID).
			Str("bidder_id", bidderID).
			Int64("amount", amount.Value).
			Msg("bid accepted")
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}
	return out, nil
}

// ActiveItemQueues reports how many items currently have bids queued or in
// flight. Exposed for the stats endpoint.
func (a *App) ActiveItemQueues() int {
	return a.locks.ActiveKeys()
}
