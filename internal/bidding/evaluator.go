package bidding

import (
	"time"

	"github.com/datajunqer/bidding-app/internal/models"
)

// Reason identifies why a bid was rejected. These codes are part of the
// external contract and reach clients verbatim.
type Reason string

const (
	ReasonNotFound       Reason = "NOT_FOUND"
	ReasonAuctionEnded   Reason = "AUCTION_ENDED"
	ReasonAlreadyWinning Reason = "ALREADY_WINNING"
	ReasonOutbid         Reason = "OUTBID"
)

// Amount carries a bid value plus whether the client supplied a usable
// number at all. Malformed input travels through the rule chain with Valid
// false and rejects as OUTBID, the same code as a bid that fails to beat
// the current price. Keeping both cases under one code is deliberate: it is
// the contract clients already depend on.
type Amount struct {
	Value int64
	Valid bool
}

// AmountOf wraps a well-formed bid value.
func AmountOf(v int64) Amount {
	return Amount{Value: v, Valid: true}
}

// Outcome is the single reply every bid submission receives.
type Outcome struct {
	Accepted bool
	Reason   Reason               // set when Accepted is false
	Item     *models.ItemSnapshot // post-acceptance state, set when Accepted
}

// Rejected builds a rejection outcome.
func Rejected(reason Reason) Outcome {
	return Outcome{Reason: reason}
}

// Evaluate decides a bid against live item state. It must only run inside
// the item's exclusive section; called standalone it would race with
// in-flight mutations of the state it reads.
//
// Rule order is fixed, first match wins: the auction being over beats every
// other rejection, a current leader may not raise their own bid regardless
// of amount, and anything that fails to exceed the current price is OUTBID.
func Evaluate(item models.ItemSnapshot, bidderID string, amount Amount, now time.Time) Outcome {
	if !now.Before(item.EndsAt) {
		return Rejected(ReasonAuctionEnded)
	}
	if item.HighestBidder != nil && *item.HighestBidder == bidderID {
		return Rejected(ReasonAlreadyWinning)
	}
	if !amount.Valid || amount.Value <= item.CurrentBid {
		return Rejected(ReasonOutbid)
	}
	return Outcome{Accepted: true}
}
