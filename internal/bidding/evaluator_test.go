package bidding

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"

	"github.com/datajunqer/bidding-app/internal/models"
)

func liveItem(currentBid int64, leader string, endsAt time.Time) models.ItemSnapshot {
	snap := models.ItemSnapshot{
		ID:            "item-01",
		Title:         "Wireless Headphones",
		Category:      "Electronics",
		Slot:          1,
		StartingPrice: 50,
		CurrentBid:    currentBid,
		EndsAt:        endsAt,
	}
	if leader != "" {
		snap.HighestBidder = &leader
	}
	return snap
}

func TestEvaluate_RuleOrder(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ended := now.Add(-time.Second)
	open := now.Add(time.Minute)

	tests := []struct {
		name     string
		item     models.ItemSnapshot
		bidderID string
		amount   Amount
		accepted bool
		reason   Reason
	}{
		{
			name:     "higher bid on open auction accepts",
			item:     liveItem(50, "", open),
			bidderID: "alice",
			amount:   AmountOf(60),
			accepted: true,
		},
		{
			name:     "deadline passed rejects",
			item:     liveItem(50, "", ended),
			bidderID: "alice",
			amount:   AmountOf(60),
			reason:   ReasonAuctionEnded,
		},
		{
			name:     "deadline exactly now rejects",
			item:     liveItem(50, "", now),
			bidderID: "alice",
			amount:   AmountOf(60),
			reason:   ReasonAuctionEnded,
		},
		{
			name:     "ended beats already winning",
			item:     liveItem(60, "alice", ended),
			bidderID: "alice",
			amount:   AmountOf(70),
			reason:   ReasonAuctionEnded,
		},
		{
			name:     "ended beats low amount",
			item:     liveItem(60, "alice", ended),
			bidderID: "bob",
			amount:   AmountOf(10),
			reason:   ReasonAuctionEnded,
		},
		{
			name:     "current leader may not raise own bid",
			item:     liveItem(60, "alice", open),
			bidderID: "alice",
			amount:   AmountOf(1000),
			reason:   ReasonAlreadyWinning,
		},
		{
			name:     "leader self-block beats low amount",
			item:     liveItem(60, "alice", open),
			bidderID: "alice",
			amount:   AmountOf(10),
			reason:   ReasonAlreadyWinning,
		},
		{
			name:     "equal amount rejects as outbid",
			item:     liveItem(60, "alice", open),
			bidderID: "bob",
			amount:   AmountOf(60),
			reason:   ReasonOutbid,
		},
		{
			name:     "lower amount rejects as outbid",
			item:     liveItem(60, "alice", open),
			bidderID: "bob",
			amount:   AmountOf(55),
			reason:   ReasonOutbid,
		},
		{
			name:     "malformed amount rejects as outbid",
			item:     liveItem(60, "alice", open),
			bidderID: "bob",
			amount:   Amount{},
			reason:   ReasonOutbid,
		},
		{
			name:     "different bidder with higher amount accepts",
			item:     liveItem(60, "alice", open),
			bidderID: "bob",
			amount:   AmountOf(61),
			accepted: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Evaluate(tt.item, tt.bidderID, tt.amount, now)
			check.Equal(t, tt.accepted, out.Accepted)
			if !tt.accepted {
				check.Equal(t, tt.reason, out.Reason)
			}
		})
	}
}
