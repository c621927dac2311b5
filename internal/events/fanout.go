package events

import (
	"time"

	"github.com/datajunqer/bidding-app/internal/bidding"
	"github.com/datajunqer/bidding-app/internal/models"
)

// Fanout delivers each accepted bid to every sink in order. Sinks are
// expected to be non-blocking; the bid path does not wait on delivery.
type Fanout []bidding.Broadcaster

// BidAccepted implements bidding.Broadcaster.
func (f Fanout) BidAccepted(item models.ItemSnapshot, bidderID string, serverTime time.Time) {
	for _, b := range f {
		b.BidAccepted(item, bidderID, serverTime)
	}
}
