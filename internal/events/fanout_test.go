package events

import (
	"testing"
	"time"

	"github.com/peterldowns/testy/check"

	"github.com/datajunqer/bidding-app/internal/models"
)

type countingSink struct {
	calls int
	last  string
}

func (c *countingSink) BidAccepted(item models.ItemSnapshot, bidderID string, serverTime time.Time) {
	c.calls++
	c.last = bidderID
}

func TestFanout_DeliversToEverySinkInOrder(t *testing.T) {
	first := &countingSink{}
	second := &countingSink{}
	fanout := Fanout{first, second}

	fanout.BidAccepted(models.ItemSnapshot{ID: "item-01"}, "alice", time.Now())
	fanout.BidAccepted(models.ItemSnapshot{ID: "item-01"}, "bob", time.Now())

	check.Equal(t, 2, first.calls)
	check.Equal(t, 2, second.calls)
	check.Equal(t, "bob", first.last)
	check.Equal(t, "bob", second.last)
}

func TestFanout_EmptyIsANoOp(t *testing.T) {
	var fanout Fanout
	fanout.BidAccepted(models.ItemSnapshot{ID: "item-01"}, "alice", time.Now())
}
