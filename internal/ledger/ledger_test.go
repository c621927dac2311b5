package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/check"

	"github.com/datajunqer/bidding-app/internal/models"
)

func seededLedger(t *testing.T) *Ledger {
	t.Helper()
	endsAt := time.Now().Add(time.Hour)
	return New([]*models.Item{
		{ID: "item-01", Title: "Wireless Headphones", Category: "Electronics", Slot: 1, StartingPrice: 50, CurrentBid: 50, EndsAt: endsAt},
		{ID: "item-02", Title: "Yoga Mat", Category: "Sports", Slot: 2, StartingPrice: 22, CurrentBid: 22, EndsAt: endsAt.Add(45 * time.Second)},
	})
}

func TestGet_KnownItem(t *testing.T) {
	l := seededLedger(t)

	snap, err := l.Get("item-01")
	check.NoError(t, err)
	check.Equal(t, "item-01", snap.ID)
	check.Equal(t, int64(50), snap.CurrentBid)
	check.Nil(t, snap.HighestBidder)
}

func TestGet_UnknownItem(t *testing.T) {
	l := seededLedger(t)

	_, err := l.Get("item-99")
	check.True(t, errors.Is(err, ErrNotFound))
	check.False(t, l.Has("item-99"))
	check.True(t, l.Has("item-02"))
}

func TestApplyBid_UpdatesBothFieldsTogether(t *testing.T) {
	l := seededLedger(t)

	snap, err := l.ApplyBid("item-01", 60, "alice")
	check.NoError(t, err)
	check.Equal(t, int64(60), snap.CurrentBid)
	check.NotNil(t, snap.HighestBidder)
	check.Equal(t, "alice", *snap.HighestBidder)

	// Reread confirms the committed state, not just the returned snapshot.
	again, err := l.Get("item-01")
	check.NoError(t, err)
	check.Equal(t, int64(60), again.CurrentBid)
	check.Equal(t, "alice", *again.HighestBidder)
}

func TestApplyBid_UnknownItem(t *testing.T) {
	l := seededLedger(t)

	_, err := l.ApplyBid("item-99", 60, "alice")
	check.True(t, errors.Is(err, ErrNotFound))
}

func TestSnapshot_SeedOrderAndSanitized(t *testing.T) {
	l := seededLedger(t)
	_, err := l.ApplyBid("item-02", 30, "bob")
	check.NoError(t, err)

	snaps := l.Snapshot()
	check.Equal(t, 2, len(snaps))
	check.Equal(t, "item-01", snaps[0].ID)
	check.Equal(t, "item-02", snaps[1].ID)
	check.Nil(t, snaps[0].HighestBidder)
	check.Equal(t, "bob", *snaps[1].HighestBidder)
}

func TestSnapshot_IsACopy(t *testing.T) {
	l := seededLedger(t)

	snaps := l.Snapshot()
	snaps[0].CurrentBid = 999

	fresh, err := l.Get("item-01")
	check.NoError(t, err)
	check.Equal(t, int64(50), fresh.CurrentBid)
}
