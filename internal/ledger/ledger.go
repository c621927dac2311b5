package ledger

import (
	"errors"
	"sync"

	"github.com/datajunqer/bidding-app/internal/models"
)

// ErrNotFound is returned when an item id is not in the ledger.
var ErrNotFound = errors.New("item not found")

// Ledger is the in-memory table of live per-item auction state. It is
// populated once from the seeded catalog and holds the only authoritative
// copy of each item's current bid and leader for the life of the process.
//
// The ledger guards its map with a lock for memory safety, but that lock is
// not what serializes bids: callers of ApplyBid must hold the item's turn in
// the per-key serializer. Read paths (Get, Snapshot) take no serializer turn
// and may observe an item mid-auction; the broadcast stream, not a read, is
// the source of truth for whether a bid applied.
type Ledger struct {
	mu    sync.RWMutex
	items map[string]*models.Item
	order []*models.Item // seed order, for stable listings
}

// New builds a ledger from seeded items. Items are never added or removed
// afterwards.
func New(items []*models.Item) *Ledger {
	l := &Ledger{
		items: make(map[string]*models.Item, len(items)),
		order: items,
	}
	for _, item := range items {
		l.items[item.ID] = item
	}
	return l
}

// Has reports whether an item id exists. Bid submissions use this to reject
// unknown items before entering the serializer.
func (l *Ledger) Has(id string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.items[id]
	return ok
}

// Get returns a sanitized snapshot of one item.
func (l *Ledger) Get(id string) (models.ItemSnapshot, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	item, ok := l.items[id]
	if !ok {
		return models.ItemSnapshot{}, ErrNotFound
	}
	return item.Sanitize(), nil
}

// Snapshot returns sanitized snapshots of every item in seed order.
func (l *Ledger) Snapshot() []models.ItemSnapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	snaps := make([]models.ItemSnapshot, len(l.order))
	for i, item := range l.order {
		snaps[i] = item.Sanitize()
	}
	return snaps
}

// ApplyBid records an accepted bid. The caller must hold the item's
// exclusive section; this is the only mutation path into the ledger.
// CurrentBid and HighestBidder update together under one lock hold, so a
// reader never sees one without the other.
func (l *Ledger) ApplyBid(id string, amount int64, bidderID string) (models.ItemSnapshot, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	item, ok := l.items[id]
	if !ok {
		return models.ItemSnapshot{}, ErrNotFound
	}
	item.CurrentBid = amount
	item.HighestBidder = bidderID
	return item.Sanitize(), nil
}
