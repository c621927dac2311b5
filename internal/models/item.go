package models

import "time"

// Item is the live auction record for a single lot. The catalog seeder fills
// every field once at startup; after that only CurrentBid and HighestBidder
// change, and only through the bidding core's exclusive section for this
// item's key.
type Item struct {
	ID            string
	Title         string
	Category      string
	Slot          int
	StartingPrice int64
	CurrentBid    int64
	HighestBidder string // empty until the first accepted bid
	EndsAt        time.Time
	ImageURL      string
}

// ItemSnapshot is the sanitized view of an item that crosses the process
// boundary. Serializer bookkeeping and any future internal fields stay out.
type ItemSnapshot struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Category      string    `json:"category"`
	Slot          int       `json:"slot"`
	StartingPrice int64     `json:"starting_price"`
	CurrentBid    int64     `json:"current_bid"`
	HighestBidder *string   `json:"highest_bidder"`
	ImageURL      string    `json:"image_url"`
	EndsAt        time.Time `json:"ends_at"`
}

// Sanitize returns the externally visible view of the item.
func (i *Item) Sanitize() ItemSnapshot {
	snap := ItemSnapshot{
		ID:            i.ID,
		Title:         i.Title,
		Category:      i.Category,
		Slot:          i.Slot,
		StartingPrice: i.StartingPrice,
		CurrentBid:    i.CurrentBid,
		ImageURL:      i.ImageURL,
		EndsAt:        i.EndsAt,
	}
	if i.HighestBidder != "" {
		bidder := i.HighestBidder
		snap.HighestBidder = &bidder
	}
	return snap
}
