package catalog

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/datajunqer/bidding-app/internal/models"
)

// SeedConfig controls the deadline schedule and display image location for a
// seeded catalog.
type SeedConfig struct {
	// StartDelay is how long after seeding the earliest auction ends.
	StartDelay time.Duration
	// SlotGap is the spacing between consecutive deadlines.
	SlotGap time.Duration
	// ImageBaseURL is the prefix for per-item display images.
	ImageBaseURL string
}

// DefaultSeedConfig matches the demo schedule: the first auction ends 10s
// after startup and each following one 45s later.
func DefaultSeedConfig() SeedConfig {
	return SeedConfig{
		StartDelay:   10 * time.Second,
		SlotGap:      45 * time.Second,
		ImageBaseURL: "/images",
	}
}

// Seed builds the full item list from a catalog. It is pure: the same
// entries, config, and now always produce the same items.
//
// Deadlines follow catalog order: entry idx ends at
// now + StartDelay + idx*SlotGap. Slots are assigned separately by sorting
// on the computed deadlines, earliest ending item first, so slot numbering
// stays correct even if the deadline schedule stops tracking catalog order.
func Seed(entries []Entry, cfg SeedConfig, now time.Time) []*models.Item {
	baseEnd := now.Add(cfg.StartDelay)

	items := make([]*models.Item, len(entries))
	for idx, e := range entries {
		id := itemID(idx + 1)
		items[idx] = &models.Item{
			ID:            id,
			Title:         e.Title,
			Category:      e.Category,
			StartingPrice: e.StartingPrice,
			CurrentBid:    e.StartingPrice,
			EndsAt:        baseEnd.Add(time.Duration(idx) * cfg.SlotGap),
			ImageURL:      imageURL(cfg.ImageBaseURL, id),
		}
	}

	// Slot 1 is the earliest-ending item. Ties keep catalog order.
	byEndAsc := make([]*models.Item, len(items))
	copy(byEndAsc, items)
	sort.SliceStable(byEndAsc, func(i, j int) bool {
		return byEndAsc[i].EndsAt.Before(byEndAsc[j].EndsAt)
	})
	for i, item := range byEndAsc {
		item.Slot = i + 1
	}

	return items
}

func itemID(n int) string {
	return fmt.Sprintf("item-%02d", n)
}

func imageURL(base, id string) string {
	return fmt.Sprintf("%s/%s.jpg", strings.TrimSuffix(base, "/"), id)
}
