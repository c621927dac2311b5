package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Entry is one catalog row: display metadata plus the opening price.
// The catalog is static for the life of the process.
type Entry struct {
	Title         string `yaml:"title"`
	Category      string `yaml:"category"`
	StartingPrice int64  `yaml:"starting_price"`
}

type catalogFile struct {
	Items []Entry `yaml:"items"`
}

// Load reads a catalog definition from a YAML file. Intended for deployments
// that want to auction something other than the built-in demo catalog.
func Load(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog file: %w", err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog file: %w", err)
	}
	if len(file.Items) == 0 {
		return nil, fmt.Errorf("catalog file %s defines no items", path)
	}
	for i, e := range file.Items {
		if e.Title == "" {
			return nil, fmt.Errorf("catalog item %d has no title", i)
		}
		if e.StartingPrice <= 0 {
			return nil, fmt.Errorf("catalog item %q has non-positive starting price", e.Title)
		}
	}
	return file.Items, nil
}

// Default returns the built-in demo catalog: 30 items across several
// categories.
func Default() []Entry {
	return []Entry{
		// Electronics
		{Title: "Wireless Headphones", Category: "Electronics", StartingPrice: 50},
		{Title: "Mechanical Keyboard", Category: "Electronics", StartingPrice: 80},
		{Title: "Smart Speaker", Category: "Electronics", StartingPrice: 45},
		{Title: "External SSD 1TB", Category: "Electronics", StartingPrice: 90},
		{Title: "4K Monitor 27-inch", Category: "Electronics", StartingPrice: 180},

		// Furniture
		{Title: "Ergonomic Office Chair", Category: "Furniture", StartingPrice: 120},
		{Title: "Standing Desk Converter", Category: "Furniture", StartingPrice: 95},
		{Title: "Bookshelf 5-Tier", Category: "Furniture", StartingPrice: 70},
		{Title: "Bedside Table", Category: "Furniture", StartingPrice: 45},

		// Toys
		{Title: "LEGO Starter Set", Category: "Toys", StartingPrice: 35},
		{Title: "Remote Control Car", Category: "Toys", StartingPrice: 40},
		{Title: "Puzzle 1000 Pieces", Category: "Toys", StartingPrice: 20},
		{Title: "Plush Teddy Bear", Category: "Toys", StartingPrice: 18},

		// Sports
		{Title: "Basketball", Category: "Sports", StartingPrice: 25},
		{Title: "Yoga Mat", Category: "Sports", StartingPrice: 22},
		{Title: "Adjustable Dumbbells", Category: "Sports", StartingPrice: 110},
		{Title: "Badminton Racket Set", Category: "Sports", StartingPrice: 30},
		{Title: "Tennis Balls Pack", Category: "Sports", StartingPrice: 12},

		// Stationery
		{Title: "Notebook Set (3 pack)", Category: "Stationery", StartingPrice: 10},
		{Title: "Fountain Pen", Category: "Stationery", StartingPrice: 28},
		{Title: "Desk Organizer", Category: "Stationery", StartingPrice: 16},
		{Title: "Sticky Notes Bundle", Category: "Stationery", StartingPrice: 8},
		{Title: "Planner 2026", Category: "Stationery", StartingPrice: 14},

		// Kitchen
		{Title: "Air Fryer", Category: "Kitchen", StartingPrice: 85},
		{Title: "Coffee Grinder", Category: "Kitchen", StartingPrice: 38},
		{Title: "Chef Knife", Category: "Kitchen", StartingPrice: 32},

		// Books
		{Title: "Bestseller Hardcover", Category: "Books", StartingPrice: 15},
		{Title: "Data Science Handbook", Category: "Books", StartingPrice: 55},

		// Gaming
		{Title: "Gaming Controller", Category: "Gaming", StartingPrice: 45},

		// Tools
		{Title: "Cordless Drill", Category: "Tools", StartingPrice: 75},
	}
}
