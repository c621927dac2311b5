package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/peterldowns/testy/check"
)

func writeCatalog(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	return path
}

func TestLoad_ValidFile(t *testing.T) {
	path := writeCatalog(t, `
items:
  - title: Vintage Camera
    category: Electronics
    starting_price: 120
  - title: Oak Desk
    category: Furniture
    starting_price: 300
`)

	entries, err := Load(path)
	check.NoError(t, err)
	check.Equal(t, 2, len(entries))
	check.Equal(t, "Vintage Camera", entries[0].Title)
	check.Equal(t, int64(300), entries[1].StartingPrice)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	check.Error(t, err)
}

func TestLoad_EmptyCatalog(t *testing.T) {
	path := writeCatalog(t, "items: []\n")
	_, err := Load(path)
	check.Error(t, err)
}

func TestLoad_RejectsNonPositivePrice(t *testing.T) {
	path := writeCatalog(t, `
items:
  - title: Freebie
    category: Misc
    starting_price: 0
`)
	_, err := Load(path)
	check.Error(t, err)
}

func TestDefault_ThirtyItems(t *testing.T) {
	check.Equal(t, 30, len(Default()))
}
