package domain

import "context"

// Game is one entry in the cognitive-games catalog. CatalogID is the stable
// numeric id the frontend routes on; it is distinct from the record id.
type Game struct {
	CatalogID   int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Category    string   `json:"category,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	Duration    string   `json:"duration,omitempty"`
	Image       string   `json:"image,omitempty"`
	Benefits    []string `json:"benefits,omitempty"`
}

// GameRepository defines storage operations for the games catalog.
type GameRepository interface {
	List(ctx context.Context) ([]Game, error)
	// FindByCatalogID returns ErrNotFound for an unknown catalog id.
	FindByCatalogID(ctx context.Context, catalogID int) (*Game, error)
	// Upsert inserts or replaces a catalog entry, keyed by CatalogID.
	// Used by the seeding CLI.
	Upsert(ctx context.Context, g Game) error
}
