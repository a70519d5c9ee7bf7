package database

import (
	"context"
	"fmt"

	"github.com/brightmind-app/brightmind/internal/domain"
	"github.com/surrealdb/surrealdb.go"
)

// gameFields projects the stored catalogId field back onto the numeric id
// the frontend routes on, keeping it clear of the record id.
const gameFields = "catalogId AS id, title, description, category, difficulty, duration, image, benefits"

// SurrealGameStore encapsulates database operations for the games catalog.
type SurrealGameStore struct {
	db     *surrealdb.DB
	ns     string
	dbName string
}

var _ domain.GameRepository = (*SurrealGameStore)(nil)

// NewSurrealGameStore creates a new SurrealGameStore.
func NewSurrealGameStore(db *surrealdb.DB, ns, dbName string) *SurrealGameStore {
	return &SurrealGameStore{db: db, ns: ns, dbName: dbName}
}

// List returns the whole catalog ordered by catalog id.
func (s *SurrealGameStore) List(ctx context.Context) ([]domain.Game, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM game ORDER BY catalogId ASC", gameFields)
	games, err := Query[domain.Game](ctx, s.db, query, nil)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	return games, nil
}

// FindByCatalogID returns the catalog entry with the given numeric id.
func (s *SurrealGameStore) FindByCatalogID(ctx context.Context, catalogID int) (*domain.Game, error) {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return nil, fmt.Errorf("failed to set database scope: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM game WHERE catalogId = $catalog_id", gameFields)
	params := map[string]any{"catalog_id": catalogID}

	game, err := QueryOne[domain.Game](ctx, s.db, query, params)
	if err != nil {
		return nil, fmt.Errorf("database query failed: %w", err)
	}
	if game == nil {
		return nil, domain.ErrNotFound
	}
	return game, nil
}

// Upsert inserts or replaces a catalog entry keyed by its catalog id.
func (s *SurrealGameStore) Upsert(ctx context.Context, g domain.Game) error {
	if err := s.db.Use(ctx, s.ns, s.dbName); err != nil {
		return fmt.Errorf("failed to set database scope: %w", err)
	}

	query := `
		DELETE game WHERE catalogId = $catalog_id;
		CREATE game CONTENT {
			catalogId: $catalog_id,
			title: $title,
			description: $description,
			category: $category,
			difficulty: $difficulty,
			duration: $duration,
			image: $image,
			benefits: $benefits
		}
	`
	params := map[string]any{
		"catalog_id":  g.CatalogID,
		"title":       g.Title,
		"description": g.Description,
		"category":    g.Category,
		"difficulty":  g.Difficulty,
		"duration":    g.Duration,
		"image":       g.Image,
		"benefits":    g.Benefits,
	}

	if err := Execute(ctx, s.db, query, params); err != nil {
		return fmt.Errorf("failed to upsert game: %w", err)
	}
	return nil
}
