package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/brightmind-app/brightmind/internal/config"
	"github.com/brightmind-app/brightmind/internal/database"
	"github.com/brightmind-app/brightmind/internal/domain"
)

var seedFile string

// defaultCatalog is loaded when no --file is given. It matches the games the
// frontend ships detail pages for.
var defaultCatalog = []domain.Game{
	{CatalogID: 1, Title: "Memory Match", Category: "memory", Difficulty: "easy", Duration: "5 min",
		Description: "Flip cards and find the matching pairs.",
		Benefits:    []string{"short-term memory", "concentration"}},
	{CatalogID: 2, Title: "Word Garden", Category: "language", Difficulty: "medium", Duration: "10 min",
		Description: "Grow words from a handful of letters.",
		Benefits:    []string{"vocabulary", "recall"}},
	{CatalogID: 3, Title: "Number Trail", Category: "logic", Difficulty: "medium", Duration: "10 min",
		Description: "Follow the arithmetic trail to the target number.",
		Benefits:    []string{"mental arithmetic", "planning"}},
	{CatalogID: 4, Title: "Pattern Painter", Category: "attention", Difficulty: "hard", Duration: "15 min",
		Description: "Reproduce growing color patterns from memory.",
		Benefits:    []string{"working memory", "visual attention"}},
}

var seedGamesCmd = &cobra.Command{
	Use:   "seed-games",
	Short: "Load the cognitive-games catalog into the database",
	Long: `Upserts the games catalog, keyed by catalog id. Existing entries with the
same id are replaced; entries not in the seed set are left alone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := defaultCatalog
		if seedFile != "" {
			data, err := os.ReadFile(seedFile)
			if err != nil {
				return fmt.Errorf("failed to read seed file: %w", err)
			}
			catalog = nil
			if err := json.Unmarshal(data, &catalog); err != nil {
				return fmt.Errorf("failed to parse seed file: %w", err)
			}
		}

		ctx := context.Background()
		cfg := config.New()
		db, err := database.NewDB(ctx, cfg)
		if err != nil {
			return err
		}
		defer db.Close(ctx)

		store := database.NewSurrealGameStore(db, cfg.DBNs, cfg.DBDb)
		for _, game := range catalog {
			if err := store.Upsert(ctx, game); err != nil {
				return fmt.Errorf("failed to seed game %d (%s): %w", game.CatalogID, game.Title, err)
			}
			fmt.Printf("seeded game %d: %s\n", game.CatalogID, game.Title)
		}
		return nil
	},
}

func init() {
	seedGamesCmd.Flags().StringVar(&seedFile, "file", "", "JSON file with the catalog to seed (defaults to the built-in set)")
	rootCmd.AddCommand(seedGamesCmd)
}
