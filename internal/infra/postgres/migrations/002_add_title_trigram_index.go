package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// addTitleTrigramIndex backs "title ILIKE '%q%'" with a GIN trigram index.
// Without pg_trgm the index is skipped and title matching falls back to a
// sequential scan.
func addTitleTrigramIndex() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "002_add_title_trigram_index",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`CREATE EXTENSION IF NOT EXISTS pg_trgm`).Error; err != nil {
				// Managed databases may not allow extensions.
				return nil
			}

			return tx.Exec(`
				CREATE INDEX IF NOT EXISTS idx_products_title_trgm
				ON products USING GIN (title gin_trgm_ops)
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`DROP INDEX IF EXISTS idx_products_title_trgm`).Error
		},
	}
}
