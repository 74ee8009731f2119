package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// createCatalogTables creates the categories and products tables.
func createCatalogTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "001_create_catalog",
		Migrate: func(tx *gorm.DB) error {
			err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS categories (
					id BIGSERIAL PRIMARY KEY,
					name VARCHAR(255) NOT NULL,
					description TEXT,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

					CONSTRAINT uq_categories_name UNIQUE (name)
				);
			`).Error
			if err != nil {
				return err
			}

			err = tx.Exec(`
				CREATE TABLE IF NOT EXISTS products (
					id BIGSERIAL PRIMARY KEY,
					source VARCHAR(50) NOT NULL,
					external_id VARCHAR(100) NOT NULL,
					title VARCHAR(500) NOT NULL,
					description TEXT,
					price NUMERIC(12,2) NOT NULL DEFAULT 0,
					image_url VARCHAR(1000),
					category_id BIGINT REFERENCES categories(id) ON DELETE SET NULL,

					-- Filterable attributes
					brand VARCHAR(100),
					ram VARCHAR(50),
					os VARCHAR(50),

					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					deleted_at TIMESTAMP,

					CONSTRAINT uq_products_source_external UNIQUE (source, external_id),
					CONSTRAINT chk_products_price_nonnegative CHECK (price >= 0)
				);
			`).Error
			if err != nil {
				return err
			}

			indexes := []string{
				"CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);",
				"CREATE INDEX IF NOT EXISTS idx_products_price ON products(price);",
				"CREATE INDEX IF NOT EXISTS idx_products_brand ON products(brand);",
				"CREATE INDEX IF NOT EXISTS idx_products_deleted_at ON products(deleted_at);",
			}

			for _, idx := range indexes {
				if err := tx.Exec(idx).Error; err != nil {
					return err
				}
			}

			return nil
		},
		Rollback: func(tx *gorm.DB) error {
			if err := tx.Exec("DROP TABLE IF EXISTS products;").Error; err != nil {
				return err
			}
			return tx.Exec("DROP TABLE IF EXISTS categories;").Error
		},
	}
}
