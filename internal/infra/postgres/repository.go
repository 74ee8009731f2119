package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"product-search-service/internal/domain"
)

// Repository implements domain.ProductRepository using PostgreSQL.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new PostgreSQL repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// upsertColumns are overwritten when a catalog item is re-imported.
var upsertColumns = []string{
	"title", "description", "price", "image_url", "category_id",
	"brand", "ram", "os", "updated_at",
}

// likeEscaper escapes LIKE wildcards so the query is matched literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// titleContains scopes a query to titles containing q, ignoring case.
func titleContains(q string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if q == "" {
			return db
		}
		return db.Where(`products.title ILIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(q)+"%")
	}
}

// inCategories scopes a query to the given category ids.
func inCategories(ids []uint64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if ids == nil {
			return db
		}
		arr := make([]int64, len(ids))
		for i, id := range ids {
			arr[i] = int64(id)
		}
		return db.Where("products.category_id = ANY(?)", pq.Array(arr))
	}
}

// applyOrdering adds ORDER BY; ties are always broken by ascending id.
func applyOrdering(db *gorm.DB, order *domain.ProductOrder) *gorm.DB {
	if order != nil {
		db = db.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "products", Name: string(order.Field)},
			Desc:   order.Descending,
		})
		if order.Field == domain.OrderByID {
			return db
		}
	}

	return db.Order("products.id ASC")
}

// FindByTitleContaining returns every live product whose title contains query.
func (r *Repository) FindByTitleContaining(ctx context.Context, query string) ([]*domain.Product, error) {
	var models []ProductModel
	err := r.db.WithContext(ctx).
		Scopes(titleContains(query)).
		Preload("Category").
		Order("products.id ASC").
		Find(&models).Error
	if err != nil {
		return nil, fmt.Errorf("finding products by title: %w", err)
	}

	return toDomainSlice(models), nil
}

// FindByTitleAndCategoryPaged runs the count and the page query with the
// same scopes.
func (r *Repository) FindByTitleAndCategoryPaged(
	ctx context.Context,
	query string,
	categoryIDs []uint64,
	order *domain.ProductOrder,
	page domain.PageRequest,
) (*domain.Page[*domain.Product], error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}
	if categoryIDs != nil && len(categoryIDs) == 0 {
		return domain.NewPage([]*domain.Product{}, 0, page), nil
	}

	scopes := []func(*gorm.DB) *gorm.DB{titleContains(query), inCategories(categoryIDs)}

	var total int64
	if err := r.db.WithContext(ctx).Model(&ProductModel{}).Scopes(scopes...).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("counting products: %w", err)
	}
	if total == 0 || page.Offset() >= total {
		return domain.NewPage([]*domain.Product{}, total, page), nil
	}

	var models []ProductModel
	q := r.db.WithContext(ctx).Scopes(scopes...).Preload("Category")
	q = applyOrdering(q, order).
		Offset(int(page.Offset())).
		Limit(page.Limit())
	if err := q.Find(&models).Error; err != nil {
		return nil, fmt.Errorf("finding products page: %w", err)
	}

	return domain.NewPage(toDomainSlice(models), total, page), nil
}

// CountByTitleContaining counts live products whose title contains query.
func (r *Repository) CountByTitleContaining(ctx context.Context, query string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ProductModel{}).Scopes(titleContains(query)).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting products by title: %w", err)
	}

	return count, nil
}

// GetByID retrieves a live product by id. Missing products return nil, nil.
func (r *Repository) GetByID(ctx context.Context, id uint64) (*domain.Product, error) {
	var model ProductModel
	err := r.db.WithContext(ctx).Preload("Category").Where("products.id = ?", id).First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, fmt.Errorf("getting product by id: %w", err)
	}

	return model.ToDomain(), nil
}

// resolveCategories maps category names to ids, creating missing categories.
func resolveCategories(tx *gorm.DB, names []string) (map[string]uint64, error) {
	ids := make(map[string]uint64, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := ids[name]; ok {
			continue
		}

		cat := CategoryModel{Name: name}
		if err := tx.Where(CategoryModel{Name: name}).FirstOrCreate(&cat).Error; err != nil {
			return nil, fmt.Errorf("resolving category %q: %w", name, err)
		}
		ids[name] = cat.ID
	}

	return ids, nil
}

// Create inserts a product, creating its category on first use.
func (r *Repository) Create(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := resolveCategories(tx, []string{p.CategoryName})
		if err != nil {
			return err
		}
		p.CategoryID = ids[strings.TrimSpace(p.CategoryName)]

		model := FromDomain(p)
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return fmt.Errorf("creating product: %w", err)
		}

		p.ID = model.ID
		p.CreatedAt = model.CreatedAt
		p.UpdatedAt = model.UpdatedAt

		return nil
	})
}

// Update saves every field of a live product.
func (r *Repository) Update(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ids, err := resolveCategories(tx, []string{p.CategoryName})
		if err != nil {
			return err
		}
		p.CategoryID = ids[strings.TrimSpace(p.CategoryName)]
		p.UpdatedAt = time.Now().UTC()

		model := FromDomain(p)
		result := tx.Model(&ProductModel{ID: p.ID}).
			Select("*").
			Omit("id", "created_at", "deleted_at", clause.Associations).
			Updates(model)
		if result.Error != nil {
			return fmt.Errorf("updating product: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return domain.NotFoundf("product %d", p.ID)
		}

		return nil
	})
}

// SoftDelete sets deleted_at on a live product.
func (r *Repository) SoftDelete(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).Delete(&ProductModel{}, id)
	if result.Error != nil {
		return fmt.Errorf("deleting product: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.NotFoundf("product %d", id)
	}

	return nil
}

// BulkUpsert creates or updates products keyed by (source, external_id).
func (r *Repository) BulkUpsert(ctx context.Context, products []*domain.Product) error {
	if len(products) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		names := make([]string, len(products))
		for i, p := range products {
			names[i] = p.CategoryName
		}
		ids, err := resolveCategories(tx, names)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		models := make([]*ProductModel, len(products))
		for i, p := range products {
			p.CategoryID = ids[strings.TrimSpace(p.CategoryName)]
			models[i] = FromDomain(p)
			models[i].ID = 0
			models[i].UpdatedAt = now
		}

		err = tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "source"}, {Name: "external_id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
		}).CreateInBatches(models, 100).Error
		if err != nil {
			return fmt.Errorf("bulk upserting products: %w", err)
		}

		for i, m := range models {
			products[i].ID = m.ID
			products[i].CreatedAt = m.CreatedAt
			products[i].UpdatedAt = m.UpdatedAt
		}

		return nil
	})
}

// CountByCategory returns live product counts keyed by category name.
// Products without a category are counted under "".
func (r *Repository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	var rows []struct {
		Name  string
		Count int64
	}

	err := r.db.WithContext(ctx).
		Model(&ProductModel{}).
		Select("COALESCE(categories.name, '') AS name, COUNT(*) AS count").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Group("categories.name").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("counting products by category: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Name] += row.Count
	}

	return counts, nil
}
