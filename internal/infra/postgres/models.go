package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"product-search-service/internal/domain"
)

// CategoryModel is the GORM model for the categories table.
type CategoryModel struct {
	ID          uint64 `gorm:"primaryKey"`
	Name        string `gorm:"type:varchar(255);not null;uniqueIndex"`
	Description string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for CategoryModel.
func (CategoryModel) TableName() string {
	return "categories"
}

// ProductModel is the GORM model for the products table.
type ProductModel struct {
	ID         uint64 `gorm:"primaryKey"`
	Source     string `gorm:"type:varchar(50);not null;uniqueIndex:uq_products_source_external"`
	ExternalID string `gorm:"type:varchar(100);not null;uniqueIndex:uq_products_source_external"`

	Title       string          `gorm:"type:varchar(500);not null"`
	Description string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	ImageURL    string          `gorm:"type:varchar(1000)"`

	CategoryID *uint64        `gorm:"index"`
	Category   *CategoryModel `gorm:"foreignKey:CategoryID"`

	Brand string `gorm:"type:varchar(100);index"`
	RAM   string `gorm:"type:varchar(50)"`
	OS    string `gorm:"type:varchar(50)"`

	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// TableName returns the table name for ProductModel.
func (ProductModel) TableName() string {
	return "products"
}

// ToDomain converts ProductModel to domain.Product.
func (m *ProductModel) ToDomain() *domain.Product {
	p := &domain.Product{
		ID:          m.ID,
		Source:      m.Source,
		ExternalID:  m.ExternalID,
		Title:       m.Title,
		Description: m.Description,
		Price:       m.Price,
		ImageURL:    m.ImageURL,
		Brand:       m.Brand,
		RAM:         m.RAM,
		OS:          m.OS,
		Deleted:     m.DeletedAt.Valid,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	if m.CategoryID != nil {
		p.CategoryID = *m.CategoryID
	}
	if m.Category != nil {
		p.CategoryName = m.Category.Name
	}

	return p
}

// FromDomain creates a ProductModel from domain.Product. The category is
// referenced by id only.
func FromDomain(p *domain.Product) *ProductModel {
	m := &ProductModel{
		ID:          p.ID,
		Source:      p.Source,
		ExternalID:  p.ExternalID,
		Title:       p.Title,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    p.ImageURL,
		Brand:       p.Brand,
		RAM:         p.RAM,
		OS:          p.OS,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if p.CategoryID != 0 {
		id := p.CategoryID
		m.CategoryID = &id
	}

	return m
}

func toDomainSlice(models []ProductModel) []*domain.Product {
	products := make([]*domain.Product, len(models))
	for i := range models {
		products[i] = models[i].ToDomain()
	}

	return products
}
