package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/cafepos/cafe-api-server/internal/domains/menu/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/menu/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists the product catalog in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// productRecord maps a product to its relational shape. Tags are stored as a
// native text[] column.
type productRecord struct {
	ID        int64          `gorm:"primaryKey;column:id"`
	Name      string         `gorm:"column:name;uniqueIndex"`
	Price     int64          `gorm:"column:price"`
	Category  string         `gorm:"column:category;index"`
	Tags      pq.StringArray `gorm:"column:tags;type:text[]"`
	Active    bool           `gorm:"column:active;index"`
	CreatedAt time.Time      `gorm:"column:created_at"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Save inserts or updates a product and returns the stored state.
func (r *Repository) Save(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	record := toRecord(product)
	if record.ID == 0 {
		if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
			return nil, err
		}
		return toDomain(record), nil
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
		"name":       record.Name,
		"price":      record.Price,
		"category":   record.Category,
		"tags":       record.Tags,
		"active":     record.Active,
		"updated_at": time.Now(),
	})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ports.ErrNotFound
	}
	return toDomain(record), nil
}

// GetByID fetches a product by identifier.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record productRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return toDomain(record), nil
}

// ListActive returns the products currently on the menu.
func (r *Repository) ListActive(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, "active = ?", true)
}

// ListAll returns active and inactive products.
func (r *Repository) ListAll(ctx context.Context) ([]*domain.Product, error) {
	return r.list(ctx, "1 = 1")
}

// ListByCategory returns active products in one category.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return r.list(ctx, "active = ? AND category = ?", true, category)
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]*domain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Where(query, args...).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]*domain.Product, 0, len(records))
	for _, record := range records {
		products = append(products, toDomain(record))
	}
	return products, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres product repository not configured")
	}
	return nil
}

func toRecord(product *domain.Product) productRecord {
	return productRecord{
		ID:       product.ID,
		Name:     product.Name,
		Price:    product.Price,
		Category: product.Category,
		Tags:     pq.StringArray(product.Tags),
		Active:   product.Active,
	}
}

func toDomain(record productRecord) *domain.Product {
	return &domain.Product{
		ID:       record.ID,
		Name:     record.Name,
		Price:    record.Price,
		Category: record.Category,
		Tags:     []string(record.Tags),
		Active:   record.Active,
	}
}
