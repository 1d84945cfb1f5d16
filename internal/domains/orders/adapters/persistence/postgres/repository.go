package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists order aggregates in PostgreSQL using GORM. Prices and
// discounts are stored as plain integers in the smallest currency unit;
// Money conversion happens at this boundary.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// orderRecord maps the order aggregate root to a relational table.
type orderRecord struct {
	ID          int64     `gorm:"primaryKey;column:id"`
	TableNumber *int      `gorm:"column:table_number;index:idx_orders_table_status"`
	Status      string    `gorm:"column:status;type:varchar(16);index:idx_orders_table_status"`
	Discount    int64     `gorm:"column:discount"`
	CreatedAt   time.Time `gorm:"column:created_at;index"`
	UpdatedAt   time.Time `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

// orderItemRecord maps one order line.
type orderItemRecord struct {
	ID          int64  `gorm:"primaryKey;column:id"`
	OrderID     int64  `gorm:"column:order_id;index"`
	ProductName string `gorm:"column:product_name"`
	UnitPrice   int64  `gorm:"column:unit_price"`
	Quantity    int64  `gorm:"column:quantity"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Save inserts a new order together with its lines and assigns its identifier.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		return insertItems(tx, record.ID, order.Items())
	})
	if err != nil {
		return nil, err
	}
	order.SetID(record.ID)
	return order, nil
}

// Update rewrites an order row and replaces its lines.
func (r *Repository) Update(ctx context.Context, order *domain.Order) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	if order == nil {
		return errors.New("order is nil")
	}
	record := toRecord(order)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&orderRecord{}).Where("id = ?", record.ID).Updates(map[string]any{
			"table_number": record.TableNumber,
			"status":       record.Status,
			"discount":     record.Discount,
			"updated_at":   time.Now(),
		})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		if err := tx.Where("order_id = ?", record.ID).Delete(&orderItemRecord{}).Error; err != nil {
			return err
		}
		return insertItems(tx, record.ID, order.Items())
	})
}

// GetByID fetches an order with its lines.
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return r.loadAggregate(ctx, record)
}

// FindOpenByTable returns the open order for a table, ErrNotFound when none.
func (r *Repository) FindOpenByTable(ctx context.Context, tableNumber int) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		Where("table_number = ? AND status = ?", tableNumber, string(domain.StatusOpen)).
		Order("created_at").
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return r.loadAggregate(ctx, record)
}

// List returns all persisted orders with their lines.
func (r *Repository) List(ctx context.Context) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for _, record := range records {
		order, err := r.loadAggregate(ctx, record)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func (r *Repository) loadAggregate(ctx context.Context, record orderRecord) (*domain.Order, error) {
	var itemRecords []orderItemRecord
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", record.ID).
		Order("id").
		Find(&itemRecords).Error; err != nil {
		return nil, err
	}
	items := make([]domain.Item, 0, len(itemRecords))
	for _, ir := range itemRecords {
		price, err := domain.NewMoney(ir.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := domain.NewItem(ir.ProductName, price, ir.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	discount, err := domain.NewMoney(record.Discount)
	if err != nil {
		return nil, err
	}
	return domain.Restore(record.ID, record.TableNumber, items, discount, domain.Status(record.Status), record.CreatedAt), nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func insertItems(tx *gorm.DB, orderID int64, items []domain.Item) error {
	for _, item := range items {
		record := orderItemRecord{
			OrderID:     orderID,
			ProductName: item.Name,
			UnitPrice:   item.UnitPrice.Amount(),
			Quantity:    item.Quantity,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}

func toRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:          order.ID(),
		TableNumber: order.TableNumber(),
		Status:      string(order.Status()),
		Discount:    order.Discount().Amount(),
		CreatedAt:   order.CreatedAt(),
	}
}
