package types

import (
	"time"

	"github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
)

// OrderSnapshot is the serializable shape of an order aggregate, used on
// workflow and transport boundaries. Prices are plain integers in the
// smallest currency unit.
type OrderSnapshot struct {
	ID          int64
	TableNumber *int
	Status      string
	Discount    int64
	CreatedAt   time.Time
	Items       []ItemSnapshot
}

// ItemSnapshot is one order line in wire form.
type ItemSnapshot struct {
	Name      string
	UnitPrice int64
	Quantity  int64
}

// Snapshot captures an order's state.
func Snapshot(order *domain.Order) OrderSnapshot {
	if order == nil {
		return OrderSnapshot{}
	}
	items := order.Items()
	snap := OrderSnapshot{
		ID:          order.ID(),
		TableNumber: order.TableNumber(),
		Status:      string(order.Status()),
		Discount:    order.Discount().Amount(),
		CreatedAt:   order.CreatedAt(),
		Items:       make([]ItemSnapshot, 0, len(items)),
	}
	for _, item := range items {
		snap.Items = append(snap.Items, ItemSnapshot{
			Name:      item.Name,
			UnitPrice: item.UnitPrice.Amount(),
			Quantity:  item.Quantity,
		})
	}
	return snap
}

// Restore rebuilds the aggregate from a snapshot.
func (s OrderSnapshot) Restore() (*domain.Order, error) {
	items := make([]domain.Item, 0, len(s.Items))
	for _, line := range s.Items {
		price, err := domain.NewMoney(line.UnitPrice)
		if err != nil {
			return nil, err
		}
		item, err := domain.NewItem(line.Name, price, line.Quantity)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	discount, err := domain.NewMoney(s.Discount)
	if err != nil {
		return nil, err
	}
	return domain.Restore(s.ID, s.TableNumber, items, discount, domain.Status(s.Status), s.CreatedAt), nil
}
