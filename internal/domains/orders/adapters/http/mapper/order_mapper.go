package mapper

import (
	"time"

	ordersdomain "github.com/cafepos/cafe-api-server/internal/domains/orders/domain"
)

// Order is the transport-layer shape of an order aggregate.
type Order struct {
	ID          int64     `json:"id"`
	TableNumber *int      `json:"tableNumber,omitempty"`
	Status      string    `json:"status"`
	Items       []Item    `json:"items"`
	Subtotal    int64     `json:"subtotal"`
	Discount    int64     `json:"discount"`
	Total       int64     `json:"total"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Item is one order line on the wire.
type Item struct {
	Name      string `json:"name"`
	UnitPrice int64  `json:"unitPrice"`
	Quantity  int64  `json:"quantity"`
	LineTotal int64  `json:"lineTotal"`
}

// FromDomainOrder converts a domain order to the transport representation.
func FromDomainOrder(order *ordersdomain.Order) Order {
	if order == nil {
		return Order{}
	}
	items := order.Items()
	view := Order{
		ID:          order.ID(),
		TableNumber: order.TableNumber(),
		Status:      string(order.Status()),
		Items:       make([]Item, 0, len(items)),
		Subtotal:    order.Subtotal().Amount(),
		Discount:    order.Discount().Amount(),
		Total:       order.TotalPrice().Amount(),
		CreatedAt:   order.CreatedAt(),
	}
	for _, item := range items {
		view.Items = append(view.Items, Item{
			Name:      item.Name,
			UnitPrice: item.UnitPrice.Amount(),
			Quantity:  item.Quantity,
			LineTotal: item.LineTotal().Amount(),
		})
	}
	return view
}
