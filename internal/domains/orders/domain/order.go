package domain

import (
	"errors"
	"strings"
	"time"
)

// Status enumerates order lifecycle states. There is no transition out of
// closed; settled tickets are immutable history.
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

var (
	ErrOrderClosed        = errors.New("order is closed and cannot be modified")
	ErrOrderAlreadyClosed = errors.New("order is already closed")
	ErrEmptyOrder         = errors.New("cannot close an order with no items")
	ErrItemNotFound       = errors.New("order has no item with that name")
	ErrInvalidDiscount    = errors.New("discount must be between zero and the current subtotal")
)

// Order is the aggregate root for one café ticket: an ordered set of lines
// unique by product name, a flat discount, and a status gate. A nil table
// number means take-away.
type Order struct {
	id          int64
	tableNumber *int
	items       []Item
	discount    Money
	status      Status
	createdAt   time.Time
}

// NewOrder opens an empty order for the given table (nil for take-away).
func NewOrder(tableNumber *int) *Order {
	return &Order{
		tableNumber: tableNumber,
		status:      StatusOpen,
		createdAt:   time.Now(),
	}
}

// Restore rebuilds an order from persisted state. Intended for repository
// adapters only; it bypasses the status gate so closed orders can be loaded.
func Restore(id int64, tableNumber *int, items []Item, discount Money, status Status, createdAt time.Time) *Order {
	o := &Order{
		id:          id,
		tableNumber: tableNumber,
		items:       append([]Item(nil), items...),
		discount:    discount,
		status:      status,
		createdAt:   createdAt,
	}
	if o.status != StatusClosed {
		o.status = StatusOpen
	}
	return o
}

// ID is the persistence identifier, zero until first saved.
func (o *Order) ID() int64 { return o.id }

// SetID records the identifier assigned by storage.
func (o *Order) SetID(id int64) { o.id = id }

// TableNumber returns the table this order belongs to, nil for take-away.
func (o *Order) TableNumber() *int { return o.tableNumber }

// Status reports the current lifecycle state.
func (o *Order) Status() Status { return o.status }

// CreatedAt reports when the order was opened.
func (o *Order) CreatedAt() time.Time { return o.createdAt }

// IsOpen reports whether the order still accepts mutation.
func (o *Order) IsOpen() bool { return o.status == StatusOpen }

// AddItem appends a line, or bumps the quantity when the name already
// exists. A repeat add keeps the line's original unit price even when a
// different price is supplied; menu price changes do not retroactively
// reprice lines already on the ticket.
func (o *Order) AddItem(name string, unitPrice Money, quantity int64) error {
	if !o.IsOpen() {
		return ErrOrderClosed
	}
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	// Lines are stored with trimmed names; compare the same way so a
	// padded repeat cannot slip in as a second line.
	name = strings.TrimSpace(name)
	for i := range o.items {
		if o.items[i].Name == name {
			o.items[i].Quantity += quantity
			return nil
		}
	}
	item, err := NewItem(name, unitPrice, quantity)
	if err != nil {
		return err
	}
	o.items = append(o.items, item)
	return nil
}

// RemoveItem drops the line with the given name. Removing an absent name
// is a no-op, not an error.
func (o *Order) RemoveItem(name string) error {
	if !o.IsOpen() {
		return ErrOrderClosed
	}
	name = strings.TrimSpace(name)
	kept := o.items[:0]
	for _, item := range o.items {
		if item.Name != name {
			kept = append(kept, item)
		}
	}
	o.items = kept
	return nil
}

// ChangeQuantity updates a line's quantity. Zero or negative routes to
// removal; an unknown name fails with ErrItemNotFound.
func (o *Order) ChangeQuantity(name string, quantity int64) error {
	if !o.IsOpen() {
		return ErrOrderClosed
	}
	name = strings.TrimSpace(name)
	if quantity <= 0 {
		return o.RemoveItem(name)
	}
	for i := range o.items {
		if o.items[i].Name == name {
			return o.items[i].SetQuantity(quantity)
		}
	}
	return ErrItemNotFound
}

// ApplyDiscount replaces the order discount. The amount is validated
// against the subtotal at apply time only; removing items afterwards does
// not re-check it.
func (o *Order) ApplyDiscount(amount int64) error {
	if !o.IsOpen() {
		return ErrOrderClosed
	}
	if amount < 0 || amount > o.Subtotal().Amount() {
		return ErrInvalidDiscount
	}
	discount, err := NewMoney(amount)
	if err != nil {
		return ErrInvalidDiscount
	}
	o.discount = discount
	return nil
}

// Subtotal sums all line totals before discount.
func (o *Order) Subtotal() Money {
	total := Zero()
	for _, item := range o.items {
		total = total.Add(item.LineTotal())
	}
	return total
}

// Discount returns the currently applied discount.
func (o *Order) Discount() Money {
	return o.discount
}

// TotalPrice is subtotal minus discount, floored at zero by Money.Sub.
func (o *Order) TotalPrice() Money {
	return o.Subtotal().Sub(o.discount)
}

// Items returns a copy of the lines; mutating the returned slice cannot
// touch the aggregate.
func (o *Order) Items() []Item {
	return append([]Item(nil), o.items...)
}

// Close seals the order. It refuses empty orders and is terminal: every
// later mutating call, including a second Close, fails.
func (o *Order) Close() error {
	if !o.IsOpen() {
		return ErrOrderAlreadyClosed
	}
	if len(o.items) == 0 {
		return ErrEmptyOrder
	}
	o.status = StatusClosed
	return nil
}
