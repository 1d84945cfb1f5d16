package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyItemName   = errors.New("item name is required")
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
)

// Item is a single order line: one product name at a fixed unit price.
// Items only live inside an Order's collection and are unique by name there.
type Item struct {
	Name      string
	UnitPrice Money
	Quantity  int64
}

// NewItem validates and constructs an order line.
func NewItem(name string, unitPrice Money, quantity int64) (Item, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Item{}, ErrEmptyItemName
	}
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	return Item{Name: name, UnitPrice: unitPrice, Quantity: quantity}, nil
}

// SetQuantity replaces the quantity. Dropping a line to zero is the Order's
// job (remove), not a quantity update.
func (i *Item) SetQuantity(quantity int64) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	i.Quantity = quantity
	return nil
}

// LineTotal is unit price times quantity.
func (i Item) LineTotal() Money {
	return i.UnitPrice.Mul(i.Quantity)
}
