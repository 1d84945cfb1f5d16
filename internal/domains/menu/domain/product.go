package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyName    = errors.New("product name is required")
	ErrInvalidPrice = errors.New("product price must be greater than zero")
)

// Product is a menu entry. Price is in the smallest currency unit; an
// inactive product stays on file for reporting but is hidden from the menu.
type Product struct {
	ID       int64
	Name     string
	Price    int64
	Category string
	Tags     []string
	Active   bool
}

// NewProduct validates and constructs an active product.
func NewProduct(id int64, name string, price int64, category string, tags ...string) (*Product, error) {
	p := &Product{ID: id, Active: true, Tags: tags}
	if err := p.Rename(name); err != nil {
		return nil, err
	}
	if err := p.SetPrice(price); err != nil {
		return nil, err
	}
	p.Category = strings.TrimSpace(category)
	return p, nil
}

// Rename trims and validates the product name.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}
	p.Name = name
	return nil
}

// SetPrice rejects non-positive prices.
func (p *Product) SetPrice(price int64) error {
	if price <= 0 {
		return ErrInvalidPrice
	}
	p.Price = price
	return nil
}

// Deactivate hides the product from the menu without deleting it.
func (p *Product) Deactivate() { p.Active = false }

// Activate puts the product back on the menu.
func (p *Product) Activate() { p.Active = true }

// Validate re-applies invariants for persistence.
func (p *Product) Validate() error {
	if err := p.Rename(p.Name); err != nil {
		return err
	}
	return p.SetPrice(p.Price)
}
