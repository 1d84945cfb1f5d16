package mapper

import "github.com/cafepos/cafe-api-server/internal/domains/menu/domain"

// Product is the JSON shape of a catalog entry.
type Product struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Price    int64    `json:"price"`
	Category string   `json:"category,omitempty"`
	Tags     []string `json:"tags,omitempty"`
	Active   bool     `json:"active"`
}

func FromDomainProduct(p *domain.Product) Product {
	return Product{
		ID:       p.ID,
		Name:     p.Name,
		Price:    p.Price,
		Category: p.Category,
		Tags:     p.Tags,
		Active:   p.Active,
	}
}

func FromDomainProducts(products []*domain.Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		out = append(out, FromDomainProduct(p))
	}
	return out
}
