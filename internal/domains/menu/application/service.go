package application

import (
	"context"
	"sort"

	"github.com/cafepos/cafe-api-server/internal/domains/menu/domain"
	"github.com/cafepos/cafe-api-server/internal/domains/menu/ports"
)

// Service orchestrates catalog use cases.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// defaultMenu seeds a fresh installation so the till is usable out of the box.
var defaultMenu = []struct {
	name     string
	price    int64
	category string
	tags     []string
}{
	{"Coffee", 50000, "Hot Drinks", []string{"classic"}},
	{"Latte", 65000, "Hot Drinks", []string{"milk"}},
	{"Tea", 30000, "Hot Drinks", nil},
	{"Chocolate Cake", 70000, "Dessert", []string{"chocolate"}},
	{"Vanilla Cake", 65000, "Dessert", nil},
	{"Chicken Sandwich", 85000, "Food", nil},
	{"Pasta", 95000, "Food", nil},
	{"Mineral Water", 15000, "Cold Drinks", nil},
	{"Soda", 20000, "Cold Drinks", nil},
}

// EnsureDefaultMenu seeds the sample menu when the catalog is empty.
func (s *Service) EnsureDefaultMenu(ctx context.Context) error {
	existing, err := s.repo.ListActive(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	for _, entry := range defaultMenu {
		product, err := domain.NewProduct(0, entry.name, entry.price, entry.category, entry.tags...)
		if err != nil {
			return err
		}
		if _, err := s.repo.Save(ctx, product); err != nil {
			return err
		}
	}
	return nil
}

// AddProduct creates a new active product.
func (s *Service) AddProduct(ctx context.Context, name string, price int64, category string, tags ...string) (*domain.Product, error) {
	product, err := domain.NewProduct(0, name, price, category, tags...)
	if err != nil {
		return nil, err
	}
	return s.repo.Save(ctx, product)
}

// GetProduct fetches a product by identifier.
func (s *Service) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// UpdateProduct applies the supplied fields; nil fields are left untouched.
func (s *Service) UpdateProduct(ctx context.Context, id int64, name *string, price *int64, category *string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		if err := product.Rename(*name); err != nil {
			return nil, err
		}
	}
	if price != nil {
		if err := product.SetPrice(*price); err != nil {
			return nil, err
		}
	}
	if category != nil {
		product.Category = *category
	}
	return s.repo.Save(ctx, product)
}

// DeactivateProduct hides a product from the menu.
func (s *Service) DeactivateProduct(ctx context.Context, id int64) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	_, err = s.repo.Save(ctx, product)
	return err
}

// ActivateProduct puts a product back on the menu.
func (s *Service) ActivateProduct(ctx context.Context, id int64) error {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	product.Activate()
	_, err = s.repo.Save(ctx, product)
	return err
}

// ActiveProducts lists everything currently on the menu.
func (s *Service) ActiveProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListActive(ctx)
}

// AllProducts lists active and inactive products.
func (s *Service) AllProducts(ctx context.Context) ([]*domain.Product, error) {
	return s.repo.ListAll(ctx)
}

// ProductsByCategory lists active products in one category.
func (s *Service) ProductsByCategory(ctx context.Context, category string) ([]*domain.Product, error) {
	return s.repo.ListByCategory(ctx, category)
}

// Categories returns the sorted distinct categories of active products.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	var categories []string
	for _, p := range products {
		if p.Category == "" {
			continue
		}
		if _, ok := seen[p.Category]; !ok {
			seen[p.Category] = struct{}{}
			categories = append(categories, p.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}
