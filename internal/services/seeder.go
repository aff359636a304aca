package services

import (
	"context"
	"fmt"
	"time"

	"stock-service/internal/domain"
	"stock-service/internal/repository"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type seedCategory struct {
	name        string
	description string
}

type seedProduct struct {
	name          string
	description   string
	price         string
	sku           string
	category      string
	quantity      int
	minStockLevel int
}

var seedCategories = []seedCategory{
	{"Electronics", "Electronic devices and accessories"},
	{"Clothing", "Apparel and fashion items"},
	{"Furniture", "Home and office furniture"},
}

var seedProducts = []seedProduct{
	{"Laptop", "High-performance laptop", "1200.00", "ELEC-001", "Electronics", 10, 5},
	{"Smartphone", "Latest smartphone model", "800.00", "ELEC-002", "Electronics", 15, 5},
	{"T-Shirt", "Cotton t-shirt", "25.00", "CLTH-001", "Clothing", 50, 10},
	{"Jeans", "Denim jeans", "45.00", "CLTH-002", "Clothing", 30, 10},
	{"Desk", "Office desk", "150.00", "FURN-001", "Furniture", 5, 2},
	{"Chair", "Office chair", "120.00", "FURN-002", "Furniture", 8, 3},
}

// SeededSKUs lists the SKUs of the sample products in seed order
func SeededSKUs() []string {
	skus := make([]string, len(seedProducts))
	for i, p := range seedProducts {
		skus[i] = p.sku
	}
	return skus
}

// SeededCategoryNames lists the names of the sample categories in seed order
func SeededCategoryNames() []string {
	names := make([]string, len(seedCategories))
	for i, c := range seedCategories {
		names[i] = c.name
	}
	return names
}

// Seeder loads the sample catalog into an empty store
type Seeder struct {
	store  repository.Store
	logger *zap.Logger
	now    func() time.Time
}

func NewSeeder(store repository.Store, logger *zap.Logger) *Seeder {
	return &Seeder{
		store:  store,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Seed inserts the sample data unless any category exists. It reports whether data was inserted.
func (s *Seeder) Seed(ctx context.Context) (bool, error) {
	seeded := false
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		n, err := repos.Categories.Count(ctx)
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}

		categories := make(map[string]*domain.Category, len(seedCategories))
		for _, sc := range seedCategories {
			category := domain.NewCategory(sc.name, sc.description)
			if err := repos.Categories.Create(ctx, category); err != nil {
				return fmt.Errorf("seed category %s: %w", sc.name, err)
			}
			categories[sc.name] = category
		}

		now := s.now()
		for _, sp := range seedProducts {
			product := domain.NewProduct(sp.name, sp.description, decimal.RequireFromString(sp.price), sp.sku, categories[sp.category])
			if err := repos.Products.Create(ctx, product); err != nil {
				return fmt.Errorf("seed product %s: %w", sp.sku, err)
			}
			inventory := domain.NewInventory(product, sp.quantity, sp.minStockLevel, now)
			if err := repos.Inventory.Create(ctx, inventory); err != nil {
				return fmt.Errorf("seed inventory %s: %w", sp.sku, err)
			}
		}

		seeded = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if seeded {
		s.logger.Info("Sample data seeded",
			zap.Int("categories", len(seedCategories)),
			zap.Int("products", len(seedProducts)),
		)
	} else {
		s.logger.Info("Store already contains data, skipping seed")
	}
	return seeded, nil
}
