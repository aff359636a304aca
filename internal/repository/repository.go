package repository

import (
	"context"
	"errors"

	"stock-service/internal/domain"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("record not found")
	ErrDuplicate  = errors.New("unique constraint violation")
	ErrConstraint = errors.New("constraint violation")
	// ErrReference is a foreign key violation: a missing parent or a parent still in use
	ErrReference = errors.New("foreign key violation")
)

// CategoryRepository defines the persistence operations used for categories
type CategoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	FindByName(ctx context.Context, name string) (*domain.Category, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

// ProductRepository defines the persistence operations used for products.
// Products are always loaded with their category.
type ProductRepository interface {
	FindAll(ctx context.Context) ([]domain.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	FindBySKU(ctx context.Context, sku string) (*domain.Product, error)
	FindByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error)
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int, error)
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAll(ctx context.Context) (int64, error)
}

// InventoryRepository defines the persistence operations used for inventory records.
// Records are always loaded with their product.
type InventoryRepository interface {
	FindAll(ctx context.Context) ([]domain.Inventory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Inventory, error)
	FindByProduct(ctx context.Context, productID uuid.UUID) (*domain.Inventory, error)
	FindLowStock(ctx context.Context) ([]domain.Inventory, error)
	Create(ctx context.Context, inventory *domain.Inventory) error
	Update(ctx context.Context, inventory *domain.Inventory) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}

// Repositories groups the per-entity repositories bound to one connection or transaction
type Repositories struct {
	Categories CategoryRepository
	Products   ProductRepository
	Inventory  InventoryRepository
}

// Store is the data store collaborator. WithinTx runs fn in a single transaction:
// it commits when fn returns nil and rolls back otherwise.
type Store interface {
	Repositories() Repositories
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
	Ping(ctx context.Context) error
	Close() error
}
