package handlers

import (
	"context"

	"stock-service/internal/commands"
	"stock-service/internal/domain"
	"stock-service/internal/services"
	"stock-service/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CategoryService is the category use-case surface the handlers depend on
type CategoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Category, error)
	Create(ctx context.Context, cmd commands.CreateCategoryCommand) (*domain.Category, error)
	Update(ctx context.Context, cmd commands.UpdateCategoryCommand) (*domain.Category, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type ProductService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error)
	Create(ctx context.Context, cmd commands.CreateProductCommand) (*domain.Product, error)
	Update(ctx context.Context, cmd commands.UpdateProductCommand) (*domain.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type InventoryService interface {
	List(ctx context.Context) ([]domain.Inventory, error)
	ListLowStock(ctx context.Context) ([]domain.Inventory, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Inventory, error)
	GetByProduct(ctx context.Context, productID uuid.UUID) (*domain.Inventory, error)
	Create(ctx context.Context, cmd commands.CreateInventoryCommand) (*domain.Inventory, error)
	Update(ctx context.Context, cmd commands.UpdateInventoryCommand) (*domain.Inventory, error)
	SetStock(ctx context.Context, cmd commands.StockCommand) (*domain.Inventory, error)
	AddStock(ctx context.Context, cmd commands.StockCommand) (*domain.Inventory, error)
	RemoveStock(ctx context.Context, cmd commands.StockCommand) (*domain.Inventory, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type CleanupService interface {
	CleanupAll(ctx context.Context) (*services.CleanupResult, error)
	CleanupSeeded(ctx context.Context) (*services.CleanupResult, error)
}

// parseID reads a UUID path parameter; on failure it records an InvalidRequest error
func parseID(c *gin.Context, param, resource string) (uuid.UUID, bool) {
	raw := c.Param(param)
	id, err := uuid.Parse(raw)
	if err != nil {
		c.Error(errors.NewInvalidID(resource, raw))
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON binds the request body; on failure it records an InvalidRequest error
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.Error(errors.NewInvalidRequest("invalid request body", err.Error()))
		return false
	}
	return true
}
