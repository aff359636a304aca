package commands

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateCategoryCommand represents a command to create a category
type CreateCategoryCommand struct {
	Name        string
	Description string
}

// UpdateCategoryCommand represents a command to overwrite a category
type UpdateCategoryCommand struct {
	ID          uuid.UUID
	Name        string
	Description string
}

// CreateProductCommand represents a command to create a product.
// A nil CategoryID leaves the product uncategorized.
type CreateProductCommand struct {
	Name        string
	Description string
	Price       decimal.Decimal
	SKU         string
	CategoryID  *uuid.UUID
}

// UpdateProductCommand represents a command to overwrite a product.
// A nil CategoryID keeps the current category.
type UpdateProductCommand struct {
	ID          uuid.UUID
	Name        string
	Description string
	Price       decimal.Decimal
	SKU         string
	CategoryID  *uuid.UUID
}

// CreateInventoryCommand represents a command to create the inventory record of a product
type CreateInventoryCommand struct {
	ProductID     *uuid.UUID
	Quantity      int
	MinStockLevel int
}

// UpdateInventoryCommand represents a command to overwrite quantity and minimum stock level
type UpdateInventoryCommand struct {
	ID            uuid.UUID
	Quantity      int
	MinStockLevel int
}

// StockCommand represents a set/add/remove stock command addressed by product
type StockCommand struct {
	ProductID uuid.UUID
	Quantity  int
}
