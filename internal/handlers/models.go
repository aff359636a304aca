package handlers

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrorResponse represents an error response
// @Description Error response rendered for every failed request
type ErrorResponse struct {
	Error   string `json:"error" example:"NotFound"`
	Message string `json:"message" example:"product not found with id: 550e8400-e29b-41d4-a716-446655440000"`
	Details string `json:"details" example:""`
}

// MessageResponse represents a success response with a message
type MessageResponse struct {
	Message string `json:"message" example:"All data cleaned up successfully"`
}

// CleanupResponse reports what a bulk cleanup removed
type CleanupResponse struct {
	Message    string `json:"message" example:"Seeded data cleaned up successfully"`
	Inventory  int64  `json:"inventory" example:"6"`
	Products   int64  `json:"products" example:"6"`
	Categories int64  `json:"categories" example:"3"`
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Service  string `json:"service" example:"stock-service"`
	Database string `json:"database" example:"up"`
}

// EntityRef references an existing entity by id, e.g. {"id": "..."}
type EntityRef struct {
	ID *uuid.UUID `json:"id" swaggertype:"string" example:"550e8400-e29b-41d4-a716-446655440000"`
}

// CategoryRequest is the body of category create and update
type CategoryRequest struct {
	Name        string `json:"name" binding:"required" example:"Electronics"`
	Description string `json:"description" example:"Electronic devices and accessories"`
}

// ProductRequest is the body of product create and update
type ProductRequest struct {
	Name        string           `json:"name" binding:"required" example:"Laptop"`
	Description string           `json:"description" example:"High-performance laptop"`
	Price       *decimal.Decimal `json:"price" binding:"required" swaggertype:"number" example:"1200.00"`
	SKU         string           `json:"sku" binding:"required" example:"ELEC-001"`
	Category    *EntityRef       `json:"category"`
}

// CategoryID returns the referenced category id, or nil when none was given
func (r ProductRequest) CategoryID() *uuid.UUID {
	if r.Category == nil {
		return nil
	}
	return r.Category.ID
}

// InventoryRequest is the body of inventory create and update.
// Product is only read on create.
type InventoryRequest struct {
	Product       *EntityRef `json:"product"`
	Quantity      int        `json:"quantity" example:"10"`
	MinStockLevel int        `json:"minStockLevel" example:"5"`
}

// ProductID returns the referenced product id, or nil when none was given
func (r InventoryRequest) ProductID() *uuid.UUID {
	if r.Product == nil {
		return nil
	}
	return r.Product.ID
}

// StockRequest is the body of set/add/remove stock
type StockRequest struct {
	Quantity *int `json:"quantity" binding:"required" example:"5"`
}
