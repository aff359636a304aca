package domain

import (
	"time"

	"github.com/google/uuid"
)

// Inventory tracks the stock of exactly one product.
type Inventory struct {
	ID            uuid.UUID `json:"id"`
	Product       *Product  `json:"product"`
	Quantity      int       `json:"quantity"`
	MinStockLevel int       `json:"minStockLevel"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

// NewInventory creates a new inventory record for product
func NewInventory(product *Product, quantity, minStockLevel int, now time.Time) *Inventory {
	return &Inventory{
		ID:            uuid.New(),
		Product:       product,
		Quantity:      quantity,
		MinStockLevel: minStockLevel,
		LastUpdated:   now,
	}
}

// ProductID returns the referenced product ID or uuid.Nil
func (i *Inventory) ProductID() uuid.UUID {
	if i.Product == nil {
		return uuid.Nil
	}
	return i.Product.ID
}

// IsLowStock reports whether quantity has dropped to the minimum stock level
func (i *Inventory) IsLowStock() bool {
	return i.Quantity <= i.MinStockLevel
}

func (i *Inventory) Validate() error {
	if i.Quantity < 0 {
		return InvalidArgumentf("quantity cannot be negative: %d", i.Quantity)
	}
	if i.MinStockLevel < 0 {
		return InvalidArgumentf("minimum stock level cannot be negative: %d", i.MinStockLevel)
	}
	return nil
}

// SetStock overwrites the quantity
func (i *Inventory) SetStock(quantity int, now time.Time) error {
	if quantity < 0 {
		return InvalidArgumentf("quantity cannot be negative: %d", quantity)
	}
	i.Quantity = quantity
	i.LastUpdated = now
	return nil
}

// AddStock increases the quantity by a positive amount
func (i *Inventory) AddStock(quantity int, now time.Time) error {
	if quantity <= 0 {
		return InvalidArgumentf("quantity to add must be positive: %d", quantity)
	}
	i.Quantity += quantity
	i.LastUpdated = now
	return nil
}

// RemoveStock decreases the quantity by a positive amount, never below zero
func (i *Inventory) RemoveStock(quantity int, now time.Time) error {
	if quantity <= 0 {
		return InvalidArgumentf("quantity to remove must be positive: %d", quantity)
	}
	if i.Quantity < quantity {
		return Conflictf("not enough stock available for product %s: available %d, requested %d",
			i.ProductID(), i.Quantity, quantity)
	}
	i.Quantity -= quantity
	i.LastUpdated = now
	return nil
}
