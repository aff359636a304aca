package domain

import (
	"encoding/json"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PriceScale is the number of decimal places a price carries
const PriceScale = 2

// Product is a sellable item identified by a unique SKU.
// Category is optional; when set it always refers to a stored category.
type Product struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	SKU         string          `json:"sku"`
	Category    *Category       `json:"category"`
}

// NewProduct creates a new product with a generated ID
func NewProduct(name, description string, price decimal.Decimal, sku string, category *Category) *Product {
	return &Product{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Price:       price,
		SKU:         strings.TrimSpace(sku),
		Category:    category,
	}
}

// CategoryID returns the referenced category ID or uuid.Nil
func (p *Product) CategoryID() uuid.UUID {
	if p.Category == nil {
		return uuid.Nil
	}
	return p.Category.ID
}

func (p *Product) Validate() error {
	if p.Name == "" {
		return InvalidArgumentf("product name is required")
	}
	if p.SKU == "" {
		return InvalidArgumentf("product sku is required")
	}
	if p.Price.IsNegative() {
		return InvalidArgumentf("product price cannot be negative: %s", p.Price.String())
	}
	if !p.Price.Equal(p.Price.Round(PriceScale)) {
		return InvalidArgumentf("product price cannot have more than %d decimal places: %s", PriceScale, p.Price.String())
	}
	return nil
}

// MarshalJSON renders the price as a number with exactly two decimals, e.g. 1200.00
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{
		plain: plain(p),
		Price: json.Number(p.Price.StringFixed(PriceScale)),
	})
}
