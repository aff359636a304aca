package domain

import (
	"strings"

	"github.com/google/uuid"
)

// Category groups products. Name is unique across the store.
type Category struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
}

// NewCategory creates a new category with a generated ID
func NewCategory(name, description string) *Category {
	return &Category{
		ID:          uuid.New(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
	}
}

func (c *Category) Validate() error {
	if c.Name == "" {
		return InvalidArgumentf("category name is required")
	}
	return nil
}
