package services

import (
	"context"
	"errors"
	"time"

	"stock-service/internal/commands"
	"stock-service/internal/domain"
	"stock-service/internal/events"
	"stock-service/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// InventoryService manages the stock record of each product. Every mutation
// is a read-modify-write inside one store transaction.
type InventoryService struct {
	store     repository.Store
	products  *ProductService
	publisher events.EventPublisher
	logger    *zap.Logger
	now       func() time.Time
}

func NewInventoryService(store repository.Store, products *ProductService, publisher events.EventPublisher, logger *zap.Logger) *InventoryService {
	return &InventoryService{
		store:     store,
		products:  products,
		publisher: publisher,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// WithClock replaces the clock used to stamp lastUpdated
func (s *InventoryService) WithClock(now func() time.Time) *InventoryService {
	s.now = now
	return s
}

func (s *InventoryService) List(ctx context.Context) ([]domain.Inventory, error) {
	return s.store.Repositories().Inventory.FindAll(ctx)
}

func (s *InventoryService) ListLowStock(ctx context.Context) ([]domain.Inventory, error) {
	return s.store.Repositories().Inventory.FindLowStock(ctx)
}

func (s *InventoryService) Get(ctx context.Context, id uuid.UUID) (*domain.Inventory, error) {
	return s.find(ctx, s.store.Repositories(), id)
}

func (s *InventoryService) find(ctx context.Context, repos repository.Repositories, id uuid.UUID) (*domain.Inventory, error) {
	inventory, err := repos.Inventory.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("inventory not found with id: %s", id)
		}
		return nil, err
	}
	return inventory, nil
}

// GetByProduct fails NotFound when the product or its inventory record does not exist
func (s *InventoryService) GetByProduct(ctx context.Context, productID uuid.UUID) (*domain.Inventory, error) {
	return s.findByProduct(ctx, s.store.Repositories(), productID)
}

func (s *InventoryService) findByProduct(ctx context.Context, repos repository.Repositories, productID uuid.UUID) (*domain.Inventory, error) {
	if _, err := s.products.find(ctx, repos, productID); err != nil {
		return nil, err
	}
	inventory, err := repos.Inventory.FindByProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("inventory not found for product id: %s", productID)
		}
		return nil, err
	}
	return inventory, nil
}

// Create adds the inventory record of a product. A product may have at most one.
func (s *InventoryService) Create(ctx context.Context, cmd commands.CreateInventoryCommand) (*domain.Inventory, error) {
	if cmd.ProductID == nil {
		return nil, domain.InvalidArgumentf("product is required")
	}

	var inventory *domain.Inventory
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		product, err := s.products.find(ctx, repos, *cmd.ProductID)
		if err != nil {
			return err
		}

		_, err = repos.Inventory.FindByProduct(ctx, product.ID)
		if err == nil {
			return domain.Conflictf("inventory already exists for product: %s", product.Name)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		inventory = domain.NewInventory(product, cmd.Quantity, cmd.MinStockLevel, s.now())
		if err := inventory.Validate(); err != nil {
			return err
		}

		return translateStoreError(repos.Inventory.Create(ctx, inventory),
			"inventory already exists for product: "+product.Name)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Inventory created",
		zap.String("inventory_id", inventory.ID.String()),
		zap.String("product_id", inventory.ProductID().String()),
	)
	evts := []events.Event{events.InventoryCreatedEvent{
		InventoryID:   inventory.ID,
		ProductID:     inventory.ProductID(),
		Quantity:      inventory.Quantity,
		MinStockLevel: inventory.MinStockLevel,
		OccurredAt:    inventory.LastUpdated,
	}}
	if inventory.IsLowStock() {
		evts = append(evts, lowStockEvent(inventory))
	}
	publishAll(ctx, s.publisher, s.logger, evts...)
	return inventory, nil
}

// Update overwrites quantity and minimum stock level
func (s *InventoryService) Update(ctx context.Context, cmd commands.UpdateInventoryCommand) (*domain.Inventory, error) {
	var (
		inventory *domain.Inventory
		wasLow    bool
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		inventory, err = s.find(ctx, repos, cmd.ID)
		if err != nil {
			return err
		}
		wasLow = inventory.IsLowStock()

		inventory.Quantity = cmd.Quantity
		inventory.MinStockLevel = cmd.MinStockLevel
		inventory.LastUpdated = s.now()
		if err := inventory.Validate(); err != nil {
			return err
		}

		return translateStoreError(repos.Inventory.Update(ctx, inventory), "inventory conflict")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Inventory updated", zap.String("inventory_id", inventory.ID.String()))
	evts := []events.Event{events.InventoryUpdatedEvent{
		InventoryID:   inventory.ID,
		ProductID:     inventory.ProductID(),
		Quantity:      inventory.Quantity,
		MinStockLevel: inventory.MinStockLevel,
		OccurredAt:    inventory.LastUpdated,
	}}
	if !wasLow && inventory.IsLowStock() {
		evts = append(evts, lowStockEvent(inventory))
	}
	publishAll(ctx, s.publisher, s.logger, evts...)
	return inventory, nil
}

// SetStock overwrites the quantity of a product's inventory
func (s *InventoryService) SetStock(ctx context.Context, cmd commands.StockCommand) (*domain.Inventory, error) {
	return s.mutateStock(ctx, cmd, events.StockOperationSet, (*domain.Inventory).SetStock)
}

// AddStock increases the quantity of a product's inventory
func (s *InventoryService) AddStock(ctx context.Context, cmd commands.StockCommand) (*domain.Inventory, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.InvalidArgumentf("quantity to add must be positive: %d", cmd.Quantity)
	}
	return s.mutateStock(ctx, cmd, events.StockOperationAdd, (*domain.Inventory).AddStock)
}

// RemoveStock decreases the quantity of a product's inventory; it never goes below zero
func (s *InventoryService) RemoveStock(ctx context.Context, cmd commands.StockCommand) (*domain.Inventory, error) {
	if cmd.Quantity <= 0 {
		return nil, domain.InvalidArgumentf("quantity to remove must be positive: %d", cmd.Quantity)
	}
	return s.mutateStock(ctx, cmd, events.StockOperationRemove, (*domain.Inventory).RemoveStock)
}

type stockMutation func(inv *domain.Inventory, quantity int, now time.Time) error

func (s *InventoryService) mutateStock(ctx context.Context, cmd commands.StockCommand, operation string, mutate stockMutation) (*domain.Inventory, error) {
	var (
		inventory *domain.Inventory
		previous  int
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		inventory, err = s.findByProduct(ctx, repos, cmd.ProductID)
		if err != nil {
			return err
		}
		previous = inventory.Quantity

		if err := mutate(inventory, cmd.Quantity, s.now()); err != nil {
			return err
		}
		return translateStoreError(repos.Inventory.Update(ctx, inventory), "inventory conflict")
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Stock changed",
		zap.String("product_id", cmd.ProductID.String()),
		zap.String("operation", operation),
		zap.Int("previous_quantity", previous),
		zap.Int("new_quantity", inventory.Quantity),
	)

	evts := []events.Event{events.StockChangedEvent{
		InventoryID:      inventory.ID,
		ProductID:        inventory.ProductID(),
		SKU:              inventory.Product.SKU,
		Operation:        operation,
		Quantity:         cmd.Quantity,
		PreviousQuantity: previous,
		NewQuantity:      inventory.Quantity,
		OccurredAt:       inventory.LastUpdated,
	}}
	if previous > inventory.MinStockLevel && inventory.IsLowStock() {
		evts = append(evts, lowStockEvent(inventory))
	}
	publishAll(ctx, s.publisher, s.logger, evts...)
	return inventory, nil
}

func (s *InventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	var inventory *domain.Inventory
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		inventory, err = s.find(ctx, repos, id)
		if err != nil {
			return err
		}
		return repos.Inventory.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Info("Inventory deleted", zap.String("inventory_id", id.String()))
	publishAll(ctx, s.publisher, s.logger, events.InventoryDeletedEvent{
		InventoryID: id,
		ProductID:   inventory.ProductID(),
		OccurredAt:  s.now(),
	})
	return nil
}

func lowStockEvent(inv *domain.Inventory) events.LowStockDetectedEvent {
	e := events.LowStockDetectedEvent{
		InventoryID:   inv.ID,
		ProductID:     inv.ProductID(),
		Quantity:      inv.Quantity,
		MinStockLevel: inv.MinStockLevel,
		OccurredAt:    inv.LastUpdated,
	}
	if inv.Product != nil {
		e.SKU = inv.Product.SKU
	}
	return e
}
