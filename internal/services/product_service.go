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

// ProductService manages products. Category references are resolved through CategoryService.
type ProductService struct {
	store      repository.Store
	categories *CategoryService
	publisher  events.EventPublisher
	logger     *zap.Logger
}

func NewProductService(store repository.Store, categories *CategoryService, publisher events.EventPublisher, logger *zap.Logger) *ProductService {
	return &ProductService{
		store:      store,
		categories: categories,
		publisher:  publisher,
		logger:     logger,
	}
}

func (s *ProductService) List(ctx context.Context) ([]domain.Product, error) {
	return s.store.Repositories().Products.FindAll(ctx)
}

func (s *ProductService) Get(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	return s.find(ctx, s.store.Repositories(), id)
}

func (s *ProductService) find(ctx context.Context, repos repository.Repositories, id uuid.UUID) (*domain.Product, error) {
	product, err := repos.Products.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.NotFoundf("product not found with id: %s", id)
		}
		return nil, err
	}
	return product, nil
}

// ListByCategory fails NotFound when the category does not exist
func (s *ProductService) ListByCategory(ctx context.Context, categoryID uuid.UUID) ([]domain.Product, error) {
	repos := s.store.Repositories()
	if _, err := s.categories.find(ctx, repos, categoryID); err != nil {
		return nil, err
	}
	return repos.Products.FindByCategory(ctx, categoryID)
}

func (s *ProductService) Create(ctx context.Context, cmd commands.CreateProductCommand) (*domain.Product, error) {
	var product *domain.Product
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var category *domain.Category
		if cmd.CategoryID != nil {
			var err error
			if category, err = s.categories.find(ctx, repos, *cmd.CategoryID); err != nil {
				return err
			}
		}

		product = domain.NewProduct(cmd.Name, cmd.Description, cmd.Price, cmd.SKU, category)
		if err := product.Validate(); err != nil {
			return err
		}

		return translateStoreError(repos.Products.Create(ctx, product),
			"product already exists with sku: "+product.SKU)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("sku", product.SKU),
	)
	publishAll(ctx, s.publisher, s.logger, events.ProductCreatedEvent{
		ProductID:  product.ID,
		Name:       product.Name,
		SKU:        product.SKU,
		Price:      product.Price,
		CategoryID: categoryRef(product),
		OccurredAt: time.Now().UTC(),
	})
	return product, nil
}

// Update overwrites name, description, price and sku. The category is only
// replaced when the command names one.
func (s *ProductService) Update(ctx context.Context, cmd commands.UpdateProductCommand) (*domain.Product, error) {
	var product *domain.Product
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		product, err = s.find(ctx, repos, cmd.ID)
		if err != nil {
			return err
		}

		category := product.Category
		if cmd.CategoryID != nil {
			if category, err = s.categories.find(ctx, repos, *cmd.CategoryID); err != nil {
				return err
			}
		}

		updated := domain.NewProduct(cmd.Name, cmd.Description, cmd.Price, cmd.SKU, category)
		updated.ID = product.ID
		if err := updated.Validate(); err != nil {
			return err
		}
		product = updated

		return translateStoreError(repos.Products.Update(ctx, product),
			"product already exists with sku: "+product.SKU)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Product updated", zap.String("product_id", product.ID.String()))
	publishAll(ctx, s.publisher, s.logger, events.ProductUpdatedEvent{
		ProductID:  product.ID,
		Name:       product.Name,
		SKU:        product.SKU,
		Price:      product.Price,
		CategoryID: categoryRef(product),
		OccurredAt: time.Now().UTC(),
	})
	return product, nil
}

// Delete removes the product together with its inventory record
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	var (
		product   *domain.Product
		inventory *domain.Inventory
	)
	err := s.store.WithinTx(ctx, func(repos repository.Repositories) error {
		var err error
		product, err = s.find(ctx, repos, id)
		if err != nil {
			return err
		}

		inventory, err = repos.Inventory.FindByProduct(ctx, id)
		switch {
		case err == nil:
			if err := repos.Inventory.Delete(ctx, inventory.ID); err != nil {
				return err
			}
		case errors.Is(err, repository.ErrNotFound):
			inventory = nil
		default:
			return err
		}

		return translateStoreError(repos.Products.Delete(ctx, id), "product conflict")
	})
	if err != nil {
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	now := time.Now().UTC()
	var evts []events.Event
	if inventory != nil {
		evts = append(evts, events.InventoryDeletedEvent{
			InventoryID: inventory.ID,
			ProductID:   id,
			OccurredAt:  now,
		})
	}
	evts = append(evts, events.ProductDeletedEvent{ProductID: id, SKU: product.SKU, OccurredAt: now})
	publishAll(ctx, s.publisher, s.logger, evts...)
	return nil
}

func categoryRef(p *domain.Product) *uuid.UUID {
	if p.Category == nil {
		return nil
	}
	id := p.Category.ID
	return &id
}
